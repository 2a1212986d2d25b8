// Package portfolio is the ledger engine of an ETF portfolio: cash held in a
// single currency and fractional positions in exchange-traded funds.
//
// The state of a portfolio is derived from an immutable, append-only log of
// transactions (deposit, withdrawal, buy, sell):
//   - Ledger holds the cash balance, the open holdings and the log. It only
//     changes by applying a validated Transaction, entirely or not at all.
//   - PlanDeposit, PlanWithdrawal, PlanBuy and PlanSell turn a request into a
//     Transaction, pricing orders with a Catalog. Cost basis is tracked with
//     the weighted-average method and removed proportionally on sells.
//   - Valuate derives totals, returns and weights from a Ledger on every read.
//   - Store persists the log. MemoryStore, FileStore (JSONL) and the database
//     package (SQLite) back the live ledger; DemoStore serves a fixed
//     demonstration dataset.
//   - Portfolio owns a Ledger, serializes every mutation and switches between
//     the live and demo ledgers.
//
// All amounts and share counts are exact decimals. A holding whose shares
// fall to DustThreshold or below is closed.
package portfolio
