package portfolio

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Ledger is the state of a portfolio: its cash balance, open holdings and the
// log of every transaction that produced them.
//
// A Ledger only changes through Apply, which either commits a transaction
// entirely or leaves the ledger untouched. It is not safe for concurrent use;
// Portfolio serializes access to it.
type Ledger struct {
	currency     string
	cash         Money
	holdings     map[string]Holding
	transactions []Transaction // chronological, append only
}

// NewLedger creates an empty ledger in currency.
func NewLedger(currency string) *Ledger {
	return &Ledger{
		currency: currency,
		cash:     M(0, currency),
		holdings: make(map[string]Holding),
	}
}

// Replay builds a ledger by applying txs in order.
func Replay(currency string, txs []Transaction) (*Ledger, error) {
	l := NewLedger(currency)
	for i, tx := range txs {
		if err := l.Apply(tx); err != nil {
			return nil, fmt.Errorf("cannot replay transaction #%d (%s): %w", i+1, tx.ID, err)
		}
	}
	return l, nil
}

// Currency returns the currency of every amount in the ledger.
func (l *Ledger) Currency() string { return l.currency }

// Cash returns the cash balance.
func (l *Ledger) Cash() Money { return l.cash }

// Holding returns the open position in isin, if any.
func (l *Ledger) Holding(isin string) (Holding, bool) {
	h, ok := l.holdings[isin]
	return h, ok
}

// Holdings returns the open positions ordered by ISIN.
func (l *Ledger) Holdings() []Holding {
	hs := slices.Collect(maps.Values(l.holdings))
	slices.SortFunc(hs, func(a, b Holding) int { return strings.Compare(a.ISIN, b.ISIN) })
	return hs
}

// Transactions returns a copy of the log, most recent first.
func (l *Ledger) Transactions() []Transaction {
	txs := slices.Clone(l.transactions)
	slices.Reverse(txs)
	return txs
}

// Len returns the number of transactions in the log.
func (l *Ledger) Len() int { return len(l.transactions) }

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{
		currency:     l.currency,
		cash:         l.cash,
		holdings:     maps.Clone(l.holdings),
		transactions: slices.Clone(l.transactions),
	}
}

// Validate checks that tx can be applied to the current state.
func (l *Ledger) Validate(tx Transaction) error {
	if err := tx.validate(); err != nil {
		return err
	}
	if cur := tx.Amount.Currency(); cur != l.currency {
		return fmt.Errorf("%w: %s is in %s, ledger is in %s", ErrInvalidAmount, tx.Command, cur, l.currency)
	}

	switch tx.Command {
	case CmdWithdrawal, CmdBuy:
		if tx.Amount.GreaterThan(l.cash) {
			return fmt.Errorf("%w: %s of %s exceeds cash balance %s", ErrInsufficientFunds, tx.Command, tx.Amount.Decimal(), l.cash.Decimal())
		}
		// a holding exists only above the dust threshold.
		if tx.Command == CmdBuy && l.holdings[tx.ISIN].Shares.Add(tx.Shares).IsDust() {
			return fmt.Errorf("%w: buying %s shares of %s leaves a dust position", ErrInvalidQuantity, tx.Shares, tx.ISIN)
		}
	case CmdSell:
		h, ok := l.holdings[tx.ISIN]
		if !ok {
			return fmt.Errorf("%w in %s", ErrNotFound, tx.ISIN)
		}
		if tx.Shares.GreaterThan(h.Shares) {
			return fmt.Errorf("%w: cannot sell %s shares of %s, only %s held", ErrInsufficientShares, tx.Shares, tx.ISIN, h.Shares)
		}
	}
	return nil
}

// Apply validates tx and commits it. On error the ledger is unchanged.
func (l *Ledger) Apply(tx Transaction) error {
	if err := l.Validate(tx); err != nil {
		return err
	}
	l.commit(tx)
	return nil
}

// commit mutates the state for a validated transaction.
func (l *Ledger) commit(tx Transaction) {
	switch tx.Command {
	case CmdDeposit:
		l.cash = l.cash.Add(tx.Amount)
	case CmdWithdrawal:
		l.cash = l.cash.Sub(tx.Amount)
	case CmdBuy:
		l.cash = l.cash.Sub(tx.Amount)
		h, ok := l.holdings[tx.ISIN]
		if !ok {
			h = Holding{ISIN: tx.ISIN, Shares: Q(0), CostBasis: M(0, l.currency)}
		}
		// weighted average: the cost per share is implied by the two totals.
		h.Shares = h.Shares.Add(tx.Shares)
		h.CostBasis = h.CostBasis.Add(tx.Amount)
		l.holdings[tx.ISIN] = h
	case CmdSell:
		l.cash = l.cash.Add(tx.Amount)
		h := l.holdings[tx.ISIN]
		remaining := h.Shares.Sub(tx.Shares)
		if remaining.IsDust() {
			delete(l.holdings, tx.ISIN)
			break
		}
		removed := h.CostBasis.Mul(tx.Shares).Div(h.Shares)
		h.Shares = remaining
		h.CostBasis = h.CostBasis.Sub(removed)
		l.holdings[tx.ISIN] = h
	}
	l.transactions = append(l.transactions, tx)
}
