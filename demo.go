package portfolio

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DemoStore serves the fixed demonstration ledger. Appends are accepted and
// dropped, so every Load starts from the same dataset.
type DemoStore struct {
	currency string
}

// NewDemoStore returns the demonstration store. The dataset amounts are
// interpreted in currency.
func NewDemoStore(currency string) *DemoStore { return &DemoStore{currency: currency} }

func (s *DemoStore) Load(ctx context.Context) (*Ledger, error) {
	return Replay(s.currency, DemoTransactions(s.currency))
}

func (s *DemoStore) Append(ctx context.Context, tx Transaction) error { return nil }

// DemoTransactions returns the demonstration log in chronological order.
func DemoTransactions(currency string) []Transaction {
	day := func(s string) time.Time {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			panic(err)
		}
		return t.Add(9 * time.Hour)
	}
	cash := func(cmd CommandType, on, amount string) Transaction {
		return Transaction{
			Command: cmd,
			Date:    day(on),
			Amount:  M(decimal.RequireFromString(amount), currency),
		}
	}
	order := func(cmd CommandType, on, isin, shares, price string) Transaction {
		q := Q(decimal.RequireFromString(shares))
		p := M(decimal.RequireFromString(price), currency)
		return Transaction{
			Command: cmd,
			Date:    day(on),
			ISIN:    isin,
			Shares:  q,
			Price:   p,
			Amount:  p.Mul(q),
		}
	}

	txs := []Transaction{
		cash(CmdDeposit, "2024-01-02", "10000"),
		order(CmdBuy, "2024-01-03", "IE00B4L5Y983", "40", "85.20"),
		order(CmdBuy, "2024-01-03", "IE00BKM4GZ66", "50", "29.50"),
		order(CmdBuy, "2024-02-01", "IE00B5BMR087", "5", "470"),
		cash(CmdDeposit, "2024-03-15", "2000"),
		order(CmdBuy, "2024-04-02", "LU0908500753", "4", "250"),
		order(CmdSell, "2024-06-03", "IE00BKM4GZ66", "20", "31"),
		cash(CmdWithdrawal, "2024-09-02", "500"),
	}
	for i := range txs {
		txs[i].ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte{'d', 'e', 'm', 'o', byte(i)}).String()
		txs[i].Status = StatusCompleted
	}
	return txs
}

// DemoCatalog returns a small catalog covering the demonstration ledger.
func DemoCatalog() *MemoryCatalog {
	inst := func(isin, name, cat, sub, ter, price, day, year string) Instrument {
		pct := func(s string) Percent { return Percent(decimal.RequireFromString(s).InexactFloat64()) }
		return Instrument{
			ISIN:        isin,
			Name:        name,
			Category:    cat,
			Subcategory: sub,
			Currency:    "EUR",
			TER:         pct(ter),
			Price:       decimal.RequireFromString(price),
			ChangeDay:   pct(day),
			ChangeYear:  pct(year),
		}
	}
	c, err := NewMemoryCatalog(
		inst("IE00B4L5Y983", "iShares Core MSCI World UCITS ETF", "Equity", "Global", "0.20", "98.40", "0.42", "15.80"),
		inst("IE00BKM4GZ66", "iShares Core MSCI EM IMI UCITS ETF", "Equity", "Emerging Markets", "0.18", "32.10", "-0.35", "8.90"),
		inst("IE00B5BMR087", "iShares Core S&P 500 UCITS ETF", "Equity", "United States", "0.07", "545.30", "0.61", "22.40"),
		inst("LU0908500753", "Amundi Core Stoxx Europe 600 UCITS ETF", "Equity", "Europe", "0.07", "262.15", "-0.12", "7.30"),
		inst("IE00BK5BQT80", "Vanguard FTSE All-World UCITS ETF", "Equity", "Global", "0.22", "121.40", "0.38", "14.10"),
		inst("DE0005933931", "iShares Core DAX UCITS ETF", "Equity", "Germany", "0.16", "180.50", "0.85", "12.60"),
		inst("IE00B3F81R35", "iShares Core EUR Corporate Bond UCITS ETF", "Bonds", "Corporate", "0.20", "118.90", "0.05", "3.20"),
	)
	if err != nil {
		panic(err)
	}
	return c
}
