package portfolio

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/etnz/etfportfolio/date"
	"github.com/shopspring/decimal"
)

// CommandType is a typed string for identifying transaction commands.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdDeposit    CommandType = "deposit"
	CmdWithdrawal CommandType = "withdrawal"
	CmdBuy        CommandType = "buy"
	CmdSell       CommandType = "sell"
)

// Status of an executed transaction. Only completed transactions are ever recorded.
type Status string

const StatusCompleted Status = "completed"

// Transaction is an immutable record of one cash movement or order.
//
// Amount is always positive: the money deposited, withdrawn, paid for a buy or
// received from a sell. ISIN, Shares and Price are set for buy and sell only.
type Transaction struct {
	ID      string
	Command CommandType
	Date    time.Time
	ISIN    string
	Shares  Quantity
	Price   Money
	Amount  Money
	Status  Status
	Memo    string
}

// What returns the command type of the transaction.
func (t Transaction) What() CommandType { return t.Command }

// When returns the execution time.
func (t Transaction) When() time.Time { return t.Date }

// Day returns the UTC day of execution.
func (t Transaction) Day() date.Date { return date.Of(t.Date) }

// Currency returns the currency of the amount.
func (t Transaction) Currency() string { return t.Amount.Currency() }

// IsOrder reports whether t is a buy or a sell.
func (t Transaction) IsOrder() bool { return t.Command == CmdBuy || t.Command == CmdSell }

// Equal compares two transactions field by field, decimals by value.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Command == o.Command &&
		t.Date.Equal(o.Date) &&
		t.ISIN == o.ISIN &&
		t.Shares.Equal(o.Shares) &&
		t.Price.Equal(o.Price) &&
		t.Amount.Equal(o.Amount) &&
		t.Status == o.Status &&
		t.Memo == o.Memo
}

// validate checks the transaction is well formed, independently of any ledger state.
func (t Transaction) validate() error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: %s %s must be positive", ErrInvalidAmount, t.Command, t.Amount.Decimal())
	}
	switch t.Command {
	case CmdDeposit, CmdWithdrawal:
		return nil
	case CmdBuy, CmdSell:
		if err := ValidateISIN(t.ISIN); err != nil {
			return err
		}
		if !t.Shares.IsPositive() {
			return fmt.Errorf("%w: %s of %s shares", ErrInvalidQuantity, t.Command, t.Shares)
		}
		if !t.Price.IsPositive() {
			return fmt.Errorf("%w: %s at price %s", ErrInvalidAmount, t.Command, t.Price.Decimal())
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", t.Command)
	}
}

// MarshalJSON writes a flat object with a stable field order.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Command)
	w.Optional("id", t.ID)
	w.Append("date", t.Date.UTC().Format(time.RFC3339Nano))
	w.Optional("isin", t.ISIN)
	if t.IsOrder() {
		w.Append("shares", t.Shares)
		w.Append("price", t.Price.Decimal())
	}
	w.Append("amount", t.Amount.Decimal())
	w.Append("currency", t.Amount.Currency())
	w.Optional("status", t.Status)
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var aux struct {
		Command  CommandType     `json:"command"`
		ID       string          `json:"id"`
		Date     time.Time       `json:"date"`
		ISIN     string          `json:"isin"`
		Shares   decimal.Decimal `json:"shares"`
		Price    decimal.Decimal `json:"price"`
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
		Status   Status          `json:"status"`
		Memo     string          `json:"memo"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*t = Transaction{
		ID:      aux.ID,
		Command: aux.Command,
		Date:    aux.Date.UTC(),
		ISIN:    aux.ISIN,
		Amount:  M(aux.Amount, aux.Currency),
		Status:  aux.Status,
		Memo:    aux.Memo,
	}
	if t.IsOrder() {
		t.Shares = Q(aux.Shares)
		t.Price = M(aux.Price, aux.Currency)
	}
	return nil
}
