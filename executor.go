package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Order is an executable transaction prepared against a ledger state.
type Order struct {
	Transaction
	// FallbackPrice is true when the catalog had no price and DefaultPrice was used.
	FallbackPrice bool
}

// PlanDeposit prepares a deposit of amount.
func PlanDeposit(l *Ledger, amount decimal.Decimal) (Transaction, error) {
	tx := Transaction{Command: CmdDeposit, Amount: M(amount, l.Currency())}
	if err := l.Validate(tx); err != nil {
		return Transaction{}, fmt.Errorf("cannot deposit: %w", err)
	}
	return tx, nil
}

// PlanWithdrawal prepares a withdrawal of amount. It fails with
// ErrInsufficientFunds if amount is more than the cash balance.
func PlanWithdrawal(l *Ledger, amount decimal.Decimal) (Transaction, error) {
	tx := Transaction{Command: CmdWithdrawal, Amount: M(amount, l.Currency())}
	if err := l.Validate(tx); err != nil {
		return Transaction{}, fmt.Errorf("cannot withdraw: %w", err)
	}
	return tx, nil
}

// PlanBuy prepares a purchase of isin at the catalog price. value is a money
// amount or a number of shares depending on method.
func PlanBuy(l *Ledger, c Catalog, isin string, value decimal.Decimal, method QuantityMethod) (Order, error) {
	if err := checkOrder(isin, value, method); err != nil {
		return Order{}, fmt.Errorf("cannot buy: %w", err)
	}
	price, live := PriceOf(c, isin, l.Currency())

	var shares Quantity
	var cost Money
	switch method {
	case ByAmount:
		cost = M(value, l.Currency())
		shares = cost.DivPrice(price)
	case ByShares:
		shares = Q(value)
		cost = price.Mul(shares)
	}

	tx := Transaction{Command: CmdBuy, ISIN: isin, Shares: shares, Price: price, Amount: cost}
	if err := l.Validate(tx); err != nil {
		return Order{}, fmt.Errorf("cannot buy %s: %w", isin, err)
	}
	return Order{Transaction: tx, FallbackPrice: !live}, nil
}

// PlanSell prepares a sale of isin at the catalog price. A request that
// exceeds the held shares by no more than DustThreshold sells the whole
// position.
func PlanSell(l *Ledger, c Catalog, isin string, value decimal.Decimal, method QuantityMethod) (Order, error) {
	if err := checkOrder(isin, value, method); err != nil {
		return Order{}, fmt.Errorf("cannot sell: %w", err)
	}
	h, ok := l.Holding(isin)
	if !ok {
		return Order{}, fmt.Errorf("cannot sell: %w in %s", ErrNotFound, isin)
	}
	price, live := PriceOf(c, isin, l.Currency())

	shares := Q(value)
	if method == ByAmount {
		shares = M(value, l.Currency()).DivPrice(price)
	}
	if shares.GreaterThan(h.Shares) && shares.Sub(h.Shares).IsDust() {
		shares = h.Shares
	}

	tx := Transaction{Command: CmdSell, ISIN: isin, Shares: shares, Price: price, Amount: price.Mul(shares)}
	if err := l.Validate(tx); err != nil {
		return Order{}, fmt.Errorf("cannot sell %s: %w", isin, err)
	}
	return Order{Transaction: tx, FallbackPrice: !live}, nil
}

func checkOrder(isin string, value decimal.Decimal, method QuantityMethod) error {
	if err := ValidateISIN(isin); err != nil {
		return err
	}
	if method != ByAmount && method != ByShares {
		return fmt.Errorf("%w: %d", ErrInvalidMethod, int(method))
	}
	if !value.IsPositive() {
		return fmt.Errorf("%w: %s %s", ErrInvalidQuantity, value, method)
	}
	return nil
}
