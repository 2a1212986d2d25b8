package portfolio

import "errors"

// Errors returned by ledger operations. They are wrapped with the offending
// amounts, compare with errors.Is.
var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrNotFound           = errors.New("no holding")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidMethod      = errors.New("invalid quantity method")
	ErrInvalidISIN        = errors.New("invalid ISIN")
	ErrUnknownMode        = errors.New("unknown mode")
)
