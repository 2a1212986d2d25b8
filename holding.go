package portfolio

// Holding is an open position in one instrument.
//
// CostBasis is the money invested in the position, net of the cost removed by
// partial sells. Both fields are always positive for a holding in a ledger.
type Holding struct {
	ISIN      string   `json:"isin"`
	Shares    Quantity `json:"shares"`
	CostBasis Money    `json:"costBasis"`
}

// AverageCost returns the cost basis per share.
func (h Holding) AverageCost() Money {
	if h.Shares.IsZero() {
		return M(0, h.CostBasis.Currency())
	}
	return h.CostBasis.Div(h.Shares)
}

// Value returns the market value of the position at price.
func (h Holding) Value(price Money) Money { return price.Mul(h.Shares) }

// Return returns the unrealized gain of the position at price.
func (h Holding) Return(price Money) Money { return h.Value(price).Sub(h.CostBasis) }
