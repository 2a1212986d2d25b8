package portfolio

import "github.com/shopspring/decimal"

// HoldingValuation is a holding priced at the current catalog price.
type HoldingValuation struct {
	Holding
	Instrument       Instrument `json:"instrument"`
	Price            Money      `json:"price"`
	FallbackPrice    bool       `json:"fallbackPrice,omitempty"`
	Value            Money      `json:"value"`
	Return           Money      `json:"return"`
	ReturnPercentage Percent    `json:"returnPercentage"`
	// Weight is the share of the invested value, cash excluded.
	Weight Percent `json:"weight"`
}

// Valuation is the aggregate view of a ledger at current prices.
type Valuation struct {
	Currency              string             `json:"currency"`
	Cash                  Money              `json:"cash"`
	TotalValue            Money              `json:"totalValue"`
	TotalInvested         Money              `json:"totalInvested"`
	TotalReturn           Money              `json:"totalReturn"`
	TotalReturnPercentage Percent            `json:"totalReturnPercentage"`
	Holdings              []HoldingValuation `json:"holdings"`
}

// InvestedValue returns the market value of the holdings, cash excluded.
func (v Valuation) InvestedValue() Money { return v.TotalValue.Sub(v.Cash) }

// HasFallback reports whether any holding is valued at DefaultPrice.
func (v Valuation) HasFallback() bool {
	for _, hv := range v.Holdings {
		if hv.FallbackPrice {
			return true
		}
	}
	return false
}

// Holding returns the valuation of the position in isin.
func (v Valuation) Holding(isin string) (HoldingValuation, bool) {
	for _, hv := range v.Holdings {
		if hv.ISIN == isin {
			return hv, true
		}
	}
	return HoldingValuation{}, false
}

// Valuate prices every holding of l with c. It has no side effect and is
// meant to be called on every read.
func Valuate(l *Ledger, c Catalog) Valuation {
	cur := l.Currency()
	v := Valuation{
		Currency:      cur,
		Cash:          l.Cash(),
		TotalValue:    l.Cash(),
		TotalInvested: M(0, cur),
		TotalReturn:   M(0, cur),
		Holdings:      []HoldingValuation{},
	}

	for _, h := range l.Holdings() {
		hv := HoldingValuation{Holding: h}
		if c != nil {
			hv.Instrument, _ = c.Instrument(h.ISIN)
		}
		if hv.Instrument.ISIN == "" {
			hv.Instrument.ISIN = h.ISIN
		}
		var live bool
		hv.Price, live = PriceOf(c, h.ISIN, cur)
		hv.FallbackPrice = !live
		hv.Value = h.Value(hv.Price)
		hv.Return = h.Return(hv.Price)
		hv.ReturnPercentage = hv.Return.Ratio(h.CostBasis)

		v.TotalValue = v.TotalValue.Add(hv.Value)
		v.TotalInvested = v.TotalInvested.Add(h.CostBasis)
		v.TotalReturn = v.TotalReturn.Add(hv.Return)
		v.Holdings = append(v.Holdings, hv)
	}

	invested := v.InvestedValue()
	for i := range v.Holdings {
		v.Holdings[i].Weight = v.Holdings[i].Value.Ratio(invested)
	}
	if v.TotalInvested.IsPositive() {
		v.TotalReturnPercentage = v.TotalReturn.Ratio(v.TotalInvested)
	}
	return v
}

// Weights returns the exact weight of each holding in the invested value, by ISIN.
func (v Valuation) Weights() map[string]decimal.Decimal {
	w := make(map[string]decimal.Decimal, len(v.Holdings))
	invested := v.InvestedValue().Decimal()
	for _, hv := range v.Holdings {
		if invested.IsZero() {
			w[hv.ISIN] = decimal.Zero
			continue
		}
		w[hv.ISIN] = hv.Value.Decimal().Div(invested).Mul(decimal.NewFromInt(100))
	}
	return w
}
