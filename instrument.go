package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Instrument is the catalog description of an exchange-traded fund.
type Instrument struct {
	ISIN        string          `json:"isin"`
	Name        string          `json:"name"`
	Category    string          `json:"category,omitempty"`
	Subcategory string          `json:"subcategory,omitempty"`
	Currency    string          `json:"currency,omitempty"`
	TER         Percent         `json:"ter,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ChangeDay   Percent         `json:"changeDay,omitempty"`
	ChangeYear  Percent         `json:"changeYear,omitempty"`
}

// Validate checks the instrument can be listed in a catalog.
func (i Instrument) Validate() error {
	if err := ValidateISIN(i.ISIN); err != nil {
		return err
	}
	if i.Currency != "" {
		if err := ValidateCurrency(i.Currency); err != nil {
			return fmt.Errorf("instrument %s: %w", i.ISIN, err)
		}
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("instrument %s: negative price %s", i.ISIN, i.Price)
	}
	return nil
}
