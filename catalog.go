package portfolio

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// DefaultPrice is the unit price used when the catalog has no usable price
// for an instrument. Orders and valuations still go through, flagged as
// using a fallback price.
var DefaultPrice = decimal.NewFromInt(100)

// Catalog is the read-only source of instruments and their current prices.
type Catalog interface {
	// Instrument returns the instrument for isin, if listed.
	Instrument(isin string) (Instrument, bool)
	// List returns all listed instruments ordered by ISIN.
	List() []Instrument
}

// PriceOf returns the unit price of isin expressed in currency. ok is false
// when the catalog had no positive price in currency and DefaultPrice was
// used. An instrument without a currency is listed in any currency.
func PriceOf(c Catalog, isin, currency string) (price Money, ok bool) {
	if c != nil {
		inst, found := c.Instrument(isin)
		listed := inst.Currency == "" || inst.Currency == currency
		if found && listed && inst.Price.IsPositive() {
			return M(inst.Price, currency), true
		}
	}
	return M(DefaultPrice, currency), false
}

// MemoryCatalog is a Catalog held in memory. It is safe for concurrent use,
// prices can be refreshed while a portfolio reads them.
type MemoryCatalog struct {
	mu          sync.RWMutex
	instruments map[string]Instrument
}

// NewMemoryCatalog returns a catalog listing instruments.
func NewMemoryCatalog(instruments ...Instrument) (*MemoryCatalog, error) {
	c := &MemoryCatalog{instruments: make(map[string]Instrument, len(instruments))}
	for _, inst := range instruments {
		if err := c.Put(inst); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Put adds or replaces an instrument.
func (c *MemoryCatalog) Put(inst Instrument) error {
	if err := inst.Validate(); err != nil {
		return fmt.Errorf("cannot list instrument: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instruments[inst.ISIN] = inst
	return nil
}

// SetPrice updates the price of a listed instrument.
func (c *MemoryCatalog) SetPrice(isin string, price decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	inst, ok := c.instruments[isin]
	if !ok {
		return fmt.Errorf("instrument %s is not listed", isin)
	}
	inst.Price = price
	c.instruments[isin] = inst
	return nil
}

func (c *MemoryCatalog) Instrument(isin string) (Instrument, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inst, ok := c.instruments[isin]
	return inst, ok
}

func (c *MemoryCatalog) List() []Instrument {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := make([]Instrument, 0, len(c.instruments))
	for _, inst := range c.instruments {
		list = append(list, inst)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ISIN < list[j].ISIN })
	return list
}
