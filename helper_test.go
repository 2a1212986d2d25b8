package portfolio

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// funds listed in test catalogs.
const (
	fundA = "IE00B4L5Y983"
	fundB = "IE00B5BMR087"
	// fundX is a valid ISIN that test catalogs never list.
	fundX = "IE00B3F81R35"
)

// d is a helper for test to create exact decimals from strings.
func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// EUR is a helper for test to create euro money from a decimal string.
func EUR(s string) Money { return M(d(s), "EUR") }

// testCatalog lists fundA and fundB at the given prices.
func testCatalog(t *testing.T, priceA, priceB string) *MemoryCatalog {
	t.Helper()
	c, err := NewMemoryCatalog(
		Instrument{ISIN: fundA, Name: "Fund A", Currency: "EUR", Price: d(priceA)},
		Instrument{ISIN: fundB, Name: "Fund B", Currency: "EUR", Price: d(priceB)},
	)
	require.NoError(t, err)
	return c
}

// testClock returns a clock that advances one minute per call.
func testClock() func() time.Time {
	var n atomic.Int64
	start := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return start.Add(time.Duration(n.Add(1)) * time.Minute) }
}

// testIDs returns sequential ids tx-1, tx-2...
func testIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("tx-%d", n.Add(1)) }
}

func newTestPortfolio(t *testing.T, c Catalog, live Store, opts ...Option) *Portfolio {
	t.Helper()
	opts = append([]Option{WithClock(testClock()), WithIDGenerator(testIDs())}, opts...)
	p, err := New(context.Background(), c, live, opts...)
	require.NoError(t, err)
	return p
}

// failingStore rejects every append.
type failingStore struct{ *MemoryStore }

func (failingStore) Append(ctx context.Context, tx Transaction) error {
	return fmt.Errorf("disk full")
}
