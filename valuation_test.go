package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuate_Demo(t *testing.T) {
	l, err := Replay("EUR", DemoTransactions("EUR"))
	require.NoError(t, err)

	v := Valuate(l, DemoCatalog())
	assert.True(t, v.Cash.Equal(EUR("3887")))
	assert.True(t, v.TotalValue.Equal(EUR("12561.1")), "total value %s", v.TotalValue.Decimal())
	assert.True(t, v.InvestedValue().Equal(EUR("8674.1")))
	assert.True(t, v.TotalInvested.Equal(EUR("7643")))
	assert.True(t, v.TotalReturn.Equal(EUR("1031.1")))
	assert.InDelta(t, 13.4908, float64(v.TotalReturnPercentage), 0.0001)

	require.Len(t, v.Holdings, 4)
	world := v.Holdings[0]
	assert.Equal(t, "IE00B4L5Y983", world.ISIN)
	assert.Equal(t, "iShares Core MSCI World UCITS ETF", world.Instrument.Name)
	assert.True(t, world.Value.Equal(EUR("3936")))
	assert.True(t, world.Return.Equal(EUR("528")))
	assert.InDelta(t, 15.4930, float64(world.ReturnPercentage), 0.0001)
	assert.InDelta(t, 45.3765, float64(world.Weight), 0.0001)
	assert.False(t, world.FallbackPrice)

	var total Percent
	for _, hv := range v.Holdings {
		total += hv.Weight
	}
	assert.InDelta(t, 100, float64(total), 1e-9)
}

func TestValuate_CashOnly(t *testing.T) {
	l := fundedLedger(t, "250", "")
	v := Valuate(l, nil)
	assert.True(t, v.TotalValue.Equal(EUR("250")))
	assert.True(t, v.TotalInvested.IsZero())
	assert.Zero(t, v.TotalReturnPercentage)
	assert.Empty(t, v.Holdings)
}

func TestValuate_Fallback(t *testing.T) {
	l := fundedLedger(t, "1000", "3") // bought at 100
	v := Valuate(l, nil)
	require.Len(t, v.Holdings, 1)
	assert.True(t, v.Holdings[0].FallbackPrice)
	assert.True(t, v.Holdings[0].Price.Equal(EUR("100")))
	assert.Equal(t, fundA, v.Holdings[0].Instrument.ISIN)
	assert.True(t, v.TotalReturn.IsZero())
}

func TestValuate_Weights(t *testing.T) {
	l := fundedLedger(t, "1000", "3")
	catalog := testCatalog(t, "100", "50")
	order, err := PlanBuy(l, catalog, fundB, d("2"), ByShares)
	require.NoError(t, err)
	require.NoError(t, l.Apply(order.Transaction))

	w := Valuate(l, catalog).Weights()
	assert.True(t, w[fundA].Equal(d("75")), "weight A %s", w[fundA])
	assert.True(t, w[fundB].Equal(d("25")), "weight B %s", w[fundB])
}

func TestValuate_IsPure(t *testing.T) {
	l := fundedLedger(t, "1000", "3")
	before := l.Clone()
	Valuate(l, testCatalog(t, "130", "50"))
	assert.Equal(t, before, l)
}
