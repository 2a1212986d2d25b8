package portfolio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCatalog_DefaultMapping(t *testing.T) {
	doc := `{
	  "instruments": [
	    {"isin": "IE00B4L5Y983", "name": "World", "category": "Equity", "currency": "EUR", "ter": 0.2, "price": 98.40, "changeDay": -0.5},
	    {"isin": "IE00B5BMR087", "name": "S&P 500", "price": "545.30"}
	  ]
	}`
	c, err := DecodeCatalog(strings.NewReader(doc), DefaultCatalogMapping())
	require.NoError(t, err)

	list := c.List()
	require.Len(t, list, 2)
	world, ok := c.Instrument("IE00B4L5Y983")
	require.True(t, ok)
	assert.Equal(t, "World", world.Name)
	assert.Equal(t, "Equity", world.Category)
	assert.True(t, world.Price.Equal(d("98.4")))
	assert.InDelta(t, 0.2, float64(world.TER), 1e-9)
	assert.InDelta(t, -0.5, float64(world.ChangeDay), 1e-9)

	sp, ok := c.Instrument("IE00B5BMR087")
	require.True(t, ok)
	assert.True(t, sp.Price.Equal(d("545.30")))
	assert.Empty(t, sp.Category)
}

func TestDecodeCatalog_CustomMapping(t *testing.T) {
	doc := `{"data": {"funds": [{"id": {"isin": "LU0908500753"}, "label": "Europe 600", "quote": {"last": 262.15}}]}}`
	mapping := CatalogMapping{
		Items: "$.data.funds[*]",
		ISIN:  "$.id.isin",
		Name:  "$.label",
		Price: "$.quote.last",
	}
	c, err := DecodeCatalog(strings.NewReader(doc), mapping)
	require.NoError(t, err)
	inst, ok := c.Instrument("LU0908500753")
	require.True(t, ok)
	assert.Equal(t, "Europe 600", inst.Name)
	assert.True(t, inst.Price.Equal(d("262.15")))
}

func TestDecodeCatalog_Errors(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{"not json", `{"instruments": [`},
		{"missing isin", `{"instruments": [{"name": "x", "price": 1}]}`},
		{"invalid isin", `{"instruments": [{"isin": "IE00B4L5Y984", "price": 1}]}`},
		{"missing price", `{"instruments": [{"isin": "IE00B4L5Y983"}]}`},
		{"price not a number", `{"instruments": [{"isin": "IE00B4L5Y983", "price": true}]}`},
		{"negative price", `{"instruments": [{"isin": "IE00B4L5Y983", "price": -1}]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeCatalog(strings.NewReader(tc.doc), DefaultCatalogMapping())
			assert.Error(t, err)
		})
	}
}

func TestFetchCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"instruments": [{"isin": "DE0005933931", "name": "DAX", "price": 180.5}]}`))
	}))
	defer srv.Close()

	c, err := FetchCatalog(context.Background(), srv.Client(), srv.URL+"/catalog.json", DefaultCatalogMapping())
	require.NoError(t, err)
	assert.Len(t, c.List(), 1)

	_, err = FetchCatalog(context.Background(), srv.Client(), srv.URL+"/missing", DefaultCatalogMapping())
	assert.Error(t, err)
}

func TestPriceOf(t *testing.T) {
	c := testCatalog(t, "98.4", "0")

	p, ok := PriceOf(c, fundA, "EUR")
	assert.True(t, ok)
	assert.True(t, p.Equal(EUR("98.4")))

	// zero price and unlisted instruments fall back to the default price.
	for _, isin := range []string{fundB, fundX} {
		p, ok = PriceOf(c, isin, "EUR")
		assert.False(t, ok, isin)
		assert.True(t, p.Equal(EUR("100")), isin)
	}

	p, ok = PriceOf(nil, fundA, "USD")
	assert.False(t, ok)
	assert.Equal(t, "USD", p.Currency())

	// a price quoted in another currency is not used as is.
	p, ok = PriceOf(c, fundA, "USD")
	assert.False(t, ok)
	assert.True(t, p.Equal(M(DefaultPrice, "USD")))

	require.NoError(t, c.Put(Instrument{ISIN: fundB, Price: d("40")}))
	p, ok = PriceOf(c, fundB, "CHF")
	assert.True(t, ok, "no currency means any currency")
	assert.True(t, p.Equal(M(d("40"), "CHF")))
}

func TestMemoryCatalog_Put(t *testing.T) {
	c, err := NewMemoryCatalog()
	require.NoError(t, err)
	assert.Error(t, c.Put(Instrument{ISIN: "nope"}))
	assert.Error(t, c.Put(Instrument{ISIN: fundA, Currency: "euro"}))
	assert.Error(t, c.SetPrice(fundA, d("1")))
	require.NoError(t, c.Put(Instrument{ISIN: fundA, Price: d("1")}))
	require.NoError(t, c.SetPrice(fundA, d("2")))
	inst, _ := c.Instrument(fundA)
	assert.True(t, inst.Price.Equal(d("2")))
}
