package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portfolio "github.com/etnz/etfportfolio"
)

const world = "IE00B4L5Y983"

type holdingBody struct {
	ISIN         string                  `json:"isin"`
	Transactions []portfolio.Transaction `json:"transactions"`
}

type valuationBody struct {
	Cash struct {
		Amount decimal.Decimal `json:"amount"`
	} `json:"cash"`
	Holdings []json.RawMessage `json:"holdings"`
}

func newTestServer(t *testing.T) (*Server, *portfolio.MemoryStore) {
	t.Helper()
	store := portfolio.NewMemoryStore("EUR")
	p, err := portfolio.New(context.Background(), portfolio.DemoCatalog(), store)
	require.NoError(t, err)
	return New(Config{Log: zerolog.Nop(), Portfolio: p}), store
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRegisterRoutes(t *testing.T) {
	s, _ := newTestServer(t)

	testCases := []struct {
		method string
		path   string
		name   string
	}{
		{"GET", "/health", "Health"},
		{"GET", "/api/portfolio", "GetPortfolio"},
		{"GET", "/api/transactions", "GetTransactions"},
		{"GET", "/api/catalog", "GetCatalog"},
		{"GET", "/api/mode", "GetMode"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, tc.method, tc.path, "")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestCashAndOrders(t *testing.T) {
	s, store := newTestServer(t)

	rec := do(t, s, "POST", "/api/cash/deposit", `{"amount": "1000", "memo": "salary"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tx := decodeBody[portfolio.Transaction](t, rec)
	assert.Equal(t, portfolio.CmdDeposit, tx.Command)
	assert.Equal(t, "salary", tx.Memo)
	assert.NotEmpty(t, tx.ID)

	rec = do(t, s, "POST", "/api/orders/buy", `{"isin": "`+world+`", "value": "196.80", "method": "amount"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tx = decodeBody[portfolio.Transaction](t, rec)
	assert.True(t, tx.Shares.Decimal().Equal(decimal.NewFromInt(2)), tx.Shares.String())

	rec = do(t, s, "POST", "/api/orders/sell", `{"isin": "`+world+`", "value": 1, "method": "shares"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, "GET", "/api/holdings/"+world, "")
	require.Equal(t, http.StatusOK, rec.Code)
	holding := decodeBody[holdingBody](t, rec)
	assert.Equal(t, world, holding.ISIN)
	require.Len(t, holding.Transactions, 2)
	assert.Equal(t, portfolio.CmdSell, holding.Transactions[0].Command)

	rec = do(t, s, "GET", "/api/transactions", "")
	txs := decodeBody[[]portfolio.Transaction](t, rec)
	assert.Len(t, txs, 3)
	assert.Len(t, store.Transactions(), 3)

	rec = do(t, s, "GET", "/api/transactions?isin="+world, "")
	assert.Len(t, decodeBody[[]portfolio.Transaction](t, rec), 2)
}

func TestErrorStatus(t *testing.T) {
	s, store := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s, "POST", "/api/cash/deposit", `{"amount": 100}`).Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"overdraw", "POST", "/api/cash/withdraw", `{"amount": 150}`, http.StatusUnprocessableEntity},
		{"expensive buy", "POST", "/api/orders/buy", `{"isin": "` + world + `", "value": 5, "method": "shares"}`, http.StatusUnprocessableEntity},
		{"sell without holding", "POST", "/api/orders/sell", `{"isin": "` + world + `", "value": 1, "method": "shares"}`, http.StatusNotFound},
		{"zero deposit", "POST", "/api/cash/deposit", `{"amount": 0}`, http.StatusBadRequest},
		{"negative withdraw", "POST", "/api/cash/withdraw", `{"amount": -5}`, http.StatusBadRequest},
		{"bad isin", "POST", "/api/orders/buy", `{"isin": "XX", "value": 5, "method": "amount"}`, http.StatusBadRequest},
		{"bad method", "POST", "/api/orders/buy", `{"isin": "` + world + `", "value": 5, "method": "lots"}`, http.StatusBadRequest},
		{"buy without method", "POST", "/api/orders/buy", `{"isin": "` + world + `", "value": 5}`, http.StatusBadRequest},
		{"sell without method", "POST", "/api/orders/sell", `{"isin": "` + world + `", "value": 5}`, http.StatusBadRequest},
		{"unknown field", "POST", "/api/cash/deposit", `{"amount": 5, "currency": "USD"}`, http.StatusBadRequest},
		{"malformed body", "POST", "/api/cash/deposit", `{`, http.StatusBadRequest},
		{"unknown holding", "GET", "/api/holdings/" + world, "", http.StatusNotFound},
		{"bad period", "GET", "/api/transactions?period=fortnight", "", http.StatusBadRequest},
		{"unknown mode", "PUT", "/api/mode", `{"mode": "paper"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			body := decodeBody[map[string]string](t, rec)
			assert.NotEmpty(t, body["error"])
		})
	}
	// Rejected requests leave the ledger untouched.
	assert.Len(t, store.Transactions(), 1)
}

func TestTransactionsPeriod(t *testing.T) {
	s, _ := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, s, "PUT", "/api/mode", `{"mode": "demo"}`).Code)

	rec := do(t, s, "GET", "/api/transactions?period=month&date=2024-01-15", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeBody[[]portfolio.Transaction](t, rec), 3)

	rec = do(t, s, "GET", "/api/transactions?period=year&date=2024-06-01", "")
	assert.Len(t, decodeBody[[]portfolio.Transaction](t, rec), 8)
}

func TestModeSwitch(t *testing.T) {
	s, store := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s, "POST", "/api/cash/deposit", `{"amount": 42}`).Code)

	rec := do(t, s, "PUT", "/api/mode", `{"mode": "demo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "demo", decodeBody[ModeRequest](t, rec).Mode)

	v := decodeBody[valuationBody](t, do(t, s, "GET", "/api/portfolio", ""))
	assert.True(t, v.Cash.Amount.Equal(decimal.NewFromInt(3887)), v.Cash.Amount.String())
	assert.Len(t, v.Holdings, 4)

	// Demo mutations are never persisted.
	require.Equal(t, http.StatusCreated, do(t, s, "POST", "/api/cash/deposit", `{"amount": 1}`).Code)
	assert.Len(t, store.Transactions(), 1)

	require.Equal(t, http.StatusOK, do(t, s, "PUT", "/api/mode", `{"mode": "live"}`).Code)
	rec = do(t, s, "GET", "/api/portfolio", "")
	assert.Contains(t, rec.Body.String(), `"amount":42`)
}

func TestCORS(t *testing.T) {
	store := portfolio.NewMemoryStore("EUR")
	p, err := portfolio.New(context.Background(), portfolio.DemoCatalog(), store)
	require.NoError(t, err)
	s := New(Config{Log: zerolog.Nop(), Portfolio: p, AllowedOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest("OPTIONS", "/api/portfolio", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
