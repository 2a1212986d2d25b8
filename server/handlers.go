package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	portfolio "github.com/etnz/etfportfolio"
	"github.com/etnz/etfportfolio/date"
)

// Handler serves the portfolio API.
type Handler struct {
	portfolio *portfolio.Portfolio
	log       zerolog.Logger
}

// NewHandler creates a handler for p.
func NewHandler(p *portfolio.Portfolio, log zerolog.Logger) *Handler {
	return &Handler{
		portfolio: p,
		log:       log.With().Str("handler", "portfolio").Logger(),
	}
}

// RegisterRoutes registers the portfolio routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/portfolio", h.HandleGetPortfolio)
	r.Get("/transactions", h.HandleGetTransactions)
	r.Get("/holdings/{isin}", h.HandleGetHolding)
	r.Get("/catalog", h.HandleGetCatalog)

	r.Route("/cash", func(r chi.Router) {
		r.Post("/deposit", h.HandleDeposit)
		r.Post("/withdraw", h.HandleWithdraw)
	})
	r.Route("/orders", func(r chi.Router) {
		r.Post("/buy", h.HandleBuy)
		r.Post("/sell", h.HandleSell)
	})

	r.Get("/mode", h.HandleGetMode)
	r.Put("/mode", h.HandleSetMode)
}

// CashRequest is the body of deposit and withdraw requests.
type CashRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Memo   string          `json:"memo,omitempty"`
}

// OrderRequest is the body of buy and sell requests.
type OrderRequest struct {
	ISIN   string                   `json:"isin"`
	Value  decimal.Decimal          `json:"value"`
	Method portfolio.QuantityMethod `json:"method"` // required, amount or shares
	Memo   string                   `json:"memo,omitempty"`
}

// ModeRequest is the body of a mode switch.
type ModeRequest struct {
	Mode string `json:"mode"`
}

// HoldingResponse is a single position with its own transactions.
type HoldingResponse struct {
	portfolio.HoldingValuation
	Transactions []portfolio.Transaction `json:"transactions"`
}

// HandleGetPortfolio returns the current valuation.
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, h.portfolio.Valuation())
}

// HandleGetTransactions returns the transaction log, most recent first.
//
// Optional query parameters: isin, and period with an anchor date
// (defaults to today) to restrict the log to that calendar period.
func (h *Handler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	isin := q.Get("isin")

	var window *date.Range
	if p := q.Get("period"); p != "" {
		period, err := date.ParsePeriod(p)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		anchor := date.Today()
		if d := q.Get("date"); d != "" {
			if anchor, err = date.Parse(d); err != nil {
				h.writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		rg := date.NewRange(anchor, period)
		window = &rg
	}

	txs := h.portfolio.Transactions()
	result := make([]portfolio.Transaction, 0, len(txs))
	for _, tx := range txs {
		if isin != "" && tx.ISIN != isin {
			continue
		}
		if window != nil && !window.ContainsTime(tx.When()) {
			continue
		}
		result = append(result, tx)
	}
	writeJSON(w, h.log, http.StatusOK, result)
}

// HandleGetHolding returns the valuation of one holding and its transactions.
func (h *Handler) HandleGetHolding(w http.ResponseWriter, r *http.Request) {
	isin := chi.URLParam(r, "isin")
	hv, ok := h.portfolio.Valuation().Holding(isin)
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("%v %s", portfolio.ErrNotFound, isin))
		return
	}
	resp := HoldingResponse{HoldingValuation: hv, Transactions: []portfolio.Transaction{}}
	for _, tx := range h.portfolio.Transactions() {
		if tx.ISIN == isin {
			resp.Transactions = append(resp.Transactions, tx)
		}
	}
	writeJSON(w, h.log, http.StatusOK, resp)
}

// HandleGetCatalog lists the instruments available for trading.
func (h *Handler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	list := h.portfolio.Catalog().List()
	if list == nil {
		list = []portfolio.Instrument{}
	}
	writeJSON(w, h.log, http.StatusOK, list)
}

// HandleDeposit adds cash.
func (h *Handler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	var req CashRequest
	if !h.decode(w, r, &req) {
		return
	}
	tx, err := h.portfolio.Deposit(r.Context(), req.Amount, portfolio.Memo(req.Memo))
	h.writeResult(w, tx, err)
}

// HandleWithdraw removes cash.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req CashRequest
	if !h.decode(w, r, &req) {
		return
	}
	tx, err := h.portfolio.Withdraw(r.Context(), req.Amount, portfolio.Memo(req.Memo))
	h.writeResult(w, tx, err)
}

// HandleBuy executes a buy order.
func (h *Handler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	tx, err := h.portfolio.Buy(r.Context(), req.ISIN, req.Value, req.Method, portfolio.Memo(req.Memo))
	h.writeResult(w, tx, err)
}

// HandleSell executes a sell order.
func (h *Handler) HandleSell(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	tx, err := h.portfolio.Sell(r.Context(), req.ISIN, req.Value, req.Method, portfolio.Memo(req.Memo))
	h.writeResult(w, tx, err)
}

// HandleGetMode returns the current mode.
func (h *Handler) HandleGetMode(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, ModeRequest{Mode: h.portfolio.Mode().String()})
}

// HandleSetMode switches between the live and demo ledgers.
func (h *Handler) HandleSetMode(w http.ResponseWriter, r *http.Request) {
	var req ModeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.portfolio.SetMode(r.Context(), portfolio.Mode(req.Mode)); err != nil {
		h.writeError(w, statusOf(err), err.Error())
		return
	}
	h.HandleGetMode(w, r)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (h *Handler) writeResult(w http.ResponseWriter, tx portfolio.Transaction, err error) {
	if err != nil {
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			h.log.Error().Err(err).Msg("Transaction failed")
		}
		h.writeError(w, status, err.Error())
		return
	}
	writeJSON(w, h.log, http.StatusCreated, tx)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, h.log, status, map[string]string{"error": message})
}

// statusOf maps ledger errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, portfolio.ErrInsufficientFunds),
		errors.Is(err, portfolio.ErrInsufficientShares):
		return http.StatusUnprocessableEntity
	case errors.Is(err, portfolio.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, portfolio.ErrInvalidAmount),
		errors.Is(err, portfolio.ErrInvalidQuantity),
		errors.Is(err, portfolio.ErrInvalidMethod),
		errors.Is(err, portfolio.ErrInvalidISIN),
		errors.Is(err, portfolio.ErrUnknownMode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
