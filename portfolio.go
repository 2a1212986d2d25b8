package portfolio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Portfolio owns a ledger and is the only way to change it.
//
// Every mutation runs validate, persist and commit under one write lock, so
// two concurrent orders can never both pass validation against the same
// balance. Reads return copies under the read lock.
type Portfolio struct {
	mu      sync.RWMutex
	catalog Catalog
	stores  map[Mode]Store
	mode    Mode
	ledger  *Ledger

	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

// Option configures a Portfolio.
type Option func(*Portfolio)

// WithDemo replaces the demonstration store.
func WithDemo(s Store) Option { return func(p *Portfolio) { p.stores[Demo] = s } }

// WithMode selects the mode the portfolio starts in. The default is Live.
func WithMode(m Mode) Option { return func(p *Portfolio) { p.mode = m } }

// WithClock sets the source of transaction timestamps.
func WithClock(now func() time.Time) Option { return func(p *Portfolio) { p.now = now } }

// WithIDGenerator sets the source of transaction ids.
func WithIDGenerator(newID func() string) Option { return func(p *Portfolio) { p.newID = newID } }

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option { return func(p *Portfolio) { p.log = log } }

// New loads a portfolio from the live store. Mutations in Live mode are
// appended to live before being committed.
func New(ctx context.Context, catalog Catalog, live Store, opts ...Option) (*Portfolio, error) {
	p := &Portfolio{
		catalog: catalog,
		stores:  map[Mode]Store{Live: live},
		mode:    Live,
		now:     time.Now,
		newID:   uuid.NewString,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With().Str("component", "portfolio").Logger()

	if _, err := ParseMode(string(p.mode)); err != nil {
		return nil, err
	}
	ledger, err := live.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot load live ledger: %w", err)
	}
	if _, ok := p.stores[Demo]; !ok {
		p.stores[Demo] = NewDemoStore(ledger.Currency())
	}
	if p.mode == Demo {
		if ledger, err = p.stores[Demo].Load(ctx); err != nil {
			return nil, fmt.Errorf("cannot load demo ledger: %w", err)
		}
	}
	p.ledger = ledger
	p.log.Debug().
		Str("mode", p.mode.String()).
		Int("transactions", ledger.Len()).
		Msg("Portfolio loaded")
	return p, nil
}

// TxOption annotates a transaction before it is executed.
type TxOption func(*Transaction)

// Memo attaches a free text note to the transaction.
func Memo(memo string) TxOption { return func(tx *Transaction) { tx.Memo = memo } }

// Deposit adds amount to the cash balance.
func (p *Portfolio) Deposit(ctx context.Context, amount decimal.Decimal, opts ...TxOption) (Transaction, error) {
	return p.execute(ctx, func(l *Ledger) (Order, error) {
		tx, err := PlanDeposit(l, amount)
		return Order{Transaction: tx}, err
	}, opts)
}

// Withdraw removes amount from the cash balance. It fails with
// ErrInsufficientFunds when amount is more than the balance.
func (p *Portfolio) Withdraw(ctx context.Context, amount decimal.Decimal, opts ...TxOption) (Transaction, error) {
	return p.execute(ctx, func(l *Ledger) (Order, error) {
		tx, err := PlanWithdrawal(l, amount)
		return Order{Transaction: tx}, err
	}, opts)
}

// Buy purchases isin at the catalog price for value, a money amount or a
// number of shares depending on method.
func (p *Portfolio) Buy(ctx context.Context, isin string, value decimal.Decimal, method QuantityMethod, opts ...TxOption) (Transaction, error) {
	return p.execute(ctx, func(l *Ledger) (Order, error) {
		return PlanBuy(l, p.catalog, isin, value, method)
	}, opts)
}

// Sell sells isin at the catalog price.
func (p *Portfolio) Sell(ctx context.Context, isin string, value decimal.Decimal, method QuantityMethod, opts ...TxOption) (Transaction, error) {
	return p.execute(ctx, func(l *Ledger) (Order, error) {
		return PlanSell(l, p.catalog, isin, value, method)
	}, opts)
}

// execute plans, stamps, persists and commits a transaction under the write lock.
func (p *Portfolio) execute(ctx context.Context, plan func(*Ledger) (Order, error), opts []TxOption) (Transaction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	order, err := plan(p.ledger)
	if err != nil {
		p.log.Debug().Err(err).Str("mode", p.mode.String()).Msg("Transaction rejected")
		return Transaction{}, err
	}
	if order.FallbackPrice {
		p.log.Warn().
			Str("isin", order.ISIN).
			Str("price", order.Price.Decimal().String()).
			Msg("No catalog price in the ledger currency, using default price")
	}

	tx := order.Transaction
	tx.ID = p.newID()
	tx.Date = p.now().UTC()
	tx.Status = StatusCompleted
	for _, opt := range opts {
		opt(&tx)
	}

	if err := p.stores[p.mode].Append(ctx, tx); err != nil {
		return Transaction{}, fmt.Errorf("cannot persist %s: %w", tx.Command, err)
	}
	if err := p.ledger.Apply(tx); err != nil {
		// plan validated against this very state under the same lock.
		return Transaction{}, fmt.Errorf("ledger rejected a planned %s: %w", tx.Command, err)
	}

	p.log.Info().
		Str("id", tx.ID).
		Str("command", string(tx.Command)).
		Str("isin", tx.ISIN).
		Str("amount", tx.Amount.Decimal().String()).
		Str("mode", p.mode.String()).
		Msg("Transaction executed")
	return tx, nil
}

// SetMode swaps the whole ledger for the one of mode m, reloaded from its
// store. The previous state is never merged into the new one.
func (p *Portfolio) SetMode(ctx context.Context, m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if m == p.mode {
		p.log.Debug().Str("mode", m.String()).Msg("Already in requested mode")
		return nil
	}
	ledger, err := p.stores[m].Load(ctx)
	if err != nil {
		return fmt.Errorf("cannot switch to %s mode: %w", m, err)
	}
	p.log.Info().
		Str("from", p.mode.String()).
		Str("to", m.String()).
		Msg("Switching mode")
	p.mode, p.ledger = m, ledger
	return nil
}

// Mode returns the current mode.
func (p *Portfolio) Mode() Mode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

// Currency returns the ledger currency.
func (p *Portfolio) Currency() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.Currency()
}

// Catalog returns the catalog orders are priced with.
func (p *Portfolio) Catalog() Catalog { return p.catalog }

// CashBalance returns the cash balance.
func (p *Portfolio) CashBalance() Money {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.Cash()
}

// Holding returns the open position in isin, if any.
func (p *Portfolio) Holding(isin string) (Holding, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.Holding(isin)
}

// Holdings returns the open positions ordered by ISIN.
func (p *Portfolio) Holdings() []Holding {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.Holdings()
}

// Transactions returns the log, most recent first.
func (p *Portfolio) Transactions() []Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.Transactions()
}

// Valuation prices the current state with the catalog.
func (p *Portfolio) Valuation() Valuation {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Valuate(p.ledger, p.catalog)
}

// Ledger returns a snapshot of the current ledger.
func (p *Portfolio) Ledger() *Ledger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledger.Clone()
}
