package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	portfolio "github.com/etnz/etfportfolio"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerStore persists a portfolio ledger in the transactions table.
// It implements portfolio.Store.
type LedgerStore struct {
	db       *sql.DB
	currency string
	log      zerolog.Logger
}

// NewLedgerStore returns a store over a migrated ledger database.
func NewLedgerStore(db *sql.DB, currency string, log zerolog.Logger) *LedgerStore {
	return &LedgerStore{
		db:       db,
		currency: currency,
		log:      log.With().Str("repo", "ledger").Logger(),
	}
}

// OpenLedger opens and migrates the ledger database at path.
func OpenLedger(path string) (*DB, error) {
	db, err := New(Config{Path: path, Profile: ProfileLedger, Name: "ledger"})
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Append inserts tx at the end of the log.
func (s *LedgerStore) Append(ctx context.Context, tx portfolio.Transaction) error {
	query := `
		INSERT INTO transactions
		(id, command, executed_at, isin, shares, price, amount, currency, status, memo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	var shares, price sql.NullString
	if tx.IsOrder() {
		shares = sql.NullString{String: tx.Shares.String(), Valid: true}
		price = sql.NullString{String: tx.Price.Decimal().String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		tx.ID,
		string(tx.Command),
		tx.Date.UTC().Format(time.RFC3339Nano),
		nullString(tx.ISIN),
		shares,
		price,
		tx.Amount.Decimal().String(),
		tx.Amount.Currency(),
		string(tx.Status),
		nullString(tx.Memo),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", tx.ID, err)
	}

	s.log.Debug().
		Str("id", tx.ID).
		Str("command", string(tx.Command)).
		Msg("Transaction stored")
	return nil
}

// Transactions returns the whole log in insertion order.
func (s *LedgerStore) Transactions(ctx context.Context) ([]portfolio.Transaction, error) {
	query := `
		SELECT id, command, executed_at, isin, shares, price, amount, currency, status, memo
		FROM transactions
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []portfolio.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}

// Load replays the stored log.
func (s *LedgerStore) Load(ctx context.Context) (*portfolio.Ledger, error) {
	txs, err := s.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	ledger, err := portfolio.Replay(s.currency, txs)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("transactions", len(txs)).Msg("Ledger loaded")
	return ledger, nil
}

func scanTransaction(rows *sql.Rows) (portfolio.Transaction, error) {
	var (
		id, command, executedAt, amount, currency, status string
		isin, shares, price, memo                          sql.NullString
	)
	if err := rows.Scan(&id, &command, &executedAt, &isin, &shares, &price, &amount, &currency, &status, &memo); err != nil {
		return portfolio.Transaction{}, err
	}

	date, err := time.Parse(time.RFC3339Nano, executedAt)
	if err != nil {
		return portfolio.Transaction{}, fmt.Errorf("transaction %s: invalid executed_at %q: %w", id, executedAt, err)
	}
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return portfolio.Transaction{}, fmt.Errorf("transaction %s: invalid amount %q: %w", id, amount, err)
	}

	tx := portfolio.Transaction{
		ID:      id,
		Command: portfolio.CommandType(command),
		Date:    date.UTC(),
		ISIN:    isin.String,
		Amount:  portfolio.M(amt, currency),
		Status:  portfolio.Status(status),
		Memo:    memo.String,
	}
	if tx.IsOrder() {
		if tx.Shares, err = portfolio.ParseQuantity(shares.String); err != nil {
			return portfolio.Transaction{}, fmt.Errorf("transaction %s: invalid shares %q: %w", id, shares.String, err)
		}
		if tx.Price, err = portfolio.ParseMoney(price.String, currency); err != nil {
			return portfolio.Transaction{}, fmt.Errorf("transaction %s: invalid price %q: %w", id, price.String, err)
		}
	}
	return tx, nil
}

// nullString converts empty strings to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
