package portfolio

import (
	"context"
	"slices"
	"sync"
)

// Store persists the transaction log of a ledger.
//
// Load rebuilds the ledger from the persisted log. Append durably records a
// transaction that the ledger is about to commit; if it fails the
// transaction is not committed.
type Store interface {
	Load(ctx context.Context) (*Ledger, error)
	Append(ctx context.Context, tx Transaction) error
}

// MemoryStore keeps the log in memory. It is the live store when no
// persistence is configured: the live state survives mode switches but not
// the process.
type MemoryStore struct {
	mu       sync.Mutex
	currency string
	txs      []Transaction
}

// NewMemoryStore returns an empty store for a ledger in currency.
func NewMemoryStore(currency string) *MemoryStore {
	return &MemoryStore{currency: currency}
}

func (s *MemoryStore) Load(ctx context.Context) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Replay(s.currency, s.txs)
}

func (s *MemoryStore) Append(ctx context.Context, tx Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, tx)
	return nil
}

// Transactions returns a copy of the stored log in chronological order.
func (s *MemoryStore) Transactions() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.txs)
}
