package portfolio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeTransaction writes tx as a single JSON line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("cannot marshal transaction %s: %w", tx.ID, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write transaction %s: %w", tx.ID, err)
	}
	return nil
}

// EncodeTransactions writes txs in JSONL format, in the given order.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	for _, tx := range txs {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// DecodeTransactions reads a JSONL stream of transactions. Empty lines are skipped.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var tx Transaction
		if err := json.Unmarshal(data, &tx); err != nil {
			return nil, fmt.Errorf("line %d: cannot decode transaction %q: %w", line, string(data), err)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read transactions: %w", err)
	}
	return txs, nil
}

// FileStore persists the log as a JSONL file, one transaction per line,
// appended in execution order. A missing file is an empty ledger.
type FileStore struct {
	mu       sync.Mutex
	path     string
	currency string
	open     func(path string) (ledgerFile, error)
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path, currency string) *FileStore {
	return &FileStore{path: path, currency: currency}
}

// Path returns the ledger file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewLedger(s.currency), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger file %q: %w", s.path, err)
	}
	defer f.Close()

	txs, err := DecodeTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("cannot load ledger file %q: %w", s.path, err)
	}
	return Replay(s.currency, txs)
}

// ledgerFile is the part of *os.File an append needs.
type ledgerFile interface {
	io.WriteCloser
	Stat() (fs.FileInfo, error)
	Sync() error
	Truncate(size int64) error
}

func openLedgerFile(path string) (ledgerFile, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// Append writes tx as the last line of the file. A failed write is rolled
// back so the file always ends on a complete line.
func (s *FileStore) Append(ctx context.Context, tx Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var line bytes.Buffer
	if err := EncodeTransaction(&line, tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	open := s.open
	if open == nil {
		open = openLedgerFile
	}
	f, err := open(s.path)
	if err != nil {
		return fmt.Errorf("cannot open ledger file %q: %w", s.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("cannot stat ledger file %q: %w", s.path, err)
	}
	size := info.Size()

	_, err = f.Write(line.Bytes())
	if err == nil {
		err = f.Sync()
	}
	if err != nil {
		if terr := f.Truncate(size); terr != nil {
			err = errors.Join(err, fmt.Errorf("cannot roll back ledger file %q: %w", s.path, terr))
		}
		f.Close()
		return fmt.Errorf("cannot append transaction %s to %q: %w", tx.ID, s.path, err)
	}
	return f.Close()
}
