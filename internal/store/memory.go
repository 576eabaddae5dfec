package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/moneylens/backend/internal/finance"
)

// MemoryStore implements Store interface with in-memory storage
type MemoryStore struct {
	mu sync.RWMutex

	incomes  map[string]*finance.Transaction
	expenses map[string]*finance.Transaction
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		incomes:  make(map[string]*finance.Transaction),
		expenses: make(map[string]*finance.Transaction),
	}
}

func (s *MemoryStore) bucket(kind finance.Kind) map[string]*finance.Transaction {
	if kind == finance.KindIncome {
		return s.incomes
	}
	return s.expenses
}

func (s *MemoryStore) CreateTransaction(ctx context.Context, tx *finance.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *tx
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.bucket(tx.Kind)[tx.ID] = &stored
	return nil
}

func (s *MemoryStore) GetTransaction(ctx context.Context, kind finance.Kind, id, userID string) (*finance.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.bucket(kind)[id]
	if !ok || tx.UserID != userID {
		return nil, ErrNotFound
	}
	out := *tx
	return &out, nil
}

func (s *MemoryStore) ListTransactions(ctx context.Context, kind finance.Kind, userID string) ([]finance.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]finance.Transaction, 0)
	for _, tx := range s.bucket(kind) {
		if tx.UserID == userID {
			txs = append(txs, *tx)
		}
	}
	// Map iteration order is random; keep listings stable for callers.
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
	return txs, nil
}

func (s *MemoryStore) DeleteTransaction(ctx context.Context, kind finance.Kind, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.bucket(kind)
	tx, ok := bucket[id]
	if !ok || tx.UserID != userID {
		return ErrNotFound
	}
	delete(bucket, id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
