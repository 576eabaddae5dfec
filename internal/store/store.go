// Package store defines the persistence interface for transaction
// documents plus the Firestore and in-memory implementations.
package store

import (
	"context"
	"errors"

	"github.com/moneylens/backend/internal/finance"
)

// ErrNotFound is returned when a requested document does not exist or is
// not owned by the requesting user.
var ErrNotFound = errors.New("transaction not found")

// Store defines the database operations used by the service. Queries are
// scoped by owner user ID; date filtering happens client-side because
// stored date representations are heterogeneous.
type Store interface {
	// CreateTransaction persists a new record. CreatedAt is assigned by
	// the backend at write time.
	CreateTransaction(ctx context.Context, tx *finance.Transaction) error

	// GetTransaction fetches a single record owned by userID.
	GetTransaction(ctx context.Context, kind finance.Kind, id, userID string) (*finance.Transaction, error)

	// ListTransactions returns an unordered snapshot of all records of
	// one kind owned by userID. Records whose stored fields cannot be
	// coerced are silently skipped, never an error.
	ListTransactions(ctx context.Context, kind finance.Kind, userID string) ([]finance.Transaction, error)

	// DeleteTransaction removes a record owned by userID.
	DeleteTransaction(ctx context.Context, kind finance.Kind, id, userID string) error
}
