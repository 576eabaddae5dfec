package store

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/moneylens/backend/internal/finance"
)

// FirestoreStore implements the Store interface using Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{client: client}
}

// CreateTransaction writes a record into the kind's collection. The
// creation timestamp is assigned server-side.
func (s *FirestoreStore) CreateTransaction(ctx context.Context, tx *finance.Transaction) error {
	doc := map[string]any{
		"userId":      tx.UserID,
		"amount":      tx.Amount,
		"category":    tx.Category,
		"description": tx.Description,
		"date":        tx.Date,
		"createdAt":   firestore.ServerTimestamp,
	}
	_, err := s.client.Collection(tx.Kind.Collection()).Doc(tx.ID).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("create %s: %w", tx.Kind, err)
	}
	return nil
}

// GetTransaction fetches one record and verifies ownership.
func (s *FirestoreStore) GetTransaction(ctx context.Context, kind finance.Kind, id, userID string) (*finance.Transaction, error) {
	snap, err := s.client.Collection(kind.Collection()).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	tx, ok := docToTransaction(snap.Ref.ID, kind, snap.Data())
	if !ok || tx.UserID != userID {
		return nil, ErrNotFound
	}
	return &tx, nil
}

// ListTransactions returns the owner's records for one kind. Stored
// field types are never trusted; a document that cannot be coerced is
// skipped rather than failing the snapshot.
func (s *FirestoreStore) ListTransactions(ctx context.Context, kind finance.Kind, userID string) ([]finance.Transaction, error) {
	query := s.client.Collection(kind.Collection()).Where("userId", "==", userID)
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Collection(), err)
	}

	txs := make([]finance.Transaction, 0, len(docs))
	for _, doc := range docs {
		if tx, ok := docToTransaction(doc.Ref.ID, kind, doc.Data()); ok {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

// DeleteTransaction removes a record after verifying ownership.
func (s *FirestoreStore) DeleteTransaction(ctx context.Context, kind finance.Kind, id, userID string) error {
	if _, err := s.GetTransaction(ctx, kind, id, userID); err != nil {
		return err
	}
	if _, err := s.client.Collection(kind.Collection()).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return nil
}

// docToTransaction is the parse-and-validate boundary for stored
// documents. Amount is coerced to a number (zero when malformed), the
// date goes through the normalizer (zero instant when unparseable), and
// a missing category gets the kind's default. Only a missing owner makes
// the document unusable.
func docToTransaction(id string, kind finance.Kind, data map[string]any) (finance.Transaction, bool) {
	userID, _ := data["userId"].(string)
	if userID == "" {
		return finance.Transaction{}, false
	}

	tx := finance.Transaction{
		ID:     id,
		UserID: userID,
		Kind:   kind,
		Amount: coerceAmount(data["amount"]),
	}

	if cat, _ := data["category"].(string); cat != "" {
		tx.Category = cat
	} else if kind == finance.KindIncome {
		tx.Category = finance.DefaultIncomeCategory
	} else {
		tx.Category = finance.DefaultExpenseCategory
	}

	if desc, ok := data["description"].(string); ok {
		tx.Description = desc
	}

	if date, ok := finance.NormalizeDate(data["date"]); ok {
		tx.Date = date
	}
	if created, ok := finance.NormalizeDate(data["createdAt"]); ok {
		tx.CreatedAt = created
	}

	return tx, true
}

// coerceAmount converts a stored amount to a float64. Malformed values
// become zero, matching the dashboard's treatment of dirty data.
func coerceAmount(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

var _ Store = (*FirestoreStore)(nil)
