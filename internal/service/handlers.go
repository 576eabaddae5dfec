package service

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/moneylens/backend/internal/auth"
	"github.com/moneylens/backend/internal/finance"
)

// createRequest is the form-submit payload for a new transaction. Date
// accepts any shape the normalizer understands; a missing or
// unparseable date leaves the field unset rather than rejecting the
// record.
type createRequest struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        any     `json:"date"`
}

func (s *FinanceService) handleCreate(w http.ResponseWriter, r *http.Request, kind finance.Kind) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Amount <= 0 {
		s.writeError(w, r, badRequest("amount must be positive"))
		return
	}

	category := req.Category
	if category == "" {
		if kind == finance.KindIncome {
			category = finance.DefaultIncomeCategory
		} else {
			category = finance.DefaultExpenseCategory
		}
	}

	tx := &finance.Transaction{
		ID:          uuid.New().String(),
		UserID:      claims.UID,
		Kind:        kind,
		Amount:      req.Amount,
		Category:    category,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if date, ok := finance.NormalizeDate(req.Date); ok {
		tx.Date = date
	}

	if err := s.store.CreateTransaction(r.Context(), tx); err != nil {
		s.writeError(w, r, err)
		return
	}

	if s.searcher != nil {
		if err := s.searcher.IndexTransaction(r.Context(), tx); err != nil {
			s.logger.Warn("search indexing failed", "id", tx.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, tx)
}

func (s *FinanceService) handleList(w http.ResponseWriter, r *http.Request, kind finance.Kind) {
	// An explicit userId parameter is allowed only when it names the
	// caller; anything else is a cross-user read.
	claims, err := auth.RequireUserAccess(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	txs, err := s.store.ListTransactions(r.Context(), kind, claims.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

func (s *FinanceService) handleDelete(w http.ResponseWriter, r *http.Request, kind finance.Kind) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		s.writeError(w, r, badRequest("missing transaction id"))
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), kind, id, claims.UID); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}
