package service

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/moneylens/backend/internal/auth"
	"github.com/moneylens/backend/internal/extraction"
	"github.com/moneylens/backend/internal/finance"
)

// maxUploadBytes caps statement uploads at 20MB.
const maxUploadBytes = 20 << 20

func (s *FinanceService) handleStatementExtract(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.extractor == nil {
		s.writeError(w, r, unavailable("statement extraction is not configured"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, r, badRequest("invalid multipart upload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, badRequest("missing file field"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := s.extractor.ProcessStatement(r.Context(), claims.UID, header.Filename, data)
	if err != nil {
		if errors.Is(err, extraction.ErrEmptyUpload) {
			s.writeError(w, r, badRequest("uploaded file is empty"))
			return
		}
		s.logger.Warn("statement extraction failed",
			"user_id", claims.UID, "filename", header.Filename, "error", err)
		s.writeError(w, r, &apiError{status: http.StatusBadGateway, msg: "statement extraction failed"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type statementSaveRequest struct {
	Transactions []extraction.ClassifiedTransaction `json:"transactions"`
}

// handleStatementSave persists reviewed pending transactions. Saving is
// best-effort and sequential: a failed row does not roll back earlier
// rows, and the response reports a single aggregate error.
func (s *FinanceService) handleStatementSave(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req statementSaveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Transactions) == 0 {
		s.writeError(w, r, badRequest("no transactions to save"))
		return
	}

	saved := 0
	failed := 0
	for _, pending := range req.Transactions {
		tx := &finance.Transaction{
			ID:          uuid.New().String(),
			UserID:      claims.UID,
			Kind:        finance.Kind(pending.Kind),
			Amount:      math.Abs(pending.Amount),
			Category:    pending.Category,
			Description: pending.Description,
			Date:        extraction.ResolveDate(pending.Date),
			CreatedAt:   time.Now(),
		}
		if tx.Kind != finance.KindIncome && tx.Kind != finance.KindExpense {
			tx.Kind = finance.KindExpense
		}
		if tx.Amount <= 0 {
			failed++
			continue
		}
		if tx.Category == "" {
			if tx.Kind == finance.KindIncome {
				tx.Category = finance.DefaultIncomeCategory
			} else {
				tx.Category = finance.DefaultExpenseCategory
			}
		}

		if err := s.store.CreateTransaction(r.Context(), tx); err != nil {
			s.logger.Warn("statement row save failed", "user_id", claims.UID, "error", err)
			failed++
			continue
		}
		saved++

		if s.searcher != nil {
			if err := s.searcher.IndexTransaction(r.Context(), tx); err != nil {
				s.logger.Warn("search indexing failed", "id", tx.ID, "error", err)
			}
		}
	}

	resp := map[string]any{"saved": saved}
	if failed > 0 {
		resp["error"] = fmt.Sprintf("%d of %d transactions failed to save", failed, len(req.Transactions))
	}
	writeJSON(w, http.StatusOK, resp)
}
