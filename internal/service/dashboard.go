package service

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/moneylens/backend/internal/auth"
	"github.com/moneylens/backend/internal/finance"
)

// yearParam parses the year query parameter, defaulting to the current
// year.
func yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1970 || year > 9999 {
		return 0, badRequest("invalid year")
	}
	return year, nil
}

// monthParam parses the 1-12 month query parameter, defaulting to the
// current month.
func monthParam(r *http.Request) (time.Month, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return time.Now().Month(), nil
	}
	m, err := strconv.Atoi(raw)
	if err != nil || m < 1 || m > 12 {
		return 0, badRequest("invalid month, expected 1-12")
	}
	return time.Month(m), nil
}

// loadYear fetches both transaction kinds for the caller.
func (s *FinanceService) loadYear(r *http.Request, userID string) (incomes, expenses []finance.Transaction, err error) {
	incomes, err = s.store.ListTransactions(r.Context(), finance.KindIncome, userID)
	if err != nil {
		return nil, nil, err
	}
	expenses, err = s.store.ListTransactions(r.Context(), finance.KindExpense, userID)
	if err != nil {
		return nil, nil, err
	}
	return incomes, expenses, nil
}

func (s *FinanceService) handleMonthly(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	year, err := yearParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	incomes, expenses, err := s.loadYear(r, claims.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	buckets := finance.AggregateMonthly(incomes, expenses, year)
	writeJSON(w, http.StatusOK, map[string]any{
		"year":    year,
		"monthly": buckets,
	})
}

func (s *FinanceService) handleCategories(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	year, err := yearParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	month, err := monthParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	expenses, err := s.store.ListTransactions(r.Context(), finance.KindExpense, claims.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	buckets := finance.AggregateCategories(expenses, year, month)
	writeJSON(w, http.StatusOK, map[string]any{
		"year":       year,
		"month":      int(month),
		"categories": buckets,
	})
}

func (s *FinanceService) handleSavingsCSV(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	year, err := yearParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	incomes, expenses, err := s.loadYear(r, claims.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	buckets := finance.AggregateMonthly(incomes, expenses, year)
	csv := finance.SavingsCSV(buckets)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", finance.SavingsCSVFilename(year)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}
