package service

import (
	"net/http"
	"time"

	"github.com/moneylens/backend/internal/auth"
	"github.com/moneylens/backend/internal/finance"
	"github.com/moneylens/backend/internal/insight"
)

type insightsRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (s *FinanceService) handleInsights(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.insights == nil {
		s.writeError(w, r, unavailable("insights are not configured"))
		return
	}

	var req insightsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}
	if req.Month == 0 {
		req.Month = int(time.Now().Month())
	}
	if req.Month < 1 || req.Month > 12 {
		s.writeError(w, r, badRequest("invalid month, expected 1-12"))
		return
	}

	incomes, expenses, err := s.loadYear(r, claims.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	month := time.Month(req.Month)
	income, expense := finance.MonthlyTotals(incomes, expenses, req.Year, month)

	tips, err := s.insights.Generate(r.Context(), insight.MonthSummary{
		Year:       req.Year,
		Month:      month,
		Income:     income,
		Expense:    expense,
		Categories: finance.AggregateCategories(expenses, req.Year, month),
	})
	if err != nil {
		s.logger.Warn("insight generation failed", "user_id", claims.UID, "error", err)
		s.writeError(w, r, &apiError{status: http.StatusBadGateway, msg: "insight generation failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":     req.Year,
		"month":    req.Month,
		"insights": tips,
	})
}
