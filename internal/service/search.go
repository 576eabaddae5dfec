package service

import (
	"net/http"
	"strconv"

	"github.com/moneylens/backend/internal/auth"
	"github.com/moneylens/backend/internal/finance"
	"github.com/moneylens/backend/internal/search"
)

func (s *FinanceService) handleSearch(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.searcher == nil {
		s.writeError(w, r, unavailable("search is not configured"))
		return
	}

	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		s.writeError(w, r, badRequest("missing q parameter"))
		return
	}

	params := search.Params{
		Query:    query,
		UserID:   claims.UID,
		Category: q.Get("category"),
	}
	switch q.Get("kind") {
	case "income":
		params.Kind = finance.KindIncome
	case "expense":
		params.Kind = finance.KindExpense
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}

	resp, err := s.searcher.Search(r.Context(), params)
	if err != nil {
		s.logger.Warn("search failed", "user_id", claims.UID, "error", err)
		s.writeError(w, r, &apiError{status: http.StatusBadGateway, msg: "search failed"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
