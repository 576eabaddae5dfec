// Package service exposes the dashboard's HTTP JSON API.
package service

import (
	"context"
	"net/http"

	"github.com/moneylens/backend/internal/auth"
	"github.com/moneylens/backend/internal/extraction"
	"github.com/moneylens/backend/internal/finance"
	"github.com/moneylens/backend/internal/insight"
	"github.com/moneylens/backend/internal/log"
	"github.com/moneylens/backend/internal/search"
	"github.com/moneylens/backend/internal/store"
)

// InsightGenerator produces savings tips for one month of activity.
type InsightGenerator interface {
	Generate(ctx context.Context, summary insight.MonthSummary) ([]string, error)
}

// StatementProcessor runs the statement extraction pipeline.
type StatementProcessor interface {
	ProcessStatement(ctx context.Context, userID, filename string, data []byte) (*extraction.Result, error)
}

// Searcher is the full-text search surface. Both methods are optional
// features; the service runs without them.
type Searcher interface {
	Search(ctx context.Context, params search.Params) (*search.Response, error)
	IndexTransaction(ctx context.Context, tx *finance.Transaction) error
}

// ProfileProvider reads and updates identity-provider profiles.
type ProfileProvider interface {
	GetProfile(ctx context.Context, uid string) (*auth.UserClaims, error)
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
}

// FinanceService handles all dashboard API requests.
type FinanceService struct {
	store     store.Store
	insights  InsightGenerator
	extractor StatementProcessor
	searcher  Searcher
	profiles  ProfileProvider
	logger    *log.Logger
}

// NewFinanceService creates the API service. insights, extractor,
// searcher and profiles may be nil; the matching endpoints then report
// the feature as unavailable.
func NewFinanceService(st store.Store, insights InsightGenerator, extractor StatementProcessor, searcher Searcher, profiles ProfileProvider, logger *log.Logger) *FinanceService {
	return &FinanceService{
		store:     st,
		insights:  insights,
		extractor: extractor,
		searcher:  searcher,
		profiles:  profiles,
		logger:    logger,
	}
}

// Routes builds the service's request multiplexer.
func (s *FinanceService) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /v1/incomes", s.kindHandler(finance.KindIncome, s.handleCreate))
	mux.HandleFunc("GET /v1/incomes", s.kindHandler(finance.KindIncome, s.handleList))
	mux.HandleFunc("DELETE /v1/incomes/{id}", s.kindHandler(finance.KindIncome, s.handleDelete))
	mux.HandleFunc("POST /v1/expenses", s.kindHandler(finance.KindExpense, s.handleCreate))
	mux.HandleFunc("GET /v1/expenses", s.kindHandler(finance.KindExpense, s.handleList))
	mux.HandleFunc("DELETE /v1/expenses/{id}", s.kindHandler(finance.KindExpense, s.handleDelete))

	mux.HandleFunc("GET /v1/dashboard/monthly", s.handleMonthly)
	mux.HandleFunc("GET /v1/dashboard/categories", s.handleCategories)
	mux.HandleFunc("GET /v1/dashboard/savings.csv", s.handleSavingsCSV)

	mux.HandleFunc("POST /v1/insights", s.handleInsights)

	mux.HandleFunc("POST /v1/statements/extract", s.handleStatementExtract)
	mux.HandleFunc("POST /v1/statements/save", s.handleStatementSave)

	mux.HandleFunc("GET /v1/profile", s.handleGetProfile)
	mux.HandleFunc("PATCH /v1/profile", s.handleUpdateProfile)

	mux.HandleFunc("GET /v1/search", s.handleSearch)

	return mux
}

func (s *FinanceService) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// kindHandler binds a transaction kind into a shared handler.
func (s *FinanceService) kindHandler(kind finance.Kind, h func(http.ResponseWriter, *http.Request, finance.Kind)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r, kind)
	}
}
