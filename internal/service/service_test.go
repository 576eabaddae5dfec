package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneylens/backend/internal/auth"
	"github.com/moneylens/backend/internal/extraction"
	"github.com/moneylens/backend/internal/finance"
	"github.com/moneylens/backend/internal/insight"
	"github.com/moneylens/backend/internal/log"
	"github.com/moneylens/backend/internal/search"
	"github.com/moneylens/backend/internal/store"
)

type stubInsights struct {
	tips []string
	err  error
}

func (s *stubInsights) Generate(ctx context.Context, summary insight.MonthSummary) ([]string, error) {
	return s.tips, s.err
}

type stubExtractor struct {
	result *extraction.Result
	err    error
}

func (s *stubExtractor) ProcessStatement(ctx context.Context, userID, filename string, data []byte) (*extraction.Result, error) {
	return s.result, s.err
}

type stubSearcher struct {
	resp    *search.Response
	err     error
	indexed []string
}

func (s *stubSearcher) Search(ctx context.Context, params search.Params) (*search.Response, error) {
	return s.resp, s.err
}

func (s *stubSearcher) IndexTransaction(ctx context.Context, tx *finance.Transaction) error {
	s.indexed = append(s.indexed, tx.ID)
	return nil
}

type stubProfiles struct {
	names map[string]string
}

func (s *stubProfiles) GetProfile(ctx context.Context, uid string) (*auth.UserClaims, error) {
	return &auth.UserClaims{UID: uid, DisplayName: s.names[uid]}, nil
}

func (s *stubProfiles) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	s.names[uid] = displayName
	return nil
}

type testEnv struct {
	svc       *FinanceService
	store     *store.MemoryStore
	insights  *stubInsights
	extractor *stubExtractor
	searcher  *stubSearcher
	profiles  *stubProfiles
	handler   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:     store.NewMemoryStore(),
		insights:  &stubInsights{},
		extractor: &stubExtractor{},
		searcher:  &stubSearcher{},
		profiles:  &stubProfiles{names: map[string]string{}},
	}
	env.svc = NewFinanceService(env.store, env.insights, env.extractor, env.searcher, env.profiles,
		log.New(slog.LevelError, "test"))
	env.handler = env.svc.Routes()
	return env
}

// do runs one request as the given user; an empty uid leaves the
// request unauthenticated.
func (e *testEnv) do(t *testing.T, method, target, uid string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if uid != "" {
		req = req.WithContext(auth.WithUserClaims(req.Context(), &auth.UserClaims{UID: uid}))
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateTransaction(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/expenses", "user-1", map[string]any{
		"amount": 120.5, "category": "Food", "description": "lunch", "date": "2025-03-10",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Food", body["category"])
	assert.NotEmpty(t, body["id"])

	// Created record is indexed for search.
	require.Len(t, env.searcher.indexed, 1)

	txs, err := env.store.ListTransactions(context.Background(), finance.KindExpense, "user-1")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 120.5, txs[0].Amount)
	assert.Equal(t, 2025, txs[0].Date.Year())
}

func TestCreateTransactionValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/incomes", "user-1", map[string]any{"amount": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "positive")

	rec = env.do(t, http.MethodPost, "/v1/incomes", "user-1", map[string]any{"amount": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTransactionDefaultsCategory(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/incomes", "user-1", map[string]any{"amount": 5000})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, finance.DefaultIncomeCategory, decodeBody(t, rec)["category"])

	rec = env.do(t, http.MethodPost, "/v1/expenses", "user-1", map[string]any{"amount": 10})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, finance.DefaultExpenseCategory, decodeBody(t, rec)["category"])
}

func TestCreateTransactionEpochSecondsDate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/expenses", "user-1", map[string]any{
		"amount": 10, "date": map[string]any{"seconds": 1741564800},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	txs, err := env.store.ListTransactions(context.Background(), finance.KindExpense, "user-1")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(1741564800), txs[0].Date.Unix())
}

func TestUnauthenticatedRequests(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/v1/expenses"},
		{http.MethodPost, "/v1/incomes"},
		{http.MethodGet, "/v1/dashboard/monthly"},
		{http.MethodPost, "/v1/insights"},
		{http.MethodGet, "/v1/profile"},
		{http.MethodGet, "/v1/search?q=x"},
	} {
		rec := env.do(t, tc.method, tc.target, "", map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.target)
	}
}

func TestListForeignUserForbidden(t *testing.T) {
	env := newTestEnv(t)
	seedYear(t, env, "user-1")

	rec := env.do(t, http.MethodGet, "/v1/expenses?userId=user-2", "user-1", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Naming yourself explicitly is fine, as is omitting the parameter.
	rec = env.do(t, http.MethodGet, "/v1/expenses?userId=user-1", "user-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteTransaction(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/expenses", "user-1", map[string]any{"amount": 10})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody(t, rec)["id"].(string)

	// Another user cannot delete it.
	rec = env.do(t, http.MethodDelete, "/v1/expenses/"+id, "user-2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/v1/expenses/"+id, "user-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/v1/expenses/"+id, "user-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func seedYear(t *testing.T, env *testEnv, uid string) {
	t.Helper()
	seed := []finance.Transaction{
		{ID: "i1", UserID: uid, Kind: finance.KindIncome, Amount: 5000, Category: "Salary",
			Date: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{ID: "i2", UserID: uid, Kind: finance.KindIncome, Amount: 5000, Category: "Salary",
			Date: time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC)},
		{ID: "e1", UserID: uid, Kind: finance.KindExpense, Amount: 1200, Category: "Food",
			Date: time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)},
		{ID: "e2", UserID: uid, Kind: finance.KindExpense, Amount: 800, Category: "Housing",
			Date: time.Date(2025, time.January, 25, 0, 0, 0, 0, time.UTC)},
		{ID: "e3", UserID: uid, Kind: finance.KindExpense, Amount: 300, Category: "",
			Date: time.Date(2025, time.January, 26, 0, 0, 0, 0, time.UTC)},
	}
	for i := range seed {
		require.NoError(t, env.store.CreateTransaction(context.Background(), &seed[i]))
	}
}

func TestMonthlyDashboard(t *testing.T) {
	env := newTestEnv(t)
	seedYear(t, env, "user-1")

	rec := env.do(t, http.MethodGet, "/v1/dashboard/monthly?year=2025", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Year    int                     `json:"year"`
		Monthly []finance.MonthlyBucket `json:"monthly"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Monthly, 12)
	assert.Equal(t, "Jan", resp.Monthly[0].Label)
	assert.Equal(t, 5000.0, resp.Monthly[0].Income)
	assert.Equal(t, 2300.0, resp.Monthly[0].Expense)
	assert.Equal(t, 2700.0, resp.Monthly[0].Savings)
	// Months without activity stay zero-filled.
	assert.Equal(t, 0.0, resp.Monthly[11].Income)
}

func TestMonthlyDashboardInvalidYear(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/v1/dashboard/monthly?year=banana", "user-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoriesDashboard(t *testing.T) {
	env := newTestEnv(t)
	seedYear(t, env, "user-1")

	rec := env.do(t, http.MethodGet, "/v1/dashboard/categories?year=2025&month=1", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Categories []finance.CategoryBucket `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Categories, 3)
	assert.Equal(t, "Food", resp.Categories[0].Category)
	assert.Equal(t, "Housing", resp.Categories[1].Category)
	assert.Equal(t, finance.DefaultExpenseCategory, resp.Categories[2].Category)
}

func TestSavingsCSVDownload(t *testing.T) {
	env := newTestEnv(t)
	seedYear(t, env, "user-1")

	rec := env.do(t, http.MethodGet, "/v1/dashboard/savings.csv?year=2025", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Savings_Trend_2025.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "Month,Income,Expenses,Savings", lines[0])
	assert.Equal(t, "Jan,5000.00,2300.00,2700.00", lines[1])
	assert.Equal(t, "Dec,0.00,0.00,0.00", lines[12])
}

func TestInsights(t *testing.T) {
	env := newTestEnv(t)
	seedYear(t, env, "user-1")
	env.insights.tips = []string{"Income looks healthy", "Watch food spending"}

	rec := env.do(t, http.MethodPost, "/v1/insights", "user-1", map[string]any{"year": 2025, "month": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	tips := body["insights"].([]any)
	require.Len(t, tips, 2)
	assert.Equal(t, "Income looks healthy", tips[0])
}

func TestInsightsFailure(t *testing.T) {
	env := newTestEnv(t)
	env.insights.err = insight.ErrNoInsights

	rec := env.do(t, http.MethodPost, "/v1/insights", "user-1", map[string]any{"year": 2025, "month": 1})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestInsightsInvalidMonth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/v1/insights", "user-1", map[string]any{"year": 2025, "month": 13})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartUpload(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestStatementExtract(t *testing.T) {
	env := newTestEnv(t)
	env.extractor.result = &extraction.Result{
		UploadID: "upload-1",
		Transactions: []extraction.ClassifiedTransaction{
			{Date: "2025-03-01", Description: "Salary", Amount: 5000, Kind: "income", Category: "Salary"},
			{Date: "2025-03-04", Description: "Zomato", Amount: 120, Kind: "expense", Category: "Food"},
		},
		TotalIncome:  5000,
		TotalExpense: 120,
	}

	buf, contentType := multipartUpload(t, "statement.pdf", []byte("%PDF-1.4 fake"))
	req := httptest.NewRequest(http.MethodPost, "/v1/statements/extract", buf)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithUserClaims(req.Context(), &auth.UserClaims{UID: "user-1"}))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "upload-1", body["uploadId"])
	assert.Equal(t, 5000.0, body["totalIncome"])
}

func TestStatementExtractEmptyUpload(t *testing.T) {
	env := newTestEnv(t)
	env.extractor.err = extraction.ErrEmptyUpload

	buf, contentType := multipartUpload(t, "empty.pdf", []byte{})
	req := httptest.NewRequest(http.MethodPost, "/v1/statements/extract", buf)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithUserClaims(req.Context(), &auth.UserClaims{UID: "user-1"}))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatementExtractUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.extractor.err = errors.New("extraction service down")

	buf, contentType := multipartUpload(t, "statement.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/v1/statements/extract", buf)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithUserClaims(req.Context(), &auth.UserClaims{UID: "user-1"}))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestStatementSave(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/statements/save", "user-1", map[string]any{
		"transactions": []map[string]any{
			{"date": "2025-03-01", "description": "Salary", "amount": 5000, "type": "income", "category": "Salary"},
			{"date": "2025-03-04", "description": "Zomato", "amount": 120, "type": "expense", "category": "Food"},
			{"date": "not a date", "description": "Mystery", "amount": 40, "type": "expense", "category": ""},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, 3.0, body["saved"])
	assert.NotContains(t, body, "error")

	expenses, err := env.store.ListTransactions(context.Background(), finance.KindExpense, "user-1")
	require.NoError(t, err)
	require.Len(t, expenses, 2)

	// Rows with unparseable dates fall back to the save instant.
	for _, tx := range expenses {
		if tx.Description == "Mystery" {
			assert.WithinDuration(t, time.Now(), tx.Date, time.Minute)
			assert.Equal(t, finance.DefaultExpenseCategory, tx.Category)
		}
	}

	incomes, err := env.store.ListTransactions(context.Background(), finance.KindIncome, "user-1")
	require.NoError(t, err)
	require.Len(t, incomes, 1)
}

func TestStatementSaveBestEffort(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/statements/save", "user-1", map[string]any{
		"transactions": []map[string]any{
			{"date": "2025-03-01", "description": "ok", "amount": 100, "type": "expense"},
			{"date": "2025-03-02", "description": "bad", "amount": 0, "type": "expense"},
			{"date": "2025-03-03", "description": "ok too", "amount": 50, "type": "expense"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, 2.0, body["saved"])
	assert.Equal(t, "1 of 3 transactions failed to save", body["error"])

	// Earlier rows are not rolled back.
	expenses, err := env.store.ListTransactions(context.Background(), finance.KindExpense, "user-1")
	require.NoError(t, err)
	assert.Len(t, expenses, 2)
}

func TestStatementSaveNegativeAmount(t *testing.T) {
	env := newTestEnv(t)

	// Statement debits can round-trip with their sign intact; they are
	// stored as absolute values, not rejected.
	rec := env.do(t, http.MethodPost, "/v1/statements/save", "user-1", map[string]any{
		"transactions": []map[string]any{
			{"date": "2025-03-04", "description": "Zomato", "amount": -120.0, "type": "expense", "category": "Food"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, 1.0, body["saved"])
	assert.NotContains(t, body, "error")

	expenses, err := env.store.ListTransactions(context.Background(), finance.KindExpense, "user-1")
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, 120.0, expenses[0].Amount)
}

func TestStatementSaveEmpty(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/v1/statements/save", "user-1", map[string]any{"transactions": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	env.profiles.names["user-1"] = "Asha"

	rec := env.do(t, http.MethodGet, "/v1/profile", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Asha", body["displayName"])
	// Profile keys are camelCase on the wire.
	assert.Equal(t, "user-1", body["uid"])
	assert.Contains(t, body, "email")
	assert.Contains(t, body, "verified")

	rec = env.do(t, http.MethodPatch, "/v1/profile", "user-1", map[string]any{"displayName": "  Asha K  "})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Asha K", env.profiles.names["user-1"])

	rec = env.do(t, http.MethodPatch, "/v1/profile", "user-1", map[string]any{"displayName": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// Rejected before reaching the provider.
	assert.Equal(t, "Asha K", env.profiles.names["user-1"])
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	env.searcher.resp = &search.Response{
		Results:    []search.Result{{ID: "tx-1", Description: "Corner Cafe", Amount: 12.5}},
		TotalCount: 1,
	}

	rec := env.do(t, http.MethodGet, "/v1/search?q=cafe", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, 1.0, body["totalCount"])

	rec = env.do(t, http.MethodGet, "/v1/search", "user-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}
