// Package search provides full-text transaction search via Algolia.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/algolia/algoliasearch-client-go/v4/algolia/search"

	"github.com/moneylens/backend/internal/finance"
)

// Config holds Algolia configuration.
type Config struct {
	AppID     string
	APIKey    string
	IndexName string
}

// Params defines the input for a transaction search.
type Params struct {
	Query    string
	UserID   string
	Category string
	Kind     finance.Kind
	Page     int
	PageSize int
}

// Result is one transaction hit.
type Result struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Kind        string    `json:"kind"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

// Response holds one page of search results.
type Response struct {
	Results    []Result `json:"results"`
	TotalCount int      `json:"totalCount"`
	TotalPages int      `json:"totalPages"`
	Page       int      `json:"page"`
}

// AlgoliaClient wraps the Algolia search API client.
type AlgoliaClient struct {
	client    *search.APIClient
	indexName string
}

// NewAlgoliaClient creates a new Algolia search client.
func NewAlgoliaClient(cfg Config) (*AlgoliaClient, error) {
	if cfg.AppID == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("algolia AppID and APIKey are required")
	}
	if cfg.IndexName == "" {
		cfg.IndexName = "moneylens"
	}

	client, err := search.NewClient(cfg.AppID, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("creating algolia client: %w", err)
	}

	return &AlgoliaClient{
		client:    client,
		indexName: cfg.IndexName,
	}, nil
}

// Search performs a full-text search via Algolia.
func (c *AlgoliaClient) Search(ctx context.Context, params Params) (*Response, error) {
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 25
	}
	if pageSize > 100 {
		pageSize = 100
	}

	page := params.Page
	if page < 0 {
		page = 0
	}

	searchParams := search.SearchParamsObjectAsSearchParams(
		search.NewSearchParamsObject().
			SetQuery(params.Query).
			SetHitsPerPage(int32(pageSize)).
			SetPage(int32(page)).
			SetFilters(buildFilters(params)),
	)

	resp, err := c.client.SearchSingleIndex(c.client.NewApiSearchSingleIndexRequest(c.indexName).WithSearchParams(searchParams))
	if err != nil {
		return nil, fmt.Errorf("algolia search: %w", err)
	}

	results := make([]Result, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		if r, ok := hitToResult(hit.AdditionalProperties); ok {
			results = append(results, r)
		}
	}

	totalCount := 0
	if resp.NbHits != nil {
		totalCount = int(*resp.NbHits)
	}
	totalPages := 0
	if resp.NbPages != nil {
		totalPages = int(*resp.NbPages)
	}

	return &Response{
		Results:    results,
		TotalCount: totalCount,
		TotalPages: totalPages,
		Page:       page,
	}, nil
}

// IndexTransaction pushes one transaction into the index. Indexing is
// best-effort; callers log failures and move on.
func (c *AlgoliaClient) IndexTransaction(ctx context.Context, tx *finance.Transaction) error {
	body := map[string]any{
		"objectID":    tx.ID,
		"UserId":      tx.UserID,
		"Description": tx.Description,
		"Category":    tx.Category,
		"Kind":        string(tx.Kind),
		"Amount":      tx.Amount,
	}
	if !tx.Date.IsZero() {
		body["DateUnix"] = tx.Date.Unix()
	}

	_, err := c.client.SaveObject(c.client.NewApiSaveObjectRequest(c.indexName, body))
	if err != nil {
		return fmt.Errorf("algolia index: %w", err)
	}
	return nil
}

// buildFilters constructs the Algolia filter string. UserId is always
// enforced so one user can never see another's records.
func buildFilters(params Params) string {
	var parts []string

	if params.UserID != "" {
		parts = append(parts, fmt.Sprintf("UserId:%q", params.UserID))
	}
	if params.Category != "" {
		parts = append(parts, fmt.Sprintf("Category:%q", params.Category))
	}
	if params.Kind != "" {
		parts = append(parts, fmt.Sprintf("Kind:%q", string(params.Kind)))
	}

	return strings.Join(parts, " AND ")
}

// hitToResult converts an Algolia hit to a Result. Hits without an
// objectID are dropped.
func hitToResult(props map[string]any) (Result, bool) {
	var r Result

	if v, ok := props["objectID"].(string); ok {
		r.ID = v
	}
	if r.ID == "" {
		return Result{}, false
	}

	if v, ok := props["Description"].(string); ok {
		r.Description = v
	}
	if v, ok := props["Category"].(string); ok {
		r.Category = v
	}
	if v, ok := props["Kind"].(string); ok {
		r.Kind = v
	}
	if v, ok := props["Amount"].(float64); ok {
		r.Amount = v
	}
	if v, ok := props["DateUnix"].(float64); ok && v > 0 {
		r.Date = time.Unix(int64(v), 0)
	}

	return r, true
}
