// Package extraction turns uploaded bank statements into pending
// transactions via a hosted extraction service.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client is an HTTP client for the statement extraction service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new extraction service client. The timeout covers
// the full model round trip, which can take minutes for large scans.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// RawTransaction is one row as the extraction service reports it,
// before classification.
type RawTransaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	IsDebit     bool    `json:"is_debit"`
}

// extractionResponse is the service's wire format. Failures carry an
// error string instead of transactions.
type extractionResponse struct {
	Transactions []RawTransaction `json:"transactions"`
	Error        string           `json:"error,omitempty"`
}

// Extract sends a statement to the extraction service as a multipart
// upload with a single file field.
func (c *Client) Extract(ctx context.Context, data []byte, filename string) ([]RawTransaction, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result extractionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("extraction service: %s", result.Error)
	}

	return result.Transactions, nil
}
