package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/moneylens/backend/internal/log"
)

// ErrEmptyUpload is returned when the uploaded file has no content.
var ErrEmptyUpload = errors.New("uploaded file is empty")

// Result is one statement extraction ready for user review.
type Result struct {
	UploadID     string                  `json:"uploadId"`
	Transactions []ClassifiedTransaction `json:"transactions"`
	TotalIncome  float64                 `json:"totalIncome"`
	TotalExpense float64                 `json:"totalExpense"`
	PageCount    int                     `json:"pageCount,omitempty"`
	Scanned      bool                    `json:"scanned,omitempty"`
	ArchiveURI   string                  `json:"-"`
}

// Service orchestrates statement processing: pre-analysis, best-effort
// archival, the extraction call, and classification.
type Service struct {
	client   *Client
	archiver *Archiver
	logger   *log.Logger
}

// NewService wires the extraction pipeline. The archiver is optional;
// when nil, raw statements are not retained.
func NewService(client *Client, archiver *Archiver, logger *log.Logger) *Service {
	return &Service{client: client, archiver: archiver, logger: logger}
}

// ProcessStatement runs the full pipeline for one uploaded statement.
func (s *Service) ProcessStatement(ctx context.Context, userID, filename string, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	result := &Result{UploadID: uuid.New().String()}

	if IsPDF(data) {
		analysis := AnalyzePDF(data)
		if analysis.Error != nil {
			s.logger.Warn("pdf pre-analysis failed",
				"upload_id", result.UploadID, "error", analysis.Error)
		}
		result.PageCount = analysis.PageCount
		result.Scanned = analysis.IsScanned
		if analysis.Error == nil && !analysis.IsScanned && strings.TrimSpace(analysis.ExtractedText) == "" {
			return nil, ErrEmptyUpload
		}
	}

	if s.archiver != nil {
		uri, err := s.archiver.Archive(ctx, userID, result.UploadID, filename, data)
		if err != nil {
			s.logger.Warn("statement archival failed",
				"upload_id", result.UploadID, "error", err)
		} else {
			result.ArchiveURI = uri
		}
	}

	raws, err := s.client.Extract(ctx, data, filename)
	if err != nil {
		return nil, fmt.Errorf("extract statement: %w", err)
	}

	result.Transactions, result.TotalIncome, result.TotalExpense = ClassifyAll(raws)

	s.logger.Info("statement processed",
		"upload_id", result.UploadID,
		"user_id", userID,
		"transactions", len(result.Transactions))

	return result, nil
}
