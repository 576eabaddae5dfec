package extraction

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	maxTextBytes     = 100 * 1024 // 100KB cap for extracted text
	scannedThreshold = 50         // chars per page below which PDF is considered scanned
)

// PDFAnalysis summarises an uploaded PDF before it ships to the
// extraction service.
type PDFAnalysis struct {
	PageCount     int
	ExtractedText string
	IsScanned     bool
	Error         error
}

// AnalyzePDF extracts text and metadata from a PDF upload. It is
// wrapped in recover() and never panics or blocks extraction; on any
// error it returns conservative defaults that let the upload proceed.
func AnalyzePDF(data []byte) (result *PDFAnalysis) {
	result = &PDFAnalysis{
		PageCount: 1,
		IsScanned: true,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("panic during PDF analysis: %v", r)
			result.IsScanned = true
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		result.Error = fmt.Errorf("open PDF reader: %w", err)
		return result
	}

	result.PageCount = reader.NumPage()
	if result.PageCount < 1 {
		result.PageCount = 1
	}

	plainText, err := reader.GetPlainText()
	if err != nil {
		result.Error = fmt.Errorf("extract plain text: %w", err)
		return result
	}

	textBytes, err := io.ReadAll(io.LimitReader(plainText, int64(maxTextBytes)))
	if err != nil {
		result.Error = fmt.Errorf("read plain text: %w", err)
		return result
	}

	result.ExtractedText = string(textBytes)
	result.IsScanned = isLikelyScanned(result.ExtractedText, result.PageCount)

	return result
}

// isLikelyScanned flags PDFs whose text layer is too thin to be a
// digital statement.
func isLikelyScanned(text string, pageCount int) bool {
	chars := len(strings.TrimSpace(text))
	if pageCount < 1 {
		pageCount = 1
	}
	return chars/pageCount < scannedThreshold
}

// IsPDF sniffs the upload's magic bytes.
func IsPDF(data []byte) bool {
	return len(data) >= 5 && bytes.HasPrefix(data, []byte("%PDF-"))
}
