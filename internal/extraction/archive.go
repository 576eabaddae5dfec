package extraction

import (
	"context"
	"fmt"
	"path"
	"time"

	"cloud.google.com/go/storage"
)

// Archiver keeps raw uploaded statements in a GCS bucket so extractions
// can be audited or re-run later.
type Archiver struct {
	client *storage.Client
	bucket string
}

// NewArchiver wraps an existing storage client for the given bucket.
func NewArchiver(client *storage.Client, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket}
}

// Archive writes the raw statement bytes under statements/<user>/<upload>.
// Archival is best-effort; callers log failures instead of failing the
// extraction.
func (a *Archiver) Archive(ctx context.Context, userID, uploadID, filename string, data []byte) (string, error) {
	objectName := path.Join("statements", userID, uploadID+path.Ext(filename))

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentTypeFor(filename)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write statement to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", a.bucket, objectName), nil
}

func contentTypeFor(filename string) string {
	switch path.Ext(filename) {
	case ".pdf":
		return "application/pdf"
	case ".csv":
		return "text/csv"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
