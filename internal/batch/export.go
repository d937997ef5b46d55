package batch

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"fake_e164_backend/platform/storage"
)

// Encode renders numbers in the given format and returns the payload, its
// content type and file extension.
func Encode(numbers []string, format Format) ([]byte, string, string, error) {
	switch format {
	case FormatJSON, "":
		data, err := json.Marshal(struct {
			Numbers []string `json:"numbers"`
		}{Numbers: numbers})
		if err != nil {
			return nil, "", "", err
		}
		return data, "application/json", "json", nil
	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write([]string{"number"}); err != nil {
			return nil, "", "", err
		}
		for _, n := range numbers {
			if err := w.Write([]string{n}); err != nil {
				return nil, "", "", err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, "", "", err
		}
		return buf.Bytes(), "text/csv", "csv", nil
	default:
		return nil, "", "", fmt.Errorf("unsupported export format %q", format)
	}
}

// Exporter uploads encoded batches to object storage.
type Exporter struct {
	store  storage.StorageService
	bucket string
}

// NewExporter creates an exporter writing to bucket.
func NewExporter(store storage.StorageService, bucket string) *Exporter {
	return &Exporter{store: store, bucket: bucket}
}

// Export uploads numbers as batches/<id>.<ext> and returns the object key.
func (e *Exporter) Export(ctx context.Context, job Job, numbers []string) (string, error) {
	data, contentType, ext, err := Encode(numbers, job.Spec.format())
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("batches/%s.%s", job.ID, ext)
	if err := e.store.PutObject(ctx, e.bucket, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", err
	}
	return key, nil
}

// DownloadURL presigns a download link for an exported batch.
func (e *Exporter) DownloadURL(ctx context.Context, key string) (*storage.PresignedURL, error) {
	return e.store.GenerateDownloadURL(ctx, e.bucket, key)
}
