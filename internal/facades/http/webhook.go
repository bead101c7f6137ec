package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tabwatch/tabwatch/internal/models"
)

// WebhookFacade pushes flagged report rows to an external endpoint over
// HTTP. One POST per analysis run carries every flagged row.
type WebhookFacade struct {
	client *resty.Client
}

// NewWebhookFacade creates a new WebhookFacade with the given REST client.
// The client's base URL points at the webhook endpoint.
func NewWebhookFacade(client *resty.Client) *WebhookFacade {
	return &WebhookFacade{
		client: client,
	}
}

// notification is the webhook payload shape.
type notification struct {
	SentAt time.Time          `json:"sent_at"`
	Rows   []models.ReportRow `json:"rows"`
}

// Notify sends the flagged rows as a gzip-compressed JSON POST. Nothing
// is sent when rows is empty.
func (f *WebhookFacade) Notify(ctx context.Context, rows []models.ReportRow) error {
	if len(rows) == 0 {
		return nil
	}

	jsonData, err := json.Marshal(notification{
		SentAt: time.Now().UTC(),
		Rows:   rows,
	})
	if err != nil {
		return err
	}

	compressedData, err := compressGzip(jsonData)
	if err != nil {
		return err
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Content-Encoding", "gzip").
		SetBody(compressedData).
		Post("")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("webhook responded %s", resp.Status())
	}
	return nil
}

// compressGzip compresses input bytes using gzip.
func compressGzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	_, err := gzw.Write(data)
	if err != nil {
		_ = gzw.Close()
		return nil, err
	}
	err = gzw.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
