package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lesson_media_service/internal/media/domain"
)

// httpDispatcher posts notifications to the ingestion endpoint of the
// notification service. It satisfies domain.NotificationDispatcher; the
// worker never sees the HTTP hop.
type httpDispatcher struct {
	endpoint string
	client   *http.Client
}

// NewHTTPDispatcher create a NotificationDispatcher over the ingestion endpoint
func NewHTTPDispatcher(endpoint string) domain.NotificationDispatcher {
	return &httpDispatcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *httpDispatcher) Dispatch(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post notification failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
	}
	return nil
}
