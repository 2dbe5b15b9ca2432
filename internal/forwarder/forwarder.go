// Package forwarder delivers finalized lead and membership records to the
// external sink webhook. Delivery is best-effort and at-most-once per call:
// one POST attempt, no retry, and failure never surfaces past the boolean
// result.
package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

type Forwarder struct {
	webhookURL string
	client     *http.Client
	logger     *slog.Logger
}

func New(webhookURL string, timeout time.Duration, logger *slog.Logger) *Forwarder {
	return &Forwarder{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Forward posts the record to the sink. Any 2xx response counts as
// delivered; everything else, including an unconfigured sink, is reported
// as false.
func (f *Forwarder) Forward(ctx context.Context, record map[string]string) bool {
	if f.webhookURL == "" {
		f.logger.Warn("lead sink not configured, dropping record")
		return false
	}

	body, err := json.Marshal(record)
	if err != nil {
		f.logger.Error("marshal sink payload", "error", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.webhookURL, bytes.NewReader(body))
	if err != nil {
		f.logger.Error("create sink request", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("sink unreachable", "error", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Warn("sink rejected record", "status", resp.StatusCode)
		return false
	}

	f.logger.Info("record forwarded", "fields", len(record))
	return true
}
