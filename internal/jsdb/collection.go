package jsdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxErrorBody caps how much of a failed response is kept in StatusError.
const maxErrorBody = 4 << 10

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Body)
}

// Collection is an append-only array of documents on the server.
type Collection struct {
	client   *Client
	database string
	name     string
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

type pushRequest struct {
	Value any `json:"value"`
}

// Push appends doc to the collection. The call is bounded by the client's
// timeout and is not retried.
func (c *Collection) Push(ctx context.Context, doc any) error {
	body, err := json.Marshal(pushRequest{Value: doc})
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.client.cfg.Timeout)
	defer cancel()

	endpoint := c.client.endpoint("db", c.database, c.name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.client.userAgent)
	req.Header.Set("X-API-Key", c.client.cfg.APIKey)
	req.Header.Set("X-Request-ID", requestID)

	log := c.client.log.With(
		zap.String("collection", c.name),
		zap.String("request_id", requestID),
	)
	log.Debug("pushing document", zap.String("url", endpoint), zap.Int("body_bytes", len(body)))

	start := time.Now()
	resp, err := c.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pushing to %s: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("push rejected", zap.Int("status", resp.StatusCode))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	log.Debug("push accepted", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))
	return nil
}
