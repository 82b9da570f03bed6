// Package refdata provides catalog adapters for the upstream reference-data
// service: live HTTP, a local file for offline runs, and a TTL snapshot
// decorator.
package refdata

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// HTTPCatalog fetches reference data over HTTP. Transient failures are
// retried with doubling backoff before an error is surfaced; callers treat
// exhaustion as "nothing plannable this pass".
type HTTPCatalog struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
	backoff time.Duration
}

func NewHTTPCatalog(baseURL string, client *http.Client, logger *log.Logger) *HTTPCatalog {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &HTTPCatalog{baseURL: baseURL, client: client, logger: logger, backoff: initialBackoff}
}

func (c *HTTPCatalog) Drones(ctx context.Context) ([]*domain.Drone, error) {
	var out []*domain.Drone
	if err := c.getJSON(ctx, "/drones", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPCatalog) ServicePoints(ctx context.Context) ([]*domain.ServicePoint, error) {
	var out []*domain.ServicePoint
	if err := c.getJSON(ctx, "/service-points", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPCatalog) NoFlyZones(ctx context.Context) ([]*domain.NoFlyZone, error) {
	var out []*domain.NoFlyZone
	if err := c.getJSON(ctx, "/restricted-areas", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPCatalog) ServicePointDrones(ctx context.Context) ([]*domain.ServicePointDrones, error) {
	var out []*domain.ServicePointDrones
	if err := c.getJSON(ctx, "/drones-for-service-points", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// getJSON GETs a path and decodes the body, retrying transient failures.
// A 4xx is not transient and fails immediately.
func (c *HTTPCatalog) getJSON(ctx context.Context, path string, out any) error {
	backoff := c.backoff

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, retryable, err := c.get(ctx, path)
		if err == nil {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("refdata: decode %s: %w", path, err)
			}
			return nil
		}
		lastErr = err
		if !retryable {
			return fmt.Errorf("refdata: get %s: %w", path, err)
		}

		if attempt < maxAttempts {
			c.logger.Printf("refdata: retrying path=%s attempt=%d err=%v", path, attempt, err)
			select {
			case <-ctx.Done():
				return fmt.Errorf("refdata: get %s: %w", path, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	return fmt.Errorf("refdata: get %s: giving up after %d attempts: %w", path, maxAttempts, lastErr)
}

func (c *HTTPCatalog) get(ctx context.Context, path string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}
