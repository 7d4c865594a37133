// Package source fetches the ticket-purchase ledger export and normalizes it
// into typed sale rows for the pipeline.
//
// The ledger is a CSV export downloaded over HTTP once per run. Download or
// whole-file parse failures are fatal for the run (wrapped in
// models.ErrDataUnavailable); individual malformed fields are coerced to
// null/zero and never abort the run.
package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/routemind/routemind/internal/models"
)

// Client downloads the purchase ledger export
type Client struct {
	url            string
	httpClient     *http.Client
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new ledger download client
func NewClient(url string, timeout time.Duration, maxRetries int, retryDelayBase time.Duration) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}
}

// FetchLedger downloads the ledger export and normalizes it into sale rows.
// Any terminal failure wraps models.ErrDataUnavailable.
func (c *Client) FetchLedger(ctx context.Context) ([]RawSale, error) {
	resp, err := c.doRequest(ctx, c.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", models.ErrDataUnavailable, resp.StatusCode)
	}

	sales, err := Normalize(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}

	return sales, nil
}

// doRequest performs the HTTP request with retry logic
func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	var lastErr error

	for i := 0; i < c.maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("Accept", "text/csv")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(c.retryDelayBase * time.Duration(i+1))
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			time.Sleep(c.retryDelayBase * time.Duration(i+1))
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
