package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Simplici0/b2b-catalog/internal/retry"
)

// errRetryable marks transient fetch failures: transport errors and 5xx responses.
var errRetryable = errors.New("retryable fetch failure")

// HTTPSource fetches the catalog document over HTTP.
type HTTPSource struct {
	URL    string
	Client *http.Client
	Retry  retry.Config
}

// NewHTTPSource returns a source with a bounded client and three attempts.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
		Retry: retry.Config{
			MaxAttempts: 3,
			Backoff:     retry.Exponential(200 * time.Millisecond),
			ShouldRetry: func(err error) bool { return errors.Is(err, errRetryable) },
		},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]Product, error) {
	return retry.DoWithResult(ctx, s.Retry, func() ([]Product, error) {
		return s.fetchOnce(ctx)
	})
}

func (s *HTTPSource) fetchOnce(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errRetryable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: unexpected status %d", errRetryable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return Decode(resp.Body)
}
