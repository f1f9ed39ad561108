package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxBodySize = 8 << 20

// Fetcher performs page GETs with a bounded timeout and a browser-like identity.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{httpClient: &http.Client{}, timeout: timeout, userAgent: userAgent}
}

func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s failed with status %d", url, resp.StatusCode)
	}

	return body, nil
}
