package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"WeekdaySentinel/internal/model"
)

// DefaultTimeout bounds a single HTTP request to a price source.
const DefaultTimeout = 30 * time.Second

// Fetcher retrieves daily price records for an instrument.
// Records are returned in ascending timestamp order, limited to the most recent days.
type Fetcher interface {
	FetchDailyPrices(ctx context.Context, instrument model.Instrument, days int) ([]model.RawDailyRecord, error)
	Name() string
}

// NewHTTPClient builds a client with optional proxy support. A malformed
// proxy URL is ignored; a non-positive timeout means DefaultTimeout.
func NewHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
