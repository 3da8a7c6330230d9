package mt5

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"

	"tradesync/internal/api"
	"tradesync/internal/logger"
)

// Fetcher downloads published MT4/MT5 statements (brokers and copy
// services expose them as public HTML pages).
type Fetcher struct {
	allowedDomains []string
	timeout        time.Duration
}

// NewFetcher builds a statement fetcher. An empty domain list allows
// any host.
func NewFetcher(allowedDomains []string, timeout time.Duration) *Fetcher {
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Fetcher{allowedDomains: allowedDomains, timeout: timeout}
}

// Fetch retrieves the raw statement HTML from a URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var opts []colly.CollectorOption
	if len(f.allowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(f.allowedDomains...))
	}
	c := colly.NewCollector(opts...)
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		for k, v := range api.BrowserHeaders() {
			r.Headers.Set(k, v)
		}
	})

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	var fetchErr error
	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "statement fetch failed", err, "url", url)
		fetchErr = err
	})

	if err := c.Visit(url); err != nil {
		return nil, fmt.Errorf("fetch statement %s: %w", url, err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fmt.Errorf("fetch statement %s: %w", url, fetchErr)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("fetch statement %s: empty response", url)
	}
	logger.Debug(ctx, "statement fetched", "url", url, "bytes", len(body))
	return body, nil
}
