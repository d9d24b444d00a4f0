// Package fetcher implements the paginated brewery API client using gocolly.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/diogotoledo/inbev-case/internal/brewery"
	"github.com/diogotoledo/inbev-case/internal/metrics"
)

// Config controls client behavior.
type Config struct {
	// BaseURL is the brewery listing endpoint, without query parameters.
	BaseURL   string
	PageSize  int
	UserAgent string
	Timeout   time.Duration
	// MaxPages caps FetchAll as a safety net; zero means unbounded.
	MaxPages int
}

// Client pages through the brewery API. It performs no retries: transport
// failures propagate to the caller so the scheduler's retry policy governs
// them.
type Client struct {
	cfg           Config
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// New builds a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 200
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	// Page URLs repeat across scheduled runs; the collector must not treat
	// them as already visited.
	c.AllowURLRevisit = true
	c.WithTransport(newHTTPTransport())

	return &Client{
		cfg:           cfg,
		baseCollector: c,
		logger:        logger,
	}
}

// FetchPage executes a single bounded-timeout GET for the given 1-based page
// index and returns the parsed record list, which may be empty.
func (c *Client) FetchPage(ctx context.Context, page int) ([]brewery.Record, error) {
	var (
		body     []byte
		fetchErr error
	)

	collector := c.baseCollector.Clone()
	if c.cfg.UserAgent != "" {
		collector.UserAgent = c.cfg.UserAgent
	}
	collector.SetRequestTimeout(c.cfg.Timeout)

	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.runCollector(ctx, collector, c.pageURL(page), &fetchErr); err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}

	var records []brewery.Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("parse page %d: %w", page, err)
	}

	metrics.PageFetched()
	c.logger.Info("fetched page",
		zap.Int("page", page),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// FetchAll pages through the entire API starting at page 1 and accumulates
// every record. It stops the first time a page comes back empty. No
// deduplication is performed.
func (c *Client) FetchAll(ctx context.Context) ([]brewery.Record, error) {
	var all []brewery.Record
	for page := 1; ; page++ {
		if c.cfg.MaxPages > 0 && page > c.cfg.MaxPages {
			return nil, fmt.Errorf("pagination exceeded %d pages without an empty page", c.cfg.MaxPages)
		}
		records, err := c.FetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			c.logger.Info("no more data",
				zap.Int("page", page),
				zap.Int("total_fetched", len(all)),
			)
			break
		}
		all = append(all, records...)
	}
	return all, nil
}

func (c *Client) pageURL(page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.cfg.PageSize))
	return c.cfg.BaseURL + "?" + q.Encode()
}

func (c *Client) runCollector(ctx context.Context, collector *colly.Collector, target string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(target)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return err
		}
		if *fetchErr != nil {
			return *fetchErr
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
