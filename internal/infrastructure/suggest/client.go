// Package suggest fetches autocomplete responses from search engine endpoints.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bnema/comet/internal/application/port"
	"github.com/bnema/comet/internal/logging"
)

// DefaultTimeout bounds a single suggestion request.
const DefaultTimeout = 3 * time.Second

// DefaultUserAgent is sent when the configuration leaves it empty.
const DefaultUserAgent = "comet/1.0 (+https://github.com/bnema/comet)"

// ErrHTTPStatus is returned for non-2xx responses.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// Options configures the client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// Client performs suggestion GET requests. It never retries: a failed lookup
// yields no suggestions for that keystroke.
type Client struct {
	resty *resty.Client
}

var _ port.SuggestClient = (*Client)(nil)

// NewClient creates a suggestion client.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	r := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "application/json, text/javascript, */*")

	return &Client{resty: r}
}

// Get fetches rawURL and returns the response body.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	resp, err := c.resty.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("suggest request: %w", err)
	}

	log.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("suggest response")

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode())
	}
	return resp.Body(), nil
}
