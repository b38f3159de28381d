package tabs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/go-resty/resty/v2"

	"github.com/bnema/comet/internal/application/port"
	"github.com/bnema/comet/internal/logging"
)

// DefaultCDPEndpoint is Chromium's usual --remote-debugging-port address.
const DefaultCDPEndpoint = "http://127.0.0.1:9222"

const defaultCDPTimeout = 5 * time.Second

// ErrNoDevTools is returned when the DevTools endpoint cannot be reached.
var ErrNoDevTools = errors.New("devtools endpoint unavailable")

// CDPOptions configures a CDPController.
type CDPOptions struct {
	Endpoint string
	Timeout  time.Duration
}

// CDPController drives a running Chromium through the DevTools protocol.
// Targets are listed through the DevTools HTTP endpoint, which reports page
// targets most recently focused first; navigation goes over chromedp.
type CDPController struct {
	endpoint string
	timeout  time.Duration
	http     *resty.Client
}

var _ port.TabController = (*CDPController)(nil)

// NewCDPController creates a controller for the DevTools endpoint in opts.
func NewCDPController(opts CDPOptions) (*CDPController, error) {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultCDPEndpoint
	}
	if !strings.HasPrefix(opts.Endpoint, "http://") && !strings.HasPrefix(opts.Endpoint, "https://") {
		return nil, fmt.Errorf("cdp endpoint must be an http(s) URL, got %q", opts.Endpoint)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultCDPTimeout
	}

	endpoint := strings.TrimRight(opts.Endpoint, "/")
	return &CDPController{
		endpoint: endpoint,
		timeout:  opts.Timeout,
		http:     resty.New().SetBaseURL(endpoint).SetTimeout(opts.Timeout),
	}, nil
}

type devtoolsTarget struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (c *CDPController) pages(ctx context.Context) ([]devtoolsTarget, error) {
	var targets []devtoolsTarget
	resp, err := c.http.R().SetContext(ctx).SetResult(&targets).Get("/json/list")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDevTools, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d", ErrNoDevTools, resp.StatusCode())
	}

	pages := targets[:0]
	for _, t := range targets {
		if t.Type == "page" && !strings.HasPrefix(t.URL, "devtools://") {
			pages = append(pages, t)
		}
	}
	return pages, nil
}

// ActiveTab returns the most recently focused page, or nil when the browser
// has no pages.
func (c *CDPController) ActiveTab(ctx context.Context) (*port.Tab, error) {
	pages, err := c.pages(ctx)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}
	p := pages[0]
	return &port.Tab{ID: p.ID, URL: p.URL, Title: p.Title}, nil
}

// Navigate loads pageURL in the page target tabID.
func (c *CDPController) Navigate(ctx context.Context, tabID string, pageURL string) error {
	err := c.withTarget(ctx, tabID, func(tctx context.Context) error {
		return chromedp.Run(tctx, chromedp.Navigate(pageURL))
	})
	if err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	logging.FromContext(ctx).Debug().Str("tab", tabID).Str("url", pageURL).Msg("navigated tab")
	return nil
}

// OpenTab creates and focuses a new page for pageURL.
func (c *CDPController) OpenTab(ctx context.Context, pageURL string) error {
	log := logging.FromContext(ctx)

	active, err := c.ActiveTab(ctx)
	if err != nil {
		return err
	}
	if active == nil {
		// Nothing to attach to; let the HTTP endpoint create the page.
		// DevTools unescapes the whole query once before reading it as
		// the URL, so it must be escaped as a single component.
		resp, err := c.http.R().SetContext(ctx).Put("/json/new?" + url.QueryEscape(pageURL))
		if err != nil {
			return fmt.Errorf("open tab: %w", err)
		}
		if !resp.IsSuccess() {
			return fmt.Errorf("open tab: status %d", resp.StatusCode())
		}
		log.Debug().Str("url", pageURL).Msg("opened tab via devtools http")
		return nil
	}

	var created target.ID
	err = c.withTarget(ctx, active.ID, func(tctx context.Context) error {
		return chromedp.Run(tctx, chromedp.ActionFunc(func(actx context.Context) error {
			id, err := target.CreateTarget(pageURL).Do(actx)
			if err != nil {
				return err
			}
			created = id
			return target.ActivateTarget(id).Do(actx)
		}))
	})
	if err != nil {
		return fmt.Errorf("open tab: %w", err)
	}

	log.Debug().Str("tab", string(created)).Str("url", pageURL).Msg("opened tab")
	return nil
}

func (c *CDPController) withTarget(ctx context.Context, tabID string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, c.endpoint)
	tctx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithTargetID(target.ID(tabID)))
	// Deferred calls run last-in first-out: the websocket is dropped before
	// the tab context, so the attached page is left open.
	defer cancelTab()
	defer cancelAlloc()

	return fn(tctx)
}
