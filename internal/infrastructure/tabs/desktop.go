package tabs

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/bnema/comet/internal/application/port"
	"github.com/bnema/comet/internal/logging"
)

// RunFunc starts an external command.
type RunFunc func(ctx context.Context, name string, args ...string) error

func startCommand(ctx context.Context, name string, args ...string) error {
	// Start, not Run: some openers block until the browser exits.
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// DesktopController hands URLs to the desktop's default browser. It cannot
// see browser tabs, so ActiveTab always reports none and every search takes
// the new-tab path.
type DesktopController struct {
	opener []string
	run    RunFunc
}

var _ port.TabController = (*DesktopController)(nil)

// NewDesktopController creates a controller using opener, a command line such
// as "xdg-open" or "firefox --new-tab". Empty picks the platform default.
func NewDesktopController(opener string) *DesktopController {
	fields := strings.Fields(opener)
	if len(fields) == 0 {
		fields = []string{defaultOpener()}
	}
	return &DesktopController{opener: fields, run: startCommand}
}

// WithRunner replaces the command runner.
func (c *DesktopController) WithRunner(run RunFunc) *DesktopController {
	c.run = run
	return c
}

func defaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	default:
		return "xdg-open"
	}
}

func (c *DesktopController) ActiveTab(context.Context) (*port.Tab, error) {
	return nil, nil
}

func (c *DesktopController) Navigate(ctx context.Context, _ string, url string) error {
	return c.OpenTab(ctx, url)
}

func (c *DesktopController) OpenTab(ctx context.Context, url string) error {
	log := logging.FromContext(ctx)

	args := append(append([]string(nil), c.opener[1:]...), url)
	if err := c.run(ctx, c.opener[0], args...); err != nil {
		log.Error().Err(err).Str("opener", c.opener[0]).Msg("failed to open url")
		return fmt.Errorf("run %s: %w", c.opener[0], err)
	}

	log.Debug().Str("opener", c.opener[0]).Str("url", url).Msg("opened url")
	return nil
}
