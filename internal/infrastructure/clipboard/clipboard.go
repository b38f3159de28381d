// Package clipboard provides a clipboard adapter using wl-clipboard (Wayland) with X11 fallback.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bnema/comet/internal/application/port"
	"github.com/bnema/comet/internal/logging"
)

// ErrNoTool is returned when no supported clipboard tool is installed.
var ErrNoTool = errors.New("no clipboard tool available (install wl-clipboard or xclip)")

// Adapter implements port.Clipboard using system clipboard tools.
type Adapter struct {
	copyCmd string
}

// New creates a new clipboard adapter.
// Detects Wayland vs X11 and selects the matching tool.
func New() port.Clipboard {
	return &Adapter{copyCmd: detect(os.Getenv, exec.LookPath)}
}

// detect returns the path of the first usable copy tool, or "".
func detect(getenv func(string) string, lookPath func(string) (string, error)) string {
	var candidates []string
	if getenv("WAYLAND_DISPLAY") != "" {
		candidates = append(candidates, "wl-copy")
	}
	if getenv("DISPLAY") != "" {
		candidates = append(candidates, "xclip", "xsel")
	}
	for _, name := range candidates {
		if path, err := lookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// copyArgs returns the arguments that make tool read the clipboard from stdin.
func copyArgs(tool string) ([]string, error) {
	switch filepath.Base(tool) {
	case "wl-copy":
		return nil, nil
	case "xclip":
		return []string{"-selection", "clipboard"}, nil
	case "xsel":
		return []string{"--clipboard", "--input"}, nil
	}
	return nil, fmt.Errorf("unknown clipboard tool: %s", tool)
}

// WriteText copies text to the clipboard.
func (a *Adapter) WriteText(ctx context.Context, text string) error {
	log := logging.FromContext(ctx)

	if a.copyCmd == "" {
		log.Error().Err(ErrNoTool).Msg("clipboard write failed")
		return ErrNoTool
	}

	args, err := copyArgs(a.copyCmd)
	if err != nil {
		log.Error().Err(err).Msg("clipboard write failed")
		return err
	}

	cmd := exec.CommandContext(ctx, a.copyCmd, args...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		log.Error().Err(err).Str("tool", a.copyCmd).Msg("clipboard write failed")
		return fmt.Errorf("run %s: %w", filepath.Base(a.copyCmd), err)
	}

	log.Debug().Str("tool", a.copyCmd).Int("len", len(text)).Msg("clipboard write success")
	return nil
}
