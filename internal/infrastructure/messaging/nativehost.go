package messaging

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bnema/comet/internal/logging"
)

const (
	// MaxOutgoingFrame is the browser's limit for host-to-browser messages.
	MaxOutgoingFrame = 1 << 20
	// MaxIncomingFrame bounds browser-to-host messages.
	MaxIncomingFrame = 64 << 20

	// DefaultHostName is the native messaging host name comet registers.
	DefaultHostName = "io.github.bnema.comet"
)

// ErrFrameTooLarge is returned when a frame exceeds its direction's limit.
var ErrFrameTooLarge = errors.New("native message frame too large")

var hostNamePattern = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)*$`)

// ReadFrame reads one length-prefixed message. The prefix is a 32-bit
// unsigned integer in native byte order.
func ReadFrame(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.NativeEndian, &n); err != nil {
		return nil, err
	}
	if n > MaxIncomingFrame {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return buf, nil
}

// WriteFrame writes one length-prefixed message.
func WriteFrame(w io.Writer, msg []byte) error {
	if len(msg) > MaxOutgoingFrame {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(msg))
	}

	frame := make([]byte, 4+len(msg))
	binary.NativeEndian.PutUint32(frame, uint32(len(msg)))
	copy(frame[4:], msg)
	_, err := w.Write(frame)
	return err
}

// NativeHost serves the router over the browser's native messaging stdio
// framing. Frames are processed one at a time, in order.
type NativeHost struct {
	router *MessageRouter
}

// NewNativeHost creates a host for router.
func NewNativeHost(router *MessageRouter) *NativeHost {
	return &NativeHost{router: router}
}

// Serve answers frames from r on w until r reaches EOF or ctx is cancelled.
func (h *NativeHost) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	log := logging.FromContext(ctx).With().Str("component", "native-host").Logger()
	log.Debug().Msg("native host serving")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := ReadFrame(r)
		if errors.Is(err, io.EOF) {
			log.Debug().Msg("browser closed the pipe")
			return nil
		}
		if err != nil {
			return err
		}

		resp, err := h.router.Dispatch(ctx, msg)
		if err != nil {
			log.Warn().Err(err).Msg("failed to dispatch frame")
			resp = mustErrorFrame(err)
		}

		if err := WriteFrame(w, resp); err != nil {
			if !errors.Is(err, ErrFrameTooLarge) {
				return fmt.Errorf("write frame: %w", err)
			}
			log.Warn().Int("size", len(resp)).Msg("response exceeds native messaging limit")
			if err := WriteFrame(w, mustErrorFrame(err)); err != nil {
				return fmt.Errorf("write frame: %w", err)
			}
		}
	}
}

func mustErrorFrame(err error) []byte {
	data, marshalErr := json.Marshal(ErrorResponse{Error: err.Error()})
	if marshalErr != nil {
		return []byte(`{"error":"internal error"}`)
	}
	return data
}

// Manifest is a native messaging host manifest. Chromium browsers read
// allowed_origins, Firefox reads allowed_extensions.
type Manifest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Path              string   `json:"path"`
	Type              string   `json:"type"`
	AllowedOrigins    []string `json:"allowed_origins,omitempty"`
	AllowedExtensions []string `json:"allowed_extensions,omitempty"`
}

// NewManifest builds a manifest for the executable at path. chrome-extension://
// origins go to allowed_origins; anything else is treated as a Firefox
// extension ID.
func NewManifest(name, path string, origins []string) (Manifest, error) {
	if !hostNamePattern.MatchString(name) {
		return Manifest{}, fmt.Errorf("invalid native host name %q", name)
	}
	if !filepath.IsAbs(path) {
		return Manifest{}, fmt.Errorf("native host path must be absolute, got %q", path)
	}

	m := Manifest{
		Name:        name,
		Description: "Comet Search Bar native host",
		Path:        path,
		Type:        "stdio",
	}
	for _, o := range origins {
		if strings.HasPrefix(o, "chrome-extension://") {
			if !strings.HasSuffix(o, "/") {
				o += "/"
			}
			m.AllowedOrigins = append(m.AllowedOrigins, o)
			continue
		}
		m.AllowedExtensions = append(m.AllowedExtensions, o)
	}
	return m, nil
}

// ManifestDirs returns the per-user manifest directories of known browsers
// under home, keyed by browser name.
func ManifestDirs(home, configHome string) map[string]string {
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}
	return map[string]string{
		"chromium":      filepath.Join(configHome, "chromium", "NativeMessagingHosts"),
		"google-chrome": filepath.Join(configHome, "google-chrome", "NativeMessagingHosts"),
		"brave":         filepath.Join(configHome, "BraveSoftware", "Brave-Browser", "NativeMessagingHosts"),
		"vivaldi":       filepath.Join(configHome, "vivaldi", "NativeMessagingHosts"),
		"firefox":       filepath.Join(home, ".mozilla", "native-messaging-hosts"),
	}
}

// WriteManifest writes m as <dir>/<name>.json and returns the file path.
func WriteManifest(dir string, m Manifest) (string, error) {
	const dirPerm, filePerm = 0o755, 0o644

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("create manifest directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}

	path := filepath.Join(dir, m.Name+".json")
	if err := os.WriteFile(path, append(data, '\n'), filePerm); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// WriteHostWrapper writes an executable script that runs `exe native-host`.
// Manifests cannot pass arguments, and browsers append their own (the
// caller origin), which the native-host command ignores.
func WriteHostWrapper(dir, exe string) (string, error) {
	const dirPerm, execPerm = 0o755, 0o755

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("create wrapper directory: %w", err)
	}
	script := fmt.Sprintf("#!/bin/sh\nexec %q native-host \"$@\"\n", exe)
	path := filepath.Join(dir, "comet-native-host")
	if err := os.WriteFile(path, []byte(script), execPerm); err != nil { //nolint:gosec // must be executable
		return "", fmt.Errorf("write wrapper: %w", err)
	}
	return path, nil
}
