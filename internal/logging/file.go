package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// FileConfig controls optional file logging.
type FileConfig struct {
	Enabled       bool
	LogDir        string
	FileName      string
	MaxSizeMB     int
	MaxBackups    int
	MaxAgeDays    int
	WriteToStderr bool
}

const defaultLogFileName = "comet.log"

// NewWithFile creates a logger that writes to a rotated file and optionally
// to stderr. The returned cleanup closes the file.
// If the file cannot be opened the logger falls back to stderr and the error
// is returned alongside a usable logger.
func NewWithFile(cfg Config, fileCfg FileConfig) (zerolog.Logger, func(), error) {
	noop := func() {}

	if !fileCfg.Enabled || fileCfg.LogDir == "" {
		if !fileCfg.WriteToStderr {
			cfg.Output = io.Discard
		}
		return New(cfg), noop, nil
	}

	name := fileCfg.FileName
	if name == "" {
		name = defaultLogFileName
	}

	rotator, err := NewLogRotator(RotateConfig{
		Dir:        fileCfg.LogDir,
		Name:       name,
		MaxSizeMB:  fileCfg.MaxSizeMB,
		MaxBackups: fileCfg.MaxBackups,
		MaxAgeDays: fileCfg.MaxAgeDays,
	})
	if err != nil {
		return New(cfg), noop, err
	}

	// Files always get JSON lines; the console writer is for humans on stderr.
	var out io.Writer = rotator
	if fileCfg.WriteToStderr {
		var stderr io.Writer = os.Stderr
		if cfg.Format == "console" {
			stderr = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: cfg.TimeFormat}
		}
		out = zerolog.MultiLevelWriter(rotator, stderr)
	}

	logger := zerolog.New(out).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()

	return logger, func() { _ = rotator.Close() }, nil
}
