package logging

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

const (
	logDirPerm  = 0o750
	logFilePerm = 0o600

	backupStamp = "20060102T150405.000"
)

// RotateConfig bounds the size and number of log files kept on disk.
// Zero values disable the matching limit.
type RotateConfig struct {
	Dir        string
	Name       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// LogRotator is an io.Writer that appends to Dir/Name and moves the file
// aside to Name.<timestamp> once a write would exceed MaxSizeMB.
type LogRotator struct {
	cfg RotateConfig

	mu   sync.Mutex
	file *os.File
	size int64
	now  func() time.Time
}

// NewLogRotator opens the active log file, creating the directory if needed.
func NewLogRotator(cfg RotateConfig) (*LogRotator, error) {
	if err := os.MkdirAll(cfg.Dir, logDirPerm); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	r := &LogRotator{cfg: cfg, now: time.Now}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the active log file path.
func (r *LogRotator) Path() string {
	return filepath.Join(r.cfg.Dir, r.cfg.Name)
}

func (r *LogRotator) limit() int64 {
	return int64(r.cfg.MaxSizeMB) << 20
}

func (r *LogRotator) open() error {
	f, err := os.OpenFile(r.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	r.file, r.size = f, info.Size()
	return nil
}

// Write implements io.Writer. A single write is never split across files.
func (r *LogRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		if err := r.open(); err != nil {
			return 0, err
		}
	}
	if limit := r.limit(); limit > 0 && r.size > 0 && r.size+int64(len(p)) > limit {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *LogRotator) rotate() error {
	_ = r.file.Close()
	r.file = nil

	backup := r.Path() + "." + r.now().Format(backupStamp)
	if err := os.Rename(r.Path(), backup); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	r.prune()
	return r.open()
}

// prune removes backups past MaxAgeDays, then the oldest ones beyond
// MaxBackups.
func (r *LogRotator) prune() {
	matches, err := filepath.Glob(r.Path() + ".*")
	if err != nil {
		return
	}

	type backup struct {
		path string
		mod  time.Time
	}
	maxAge := time.Duration(r.cfg.MaxAgeDays) * 24 * time.Hour
	now := r.now()

	kept := make([]backup, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if maxAge > 0 && now.Sub(info.ModTime()) > maxAge {
			_ = os.Remove(path)
			continue
		}
		kept = append(kept, backup{path: path, mod: info.ModTime()})
	}

	if r.cfg.MaxBackups <= 0 || len(kept) <= r.cfg.MaxBackups {
		return
	}
	slices.SortFunc(kept, func(a, b backup) int {
		if c := a.mod.Compare(b.mod); c != 0 {
			return c
		}
		return cmp.Compare(a.path, b.path)
	})
	for _, b := range kept[:len(kept)-r.cfg.MaxBackups] {
		_ = os.Remove(b.path)
	}
}

// Close closes the active file. A later Write reopens it.
func (r *LogRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
