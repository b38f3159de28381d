package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.DebugLevel, Format: "json", Output: &buf})

	logger.Debug().Str("engine", "kagi").Msg("hello")

	assert.Contains(t, buf.String(), `"engine":"kagi"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestContextHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.InfoLevel, Format: "json", Output: &buf})

	ctx := WithContext(context.Background(), logger)
	ctx = WithComponent(ctx, "suggest")
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithEngine(ctx, "google")

	FromContext(ctx).Info().Msg("fetched")

	out := buf.String()
	assert.Contains(t, out, `"component":"suggest"`)
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"engine":"google"`)

	buf.Reset()
	FromContext(WithRequestID(ctx, "")).Info().Msg("again")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}

func TestFromContext_WithoutLoggerIsUsable(t *testing.T) {
	assert.NotPanics(t, func() {
		FromContext(context.Background()).Info().Msg("dropped")
	})
}

func TestNewWithFile_WritesAndRotates(t *testing.T) {
	dir := t.TempDir()

	logger, cleanup, err := NewWithFile(
		Config{Level: zerolog.InfoLevel, Format: "json"},
		FileConfig{Enabled: true, LogDir: dir, FileName: "test.log"},
	)
	require.NoError(t, err)

	logger.Info().Msg("to file")
	cleanup()

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestLogRotator_RotatesOnSize(t *testing.T) {
	dir := t.TempDir()

	r, err := NewLogRotator(RotateConfig{Dir: dir, Name: "r.log", MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	chunk := bytes.Repeat([]byte("x"), 700*1024)
	_, err = r.Write(chunk)
	require.NoError(t, err)
	_, err = r.Write(chunk)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	info, err := os.Stat(r.Path())
	require.NoError(t, err)
	assert.Equal(t, int64(len(chunk)), info.Size())
}

func TestLogRotator_KeepsMaxBackups(t *testing.T) {
	dir := t.TempDir()

	r, err := NewLogRotator(RotateConfig{Dir: dir, Name: "r.log", MaxSizeMB: 1, MaxBackups: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	chunk := bytes.Repeat([]byte("y"), 600*1024)
	for range 5 {
		_, err = r.Write(chunk)
		require.NoError(t, err)
	}

	backups, err := filepath.Glob(r.Path() + ".*")
	require.NoError(t, err)
	assert.Len(t, backups, 2)
}

func TestLogRotator_OversizedWriteGoesToEmptyFile(t *testing.T) {
	dir := t.TempDir()

	r, err := NewLogRotator(RotateConfig{Dir: dir, Name: "r.log", MaxSizeMB: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	_, err = r.Write(bytes.Repeat([]byte("z"), 2<<20))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
