package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	return tmp
}

func TestLoad_CreatesDefaultFile(t *testing.T) {
	tmp := isolateXDG(t)

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	configFile := filepath.Join(tmp, "config", "comet", "config.toml")
	assert.Equal(t, configFile, mgr.ConfigFile())
	assert.FileExists(t, configFile)
	assert.FileExists(t, filepath.Join(tmp, "config", "comet", SchemaFileName))

	cfg := mgr.Get()
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, TabsDriverDesktop, cfg.Tabs.Driver)
	assert.Equal(t, 200, cfg.Popup.DebounceMs)
	assert.Equal(t, filepath.Join(tmp, "data", "comet", "comet.db"), cfg.Database.Path)
}

func TestLoad_ReadsFileAndEnv(t *testing.T) {
	tmp := isolateXDG(t)
	configFile := filepath.Join(tmp, "custom.toml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
[tabs]
driver = "CDP"
cdp_url = "http://127.0.0.1:9333/"

[popup]
debounce_ms = 150

[server]
allowed_origins = ["chrome-extension://abc", " chrome-extension://abc ", ""]
`), 0o600))
	t.Setenv("COMET_SUGGEST_TIMEOUT_MS", "1500")
	t.Setenv("COMET_LOG_LEVEL", "DEBUG")

	mgr, err := NewManagerAt(configFile)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, TabsDriverCDP, cfg.Tabs.Driver)
	assert.Equal(t, "http://127.0.0.1:9333", cfg.Tabs.CDPURL)
	assert.Equal(t, 150, cfg.Popup.DebounceMs)
	assert.Equal(t, 1500, cfg.Suggest.TimeoutMs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"chrome-extension://abc"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, defaultUserAgent, cfg.Suggest.UserAgent, "unset keys keep defaults")
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	tmp := isolateXDG(t)
	configFile := filepath.Join(tmp, "config.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("[popup]\ndebounce_ms = 5000\n"), 0o600))

	mgr, err := NewManagerAt(configFile)
	require.NoError(t, err)

	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "popup.debounce_ms")
}

func TestLoad_MalformedTOML(t *testing.T) {
	tmp := isolateXDG(t)
	configFile := filepath.Join(tmp, "config.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("[popup\n"), 0o600))

	mgr, err := NewManagerAt(configFile)
	require.NoError(t, err)

	assert.Error(t, mgr.Load())
}

func TestGet_ReturnsCopy(t *testing.T) {
	isolateXDG(t)
	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	cfg.Popup.DebounceMs = 999
	cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, "x")

	assert.Equal(t, 200, mgr.Get().Popup.DebounceMs)
	assert.Empty(t, mgr.Get().Server.AllowedOrigins)
}

func TestGet_BeforeLoadReturnsDefaults(t *testing.T) {
	mgr, err := NewManagerAt(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), mgr.Get())
}

func TestSave_PersistsAndValidates(t *testing.T) {
	isolateXDG(t)
	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	cfg.Server.Listen = "127.0.0.1:9000"
	require.NoError(t, mgr.Save(cfg))
	assert.Equal(t, "127.0.0.1:9000", mgr.Get().Server.Listen)

	reloaded, err := NewManagerAt(mgr.ConfigFile())
	require.NoError(t, err)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "127.0.0.1:9000", reloaded.Get().Server.Listen)

	cfg.Server.Listen = "nope"
	err = mgr.Save(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.listen")
	assert.Equal(t, "127.0.0.1:9000", mgr.Get().Server.Listen, "rejected save keeps previous config")

	assert.Error(t, mgr.Save(nil))
}

func TestWatch_ReloadsExternalChange(t *testing.T) {
	isolateXDG(t)
	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	var (
		mu   sync.Mutex
		seen []int
	)
	mgr.OnConfigChange(func(cfg *Config) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, cfg.Popup.DebounceMs)
	})
	mgr.Watch()
	mgr.Watch()

	cfg := mgr.Get()
	cfg.Popup.DebounceMs = 321
	require.NoError(t, WriteConfigOrdered(cfg, mgr.ConfigFile()))

	require.Eventually(t, func() bool {
		return mgr.Get().Popup.DebounceMs == 321
	}, 5*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, seen, 321)
}

func TestNewManagerAt_EmptyPath(t *testing.T) {
	_, err := NewManagerAt("")
	assert.Error(t, err)
}
