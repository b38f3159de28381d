package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config     *Config
	viper      *viper.Viper
	configFile string
	mu         sync.RWMutex
	callbacks  []func(*Config)
	watching   bool
	// skipNextReload is set by Save so the watcher does not reload a file we
	// just wrote ourselves.
	skipNextReload bool
}

// NewManager creates a manager for $XDG_CONFIG_HOME/comet/config.toml.
func NewManager() (*Manager, error) {
	configFile, err := GetConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	return NewManagerAt(configFile)
}

// NewManagerAt creates a manager for an explicit config file path.
func NewManagerAt(configFile string) (*Manager, error) {
	if configFile == "" {
		return nil, errors.New("config file path is empty")
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("toml")

	// COMET_SERVER_LISTEN, COMET_TABS_DRIVER, ...
	v.SetEnvPrefix("COMET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Shorter names shared with logging.NewFromEnv.
	if err := v.BindEnv("logging.level", "COMET_LOG_LEVEL", "COMET_LOGGING_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind COMET_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "COMET_LOG_FORMAT", "COMET_LOGGING_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind COMET_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:      v,
		configFile: configFile,
		callbacks:  make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables. A
// missing file is created with defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	cfg, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	if err := finalizeConfig(cfg); err != nil {
		return err
	}

	m.config = cfg
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.configFile, err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			m.configFile,
			createErr,
		)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	cfg := &Config{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.configFile,
			err,
		)
	}
	return cfg, nil
}

// finalizeConfig fills derived paths, normalizes and validates.
func finalizeConfig(cfg *Config) error {
	if cfg.Database.Path == "" {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		cfg.Database.Path = dbPath
	}
	if cfg.Logging.EnableFileLog && cfg.Logging.LogDir == "" {
		logDir, err := GetLogDir()
		if err != nil {
			return fmt.Errorf("failed to get log directory: %w", err)
		}
		cfg.Logging.LogDir = logDir
	}

	normalizeConfig(cfg)

	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func normalizeConfig(cfg *Config) {
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	switch TabsDriver(strings.ToLower(strings.TrimSpace(string(cfg.Tabs.Driver)))) {
	case "", TabsDriverDesktop:
		cfg.Tabs.Driver = TabsDriverDesktop
	case TabsDriverCDP:
		cfg.Tabs.Driver = TabsDriverCDP
	}
	cfg.Tabs.Opener = strings.TrimSpace(cfg.Tabs.Opener)
	cfg.Tabs.CDPURL = strings.TrimRight(strings.TrimSpace(cfg.Tabs.CDPURL), "/")

	cfg.Server.AllowedOrigins = compactStrings(cfg.Server.AllowedOrigins)
	cfg.NativeHost.AllowedOrigins = compactStrings(cfg.NativeHost.AllowedOrigins)
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// Get returns a copy of the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	return m.config.clone()
}

func (c *Config) clone() *Config {
	out := *c
	out.Server.AllowedOrigins = slices.Clone(c.Server.AllowedOrigins)
	out.NativeHost.AllowedOrigins = slices.Clone(c.NativeHost.AllowedOrigins)
	return &out
}

// Save validates cfg and writes it to disk.
func (m *Manager) Save(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	next := cfg.clone()
	normalizeConfig(next)
	if err := validateConfig(next); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := WriteConfigOrdered(next, m.configFile); err != nil {
		return err
	}
	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to re-read config after save: %w", err)
	}

	m.config = next
	if m.watching {
		m.skipNextReload = true
	}
	return nil
}

// ConfigFile returns the path of the configuration file.
func (m *Manager) ConfigFile() string {
	return m.configFile
}

// createDefaultConfig writes the defaults and a JSON schema next to them.
func (m *Manager) createDefaultConfig() error {
	dir := filepath.Dir(m.configFile)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	if err := WriteConfigOrdered(DefaultConfig(), m.configFile); err != nil {
		return err
	}
	return WriteSchemaFile(dir)
}

// setDefaults registers every key so AutomaticEnv can override it.
func (m *Manager) setDefaults() {
	d := DefaultConfig()

	m.viper.SetDefault("database.path", d.Database.Path)

	m.viper.SetDefault("logging.level", d.Logging.Level)
	m.viper.SetDefault("logging.format", d.Logging.Format)
	m.viper.SetDefault("logging.enable_file_log", d.Logging.EnableFileLog)
	m.viper.SetDefault("logging.log_dir", d.Logging.LogDir)
	m.viper.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	m.viper.SetDefault("logging.max_age", d.Logging.MaxAge)

	m.viper.SetDefault("suggest.timeout_ms", d.Suggest.TimeoutMs)
	m.viper.SetDefault("suggest.user_agent", d.Suggest.UserAgent)

	m.viper.SetDefault("tabs.driver", string(d.Tabs.Driver))
	m.viper.SetDefault("tabs.opener", d.Tabs.Opener)
	m.viper.SetDefault("tabs.cdp_url", d.Tabs.CDPURL)
	m.viper.SetDefault("tabs.timeout_ms", d.Tabs.TimeoutMs)

	m.viper.SetDefault("server.listen", d.Server.Listen)
	m.viper.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	m.viper.SetDefault("server.enable_metrics", d.Server.EnableMetrics)

	m.viper.SetDefault("native_host.name", d.NativeHost.Name)
	m.viper.SetDefault("native_host.allowed_origins", d.NativeHost.AllowedOrigins)

	m.viper.SetDefault("popup.debounce_ms", d.Popup.DebounceMs)

	m.viper.SetDefault("appearance.palette.accent", d.Appearance.Palette.Accent)
	m.viper.SetDefault("appearance.palette.text", d.Appearance.Palette.Text)
	m.viper.SetDefault("appearance.palette.muted", d.Appearance.Palette.Muted)
	m.viper.SetDefault("appearance.palette.border", d.Appearance.Palette.Border)
	m.viper.SetDefault("appearance.palette.success", d.Appearance.Palette.Success)
	m.viper.SetDefault("appearance.palette.error", d.Appearance.Palette.Error)
}
