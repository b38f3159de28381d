// Package config loads comet's TOML configuration with Viper.
package config

// File permission constants
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Config represents the complete configuration for comet.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database"`
	Logging  LoggingConfig  `mapstructure:"logging" toml:"logging" json:"logging"`
	// Suggest controls the HTTP client used for autocomplete requests.
	Suggest SuggestConfig `mapstructure:"suggest" toml:"suggest" json:"suggest"`
	// Tabs selects how searches reach the browser.
	Tabs TabsConfig `mapstructure:"tabs" toml:"tabs" json:"tabs"`
	// Server configures the local HTTP API started by `comet serve`.
	Server ServerConfig `mapstructure:"server" toml:"server" json:"server"`
	// NativeHost configures the browser native messaging manifest.
	NativeHost NativeHostConfig `mapstructure:"native_host" toml:"native_host" json:"native_host"`
	Popup      PopupConfig      `mapstructure:"popup" toml:"popup" json:"popup"`
	Appearance AppearanceConfig `mapstructure:"appearance" toml:"appearance" json:"appearance"`
}

// DatabaseConfig holds the settings database location.
type DatabaseConfig struct {
	// Path defaults to $XDG_DATA_HOME/comet/comet.db when empty.
	Path string `mapstructure:"path" toml:"path" json:"path" jsonschema:"description=SQLite database file"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`

	EnableFileLog bool   `mapstructure:"enable_file_log" toml:"enable_file_log" json:"enable_file_log"`
	LogDir        string `mapstructure:"log_dir" toml:"log_dir" json:"log_dir"`
	MaxSizeMB     int    `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" jsonschema:"minimum=1"`
	MaxBackups    int    `mapstructure:"max_backups" toml:"max_backups" json:"max_backups" jsonschema:"minimum=0"`
	MaxAge        int    `mapstructure:"max_age" toml:"max_age" json:"max_age" jsonschema:"minimum=0,description=Days to keep rotated logs"`
}

// SuggestConfig controls suggestion requests.
type SuggestConfig struct {
	TimeoutMs int    `mapstructure:"timeout_ms" toml:"timeout_ms" json:"timeout_ms" jsonschema:"minimum=100,maximum=30000"`
	UserAgent string `mapstructure:"user_agent" toml:"user_agent" json:"user_agent"`
}

// TabsDriver names a tab controller implementation.
type TabsDriver string

const (
	TabsDriverDesktop TabsDriver = "desktop"
	TabsDriverCDP     TabsDriver = "cdp"
)

// TabsConfig selects and configures the tab controller.
type TabsConfig struct {
	// Driver is "desktop" (xdg-open) or "cdp" (Chrome DevTools Protocol).
	Driver TabsDriver `mapstructure:"driver" toml:"driver" json:"driver" jsonschema:"enum=desktop,enum=cdp"`
	// Opener overrides the desktop opener command, e.g. "firefox --new-tab".
	Opener string `mapstructure:"opener" toml:"opener" json:"opener"`
	// CDPURL is the DevTools HTTP endpoint of a running Chromium.
	CDPURL    string `mapstructure:"cdp_url" toml:"cdp_url" json:"cdp_url"`
	TimeoutMs int    `mapstructure:"timeout_ms" toml:"timeout_ms" json:"timeout_ms" jsonschema:"minimum=100,maximum=60000"`
}

// ServerConfig configures the local HTTP API.
type ServerConfig struct {
	Listen string `mapstructure:"listen" toml:"listen" json:"listen"`
	// AllowedOrigins lists CORS origins. Empty allows browser extension
	// origins only.
	AllowedOrigins []string `mapstructure:"allowed_origins" toml:"allowed_origins" json:"allowed_origins"`
	EnableMetrics  bool     `mapstructure:"enable_metrics" toml:"enable_metrics" json:"enable_metrics"`
}

// NativeHostConfig configures the native messaging manifest.
type NativeHostConfig struct {
	Name string `mapstructure:"name" toml:"name" json:"name" jsonschema:"pattern=^[a-z0-9_]+([.][a-z0-9_]+)*$"`
	// AllowedOrigins holds chrome-extension:// origins or Firefox extension IDs.
	AllowedOrigins []string `mapstructure:"allowed_origins" toml:"allowed_origins" json:"allowed_origins"`
}

// PopupConfig tunes the terminal popup.
type PopupConfig struct {
	DebounceMs int `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" jsonschema:"minimum=0,maximum=2000"`
}

// AppearanceConfig holds terminal UI colors.
type AppearanceConfig struct {
	Palette Palette `mapstructure:"palette" toml:"palette" json:"palette"`
}

// Palette is the set of hex colors used by the TUI.
type Palette struct {
	Accent  string `mapstructure:"accent" toml:"accent" json:"accent"`
	Text    string `mapstructure:"text" toml:"text" json:"text"`
	Muted   string `mapstructure:"muted" toml:"muted" json:"muted"`
	Border  string `mapstructure:"border" toml:"border" json:"border"`
	Success string `mapstructure:"success" toml:"success" json:"success"`
	Error   string `mapstructure:"error" toml:"error" json:"error"`
}
