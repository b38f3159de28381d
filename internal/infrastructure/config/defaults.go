package config

const (
	defaultSuggestTimeoutMs = 3000
	defaultTabsTimeoutMs    = 5000
	defaultDebounceMs       = 200
	defaultListen           = "127.0.0.1:7878"
	defaultCDPURL           = "http://127.0.0.1:9222"
	defaultNativeHostName   = "io.github.bnema.comet"
	defaultUserAgent        = "comet/1.0 (+https://github.com/bnema/comet)"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAge:     7,
		},
		Suggest: SuggestConfig{
			TimeoutMs: defaultSuggestTimeoutMs,
			UserAgent: defaultUserAgent,
		},
		Tabs: TabsConfig{
			Driver:    TabsDriverDesktop,
			CDPURL:    defaultCDPURL,
			TimeoutMs: defaultTabsTimeoutMs,
		},
		Server: ServerConfig{
			Listen:         defaultListen,
			AllowedOrigins: []string{},
			EnableMetrics:  true,
		},
		NativeHost: NativeHostConfig{
			Name:           defaultNativeHostName,
			AllowedOrigins: []string{},
		},
		Popup: PopupConfig{
			DebounceMs: defaultDebounceMs,
		},
		Appearance: AppearanceConfig{
			Palette: Palette{
				Accent:  "#ff8c00",
				Text:    "#e4e4e7",
				Muted:   "#71717a",
				Border:  "#3f3f46",
				Success: "#22c55e",
				Error:   "#ef4444",
			},
		},
	}
}
