package config

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

var (
	hexColor       = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	nativeHostName = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)*$`)

	logLevels  = []string{"trace", "debug", "info", "warn", "warning", "error", "disabled", "off"}
	logFormats = []string{"console", "json"}
)

// validateConfig collects every invalid value into a single error.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateSuggest(config)...)
	validationErrors = append(validationErrors, validateTabs(config)...)
	validationErrors = append(validationErrors, validateServer(config)...)
	validationErrors = append(validationErrors, validateNativeHost(config)...)
	validationErrors = append(validationErrors, validatePopup(config)...)
	validationErrors = append(validationErrors, validatePalette(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	if !slices.Contains(logLevels, config.Logging.Level) {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of trace, debug, info, warn, error (got %q)", config.Logging.Level))
	}
	if !slices.Contains(logFormats, config.Logging.Format) {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be console or json (got %q)", config.Logging.Format))
	}
	if config.Logging.MaxSizeMB < 1 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be at least 1")
	}
	if config.Logging.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.max_backups must be non-negative")
	}
	if config.Logging.MaxAge < 0 {
		validationErrors = append(validationErrors, "logging.max_age must be non-negative")
	}
	return validationErrors
}

func validateSuggest(config *Config) []string {
	if config.Suggest.TimeoutMs < 100 || config.Suggest.TimeoutMs > 30000 {
		return []string{"suggest.timeout_ms must be between 100 and 30000"}
	}
	return nil
}

func validateTabs(config *Config) []string {
	var validationErrors []string
	switch config.Tabs.Driver {
	case TabsDriverDesktop:
	case TabsDriverCDP:
		u, err := url.Parse(config.Tabs.CDPURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			validationErrors = append(validationErrors, "tabs.cdp_url must be an http(s) URL when tabs.driver is cdp")
		}
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("tabs.driver must be desktop or cdp (got %q)", config.Tabs.Driver))
	}
	if config.Tabs.TimeoutMs < 100 || config.Tabs.TimeoutMs > 60000 {
		validationErrors = append(validationErrors, "tabs.timeout_ms must be between 100 and 60000")
	}
	return validationErrors
}

func validateServer(config *Config) []string {
	var validationErrors []string
	if _, _, err := net.SplitHostPort(config.Server.Listen); err != nil {
		validationErrors = append(validationErrors,
			fmt.Sprintf("server.listen must be host:port (got %q)", config.Server.Listen))
	}
	for _, origin := range config.Server.AllowedOrigins {
		if origin == "*" {
			validationErrors = append(validationErrors,
				"server.allowed_origins must not contain \"*\"; leave it empty to allow every origin")
		}
	}
	return validationErrors
}

func validateNativeHost(config *Config) []string {
	if !nativeHostName.MatchString(config.NativeHost.Name) {
		return []string{fmt.Sprintf(
			"native_host.name must be dot-separated lowercase alphanumerics or underscores (got %q)",
			config.NativeHost.Name,
		)}
	}
	return nil
}

func validatePopup(config *Config) []string {
	if config.Popup.DebounceMs < 0 || config.Popup.DebounceMs > 2000 {
		return []string{"popup.debounce_ms must be between 0 and 2000"}
	}
	return nil
}

func validatePalette(config *Config) []string {
	p := config.Appearance.Palette
	colors := []struct {
		key, value string
	}{
		{"accent", p.Accent},
		{"text", p.Text},
		{"muted", p.Muted},
		{"border", p.Border},
		{"success", p.Success},
		{"error", p.Error},
	}

	var validationErrors []string
	for _, c := range colors {
		if !hexColor.MatchString(c.value) {
			validationErrors = append(validationErrors,
				fmt.Sprintf("appearance.palette.%s must be a hex color like #ff8c00 (got %q)", c.key, c.value))
		}
	}
	return validationErrors
}
