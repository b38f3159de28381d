package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/comet/internal/cli"
	"github.com/bnema/comet/internal/cli/styles"
	"github.com/bnema/comet/internal/domain/engine"
	"github.com/bnema/comet/internal/domain/entity"
)

var settingsJSON bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change search settings",
	Long: `Show or change the settings shared by the popup, the options screen
and the address-bar integration.

Keys:
  searchEngine     kagi, google, duckduckgo, yahoo or ecosia
  showSuggestions  true or false
  openInNewTab     true or false
  maxSuggestions   1 to 20

Examples:
  comet settings                          # Show all settings
  comet settings set searchEngine google  # Switch engine
  comet settings set max-suggestions 8    # Keys are case and dash insensitive
  comet settings reset                    # Restore defaults`,
	Args: cobra.NoArgs,
	RunE: runSettingsGet,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show all settings or a single value",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a single setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.PersistentFlags().BoolVar(&settingsJSON, "json", false, "print settings as JSON")
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	settings := a.SettingsUC.Get(a.Ctx())

	if len(args) == 1 {
		name, err := canonicalSettingKey(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), settingValue(settings, name))
		return nil
	}

	return printSettings(cmd, a, settings)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	patch, err := parseSettingPatch(args[0], args[1])
	if err != nil {
		return err
	}
	settings, err := a.SettingsUC.Update(a.Ctx(), patch)
	if err != nil {
		return err
	}
	return printSettings(cmd, a, settings)
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	settings, err := a.SettingsUC.Reset(a.Ctx())
	if err != nil {
		return err
	}
	if !settingsJSON {
		fmt.Fprintln(cmd.OutOrStdout(), styles.NewRenderer(a.Theme).RenderSuccess("Settings reset to defaults"))
	}
	return printSettings(cmd, a, settings)
}

func printSettings(cmd *cobra.Command, a *cli.App, settings entity.Settings) error {
	if settingsJSON {
		return writeJSON(cmd.OutOrStdout(), settings)
	}
	_, cfg := a.Engines.Resolve(engine.Key(settings.SearchEngine))
	fmt.Fprint(cmd.OutOrStdout(), styles.NewRenderer(a.Theme).RenderSettings(settings, cfg.Name))
	return nil
}

// settingKeys maps folded key spellings to their canonical names.
var settingKeys = map[string]string{
	foldKey(entity.SettingSearchEngine):    entity.SettingSearchEngine,
	foldKey(entity.SettingShowSuggestions): entity.SettingShowSuggestions,
	foldKey(entity.SettingOpenInNewTab):    entity.SettingOpenInNewTab,
	foldKey(entity.SettingMaxSuggestions):  entity.SettingMaxSuggestions,
}

func foldKey(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("-", "", "_", "").Replace(s)
}

func canonicalSettingKey(key string) (string, error) {
	name, ok := settingKeys[foldKey(key)]
	if !ok {
		return "", fmt.Errorf("unknown setting %q", key)
	}
	return name, nil
}

func settingValue(s entity.Settings, name string) string {
	switch name {
	case entity.SettingSearchEngine:
		return s.SearchEngine
	case entity.SettingShowSuggestions:
		return strconv.FormatBool(s.ShowSuggestions)
	case entity.SettingOpenInNewTab:
		return strconv.FormatBool(s.OpenInNewTab)
	case entity.SettingMaxSuggestions:
		return strconv.Itoa(s.MaxSuggestions)
	}
	return ""
}

// parseSettingPatch turns a key and a textual value into a single-field
// patch. Engine keys and bounds are checked by the settings use case.
func parseSettingPatch(key, value string) (entity.SettingsPatch, error) {
	name, err := canonicalSettingKey(key)
	if err != nil {
		return entity.SettingsPatch{}, err
	}
	value = strings.TrimSpace(value)

	var patch entity.SettingsPatch
	switch name {
	case entity.SettingSearchEngine:
		v := strings.ToLower(value)
		patch.SearchEngine = &v
	case entity.SettingShowSuggestions, entity.SettingOpenInNewTab:
		b, err := parseBool(value)
		if err != nil {
			return entity.SettingsPatch{}, fmt.Errorf("%s: %w", name, err)
		}
		if name == entity.SettingShowSuggestions {
			patch.ShowSuggestions = &b
		} else {
			patch.OpenInNewTab = &b
		}
	case entity.SettingMaxSuggestions:
		n, err := strconv.Atoi(value)
		if err != nil {
			return entity.SettingsPatch{}, fmt.Errorf("%s: expected a number, got %q", name, value)
		}
		patch.MaxSuggestions = &n
	}
	return patch, nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("expected true or false, got %q", value)
	}
	return b, nil
}
