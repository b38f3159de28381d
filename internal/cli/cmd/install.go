package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/comet/internal/cli/styles"
	"github.com/bnema/comet/internal/infrastructure/config"
	"github.com/bnema/comet/internal/infrastructure/messaging"
	"github.com/bnema/comet/internal/logging"
)

var (
	installBrowsers []string
	installOrigins  []string
	installPrint    bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the native messaging host and store default settings",
	Long: `Write the default settings on first run, a wrapper script that starts
'comet native-host', and a host manifest for each browser.

Extension origins come from --origin or native_host.allowed_origins.
chrome-extension:// origins are written for Chromium browsers; anything
else is treated as a Firefox extension ID.

Examples:
  comet install --origin chrome-extension://abcdefghijklmnopabcdefghijklmnop/
  comet install --browser chromium --browser brave
  comet install --print                   # Show the manifest only`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().StringSliceVarP(&installBrowsers, "browser", "b", nil,
		"browsers to register (chromium, google-chrome, brave, vivaldi, firefox; default all)")
	installCmd.Flags().StringSliceVarP(&installOrigins, "origin", "o", nil, "extension origins allowed to connect")
	installCmd.Flags().BoolVar(&installPrint, "print", false, "print the manifest instead of writing files")
}

func runInstall(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := logging.WithComponent(a.Ctx(), "install")
	out := cmd.OutOrStdout()
	renderer := styles.NewRenderer(a.Theme)

	origins := installOrigins
	if len(origins) == 0 {
		origins = a.Config.NativeHost.AllowedOrigins
	}
	if len(origins) == 0 {
		return fmt.Errorf("no extension origins: pass --origin or set native_host.allowed_origins")
	}

	dataDir, err := config.GetDataDir()
	if err != nil {
		return err
	}
	wrapperPath := filepath.Join(dataDir, "comet-native-host")

	manifest, err := messaging.NewManifest(a.Config.NativeHost.Name, wrapperPath, origins)
	if err != nil {
		return err
	}
	if installPrint {
		return writeJSON(out, manifest)
	}

	result, err := a.SettingsUC.InstallDefaults(ctx)
	if err != nil {
		return fmt.Errorf("install default settings: %w", err)
	}
	if result.Installed {
		fmt.Fprintln(out, renderer.RenderSuccess("Default settings stored"))
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	if exe, err = filepath.EvalSymlinks(exe); err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if _, err := messaging.WriteHostWrapper(dataDir, exe); err != nil {
		return err
	}
	fmt.Fprintln(out, renderer.RenderSuccess("Wrapper "+wrapperPath))

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dirs, err := selectManifestDirs(messaging.ManifestDirs(home, os.Getenv("XDG_CONFIG_HOME")), installBrowsers)
	if err != nil {
		return err
	}

	for _, browser := range sortedKeys(dirs) {
		path, err := messaging.WriteManifest(dirs[browser], manifest)
		if err != nil {
			fmt.Fprintln(out, renderer.RenderError(fmt.Errorf("%s: %w", browser, err)))
			continue
		}
		fmt.Fprintln(out, renderer.RenderSuccess(fmt.Sprintf("%-14s %s", browser, path)))
	}
	return nil
}

// selectManifestDirs keeps the requested browsers, or all of them.
func selectManifestDirs(all map[string]string, browsers []string) (map[string]string, error) {
	if len(browsers) == 0 {
		return all, nil
	}
	selected := make(map[string]string, len(browsers))
	for _, b := range browsers {
		b = strings.ToLower(strings.TrimSpace(b))
		dir, ok := all[b]
		if !ok {
			return nil, fmt.Errorf("unknown browser %q (known: %s)", b, strings.Join(sortedKeys(all), ", "))
		}
		selected[b] = dir
	}
	return selected, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
