// Package cmd provides Cobra CLI commands for comet.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/comet/internal/cli"
	"github.com/bnema/comet/internal/domain/build"
)

var (
	app        *cli.App
	buildInfo  build.Info
	configFile string
	rootCmd    = &cobra.Command{
		Use:   "comet",
		Short: "Search bar for your browser's address bar and a keyboard popup",
		Long: `Comet - a search shortcut that sends what you type to your favorite engine.

Features:
  - Five built-in engines: Kagi, Google, DuckDuckGo, Yahoo and Ecosia
  - Live autocomplete from the selected engine
  - Address-bar keyword integration through a native messaging host
  - A keyboard popup and an options screen in the terminal
  - A local HTTP API with Prometheus metrics

Use 'comet popup' to search from the terminal, 'comet options' to change
settings, or 'comet install' to register the native messaging host.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "gen-docs", "version":
				return nil
			}

			var err error
			app, err = cli.NewApp(cli.Options{
				ConfigFile:  configFile,
				LogToStderr: !quietCommand(cmd.Name()),
			})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			// Set build info from main.go
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/comet/config.toml)")
}

// quietCommand reports whether a command owns the terminal or stdio, so
// logs must not reach stderr.
func quietCommand(name string) bool {
	switch name {
	case "popup", "options", "native-host":
		return true
	}
	return false
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

// requireApp returns the initialized app or an error.
func requireApp() (*cli.App, error) {
	if app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return app, nil
}
