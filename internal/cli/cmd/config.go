package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bnema/comet/internal/cli/styles"
	"github.com/bnema/comet/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long:  `Show where the configuration lives and print its JSON schema.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config and schema file paths",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the config file",
	Long: `Print the JSON schema of config.toml. Editors with TOML schema
support (taplo, Even Better TOML) can use it for completion and validation.`,
	Args: cobra.NoArgs,
	RunE: runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSchemaCmd)
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	path := configFile
	if a.ConfigManager != nil {
		path = a.ConfigManager.ConfigFile()
	}
	if path == "" {
		if path, err = config.GetConfigFile(); err != nil {
			return err
		}
	}

	renderer := styles.NewRenderer(a.Theme)
	schema := filepath.Join(filepath.Dir(path), config.SchemaFileName)
	fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderConfigPath(path, schema))
	return nil
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	data, err := config.GenerateSchema()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
