package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/comet/internal/cli/styles"
)

var enginesJSON bool

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List the built-in search engines",
	Args:  cobra.NoArgs,
	RunE:  runEngines,
}

func init() {
	rootCmd.AddCommand(enginesCmd)
	enginesCmd.Flags().BoolVar(&enginesJSON, "json", false, "print the engine table as JSON")
}

func runEngines(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	if enginesJSON {
		return writeJSON(cmd.OutOrStdout(), a.EnginesUC.Table())
	}

	views := a.EnginesUC.List(a.Ctx())
	if len(views) == 0 {
		return errors.New("no engines available")
	}
	renderer := styles.NewRenderer(a.Theme)
	fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderEngines(views))
	return nil
}
