package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/comet/internal/application/usecase"
	"github.com/bnema/comet/internal/cli/styles"
)

var (
	searchNewTab     bool
	searchCurrentTab bool
	searchPrint      bool
	searchCopy       bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search with the configured engine",
	Long: `Build the search URL for the query and open it in the browser.

By default the openInNewTab setting decides where results open; the
--new-tab and --current-tab flags override it for one search.

Examples:
  comet search go generics              # Search with the configured engine
  comet search --new-tab rust lifetimes # Force a new tab
  comet search --print zig comptime     # Only print the URL
  comet search --copy htmx swap         # Copy the URL to the clipboard`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVarP(&searchNewTab, "new-tab", "n", false, "open results in a new tab")
	searchCmd.Flags().BoolVarP(&searchCurrentTab, "current-tab", "c", false, "open results in the current tab")
	searchCmd.Flags().BoolVarP(&searchPrint, "print", "p", false, "print the search URL without opening it")
	searchCmd.Flags().BoolVar(&searchCopy, "copy", false, "copy the search URL to the clipboard without opening it")
	searchCmd.MarkFlagsMutuallyExclusive("new-tab", "current-tab")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := a.Ctx()
	query := strings.Join(args, " ")

	if searchPrint || searchCopy {
		_, cfg := a.EnginesUC.Current(ctx)
		target := cfg.SearchURLFor(query)
		if searchCopy {
			if err := a.Clipboard.WriteText(ctx, target); err != nil {
				return fmt.Errorf("copy search URL: %w", err)
			}
		}
		if searchPrint {
			fmt.Fprintln(cmd.OutOrStdout(), target)
		}
		return nil
	}

	input := usecase.DispatchSearchInput{Query: query, OpenInNewTab: tabOverride(searchNewTab, searchCurrentTab)}
	out, err := a.DispatchUC.Execute(ctx, input)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	renderer := styles.NewRenderer(a.Theme)
	fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderSearch(out))
	return nil
}

// tabOverride turns the tab flags into the dispatcher's optional override.
func tabOverride(newTab, currentTab bool) *bool {
	switch {
	case newTab:
		v := true
		return &v
	case currentTab:
		v := false
		return &v
	}
	return nil
}
