package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/comet/internal/application/usecase"
	"github.com/bnema/comet/internal/domain/engine"
)

var (
	suggestJSON   bool
	suggestEngine string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <query...>",
	Short: "Print autocomplete suggestions for a query",
	Long: `Fetch suggestions from the configured engine and print one per line.

The showSuggestions and maxSuggestions settings apply. Failures print
nothing rather than an error, matching what the popup shows.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "print suggestions as a JSON array")
	suggestCmd.Flags().StringVarP(&suggestEngine, "engine", "e", "", "use this engine instead of the configured one")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := a.Ctx()
	query := strings.Join(args, " ")

	var out *usecase.FetchSuggestionsOutput
	if suggestEngine != "" {
		if !a.Engines.Has(engine.Key(suggestEngine)) {
			return fmt.Errorf("%w: %q", usecase.ErrUnknownEngine, suggestEngine)
		}
		settings := a.SettingsUC.Get(ctx)
		settings.SearchEngine = suggestEngine
		out = a.SuggestUC.ExecuteWith(ctx, query, settings)
	} else {
		out = a.SuggestUC.Execute(ctx, usecase.FetchSuggestionsInput{Query: query})
	}

	return printLines(cmd, out.Suggestions, suggestJSON)
}
