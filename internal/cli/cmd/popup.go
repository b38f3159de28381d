package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/comet/internal/cli"
	"github.com/bnema/comet/internal/cli/model"
	"github.com/bnema/comet/internal/logging"
)

var popupCmd = &cobra.Command{
	Use:   "popup",
	Short: "Open the search popup",
	Long: `Open a keyboard-driven search box with live suggestions.

Bind it to a key in your window manager, for example in Sway:
  bindsym $mod+slash exec foot --app-id comet comet popup

Keys: ↑/↓ select, tab completes, enter searches, esc hides the list
then closes, ctrl+l clears, ctrl+o opens the options screen.`,
	Args: cobra.NoArgs,
	RunE: runPopup,
}

var optionsCmd = &cobra.Command{
	Use:     "options",
	Aliases: []string{"settings-ui"},
	Short:   "Open the options screen",
	Args:    cobra.NoArgs,
	RunE:    runOptions,
}

func init() {
	rootCmd.AddCommand(popupCmd)
	rootCmd.AddCommand(optionsCmd)
}

func runPopup(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := logging.WithComponent(a.Ctx(), "popup")

	_, cfg := a.EnginesUC.Current(ctx)
	m := model.NewPopupModel(ctx, a.Theme, a.Router, model.PopupOptions{
		EngineName:  cfg.Name,
		EngineColor: cfg.Color,
		Debounce:    time.Duration(a.Config.Popup.DebounceMs) * time.Millisecond,
	})

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return fmt.Errorf("run popup: %w", err)
	}

	result, ok := final.(model.PopupModel)
	if !ok {
		return nil
	}
	if result.OpenOptions() {
		return runOptionsProgram(a)
	}
	if !result.Done() && result.Err() != nil {
		return result.Err()
	}
	return nil
}

func runOptions(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	return runOptionsProgram(a)
}

func runOptionsProgram(a *cli.App) error {
	ctx := logging.WithComponent(a.Ctx(), "options")
	m := model.NewOptionsModel(ctx, a.Theme, a.SettingsUC, a.EnginesUC)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run options: %w", err)
	}
	return nil
}
