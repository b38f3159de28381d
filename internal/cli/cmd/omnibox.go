package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/comet/internal/application/usecase"
	"github.com/bnema/comet/internal/cli"
	"github.com/bnema/comet/internal/logging"
)

var (
	omniboxDmenu       bool
	omniboxJSON        bool
	omniboxDisposition string
)

var omniboxCmd = &cobra.Command{
	Use:   "omnibox [text...]",
	Short: "Keyword search for rofi, fuzzel and other launchers",
	Long: `Drive an address-bar style session from a launcher.

List mode prints suggestion rows for the text, one per line:
  comet omnibox go gen | fuzzel --dmenu | comet omnibox --dmenu

Dmenu mode reads the chosen line from stdin and searches for it.

Rofi script mode is detected through ROFI_RETV:
  rofi -show comet -modi "comet:comet omnibox"`,
	RunE: runOmnibox,
}

func init() {
	rootCmd.AddCommand(omniboxCmd)
	omniboxCmd.Flags().BoolVar(&omniboxDmenu, "dmenu", false, "read the selection from stdin and search for it")
	omniboxCmd.Flags().BoolVar(&omniboxJSON, "json", false, "print suggestion rows as JSON")
	omniboxCmd.Flags().StringVarP(&omniboxDisposition, "disposition", "d", string(usecase.OmniboxNewForegroundTab),
		"where results open: currentTab, newForegroundTab or newBackgroundTab")
}

// rofiStep is what a rofi script-mode invocation asks for.
type rofiStep int

const (
	rofiNone rofiStep = iota
	rofiList
	rofiCommit
)

// rofiStepFor maps ROFI_RETV to a step: 0 is the initial listing, 1 an
// accepted entry, 2 custom input. Other values (kb-custom-N) are ignored.
func rofiStepFor(retv string, inRofi bool) rofiStep {
	if !inRofi {
		return rofiNone
	}
	switch retv {
	case "0":
		return rofiList
	case "1", "2":
		return rofiCommit
	}
	return rofiNone
}

func runOmnibox(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	text := strings.Join(args, " ")

	retv, inRofi := os.LookupEnv("ROFI_RETV")
	switch rofiStepFor(retv, inRofi) {
	case rofiList:
		return listForRofi(cmd.OutOrStdout(), a, text)
	case rofiCommit:
		return commitOmnibox(a, text)
	}

	if omniboxDmenu {
		line, err := readSelection(cmd.InOrStdin())
		if err != nil {
			return err
		}
		return commitOmnibox(a, line)
	}

	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to complete: pass some text or use --dmenu")
	}

	ctx := logging.WithComponent(a.Ctx(), "omnibox")
	a.OmniboxUC.InputStarted(ctx)
	entries := a.OmniboxUC.InputChanged(ctx, text)
	a.OmniboxUC.InputCancelled(ctx)

	if omniboxJSON {
		if entries == nil {
			entries = []usecase.OmniboxEntry{}
		}
		return writeJSON(cmd.OutOrStdout(), entries)
	}
	return printLines(cmd, suggestionRows(text, entries), false)
}

// suggestionRows puts the typed text first, then the suggestions that differ
// from it.
func suggestionRows(text string, entries []usecase.OmniboxEntry) []string {
	rows := make([]string, 0, len(entries)+1)
	rows = append(rows, text)
	for _, e := range entries {
		if e.Content != text {
			rows = append(rows, e.Content)
		}
	}
	return rows
}

// listForRofi answers rofi's initial call: the prompt naming the engine, then
// suggestion rows when rofi passed text along.
func listForRofi(w io.Writer, a *cli.App, text string) error {
	ctx := logging.WithComponent(a.Ctx(), "omnibox")
	description := a.OmniboxUC.InputStarted(ctx)

	var rows []string
	if strings.TrimSpace(text) != "" {
		rows = suggestionRows(text, a.OmniboxUC.InputChanged(ctx, text))
	}
	a.OmniboxUC.InputCancelled(ctx)

	return writeRofi(w, rofiPrompt(description), rows)
}

// rofiPrompt turns "Search Kagi: %s" into "Search Kagi".
func rofiPrompt(description string) string {
	prompt := strings.TrimSpace(strings.ReplaceAll(description, "%s", ""))
	return strings.TrimSpace(strings.TrimSuffix(prompt, ":"))
}

// writeRofi writes rofi script-mode options followed by one row per line.
func writeRofi(w io.Writer, prompt string, rows []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\x00prompt\x1f%s\n\x00no-custom\x1ffalse\n", prompt)
	for _, row := range rows {
		b.WriteString(strings.ReplaceAll(row, "\n", " "))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func commitOmnibox(a *cli.App, text string) error {
	ctx := logging.WithComponent(a.Ctx(), "omnibox")
	disposition := usecase.OmniboxDisposition(omniboxDisposition)

	a.OmniboxUC.InputStarted(ctx)
	out, err := a.OmniboxUC.InputEntered(ctx, text, disposition)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	logging.FromContext(ctx).Debug().
		Str("url", out.URL).
		Str("disposition", string(out.Disposition)).
		Msg("omnibox search dispatched")
	return nil
}

// readSelection returns the first line of r, trimmed.
func readSelection(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read selection: %w", err)
		}
		return "", nil
	}
	return strings.TrimSpace(scanner.Text()), nil
}
