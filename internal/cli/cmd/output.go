package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// printLines prints lines one per line, or as a JSON array.
func printLines(cmd *cobra.Command, lines []string, asJSON bool) error {
	if asJSON {
		if lines == nil {
			lines = []string{}
		}
		return writeJSON(cmd.OutOrStdout(), lines)
	}
	for _, l := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), l)
	}
	return nil
}
