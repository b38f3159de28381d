package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/bnema/comet/internal/infrastructure/config"
)

const docsDirPerm = 0o755

// docFormat is one output flavor of gen-docs.
type docFormat struct {
	ext        string
	defaultDir func() (string, error)
	generate   func(root *cobra.Command, dir string) error
}

var docFormats = map[string]docFormat{
	"man": {
		ext:        ".1",
		defaultDir: manPageDir,
		generate: func(root *cobra.Command, dir string) error {
			now := time.Now()
			return doc.GenManTree(root, &doc.GenManHeader{
				Title:   "COMET",
				Section: "1",
				Source:  buildInfo.String(),
				Manual:  "Comet Manual",
				Date:    &now,
			}, dir)
		},
	},
	"markdown": {
		ext:        ".md",
		defaultDir: relativeDir("docs"),
		generate:   doc.GenMarkdownTree,
	},
	"rest": {
		ext:        ".rst",
		defaultDir: relativeDir("docs"),
		generate:   doc.GenReSTTree,
	},
	"yaml": {
		ext:        ".yaml",
		defaultDir: relativeDir("docs"),
		generate:   doc.GenYamlTree,
	},
}

var (
	genDocsOutputDir string
	genDocsFormat    string
)

var genDocsCmd = &cobra.Command{
	Use:   "gen-docs",
	Short: "Generate reference docs for the comet CLI",
	Long: `Generate reference documentation for every comet command.

Man pages go to $XDG_DATA_HOME/man/man1 by default, so 'man comet' works
once 'mandb' has refreshed its index. Other formats default to ./docs.`,
	Example: `  comet gen-docs
  comet gen-docs --format markdown
  comet gen-docs --format yaml --output ./site/cli`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return generateDocs(cmd.OutOrStdout(), cmd.Root(), genDocsFormat, genDocsOutputDir)
	},
}

func init() {
	rootCmd.AddCommand(genDocsCmd)
	genDocsCmd.Flags().StringVarP(&genDocsOutputDir, "output", "o", "", "output directory")
	genDocsCmd.Flags().StringVarP(&genDocsFormat, "format", "f", "man",
		"output format: "+strings.Join(docFormatNames(), ", "))
}

// generateDocs writes the docs for root in the named format and lists the
// files it produced on w.
func generateDocs(w io.Writer, root *cobra.Command, format, dir string) error {
	f, ok := docFormats[format]
	if !ok {
		return fmt.Errorf("unsupported format %q (use one of: %s)", format, strings.Join(docFormatNames(), ", "))
	}

	if dir == "" {
		d, err := f.defaultDir()
		if err != nil {
			return fmt.Errorf("resolve %s output directory: %w", format, err)
		}
		dir = d
	}
	if err := os.MkdirAll(dir, docsDirPerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Keep output reproducible across runs.
	root.DisableAutoGenTag = true
	if err := f.generate(root, dir); err != nil {
		return fmt.Errorf("generate %s docs: %w", format, err)
	}

	fmt.Fprintf(w, "Wrote %s docs to %s\n", format, dir)
	if entries, err := os.ReadDir(dir); err == nil {
		for _, e := range entries {
			if filepath.Ext(e.Name()) == f.ext {
				fmt.Fprintf(w, "  %s\n", e.Name())
			}
		}
	}
	if format == "man" {
		fmt.Fprintln(w, "Run 'mandb' if 'man comet' is not found.")
	}
	return nil
}

func docFormatNames() []string {
	names := make([]string, 0, len(docFormats))
	for name := range docFormats {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func relativeDir(dir string) func() (string, error) {
	return func() (string, error) { return dir, nil }
}

// manPageDir returns $XDG_DATA_HOME/man/man1, next to comet's data dir.
func manPageDir() (string, error) {
	dataDir, err := config.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(dataDir), "man", "man1"), nil
}
