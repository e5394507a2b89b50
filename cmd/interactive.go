package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/ui"
)

// Interactive command flag variables.
var (
	interactiveTypes         []string
	interactiveIgnorePattern []string
	interactiveIgnoreRegex   []string
)

// interactiveCmd represents the interactive command
var interactiveCmd = &cobra.Command{
	Use:     "interactive [path]",
	Aliases: []string{"ui"},
	Short:   "Browse link resolution results in a terminal UI",
	Long: `Launch an interactive terminal UI that resolves every link under path
(default: the blog root) and lets you browse the results. Links are found
the same way as in check; see "postlink check --help" for how that differs
from rewrite.

Controls:
  ↑/↓ or j/k    Navigate through results
  f / F         Next / previous filter
  d or enter    Toggle details
  ?             Toggle help
  q             Quit`,
	Args: cobra.MaximumNArgs(1),
	Run:  runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)

	interactiveCmd.Flags().StringSliceVarP(&interactiveTypes, "types", "T", nil,
		"File types to scan (comma-separated): md, mdx, markdown")
	interactiveCmd.Flags().StringSliceVar(&interactiveIgnorePattern, "ignore-pattern", nil,
		"Glob patterns for hrefs to ignore")
	interactiveCmd.Flags().StringSliceVar(&interactiveIgnoreRegex, "ignore-regex", nil,
		"Regular expressions for hrefs to ignore")
}

func runInteractive(_ *cobra.Command, args []string) {
	r := appConfig.BuildResolver()
	path := getPathArg(args, r.BlogDir())

	urlFilter, err := appConfig.BuildFilter(interactiveIgnorePattern, interactiveIgnoreRegex)
	exitOnError(err, "Error building filter")

	opts := checker.DefaultOptions().
		WithConcurrency(appConfig.GetConcurrency(checker.DefaultConcurrency(), checker.DefaultConcurrency())).
		WithLogger(logger)

	m := ui.New(appConfig.BuildScanOptions(path, interactiveTypes), checker.New(r, urlFilter, opts))

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running interactive mode: %v\n", err)
		os.Exit(1)
	}
}
