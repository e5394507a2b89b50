package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leonardomso/postlink/internal/resolver"
)

// Flag variables for the resolve command.
var (
	resolveFile    string
	resolveExplain bool
)

// resolveCmd represents the resolve command.
var resolveCmd = &cobra.Command{
	Use:   "resolve <href>...",
	Short: "Print the published URL of an href",
	Long: `Resolve one or more hrefs and print the URL each one is rewritten to.
An href that does not qualify for rewriting is printed unchanged.

--file is the markdown file the href appears in; relative hrefs are resolved
against its directory. Without it, hrefs are relative to the project root.

Examples:
  postlink resolve ../part-2/index.md --file src/data/blog/part-1/index.md
  postlink resolve src/data/blog/hello.md
  postlink resolve note.md --file src/data/blog/a/index.md --explain`,
	Args: cobra.MinimumNArgs(1),
	Run:  runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&resolveFile, "file", "F", "",
		"Markdown file containing the href")
	resolveCmd.Flags().BoolVarP(&resolveExplain, "explain", "e", false,
		"Show how each href was resolved")
}

func runResolve(cmd *cobra.Command, args []string) {
	r := appConfig.BuildResolver()

	fileContext := ""
	if resolveFile != "" {
		fileContext = absPath(resolveFile)
	}

	out := cmd.OutOrStdout()
	for _, href := range args {
		res := r.Resolve(href, fileContext)
		if resolveExplain {
			printResolution(out, res)
			continue
		}
		fmt.Fprintln(out, res.URL)
	}
}

// printResolution writes the full decision record for one href.
func printResolution(w io.Writer, res resolver.Resolution) {
	fmt.Fprintf(w, "%s\n", res.Href)
	fmt.Fprintf(w, "  Status:   %s\n", res.Status.Label())
	fmt.Fprintf(w, "  URL:      %s\n", res.URL)
	if res.Target != "" {
		fmt.Fprintf(w, "  Target:   %s\n", res.Target)
	}
	if res.Slug != "" {
		fmt.Fprintf(w, "  Slug:     %s\n", res.Slug)
	}
	if res.Strategy != "" {
		fmt.Fprintf(w, "  Strategy: %s\n", res.Strategy)
	}
	if res.Reason != "" {
		fmt.Fprintf(w, "  Reason:   %s\n", res.Reason)
	}
	fmt.Fprintf(w, "  Note:     %s\n", res.Status.Description())
}
