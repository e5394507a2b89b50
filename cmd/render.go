package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leonardomso/postlink/internal/render"
)

// Render command flag variables.
var (
	renderMermaid bool
	renderUnsafe  bool
	renderMeta    bool
	renderOutput  string
)

// renderCmd represents the render command.
var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render a post to HTML with its links rewritten",
	Long: `Render a markdown post to HTML. Links to other posts point at their
published URLs; frontmatter is not part of the output.

Examples:
  postlink render src/data/blog/a/index.md
  postlink render src/data/blog/a/index.md --mermaid -o a.html
  postlink render src/data/blog/a/index.md --meta    # Print frontmatter as JSON`,
	Args: cobra.ExactArgs(1),
	Run:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().BoolVar(&renderMermaid, "mermaid", false,
		"Render ```mermaid blocks as diagrams")
	renderCmd.Flags().BoolVar(&renderUnsafe, "unsafe", false,
		"Pass raw HTML in the post through to the output")
	renderCmd.Flags().BoolVar(&renderMeta, "meta", false,
		"Print the frontmatter as JSON instead of the HTML")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "",
		"Write the HTML to this file instead of stdout")
}

func runRender(cmd *cobra.Command, args []string) {
	renderer := render.New(appConfig.BuildResolver(), render.Options{
		Mermaid: renderMermaid,
		Unsafe:  renderUnsafe,
	})

	result, err := renderer.RenderFile(args[0])
	exitOnError(err, "Error rendering")

	if renderMeta {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		exitOnError(enc.Encode(result.Meta), "Error encoding frontmatter")
		return
	}

	if renderOutput != "" {
		exitOnError(os.WriteFile(renderOutput, result.HTML, 0o644), "Error writing file")
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", renderOutput)
		return
	}

	_, err = cmd.OutOrStdout().Write(result.HTML)
	exitOnError(err, "")
}
