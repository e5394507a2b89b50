package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leonardomso/postlink/internal/index"
)

var graphDB string

// graphCmd represents the graph command.
var graphCmd = &cobra.Command{
	Use:   "graph [url]",
	Short: "Query the link graph saved by index --db",
	Long: `With a URL, list the posts that link to it. Without one, list the posts
no other post links to.

Examples:
  postlink index --db .postlink/index.sqlite > /dev/null
  postlink graph /posts/a/my-note --db .postlink/index.sqlite
  postlink graph --db .postlink/index.sqlite`,
	Args: cobra.MaximumNArgs(1),
	Run:  runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVar(&graphDB, "db", ".postlink/index.sqlite",
		"SQLite file written by index --db")
}

func runGraph(cmd *cobra.Command, args []string) {
	store, err := index.Open(graphDB)
	exitOnError(err, "Error opening index")
	defer store.Close()

	out := cmd.OutOrStdout()

	if len(args) == 0 {
		orphans, err := store.Orphans()
		exitOnError(err, "Error querying index")
		fmt.Fprintf(out, "%d post(s) with no incoming links\n", len(orphans))
		for _, e := range orphans {
			fmt.Fprintf(out, "  %s  (%s)\n", e.URL, e.Path)
		}
		return
	}

	links, err := store.Backlinks(args[0])
	exitOnError(err, "Error querying index")
	fmt.Fprintf(out, "%d link(s) to %s\n", len(links), args[0])
	for _, l := range links {
		fmt.Fprintf(out, "  %s:%d  [%s]\n", l.Source, l.Line, l.Href)
	}
}
