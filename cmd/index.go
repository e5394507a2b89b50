package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/index"
	"github.com/leonardomso/postlink/internal/parser"
	"github.com/leonardomso/postlink/internal/resolver"
	"github.com/leonardomso/postlink/internal/scanner"
)

// Index command flag variables.
var (
	indexFormat string
	indexDrafts bool
	indexDB     string
	indexTypes  []string
)

// indexCmd represents the index command.
var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "List every post with its published URL",
	Long: `Read every post under path (default: the blog root) and print its path,
URL, title, slug and tags. Drafts are skipped unless --drafts is set.

With --db, the index and every rewritten link between posts are also saved
to a SQLite file that "postlink graph" can query.

Examples:
  postlink index
  postlink index --format=yaml --drafts
  postlink index --db .postlink/index.sqlite`,
	Args: cobra.MaximumNArgs(1),
	Run:  runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().StringVarP(&indexFormat, "format", "f", "json",
		"Output format: json, yaml")
	indexCmd.Flags().BoolVar(&indexDrafts, "drafts", false,
		"Include posts with draft: true")
	indexCmd.Flags().StringVar(&indexDB, "db", "",
		"Also save the index and link graph to this SQLite file")
	indexCmd.Flags().StringSliceVarP(&indexTypes, "types", "T", nil,
		"File types to scan (comma-separated): md, mdx, markdown")
}

func runIndex(cmd *cobra.Command, args []string) {
	r := appConfig.BuildResolver()
	path := getPathArg(args, r.BlogDir())

	files, err := scanner.FindFilesWithOptions(appConfig.BuildScanOptions(path, indexTypes))
	exitOnError(err, "Error scanning directory")

	entries, err := index.Build(files, r, index.Options{IncludeDrafts: indexDrafts, Logger: &logger})
	exitOnError(err, "Error building index")

	if _, collisions := index.ByURL(entries); len(collisions) > 0 {
		for _, e := range collisions {
			logger.Warn().Str("url", e.URL).Str("path", e.Path).Msg("another post has the same URL")
		}
	}

	if indexDB != "" {
		links := graphLinks(cmd.Context(), r, files)
		exitOnError(index.Save(indexDB, entries, links), "Error saving index")
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d posts and %d links to %s\n", len(entries), len(links), indexDB)
	}

	exitOnError(index.Write(cmd.OutOrStdout(), entries, indexFormat), "")
}

// graphLinks resolves every link in files and keeps the rewritten ones.
// Sources are made relative to the blog root, like index entries.
func graphLinks(ctx context.Context, r *resolver.Resolver, files []string) []index.Link {
	if ctx == nil {
		ctx = context.Background()
	}

	parserLinks, err := parser.ExtractLinksFromMultipleFiles(files)
	exitOnError(err, "Error parsing files")

	c := checker.New(r, nil, checker.DefaultOptions().WithLogger(logger))
	results := c.CheckAll(ctx, ConvertParserLinks(parserLinks))

	var links []index.Link
	for _, res := range checker.FilterByStatus(results, resolver.StatusRewritten) {
		source := res.Link.FilePath
		if rel, err := filepath.Rel(r.BlogDir(), source); err == nil {
			source = resolver.ToSlash(rel)
		}
		links = append(links, index.Link{
			Source: source,
			Href:   res.Link.Href,
			URL:    res.Resolution.URL,
			Line:   res.Link.Line,
		})
	}
	return links
}
