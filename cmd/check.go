package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/filter"
	"github.com/leonardomso/postlink/internal/helpers"
	"github.com/leonardomso/postlink/internal/output"
	"github.com/leonardomso/postlink/internal/parser"
	"github.com/leonardomso/postlink/internal/resolver"
	"github.com/leonardomso/postlink/internal/scanner"
	"github.com/leonardomso/postlink/internal/stats"
)

// Flag variables for the check command.
var (
	outputFormat string
	outputFile   string
	concurrency  int
	showAll      bool
	showStats    bool

	fileTypes []string

	ignorePatterns []string
	ignoreRegex    []string
	showIgnored    bool
)

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Report post links that do not resolve",
	Long: `Scan posts for links and resolve every one of them without changing any file.

If no path is provided, scans the blog root.
By default, only problems are shown: links that look like post references
but whose target file is missing or cannot be read.

Links are found with a markdown parser, while rewrite works on the raw text,
so the two can disagree:
  [x](note.md "Title")   listed here, left alone by rewrite
  links in code blocks   rewritten by rewrite, not listed here

Exit codes:
  0 - Every post reference resolves
  1 - Unresolved or invalid links found

Examples:
  postlink check                          # Scan the blog root
  postlink check ./src/data/blog/2024     # Scan a subdirectory
  postlink check --all                    # Also list rewritten links
  postlink check --format=json            # Output JSON to stdout
  postlink check --output=report.junit.xml  # Write JUnit XML for CI/CD
  postlink check --stats                  # Show performance statistics

Note: --format and --output are mutually exclusive.

Ignore patterns:
  postlink check --ignore-pattern="drafts/*"
  postlink check --ignore-regex="^\\.\\./private/"
  postlink check --show-ignored`,
	Args: cobra.MaximumNArgs(1),
	Run:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&outputFormat, "format", "f", "",
		"Output format for stdout: json, yaml, xml, junit, markdown")
	checkCmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"Write report to file (format inferred from extension: .json, .yaml, .xml, .junit.xml, .md)")

	checkCmd.Flags().StringSliceVarP(&fileTypes, "types", "T", nil,
		"File types to scan (comma-separated): md, mdx, markdown")

	checkCmd.Flags().BoolVarP(&showAll, "all", "a", false, "Show rewritten links as well as problems")

	checkCmd.Flags().IntVarP(&concurrency, "concurrency", "c", checker.DefaultConcurrency(),
		"Number of concurrent workers")
	checkCmd.Flags().BoolVar(&showStats, "stats", false,
		"Show detailed performance statistics")

	checkCmd.Flags().StringSliceVar(&ignorePatterns, "ignore-pattern", nil,
		"Glob patterns for hrefs to ignore (can be repeated)")
	checkCmd.Flags().StringSliceVar(&ignoreRegex, "ignore-regex", nil,
		"Regex patterns for hrefs to ignore (can be repeated)")
	checkCmd.Flags().BoolVar(&showIgnored, "show-ignored", false,
		"Show which hrefs were ignored and why")
}

// checkRun carries the state of one check across its phases.
type checkRun struct {
	perf      *stats.Stats
	resolver  *resolver.Resolver
	urlFilter *filter.Filter
	files     []string
	links     []checker.Link
	results   []checker.Result
	format    string
}

// runCheck is the main entry point for the check command.
func runCheck(cmd *cobra.Command, args []string) {
	exitOnError(validateCheckFlags(), "Invalid flags")

	run := &checkRun{
		perf:     stats.New(),
		resolver: appConfig.BuildResolver(),
		format:   strings.ToLower(appConfig.GetOutputFormat(outputFormat)),
	}
	if outputFile != "" {
		run.format = "" // --output wins over a configured stdout format
	}

	var err error
	run.urlFilter, err = appConfig.BuildFilter(ignorePatterns, ignoreRegex)
	exitOnError(err, "Error creating filter")

	path := getPathArg(args, run.resolver.BlogDir())

	run.scan(path)
	run.parse()
	run.resolve(cmd.Context())
	run.report()

	if checker.Summarize(run.results).HasProblems() {
		os.Exit(1)
	}
}

// structured reports whether the report goes to stdout in a machine format.
func (c *checkRun) structured() bool {
	return c.format != ""
}

// scan finds the posts to check.
func (c *checkRun) scan(path string) {
	c.perf.StartScan()
	files, err := scanner.FindFilesWithOptions(appConfig.BuildScanOptions(path, fileTypes))
	exitOnError(err, "Error scanning directory")
	c.perf.EndScan(len(files))
	c.files = files

	logger.Debug().Str("path", path).Int("files", len(files)).Msg("scan complete")
	if !c.structured() {
		fmt.Printf("Found %s in %s\n", helpers.Plural(len(files), "post", "posts"), path)
	}
}

// parse extracts the links of every post.
func (c *checkRun) parse() {
	c.perf.StartParse()
	parserLinks, err := parser.ExtractLinksFromMultipleFiles(c.files)
	exitOnError(err, "Error parsing files")

	c.links = ConvertParserLinks(parserLinks)
	unique := helpers.CountUniqueStrings(Hrefs(c.links))
	c.perf.EndParse(len(c.links), unique)

	if !c.structured() {
		fmt.Printf("Found %s (%d unique), resolving...\n", helpers.Plural(len(c.links), "link", "links"), unique)
	}
}

// resolve runs every link through the checker.
func (c *checkRun) resolve(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.perf.StartResolve()
	opts := checker.DefaultOptions().
		WithConcurrency(appConfig.GetConcurrency(concurrency, checker.DefaultConcurrency())).
		WithLogger(logger)
	c.results = checker.New(c.resolver, c.urlFilter, opts).CheckAll(ctx, c.links)
	c.perf.EndResolve(getIgnoredCount(c.urlFilter))
}

// report routes output based on format flags.
func (c *checkRun) report() {
	switch {
	case c.structured():
		data, err := output.FormatReport(c.buildReport(), output.Format(c.format))
		exitOnError(err, "Error formatting output")
		fmt.Print(string(data))

	case outputFile != "":
		exitOnError(output.WriteToFile(c.buildReport(), outputFile), "Error writing file")
		fmt.Printf("Wrote report to %s\n\n", outputFile)
		printSummaryLine(checker.Summarize(c.results))
		if showStats {
			fmt.Print(c.perf.String())
		}

	default:
		outputText(c.results, c.urlFilter)
		if showStats {
			fmt.Print(c.perf.String())
		}
	}
}

// getIgnoredCount returns the ignored count from filter, or 0 if filter is nil.
func getIgnoredCount(urlFilter *filter.Filter) int {
	if urlFilter != nil {
		return urlFilter.IgnoredCount()
	}
	return 0
}

// validateCheckFlags checks for invalid flag combinations.
func validateCheckFlags() error {
	if outputFormat != "" && outputFile != "" {
		return fmt.Errorf("--format and --output are mutually exclusive; " +
			"use --format for stdout output, or --output for file output")
	}

	if outputFormat != "" && !output.IsValidFormat(outputFormat) {
		return fmt.Errorf("invalid format %q; valid formats: %s",
			outputFormat, strings.Join(output.ValidFormats(), ", "))
	}

	if concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", concurrency)
	}

	return nil
}
