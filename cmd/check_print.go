package cmd

import (
	"fmt"
	"strings"

	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/filter"
	"github.com/leonardomso/postlink/internal/helpers"
	"github.com/leonardomso/postlink/internal/resolver"
)

// outputText prints results as human-readable text to stdout.
// This is the default output mode when no format flag is specified.
func outputText(results []checker.Result, urlFilter *filter.Filter) {
	summary := checker.Summarize(results)

	fmt.Println()
	printSummaryLine(summary)
	fmt.Println()

	filtered := filterResults(results)
	problems := checker.FilterProblems(filtered)

	printSection("Problems", problems, printProblemResult)
	if showAll {
		printSection("Rewritten", checker.FilterByStatus(filtered, resolver.StatusRewritten), printRewrittenResult)
	}

	if len(problems) == 0 {
		fmt.Println("Every post link resolves.")
	}

	if showIgnored && urlFilter.HasRules() {
		printIgnoredHrefs(urlFilter)
	}
}

// printSummaryLine prints the one-line count of every outcome.
func printSummaryLine(s checker.Summary) {
	parts := []string{
		fmt.Sprintf("%d rewritten", s.Rewritten),
		fmt.Sprintf("%d unchanged", s.Unchanged),
		fmt.Sprintf("%d unresolved", s.Unresolved),
	}
	if s.Invalid > 0 {
		parts = append(parts, fmt.Sprintf("%d invalid", s.Invalid))
	}
	if s.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", s.Errors))
	}
	if s.Ignored > 0 {
		parts = append(parts, fmt.Sprintf("%d ignored", s.Ignored))
	}
	fmt.Printf("Summary: %s\n", strings.Join(parts, " | "))
}

// printSection prints a titled section of results if any exist.
// Uses the provided printer function to format each individual result.
func printSection(title string, results []checker.Result, printer func(checker.Result)) {
	if len(results) == 0 {
		return
	}
	fmt.Printf("=== %s (%d) ===\n\n", title, len(results))
	for _, r := range results {
		printer(r)
	}
	fmt.Println()
}

// printLocation prints the text and file lines shared by every result.
func printLocation(r checker.Result) {
	if text := helpers.TruncateText(r.Link.Text, 50); text != "" {
		fmt.Printf("       Text: %q\n", text)
	}
	fmt.Printf("       File: %s", r.Link.FilePath)
	if r.Link.Line > 0 {
		fmt.Printf(":%d", r.Link.Line)
	}
	fmt.Println()
}

// printProblemResult formats and prints an unresolved, invalid or errored result.
func printProblemResult(r checker.Result) {
	fmt.Printf("  [%s] %s\n", strings.ToUpper(r.StatusLabel()), r.Link.Href)
	printLocation(r)

	switch {
	case r.Error != "":
		fmt.Printf("       Error: %s\n", r.Error)
	case r.Resolution.Reason != "":
		fmt.Printf("       Reason: %s\n", r.Resolution.Reason)
	}
	fmt.Println()
}

// printRewrittenResult formats and prints a rewritten result.
func printRewrittenResult(r checker.Result) {
	fmt.Printf("  %s\n", r.Link.Href)
	fmt.Printf("    -> %s\n", r.Resolution.URL)
	printLocation(r)
	if r.Resolution.Strategy != resolver.StrategyDirect {
		fmt.Printf("       Found via: %s\n", r.Resolution.Strategy)
	}
	fmt.Println()
}

// printIgnoredHrefs displays the hrefs that were skipped by filter rules.
func printIgnoredHrefs(urlFilter *filter.Filter) {
	ignored := urlFilter.IgnoredHrefs()
	if len(ignored) == 0 {
		return
	}

	fmt.Printf("\n=== Ignored (%d) ===\n\n", len(ignored))
	for _, ig := range ignored {
		fmt.Printf("  [IGNORED] %s\n", ig.Href)
		fmt.Printf("            File: %s", ig.File)
		if ig.Line > 0 {
			fmt.Printf(":%d", ig.Line)
		}
		fmt.Println()
		fmt.Printf("            Reason: %s %q\n\n", ig.Type, ig.Rule)
	}
}
