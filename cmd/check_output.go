package cmd

import (
	"time"

	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/helpers"
	"github.com/leonardomso/postlink/internal/output"
)

// buildReport creates an output.Report from check results.
// This consolidates all data needed for formatted output.
func (c *checkRun) buildReport() *output.Report {
	report := &output.Report{
		GeneratedAt: time.Now(),
		BlogDir:     c.resolver.BlogDir(),
		Files:       c.files,
		TotalLinks:  len(c.links),
		UniqueHrefs: helpers.CountUniqueStrings(Hrefs(c.links)),
		Summary:     checker.Summarize(c.results),
		Results:     filterResults(c.results),
	}

	if showIgnored && c.urlFilter.HasRules() {
		report.Ignored = output.IgnoredFromFilter(c.urlFilter.IgnoredHrefs())
	}

	if showStats {
		snapshot := c.perf.Snapshot()
		report.Stats = &snapshot
	}

	return report
}

// filterResults returns the results to display: problems by default,
// problems and rewritten links with --all.
func filterResults(results []checker.Result) []checker.Result {
	filtered := make([]checker.Result, 0, len(results)/4)
	for _, r := range results {
		if r.IsProblem() || (showAll && r.Resolution.Changed() && !r.Ignored) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
