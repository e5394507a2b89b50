package output

import (
	"fmt"
	"strings"

	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/helpers"
	"github.com/leonardomso/postlink/internal/resolver"
)

// MarkdownFormatter formats reports as Markdown.
type MarkdownFormatter struct{}

// Format implements Formatter.
func (*MarkdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(report.Results)*160 + 500)

	b.WriteString("# postlink Check Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s  \n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	if report.BlogDir != "" {
		fmt.Fprintf(&b, "**Blog Root:** `%s`  \n", report.BlogDir)
	}
	fmt.Fprintf(&b, "**Files Scanned:** %d  \n", len(report.Files))
	fmt.Fprintf(&b, "**Total Links:** %d  \n", report.TotalLinks)
	fmt.Fprintf(&b, "**Unique Hrefs:** %d\n\n", report.UniqueHrefs)

	s := report.Summary
	b.WriteString("## Summary\n\n")
	b.WriteString("| Status | Count |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Rewritten | %d |\n", s.Rewritten)
	fmt.Fprintf(&b, "| Unchanged | %d |\n", s.Unchanged)
	fmt.Fprintf(&b, "| Unresolved | %d |\n", s.Unresolved)
	fmt.Fprintf(&b, "| Invalid | %d |\n", s.Invalid)
	if s.Errors > 0 {
		fmt.Fprintf(&b, "| Errors | %d |\n", s.Errors)
	}
	if len(report.Ignored) > 0 {
		fmt.Fprintf(&b, "| Ignored | %d |\n", len(report.Ignored))
	}
	b.WriteString("\n")

	if problems := checker.FilterProblems(report.Results); len(problems) > 0 {
		fmt.Fprintf(&b, "## Problems (%d)\n\n", len(problems))
		b.WriteString("| Status | Href | Text | File | Line | Reason |\n")
		b.WriteString("|--------|------|------|------|------|--------|\n")
		for _, r := range problems {
			reason := r.Resolution.Reason
			if r.Error != "" {
				reason = r.Error
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %s |\n",
				r.StatusLabel(),
				escapeMarkdown(helpers.TruncateMiddle(r.Link.Href, 60)),
				escapeMarkdown(helpers.TruncateText(r.Link.Text, 40)),
				escapeMarkdown(r.Link.FilePath),
				r.Link.Line,
				escapeMarkdown(helpers.TruncateMiddle(reason, 60)))
		}
		b.WriteString("\n")
	}

	if rewritten := checker.FilterByStatus(report.Results, resolver.StatusRewritten); len(rewritten) > 0 {
		fmt.Fprintf(&b, "## Rewritten Links (%d)\n\n", len(rewritten))
		b.WriteString("| Href | URL | File | Line | Strategy |\n")
		b.WriteString("|------|-----|------|------|----------|\n")
		for _, r := range rewritten {
			fmt.Fprintf(&b, "| %s | %s | %s | %d | %s |\n",
				escapeMarkdown(helpers.TruncateMiddle(r.Link.Href, 50)),
				escapeMarkdown(helpers.TruncateMiddle(r.Resolution.URL, 50)),
				escapeMarkdown(r.Link.FilePath),
				r.Link.Line,
				r.Resolution.Strategy)
		}
		b.WriteString("\n")
	}

	if len(report.Ignored) > 0 {
		fmt.Fprintf(&b, "## Ignored Links (%d)\n\n", len(report.Ignored))
		b.WriteString("| Href | File | Line | Reason | Rule |\n")
		b.WriteString("|------|------|------|--------|------|\n")
		for _, ig := range report.Ignored {
			fmt.Fprintf(&b, "| %s | %s | %d | %s | `%s` |\n",
				escapeMarkdown(helpers.TruncateMiddle(ig.Href, 60)),
				escapeMarkdown(ig.File), ig.Line, ig.Reason, ig.Rule)
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

// escapeMarkdown escapes characters that break table cells.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "`", "\\`")
	return s
}
