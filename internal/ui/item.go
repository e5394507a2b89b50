package ui

import (
	"fmt"
	"strings"

	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/helpers"
	"github.com/leonardomso/postlink/internal/resolver"
)

// ResultItem wraps a checker.Result to implement list.Item interface.
type ResultItem struct {
	Result checker.Result
}

// FilterValue returns the string used for filtering.
// Implements list.Item interface.
func (i ResultItem) FilterValue() string {
	return i.Result.Link.Href + " " + i.Result.Link.FilePath
}

// Title returns the main display text for the item.
// Implements list.DefaultItem interface.
func (i ResultItem) Title() string {
	if text := helpers.TruncateText(i.Result.Link.Text, 60); text != "" {
		return fmt.Sprintf("%q", text)
	}
	return i.Result.Link.Href
}

// Description returns secondary text for the item.
// Implements list.DefaultItem interface.
func (i ResultItem) Description() string {
	r := i.Result

	href := ""
	if r.Link.Text != "" {
		href = helpers.TruncateMiddle(r.Link.Href, 50) + " | "
	}

	switch {
	case r.Ignored:
		return fmt.Sprintf("%sIgnored by %s | %s", href, r.IgnoreRule, r.Link.FilePath)
	case r.Error != "":
		return fmt.Sprintf("%sError: %s | %s", href, helpers.TruncateText(r.Error, 30), r.Link.FilePath)
	}

	switch r.Resolution.Status {
	case resolver.StatusRewritten:
		return fmt.Sprintf("%s→ %s | %s", href, helpers.TruncateMiddle(r.Resolution.URL, 40), r.Link.FilePath)
	case resolver.StatusUnresolved, resolver.StatusInvalid:
		return fmt.Sprintf("%s%s | %s", href, r.Resolution.Status.Label(), r.Link.FilePath)
	default:
		return href + r.Link.FilePath
	}
}

// DetailView returns an expanded detail view for the selected item.
func (i ResultItem) DetailView() string {
	r := i.Result
	res := r.Resolution
	var b strings.Builder

	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "│ %s  %s\n", DetailLabelStyle.Render(label), value)
		}
	}

	b.WriteString("┌─ Details ─────────────────────────────────────────────────────────────\n")
	row("Status:", StatusBadge(r))
	row("Href:", r.Link.Href)

	switch {
	case r.Ignored:
		row("Rule:", r.IgnoreRule)
	case r.Error != "":
		row("Error:", r.Error)
	default:
		if res.Changed() {
			row("URL:", res.URL)
		}
		row("Target:", res.Target)
		row("Slug:", res.Slug)
		row("Strategy:", res.Strategy)
		row("Reason:", res.Reason)
		if note := res.Status.Description(); note != "" {
			b.WriteString("│\n")
			fmt.Fprintf(&b, "│ %s\n", DetailNoteStyle.Render("Note: "+note))
		}
	}

	if text := helpers.TruncateText(r.Link.Text, 60); text != "" {
		b.WriteString("│\n")
		row("Text:", fmt.Sprintf("%q", text))
	}

	b.WriteString("│\n")
	location := r.Link.FilePath
	if r.Link.Line > 0 {
		location += fmt.Sprintf(" (line %d)", r.Link.Line)
	}
	row("File:", location)

	b.WriteString("└────────────────────────────────────────────────────────────────────────\n")

	return b.String()
}

// ResultsToItems converts a slice of checker.Result to ResultItems.
func ResultsToItems(results []checker.Result) []ResultItem {
	items := make([]ResultItem, len(results))
	for i, r := range results {
		items[i] = ResultItem{Result: r}
	}
	return items
}
