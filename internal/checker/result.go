package checker

import (
	"cmp"
	"slices"

	"github.com/leonardomso/postlink/internal/resolver"
)

// Link represents an href to be resolved.
// This is decoupled from parser.Link to keep the checker package independent.
type Link struct {
	Href     string // The href as written
	FilePath string // Source file where the link was found
	Text     string // Link text
	Line     int    // Line number in the source file (0 if unknown)
	Column   int    // Column number in the source file (0 if unknown)
}

// Result represents the outcome of resolving a single link.
type Result struct {
	Link       Link
	Resolution resolver.Resolution
	Ignored    bool   // Matched an ignore rule and was not resolved
	IgnoreRule string // The rule that matched, if Ignored
	Error      string // Set when the check was canceled
}

// IsProblem reports whether the result needs attention: the href looked like
// a post reference but could not be turned into a URL.
func (r Result) IsProblem() bool {
	if r.Ignored {
		return false
	}
	if r.Error != "" {
		return true
	}
	return r.Resolution.Status == resolver.StatusUnresolved ||
		r.Resolution.Status == resolver.StatusInvalid
}

// StatusLabel returns a short label for display.
func (r Result) StatusLabel() string {
	switch {
	case r.Ignored:
		return "Ignored"
	case r.Error != "":
		return "Error"
	default:
		return r.Resolution.Status.Label()
	}
}

// FilterByStatus returns results with the given resolution status.
// Ignored and errored results are never included.
func FilterByStatus(results []Result, status resolver.Status) []Result {
	var filtered []Result
	for _, r := range results {
		if !r.Ignored && r.Error == "" && r.Resolution.Status == status {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterProblems returns only the results that need attention.
func FilterProblems(results []Result) []Result {
	var problems []Result
	for _, r := range results {
		if r.IsProblem() {
			problems = append(problems, r)
		}
	}
	return problems
}

// SortResults orders results by file, line, column and href.
func SortResults(results []Result) {
	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Or(
			cmp.Compare(a.Link.FilePath, b.Link.FilePath),
			cmp.Compare(a.Link.Line, b.Link.Line),
			cmp.Compare(a.Link.Column, b.Link.Column),
			cmp.Compare(a.Link.Href, b.Link.Href),
		)
	})
}

// Summary provides statistics about check results.
type Summary struct {
	Total      int // Total links checked
	Rewritten  int // Links resolved to a post URL
	Unchanged  int // Links passed through (external, anchors, assets)
	Unresolved int // Markdown links whose target does not exist
	Invalid    int // Links that could not be decoded
	Ignored    int // Links matched by an ignore rule
	Errors     int // Checks that were canceled
}

// HasProblems returns true if any link needs attention.
func (s Summary) HasProblems() bool {
	return s.Unresolved > 0 || s.Invalid > 0 || s.Errors > 0
}

// Problems returns the number of links that need attention.
func (s Summary) Problems() int {
	return s.Unresolved + s.Invalid + s.Errors
}

// Summarize creates a summary from a slice of results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Ignored:
			s.Ignored++
		case r.Error != "":
			s.Errors++
		default:
			switch r.Resolution.Status {
			case resolver.StatusRewritten:
				s.Rewritten++
			case resolver.StatusPassThrough:
				s.Unchanged++
			case resolver.StatusUnresolved:
				s.Unresolved++
			case resolver.StatusInvalid:
				s.Invalid++
			}
		}
	}
	return s
}
