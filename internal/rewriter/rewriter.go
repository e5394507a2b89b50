// Package rewriter rewrites every inline markdown link in a block of text,
// replacing each href with its resolved post URL.
package rewriter

import (
	"regexp"
	"strings"

	"github.com/leonardomso/postlink/internal/filter"
)

// linkRegex matches [text](href).
//   - \[([^\]]+)\]  - link text, anything but ']'
//   - \(([^)]+)\)   - href, anything but ')'
var linkRegex = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// LinkResolver maps an href found in fileContext to its published URL.
// *resolver.Resolver implements it.
type LinkResolver interface {
	ResolveLink(href, fileContext string) string
}

// Match is a markdown link occurrence in a text.
type Match struct {
	Text  string // Link text, verbatim
	Href  string // Href, verbatim
	Start int    // Byte offset of '['
	End   int    // Byte offset just past ')'
	Line  int    // 1-indexed line of '['
}

// Change records a link whose href was rewritten.
type Change struct {
	Text    string
	OldHref string
	NewHref string
	Line    int
}

// Rewriter applies a LinkResolver to all links in a text.
// It holds no mutable state of its own and is safe for concurrent use
// when its resolver is.
type Rewriter struct {
	resolver LinkResolver
	filter   *filter.Filter
}

// New creates a Rewriter. A nil filter rewrites every link.
func New(r LinkResolver, f *filter.Filter) *Rewriter {
	return &Rewriter{resolver: r, filter: f}
}

// FindLinks returns all non-overlapping links in text, left to right.
func FindLinks(text string) []Match {
	indexes := linkRegex.FindAllStringSubmatchIndex(text, -1)
	if len(indexes) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(indexes))
	line := 1
	last := 0
	for _, idx := range indexes {
		line += strings.Count(text[last:idx[0]], "\n")
		last = idx[0]

		matches = append(matches, Match{
			Text:  text[idx[2]:idx[3]],
			Href:  text[idx[4]:idx[5]],
			Start: idx[0],
			End:   idx[1],
			Line:  line,
		})
	}
	return matches
}

// Rewrite returns text with every link's href replaced by its resolved URL.
// Link text and everything outside links is preserved byte for byte.
func (rw *Rewriter) Rewrite(text, fileContext string) string {
	out, _ := rw.RewriteWithChanges(text, fileContext)
	return out
}

// RewriteWithChanges is Rewrite that also reports which links changed.
func (rw *Rewriter) RewriteWithChanges(text, fileContext string) (string, []Change) {
	matches := FindLinks(text)
	if len(matches) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))

	var changes []Change
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m.Start])
		last = m.End

		href := m.Href
		if !rw.filter.ShouldIgnore(m.Href, fileContext, m.Line) {
			href = rw.resolver.ResolveLink(m.Href, fileContext)
		}

		b.WriteString("[")
		b.WriteString(m.Text)
		b.WriteString("](")
		b.WriteString(href)
		b.WriteString(")")

		if href != m.Href {
			changes = append(changes, Change{
				Text:    m.Text,
				OldHref: m.Href,
				NewHref: href,
				Line:    m.Line,
			})
		}
	}
	b.WriteString(text[last:])

	return b.String(), changes
}
