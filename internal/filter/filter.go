// Package filter decides which hrefs are left untouched by the rewriter,
// based on glob and regex rules.
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// IgnoreReason describes why an href was ignored.
type IgnoreReason struct {
	Type string // "pattern" or "regex"
	Rule string // The rule that matched
	Href string // The href that was ignored
	File string // Source file
	Line int    // Line number
}

// Filter determines which hrefs should be skipped during rewriting and checking.
// It is safe for concurrent use.
type Filter struct {
	// globPatterns are compiled glob patterns for href matching.
	globPatterns []compiledGlob

	// regexPatterns are compiled regex patterns for href matching.
	regexPatterns []compiledRegex

	mu      sync.Mutex
	ignored []IgnoreReason
}

// compiledGlob holds a glob pattern and its original string for reporting.
type compiledGlob struct {
	pattern  glob.Glob
	original string
}

// compiledRegex holds a regex pattern and its original string for reporting.
type compiledRegex struct {
	pattern  *regexp.Regexp
	original string
}

// Config holds filter configuration.
type Config struct {
	GlobPatterns  []string // Glob patterns (e.g., "drafts/*.md")
	RegexPatterns []string // Regex patterns (e.g., "^\\.\\./private/")
}

// New creates a new Filter from the given configuration.
// Patterns are compiled once; an invalid pattern is an error.
func New(cfg Config) (*Filter, error) {
	f := &Filter{
		ignored: []IgnoreReason{},
	}

	for _, p := range cfg.GlobPatterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", p, err)
		}
		f.globPatterns = append(f.globPatterns, compiledGlob{
			pattern:  g,
			original: p,
		})
	}

	for _, p := range cfg.RegexPatterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", p, err)
		}
		f.regexPatterns = append(f.regexPatterns, compiledRegex{
			pattern:  r,
			original: p,
		})
	}

	return f, nil
}

// Match reports whether href matches any rule, without recording it.
// A nil Filter matches nothing.
func (f *Filter) Match(href string) (ruleType, rule string, ok bool) {
	if f == nil {
		return "", "", false
	}

	for _, g := range f.globPatterns {
		if g.pattern.Match(href) {
			return "pattern", g.original, true
		}
	}

	for _, r := range f.regexPatterns {
		if r.pattern.MatchString(href) {
			return "regex", r.original, true
		}
	}

	return "", "", false
}

// ShouldIgnore checks if an href should be left alone.
// If it matches any rule, the reason is recorded and true is returned.
// Check order (fastest first): glob → regex.
func (f *Filter) ShouldIgnore(href, file string, line int) bool {
	ruleType, rule, ok := f.Match(href)
	if !ok {
		return false
	}

	f.mu.Lock()
	f.ignored = append(f.ignored, IgnoreReason{
		Type: ruleType,
		Rule: rule,
		Href: href,
		File: file,
		Line: line,
	})
	f.mu.Unlock()

	return true
}

// IgnoredCount returns the number of hrefs that were ignored.
func (f *Filter) IgnoredCount() int {
	if f == nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ignored)
}

// IgnoredHrefs returns a copy of all ignored hrefs with their reasons.
func (f *Filter) IgnoredHrefs() []IgnoreReason {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]IgnoreReason(nil), f.ignored...)
}

// HasRules returns true if the filter has any rules defined.
func (f *Filter) HasRules() bool {
	if f == nil {
		return false
	}
	return len(f.globPatterns) > 0 || len(f.regexPatterns) > 0
}

// Stats returns a summary of the filter's rules.
func (f *Filter) Stats() (globs, regexes int) {
	if f == nil {
		return 0, 0
	}
	return len(f.globPatterns), len(f.regexPatterns)
}
