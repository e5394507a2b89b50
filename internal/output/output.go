// Package output provides formatting and file writing for link check reports.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/filter"
	"github.com/leonardomso/postlink/internal/stats"
)

// Format names a report encoding.
type Format string

// Report formats.
const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatXML      Format = "xml"
	FormatJUnit    Format = "junit"
	FormatMarkdown Format = "markdown"
)

// timeLayout is used for the generated_at field of every format.
const timeLayout = time.RFC3339

// formats lists every format in display order with its formatter.
var formats = []struct {
	format Format
	new    func() Formatter
	exts   []string
}{
	{FormatJSON, func() Formatter { return &JSONFormatter{} }, []string{".json"}},
	{FormatYAML, func() Formatter { return &YAMLFormatter{} }, []string{".yaml", ".yml"}},
	{FormatXML, func() Formatter { return &XMLFormatter{} }, []string{".xml"}},
	{FormatJUnit, func() Formatter { return &JUnitFormatter{} }, []string{".junit.xml"}},
	{FormatMarkdown, func() Formatter { return &MarkdownFormatter{} }, []string{".md", ".markdown"}},
}

// ValidFormats returns the name of every format.
func ValidFormats() []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f.format)
	}
	return names
}

// IsValidFormat reports whether s names a format, ignoring case.
func IsValidFormat(s string) bool {
	_, err := GetFormatter(Format(strings.ToLower(s)))
	return err == nil
}

// IgnoredLink represents an href that was skipped by an ignore rule.
type IgnoredLink struct {
	Href   string
	File   string
	Line   int
	Reason string // "pattern" or "regex"
	Rule   string // The rule that matched
}

// Report contains all data needed for output formatting.
type Report struct {
	GeneratedAt time.Time
	BlogDir     string
	Files       []string
	TotalLinks  int
	UniqueHrefs int
	Summary     checker.Summary
	Results     []checker.Result
	Ignored     []IgnoredLink
	Stats       *stats.Snapshot // Optional
}

// Formatter is the interface that output formatters implement.
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// GetFormatter returns a new formatter for format.
func GetFormatter(format Format) (Formatter, error) {
	for _, f := range formats {
		if f.format == format {
			return f.new(), nil
		}
	}
	return nil, fmt.Errorf("unknown format: %s", format)
}

// FormatReport formats a report using the specified format.
func FormatReport(report *Report, format Format) ([]byte, error) {
	formatter, err := GetFormatter(format)
	if err != nil {
		return nil, err
	}
	return formatter.Format(report)
}

// InferFormat picks the format whose extension filename ends with. The
// longest match wins, so report.junit.xml is JUnit rather than XML.
func InferFormat(filename string) (Format, error) {
	lower := strings.ToLower(filename)

	var (
		best    Format
		bestLen int
		all     []string
	)
	for _, f := range formats {
		for _, ext := range f.exts {
			all = append(all, ext)
			if strings.HasSuffix(lower, ext) && len(ext) > bestLen {
				best, bestLen = f.format, len(ext)
			}
		}
	}
	if bestLen == 0 {
		return "", fmt.Errorf("cannot infer format from extension %q (supported: %s)",
			filepath.Ext(filename), strings.Join(all, ", "))
	}
	return best, nil
}

// WriteToFile writes a formatted report to a file, inferring the format
// from its name.
func WriteToFile(report *Report, filename string) error {
	format, err := InferFormat(filename)
	if err != nil {
		return err
	}

	data, err := FormatReport(report, format)
	if err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}

// IgnoredFromFilter converts the filter's records for a report.
func IgnoredFromFilter(reasons []filter.IgnoreReason) []IgnoredLink {
	out := make([]IgnoredLink, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, IgnoredLink{
			Href:   r.Href,
			File:   r.File,
			Line:   r.Line,
			Reason: r.Type,
			Rule:   r.Rule,
		})
	}
	return out
}
