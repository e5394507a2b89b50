package output

import (
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/filter"
	"github.com/leonardomso/postlink/internal/resolver"
	"github.com/leonardomso/postlink/internal/stats"
)

// =============================================================================
// Fixtures
// =============================================================================

func newTestReport() *Report {
	results := []checker.Result{
		{
			Link: checker.Link{Href: "note.md", FilePath: "posts/a/index.md", Text: "My note", Line: 3, Column: 5},
			Resolution: resolver.Resolution{
				Href:     "note.md",
				URL:      "/posts/a/my-note",
				Target:   "/site/posts/a/note.md",
				Slug:     "my-note",
				Strategy: resolver.StrategyDirect,
				Status:   resolver.StatusRewritten,
			},
		},
		{
			Link: checker.Link{Href: "missing.md", FilePath: "posts/a/index.md", Text: "Lost | away", Line: 7},
			Resolution: resolver.Resolution{
				Href:   "missing.md",
				Reason: "no such file: /site/posts/a/missing.md",
				Status: resolver.StatusUnresolved,
			},
		},
		{
			Link:       checker.Link{Href: "https://example.com", FilePath: "posts/b.md", Line: 1},
			Resolution: resolver.Resolution{Href: "https://example.com", Reason: resolver.ReasonExternal, Status: resolver.StatusPassThrough},
		},
		{
			Link:  checker.Link{Href: "late.md", FilePath: "posts/b.md", Line: 9},
			Error: "check canceled",
		},
	}

	return &Report{
		GeneratedAt: time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		BlogDir:     "/site/posts",
		Files:       []string{"posts/a/index.md", "posts/b.md"},
		TotalLinks:  5,
		UniqueHrefs: 5,
		Summary:     checker.Summarize(results),
		Results:     results,
		Ignored: []IgnoredLink{
			{Href: "drafts/wip.md", File: "posts/b.md", Line: 2, Reason: "pattern", Rule: "drafts/*"},
		},
	}
}

func newMinimalReport() *Report {
	return &Report{GeneratedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// =============================================================================
// Format selection
// =============================================================================

func TestValidFormats(t *testing.T) {
	t.Parallel()

	formats := ValidFormats()
	assert.Len(t, formats, 5)
	for _, f := range formats {
		assert.True(t, IsValidFormat(f))
	}
	assert.True(t, IsValidFormat("JSON"))
	assert.False(t, IsValidFormat("csv"))
	assert.False(t, IsValidFormat(""))
}

func TestGetFormatter(t *testing.T) {
	t.Parallel()

	for _, f := range ValidFormats() {
		formatter, err := GetFormatter(Format(f))
		require.NoError(t, err, f)
		assert.NotNil(t, formatter)
	}

	_, err := GetFormatter("csv")
	assert.Error(t, err)
}

func TestInferFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{filename: "report.json", want: FormatJSON},
		{filename: "report.yaml", want: FormatYAML},
		{filename: "report.YML", want: FormatYAML},
		{filename: "report.xml", want: FormatXML},
		{filename: "report.junit.xml", want: FormatJUnit},
		{filename: "report.md", want: FormatMarkdown},
		{filename: "report.markdown", want: FormatMarkdown},
		{filename: "report.txt", wantErr: true},
		{filename: "report", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()
			got, err := InferFormat(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	require.NoError(t, WriteToFile(newTestReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	assert.Error(t, WriteToFile(newTestReport(), filepath.Join(dir, "report.txt")))
	assert.Error(t, WriteToFile(newTestReport(), filepath.Join(dir, "missing", "report.json")))
}

func TestIgnoredFromFilter(t *testing.T) {
	t.Parallel()

	got := IgnoredFromFilter([]filter.IgnoreReason{
		{Type: "regex", Rule: "^x", Href: "x.md", File: "a.md", Line: 4},
	})
	assert.Equal(t, []IgnoredLink{{Href: "x.md", File: "a.md", Line: 4, Reason: "regex", Rule: "^x"}}, got)
}

// =============================================================================
// JSON / YAML
// =============================================================================

func TestJSONFormatter_Format(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(newTestReport(), FormatJSON)
	require.NoError(t, err)

	var doc document
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "2026-03-14T15:09:26Z", doc.GeneratedAt)
	assert.Equal(t, 2, doc.TotalFiles)
	assert.Equal(t, documentSummary{Rewritten: 1, Unchanged: 1, Unresolved: 1, Errors: 1, Ignored: 1}, doc.Summary)

	require.Len(t, doc.Results, 4)
	assert.Equal(t, "rewritten", doc.Results[0].Status)
	assert.Equal(t, "/posts/a/my-note", doc.Results[0].URL)
	assert.Equal(t, "my-note", doc.Results[0].Slug)
	assert.Equal(t, "unresolved", doc.Results[1].Status)
	assert.Equal(t, "passthrough", doc.Results[2].Status)
	assert.Equal(t, "error", doc.Results[3].Status)
	assert.Equal(t, "check canceled", doc.Results[3].Error)

	require.Len(t, doc.Ignored, 1)
	assert.Equal(t, "drafts/*", doc.Ignored[0].Rule)
	assert.Nil(t, doc.Stats)
}

func TestJSONFormatter_Format_EmptyReport(t *testing.T) {
	t.Parallel()

	data, err := (&JSONFormatter{}).Format(newMinimalReport())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"results": []`)
	assert.NotContains(t, string(data), `"ignored"`)
}

func TestJSONFormatter_Format_WithStats(t *testing.T) {
	t.Parallel()

	report := newMinimalReport()
	report.Stats = &stats.Snapshot{FilesScanned: 3, LinksFound: 10}

	data, err := (&JSONFormatter{}).Format(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"files_scanned": 3`)
}

func TestYAMLFormatter_Format(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(newTestReport(), FormatYAML)
	require.NoError(t, err)

	var doc document
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, 5, doc.TotalLinks)
	require.Len(t, doc.Results, 4)
	assert.Equal(t, "note.md", doc.Results[0].Href)
	assert.Equal(t, 3, doc.Results[0].Line)
	assert.Equal(t, 1, doc.Summary.Unresolved)
}

// =============================================================================
// XML / JUnit
// =============================================================================

func TestXMLFormatter_Format(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(newTestReport(), FormatXML)
	require.NoError(t, err)

	s := string(data)
	assert.True(t, strings.HasPrefix(s, xml.Header))
	assert.Contains(t, s, `<report generated_at="2026-03-14T15:09:26Z"`)
	assert.Contains(t, s, `<result status="rewritten" line="3" column="5">`)
	assert.Contains(t, s, "<url>/posts/a/my-note</url>")
	assert.Contains(t, s, "<unresolved>1</unresolved>")
	assert.Contains(t, s, "<ignored>")

	var parsed xmlOutput
	require.NoError(t, xml.Unmarshal(data, &parsed))
	assert.Len(t, parsed.Results.Results, 4)
}

func TestXMLFormatter_Format_NoIgnored(t *testing.T) {
	t.Parallel()

	data, err := (&XMLFormatter{}).Format(newMinimalReport())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<item>")
}

func TestJUnitFormatter_Format(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(newTestReport(), FormatJUnit)
	require.NoError(t, err)

	var suites junitTestSuites
	require.NoError(t, xml.Unmarshal(data, &suites))

	assert.Equal(t, 2, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
	require.Len(t, suites.TestSuite, 2)

	// Sorted by file.
	first := suites.TestSuite[0]
	assert.Equal(t, "posts/a/index.md", first.Name)
	require.Len(t, first.TestCases, 1)
	assert.Equal(t, "missing.md", first.TestCases[0].Name)
	assert.Equal(t, "posts/a/index.md:7", first.TestCases[0].ClassName)
	require.NotNil(t, first.TestCases[0].Failure)
	assert.Equal(t, "unresolved", first.TestCases[0].Failure.Type)
	assert.Contains(t, first.TestCases[0].Failure.Message, "no such file")

	second := suites.TestSuite[1]
	require.Len(t, second.TestCases, 1)
	require.NotNil(t, second.TestCases[0].Error)
	assert.Equal(t, "check canceled", second.TestCases[0].Error.Message)
}

func TestJUnitFormatter_Format_AllResolved(t *testing.T) {
	t.Parallel()

	data, err := (&JUnitFormatter{}).Format(newMinimalReport())
	require.NoError(t, err)

	var suites junitTestSuites
	require.NoError(t, xml.Unmarshal(data, &suites))
	assert.Zero(t, suites.Tests)
	require.Len(t, suites.TestSuite, 1)
	assert.Equal(t, "all-links", suites.TestSuite[0].Name)
}

// =============================================================================
// Markdown
// =============================================================================

func TestMarkdownFormatter_Format(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(newTestReport(), FormatMarkdown)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, "# postlink Check Report")
	assert.Contains(t, s, "**Blog Root:** `/site/posts`")
	assert.Contains(t, s, "| Rewritten | 1 |")
	assert.Contains(t, s, "| Errors | 1 |")
	assert.Contains(t, s, "## Problems (2)")
	assert.Contains(t, s, `Lost \| away`, "pipes escaped")
	assert.Contains(t, s, "## Rewritten Links (1)")
	assert.Contains(t, s, "| note.md | /posts/a/my-note | posts/a/index.md | 3 | direct |")
	assert.Contains(t, s, "## Ignored Links (1)")
	assert.Contains(t, s, "`drafts/*`")
}

func TestMarkdownFormatter_Format_NoProblems(t *testing.T) {
	t.Parallel()

	data, err := (&MarkdownFormatter{}).Format(newMinimalReport())
	require.NoError(t, err)

	s := string(data)
	assert.NotContains(t, s, "## Problems")
	assert.NotContains(t, s, "## Rewritten Links")
	assert.NotContains(t, s, "| Errors |")
}

func TestEscapeMarkdown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `a \| b`, escapeMarkdown("a | b"))
	assert.Equal(t, "\\`code\\`", escapeMarkdown("`code`"))
	assert.Equal(t, "plain", escapeMarkdown("plain"))
}
