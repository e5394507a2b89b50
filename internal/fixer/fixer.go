// Package fixer rewrites markdown links in place, file by file.
package fixer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leonardomso/postlink/internal/helpers"
	"github.com/leonardomso/postlink/internal/rewriter"
)

// Fix represents a single href replacement.
type Fix struct {
	FilePath string
	Text     string // Link text
	OldHref  string
	NewHref  string
	Line     int
}

// FileChanges groups all fixes for a single file.
type FileChanges struct {
	FilePath string
	Fixes    []Fix
}

// FixResult represents the outcome of rewriting a file.
type FixResult struct {
	Error    error
	FilePath string
	Changes  []Fix
	Applied  int
}

// Fixer plans and applies link rewrites using a Rewriter.
type Fixer struct {
	rewriter *rewriter.Rewriter
}

// New creates a new Fixer.
func New(rw *rewriter.Rewriter) *Fixer {
	return &Fixer{rewriter: rw}
}

// rewriteFile reads path and returns its rewritten content and the changes.
// The absolute path is used as file context so that results do not depend
// on the working directory.
func (f *Fixer) rewriteFile(path string) (original, rewritten string, fixes []Fix, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", nil, fmt.Errorf("reading file: %w", err)
	}

	ctx, err := filepath.Abs(path)
	if err != nil {
		ctx = path
	}

	original = string(content)
	rewritten, changes := f.rewriter.RewriteWithChanges(original, ctx)
	for _, c := range changes {
		fixes = append(fixes, Fix{
			FilePath: path,
			Text:     c.Text,
			OldHref:  c.OldHref,
			NewHref:  c.NewHref,
			Line:     c.Line,
		})
	}
	return original, rewritten, fixes, nil
}

// FindChanges computes the rewrites for each file without touching it.
// Files with nothing to rewrite are omitted; the result is sorted by path.
func (f *Fixer) FindChanges(files []string) ([]FileChanges, error) {
	var changes []FileChanges

	for _, path := range files {
		_, _, fixes, err := f.rewriteFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(fixes) == 0 {
			continue
		}
		changes = append(changes, FileChanges{FilePath: path, Fixes: fixes})
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].FilePath < changes[j].FilePath
	})
	return changes, nil
}

// TotalFixes counts the fixes across all files.
func TotalFixes(changes []FileChanges) int {
	total := 0
	for _, fc := range changes {
		total += len(fc.Fixes)
	}
	return total
}

// Preview returns a formatted string showing what changes would be made.
func (*Fixer) Preview(changes []FileChanges) string {
	if len(changes) == 0 {
		return "No links to rewrite."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %s across %s:\n\n",
		helpers.Plural(TotalFixes(changes), "link to rewrite", "links to rewrite"),
		helpers.Plural(len(changes), "file", "files"))

	for _, fc := range changes {
		fmt.Fprintf(&b, "%s (%s)\n", fc.FilePath, helpers.Plural(len(fc.Fixes), "link", "links"))
		for _, fix := range fc.Fixes {
			fmt.Fprintf(&b, "  Line %d: [%s] %s\n", fix.Line,
				helpers.TruncateText(fix.Text, 30), helpers.TruncateMiddle(fix.OldHref, 60))
			fmt.Fprintf(&b, "          -> %s\n", helpers.TruncateMiddle(fix.NewHref, 60))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// ApplyToFile rewrites one file in place. The file is read again and
// rewritten from its current content, so edits made since FindChanges are
// kept. Nothing is written when no link changes.
func (f *Fixer) ApplyToFile(fc FileChanges) (*FixResult, error) {
	result := &FixResult{FilePath: fc.FilePath}

	original, rewritten, fixes, err := f.rewriteFile(fc.FilePath)
	if err != nil {
		result.Error = err
		return result, err
	}
	if rewritten == original {
		return result, nil
	}

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(fc.FilePath); statErr == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(fc.FilePath, []byte(rewritten), mode); err != nil {
		result.Error = fmt.Errorf("writing file: %w", err)
		return result, result.Error
	}

	result.Changes = fixes
	result.Applied = len(fixes)
	return result, nil
}

// ApplyAll applies fixes to all files and returns results.
// A failure on one file does not stop the others.
func (f *Fixer) ApplyAll(changes []FileChanges) []FixResult {
	results := make([]FixResult, 0, len(changes))
	for _, fc := range changes {
		result, _ := f.ApplyToFile(fc)
		results = append(results, *result)
	}
	return results
}

// Summary returns a formatted summary of fix results.
func Summary(results []FixResult) string {
	totalApplied := 0
	filesModified := 0
	var errs []string

	for _, r := range results {
		totalApplied += r.Applied
		if r.Applied > 0 {
			filesModified++
		}
		if r.Error != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", r.FilePath, r.Error))
		}
	}

	if totalApplied == 0 && len(errs) == 0 {
		return "No changes made."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rewrote %s across %s.\n",
		helpers.Plural(totalApplied, "link", "links"),
		helpers.Plural(filesModified, "file", "files"))

	if len(errs) > 0 {
		b.WriteString("\nErrors:\n")
		for _, e := range errs {
			fmt.Fprintf(&b, "  %s\n", e)
		}
	}

	return b.String()
}

// DetailedSummary returns a summary listing every rewritten link, followed
// by any per-file errors.
func DetailedSummary(results []FixResult) string {
	totalApplied := 0
	filesModified := 0
	for _, r := range results {
		if r.Applied > 0 {
			totalApplied += r.Applied
			filesModified++
		}
	}

	hasErrors := HasErrors(results)
	if totalApplied == 0 && !hasErrors {
		return "No changes made."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rewrote %s across %s:\n\n",
		helpers.Plural(totalApplied, "link", "links"),
		helpers.Plural(filesModified, "file", "files"))

	for _, r := range results {
		for _, c := range r.Changes {
			fmt.Fprintf(&b, "  %s:%d\n", r.FilePath, c.Line)
			fmt.Fprintf(&b, "    %s\n", helpers.TruncateMiddle(c.OldHref, 70))
			fmt.Fprintf(&b, "    -> %s\n", helpers.TruncateMiddle(c.NewHref, 70))
		}
	}

	if hasErrors {
		b.WriteString("\nErrors:\n")
		for _, r := range results {
			if r.Error != nil {
				fmt.Fprintf(&b, "  %s: %v\n", r.FilePath, r.Error)
			}
		}
	}

	return b.String()
}

// HasErrors reports whether any file failed to be rewritten.
func HasErrors(results []FixResult) bool {
	for _, r := range results {
		if r.Error != nil {
			return true
		}
	}
	return false
}
