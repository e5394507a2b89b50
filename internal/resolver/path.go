package resolver

import (
	"path/filepath"
	"regexp"
	"strings"
)

// whitespaceRegex matches a single whitespace character.
// Each one becomes a hyphen in derived URL segments.
var whitespaceRegex = regexp.MustCompile(`\s`)

// ResolvePath turns a reference into an absolute-style filesystem path.
// An absolute ref is returned unchanged; otherwise ref is joined onto baseDir
// and cleaned. It never touches the filesystem.
func ResolvePath(ref, baseDir string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(baseDir, ref)
}

// ToSlash rewrites every backslash to a forward slash, whatever the host OS.
// filepath.ToSlash only converts the host separator, which leaves
// Windows-authored paths untouched on Unix.
func ToSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// urlSegment normalizes a relative filesystem path for use in a URL:
// forward slashes, whitespace replaced by hyphens, lower case.
func urlSegment(rel string) string {
	rel = ToSlash(rel)
	rel = whitespaceRegex.ReplaceAllString(rel, "-")
	return strings.ToLower(rel)
}
