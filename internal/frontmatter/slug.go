// Package frontmatter reads the slug field from a markdown file's frontmatter block.
//
// Only a leading block delimited by "---" lines is recognized, and only the
// "slug" key is consulted. Anything unexpected is reported as "no slug",
// never as an error.
package frontmatter

import (
	"os"
	"regexp"
	"strings"
)

// blockRegex captures the body of a frontmatter block at the very start of the content.
//   - \A---\s*\n   - opening delimiter, trailing whitespace tolerated
//   - ([\s\S]*?)   - shortest body
//   - \n---        - closing delimiter
var blockRegex = regexp.MustCompile(`\A---\s*\n([\s\S]*?)\n---`)

// slugRegex matches a "slug:" line inside the captured block.
// The optional \r keeps CRLF files working since $ only stops at \n.
var slugRegex = regexp.MustCompile(`(?m)^slug:[ \t]*([^\r\n]*)\r?$`)

// SlugFromContent returns the slug declared in the content's frontmatter.
// The second return value is false when there is no frontmatter block,
// no slug line, or the slug is empty.
func SlugFromContent(content []byte) (string, bool) {
	block := blockRegex.FindSubmatch(content)
	if block == nil {
		return "", false
	}

	match := slugRegex.FindSubmatch(block[1])
	if match == nil {
		return "", false
	}

	slug := strings.TrimSpace(string(match[1]))
	if slug == "" {
		return "", false
	}
	return slug, true
}

// ReadSlug reads filePath and returns its frontmatter slug.
// Read failures are treated the same as a missing slug.
func ReadSlug(filePath string) (string, bool) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", false
	}
	return SlugFromContent(content)
}
