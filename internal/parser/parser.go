// Package parser extracts link destinations from markdown files.
// It walks the goldmark AST, so links inside code blocks and code spans are
// not reported, and frontmatter is skipped.
package parser

import (
	"bytes"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

// LinkType identifies the markdown construct a link came from.
type LinkType int

const (
	// LinkTypeInline is [text](href) or a resolved reference link [text][ref].
	LinkTypeInline LinkType = iota
	// LinkTypeImage is ![alt](src).
	LinkTypeImage
)

// String returns the name of the link type.
func (t LinkType) String() string {
	switch t {
	case LinkTypeInline:
		return "inline"
	case LinkTypeImage:
		return "image"
	default:
		return "unknown"
	}
}

// Link is a link destination found in a file.
type Link struct {
	Href     string   // Destination as written
	FilePath string   // Which file it was found in
	Text     string   // Link text or image alt text
	Line     int      // Line number (1-indexed)
	Column   int      // Column number (1-indexed)
	Type     LinkType // Construct the link came from
}

// markdown is shared by all extractions; goldmark parsers are safe for
// concurrent use once built.
var markdown = goldmark.New(
	goldmark.WithExtensions(&frontmatter.Extender{}),
)

// ExtractLinks reads a file and returns all link destinations in it.
func ExtractLinks(filePath string) ([]Link, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ExtractLinksFromContent(content, filePath), nil
}

// ExtractLinksFromMultipleFiles processes multiple files and returns all links.
// It fails fast on the first unreadable file.
func ExtractLinksFromMultipleFiles(filePaths []string) ([]Link, error) {
	var allLinks []Link

	for _, path := range filePaths {
		links, err := ExtractLinks(path)
		if err != nil {
			return nil, err
		}
		allLinks = append(allLinks, links...)
	}

	return allLinks, nil
}

// ExtractLinksFromContent parses markdown content and returns its links in
// document order.
func ExtractLinksFromContent(content []byte, filePath string) []Link {
	doc := markdown.Parser().Parse(text.NewReader(content))

	e := &linkExtractor{
		links:    make([]Link, 0, 16),
		source:   content,
		filePath: filePath,
		lines:    BuildLineIndex(content),
	}
	_ = ast.Walk(doc, e.walk)

	return e.links
}

// linkExtractor walks the AST and collects links.
type linkExtractor struct {
	filePath string
	links    []Link
	source   []byte
	lines    []int // byte offset for start of each line
}

// walk is the AST walker function.
func (e *linkExtractor) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	switch node := n.(type) {
	case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.CodeSpan:
		return ast.WalkSkipChildren, nil
	case *ast.Link:
		e.add(node, string(node.Destination), LinkTypeInline)
	case *ast.Image:
		e.add(node, string(node.Destination), LinkTypeImage)
	}

	return ast.WalkContinue, nil
}

// add records a link node unless its destination is empty.
func (e *linkExtractor) add(n ast.Node, dest string, typ LinkType) {
	if dest == "" {
		return
	}

	line, col := e.position(n)
	if _, ok := n.FirstChild().(*ast.Text); ok {
		// Point at the opening "[" or "![" rather than the text.
		opener := 1
		if typ == LinkTypeImage {
			opener = 2
		}
		col = max(1, col-opener)
	}

	e.links = append(e.links, Link{
		Href:     dest,
		FilePath: e.filePath,
		Text:     e.nodeText(n),
		Line:     line,
		Column:   col,
		Type:     typ,
	})
}

// nodeText extracts the text content from a node's children.
func (e *linkExtractor) nodeText(n ast.Node) string {
	var buf bytes.Buffer

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			buf.Write(textNode.Segment.Value(e.source))
		} else if child.HasChildren() {
			buf.WriteString(e.nodeText(child))
		}
	}

	return buf.String()
}

// position returns the line and column of an inline node, taken from its
// first text descendant. Nodes without text default to 1,1.
func (e *linkExtractor) position(n ast.Node) (line, col int) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			return OffsetToLineCol(e.lines, textNode.Segment.Start)
		}
		if child.HasChildren() {
			if l, c := e.position(child); l > 0 {
				return l, c
			}
		}
	}
	return 1, 1
}

// BuildLineIndex returns the byte offset at which each line starts.
func BuildLineIndex(content []byte) []int {
	lines := make([]int, 1, bytes.Count(content, []byte{'\n'})+1)
	for i, c := range content {
		if c == '\n' {
			lines = append(lines, i+1)
		}
	}
	return lines
}

// OffsetToLineCol converts a byte offset to 1-indexed line and column numbers
// using a line index from BuildLineIndex.
func OffsetToLineCol(lines []int, offset int) (line, col int) {
	lo, hi := 0, len(lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - lines[lo] + 1
}
