package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinksFromContent(t *testing.T) {
	t.Parallel()

	t.Run("InlineLinks", func(t *testing.T) {
		t.Parallel()
		content := []byte("# Title\n\nSee [first](a.md) and [second](../b/index.md).\n")
		links := ExtractLinksFromContent(content, "post.md")

		require.Len(t, links, 2)
		assert.Equal(t, Link{
			Href:     "a.md",
			FilePath: "post.md",
			Text:     "first",
			Line:     3,
			Column:   5,
			Type:     LinkTypeInline,
		}, links[0])
		assert.Equal(t, "../b/index.md", links[1].Href)
		assert.Equal(t, "second", links[1].Text)
	})

	t.Run("Images", func(t *testing.T) {
		t.Parallel()
		links := ExtractLinksFromContent([]byte("![a cat](cat.png)\n"), "post.md")

		require.Len(t, links, 1)
		assert.Equal(t, LinkTypeImage, links[0].Type)
		assert.Equal(t, "cat.png", links[0].Href)
		assert.Equal(t, "a cat", links[0].Text)
		assert.Equal(t, 1, links[0].Column)
	})

	t.Run("ReferenceLinks", func(t *testing.T) {
		t.Parallel()
		content := []byte("Read [the guide][g].\n\n[g]: guides/setup.md\n")
		links := ExtractLinksFromContent(content, "post.md")

		require.Len(t, links, 1)
		assert.Equal(t, "guides/setup.md", links[0].Href)
		assert.Equal(t, "the guide", links[0].Text)
	})

	t.Run("NestedText", func(t *testing.T) {
		t.Parallel()
		links := ExtractLinksFromContent([]byte("[a **bold** link](x.md)\n"), "post.md")

		require.Len(t, links, 1)
		assert.Equal(t, "a bold link", links[0].Text)
	})

	t.Run("SkipsCode", func(t *testing.T) {
		t.Parallel()
		content := []byte("```md\n[fenced](a.md)\n```\n\n    [indented](b.md)\n\nInline `[span](c.md)` and [real](d.md).\n")
		links := ExtractLinksFromContent(content, "post.md")

		require.Len(t, links, 1)
		assert.Equal(t, "d.md", links[0].Href)
	})

	t.Run("SkipsFrontmatter", func(t *testing.T) {
		t.Parallel()
		content := []byte("---\nslug: hello\n---\n\n[x](a.md)\n")
		links := ExtractLinksFromContent(content, "post.md")

		require.Len(t, links, 1)
		assert.Equal(t, 5, links[0].Line)
	})

	t.Run("NoLinks", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, ExtractLinksFromContent([]byte("plain text\n"), "post.md"))
	})
}

func TestExtractLinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(a, []byte("[1](one.md)\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("[2](two.md) [3](three.md)\n"), 0o644))

	t.Run("SingleFile", func(t *testing.T) {
		t.Parallel()
		links, err := ExtractLinks(a)
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, a, links[0].FilePath)
	})

	t.Run("MultipleFiles", func(t *testing.T) {
		t.Parallel()
		links, err := ExtractLinksFromMultipleFiles([]string{a, b})
		require.NoError(t, err)
		require.Len(t, links, 3)
		assert.Equal(t, "three.md", links[2].Href)
		assert.Equal(t, b, links[2].FilePath)
	})

	t.Run("MissingFile", func(t *testing.T) {
		t.Parallel()
		_, err := ExtractLinksFromMultipleFiles([]string{a, filepath.Join(dir, "nope.md")})
		assert.Error(t, err)
	})
}

func TestOffsetToLineCol(t *testing.T) {
	t.Parallel()

	lines := BuildLineIndex([]byte("ab\ncde\n\nf"))
	assert.Equal(t, []int{0, 3, 7, 8}, lines)

	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{5, 2, 3},
		{7, 3, 1},
		{8, 4, 1},
	}

	for _, tt := range tests {
		line, col := OffsetToLineCol(lines, tt.offset)
		assert.Equal(t, tt.wantLine, line, "offset %d", tt.offset)
		assert.Equal(t, tt.wantCol, col, "offset %d", tt.offset)
	}
}

func TestLinkType_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "inline", LinkTypeInline.String())
	assert.Equal(t, "image", LinkTypeImage.String())
	assert.Equal(t, "unknown", LinkType(9).String())
}
