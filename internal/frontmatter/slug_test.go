package frontmatter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugFromContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		wantSlug string
		wantOK   bool
	}{
		{
			name:     "SimpleSlug",
			content:  "---\ntitle: Hello\nslug: my-note\n---\n# Body\n",
			wantSlug: "my-note",
			wantOK:   true,
		},
		{
			name:     "SlugWithPath",
			content:  "---\nslug: custom/path\n---\n",
			wantSlug: "custom/path",
			wantOK:   true,
		},
		{
			name:     "TrimsWhitespace",
			content:  "---\nslug:    spaced-out   \n---\n",
			wantSlug: "spaced-out",
			wantOK:   true,
		},
		{
			name:     "NoSpaceAfterColon",
			content:  "---\nslug:tight\n---\n",
			wantSlug: "tight",
			wantOK:   true,
		},
		{
			name:     "TrailingWhitespaceOnDelimiter",
			content:  "---   \nslug: a\n---\n",
			wantSlug: "a",
			wantOK:   true,
		},
		{
			name:     "CRLFLineEndings",
			content:  "---\r\ntitle: x\r\nslug: windows\r\n---\r\n",
			wantSlug: "windows",
			wantOK:   true,
		},
		{
			name:     "FirstSlugWins",
			content:  "---\nslug: first\nslug: second\n---\n",
			wantSlug: "first",
			wantOK:   true,
		},
		{
			name:    "NoFrontmatter",
			content: "# Title\n\nslug: not-frontmatter\n",
		},
		{
			name:    "FrontmatterNotAtStart",
			content: "\n---\nslug: late\n---\n",
		},
		{
			name:    "UnterminatedBlock",
			content: "---\nslug: open\n",
		},
		{
			name:    "NoSlugKey",
			content: "---\ntitle: Hello\n---\n",
		},
		{
			name:    "IndentedSlugIgnored",
			content: "---\n  slug: nested\n---\n",
		},
		{
			name:    "SimilarKeyIgnored",
			content: "---\nslugline: nope\n---\n",
		},
		{
			name:    "EmptySlug",
			content: "---\nslug:\n---\n",
		},
		{
			name:    "SlugOnlyInSecondBlock",
			content: "---\ntitle: a\n---\n---\nslug: b\n---\n",
		},
		{
			name:    "Empty",
			content: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			slug, ok := SlugFromContent([]byte(tt.content))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSlug, slug)
		})
	}
}

func TestReadSlug(t *testing.T) {
	t.Parallel()

	t.Run("ReadsFile", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "post.md")
		require.NoError(t, os.WriteFile(path, []byte("---\nslug: from-disk\n---\n"), 0o644))

		slug, ok := ReadSlug(path)
		assert.True(t, ok)
		assert.Equal(t, "from-disk", slug)
	})

	t.Run("MissingFile", func(t *testing.T) {
		t.Parallel()
		slug, ok := ReadSlug(filepath.Join(t.TempDir(), "nope.md"))
		assert.False(t, ok)
		assert.Empty(t, slug)
	})

	t.Run("Directory", func(t *testing.T) {
		t.Parallel()
		slug, ok := ReadSlug(t.TempDir())
		assert.False(t, ok)
		assert.Empty(t, slug)
	})
}
