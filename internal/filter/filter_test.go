package filter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("EmptyConfig", func(t *testing.T) {
		t.Parallel()
		f, err := New(Config{})
		require.NoError(t, err)
		assert.False(t, f.HasRules())
	})

	t.Run("SkipsBlankPatterns", func(t *testing.T) {
		t.Parallel()
		f, err := New(Config{GlobPatterns: []string{"  ", ""}, RegexPatterns: []string{" "}})
		require.NoError(t, err)
		assert.False(t, f.HasRules())
	})

	t.Run("InvalidGlob", func(t *testing.T) {
		t.Parallel()
		f, err := New(Config{GlobPatterns: []string{"[unclosed"}})
		assert.Error(t, err)
		assert.Nil(t, f)
	})

	t.Run("InvalidRegex", func(t *testing.T) {
		t.Parallel()
		f, err := New(Config{RegexPatterns: []string{"(unclosed"}})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid regex pattern")
		assert.Nil(t, f)
	})

	t.Run("Stats", func(t *testing.T) {
		t.Parallel()
		f, err := New(Config{
			GlobPatterns:  []string{"drafts/*.md", "*.mdx"},
			RegexPatterns: []string{`^\.\./private/`},
		})
		require.NoError(t, err)
		globs, regexes := f.Stats()
		assert.Equal(t, 2, globs)
		assert.Equal(t, 1, regexes)
		assert.True(t, f.HasRules())
	})
}

func TestFilter_Match(t *testing.T) {
	t.Parallel()

	f, err := New(Config{
		GlobPatterns:  []string{"drafts/*.md"},
		RegexPatterns: []string{`^\.\./private/`},
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		href     string
		wantType string
		wantOK   bool
	}{
		{name: "GlobMatch", href: "drafts/wip.md", wantType: "pattern", wantOK: true},
		{name: "GlobDoesNotCrossSeparator", href: "drafts/deep/wip.md"},
		{name: "RegexMatch", href: "../private/notes.md", wantType: "regex", wantOK: true},
		{name: "NoMatch", href: "posts/hello.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ruleType, _, ok := f.Match(tt.href)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantType, ruleType)
		})
	}
}

func TestFilter_ShouldIgnore(t *testing.T) {
	t.Parallel()

	f, err := New(Config{GlobPatterns: []string{"drafts/*"}})
	require.NoError(t, err)

	assert.True(t, f.ShouldIgnore("drafts/a.md", "index.md", 3))
	assert.False(t, f.ShouldIgnore("posts/a.md", "index.md", 4))

	require.Equal(t, 1, f.IgnoredCount())
	ignored := f.IgnoredHrefs()
	assert.Equal(t, IgnoreReason{
		Type: "pattern",
		Rule: "drafts/*",
		Href: "drafts/a.md",
		File: "index.md",
		Line: 3,
	}, ignored[0])
}

func TestFilter_Nil(t *testing.T) {
	t.Parallel()

	var f *Filter
	assert.False(t, f.ShouldIgnore("anything.md", "", 0))
	assert.False(t, f.HasRules())
	assert.Zero(t, f.IgnoredCount())
	assert.Nil(t, f.IgnoredHrefs())
	globs, regexes := f.Stats()
	assert.Zero(t, globs)
	assert.Zero(t, regexes)
}

func TestFilter_ConcurrentRecording(t *testing.T) {
	t.Parallel()

	f, err := New(Config{GlobPatterns: []string{"*.md"}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.ShouldIgnore("a.md", "x.md", 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, f.IgnoredCount())
}
