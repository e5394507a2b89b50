package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/config"
	"github.com/leonardomso/postlink/internal/fixer"
	"github.com/leonardomso/postlink/internal/parser"
	"github.com/leonardomso/postlink/internal/resolver"
	"github.com/leonardomso/postlink/internal/rewriter"
)

// =============================================================================
// Helpers
// =============================================================================

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newBlog creates a small blog and returns its project root and a fixer.
func newBlog(t *testing.T) (string, *fixer.Fixer) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "posts/a/index.md", "See [note](note.md).\n")
	writeFile(t, root, "posts/a/other.md", "See [index](index.md).\n")
	writeFile(t, root, "posts/a/note.md", "---\nslug: my-note\n---\nNote.\n")

	r := resolver.New(resolver.DefaultOptions().WithProjectRoot(root).WithBlogRoot("posts"))
	return root, fixer.New(rewriter.New(r, nil))
}

func loadedConfig(cfg *config.Config) *LoadedConfig {
	return &LoadedConfig{cfg: cfg}
}

// =============================================================================
// LoadConfig
// =============================================================================

func TestLoadConfig_NoConfig(t *testing.T) {
	t.Parallel()

	lc, err := LoadConfig("ignored.yaml", true)
	require.NoError(t, err)
	assert.True(t, lc.noConfig)
	assert.True(t, lc.Config().IsEmpty())
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "site.yaml", "blog_root: content/posts\nurl_prefix: /blog\n")

	lc, err := LoadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, "content/posts", lc.GetBlogRoot(""))
	assert.Equal(t, "/blog", lc.GetURLPrefix(""))
	assert.Equal(t, dir, lc.GetProjectRoot(""), "config dir is the project root")
}

func TestLoadConfig_MissingExplicitPath(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), false)
	assert.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "bad.yaml", "output:\n  format: csv\n")
	_, err := LoadConfig(path, false)
	assert.Error(t, err)
}

// =============================================================================
// LoadedConfig getters
// =============================================================================

func TestLoadedConfig_Getters(t *testing.T) {
	t.Parallel()

	lc := loadedConfig(&config.Config{
		BlogRoot:    "content",
		ProjectRoot: "/srv/site",
		URLPrefix:   "/blog",
		Types:       []string{"mdx"},
		Check:       config.CheckConfig{Concurrency: 3},
		Output:      config.OutputConfig{Format: "yaml"},
	})

	assert.Equal(t, "content", lc.GetBlogRoot(""))
	assert.Equal(t, "other", lc.GetBlogRoot("other"))
	assert.Equal(t, "/srv/site", lc.GetProjectRoot(""))
	assert.Equal(t, "/tmp/x", lc.GetProjectRoot("/tmp/x"))
	assert.Equal(t, "/blog", lc.GetURLPrefix(""))
	assert.Equal(t, "/notes", lc.GetURLPrefix("/notes"))
	assert.Equal(t, []string{"mdx"}, lc.GetTypes(nil))
	assert.Equal(t, []string{"md"}, lc.GetTypes([]string{"md"}))
	assert.Equal(t, 3, lc.GetConcurrency(8, 8), "config wins over the default")
	assert.Equal(t, 2, lc.GetConcurrency(2, 8), "CLI wins over config")
	assert.Equal(t, "yaml", lc.GetOutputFormat(""))
	assert.Equal(t, "json", lc.GetOutputFormat("json"))
}

func TestLoadedConfig_Defaults(t *testing.T) {
	t.Parallel()

	lc := loadedConfig(&config.Config{})
	assert.Empty(t, lc.GetProjectRoot(""))
	assert.Empty(t, lc.GetTypes(nil))
	assert.Equal(t, 8, lc.GetConcurrency(8, 8))
	assert.Empty(t, lc.GetOutputFormat(""))
}

func TestLoadedConfig_BuildFilter(t *testing.T) {
	t.Parallel()

	t.Run("NoRules", func(t *testing.T) {
		t.Parallel()
		f, err := loadedConfig(&config.Config{}).BuildFilter(nil, nil)
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("BlankPatterns", func(t *testing.T) {
		t.Parallel()
		lc := loadedConfig(&config.Config{Ignore: config.IgnoreConfig{Patterns: []string{"  "}}})
		f, err := lc.BuildFilter([]string{""}, nil)
		require.NoError(t, err)
		assert.Nil(t, f)
	})

	t.Run("MergesConfigAndCLI", func(t *testing.T) {
		t.Parallel()
		lc := loadedConfig(&config.Config{Ignore: config.IgnoreConfig{Patterns: []string{"drafts/*"}}})
		f, err := lc.BuildFilter(nil, []string{`^\.\./private/`})
		require.NoError(t, err)
		require.NotNil(t, f)

		globs, regexes := f.Stats()
		assert.Equal(t, 1, globs)
		assert.Equal(t, 1, regexes)
		assert.True(t, f.ShouldIgnore("drafts/wip.md", "a.md", 1))
		assert.True(t, f.ShouldIgnore("../private/x.md", "a.md", 2))
		assert.False(t, f.ShouldIgnore("note.md", "a.md", 3))
	})

	t.Run("InvalidRegex", func(t *testing.T) {
		t.Parallel()
		_, err := loadedConfig(&config.Config{}).BuildFilter(nil, []string{"("})
		assert.Error(t, err)
	})
}

func TestLoadedConfig_BuildScanOptions(t *testing.T) {
	t.Parallel()

	lc := loadedConfig(&config.Config{
		Types: []string{"md"},
		Scan:  config.ScanConfig{Include: []string{"posts/**"}, Exclude: []string{"drafts/**"}},
	})

	opts := lc.BuildScanOptions("content", nil)
	assert.Equal(t, "content", opts.Root)
	assert.Equal(t, []string{"md"}, opts.Types)
	assert.Equal(t, []string{"posts/**"}, opts.Include)
	assert.Equal(t, []string{"drafts/**"}, opts.Exclude)

	assert.Equal(t, []string{"mdx"}, lc.BuildScanOptions("content", []string{"mdx"}).Types)
}

func TestLoadedConfig_BuildResolver(t *testing.T) {
	root := t.TempDir()
	lc := loadedConfig(&config.Config{ProjectRoot: root, BlogRoot: "content", URLPrefix: "/blog/"})

	r := lc.BuildResolver()
	assert.Equal(t, root, r.ProjectRoot())
	assert.Equal(t, filepath.Join(root, "content"), r.BlogDir())
}

// =============================================================================
// Link helpers
// =============================================================================

func TestConvertParserLinks(t *testing.T) {
	t.Parallel()

	abs := filepath.Join(t.TempDir(), "post.md")
	links := ConvertParserLinks([]parser.Link{
		{Href: "a.md", FilePath: abs, Text: "A", Line: 2, Column: 4},
		{Href: "b.md", FilePath: "rel/post.md", Line: 5},
	})

	require.Len(t, links, 2)
	assert.Equal(t, checker.Link{Href: "a.md", FilePath: abs, Text: "A", Line: 2, Column: 4}, links[0])
	assert.True(t, filepath.IsAbs(links[1].FilePath))
	assert.True(t, strings.HasSuffix(links[1].FilePath, filepath.Join("rel", "post.md")))

	assert.Empty(t, ConvertParserLinks(nil))
}

func TestHrefs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a.md", "b.md"}, Hrefs([]checker.Link{{Href: "a.md"}, {Href: "b.md"}}))
	assert.Empty(t, Hrefs(nil))
}

func TestGetPathArg(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "posts", getPathArg([]string{"posts"}, "fallback"))
	assert.Equal(t, "fallback", getPathArg(nil, "fallback"))
}

// =============================================================================
// rewrite command helpers
// =============================================================================

func TestRewriteToStdout(t *testing.T) {
	root, _ := newBlog(t)
	r := resolver.New(resolver.DefaultOptions().WithProjectRoot(root).WithBlogRoot("posts"))
	rw := rewriter.New(r, nil)

	t.Run("File", func(t *testing.T) {
		var out bytes.Buffer
		err := rewriteToStdout(strings.NewReader(""), &out, rw, filepath.Join(root, "posts", "a", "index.md"))
		require.NoError(t, err)
		assert.Equal(t, "See [note](/posts/a/my-note).\n", out.String())
	})

	t.Run("StdinWithContext", func(t *testing.T) {
		rewriteFile = filepath.Join(root, "posts", "a", "index.md")
		t.Cleanup(func() { rewriteFile = "" })

		var out bytes.Buffer
		require.NoError(t, rewriteToStdout(strings.NewReader("[n](note.md)"), &out, rw, "-"))
		assert.Equal(t, "[n](/posts/a/my-note)", out.String())
	})

	t.Run("Directory", func(t *testing.T) {
		var out bytes.Buffer
		err := rewriteToStdout(strings.NewReader(""), &out, rw, filepath.Join(root, "posts"))
		assert.Error(t, err)
		assert.Empty(t, out.String())
	})
}

// check and rewrite find links differently; the check help says how.
func TestCheckAndRewrite_LinkDiscovery(t *testing.T) {
	t.Parallel()

	root, _ := newBlog(t)
	r := resolver.New(resolver.DefaultOptions().WithProjectRoot(root).WithBlogRoot("posts"))
	ctx := filepath.Join(root, "posts", "a", "index.md")
	content := "[t](note.md \"Title\")\n\n```\n[c](note.md)\n```\n"

	links := parser.ExtractLinksFromContent([]byte(content), ctx)
	require.Len(t, links, 1)
	assert.Equal(t, "note.md", links[0].Href)
	assert.Equal(t, "t", links[0].Text)

	out := rewriter.New(r, nil).Rewrite(content, ctx)
	assert.Contains(t, out, "[t](note.md \"Title\")")
	assert.Contains(t, out, "[c](/posts/a/my-note)")

	assert.Contains(t, checkCmd.Long, `[x](note.md "Title")   listed here, left alone by rewrite`)
	assert.Contains(t, checkCmd.Long, "links in code blocks   rewritten by rewrite, not listed here")
	assert.Contains(t, interactiveCmd.Long, "postlink check --help")
}

func TestPromptAndApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		applied  int
		quit     bool
		contains string
	}{
		{name: "YesNo", input: "y\nn\n", applied: 1, contains: "Skipped"},
		{name: "All", input: "a\n", applied: 2},
		{name: "Quit", input: "q\n", applied: 0, quit: true, contains: "Quitting"},
		{name: "HelpThenYes", input: "?\ny\ny\n", applied: 2, contains: "Options:"},
		{name: "InvalidThenNo", input: "maybe\nn\nn\n", applied: 0, contains: "Invalid input"},
		{name: "EOF", input: "y\n", applied: 1, quit: true, contains: "No more input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root, f := newBlog(t)
			changes, err := f.FindChanges([]string{
				filepath.Join(root, "posts", "a", "index.md"),
				filepath.Join(root, "posts", "a", "other.md"),
			})
			require.NoError(t, err)
			require.Len(t, changes, 2)

			var out bytes.Buffer
			results, quit := promptAndApply(strings.NewReader(tt.input), &out, f, changes)

			applied := 0
			for _, r := range results {
				applied += r.Applied
			}
			assert.Equal(t, tt.applied, applied)
			assert.Equal(t, tt.quit, quit)
			if tt.contains != "" {
				assert.Contains(t, out.String(), tt.contains)
			}
		})
	}
}

// =============================================================================
// check command helpers
// =============================================================================

func TestFilterResults(t *testing.T) {
	results := []checker.Result{
		{Resolution: resolver.Resolution{Href: "a.md", Status: resolver.StatusRewritten}},
		{Resolution: resolver.Resolution{Href: "b.md", Status: resolver.StatusUnresolved}},
		{Resolution: resolver.Resolution{Href: "https://x.dev", Status: resolver.StatusPassThrough}},
		{Link: checker.Link{Href: "c.md"}, Ignored: true},
	}

	got := filterResults(results)
	require.Len(t, got, 1)
	assert.Equal(t, "b.md", got[0].Resolution.Href)

	showAll = true
	t.Cleanup(func() { showAll = false })
	assert.Len(t, filterResults(results), 2)
}

func TestGetIgnoredCount(t *testing.T) {
	t.Parallel()

	assert.Zero(t, getIgnoredCount(nil))

	f, err := loadedConfig(&config.Config{}).BuildFilter([]string{"x*"}, nil)
	require.NoError(t, err)
	f.ShouldIgnore("x.md", "a.md", 1)
	assert.Equal(t, 1, getIgnoredCount(f))
}

func TestPrintResolution(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printResolution(&out, resolver.Resolution{
		Href:     "note.md",
		URL:      "/posts/a/my-note",
		Slug:     "my-note",
		Strategy: resolver.StrategyDirect,
		Status:   resolver.StatusRewritten,
	})

	s := out.String()
	assert.True(t, strings.HasPrefix(s, "note.md\n"))
	assert.Contains(t, s, "URL:      /posts/a/my-note")
	assert.Contains(t, s, "Slug:     my-note")
	assert.NotContains(t, s, "Target:")
	assert.NotContains(t, s, "Reason:")
}
