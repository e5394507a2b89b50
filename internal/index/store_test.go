package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndOpen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".postlink", "index.sqlite")
	entries := []Entry{
		{Path: "a/note.md", URL: "/posts/a/my-note", Title: "A Note", Slug: "my-note"},
		{Path: "a/plain.md", URL: "/posts/a/plain"},
		{Path: "wip.md", URL: "/posts/wip", Draft: true},
	}
	links := []Link{
		{Source: "a/plain.md", Href: "note.md", URL: "/posts/a/my-note", Line: 3},
		{Source: "wip.md", Href: "a/note.md", URL: "/posts/a/my-note", Line: 1},
		{Source: "a/note.md", Href: "plain.md", URL: "/posts/a/plain", Line: 7},
	}
	require.NoError(t, Save(path, entries, links))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file removed")

	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	posts, err := store.Posts()
	require.NoError(t, err)
	assert.Equal(t, entries, posts)

	backlinks, err := store.Backlinks("/posts/a/my-note")
	require.NoError(t, err)
	assert.Equal(t, links[:2], backlinks)

	none, err := store.Backlinks("/posts/nowhere")
	require.NoError(t, err)
	assert.Empty(t, none)

	orphans, err := store.Orphans()
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Path: "wip.md", URL: "/posts/wip"}}, orphans)
}

func TestSave_Replaces(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "index.sqlite")
	require.NoError(t, Save(path, []Entry{{Path: "old.md", URL: "/posts/old"}}, nil))
	require.NoError(t, Save(path, []Entry{{Path: "new.md", URL: "/posts/new"}}, nil))

	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	posts, err := store.Posts()
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Path: "new.md", URL: "/posts/new"}}, posts)
}

func TestSave_DuplicatePath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "index.sqlite")
	err := Save(path, []Entry{{Path: "a.md", URL: "/posts/a"}, {Path: "a.md", URL: "/posts/b"}}, nil)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing written on failure")
}

func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "nope.sqlite"))
	assert.Error(t, err)
}
