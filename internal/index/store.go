package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Link is a rewritten link from one post to another.
type Link struct {
	Source string // Path of the file containing the link
	Href   string // The href as written
	URL    string // The URL it resolves to
	Line   int
}

// Store is a SQLite snapshot of the index and its link graph.
type Store struct {
	db *sql.DB
}

func openDB(path string) (*sql.DB, error) {
	return sql.Open("sqlite", fmt.Sprintf("file:%s", path))
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			id    INTEGER PRIMARY KEY,
			path  TEXT NOT NULL UNIQUE,
			url   TEXT NOT NULL,
			title TEXT,
			slug  TEXT,
			draft INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_posts_url ON posts(url);`,
		`CREATE TABLE IF NOT EXISTS links (
			id     INTEGER PRIMARY KEY,
			source TEXT NOT NULL,
			href   TEXT NOT NULL,
			url    TEXT NOT NULL,
			line   INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_links_url ON links(url);`,
		`CREATE INDEX IF NOT EXISTS idx_links_source ON links(source);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save writes entries and links to a new database at path, replacing any
// existing file only once the write has succeeded. Missing parent
// directories are created.
func Save(path string, entries []Entry, links []Link) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)
	defer os.Remove(tmpPath)

	db, err := openDB(tmpPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()

	if err := initSchema(db); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := insertAll(tx, entries, links); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	if err := db.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

func insertAll(tx *sql.Tx, entries []Entry, links []Link) error {
	for _, e := range entries {
		if _, err := tx.Exec(
			`INSERT INTO posts (path, url, title, slug, draft) VALUES (?, ?, ?, ?, ?)`,
			e.Path, e.URL, e.Title, e.Slug, e.Draft,
		); err != nil {
			return fmt.Errorf("inserting post %s: %w", e.Path, err)
		}
	}
	for _, l := range links {
		if _, err := tx.Exec(
			`INSERT INTO links (source, href, url, line) VALUES (?, ?, ?, ?)`,
			l.Source, l.Href, l.URL, l.Line,
		); err != nil {
			return fmt.Errorf("inserting link %s: %w", l.Href, err)
		}
	}
	return nil
}

// Open opens a database written by Save.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Posts returns every stored entry ordered by URL then path.
func (s *Store) Posts() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT path, url, title, slug, draft FROM posts ORDER BY url, path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var title, slug sql.NullString
		if err := rows.Scan(&e.Path, &e.URL, &title, &slug, &e.Draft); err != nil {
			return nil, err
		}
		e.Title = title.String
		e.Slug = slug.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Backlinks returns the links pointing at url, ordered by source and line.
func (s *Store) Backlinks(url string) ([]Link, error) {
	rows, err := s.db.Query(
		`SELECT source, href, url, line FROM links WHERE url = ? ORDER BY source, line`, url)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var l Link
		var line sql.NullInt64
		if err := rows.Scan(&l.Source, &l.Href, &l.URL, &line); err != nil {
			return nil, err
		}
		l.Line = int(line.Int64)
		links = append(links, l)
	}
	return links, rows.Err()
}

// Orphans returns the posts that no stored link points at.
func (s *Store) Orphans() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT path, url FROM posts
		 WHERE url NOT IN (SELECT DISTINCT url FROM links)
		 ORDER BY url, path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.URL); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
