// Package index builds a listing of every post with its canonical URL.
package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/adrg/frontmatter"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/leonardomso/postlink/internal/resolver"
)

// Entry describes one post.
type Entry struct {
	Path  string   `json:"path" yaml:"path"` // Relative to the blog root, slash separated
	URL   string   `json:"url" yaml:"url"`
	Title string   `json:"title,omitempty" yaml:"title,omitempty"`
	Slug  string   `json:"slug,omitempty" yaml:"slug,omitempty"`
	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Draft bool     `json:"draft,omitempty" yaml:"draft,omitempty"`
}

// postMeta is the subset of frontmatter the index reads. YAML and TOML
// frontmatter are both accepted.
type postMeta struct {
	Title string  `yaml:"title" toml:"title"`
	Tags  tagList `yaml:"tags" toml:"tags"`
	Draft bool    `yaml:"draft" toml:"draft"`
}

// tagList accepts a list of tags or a single scalar tag.
type tagList []string

// UnmarshalYAML implements the yaml Unmarshaler used by the frontmatter parser.
func (t *tagList) UnmarshalYAML(unmarshal func(any) error) error {
	var list []string
	if err := unmarshal(&list); err == nil {
		*t = list
		return nil
	}
	var one string
	if err := unmarshal(&one); err != nil {
		return err
	}
	*t = tagList{one}
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (t *tagList) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		*t = tagList{v}
	case []any:
		list := make(tagList, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("tags: expected strings, got %T", item)
			}
			list = append(list, s)
		}
		*t = list
	default:
		return fmt.Errorf("tags: expected a string or a list, got %T", data)
	}
	return nil
}

// URLResolver computes canonical post URLs.
type URLResolver interface {
	BlogDir() string
	PostURL(path string) (postURL, slug string, err error)
}

var _ URLResolver = (*resolver.Resolver)(nil)

// Options controls which posts are indexed.
type Options struct {
	IncludeDrafts bool

	// Logger receives a warning for each post whose frontmatter cannot be
	// parsed. Nil disables logging.
	Logger *zerolog.Logger
}

// Build reads every file and returns its entry, sorted by URL then path.
// Drafts are left out unless opts.IncludeDrafts is set. A post with
// malformed frontmatter is still indexed, with its URL and no metadata.
func Build(files []string, r URLResolver, opts Options) ([]Entry, error) {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	entries := make([]Entry, 0, len(files))

	for _, path := range files {
		entry, err := buildEntry(path, r, log)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if entry.Draft && !opts.IncludeDrafts {
			continue
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].URL != entries[j].URL {
			return entries[i].URL < entries[j].URL
		}
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

func buildEntry(path string, r URLResolver, log zerolog.Logger) (Entry, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}

	var meta postMeta
	if _, err := frontmatter.Parse(bytes.NewReader(source), &meta); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("ignoring malformed frontmatter")
		meta = postMeta{}
	}

	// The slug comes from the resolver so that it always agrees with the URL.
	url, slug, err := r.PostURL(path)
	if err != nil {
		return Entry{}, err
	}

	rel := path
	if abs, err := filepath.Abs(path); err == nil {
		if p, err := filepath.Rel(r.BlogDir(), abs); err == nil {
			rel = p
		}
	}

	return Entry{
		Path:  resolver.ToSlash(rel),
		URL:   url,
		Title: meta.Title,
		Slug:  slug,
		Tags:  []string(meta.Tags),
		Draft: meta.Draft,
	}, nil
}

// Write encodes entries as "json" or "yaml".
func Write(w io.Writer, entries []Entry, format string) error {
	if entries == nil {
		entries = []Entry{}
	}

	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported index format: %s (use json or yaml)", format)
	}
}

// ByURL maps each URL to its entry. When two posts share a URL the first
// one in entries wins and the rest are returned as collisions.
func ByURL(entries []Entry) (byURL map[string]Entry, collisions []Entry) {
	byURL = make(map[string]Entry, len(entries))
	for _, e := range entries {
		if _, ok := byURL[e.URL]; ok {
			collisions = append(collisions, e)
			continue
		}
		byURL[e.URL] = e
	}
	return byURL, collisions
}
