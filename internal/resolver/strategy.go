package resolver

import (
	"os"
	"path/filepath"
)

// Strategy locates the markdown file a candidate path refers to.
// Strategies are tried in order; the first one that finds a file wins.
type Strategy interface {
	// Name identifies the strategy in logs and reports.
	Name() string

	// Locate returns the path of an existing file for the candidate,
	// or false if this strategy cannot find one.
	Locate(candidate string) (string, bool)
}

// Strategy names reported in Resolution.Strategy.
const (
	StrategyDirect   = "direct"
	StrategyBlogRoot = "blog-root"
)

// DirectStrategy accepts the candidate itself when it exists on disk.
type DirectStrategy struct{}

// Name implements Strategy.
func (DirectStrategy) Name() string { return StrategyDirect }

// Locate implements Strategy.
func (DirectStrategy) Locate(candidate string) (string, bool) {
	if exists(candidate) {
		return candidate, true
	}
	return "", false
}

// BlogRootStrategy re-roots the candidate under the blog-content directory.
// The candidate is first made relative to the project root, so a link such as
// "guides/setup.md" written from the project root finds
// "<blog>/guides/setup.md".
type BlogRootStrategy struct {
	ProjectRoot string
	BlogDir     string
}

// Name implements Strategy.
func (BlogRootStrategy) Name() string { return StrategyBlogRoot }

// Locate implements Strategy.
func (s BlogRootStrategy) Locate(candidate string) (string, bool) {
	rel, err := filepath.Rel(s.ProjectRoot, candidate)
	if err != nil {
		return "", false
	}

	fallback := ToSlash(filepath.Join(s.BlogDir, rel))
	if exists(fallback) {
		return fallback, true
	}
	return "", false
}

// exists reports whether anything is present at path.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
