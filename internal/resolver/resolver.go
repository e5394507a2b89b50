// Package resolver turns relative links between markdown source files into
// canonical post URLs.
//
// A Resolver is immutable after construction and safe for concurrent use.
// Resolution never fails: any href that cannot be rewritten is returned
// unchanged, and the reason is available through Resolve.
package resolver

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/leonardomso/postlink/internal/frontmatter"
)

// Default values for resolver options.
const (
	// DefaultBlogRoot is the blog-content directory, relative to the project root.
	DefaultBlogRoot = "src/data/blog"

	// DefaultURLPrefix is prepended to every rewritten link.
	DefaultURLPrefix = "/posts"
)

var (
	// httpRegex matches absolute http(s) URLs with any protocol casing.
	httpRegex = regexp.MustCompile(`(?i)^https?://`)

	// markdownRegex matches hrefs ending in .md or .mdx.
	markdownRegex = regexp.MustCompile(`(?i)\.(md|mdx)$`)
)

// Options configures a Resolver.
type Options struct {
	// Logger receives one debug event per resolved href. Nil disables logging.
	Logger *zerolog.Logger

	// ProjectRoot is the base for hrefs without a file context and for
	// relative file contexts. Empty means the working directory.
	ProjectRoot string

	// BlogRoot is the blog-content directory, absolute or relative to ProjectRoot.
	BlogRoot string

	// URLPrefix is the path every rewritten URL starts with.
	URLPrefix string

	// Strategies are tried after the built-in direct and blog-root strategies.
	Strategies []Strategy
}

// DefaultOptions returns options for the conventional blog layout.
func DefaultOptions() Options {
	return Options{
		BlogRoot:  DefaultBlogRoot,
		URLPrefix: DefaultURLPrefix,
	}
}

// WithProjectRoot sets the project root.
func (o Options) WithProjectRoot(dir string) Options {
	if dir != "" {
		o.ProjectRoot = dir
	}
	return o
}

// WithBlogRoot sets the blog-content directory.
func (o Options) WithBlogRoot(dir string) Options {
	if dir != "" {
		o.BlogRoot = dir
	}
	return o
}

// WithURLPrefix sets the URL prefix.
func (o Options) WithURLPrefix(prefix string) Options {
	if prefix != "" {
		o.URLPrefix = prefix
	}
	return o
}

// WithLogger sets the debug logger.
func (o Options) WithLogger(l zerolog.Logger) Options {
	o.Logger = &l
	return o
}

// WithStrategies appends fallback strategies.
func (o Options) WithStrategies(s ...Strategy) Options {
	o.Strategies = append(append([]Strategy(nil), o.Strategies...), s...)
	return o
}

// Resolver resolves markdown hrefs to post URLs.
type Resolver struct {
	log         zerolog.Logger
	projectRoot string
	blogDir     string
	prefix      string
	strategies  []Strategy
}

// New creates a Resolver. Relative roots are made absolute against the
// working directory once, here, so later calls do not depend on it.
func New(opts Options) *Resolver {
	projectRoot := opts.ProjectRoot
	if projectRoot == "" {
		projectRoot = "."
	}
	if abs, err := filepath.Abs(projectRoot); err == nil {
		projectRoot = abs
	}

	blogRoot := opts.BlogRoot
	if blogRoot == "" {
		blogRoot = DefaultBlogRoot
	}
	blogDir := ResolvePath(blogRoot, projectRoot)

	prefix := strings.TrimRight(opts.URLPrefix, "/")
	if opts.URLPrefix == "" {
		prefix = DefaultURLPrefix
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	strategies := make([]Strategy, 0, 2+len(opts.Strategies))
	strategies = append(strategies,
		DirectStrategy{},
		BlogRootStrategy{ProjectRoot: projectRoot, BlogDir: blogDir},
	)
	strategies = append(strategies, opts.Strategies...)

	return &Resolver{
		log:         log,
		projectRoot: projectRoot,
		blogDir:     blogDir,
		prefix:      prefix,
		strategies:  strategies,
	}
}

// ProjectRoot returns the absolute project root.
func (r *Resolver) ProjectRoot() string {
	return r.projectRoot
}

// BlogDir returns the absolute blog-content directory.
func (r *Resolver) BlogDir() string {
	return r.blogDir
}

// ResolveLink returns the published URL for href, or href itself when it
// does not qualify for rewriting or cannot be resolved.
// fileContext is the path of the file containing the link; empty means the
// href is relative to the project root.
func (r *Resolver) ResolveLink(href, fileContext string) string {
	return r.Resolve(href, fileContext).URL
}

// Resolve is ResolveLink with the full decision record.
func (r *Resolver) Resolve(href, fileContext string) (res Resolution) {
	res = Resolution{Href: href, URL: href, Status: StatusPassThrough}

	switch {
	case httpRegex.MatchString(href):
		res.Reason = ReasonExternal
		return res
	case strings.HasPrefix(href, "#"):
		res.Reason = ReasonAnchor
		return res
	case strings.HasPrefix(href, "mailto:"), strings.HasPrefix(href, "tel:"):
		res.Reason = ReasonScheme
		return res
	case !markdownRegex.MatchString(href):
		res.Reason = ReasonNotMarkdown
		return res
	}

	// Strategies may come from callers; a panic in one must still leave
	// the link as written.
	defer func() {
		if p := recover(); p != nil {
			res = Resolution{
				Href:   href,
				URL:    href,
				Status: StatusInvalid,
				Reason: fmt.Sprint(p),
			}
		}
		r.log.Debug().
			Str("href", href).
			Str("file", fileContext).
			Str("status", res.Status.String()).
			Str("url", res.URL).
			Str("strategy", res.Strategy).
			Msg("resolved link")
	}()

	decoded, err := url.PathUnescape(href)
	if err != nil {
		res.Status = StatusInvalid
		res.Reason = err.Error()
		return res
	}

	baseDir := r.projectRoot
	if fileContext != "" {
		baseDir = filepath.Dir(fileContext)
	}

	candidate := ResolvePath(decoded, baseDir)
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(r.projectRoot, candidate)
	}
	candidate = ToSlash(candidate)

	target, strategy, ok := r.locate(candidate)
	if !ok {
		res.Status = StatusUnresolved
		res.Reason = "no such file: " + candidate
		return res
	}

	postURL, slug, err := r.postURL(target)
	if err != nil {
		res.Status = StatusInvalid
		res.Reason = err.Error()
		return res
	}

	res.URL = postURL
	res.Status = StatusRewritten
	res.Target = target
	res.Slug = slug
	res.Strategy = strategy
	return res
}

// locate runs the strategies in order and returns the first hit.
func (r *Resolver) locate(candidate string) (target, strategy string, ok bool) {
	for _, s := range r.strategies {
		if found, hit := s.Locate(candidate); hit {
			return found, s.Name(), true
		}
	}
	return "", "", false
}

// PostURL returns the canonical URL of the markdown file at path and its
// frontmatter slug, if any. The file must exist.
func (r *Resolver) PostURL(path string) (postURL, slug string, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	return r.postURL(ToSlash(abs))
}

// postURL builds the canonical URL for an existing markdown file.
func (r *Resolver) postURL(target string) (postURL, slug string, err error) {
	slug, hasSlug := frontmatter.ReadSlug(target)

	rel, err := filepath.Rel(r.blogDir, target)
	if err != nil {
		return "", "", fmt.Errorf("relative to blog root: %w", err)
	}

	if hasSlug {
		if strings.Contains(slug, "/") {
			return r.prefix + "/" + slug, slug, nil
		}

		dir := urlSegment(filepath.Dir(rel))
		// A post at the blog root gives prefix/slug, with no "./" segment.
		if dir == "." {
			return r.prefix + "/" + slug, slug, nil
		}
		return r.prefix + "/" + dir + "/" + slug, slug, nil
	}

	rel = strings.TrimSuffix(rel, filepath.Ext(target))
	return r.prefix + "/" + urlSegment(rel), "", nil
}

// String describes the resolver configuration.
func (r *Resolver) String() string {
	return fmt.Sprintf("resolver(project=%s, blog=%s, prefix=%s)", r.projectRoot, r.blogDir, r.prefix)
}
