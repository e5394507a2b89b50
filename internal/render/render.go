// Package render converts a post to HTML with its links already pointing at
// published post URLs.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"go.abhg.dev/goldmark/frontmatter"
	"go.abhg.dev/goldmark/mermaid"
)

// LinkResolver maps an href found in fileContext to its published URL.
type LinkResolver interface {
	ResolveLink(href, fileContext string) string
}

// Options configures a Renderer.
type Options struct {
	// Mermaid renders ```mermaid blocks as diagrams (client side).
	Mermaid bool

	// Unsafe passes raw HTML in the source through to the output.
	Unsafe bool
}

// Result is a rendered post.
type Result struct {
	HTML []byte
	Meta map[string]any // Frontmatter, empty if none
}

// Renderer renders markdown posts. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// fileContextKey carries the file being rendered to the link transformer.
var fileContextKey = parser.NewContextKey()

// New creates a Renderer that rewrites links with r.
func New(r LinkResolver, opts Options) *Renderer {
	extensions := []goldmark.Extender{
		extension.GFM,
		&frontmatter.Extender{Mode: frontmatter.SetMetadata},
	}
	if opts.Mermaid {
		extensions = append(extensions, &mermaid.Extender{})
	}

	var rendererOpts []goldmark.Option
	if opts.Unsafe {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	md := goldmark.New(append(rendererOpts,
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&linkTransformer{resolver: r}, 100),
			),
		),
	)...)

	return &Renderer{md: md}
}

// Render converts source to HTML. fileContext is the path of the file the
// source came from; relative links are resolved against its directory.
func (r *Renderer) Render(source []byte, fileContext string) (*Result, error) {
	pc := parser.NewContext()
	pc.Set(fileContextKey, fileContext)

	doc := r.md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))

	var meta map[string]any
	if metaDoc, ok := doc.(interface{ Meta() map[string]any }); ok {
		meta = metaDoc.Meta()
	}
	if meta == nil {
		meta = map[string]any{}
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, doc); err != nil {
		return nil, fmt.Errorf("rendering: %w", err)
	}

	return &Result{HTML: buf.Bytes(), Meta: meta}, nil
}

// RenderFile reads and renders the post at path.
func (r *Renderer) RenderFile(path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ctx, err := filepath.Abs(path)
	if err != nil {
		ctx = path
	}
	return r.Render(source, ctx)
}

// linkTransformer rewrites the destination of every link node.
type linkTransformer struct {
	resolver LinkResolver
}

// Transform implements parser.ASTTransformer.
func (t *linkTransformer) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	fileContext, _ := pc.Get(fileContextKey).(string)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if link, ok := n.(*ast.Link); ok {
			dest := string(link.Destination)
			if resolved := t.resolver.ResolveLink(dest, fileContext); resolved != dest {
				link.Destination = []byte(resolved)
			}
		}
		return ast.WalkContinue, nil
	})
}
