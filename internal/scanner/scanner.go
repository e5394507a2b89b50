// Package scanner finds blog posts in a directory tree.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultTypes are the post types scanned when none are given.
var DefaultTypes = []string{"md", "mdx"}

// typeExtensions maps a type name to the extensions it covers.
var typeExtensions = map[string][]string{
	"md":       {".md", ".markdown"},
	"mdx":      {".mdx"},
	"markdown": {".markdown"},
}

// FindFiles walks a directory and returns all files matching the given extensions.
// Extensions include the leading dot and match case-insensitively.
// Hidden directories (.git, .astro) and node_modules are skipped.
// If root is a file it is returned as is, whatever its extension.
func FindFiles(root string, extensions []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	if len(extensions) == 0 {
		return nil, nil
	}

	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}

		if exts[strings.ToLower(filepath.Ext(d.Name()))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// ExtensionsForTypes converts type names (md, mdx, markdown) to extensions.
// Unknown names are taken as a bare extension.
func ExtensionsForTypes(types []string) []string {
	seen := make(map[string]bool)
	var extensions []string
	for _, t := range types {
		t = strings.ToLower(strings.TrimPrefix(t, "."))
		exts, ok := typeExtensions[t]
		if !ok {
			exts = []string{"." + t}
		}
		for _, ext := range exts {
			if !seen[ext] {
				seen[ext] = true
				extensions = append(extensions, ext)
			}
		}
	}
	return extensions
}

// FindFilesByTypes walks a directory and returns all files matching the given
// type names. Type names are without the leading dot.
func FindFilesByTypes(root string, types []string) ([]string, error) {
	if len(types) == 0 {
		types = DefaultTypes
	}
	return FindFiles(root, ExtensionsForTypes(types))
}

// ScanOptions holds options for scanning files with filtering.
type ScanOptions struct {
	// Root is the directory to scan.
	Root string

	// Types are the post types to include. Empty means DefaultTypes.
	Types []string

	// Include patterns (glob, relative to Root). If set, only matching files are kept.
	Include []string

	// Exclude patterns (glob, relative to Root). Matching files are dropped.
	Exclude []string
}

// FindFilesWithOptions scans for files with include/exclude filtering.
func FindFilesWithOptions(opts ScanOptions) ([]string, error) {
	include, err := compileGlobs(opts.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(opts.Exclude)
	if err != nil {
		return nil, err
	}

	files, err := FindFilesByTypes(opts.Root, opts.Types)
	if err != nil {
		return nil, err
	}

	if len(include) == 0 && len(exclude) == 0 {
		return files, nil
	}

	kept := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(opts.Root, f)
		if err != nil || rel == "." {
			rel = filepath.Base(f)
		}
		rel = filepath.ToSlash(rel)

		if len(include) > 0 && !matchesAny(rel, include) {
			continue
		}
		if matchesAny(rel, exclude) {
			continue
		}
		kept = append(kept, f)
	}

	return kept, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func matchesAny(path string, patterns []glob.Glob) bool {
	for _, g := range patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}
