package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leonardomso/postlink/internal/checker"
	"github.com/leonardomso/postlink/internal/config"
	"github.com/leonardomso/postlink/internal/filter"
	"github.com/leonardomso/postlink/internal/parser"
	"github.com/leonardomso/postlink/internal/resolver"
	"github.com/leonardomso/postlink/internal/scanner"
)

// LoadedConfig wraps a loaded configuration and provides helper methods
// for getting effective values that respect CLI overrides.
type LoadedConfig struct {
	cfg      *config.Config
	noConfig bool
}

// LoadConfig loads the config file at path, or the nearest one above the
// working directory when path is empty. Nothing is loaded if noConfig is set.
// An explicit path that does not exist is an error.
func LoadConfig(path string, noConfig bool) (*LoadedConfig, error) {
	if noConfig {
		return &LoadedConfig{cfg: &config.Config{}, noConfig: true}, nil
	}

	var cfg *config.Config
	var err error
	if path != "" {
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, fmt.Errorf("loading config: %w", statErr)
		}
		cfg, err = config.LoadFrom(path)
	} else {
		var wd string
		if wd, err = os.Getwd(); err == nil {
			cfg, err = config.FindAndLoad(wd)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &LoadedConfig{cfg: cfg}, nil
}

// Config returns the underlying config for direct access.
func (lc *LoadedConfig) Config() *config.Config {
	return lc.cfg
}

// GetProjectRoot returns the effective project root: the CLI value, then the
// config's project_root, then the config file's directory. Empty means the
// working directory.
func (lc *LoadedConfig) GetProjectRoot(cliValue string) string {
	if cliValue != "" {
		return cliValue
	}
	if root := lc.cfg.ResolvedProjectRoot(); root != "" {
		return root
	}
	return lc.cfg.Dir()
}

// GetBlogRoot returns the effective blog root. CLI overrides config.
func (lc *LoadedConfig) GetBlogRoot(cliValue string) string {
	if cliValue != "" {
		return cliValue
	}
	return lc.cfg.BlogRoot
}

// GetURLPrefix returns the effective URL prefix. CLI overrides config.
func (lc *LoadedConfig) GetURLPrefix(cliValue string) string {
	if cliValue != "" {
		return cliValue
	}
	return lc.cfg.URLPrefix
}

// GetTypes returns the effective file types. CLI types override config;
// with neither, the scanner defaults apply.
func (lc *LoadedConfig) GetTypes(cliTypes []string) []string {
	if len(cliTypes) > 0 {
		return cliTypes
	}
	return lc.cfg.Types
}

// GetConcurrency returns the effective concurrency.
// CLI overrides config if it differs from the default.
func (lc *LoadedConfig) GetConcurrency(cliValue, defaultValue int) int {
	if cliValue != defaultValue {
		return cliValue // CLI explicitly set
	}
	if lc.cfg.Check.Concurrency > 0 {
		return lc.cfg.Check.Concurrency
	}
	return defaultValue
}

// GetOutputFormat returns the effective output format.
// CLI overrides config if set.
func (lc *LoadedConfig) GetOutputFormat(cliValue string) string {
	if cliValue != "" {
		return cliValue
	}
	return lc.cfg.Output.Format
}

// BuildResolver creates the resolver from config and the global flags.
func (lc *LoadedConfig) BuildResolver() *resolver.Resolver {
	opts := resolver.DefaultOptions().
		WithProjectRoot(lc.GetProjectRoot(projectRoot)).
		WithBlogRoot(lc.GetBlogRoot(blogRoot)).
		WithURLPrefix(lc.GetURLPrefix(urlPrefix)).
		WithLogger(logger)
	return resolver.New(opts)
}

// BuildFilter builds the href filter from config and CLI flags.
// CLI patterns are added to the configured ones.
// Returns nil if no filter rules are defined, blank patterns included.
func (lc *LoadedConfig) BuildFilter(cliPatterns, cliRegex []string) (*filter.Filter, error) {
	patterns := append([]string{}, lc.cfg.Ignore.Patterns...)
	patterns = append(patterns, cliPatterns...)

	regex := append([]string{}, lc.cfg.Ignore.Regex...)
	regex = append(regex, cliRegex...)

	if len(patterns) == 0 && len(regex) == 0 {
		return nil, nil
	}

	f, err := filter.New(filter.Config{
		GlobPatterns:  patterns,
		RegexPatterns: regex,
	})
	if err != nil {
		return nil, err
	}
	if !f.HasRules() {
		return nil, nil
	}

	globs, regexes := f.Stats()
	logger.Debug().Int("globs", globs).Int("regexes", regexes).Msg("built href filter")
	return f, nil
}

// BuildScanOptions creates scanner.ScanOptions from config and path.
func (lc *LoadedConfig) BuildScanOptions(path string, cliTypes []string) scanner.ScanOptions {
	return scanner.ScanOptions{
		Root:    path,
		Types:   lc.GetTypes(cliTypes),
		Include: lc.cfg.Scan.Include,
		Exclude: lc.cfg.Scan.Exclude,
	}
}

// ConvertParserLinks converts parser links to checker links. File paths are
// made absolute so that they work as file context from any directory.
func ConvertParserLinks(parserLinks []parser.Link) []checker.Link {
	links := make([]checker.Link, len(parserLinks))
	for i, pl := range parserLinks {
		links[i] = checker.Link{
			Href:     pl.Href,
			FilePath: absPath(pl.FilePath),
			Text:     pl.Text,
			Line:     pl.Line,
			Column:   pl.Column,
		}
	}
	return links
}

// Hrefs returns the href of every link.
func Hrefs(links []checker.Link) []string {
	hrefs := make([]string, len(links))
	for i, l := range links {
		hrefs[i] = l.Href
	}
	return hrefs
}

// absPath returns path made absolute, or path itself if that fails.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// exitOnError prints an error message and exits if err is not nil.
func exitOnError(err error, message string) {
	if err != nil {
		if message != "" {
			fmt.Fprintf(os.Stderr, "%s: %v\n", message, err)
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}
}

// getPathArg returns the path argument, or fallback when none was given.
func getPathArg(args []string, fallback string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}
