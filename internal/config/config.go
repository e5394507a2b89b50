// Package config handles loading configuration from .postlinkrc.yaml or
// .postlinkrc.toml files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config file names, in lookup order.
const (
	DefaultConfigFileName = ".postlinkrc.yaml"
	TOMLConfigFileName    = ".postlinkrc.toml"
)

// configFileNames lists the names FindAndLoad looks for in each directory.
var configFileNames = []string{DefaultConfigFileName, ".postlinkrc.yml", TOMLConfigFileName}

// ValidFormats are the accepted values of output.format.
var ValidFormats = []string{"json", "yaml", "xml", "junit", "markdown"}

// Config represents the complete configuration structure.
type Config struct {
	// BlogRoot is the blog-content directory, absolute or relative to ProjectRoot.
	BlogRoot string `yaml:"blog_root" toml:"blog_root"`

	// ProjectRoot is the base for hrefs without a file context.
	// Relative values are taken relative to the config file's directory.
	ProjectRoot string `yaml:"project_root" toml:"project_root"`

	// URLPrefix is the path every rewritten URL starts with.
	URLPrefix string `yaml:"url_prefix" toml:"url_prefix"`

	// Types are the file types to scan (md, mdx, markdown).
	Types []string `yaml:"types" toml:"types"`

	Scan   ScanConfig   `yaml:"scan" toml:"scan"`
	Ignore IgnoreConfig `yaml:"ignore" toml:"ignore"`
	Check  CheckConfig  `yaml:"check" toml:"check"`
	Output OutputConfig `yaml:"output" toml:"output"`

	// path is the file the config was loaded from, empty if none.
	path string
}

// ScanConfig selects which files are processed.
type ScanConfig struct {
	// Include are glob patterns, relative to the scan root, a file must match.
	// Example: "posts/**/*.md"
	Include []string `yaml:"include" toml:"include"`

	// Exclude are glob patterns for files to skip.
	// Example: "drafts/**"
	Exclude []string `yaml:"exclude" toml:"exclude"`
}

// IgnoreConfig holds rules for hrefs that are left untouched.
type IgnoreConfig struct {
	// Patterns are glob patterns for href matching.
	// Example: "legacy/*.md"
	Patterns []string `yaml:"patterns" toml:"patterns"`

	// Regex are regular expression patterns for href matching.
	// Example: "^\\.\\./private/"
	Regex []string `yaml:"regex" toml:"regex"`
}

// CheckConfig configures the check command.
type CheckConfig struct {
	Concurrency int `yaml:"concurrency" toml:"concurrency"`
}

// OutputConfig configures report output.
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"`
}

// LoadFrom reads configuration from a specific path. The format is chosen by
// extension: .toml is TOML, anything else is YAML.
// Returns an empty config if the file doesn't exist (not an error).
// Returns an error only if the file exists but cannot be parsed.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.path = path
	return cfg, nil
}

// FindAndLoad searches for a config file starting from the given directory
// and walking up to parent directories until it finds one or reaches root.
func FindAndLoad(startDir string) (*Config, error) {
	dir := startDir

	for {
		for _, name := range configFileNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return LoadFrom(configPath)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return &Config{}, nil
		}
		dir = parent
	}
}

// Path returns the file the config was loaded from, or "" if none was found.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory of the config file, or "" if none was found.
func (c *Config) Dir() string {
	if c.path == "" {
		return ""
	}
	return filepath.Dir(c.path)
}

// ResolvedProjectRoot returns ProjectRoot made relative to the config file's
// directory. Empty when unset.
func (c *Config) ResolvedProjectRoot() string {
	if c.ProjectRoot == "" || filepath.IsAbs(c.ProjectRoot) || c.path == "" {
		return c.ProjectRoot
	}
	return filepath.Join(c.Dir(), c.ProjectRoot)
}

// IsEmpty returns true if the config sets nothing.
func (c *Config) IsEmpty() bool {
	return c.BlogRoot == "" &&
		c.ProjectRoot == "" &&
		c.URLPrefix == "" &&
		len(c.Types) == 0 &&
		len(c.Scan.Include) == 0 &&
		len(c.Scan.Exclude) == 0 &&
		len(c.Ignore.Patterns) == 0 &&
		len(c.Ignore.Regex) == 0 &&
		c.Check.Concurrency == 0 &&
		c.Output.Format == ""
}

// Validate checks patterns, types and formats. All problems are reported
// together.
func (c *Config) Validate() error {
	var errs []error

	for _, p := range append(append([]string{}, c.Scan.Include...), c.Scan.Exclude...) {
		if _, err := glob.Compile(p, '/'); err != nil {
			errs = append(errs, fmt.Errorf("scan: invalid glob %q: %w", p, err))
		}
	}
	for _, p := range c.Ignore.Patterns {
		if _, err := glob.Compile(p, '/'); err != nil {
			errs = append(errs, fmt.Errorf("ignore.patterns: invalid glob %q: %w", p, err))
		}
	}
	for _, p := range c.Ignore.Regex {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("ignore.regex: invalid regex %q: %w", p, err))
		}
	}
	for _, t := range c.Types {
		switch strings.ToLower(t) {
		case "md", "mdx", "markdown":
		default:
			errs = append(errs, fmt.Errorf("types: unsupported file type %q", t))
		}
	}
	if c.Check.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("check.concurrency: must be positive, got %d", c.Check.Concurrency))
	}
	if c.Output.Format != "" && !isValidFormat(c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format: unknown format %q (valid: %s)",
			c.Output.Format, strings.Join(ValidFormats, ", ")))
	}

	return errors.Join(errs...)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
