package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/leonardomso/postlink/internal/logging"
)

// version is set by main.go via SetVersion.
var version = "dev"

// Global flag variables, shared by every command.
var (
	configPath  string
	noConfig    bool
	blogRoot    string
	projectRoot string
	urlPrefix   string
	logLevel    string
	logFile     string
	verbose     bool
)

// Set up by the root command before any subcommand runs.
var (
	appConfig *LoadedConfig
	logger    = zerolog.Nop()
	closeLog  = func() error { return nil }
)

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "postlink",
	Short:   "Rewrite relative markdown links between blog posts to their published URLs",
	Version: version,
	Long: `postlink turns links between markdown source files into the canonical URLs
the posts are published under.

A link like [next part](../part-2/index.md) becomes [next part](/posts/part-2/my-slug),
using the target post's frontmatter slug when it has one and its path otherwise.
External URLs, anchors and non-markdown links are never touched.

Examples:
  postlink resolve ../part-2/index.md --file src/data/blog/part-1/index.md
  postlink rewrite src/data/blog/part-1/index.md     # Print the rewritten post
  postlink rewrite --write                           # Rewrite every post in place
  postlink check --format=json                       # Report links that do not resolve
  postlink render src/data/blog/part-1/index.md      # Print HTML with rewritten links
  postlink index                                     # List every post and its URL
  postlink graph --db .postlink/index.sqlite         # Posts nothing links to
  postlink interactive                               # Browse results in a TUI`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return closeLog()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&configPath, "config", "",
		"Config file (default: nearest .postlinkrc.yaml or .postlinkrc.toml)")
	flags.BoolVar(&noConfig, "no-config", false,
		"Skip loading the config file")
	flags.StringVar(&blogRoot, "blog-root", "",
		"Blog content directory (default \"src/data/blog\")")
	flags.StringVar(&projectRoot, "project-root", "",
		"Base directory for hrefs without a file context (default: config file directory or cwd)")
	flags.StringVar(&urlPrefix, "url-prefix", "",
		"Path prefix of rewritten URLs (default \"/posts\")")
	flags.StringVar(&logLevel, "log-level", logging.DefaultLevel,
		"Log level: trace, debug, info, warn, error")
	flags.StringVar(&logFile, "log-file", "",
		"Also append logs to this file as JSON lines")
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"Debug logging (same as --log-level=debug)")
}

// setup configures logging and loads the config file.
func setup(*cobra.Command, []string) error {
	l, closeFn, err := logging.Setup(logging.Config{
		Level:   logging.LevelFor(logLevel, verbose),
		File:    logFile,
		Console: true,
	})
	if err != nil {
		return err
	}
	logger, closeLog = l, closeFn

	appConfig, err = LoadConfig(configPath, noConfig)
	if err != nil {
		return err
	}
	if cfg := appConfig.Config(); cfg.Path() != "" {
		logger.Debug().Str("path", cfg.Path()).Bool("empty", cfg.IsEmpty()).Msg("loaded config")
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1) //nolint:revive // deep-exit is acceptable for CLI entry points
	}
}
