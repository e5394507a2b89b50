// Package logging configures zerolog for the postlink commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultLevel keeps normal runs quiet; diagnostics go to stderr only when asked.
const DefaultLevel = "warn"

// Config holds logging configuration.
type Config struct {
	Level      string    // trace, debug, info, warn, error; invalid values fall back to info
	File       string    // Optional log file, appended to as JSON lines
	Console    bool      // Human-readable output on Out
	NoColor    bool      // Disable ANSI colors on the console writer
	TimeFormat string    // Console time format; default time.Kitchen
	Out        io.Writer // Console destination; default os.Stderr
}

// Setup builds a logger from cfg and installs it as the global zerolog
// logger. The returned close function releases the log file, if any.
func Setup(cfg Config) (zerolog.Logger, func() error, error) {
	var writers []io.Writer
	closeFn := func() error { return nil }

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.Kitchen
	}
	console := zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat, NoColor: cfg.NoColor}

	if cfg.Console {
		writers = append(writers, console)
	}

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("opening log file: %w", err)
		}
		writers = append(writers, file)
		closeFn = file.Close
	}

	if len(writers) == 0 {
		writers = append(writers, console)
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	invalid := err != nil || cfg.Level == ""
	if invalid {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	if invalid && cfg.Level != "" {
		logger.Warn().Str("configured_level", cfg.Level).Msg("invalid log level, defaulting to info")
	}

	log.Logger = logger
	logger.Debug().Str("level", level.String()).Msg("logger initialized")

	return logger, closeFn, nil
}

// LevelFor maps the CLI's --log-level and --verbose flags to a level name.
// Verbose wins over an explicit level.
func LevelFor(level string, verbose bool) string {
	if verbose {
		return zerolog.DebugLevel.String()
	}
	if level == "" {
		return DefaultLevel
	}
	return level
}
