// Package logger configures charmbracelet/log for the gateway and hands out prefixed loggers.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// Setup applies the level and timestamp settings to the default logger. debug forces
// DebugLevel with timestamps. An unknown level keeps InfoLevel.
func Setup(level string, timestamp, debug bool) {
	lvl := log.InfoLevel
	if level != "" {
		if parsed, err := log.ParseLevel(level); err == nil {
			lvl = parsed
		} else {
			log.Warnf("Unknown log level %q, using info", level)
		}
	}
	if debug {
		lvl = log.DebugLevel
		timestamp = true
	}
	log.SetDefault(log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: timestamp,
		Formatter:       log.TextFormatter,
	}))
}

// New creates a prefixed logger that follows the global level and writes to stderr.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}
