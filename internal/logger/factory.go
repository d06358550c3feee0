package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Default creates a prefixed logger without timestamps, for interactive output.
func Default(prefix string) *log.Logger {
	return NewWithConfig(os.Stdout, prefix, log.GetLevel(), false, false, log.TextFormatter)
}

// NewWithConfig creates a charm log with custom config
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}
