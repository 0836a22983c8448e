// Package logging configures Verity's charmbracelet/log loggers.
//
// All log output goes to stderr so stdout stays free for rendered scenario
// reports. Call Setup once from the CLI before creating component loggers
// with New: charmbracelet/log copies the default logger's state into a child
// when the child is created, so later changes do not reach existing children.
//
//	logging.Setup(verbose, quiet, jsonFormat)
//	logger := logging.New("runner")
//	logger.Info("scenario finished", "file", path)
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Level aliases so callers need not import charmbracelet/log.
const (
	LevelDebug = log.DebugLevel
	LevelInfo  = log.InfoLevel
	LevelWarn  = log.WarnLevel
	LevelError = log.ErrorLevel
)

// Setup configures the default logger. verbose selects Debug, quiet selects
// Error, and quiet wins when both are set. jsonFormat switches to the JSON
// formatter.
func Setup(verbose, quiet, jsonFormat bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	if quiet {
		level = log.ErrorLevel
	}

	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	if jsonFormat {
		log.SetFormatter(log.JSONFormatter)
	} else {
		log.SetFormatter(log.TextFormatter)
	}
}

// New returns a logger prefixed with component. An empty component yields a
// logger without a prefix.
func New(component string) *log.Logger {
	return log.WithPrefix(component)
}

// NewWriter returns a standalone logger writing to w at the given level. It
// does not share state with the default logger and is intended for tests and
// per-scenario capture.
func NewWriter(w io.Writer, component string, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{Prefix: component, Level: level})
}

// SetOutput redirects the default logger, typically to a bytes.Buffer in
// tests. Restore it with t.Cleanup.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}
