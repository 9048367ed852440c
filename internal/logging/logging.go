// Package logging builds the logrus logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewFormatter returns a JSON formatter for "json" and a text formatter
// otherwise
func NewFormatter(format string) logrus.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return &logrus.JSONFormatter{}
	default:
		return &logrus.TextFormatter{FullTimestamp: true}
	}
}

// New creates a logger writing to stderr at the given level
func New(level, format string) (*logrus.Logger, error) {
	return NewWithOutput(os.Stderr, level, format)
}

// NewWithOutput creates a logger writing to out
func NewWithOutput(out io.Writer, level, format string) (*logrus.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := logrus.New()
	logger.Out = out
	logger.Level = lvl
	logger.Formatter = NewFormatter(format)
	return logger, nil
}
