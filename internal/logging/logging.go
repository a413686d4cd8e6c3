// Package logging builds the leveled loggers used by the runner and the CLI.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Option configures a logger created with New.
type Option func(*config)

type config struct {
	level      log.Level
	prefix     string
	timestamps bool
	formatter  log.Formatter
	writer     io.Writer
}

// WithDebug sets the level to Debug when true, Info otherwise.
func WithDebug(debug bool) Option {
	return func(c *config) {
		if debug {
			c.level = log.DebugLevel
		} else {
			c.level = log.InfoLevel
		}
	}
}

// WithLevel parses a level name such as "warn". Unknown names keep Info.
func WithLevel(name string) Option {
	return func(c *config) {
		if lvl, err := log.ParseLevel(name); err == nil {
			c.level = lvl
		}
	}
}

func WithPrefix(prefix string) Option {
	return func(c *config) { c.prefix = prefix }
}

func WithTimestamps(on bool) Option {
	return func(c *config) { c.timestamps = on }
}

// WithJSON switches to one JSON object per record.
func WithJSON(on bool) Option {
	return func(c *config) {
		if on {
			c.formatter = log.JSONFormatter
		} else {
			c.formatter = log.TextFormatter
		}
	}
}

// WithWriter overrides the output writer. Defaults to os.Stderr.
func WithWriter(w io.Writer) Option {
	return func(c *config) { c.writer = w }
}

func New(opts ...Option) *log.Logger {
	c := &config{
		level:     log.InfoLevel,
		formatter: log.TextFormatter,
		writer:    os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return log.NewWithOptions(c.writer, log.Options{
		Level:           c.level,
		Prefix:          c.prefix,
		ReportTimestamp: c.timestamps,
		TimeFormat:      "15:04:05.000",
		Formatter:       c.formatter,
	})
}

// Nop returns a logger that discards everything.
func Nop() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel + 1})
}
