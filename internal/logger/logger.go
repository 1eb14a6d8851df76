// Package logger holds the process-wide structured logger.
package logger

import (
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the shared logger. It is usable before Init, logging at info
// level to stderr.
var Logger = New(Config{})

type Config struct {
	Level  string // debug, info, warn or error; empty means info
	JSON   bool
	Output io.Writer
}

// New builds a logger from cfg. Unknown levels fall back to info.
func New(cfg Config) *charmlog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	level, err := charmlog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = charmlog.InfoLevel
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "tooling",
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	}
	return l
}

// Init replaces the shared logger.
func Init(cfg Config) error {
	if cfg.Level != "" {
		if _, err := charmlog.ParseLevel(cfg.Level); err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	Logger = New(cfg)
	return nil
}
