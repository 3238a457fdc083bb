package main

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"netscope/internal/config"
)

// newLogger builds the root logger: console output on a terminal, JSON otherwise
func newLogger(cfg config.LogConfig, override string, debug bool, w *os.File) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	if override != "" {
		if l, err := zerolog.ParseLevel(override); err == nil {
			level = l
		}
	}
	if debug {
		level = zerolog.DebugLevel
	}

	var out io.Writer = w
	switch cfg.Format {
	case "console":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	case "json":
	default:
		if isatty.IsTerminal(w.Fd()) {
			out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
