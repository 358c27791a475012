package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config is the validated logging configuration.
type Config struct {
	Format string // "json" or "console"
	Level  zerolog.Level
}

// ParseConfig validates raw format and level strings. Empty values fall back
// to json/info.
func ParseConfig(format, level string) (Config, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "":
		format = "json"
	case "json", "console":
	default:
		return Config{}, fmt.Errorf("log format must be one of: json, console")
	}

	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return Config{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return Config{Format: format, Level: lvl}, nil
}

// New builds a logger tagged with the running command.
func New(cfg Config, w io.Writer, command string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).
		Level(cfg.Level).
		With().
		Timestamp().
		Str("app", "consolenav").
		Str("command", command).
		Logger()
}

// Setup installs the logger as the zerolog global.
func Setup(cfg Config, command string) zerolog.Logger {
	logger := New(cfg, os.Stderr, command)
	zerolog.SetGlobalLevel(cfg.Level)
	log.Logger = logger
	return logger
}
