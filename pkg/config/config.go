// Package config loads dispatcher settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the tunables shared by every dispatcher built with it.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"OBSERVABLE_LOG_LEVEL" envDefault:"info"`
	// MaxDepth bounds nested dispatches on one dispatcher. 0 leaves recursion unguarded.
	MaxDepth int `env:"OBSERVABLE_MAX_DEPTH" envDefault:"0"`
	// SuggestDistance is the edit distance used to suggest a registered event
	// type when a dispatch finds no listener. 0 disables suggestions.
	SuggestDistance int `env:"OBSERVABLE_SUGGEST_DISTANCE" envDefault:"2"`
	// TraceEnabled routes dispatch spans to the global OpenTelemetry provider.
	TraceEnabled bool `env:"OBSERVABLE_TRACE_ENABLED" envDefault:"false"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel:        "info",
		SuggestDistance: 2,
	}
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects negative bounds and unknown log levels.
func (c Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must be >= 0, got %d", c.MaxDepth)
	}
	if c.SuggestDistance < 0 {
		return fmt.Errorf("suggest distance must be >= 0, got %d", c.SuggestDistance)
	}
	if _, ok := levels[strings.ToLower(c.LogLevel)]; !ok {
		return fmt.Errorf("unknown log level: %s", c.LogLevel)
	}
	return nil
}

var levels = map[string]slog.Level{
	"":      slog.LevelInfo,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Level maps LogLevel onto slog. Unknown values fall back to info.
func (c Config) Level() slog.Level {
	if n, ok := levels[strings.ToLower(c.LogLevel)]; ok {
		return n
	}
	return slog.LevelInfo
}

// Logger returns a text logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}
