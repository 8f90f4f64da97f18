// Package config handles configuration loading and management for the mangler.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Laplace1814/honggfuzz/internal/mutator"
)

// Config represents the global configuration
type Config struct {
	Mutation MutationConfig `yaml:"mutation"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Engine   EngineConfig   `yaml:"engine"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// MutationConfig defines the mangling parameters
type MutationConfig struct {
	FlipRate    float64 `yaml:"flip_rate"`
	MaxFileSize int     `yaml:"max_file_size"`
}

// InputConfig defines where seeds and tokens come from
type InputConfig struct {
	SeedDir    string `yaml:"seed_dir"`
	Dictionary string `yaml:"dictionary"`
}

// OutputConfig defines where variants go
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Count  int    `yaml:"count"`
	Report string `yaml:"report"` // optional JSON summary path
	TUI    bool   `yaml:"tui"`
}

// EngineConfig defines the generation engine configuration
type EngineConfig struct {
	Workers int    `yaml:"workers"`
	RPS     int    `yaml:"rps"`  // 0 disables throttling
	Seed    uint64 `yaml:"seed"` // 0 seeds every worker from crypto/rand
}

// ServerConfig defines the mutation service configuration
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	BodyLimit   int           `yaml:"body_limit"`
}

// LogConfig defines the logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	mc := mutator.DefaultConfig()
	return &Config{
		Mutation: MutationConfig{
			FlipRate:    mc.FlipRate,
			MaxFileSize: mc.MaxFileSize,
		},
		Output: OutputConfig{
			Count: 1000,
		},
		Engine: EngineConfig{
			Workers: 8,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			ReadTimeout: 10 * time.Second,
			BodyLimit:   4 * 1024 * 1024,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file on top of the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes on top of the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// Mangle returns the mutator settings
func (c *Config) Mangle() mutator.Config {
	return mutator.Config{
		FlipRate:    c.Mutation.FlipRate,
		MaxFileSize: c.Mutation.MaxFileSize,
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if err := c.Mangle().Validate(); err != nil {
		return err
	}
	if c.Output.Count < 0 {
		return fmt.Errorf("output count must not be negative: %d", c.Output.Count)
	}
	if c.Engine.Workers <= 0 {
		return fmt.Errorf("workers must be positive: %d", c.Engine.Workers)
	}
	if c.Engine.RPS < 0 {
		return fmt.Errorf("rps must not be negative: %d", c.Engine.RPS)
	}
	if c.Server.BodyLimit < 0 {
		return fmt.Errorf("body limit must not be negative: %d", c.Server.BodyLimit)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// ParseLevel maps a level name to a slog level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// NewLogger builds a slog logger writing to w with the configured level and format
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(l.Level)
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
