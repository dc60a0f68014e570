// Package config loads nexusai configuration from YAML with environment
// variable overrides. Missing files fall back to defaults so every command
// works out of the box.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all nexusai configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// HTTP API server
	Server ServerConfig `yaml:"server"`

	// SQLite storage
	Store StoreConfig `yaml:"store"`

	// Persona catalog
	Personas PersonaConfig `yaml:"personas"`

	// Call pacing (thinking delays, auto-play gaps)
	Pacing PacingConfig `yaml:"pacing"`

	// Instruction planner
	Planner PlannerConfig `yaml:"planner"`

	// Plan job queue
	Queue QueueConfig `yaml:"queue"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the local HTTP API.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MaxConnections int    `yaml:"max_connections"`
	ReadTimeout    string `yaml:"read_timeout"`
	WriteTimeout   string `yaml:"write_timeout"`
}

// StoreConfig configures the SQLite store.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// PersonaConfig configures the persona catalog source.
type PersonaConfig struct {
	// CatalogPath optionally overrides the built-in catalog with a YAML file.
	CatalogPath string `yaml:"catalog_path"`
	// Watch reloads the catalog when the file changes (serve mode only).
	Watch bool `yaml:"watch"`
}

// PacingConfig configures simulated call pacing. Delays are display pacing
// only; the response pipeline itself is synchronous.
type PacingConfig struct {
	ThinkingMinMs int `yaml:"thinking_min_ms"` // default 1500
	ThinkingMaxMs int `yaml:"thinking_max_ms"` // default 3500
	AutoPlayMinMs int `yaml:"autoplay_min_ms"` // default 2000
	AutoPlayMaxMs int `yaml:"autoplay_max_ms"` // default 3000
}

// PlannerConfig configures the instruction planner.
type PlannerConfig struct {
	MaxSteps          int `yaml:"max_steps"`
	InstructionLimit  int `yaml:"instruction_limit"`  // chars kept after sanitization
	MinInstructionLen int `yaml:"min_instruction_len"` // chars required after cleaning
}

// QueueConfig configures the in-process plan job queue.
type QueueConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
	// StepDelayMs paces simulated step execution so progress is observable.
	StepDelayMs int `yaml:"step_delay_ms"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	File   string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "nexusai",
		Version: "0.3.0",

		Server: ServerConfig{
			Addr:           "127.0.0.1:8090",
			MaxConnections: 64,
			ReadTimeout:    "10s",
			WriteTimeout:   "15s",
		},

		Store: StoreConfig{
			DatabasePath: "data/nexusai.db",
		},

		Personas: PersonaConfig{
			CatalogPath: "",
			Watch:       false,
		},

		Pacing: PacingConfig{
			ThinkingMinMs: 1500,
			ThinkingMaxMs: 3500,
			AutoPlayMinMs: 2000,
			AutoPlayMaxMs: 3000,
		},

		Planner: PlannerConfig{
			MaxSteps:          10,
			InstructionLimit:  500,
			MinInstructionLen: 5,
		},

		Queue: QueueConfig{
			Workers:     2,
			QueueSize:   32,
			StepDelayMs: 100,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "nexusai.log",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("NEXUSAI_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path := os.Getenv("NEXUSAI_DB"); path != "" {
		c.Store.DatabasePath = path
	}
	if path := os.Getenv("NEXUSAI_PERSONAS"); path != "" {
		c.Personas.CatalogPath = path
	}
	if v := os.Getenv("NEXUSAI_QUEUE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Queue.Workers = n
		}
	}
	if level := os.Getenv("NEXUSAI_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if c.Server.MaxConnections <= 0 {
		return fmt.Errorf("server.max_connections must be positive, got %d", c.Server.MaxConnections)
	}
	if c.Queue.Workers <= 0 {
		return fmt.Errorf("queue.workers must be positive, got %d", c.Queue.Workers)
	}
	if c.Planner.MaxSteps <= 0 || c.Planner.MaxSteps > 20 {
		return fmt.Errorf("planner.max_steps must be in 1..20, got %d", c.Planner.MaxSteps)
	}
	if c.Pacing.ThinkingMinMs > c.Pacing.ThinkingMaxMs {
		return fmt.Errorf("pacing.thinking_min_ms exceeds thinking_max_ms")
	}
	return nil
}
