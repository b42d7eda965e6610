// Package config loads typedfs settings from the environment.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
)

// Config holds all typedfs configuration.
type Config struct {
	Sandbox SandboxConfig
	Logging LogConfig
	Create  CreateConfig
}

// SandboxConfig holds sandbox configuration.
type SandboxConfig struct {
	Enabled  bool     `envconfig:"TYPEDFS_SANDBOX_ENABLED" default:"false"`
	Root     string   `envconfig:"TYPEDFS_SANDBOX_ROOT"`
	Denylist []string `envconfig:"TYPEDFS_SANDBOX_DENYLIST"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `envconfig:"TYPEDFS_LOG_LEVEL" default:"warn"`
}

// CreateConfig holds defaults for creation commands.
type CreateConfig struct {
	IfExists string `envconfig:"TYPEDFS_IF_EXISTS" default:"error"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level: "warn",
		},
		Create: CreateConfig{
			IfExists: "error",
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Sandbox.Enabled {
		if c.Sandbox.Root == "" {
			return fmt.Errorf("sandbox enabled without a root (set TYPEDFS_SANDBOX_ROOT)")
		}
		if !filepath.IsAbs(c.Sandbox.Root) {
			return fmt.Errorf("sandbox root %q must be absolute", c.Sandbox.Root)
		}
	}
	if _, err := c.IfExists(); err != nil {
		return err
	}
	return nil
}

// IfExists returns the parsed default creation policy.
func (c *Config) IfExists() (core.IfExists, error) {
	return core.ParseIfExists(c.Create.IfExists)
}
