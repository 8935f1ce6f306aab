// Package config provides configuration types and defaults for corkboard.
package config

import "time"

// Config holds all configuration for corkboard.
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Board       BoardConfig       `yaml:"board" mapstructure:"board"`
	Refresh     RefreshConfig     `yaml:"refresh" mapstructure:"refresh"`
	Chat        ChatConfig        `yaml:"chat" mapstructure:"chat"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
}

// ServerConfig holds backend service settings.
type ServerConfig struct {
	URL     string        `yaml:"url" mapstructure:"url"`         // Backend base URL
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per-request timeout
}

// BoardConfig holds board selection settings.
type BoardConfig struct {
	Name   string `yaml:"name" mapstructure:"name"`     // Board to open, by id or name
	Create bool   `yaml:"create" mapstructure:"create"` // Create the board if it does not exist
}

// RefreshConfig holds item list refresh settings.
type RefreshConfig struct {
	Interval time.Duration `yaml:"interval" mapstructure:"interval"` // Periodic refresh interval (0 = manual only)
}

// ChatConfig holds answer service settings.
type ChatConfig struct {
	TopK int `yaml:"top_k" mapstructure:"top_k"` // Retrieval depth for board-scoped queries
}

// PathsConfig holds file paths for logs.
type PathsConfig struct {
	Log string `yaml:"log" mapstructure:"log"`
}

// LogRotationConfig holds settings for log file rotation.
// Used for the TUI debug log (lumberjack-based automatic rotation).
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		Board: BoardConfig{},
		Refresh: RefreshConfig{
			Interval: 15 * time.Second,
		},
		Chat: ChatConfig{
			TopK: 20,
		},
		Paths: PathsConfig{
			Log: ".corkboard/corkboard.log",
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   false,
		},
	}
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return errEmptyServerURL
	}
	if c.Chat.TopK < 1 {
		return errInvalidTopK
	}
	if c.Refresh.Interval < 0 {
		return errNegativeInterval
	}
	return nil
}
