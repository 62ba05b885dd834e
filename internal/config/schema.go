// Package config provides configuration management for commitkit.
package config

import (
	"github.com/relicta-tech/commitkit/internal/domain/commit"
)

// Config is the root configuration for commitkit.
type Config struct {
	// Rules tunes the commit message rule engine.
	Rules RulesConfig `mapstructure:"rules" json:"rules" yaml:"rules" toml:"rules"`
	// Output configures output settings.
	Output OutputConfig `mapstructure:"output" json:"output" yaml:"output" toml:"output"`
	// MCP configures the MCP server.
	MCP MCPConfig `mapstructure:"mcp" json:"mcp" yaml:"mcp" toml:"mcp"`
}

// RulesConfig tunes the rule engine.
type RulesConfig struct {
	// HeaderMaxLength is the maximum header length in characters.
	HeaderMaxLength int `mapstructure:"header_max_length" json:"header_max_length" yaml:"header_max_length" toml:"header_max_length"`
	// DescriptionMaxLength is the length above which descriptions get a warning.
	DescriptionMaxLength int `mapstructure:"description_max_length" json:"description_max_length" yaml:"description_max_length" toml:"description_max_length"`
	// RequireScope rejects headers without a scope.
	RequireScope bool `mapstructure:"require_scope" json:"require_scope" yaml:"require_scope" toml:"require_scope"`
	// Scopes is the scope allow-list. Empty allows any valid scope.
	Scopes []string `mapstructure:"scopes" json:"scopes" yaml:"scopes" toml:"scopes"`
}

// OutputConfig configures output settings.
type OutputConfig struct {
	// Format is the output format (text, json).
	Format string `mapstructure:"format" json:"format" yaml:"format" toml:"format"`
	// Color enables colored output.
	Color bool `mapstructure:"color" json:"color" yaml:"color" toml:"color"`
	// Verbose enables verbose output.
	Verbose bool `mapstructure:"verbose" json:"verbose" yaml:"verbose" toml:"verbose"`
	// LogFile is the path to a log file.
	LogFile string `mapstructure:"log_file" json:"log_file,omitempty" yaml:"log_file,omitempty" toml:"log_file,omitempty"`
	// LogLevel is the log level (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" json:"log_level" yaml:"log_level" toml:"log_level"`
}

// MCPConfig configures the MCP server.
type MCPConfig struct {
	// Name is the server name reported on initialize.
	Name string `mapstructure:"name" json:"name" yaml:"name" toml:"name"`
	// Instructions is sent to clients on initialize.
	Instructions string `mapstructure:"instructions" json:"instructions,omitempty" yaml:"instructions,omitempty" toml:"instructions,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			HeaderMaxLength:      commit.DefaultHeaderMaxLength,
			DescriptionMaxLength: commit.DefaultDescriptionMaxLength,
			RequireScope:         false,
			Scopes:               []string{},
		},
		Output: OutputConfig{
			Format:   "text",
			Color:    true,
			Verbose:  false,
			LogLevel: "info",
		},
		MCP: MCPConfig{
			Name:         "commitkit",
			Instructions: "Validate, parse and construct Conventional Commits v1.0.0 messages.",
		},
	}
}

// Policy maps the rule settings onto the engine policy.
func (c *Config) Policy() commit.Policy {
	return commit.Policy{
		HeaderMaxLength:      c.Rules.HeaderMaxLength,
		DescriptionMaxLength: c.Rules.DescriptionMaxLength,
		RequireScope:         c.Rules.RequireScope,
		Scopes:               append([]string(nil), c.Rules.Scopes...),
	}
}

// ConfigFileNames to search for.
var ConfigFileNames = []string{
	".commitkit",
}

// ConfigFileExtensions supported by Viper.
var ConfigFileExtensions = []string{
	"yaml",
	"yml",
	"json",
	"toml",
}
