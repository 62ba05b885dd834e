package config

import (
	"fmt"
	"slices"
	"strings"

	ckerrors "github.com/relicta-tech/commitkit/internal/errors"
)

// Valid option values.
var (
	ValidFormats   = []string{"text", "json"}
	ValidLogLevels = []string{"debug", "info", "warn", "error"}
)

// ValidationError contains all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if len(e.Errors) > 0 {
		parts = append(parts, fmt.Sprintf("Errors:\n  - %s", strings.Join(e.Errors, "\n  - ")))
	}

	if len(e.Warnings) > 0 {
		parts = append(parts, fmt.Sprintf("Warnings:\n  - %s", strings.Join(e.Warnings, "\n  - ")))
	}

	return fmt.Sprintf("configuration validation failed:\n%s", strings.Join(parts, "\n"))
}

// HasErrors returns true if there are validation errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// HasWarnings returns true if there are validation warnings.
func (e *ValidationError) HasWarnings() bool {
	return len(e.Warnings) > 0
}

// Addf adds a formatted error to the validation error.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// Warnf adds a formatted warning to the validation error.
func (e *ValidationError) Warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Validator validates configuration.
type Validator struct {
	errors *ValidationError
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: &ValidationError{},
	}
}

// Validate validates the configuration. Warnings never fail validation;
// read them with Warnings.
func (v *Validator) Validate(cfg *Config) error {
	v.validateRules(cfg.Rules)
	v.validateOutput(cfg.Output)
	v.validateMCP(cfg.MCP)

	if v.errors.HasErrors() {
		return ckerrors.ConfigWrap(v.errors, "config.Validate", "invalid configuration")
	}
	return nil
}

// Warnings returns the warnings collected by the last Validate call.
func (v *Validator) Warnings() []string {
	return v.errors.Warnings
}

// Validate is a convenience wrapper around NewValidator().Validate.
func Validate(cfg *Config) (warnings []string, err error) {
	v := NewValidator()
	err = v.Validate(cfg)
	return v.Warnings(), err
}

func (v *Validator) validateRules(cfg RulesConfig) {
	if cfg.HeaderMaxLength <= 0 {
		v.errors.Addf("rules.header_max_length: must be positive, got %d", cfg.HeaderMaxLength)
	}
	if cfg.DescriptionMaxLength <= 0 {
		v.errors.Addf("rules.description_max_length: must be positive, got %d", cfg.DescriptionMaxLength)
	}
	// "type: " is at least five characters on top of the description.
	if cfg.HeaderMaxLength > 0 && cfg.DescriptionMaxLength > 0 &&
		cfg.HeaderMaxLength < cfg.DescriptionMaxLength+5 {
		v.errors.Warnf("rules.header_max_length (%d) leaves no room for a %d character description",
			cfg.HeaderMaxLength, cfg.DescriptionMaxLength)
	}

	seen := make(map[string]bool, len(cfg.Scopes))
	for _, scope := range cfg.Scopes {
		if !isValidScope(scope) {
			v.errors.Addf("rules.scopes: %q must match [a-z0-9._-]+", scope)
		}
		if seen[scope] {
			v.errors.Warnf("rules.scopes: %q is listed more than once", scope)
		}
		seen[scope] = true
	}
	if cfg.RequireScope && len(cfg.Scopes) == 0 {
		v.errors.Warnf("rules.require_scope is set without rules.scopes; any valid scope is accepted")
	}
}

func (v *Validator) validateOutput(cfg OutputConfig) {
	if !slices.Contains(ValidFormats, cfg.Format) {
		v.errors.Addf("output.format: must be one of %v, got %q", ValidFormats, cfg.Format)
	}
	if !slices.Contains(ValidLogLevels, cfg.LogLevel) {
		v.errors.Addf("output.log_level: must be one of %v, got %q", ValidLogLevels, cfg.LogLevel)
	}
}

func (v *Validator) validateMCP(cfg MCPConfig) {
	if strings.TrimSpace(cfg.Name) == "" {
		v.errors.Addf("mcp.name: must not be empty")
	}
}

func isValidScope(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
