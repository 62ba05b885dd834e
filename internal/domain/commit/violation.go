package commit

import (
	"encoding/json"
	"fmt"
)

// Severity classifies a violation.
type Severity uint8

const (
	// SeverityError makes the message invalid.
	SeverityError Severity = iota
	// SeverityWarning is advisory only.
	SeverityWarning
)

// String returns "error" or "warning".
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity as its string form.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes "error" or "warning".
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("invalid severity: %q", text)
	}
	return nil
}

// RuleID identifies the rule that produced a violation.
type RuleID string

// Rule identifiers.
const (
	RuleInvalidFormat         RuleID = "INVALID_FORMAT"
	RuleUnknownType           RuleID = "UNKNOWN_TYPE"
	RuleInvalidScope          RuleID = "INVALID_SCOPE"
	RuleHeaderTooLong         RuleID = "HEADER_TOO_LONG"
	RuleDescriptionTooLong    RuleID = "DESCRIPTION_TOO_LONG"
	RuleEmptyDescription      RuleID = "EMPTY_DESCRIPTION"
	RuleMissingBlankLine      RuleID = "MISSING_BLANK_LINE"
	RuleBreakingWithoutFooter RuleID = "BREAKING_WITHOUT_FOOTER"
	RuleMissingField          RuleID = "MISSING_FIELD"
	RuleMissingScope          RuleID = "MISSING_SCOPE"
	RuleScopeNotAllowed       RuleID = "SCOPE_NOT_ALLOWED"
	RuleInvalidFooter         RuleID = "INVALID_FOOTER"
)

// Violation is a single rule finding.
type Violation struct {
	Severity Severity `json:"severity"`
	Rule     RuleID   `json:"rule"`
	Message  string   `json:"message"`
}

// String renders "severity RULE: message".
func (v Violation) String() string {
	return fmt.Sprintf("%s %s: %s", v.Severity, v.Rule, v.Message)
}

// ValidationResult holds the violations of one validation run, in rule order.
type ValidationResult struct {
	Violations []Violation `json:"violations"`
}

// Valid reports whether no Error-severity violation is present.
func (r ValidationResult) Valid() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns the Error-severity violations.
func (r ValidationResult) Errors() []Violation {
	return r.filter(SeverityError)
}

// Warnings returns the Warning-severity violations.
func (r ValidationResult) Warnings() []Violation {
	return r.filter(SeverityWarning)
}

// Has reports whether a violation with the given rule is present.
func (r ValidationResult) Has(rule RuleID) bool {
	for _, v := range r.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

func (r ValidationResult) filter(s Severity) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == s {
			out = append(out, v)
		}
	}
	return out
}

// MarshalJSON adds the derived valid flag.
func (r ValidationResult) MarshalJSON() ([]byte, error) {
	violations := r.Violations
	if violations == nil {
		violations = []Violation{}
	}
	return json.Marshal(struct {
		Valid      bool        `json:"valid"`
		Violations []Violation `json:"violations"`
	}{
		Valid:      r.Valid(),
		Violations: violations,
	})
}

// UnmarshalJSON decodes the violations and ignores the derived flag.
func (r *ValidationResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Violations []Violation `json:"violations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Violations = raw.Violations
	return nil
}
