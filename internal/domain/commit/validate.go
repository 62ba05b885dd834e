package commit

import (
	"errors"
	"strings"
)

// Parse parses a complete commit message. "\r\n" line endings are accepted
// and trailing blank lines are ignored.
func Parse(raw string) (*Message, error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")
	if strings.TrimSpace(lines[0]) == "" {
		return nil, &ParseError{Offset: 0, Reason: "missing header line", err: ErrEmptyMessage}
	}

	m, err := ParseHeader(lines[0])
	if err != nil {
		return nil, err
	}

	res, err := parseBody(lines[1:])
	if err != nil {
		return nil, err
	}
	m.body = res.paragraphs
	m.footers = res.footers
	m.blankLinesAfterHeader = res.blankLeader

	return m, nil
}

// Validate runs the rule table against msg with the default policy.
func Validate(msg *Message) ValidationResult {
	return ValidateWithPolicy(msg, DefaultPolicy())
}

// ValidateWithPolicy runs every rule in order and collects all findings.
func ValidateWithPolicy(msg *Message, p Policy) ValidationResult {
	var out []Violation
	for _, r := range ruleTable {
		out = r(msg, p, out)
	}
	return ValidationResult{Violations: out}
}

// ValidateMessage parses and validates raw text with the default policy.
func ValidateMessage(raw string) ValidationResult {
	return ValidateMessageWithPolicy(raw, DefaultPolicy())
}

// ValidateMessageWithPolicy parses and validates raw text. A message whose
// header cannot be parsed yields exactly one INVALID_FORMAT violation.
func ValidateMessageWithPolicy(raw string, p Policy) ValidationResult {
	msg, err := Parse(raw)
	if err != nil {
		return ValidationResult{Violations: []Violation{formatViolation(err)}}
	}
	return ValidateWithPolicy(msg, p)
}

func formatViolation(err error) Violation {
	msg := "header must match 'type(scope)!: description'"
	var pe *ParseError
	switch {
	case errors.Is(err, ErrEmptyMessage):
		msg = "commit message is empty"
	case errors.As(err, &pe):
		msg += "; " + pe.Reason
	default:
		msg += "; " + err.Error()
	}
	return Violation{Severity: SeverityError, Rule: RuleInvalidFormat, Message: msg}
}
