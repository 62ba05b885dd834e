package commit

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// rule inspects a message and appends any findings to out.
type rule func(m *Message, p Policy, out []Violation) []Violation

// ruleTable is evaluated in order; every rule runs regardless of earlier
// findings.
var ruleTable = []rule{
	checkType,
	checkScopeCharset,
	checkHeaderLength,
	checkDescriptionLength,
	checkEmptyDescription,
	checkBlankLine,
	checkBreakingFooter,
	checkScopeRequired,
	checkScopeAllowed,
	checkFooterTokens,
	checkSingleLineDescription,
	checkFooterLookalikes,
}

func violation(sev Severity, id RuleID, format string, args ...any) Violation {
	return Violation{Severity: sev, Rule: id, Message: fmt.Sprintf(format, args...)}
}

func checkType(m *Message, _ Policy, out []Violation) []Violation {
	if m.commitType.IsValid() {
		return out
	}
	names := make([]string, 0, 11)
	for _, t := range AllTypes() {
		names = append(names, t.String())
	}
	return append(out, violation(SeverityError, RuleUnknownType,
		"unknown commit type %q; expected one of: %s", m.commitType, strings.Join(names, ", ")))
}

func checkScopeCharset(m *Message, _ Policy, out []Violation) []Violation {
	if !m.hasScope {
		return out
	}
	if m.scope == "" {
		return append(out, violation(SeverityError, RuleInvalidScope,
			"scope is empty at position 0; drop the parentheses or name a scope"))
	}
	if i := invalidScopeIndex(m.scope); i >= 0 {
		r, _ := utf8.DecodeRuneInString(m.scope[i:])
		return append(out, violation(SeverityError, RuleInvalidScope,
			"scope %q contains %q at position %d; only lowercase letters, digits, '.', '_' and '-' are allowed",
			m.scope, r, utf8.RuneCountInString(m.scope[:i])))
	}
	return out
}

func checkHeaderLength(m *Message, p Policy, out []Violation) []Violation {
	if n := utf8.RuneCountInString(m.Header()); n > p.headerMax() {
		return append(out, violation(SeverityError, RuleHeaderTooLong,
			"header is %d characters; maximum is %d", n, p.headerMax()))
	}
	return out
}

func checkDescriptionLength(m *Message, p Policy, out []Violation) []Violation {
	if n := utf8.RuneCountInString(m.description); n > p.descriptionMax() {
		return append(out, violation(SeverityWarning, RuleDescriptionTooLong,
			"description is %d characters; keep it under %d", n, p.descriptionMax()))
	}
	return out
}

func checkEmptyDescription(m *Message, _ Policy, out []Violation) []Violation {
	desc := strings.TrimSpace(m.description)
	if desc == "" {
		return append(out, violation(SeverityError, RuleEmptyDescription, "description is empty"))
	}
	if strings.IndexFunc(desc, isWordRune) < 0 {
		return append(out, violation(SeverityError, RuleEmptyDescription,
			"description %q has no letters or digits", desc))
	}
	return out
}

func checkBlankLine(m *Message, _ Policy, out []Violation) []Violation {
	if m.SeparatedByBlankLine() {
		return out
	}
	if m.blankLinesAfterHeader == 0 {
		return append(out, violation(SeverityError, RuleMissingBlankLine,
			"header must be followed by a blank line before the body or footers"))
	}
	return append(out, violation(SeverityError, RuleMissingBlankLine,
		"header must be followed by exactly one blank line; found %d", m.blankLinesAfterHeader))
}

func checkBreakingFooter(m *Message, _ Policy, out []Violation) []Violation {
	if m.breakingMarker && !m.HasBreakingFooter() {
		return append(out, violation(SeverityWarning, RuleBreakingWithoutFooter,
			"breaking marker '!' has no BREAKING CHANGE footer describing the change"))
	}
	return out
}

func checkScopeRequired(m *Message, p Policy, out []Violation) []Violation {
	if p.RequireScope && !m.hasScope {
		return append(out, violation(SeverityError, RuleMissingScope, "a scope is required"))
	}
	return out
}

func checkScopeAllowed(m *Message, p Policy, out []Violation) []Violation {
	if !m.hasScope || m.scope == "" || invalidScopeIndex(m.scope) >= 0 || p.allowsScope(m.scope) {
		return out
	}
	return append(out, violation(SeverityError, RuleScopeNotAllowed,
		"scope %q is not allowed; expected one of: %s", m.scope, strings.Join(p.Scopes, ", ")))
}

func checkFooterTokens(m *Message, _ Policy, out []Violation) []Violation {
	for _, f := range m.footers {
		if !IsValidFooterToken(f.Token) {
			out = append(out, violation(SeverityError, RuleInvalidFooter,
				"footer token %q must be words of letters and digits joined by '-'", f.Token))
		} else if first, _, _ := strings.Cut(f.Value, "\n"); strings.TrimSpace(strings.TrimPrefix(first, "#")) == "" {
			out = append(out, violation(SeverityError, RuleInvalidFooter,
				"footer %q has an empty value", f.Token))
		}
	}
	return out
}

func checkSingleLineDescription(m *Message, _ Policy, out []Violation) []Violation {
	if strings.ContainsAny(m.description, "\r\n") {
		return append(out, violation(SeverityError, RuleInvalidFormat,
			"description must be a single line"))
	}
	return out
}

// checkFooterLookalikes rejects body and footer lines that the parser would
// read back as the start of a footer.
func checkFooterLookalikes(m *Message, _ Policy, out []Violation) []Violation {
	for i, para := range m.body {
		if line, ok := footerLikeLine(para, true); ok {
			out = append(out, violation(SeverityError, RuleInvalidFormat,
				"body paragraph %d has a line that reads as a footer: %q", i+1, line))
		}
	}
	for _, f := range m.footers {
		if line, ok := footerLikeLine(f.Value, false); ok {
			out = append(out, violation(SeverityError, RuleInvalidFooter,
				"footer %q continues with a line that reads as a footer: %q", f.Token, line))
		}
	}
	return out
}

// footerLikeLine returns the first line of text that parses as a footer.
// For a body paragraph only the first line and lines after a blank line
// count; inside a footer value every line after the first does.
func footerLikeLine(text string, paragraph bool) (string, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		switch {
		case paragraph && i > 0 && !isBlank(lines[i-1]):
			continue
		case !paragraph && i == 0:
			continue
		}
		if _, ok := parseFooterLine(line); ok {
			return line, true
		}
	}
	return "", false
}

// invalidScopeIndex returns the byte index of the first character outside
// [a-z0-9._-], or -1.
func invalidScopeIndex(scope string) int {
	return strings.IndexFunc(scope, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return false
		case r == '.', r == '_', r == '-':
			return false
		default:
			return true
		}
	})
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
