package commit

import "slices"

// Default limits, in characters.
const (
	DefaultHeaderMaxLength      = 72
	DefaultDescriptionMaxLength = 50
)

// Policy tunes the rule engine. The zero value behaves like DefaultPolicy.
type Policy struct {
	// HeaderMaxLength is the HEADER_TOO_LONG limit; 0 means the default.
	HeaderMaxLength int
	// DescriptionMaxLength is the DESCRIPTION_TOO_LONG limit; 0 means the default.
	DescriptionMaxLength int
	// RequireScope enables MISSING_SCOPE.
	RequireScope bool
	// Scopes, when non-empty, is the allow-list for SCOPE_NOT_ALLOWED.
	Scopes []string
}

// DefaultPolicy returns the Conventional Commits defaults.
func DefaultPolicy() Policy {
	return Policy{
		HeaderMaxLength:      DefaultHeaderMaxLength,
		DescriptionMaxLength: DefaultDescriptionMaxLength,
	}
}

func (p Policy) headerMax() int {
	if p.HeaderMaxLength <= 0 {
		return DefaultHeaderMaxLength
	}
	return p.HeaderMaxLength
}

func (p Policy) descriptionMax() int {
	if p.DescriptionMaxLength <= 0 {
		return DefaultDescriptionMaxLength
	}
	return p.DescriptionMaxLength
}

func (p Policy) allowsScope(scope string) bool {
	return len(p.Scopes) == 0 || slices.Contains(p.Scopes, scope)
}
