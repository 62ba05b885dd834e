// Package commit implements the Conventional Commits v1.0.0 message engine:
// header and body parsing, rule-based validation and canonical construction.
package commit

// Type represents the type of a conventional commit.
type Type string

// Standard conventional commit types.
const (
	TypeFeat     Type = "feat"
	TypeFix      Type = "fix"
	TypeDocs     Type = "docs"
	TypeStyle    Type = "style"
	TypeRefactor Type = "refactor"
	TypePerf     Type = "perf"
	TypeTest     Type = "test"
	TypeBuild    Type = "build"
	TypeCI       Type = "ci"
	TypeChore    Type = "chore"
	TypeRevert   Type = "revert"
)

// AllTypes returns all standard commit types in canonical order.
func AllTypes() []Type {
	return []Type{
		TypeFeat,
		TypeFix,
		TypeDocs,
		TypeStyle,
		TypeRefactor,
		TypePerf,
		TypeTest,
		TypeBuild,
		TypeCI,
		TypeChore,
		TypeRevert,
	}
}

// IsValid returns true if the commit type is a recognized type.
// Matching is case-sensitive.
func (t Type) IsValid() bool {
	switch t {
	case TypeFeat, TypeFix, TypeDocs, TypeStyle,
		TypeRefactor, TypePerf, TypeTest, TypeBuild,
		TypeCI, TypeChore, TypeRevert:
		return true
	default:
		return false
	}
}

// String returns the string representation of the commit type.
func (t Type) String() string {
	return string(t)
}

// Description returns a human-readable description of the commit type.
func (t Type) Description() string {
	switch t {
	case TypeFeat:
		return "A new feature (correlates with MINOR in Semantic Versioning)"
	case TypeFix:
		return "A bug fix (correlates with PATCH in Semantic Versioning)"
	case TypeDocs:
		return "Documentation only changes"
	case TypeStyle:
		return "Changes that do not affect the meaning of the code (white-space, formatting, etc)"
	case TypeRefactor:
		return "A code change that neither fixes a bug nor adds a feature"
	case TypePerf:
		return "A code change that improves performance"
	case TypeTest:
		return "Adding missing tests or correcting existing tests"
	case TypeBuild:
		return "Changes that affect the build system or external dependencies (example scopes: gulp, broccoli, npm)"
	case TypeCI:
		return "Changes to our CI configuration files and scripts (example scopes: Travis, Circle, BrowserStack, SauceLabs)"
	case TypeChore:
		return "Other changes that don't modify src or test files"
	case TypeRevert:
		return "Reverts a previous commit"
	default:
		return "Unknown commit type"
	}
}

// TypeInfo pairs a commit type with its description.
type TypeInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListTypes returns the supported commit types and their descriptions,
// in canonical order.
func ListTypes() []TypeInfo {
	types := AllTypes()
	infos := make([]TypeInfo, 0, len(types))
	for _, t := range types {
		infos = append(infos, TypeInfo{Name: t.String(), Description: t.Description()})
	}
	return infos
}
