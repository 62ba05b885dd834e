package commit

import (
	"fmt"
	"strings"
)

// ReleaseType represents the semantic version impact of a commit.
type ReleaseType string

const (
	// ReleaseTypeMajor indicates a major release with breaking changes.
	ReleaseTypeMajor ReleaseType = "major"
	// ReleaseTypeMinor indicates a minor release with new features.
	ReleaseTypeMinor ReleaseType = "minor"
	// ReleaseTypePatch indicates a patch release with bug fixes.
	ReleaseTypePatch ReleaseType = "patch"
	// ReleaseTypeNone indicates no release is needed.
	ReleaseTypeNone ReleaseType = "none"
)

// String returns the string representation of the release type.
func (r ReleaseType) String() string {
	return string(r)
}

// IsValid returns true if the release type is valid.
func (r ReleaseType) IsValid() bool {
	switch r {
	case ReleaseTypeMajor, ReleaseTypeMinor, ReleaseTypePatch, ReleaseTypeNone:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description.
func (r ReleaseType) Description() string {
	switch r {
	case ReleaseTypeMajor:
		return "Major release with breaking changes"
	case ReleaseTypeMinor:
		return "Minor release with new features"
	case ReleaseTypePatch:
		return "Patch release with bug fixes"
	case ReleaseTypeNone:
		return "No release needed"
	default:
		return "Unknown release type"
	}
}

// ParseReleaseType parses a string into a ReleaseType.
func ParseReleaseType(s string) (ReleaseType, error) {
	r := ReleaseType(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidReleaseType, s)
	}
	return r, nil
}

// ReleaseTypeFor determines the release type for a commit type.
func ReleaseTypeFor(t Type, isBreaking bool) ReleaseType {
	if isBreaking {
		return ReleaseTypeMajor
	}

	switch t {
	case TypeFeat:
		return ReleaseTypeMinor
	case TypeFix, TypePerf:
		return ReleaseTypePatch
	default:
		return ReleaseTypeNone
	}
}

// MaxReleaseType returns the higher precedence release type.
// Major > Minor > Patch > None
func MaxReleaseType(a, b ReleaseType) ReleaseType {
	if a == ReleaseTypeMajor || b == ReleaseTypeMajor {
		return ReleaseTypeMajor
	}
	if a == ReleaseTypeMinor || b == ReleaseTypeMinor {
		return ReleaseTypeMinor
	}
	if a == ReleaseTypePatch || b == ReleaseTypePatch {
		return ReleaseTypePatch
	}
	return ReleaseTypeNone
}
