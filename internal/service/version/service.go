// Package version computes the release impact of commit messages.
package version

import (
	"github.com/relicta-tech/commitkit/internal/domain/commit"
)

// Service defines the release impact operations.
type Service interface {
	// ParseVersion parses a version string, with or without a "v" prefix.
	ParseVersion(version string) (*Version, error)

	// Next returns the version that follows current for the release type.
	Next(current string, rt commit.ReleaseType) (string, error)

	// Analyze aggregates the release impact of a set of messages.
	Analyze(messages []*commit.Message, current string) (*Impact, error)
}

// Version represents a semantic version.
type Version struct {
	// Major is the major version number.
	Major uint64 `json:"major"`
	// Minor is the minor version number.
	Minor uint64 `json:"minor"`
	// Patch is the patch version number.
	Patch uint64 `json:"patch"`
	// Prerelease is the prerelease identifier (e.g., "alpha", "beta.1", "rc.2").
	Prerelease string `json:"prerelease,omitempty"`
	// Metadata is the build metadata (e.g., "20240101", "sha.abc123").
	Metadata string `json:"metadata,omitempty"`
	// Prefix is "v" when the input carried one.
	Prefix string `json:"prefix,omitempty"`
}

// Impact is the aggregated release impact of one or more messages.
type Impact struct {
	ReleaseType commit.ReleaseType `json:"release_type"`
	Breaking    bool               `json:"breaking"`
	Current     string             `json:"current_version,omitempty"`
	Next        string             `json:"next_version,omitempty"`
	// BreakingNotes holds the BREAKING CHANGE footer values in message order.
	BreakingNotes []string `json:"breaking_notes,omitempty"`
}
