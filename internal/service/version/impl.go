package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/relicta-tech/commitkit/internal/domain/commit"
	ckerrors "github.com/relicta-tech/commitkit/internal/errors"
)

// Ensure ServiceImpl implements Service.
var _ Service = (*ServiceImpl)(nil)

// ServiceImpl is the implementation of the version service.
type ServiceImpl struct{}

// NewService creates a new version service.
func NewService() *ServiceImpl {
	return &ServiceImpl{}
}

// ParseVersion parses a version string.
func (s *ServiceImpl) ParseVersion(version string) (*Version, error) {
	const op = "version.ParseVersion"

	version = strings.TrimSpace(version)
	prefix := ""
	if strings.HasPrefix(version, "v") || strings.HasPrefix(version, "V") {
		prefix = version[:1]
		version = version[1:]
	}

	sv, err := semver.StrictNewVersion(version)
	if err != nil {
		return nil, ckerrors.ValidationWrap(err, op, fmt.Sprintf("invalid version: %s", version))
	}

	return &Version{
		Major:      sv.Major(),
		Minor:      sv.Minor(),
		Patch:      sv.Patch(),
		Prerelease: sv.Prerelease(),
		Metadata:   sv.Metadata(),
		Prefix:     prefix,
	}, nil
}

// Next calculates the version after current for the given release type.
// A leading "v" is preserved. ReleaseTypeNone returns current unchanged.
func (s *ServiceImpl) Next(current string, rt commit.ReleaseType) (string, error) {
	const op = "version.Next"

	v, err := s.ParseVersion(current)
	if err != nil {
		return "", err
	}
	sv := semver.New(v.Major, v.Minor, v.Patch, v.Prerelease, v.Metadata)

	var next semver.Version
	switch rt {
	case commit.ReleaseTypeMajor:
		next = sv.IncMajor()
	case commit.ReleaseTypeMinor:
		next = sv.IncMinor()
	case commit.ReleaseTypePatch:
		next = sv.IncPatch()
	case commit.ReleaseTypeNone:
		return strings.TrimSpace(current), nil
	default:
		return "", ckerrors.Validation(op, fmt.Sprintf("unknown release type: %s", rt))
	}

	return v.Prefix + next.String(), nil
}

// Analyze returns the highest release type across messages and, when
// current is set, the resulting next version.
func (s *ServiceImpl) Analyze(messages []*commit.Message, current string) (*Impact, error) {
	impact := &Impact{ReleaseType: commit.ReleaseTypeNone}
	for _, m := range messages {
		impact.ReleaseType = commit.MaxReleaseType(impact.ReleaseType, m.ReleaseType())
		if m.IsBreaking() {
			impact.Breaking = true
			if note := m.BreakingNote(); note != "" {
				impact.BreakingNotes = append(impact.BreakingNotes, note)
			}
		}
	}

	if strings.TrimSpace(current) == "" {
		return impact, nil
	}

	next, err := s.Next(current, impact.ReleaseType)
	if err != nil {
		return nil, err
	}
	impact.Current = strings.TrimSpace(current)
	impact.Next = next
	return impact, nil
}

// CompareVersions compares two version strings and returns -1, 0, or 1.
func (s *ServiceImpl) CompareVersions(a, b string) (int, error) {
	va, err := s.ParseVersion(a)
	if err != nil {
		return 0, err
	}
	vb, err := s.ParseVersion(b)
	if err != nil {
		return 0, err
	}
	return semver.New(va.Major, va.Minor, va.Patch, va.Prerelease, va.Metadata).
		Compare(semver.New(vb.Major, vb.Minor, vb.Patch, vb.Prerelease, vb.Metadata)), nil
}
