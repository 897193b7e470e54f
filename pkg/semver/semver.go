package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version represents a dotted version with major, minor, and patch components.
// Game versions frequently omit the patch component ("1.20"), so a two-part
// version parses with patch 0.
type Version struct {
	major int
	minor int
	patch int
}

// NewVersion parses a version string such as "1.20.4", "1.20" or "21.0.2".
// A leading 'v' prefix is tolerated.
func NewVersion(version string) (*Version, error) {
	version = strings.TrimPrefix(version, "v")

	parts := strings.Split(version, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("invalid version format: expected MAJOR.MINOR[.PATCH], got %q", version)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid major version: %w", err)
	}

	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid minor version: %w", err)
	}

	patch := 0
	if len(parts) == 3 {
		patch, err = strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid patch version: %w", err)
		}
	}

	if major < 0 || minor < 0 || patch < 0 {
		return nil, fmt.Errorf("version components must be non-negative")
	}

	return &Version{
		major: major,
		minor: minor,
		patch: patch,
	}, nil
}

// Compare returns -1, 0 or 1 when v is respectively less than, equal to or
// greater than other.
func (v *Version) Compare(other *Version) int {
	if v.major != other.major {
		return cmp(v.major, other.major)
	}
	if v.minor != other.minor {
		return cmp(v.minor, other.minor)
	}
	return cmp(v.patch, other.patch)
}

func cmp(a, b int) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// GreaterThan returns true if v is greater than other
func (v *Version) GreaterThan(other *Version) bool {
	return v.Compare(other) > 0
}

// LessThan returns true if v is less than other
func (v *Version) LessThan(other *Version) bool {
	return v.Compare(other) < 0
}

// Equal returns true if v equals other
func (v *Version) Equal(other *Version) bool {
	return v.Compare(other) == 0
}

// Major returns the major component.
func (v *Version) Major() int {
	return v.major
}

// String returns the string representation of the version
func (v *Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}
