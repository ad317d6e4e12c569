package manifest

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
)

// Version is a major.minor.patch triple of non-negative integers.
// Components are kept as the decimal digits found in the manifest, so there is no upper bound.
type Version struct {
	Major string
	Minor string
	Patch string
}

// ErrInvalidVersion is returned for strings that are not three dot-separated integers.
var ErrInvalidVersion = errors.New("invalid version")

var versionString = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// ParseVersion parses "X.Y.Z" with all-integer components.
func ParseVersion(s string) (Version, error) {
	m := versionString.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("%q: %w", s, ErrInvalidVersion)
	}

	return Version{Major: m[1], Minor: m[2], Patch: m[3]}, nil
}

// BumpPatch returns the version with the patch component incremented.
// Major and minor are returned as written; the new patch has no leading zeros.
func (v Version) BumpPatch() (Version, error) {
	patch, ok := new(big.Int).SetString(v.Patch, 10)
	if !ok || patch.Sign() < 0 {
		return Version{}, fmt.Errorf("patch %q: %w", v.Patch, ErrInvalidVersion)
	}

	return Version{
		Major: v.Major,
		Minor: v.Minor,
		Patch: patch.Add(patch, big.NewInt(1)).String(),
	}, nil
}

// String renders the version as "major.minor.patch".
func (v Version) String() string {
	return v.Major + "." + v.Minor + "." + v.Patch
}
