// Package version parses the semantic versions used by config and constraints.
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/conn-castle/upgrade-console/internal/messages"
)

// Parse reads a semantic version. Missing minor or patch components default
// to zero, so "11.5" parses as 11.5.0. A leading "v" is accepted.
func Parse(raw string) (*semver.Version, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New(messages.VersionRequired)
	}
	parsed, err := semver.NewVersion(trimmed)
	if err != nil {
		return nil, fmt.Errorf(messages.VersionInvalidFmt, raw, err)
	}
	return parsed, nil
}

// Normalize returns raw in X.Y.Z form (with any pre-release suffix kept).
func Normalize(raw string) (string, error) {
	parsed, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// Compare compares two versions. It returns -1 if a < b, 0 if a == b, and 1 if a > b.
func Compare(a string, b string) (int, error) {
	left, err := Parse(a)
	if err != nil {
		return 0, err
	}
	right, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return left.Compare(right), nil
}

// IsZero reports whether v is 0.0.0, which manifests use to mean "no bound".
func IsZero(v *semver.Version) bool {
	return v != nil && v.Major() == 0 && v.Minor() == 0 && v.Patch() == 0 && v.Prerelease() == ""
}
