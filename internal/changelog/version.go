package changelog

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
)

// PathEncodingError is returned when a path component is not valid UTF-8.
type PathEncodingError struct {
	Path      string
	Component string
}

func (e *PathEncodingError) Error() string {
	return fmt.Sprintf("path %q: component %q is not valid UTF-8", e.Path, e.Component)
}

// VersionFromPath returns the first path component, from root to leaf, that
// parses as a strict semantic version (MAJOR.MINOR.PATCH[-PRE][+BUILD]).
// Components that do not parse are ordinary directory names. A path without
// any version component yields (nil, nil).
func VersionFromPath(path string) (*semver.Version, error) {
	for _, comp := range strings.Split(filepath.ToSlash(path), "/") {
		switch comp {
		case "", ".", "..":
			continue
		}
		if !utf8.ValidString(comp) {
			return nil, &PathEncodingError{Path: path, Component: comp}
		}
		if v, err := semver.StrictNewVersion(comp); err == nil {
			return v, nil
		}
	}
	return nil, nil
}

// NormalizeVersion normalizes a version string by removing the "v" prefix.
// This allows accepting both "v0.6.0" and "0.6.0" as input.
func NormalizeVersion(version string) string {
	v := strings.TrimSpace(version)
	if strings.HasPrefix(v, "v") || strings.HasPrefix(v, "V") {
		return v[1:]
	}
	return v
}
