package changelog

import (
	"fmt"
	"slices"
	"strings"
)

// VersionNotFoundError is returned when a requested version doesn't exist.
type VersionNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	if len(e.AvailableVersions) == 0 {
		return fmt.Sprintf("version %q not found (no releases have fragments)", e.Version)
	}
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

// FindVersion retrieves a specific release from aggregated data.
// Accepts both "v0.6.0" and "0.6.0" formats (normalizes the input).
// Returns VersionNotFoundError if the version doesn't exist.
func FindVersion(versions []VersionData, version string) (*VersionData, error) {
	normalized := NormalizeVersion(version)

	for i := range versions {
		if versions[i].Version == normalized {
			return &versions[i], nil
		}
	}

	return nil, &VersionNotFoundError{
		Version:           version,
		AvailableVersions: ListVersions(versions),
	}
}

// NewestFirst returns a copy of versions in reverse order. Applied to the
// ascending output of Aggregate it yields the newest release first.
func NewestFirst(versions []VersionData) []VersionData {
	out := slices.Clone(versions)
	slices.Reverse(out)
	return out
}

// ListVersions returns the version identifiers, newest first.
func ListVersions(versions []VersionData) []string {
	out := make([]string, 0, len(versions))
	for i := len(versions) - 1; i >= 0; i-- {
		out = append(out, versions[i].Version)
	}
	return out
}

// Latest returns the newest release, or nil when there is none.
func Latest(versions []VersionData) *VersionData {
	if len(versions) == 0 {
		return nil
	}
	return &versions[len(versions)-1]
}

// EntryCount returns the total number of fragments across all releases.
func EntryCount(versions []VersionData) int {
	count := 0
	for _, v := range versions {
		count += v.Count()
	}
	return count
}
