package changelog

import (
	"github.com/Masterminds/semver/v3"

	"github.com/ariel-frischer/fraglog/internal/fragment"
)

// Entry is one decoded fragment together with the release it belongs to.
type Entry struct {
	Path     string
	Version  *semver.Version
	Fragment fragment.Fragment
}

// VersionData groups the fragments of one release. Version is the canonical
// semver string without a "v" prefix.
type VersionData struct {
	Version string
	Entries []fragment.Fragment
}

// Count returns the number of fragments in this release.
func (v VersionData) Count() int {
	return len(v.Entries)
}

// TemplateData builds the value a changelog template is executed with.
// Versions keep their ascending order; templates reverse them with
// newestFirst.
func TemplateData(versions []VersionData) map[string]any {
	if versions == nil {
		versions = []VersionData{}
	}
	return map[string]any{"versions": versions}
}
