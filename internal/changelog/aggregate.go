package changelog

import (
	"iter"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/ariel-frischer/fraglog/internal/fragment"
)

type bucket struct {
	version *semver.Version
	entries []fragment.Fragment
}

// Aggregate groups fragments by release and returns the releases in
// ascending semver order. Fragments keep the order the walk produced them
// in. The first error in the sequence aborts aggregation and is returned as
// is.
func Aggregate(entries iter.Seq2[Entry, error]) ([]VersionData, error) {
	buckets := make(map[string]*bucket)
	for e, err := range entries {
		if err != nil {
			return nil, err
		}
		key := e.Version.String()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{version: e.Version}
			buckets[key] = b
		}
		b.entries = append(b.entries, e.Fragment)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	// Versions differing only in build metadata have equal precedence; the
	// string comparison keeps their order stable.
	slices.SortFunc(keys, func(a, b string) int {
		if c := buckets[a].version.Compare(buckets[b].version); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	versions := make([]VersionData, 0, len(keys))
	for _, k := range keys {
		versions = append(versions, VersionData{Version: k, Entries: buckets[k].entries})
	}
	return versions, nil
}

// Load walks w and aggregates every fragment found, failing on the first
// problem.
func Load(w Walker, log *zap.Logger) ([]VersionData, error) {
	versions, err := Aggregate(Entries(w, log))
	if err != nil {
		return nil, err
	}
	if log != nil {
		for _, v := range versions {
			log.Debug("release collected", zap.String("version", v.Version), zap.Int("fragments", v.Count()))
		}
	}
	return versions, nil
}
