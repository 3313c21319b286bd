// Package changelog turns a tree of changelog fragments into release data.
//
// The package implements:
//   - a bounded, symlink-free directory walk (Walker)
//   - release detection from semver path components (VersionFromPath)
//   - one decode pipeline over the tree (Entries), folded two ways:
//     Aggregate stops at the first error, Verify collects all of them
//   - text/template rendering with sprig helpers (Render)
//   - lookup and terminal display of aggregated releases
//
// A fragment belongs to the first directory in its path, relative to the
// fragment directory, whose name is a strict semantic version:
//
//	.changelogs/
//	  template.md
//	  0.1.0/
//	    fix-crash.md
//	  0.2.0/
//	    features/dry-run.md
package changelog
