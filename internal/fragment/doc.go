// Package fragment parses changelog fragment files.
//
// A fragment is a small text file describing one pending change. It starts
// with a metadata header between two delimiter lines and continues with a
// free-text body:
//
//	+++
//	issue = 123
//	subject = "Fix crash on empty input"
//	+++
//
//	Body text, passed through unchanged.
//
// The delimiter selects the header syntax: "+++" means TOML and "---" means
// YAML. The header is decoded without a schema into a map of [Value], a
// closed variant of integer, text, boolean and null.
package fragment
