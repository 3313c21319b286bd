package changelog

import _ "embed"

//go:embed default_template.md
var defaultTemplate string

// DefaultTemplate returns the template used when the fragment directory has
// none of its own.
func DefaultTemplate() string {
	return defaultTemplate
}
