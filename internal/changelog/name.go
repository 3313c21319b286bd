package changelog

import (
	"regexp"
	"strings"
)

// MaxNameLength is the maximum length of a generated fragment name, without
// its extension.
const MaxNameLength = 40

// FragmentExt is the extension of generated fragment files.
const FragmentExt = ".md"

var nonAlphanumRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a line of text into a filename-safe slug: lowercase,
// runs of other characters collapsed to one hyphen, no leading or trailing
// hyphen, at most MaxNameLength characters.
//
// Examples:
//   - "Fix login redirect" -> "fix-login-redirect"
//   - "Auth: handle & log errors" -> "auth-handle-log-errors"
func Slugify(text string) string {
	slug := nonAlphanumRegexp.ReplaceAllString(strings.ToLower(text), "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > MaxNameLength {
		slug = strings.TrimSuffix(slug[:MaxNameLength], "-")
	}
	return slug
}

// FragmentFileName derives a file name for a fragment from the first
// non-blank line of its text. Text without usable characters yields
// "change.md".
func FragmentFileName(text string) string {
	var first string
	for line := range strings.Lines(text) {
		if s := strings.TrimSpace(line); s != "" {
			first = s
			break
		}
	}

	slug := Slugify(first)
	if slug == "" {
		slug = "change"
	}
	return slug + FragmentExt
}
