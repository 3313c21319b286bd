package fragment

import (
	"fmt"
	"strings"
)

// Format is the header syntax of a fragment, selected by its delimiter.
type Format int

const (
	FormatTOML Format = iota + 1
	FormatYAML
)

const (
	tomlDelimiter = "+++"
	yamlDelimiter = "---"
)

// Delimiter returns the delimiter line that opens and closes a header of
// this format.
func (f Format) Delimiter() string {
	switch f {
	case FormatTOML:
		return tomlDelimiter
	case FormatYAML:
		return yamlDelimiter
	default:
		return ""
	}
}

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat converts "toml" or "yaml" into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unknown fragment format %q (valid: toml, yaml)", s)
	}
}

// Parts is a fragment split at its header delimiters.
type Parts struct {
	Header string
	Body   string
	Format Format
	// HeaderLine is the file line number of the opening delimiter.
	// Header line n is file line HeaderLine+n.
	HeaderLine int
}

// Split locates the header of a fragment. Leading blank lines are ignored;
// the first other line must be a delimiter, and the header runs up to the
// next delimiter line of the same kind. One newline after the closing
// delimiter is dropped and the rest is returned as the body unchanged.
func Split(text string) (Parts, error) {
	rest := text
	line := 0

	var opening string
	for {
		if rest == "" {
			return Parts{}, ErrHeaderSeparatorMissing
		}
		opening, rest = cutLine(rest)
		line++
		if strings.TrimSpace(opening) != "" {
			break
		}
	}

	format, ok := delimiterFormat(opening)
	if !ok {
		return Parts{}, ErrHeaderSeparatorMissing
	}

	openLine := line
	headerStart := len(text) - len(rest)
	for rest != "" {
		pos := len(text) - len(rest)
		var l string
		l, rest = cutLine(rest)
		line++

		found, ok := delimiterFormat(l)
		if !ok {
			continue
		}
		if found != format {
			return Parts{}, &ExpectedSeparatorError{
				Expected: format.Delimiter(),
				Found:    trimEOL(l),
				Line:     line,
			}
		}
		return Parts{
			Header:     text[headerStart:pos],
			Body:       stripLeadingNewline(rest),
			Format:     format,
			HeaderLine: openLine,
		}, nil
	}

	return Parts{}, &ExpectedSeparatorError{Expected: format.Delimiter(), Line: line}
}

// cutLine returns the first line of s including its newline, and the rest.
func cutLine(s string) (string, string) {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i+1], s[i+1:]
	}
	return s, ""
}

func trimEOL(l string) string {
	return strings.TrimSuffix(strings.TrimSuffix(l, "\n"), "\r")
}

func delimiterFormat(l string) (Format, bool) {
	switch trimEOL(l) {
	case tomlDelimiter:
		return FormatTOML, true
	case yamlDelimiter:
		return FormatYAML, true
	default:
		return 0, false
	}
}

func stripLeadingNewline(s string) string {
	if strings.HasPrefix(s, "\r\n") {
		return s[2:]
	}
	return strings.TrimPrefix(s, "\n")
}
