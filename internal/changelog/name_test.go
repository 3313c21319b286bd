package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input    string
		expected string
	}{
		"basic sentence":            {input: "Fix login redirect", expected: "fix-login-redirect"},
		"special characters":        {input: "Auth: handle & log errors", expected: "auth-handle-log-errors"},
		"extra whitespace":          {input: "  Drop   Go 1.21  ", expected: "drop-go-1-21"},
		"empty string":              {input: "", expected: ""},
		"special characters only":   {input: "!@#$%^&*()", expected: ""},
		"unicode dropped":           {input: "Fix 日本語 output", expected: "fix-output"},
		"consecutive special chars": {input: "foo---bar___baz", expected: "foo-bar-baz"},
		"exactly the limit":         {input: "abcdefghijklmnopqrstuvwxyzabcdefghijklmn", expected: "abcdefghijklmnopqrstuvwxyzabcdefghijklmn"},
		"truncated":                 {input: "abcdefghijklmnopqrstuvwxyzabcdefghijklmno", expected: "abcdefghijklmnopqrstuvwxyzabcdefghijklmn"},
		"truncation avoids hyphen":  {input: "abcdefghijklmnopqrstuvwxyzabcdefghijklm nop", expected: "abcdefghijklmnopqrstuvwxyzabcdefghijklm"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestFragmentFileName(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text     string
		expected string
	}{
		"first line used":     {text: "Fix login redirect\n\nLonger explanation.\n", expected: "fix-login-redirect.md"},
		"leading blank lines": {text: "\n\n  Add --plain flag\n", expected: "add-plain-flag.md"},
		"empty text":          {text: "", expected: "change.md"},
		"symbols only":        {text: "***\n", expected: "change.md"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FragmentFileName(tt.text))
		})
	}
}
