package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/fraglog/internal/fragment"
)

func TestRenderString(t *testing.T) {
	versions := []VersionData{
		{Version: "0.1.0", Entries: []fragment.Fragment{
			fragment.New(map[string]fragment.Value{"issue": fragment.IntValue(1), "breaking": fragment.BoolValue(true)}, "  Old\n"),
		}},
		{Version: "0.2.0", Entries: entries("New")},
	}

	tests := map[string]struct {
		source string
		want   string
	}{
		"ascending by default": {
			source: "{{ range .versions }}{{ .Version }};{{ end }}",
			want:   "0.1.0;0.2.0;",
		},
		"newestFirst": {
			source: "{{ range newestFirst .versions }}{{ .Version }};{{ end }}",
			want:   "0.2.0;0.1.0;",
		},
		"sprig helpers": {
			source: "{{ range .versions }}{{ range .Entries }}{{ .Text | trim | upper }}{{ end }}{{ end }}",
			want:   "OLDNEW",
		},
		"header access": {
			source: `{{ with index .versions 0 }}{{ with index .Entries 0 }}{{ index .Meta "issue" }} {{ index .Meta "breaking" }}{{ end }}{{ end }}`,
			want:   "1 true",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := RenderString(tt.source, TemplateData(versions))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderString_EmptyData(t *testing.T) {
	got, err := RenderString(DefaultTemplate(), TemplateData(nil))
	require.NoError(t, err)
	assert.Equal(t, "# CHANGELOG\n", got)
}

func TestRenderString_Errors(t *testing.T) {
	tests := map[string]struct {
		source  string
		wantMsg string
	}{
		"parse error":   {source: "{{ range }", wantMsg: "parsing changelog template"},
		"unknown func":  {source: "{{ nosuchfunc }}", wantMsg: "parsing changelog template"},
		"execute error": {source: "{{ index .versions 5 }}", wantMsg: "rendering changelog template"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := RenderString(tt.source, TemplateData(nil))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
