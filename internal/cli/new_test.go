package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	"github.com/ariel-frischer/fraglog/internal/cli/shared"
	"github.com/ariel-frischer/fraglog/internal/fragment"
)

const newHeaderConfig = `header:
  issue:
    type: int
  type:
    type: text
    default: changed
  breaking:
    type: bool
`

func TestRunNew_WritesFragment(t *testing.T) {
	env, out, _ := newTestEnv(t, map[string]string{".fraglog.yml": newHeaderConfig})

	err := runNew(env, newOptions{
		Version: "v1.4.0",
		Set:     []string{"issue=42", "breaking=true", "owner=ops"},
		Text:    "Fix login redirect\n\nUsers landed on a blank page.",
	})
	require.NoError(t, err)

	path := filepath.Join(env.Workdir, ".changelogs", "1.4.0", "fix-login-redirect.md")
	assert.Equal(t, "Created "+filepath.Join(".changelogs", "1.4.0", "fix-login-redirect.md")+"\n", out.String())

	content := readFile(t, path)
	assert.True(t, strings.HasPrefix(content, "+++\n"), content)

	f, err := fragment.Parse([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, map[string]fragment.Value{
		"issue":    fragment.IntValue(42),
		"breaking": fragment.BoolValue(true),
		"owner":    fragment.TextValue("ops"),
		"type":     fragment.TextValue("changed"),
	}, f.Header())
	assert.Equal(t, "Fix login redirect\n\nUsers landed on a blank page.\n", f.Text())
}

func TestRunNew_IsPickedUpByRelease(t *testing.T) {
	env, _, _ := newTestEnv(t, nil)

	require.NoError(t, runNew(env, newOptions{Version: "0.1.0", Set: []string{"issue=123"}, Text: "First change"}))
	require.NoError(t, runNew(env, newOptions{Version: "0.2.0", Set: []string{"issue=234"}, Text: "Second change", Format: "yaml"}))

	versions, err := changelog.Load(env.walker(), env.Log)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "0.1.0", versions[0].Version)
	assert.Equal(t, "0.2.0", versions[1].Version)

	rendered, err := changelog.RenderString(changelog.DefaultTemplate(), changelog.TemplateData(versions))
	require.NoError(t, err)
	assert.Equal(t, wantDefaultChangelog, rendered)
}

func TestRunNew_Formats(t *testing.T) {
	tests := map[string]struct {
		config     string
		flag       string
		wantPrefix string
	}{
		"config default": {config: "log_level: warn\n", flag: "", wantPrefix: "+++\n"},
		"config yaml":    {config: "fragment_format: yaml\n", flag: "", wantPrefix: "---\n"},
		"flag overrides": {config: "fragment_format: yaml\n", flag: "toml", wantPrefix: "+++\n"},
		"flag yml alias": {config: "log_level: warn\n", flag: "yml", wantPrefix: "---\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env, _, _ := newTestEnv(t, map[string]string{".fraglog.yml": tt.config})

			require.NoError(t, runNew(env, newOptions{Version: "1.0.0", Set: []string{"issue=1"}, Text: "Change", Format: tt.flag}))

			content := readFile(t, filepath.Join(env.Workdir, ".changelogs", "1.0.0", "change.md"))
			assert.True(t, strings.HasPrefix(content, tt.wantPrefix), content)
		})
	}
}

func TestRunNew_TextFromStdin(t *testing.T) {
	env, _, _ := newTestEnv(t, nil)

	err := runNew(env, newOptions{Version: "1.0.0", Text: "-", Name: "stdin.md", In: strings.NewReader("\nFrom stdin\n\n")})
	require.NoError(t, err)

	f, err := changelog.ReadFragment(filepath.Join(env.Workdir, ".changelogs", "1.0.0", "stdin.md"))
	require.NoError(t, err)
	assert.Equal(t, "From stdin\n", f.Text())
	assert.Empty(t, f.Header())
}

func TestRunNew_Errors(t *testing.T) {
	tests := map[string]struct {
		opts        newOptions
		wantMessage string
	}{
		"not semver":          {opts: newOptions{Version: "1.4", Text: "x"}, wantMessage: "invalid release version: 1.4"},
		"leading zero":        {opts: newOptions{Version: "01.4.0", Text: "x"}, wantMessage: "invalid release version"},
		"set without equals":  {opts: newOptions{Version: "1.0.0", Text: "x", Set: []string{"issue"}}, wantMessage: "invalid --set value"},
		"set without key":     {opts: newOptions{Version: "1.0.0", Text: "x", Set: []string{"=1"}}, wantMessage: "invalid --set value"},
		"declared type":       {opts: newOptions{Version: "1.0.0", Text: "x", Set: []string{"issue=abc"}}, wantMessage: `header "issue": expected int, received text`},
		"empty text":          {opts: newOptions{Version: "1.0.0", Text: "  \n"}, wantMessage: "fragment text is required"},
		"unknown format":      {opts: newOptions{Version: "1.0.0", Text: "x", Format: "xml"}, wantMessage: "invalid --format value"},
		"name with directory": {opts: newOptions{Version: "1.0.0", Text: "x", Name: "a/b.md"}, wantMessage: "invalid fragment name"},
		"dot dot name":        {opts: newOptions{Version: "1.0.0", Text: "x", Name: ".."}, wantMessage: "invalid fragment name"},
		"template name":       {opts: newOptions{Version: "1.0.0", Text: "x", Name: "template.md"}, wantMessage: "reserved for the changelog template"},
		"template from text":  {opts: newOptions{Version: "1.0.0", Text: "Template"}, wantMessage: "reserved for the changelog template"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env, _, _ := newTestEnv(t, map[string]string{".fraglog.yml": newHeaderConfig})

			err := runNew(env, tt.opts)
			require.Error(t, err)
			assert.Equal(t, shared.ExitInvalidArguments, shared.ExitCode(err))
			assert.Contains(t, err.Error(), tt.wantMessage)
			assert.NoDirExists(t, filepath.Join(env.Workdir, ".changelogs", "1.0.0"))
		})
	}
}

func TestRunNew_DataTypeErrorIsExposed(t *testing.T) {
	env, _, _ := newTestEnv(t, map[string]string{".fraglog.yml": newHeaderConfig})

	err := runNew(env, newOptions{Version: "1.0.0", Text: "x", Set: []string{"breaking=maybe"}})

	var typeErr *fragment.DataTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "breaking", typeErr.Key)
	assert.Equal(t, fragment.KindBool, typeErr.Expected)
}

func TestRunNew_RequiredField(t *testing.T) {
	env, _, _ := newTestEnv(t, map[string]string{".fraglog.yml": requiredIssueConfig})

	err := runNew(env, newOptions{Version: "1.0.0", Text: "No issue"})
	require.Error(t, err)
	assert.Equal(t, shared.ExitInvalidArguments, shared.ExitCode(err))

	var missing *fragment.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "issue", missing.Key)
}

func TestRunNew_ExistingFragment(t *testing.T) {
	env, _, _ := newTestEnv(t, nil)
	opts := newOptions{Version: "1.0.0", Text: "Same text"}
	path := filepath.Join(env.Workdir, ".changelogs", "1.0.0", "same-text.md")

	require.NoError(t, runNew(env, opts))

	opts.Text = "Same text\n\nsecond version"
	err := runNew(env, opts)
	assert.Equal(t, shared.ExitInvalidArguments, shared.ExitCode(err))
	assert.Contains(t, err.Error(), "fragment already exists")

	opts.Force = true
	require.NoError(t, runNew(env, opts))

	f, err := changelog.ReadFragment(path)
	require.NoError(t, err)
	assert.Equal(t, "Same text\n\nsecond version\n", f.Text())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
