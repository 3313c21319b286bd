// Package config tests layered configuration loading and validation.
// Related: internal/config/config.go, internal/config/validate.go
// Tags: config, koanf, validation, env

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/fraglog/internal/fragment"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func loadTestConfig(t *testing.T, workdir string, warnings *bytes.Buffer) (*Configuration, error) {
	t.Helper()
	opts := LoadOptions{Workdir: workdir, SkipUserConfig: true, SkipWarnings: warnings == nil}
	if warnings != nil {
		opts.WarningWriter = warnings
	}
	return LoadWithOptions(opts)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := loadTestConfig(t, dir, nil)
	require.NoError(t, err)

	assert.Equal(t, ".changelogs", cfg.FragmentDir)
	assert.Equal(t, "template.md", cfg.TemplatePath)
	assert.Equal(t, "CHANGELOG.md", cfg.Changelog)
	assert.Equal(t, "toml", cfg.FragmentFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.SameFileSystem)
	assert.Empty(t, cfg.Header)

	assert.Equal(t, filepath.Join(dir, ".changelogs"), cfg.FragmentPath())
	assert.Equal(t, filepath.Join(dir, ".changelogs", "template.md"), cfg.TemplateFile())
	assert.Equal(t, filepath.Join(dir, "CHANGELOG.md"), cfg.ChangelogPath())
	assert.Equal(t, SourceDefault, cfg.Sources["fragment_dir"])

	format, err := cfg.Format()
	require.NoError(t, err)
	assert.Equal(t, fragment.FormatTOML, format)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, ProjectConfigPath(dir), `fragment_dir: notes
fragment_format: yaml
header:
  issue:
    type: int
    required: true
  type:
    type: text
    default: changed
`)

	cfg, err := loadTestConfig(t, dir, nil)
	require.NoError(t, err)

	assert.Equal(t, "notes", cfg.FragmentDir)
	assert.Equal(t, "template.md", cfg.TemplatePath)
	assert.Equal(t, SourceProject, cfg.Sources["fragment_dir"])
	assert.Equal(t, SourceProject, cfg.Sources["header"])
	assert.Equal(t, SourceDefault, cfg.Sources["changelog"])
	assert.Equal(t, HeaderField{Type: "int", Required: true}, cfg.Header["issue"])
	assert.Equal(t, "changed", cfg.Header["type"].Default)

	format, err := cfg.Format()
	require.NoError(t, err)
	assert.Equal(t, fragment.FormatYAML, format)
}

func TestLoad_LegacyJSON(t *testing.T) {
	t.Parallel()

	t.Run("used with warning", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, LegacyProjectConfigPath(dir), `{"fragment_dir": "legacy", "header": {"issue": {"type": "int", "default": 0}}}`)

		var warnings bytes.Buffer
		cfg, err := loadTestConfig(t, dir, &warnings)
		require.NoError(t, err)
		assert.Equal(t, "legacy", cfg.FragmentDir)
		assert.Contains(t, warnings.String(), "deprecated JSON config")
		assert.Contains(t, warnings.String(), "fraglog config migrate --project")
	})

	t.Run("ignored next to yaml", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, LegacyProjectConfigPath(dir), `{"fragment_dir": "legacy"}`)
		writeFile(t, ProjectConfigPath(dir), "fragment_dir: modern\n")

		var warnings bytes.Buffer
		cfg, err := loadTestConfig(t, dir, &warnings)
		require.NoError(t, err)
		assert.Equal(t, "modern", cfg.FragmentDir)
		assert.Contains(t, warnings.String(), "Legacy JSON config found")
	})
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, ProjectConfigPath(dir), "fragment_dir: notes\n")
	t.Setenv("FRAGLOG_FRAGMENT_DIR", "from-env")
	t.Setenv("FRAGLOG_SAME_FILESYSTEM", "false")

	cfg, err := loadTestConfig(t, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.FragmentDir)
	assert.False(t, cfg.SameFileSystem)
	assert.Equal(t, SourceEnv, cfg.Sources["fragment_dir"])
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadWithOptions(LoadOptions{
		Workdir:           dir,
		ProjectConfigPath: filepath.Join(dir, "missing.yml"),
		SkipUserConfig:    true,
	})
	var notFound *ConfigNotFoundError
	require.ErrorAs(t, err, &notFound)

	custom := filepath.Join(dir, "custom.yml")
	writeFile(t, custom, "changelog: docs/CHANGES.md\n")
	cfg, err := LoadWithOptions(LoadOptions{Workdir: dir, ProjectConfigPath: custom, SkipUserConfig: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "docs", "CHANGES.md"), cfg.ChangelogPath())
}

func TestLoad_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content   string
		wantField string
		wantMsg   string
		wantLine  int
	}{
		"bad fragment format": {
			content:   "fragment_format: json\n",
			wantField: "fragment_format",
			wantMsg:   "must be one of: toml, yaml, yml",
		},
		"bad log level": {
			content:   "log_level: loud\n",
			wantField: "log_level",
		},
		"empty fragment dir": {
			content:   "fragment_dir: \"\"\n",
			wantField: "fragment_dir",
			wantMsg:   "is required",
		},
		"bad header type": {
			content:   "header:\n  issue:\n    type: float\n",
			wantField: "header[issue].type",
		},
		"default does not match type": {
			content:   "header:\n  issue:\n    type: int\n    default: abc\n",
			wantField: "header",
			wantMsg:   `header field "issue" default`,
		},
		"absolute template path": {
			content:   "template_path: /etc/template.md\n",
			wantField: "template_path",
		},
		"yaml syntax": {
			content:  "fragment_dir: a\n\tchangelog: b\n",
			wantLine: 2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, ProjectConfigPath(dir), tt.content)

			_, err := loadTestConfig(t, dir, nil)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, vErr.Field)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, vErr.Message, tt.wantMsg)
			}
			if tt.wantLine > 0 {
				assert.Equal(t, tt.wantLine, vErr.Line)
			}
		})
	}
}

func TestValidateYAMLSyntax(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := map[string]struct {
		content *string
		wantErr bool
	}{
		"missing file": {},
		"empty file":   {content: ptr("  \n")},
		"valid":        {content: ptr("fragment_dir: x\n")},
		"invalid":      {content: ptr("a: [1, 2\n"), wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(dir, name+".yml")
			if tt.content != nil {
				writeFile(t, path, *tt.content)
			}
			err := ValidateYAMLSyntax(path)
			if tt.wantErr {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, path, vErr.FilePath)
				return
			}
			assert.NoError(t, err)
		})
	}

	assert.NoError(t, validateYAMLBytes([]byte("a: 1\n"), "inline"))
	assert.Error(t, validateYAMLBytes([]byte("a: 1\n\tb: 2\n"), "inline"))
}

func ptr(s string) *string { return &s }
