package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigCmd_Subcommands(t *testing.T) {
	t.Parallel()

	names := make([]string, 0, len(configCmd.Commands()))
	for _, c := range configCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"show", "migrate"}, names)
	assert.NotNil(t, configShowCmd.RunE)
	assert.NotNil(t, configMigrateCmd.RunE)
}

func TestRunConfigShow_YAML(t *testing.T) {
	env, out, _ := newTestEnv(t, map[string]string{
		".fraglog.yml": "fragment_dir: notes\nheader:\n  issue:\n    type: int\n    required: true\n",
	})

	require.NoError(t, runConfigShow(env, false))

	output := out.String()
	assert.Contains(t, output, "# Configuration Sources")
	assert.Contains(t, output, "fragment_dir")
	assert.Contains(t, output, "project")

	var body struct {
		FragmentDir  string `yaml:"fragment_dir"`
		TemplatePath string `yaml:"template_path"`
		Header       map[string]struct {
			Type     string `yaml:"type"`
			Required bool   `yaml:"required"`
		} `yaml:"header"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(output), &body))
	assert.Equal(t, "notes", body.FragmentDir)
	assert.Equal(t, "template.md", body.TemplatePath)
	assert.Equal(t, "int", body.Header["issue"].Type)
	assert.True(t, body.Header["issue"].Required)
}

func TestRunConfigShow_JSON(t *testing.T) {
	env, out, _ := newTestEnv(t, nil)

	require.NoError(t, runConfigShow(env, true))

	var body map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	assert.Equal(t, ".changelogs", body["fragment_dir"])
	assert.Equal(t, "CHANGELOG.md", body["changelog"])
	assert.Equal(t, "toml", body["fragment_format"])
	assert.Equal(t, true, body["same_filesystem"])
}

func TestRunConfigMigrate_Project(t *testing.T) {
	tests := map[string]struct {
		dryRun     bool
		wantYAML   bool
		wantBackup bool
		wantOutput string
	}{
		"migrates and backs up": {
			dryRun:     false,
			wantYAML:   true,
			wantBackup: true,
			wantOutput: "Migrated ",
		},
		"dry run writes nothing": {
			dryRun:     true,
			wantYAML:   false,
			wantBackup: false,
			wantOutput: "Would migrate ",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			workdir := t.TempDir()
			writeFiles(t, workdir, map[string]string{
				".fraglog.json": `{"fragment_dir": "notes", "header": {"issue": {"type": "int", "default": 0}}}`,
			})

			var out bytes.Buffer
			require.NoError(t, runConfigMigrate(&out, workdir, migrateOptions{Project: true, DryRun: tt.dryRun}))

			assert.Contains(t, out.String(), tt.wantOutput)
			yamlPath := filepath.Join(workdir, ".fraglog.yml")
			backup := filepath.Join(workdir, ".fraglog.json.bak")
			if tt.wantYAML {
				content := readFile(t, yamlPath)
				assert.Contains(t, content, "fragment_dir: notes")
				assert.Contains(t, content, "default: 0")
			} else {
				assert.NoFileExists(t, yamlPath)
			}
			if tt.wantBackup {
				assert.FileExists(t, backup)
				assert.NoFileExists(t, filepath.Join(workdir, ".fraglog.json"))
			} else {
				assert.NoFileExists(t, backup)
			}
		})
	}
}

func TestRunConfigMigrate_NothingToDo(t *testing.T) {
	workdir := t.TempDir()

	var out bytes.Buffer
	require.NoError(t, runConfigMigrate(&out, workdir, migrateOptions{Project: true}))

	assert.True(t, strings.HasPrefix(out.String(), "No JSON config found at "))
	entries, err := os.ReadDir(workdir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
