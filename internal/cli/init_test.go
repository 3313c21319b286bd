package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	"github.com/ariel-frischer/fraglog/internal/config"
)

func TestRunInit_Fresh(t *testing.T) {
	env, out, _ := newTestEnv(t, nil)

	require.NoError(t, runInit(env, false))

	assert.Equal(t, config.GetDefaultConfigTemplate(), readFile(t, filepath.Join(env.Workdir, ".fraglog.yml")))
	assert.Equal(t, changelog.DefaultTemplate(), readFile(t, filepath.Join(env.Workdir, ".changelogs", "template.md")))
	assert.Contains(t, out.String(), "✓ Created .fraglog.yml\n")
	assert.Contains(t, out.String(), "✓ Created "+filepath.Join(".changelogs", "template.md")+"\n")
}

func TestRunInit_GeneratedConfigLoads(t *testing.T) {
	env, _, _ := newTestEnv(t, nil)
	require.NoError(t, runInit(env, false))

	var out, errOut bytes.Buffer
	reloaded, err := newEnvironment(globalOptions{Workdir: env.Workdir, SkipUserConfig: true}, &out, &errOut)
	require.NoError(t, err)

	fs, ok := mustSchema(t, reloaded).Field("issue")
	require.True(t, ok)
	assert.False(t, fs.Required)

	require.NoError(t, runRelease(reloaded, releaseOptions{DryRun: true}))
	assert.Equal(t, "# CHANGELOG\n", out.String())
}

func mustSchema(t *testing.T, env *environment) *config.HeaderSchema {
	t.Helper()

	schema, err := env.headerSchema()
	require.NoError(t, err)
	return schema
}

func TestRunInit_KeepsExistingFiles(t *testing.T) {
	env, out, _ := newTestEnv(t, map[string]string{
		".fraglog.yml":            "log_level: info\n",
		".changelogs/template.md": "custom",
	})

	require.NoError(t, runInit(env, false))

	assert.Equal(t, "log_level: info\n", readFile(t, filepath.Join(env.Workdir, ".fraglog.yml")))
	assert.Equal(t, "custom", readFile(t, filepath.Join(env.Workdir, ".changelogs", "template.md")))
	assert.Contains(t, out.String(), "- .fraglog.yml already exists (use --force to overwrite)")
}

func TestRunInit_Force(t *testing.T) {
	env, out, _ := newTestEnv(t, map[string]string{
		".fraglog.yml":            "log_level: info\n",
		".changelogs/template.md": "custom",
	})

	require.NoError(t, runInit(env, true))

	assert.Equal(t, config.GetDefaultConfigTemplate(), readFile(t, filepath.Join(env.Workdir, ".fraglog.yml")))
	assert.Equal(t, changelog.DefaultTemplate(), readFile(t, filepath.Join(env.Workdir, ".changelogs", "template.md")))
	assert.Contains(t, out.String(), "✓ Overwrote .fraglog.yml")
}

func TestRunInit_CustomLayout(t *testing.T) {
	env, _, _ := newTestEnv(t, map[string]string{
		".fraglog.yml": "fragment_dir: notes\ntemplate_path: tpl/changes.md\n",
	})

	require.NoError(t, runInit(env, false))

	assert.DirExists(t, filepath.Join(env.Workdir, "notes"))
	assert.FileExists(t, filepath.Join(env.Workdir, "notes", "tpl", "changes.md"))
}
