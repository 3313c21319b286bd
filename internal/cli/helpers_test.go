package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	fragFirst  = "+++\nissue = 123\n+++\n\nFirst change\n"
	fragSecond = "---\nissue: 234\n---\n\nSecond change\n"
)

// writeFiles creates files (slash-separated paths relative to dir).
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// newTestEnv builds a plain-output environment for a fresh workdir holding
// files. The user config is ignored.
func newTestEnv(t *testing.T, files map[string]string) (*environment, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	workdir := t.TempDir()
	writeFiles(t, workdir, files)

	var out, errOut bytes.Buffer
	env, err := newEnvironment(globalOptions{
		Workdir:        workdir,
		Plain:          true,
		SkipUserConfig: true,
	}, &out, &errOut)
	require.NoError(t, err)
	return env, &out, &errOut
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
