package changelog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	fragFirst  = "+++\nissue = 123\n+++\n\nFirst change\n"
	fragSecond = "---\nissue: 234\n---\n\nSecond change\n"
)

// writeTree creates files (slash-separated paths relative to a new temp
// dir) and returns the temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func collectFiles(t *testing.T, w Walker) ([]string, []error) {
	t.Helper()

	var rels []string
	var errs []error
	for c, err := range w.Files() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rels = append(rels, c.Rel)
	}
	return rels, errs
}
