package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	"github.com/ariel-frischer/fraglog/internal/cli/shared"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Render the changelog from all fragments",
	Long: `Render the changelog from every fragment in the fragment directory.

Fragments are grouped by the release directory they sit in and passed to the
changelog template in ascending version order; the default template lists
the newest release first. The first fragment that cannot be read or decoded
stops the release and nothing is written. Use 'fraglog verify' to list every
problem at once.`,
	Example: `  # Write CHANGELOG.md
  fraglog release

  # Preview without writing
  fraglog release --dry-run

  # Ignore the project template and use the built-in one
  fraglog release --default-template

  # Write somewhere else
  fraglog release --output docs/CHANGES.md`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}
		var opts releaseOptions
		opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
		opts.DefaultTemplate, _ = cmd.Flags().GetBool("default-template")
		opts.Output, _ = cmd.Flags().GetString("output")
		return runRelease(env, opts)
	},
}

func init() {
	releaseCmd.GroupID = shared.GroupFragments
	releaseCmd.Flags().Bool("dry-run", false, "Print the changelog instead of writing it")
	releaseCmd.Flags().Bool("default-template", false, "Use the built-in template instead of the configured one")
	releaseCmd.Flags().StringP("output", "o", "", "Output file (default: changelog from config)")
	rootCmd.AddCommand(releaseCmd)
}

type releaseOptions struct {
	DryRun          bool
	DefaultTemplate bool
	Output          string
}

func runRelease(env *environment, opts releaseOptions) error {
	if err := env.requireFragmentDir(); err != nil {
		return err
	}

	source, err := loadTemplate(env, opts.DefaultTemplate)
	if err != nil {
		return err
	}

	versions, err := changelog.Load(env.walker(), env.Log)
	if err != nil {
		return clierrors.FragmentDecodeError(err)
	}

	var buf bytes.Buffer
	if err := changelog.Render(&buf, source, changelog.TemplateData(versions)); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "rendering changelog", "Check the changelog template syntax")
	}

	if opts.DryRun {
		_, err := env.Out.Write(buf.Bytes())
		return err
	}

	output := env.Config.ChangelogPath()
	if opts.Output != "" {
		output = resolvePath(env.Workdir, opts.Output)
	}
	if err := writeFile(output, buf.Bytes()); err != nil {
		return clierrors.FileNotWritable(output, err)
	}

	env.Log.Info("changelog written",
		zap.String("path", output),
		zap.Int("releases", len(versions)),
		zap.Int("fragments", changelog.EntryCount(versions)))
	fmt.Fprintf(env.Out, "Wrote %s (%d %s, %d %s)\n", output,
		len(versions), plural(len(versions), "release", "releases"),
		changelog.EntryCount(versions), plural(changelog.EntryCount(versions), "fragment", "fragments"))
	return nil
}

// loadTemplate returns the configured template source, or the embedded one
// when useDefault is set.
func loadTemplate(env *environment, useDefault bool) (string, error) {
	if useDefault {
		return changelog.DefaultTemplate(), nil
	}

	path := env.Config.TemplateFile()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", clierrors.TemplateNotFound(path)
		}
		return "", fmt.Errorf("reading changelog template: %w", err)
	}
	env.Log.Debug("template loaded", zap.String("path", path))
	return string(data), nil
}

// writeFile replaces path with data. Write and close errors are both
// reported.
func writeFile(path string, data []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	_, err = f.Write(data)
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
