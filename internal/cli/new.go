package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	"github.com/ariel-frischer/fraglog/internal/cli/shared"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
	"github.com/ariel-frischer/fraglog/internal/fragment"
)

var newCmd = &cobra.Command{
	Use:   "new <version>",
	Short: "Write a new fragment for a release",
	Long: `Write a new fragment into the release directory for <version>.

Header fields are given with --set key=value. Fields declared in the 'header'
section of the config are parsed as their declared type and missing fields
get their configured default. Undeclared keys become an integer or boolean
when the value reads as one, and text otherwise. Required fields must be
present.

The file name is derived from the first line of the text unless --name is
given. Existing fragments are never overwritten without --force.`,
	Example: `  # Record a fix for 1.4.0
  fraglog new 1.4.0 --set issue=42 --text "Fix login redirect"

  # Read the body from stdin
  git log -1 --format=%B | fraglog new 1.4.0 --text -

  # YAML header and a fixed file name
  fraglog new v2.0.0-rc.1 --format yaml --name breaking-api.md --text "Drop the v1 API"`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return clierrors.MissingVersionArgument()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}
		opts := newOptions{Version: args[0], In: cmd.InOrStdin()}
		opts.Set, _ = cmd.Flags().GetStringArray("set")
		opts.Text, _ = cmd.Flags().GetString("text")
		opts.Format, _ = cmd.Flags().GetString("format")
		opts.Name, _ = cmd.Flags().GetString("name")
		opts.Force, _ = cmd.Flags().GetBool("force")
		return runNew(env, opts)
	},
}

func init() {
	newCmd.GroupID = shared.GroupFragments
	newCmd.Flags().StringArrayP("set", "s", nil, "Header field as key=value (repeatable)")
	newCmd.Flags().StringP("text", "t", "", "Fragment text ('-' reads stdin)")
	newCmd.Flags().StringP("format", "f", "", "Header syntax: toml or yaml (default: fragment_format from config)")
	newCmd.Flags().StringP("name", "n", "", "File name (default: derived from the text)")
	newCmd.Flags().Bool("force", false, "Overwrite an existing fragment")
	rootCmd.AddCommand(newCmd)
}

type newOptions struct {
	Version string
	Set     []string
	Text    string
	Format  string
	Name    string
	Force   bool
	In      io.Reader
}

func runNew(env *environment, opts newOptions) error {
	version := changelog.NormalizeVersion(opts.Version)
	if _, err := semver.StrictNewVersion(version); err != nil {
		return clierrors.InvalidVersion(opts.Version)
	}

	format, err := newFragmentFormat(env, opts.Format)
	if err != nil {
		return err
	}

	text, err := readFragmentText(opts.Text, opts.In)
	if err != nil {
		return err
	}

	schema, err := env.headerSchema()
	if err != nil {
		return err
	}

	header := make(map[string]fragment.Value, len(opts.Set))
	for _, raw := range opts.Set {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return clierrors.InvalidSetFlag(raw)
		}
		v, err := schema.Coerce(key, value)
		if err != nil {
			return clierrors.InvalidHeaderValue(err)
		}
		header[key] = v
	}

	frag := fragment.New(schema.ApplyDefaults(header), text)
	if errs := schema.Check(frag); len(errs) > 0 {
		return clierrors.InvalidHeaderValue(errors.Join(errs...))
	}

	name := opts.Name
	if name == "" {
		name = changelog.FragmentFileName(text)
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return clierrors.NewArgumentError(
			fmt.Sprintf("invalid fragment name: %q", name),
			"--name must be a plain file name without directories",
		)
	}
	if env.walker().Excluded(filepath.ToSlash(filepath.Join(version, name))) {
		return clierrors.NewArgumentError(
			fmt.Sprintf("fragment name %q is reserved for the changelog template", name),
			"Pick another --name",
		)
	}

	dir := filepath.Join(env.Config.FragmentPath(), version)
	path := filepath.Join(dir, name)
	if _, err := os.Lstat(path); err == nil && !opts.Force {
		return clierrors.FragmentExists(path)
	}

	var buf bytes.Buffer
	if err := fragment.Encode(&buf, frag, format); err != nil {
		return fmt.Errorf("encoding fragment: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return clierrors.FileNotWritable(dir, err)
	}
	if err := writeFile(path, buf.Bytes()); err != nil {
		return clierrors.FileNotWritable(path, err)
	}

	env.Log.Info("fragment written",
		zap.String("path", path),
		zap.String("version", version),
		zap.Stringer("format", format))
	fmt.Fprintf(env.Out, "Created %s\n", displayPath(env.Workdir, path))
	return nil
}

// newFragmentFormat returns the header syntax from the flag, or the
// configured one when the flag is empty.
func newFragmentFormat(env *environment, flag string) (fragment.Format, error) {
	if flag == "" {
		format, err := env.Config.Format()
		if err != nil {
			return 0, clierrors.Wrap(err, clierrors.Configuration)
		}
		return format, nil
	}

	format, err := fragment.ParseFormat(flag)
	if err != nil {
		return 0, clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("invalid --format value: %q", flag),
			"fraglog new <version> --format toml|yaml",
		)
	}
	return format, nil
}

// readFragmentText returns the body for a new fragment, reading in when
// text is "-". The result always ends with a newline.
func readFragmentText(text string, in io.Reader) (string, error) {
	if text == "-" {
		if in == nil {
			return "", clierrors.MissingText()
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("reading fragment text: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", clierrors.MissingText()
	}
	return text + "\n", nil
}

// displayPath shortens path relative to the workdir for messages.
func displayPath(workdir, path string) string {
	if rel, err := filepath.Rel(workdir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
