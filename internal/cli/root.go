// Package cli implements the fraglog command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	"github.com/ariel-frischer/fraglog/internal/cli/shared"
	"github.com/ariel-frischer/fraglog/internal/config"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
	"github.com/ariel-frischer/fraglog/internal/git"
	"github.com/ariel-frischer/fraglog/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "fraglog",
	Short: "Aggregate changelog fragments into a changelog",
	Long: `fraglog collects small changelog fragment files and renders them into a
changelog.

Each fragment is a text file with a TOML (+++) or YAML (---) header followed
by a body. Fragments live below the fragment directory in a directory named
after the release they ship in, e.g. .changelogs/1.4.0/fix-login.md.

Workdir resolution:
  1. --workdir, if given
  2. the root of the git repository containing the current directory
  3. the current directory`,
	Example: `  # Set up the fragment directory and config
  fraglog init

  # Record a change for release 1.4.0
  fraglog new 1.4.0 --set issue=42 --text "Fix login redirect"

  # Check every fragment
  fraglog verify

  # Write CHANGELOG.md
  fraglog release`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: shared.GroupGettingStarted, Title: "Getting Started:"},
		&cobra.Group{ID: shared.GroupFragments, Title: "Fragments:"},
		&cobra.Group{ID: shared.GroupConfiguration, Title: "Configuration:"},
	)

	rootCmd.PersistentFlags().StringP("workdir", "C", "", "Project directory (default: repository root or current directory)")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the project config file (default: <workdir>/.fraglog.yml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable informational logging")
	rootCmd.PersistentFlags().Bool("plain", false, "Plain output without colors or icons")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierrors.Wrap(err, clierrors.Argument, "Run 'fraglog --help' for usage")
	})
}

// Execute runs the root command. Errors are printed to stderr before being
// returned; use shared.ExitCode to turn them into an exit status.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		if cmd == nil {
			cmd = rootCmd
		}
		reportError(cmd, err)
	}
	return err
}

// reportError prints err unless the command already reported it.
func reportError(cmd *cobra.Command, err error) {
	var exitErr *shared.ExitError
	if errors.As(err, &exitErr) {
		return
	}
	plain := false
	if f := cmd.Flag("plain"); f != nil {
		plain = f.Value.String() == "true"
	}
	clierrors.FprintError(cmd.ErrOrStderr(), clierrors.FromError(err, clierrors.Runtime), plain)
}

// globalOptions holds the persistent flags every command shares.
type globalOptions struct {
	Workdir    string
	ConfigPath string
	Debug      bool
	Verbose    bool
	Plain      bool
	// SkipUserConfig ignores ~/.config/fraglog; set by tests.
	SkipUserConfig bool
}

func globalOptionsFrom(cmd *cobra.Command) globalOptions {
	var opts globalOptions
	opts.Workdir, _ = cmd.Flags().GetString("workdir")
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.Debug, _ = cmd.Flags().GetBool("debug")
	opts.Verbose, _ = cmd.Flags().GetBool("verbose")
	opts.Plain, _ = cmd.Flags().GetBool("plain")
	return opts
}

// environment is what a command runs against: the resolved workdir, its
// configuration, a logger and the output streams.
type environment struct {
	Workdir string
	Config  *config.Configuration
	Log     *zap.Logger
	Out     io.Writer
	ErrOut  io.Writer
	Plain   bool
}

// loadEnvironment resolves the command's environment from its flags.
func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	return newEnvironment(globalOptionsFrom(cmd), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func newEnvironment(opts globalOptions, out, errOut io.Writer) (*environment, error) {
	workdir, source, err := resolveWorkdir(opts.Workdir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		Workdir:           workdir,
		ProjectConfigPath: opts.ConfigPath,
		WarningWriter:     errOut,
		SkipUserConfig:    opts.SkipUserConfig,
	})
	if err != nil {
		var notFound *config.ConfigNotFoundError
		if errors.As(err, &notFound) {
			return nil, clierrors.ConfigFileNotFound(notFound.Path)
		}
		return nil, clierrors.ConfigParseError(err)
	}

	log, err := newLogger(opts, cfg.LogLevel, errOut)
	if err != nil {
		return nil, clierrors.Wrap(err, clierrors.Configuration)
	}
	git.SetDebugLogger(logging.DebugHook(log))
	log.Debug("workdir resolved", zap.String("path", workdir), zap.String("source", source))

	return &environment{
		Workdir: workdir,
		Config:  cfg,
		Log:     log,
		Out:     out,
		ErrOut:  errOut,
		Plain:   opts.Plain,
	}, nil
}

func newLogger(opts globalOptions, configured string, w io.Writer) (*zap.Logger, error) {
	level := configured
	switch {
	case opts.Debug:
		level = "debug"
	case opts.Verbose:
		level = "info"
	}

	logOpts := logging.Options{Level: level, Writer: w}
	if opts.Plain {
		noColor := false
		logOpts.Color = &noColor
	}
	return logging.New(logOpts)
}

// resolveWorkdir returns the absolute project directory and where it came
// from: the flag, the enclosing repository, or the current directory.
func resolveWorkdir(flag string) (string, string, error) {
	if flag != "" {
		abs, err := filepath.Abs(flag)
		if err != nil {
			return "", "", fmt.Errorf("resolving workdir: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return "", "", clierrors.NewArgumentError(
				fmt.Sprintf("workdir is not a directory: %s", abs),
				"Pass an existing directory to --workdir",
			)
		}
		return abs, "flag", nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("getting current directory: %w", err)
	}
	if root, err := git.RepositoryRoot(cwd); err == nil {
		return root, "repository", nil
	}
	return cwd, "cwd", nil
}

// walker returns the fragment tree walker for the configured layout. The
// template file is excluded from every walk.
func (e *environment) walker() changelog.Walker {
	return changelog.Walker{
		Root:           e.Config.FragmentPath(),
		Exclude:        filepath.ToSlash(e.Config.TemplatePath),
		SameFileSystem: e.Config.SameFileSystem,
	}
}

// requireFragmentDir fails with a prerequisite error when the fragment
// directory does not exist.
func (e *environment) requireFragmentDir() error {
	dir := e.Config.FragmentPath()
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return clierrors.FragmentDirNotFound(dir)
	}
	return nil
}

// headerSchema resolves the configured header fields.
func (e *environment) headerSchema() (*config.HeaderSchema, error) {
	schema, err := e.Config.HeaderSchema()
	if err != nil {
		return nil, clierrors.Wrap(err, clierrors.Configuration,
			"Check the 'header' section of .fraglog.yml")
	}
	return schema, nil
}

// resolvePath joins p onto base unless it is already absolute.
func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
