package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	"github.com/ariel-frischer/fraglog/internal/cli/shared"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
)

var showCmd = &cobra.Command{
	Use:   "show [version]",
	Short: "Print the collected fragments",
	Long: `Print the collected fragments in the terminal, newest release first.

With a version argument only that release is shown. A leading 'v' is
optional and 'latest' names the newest release. Use --list to print only
the release versions, or --oneline for one short line per fragment.`,
	Example: `  # Show every release
  fraglog show

  # Show one release (v prefix optional)
  fraglog show 1.4.0
  fraglog show v1.4.0

  # Show the newest release
  fraglog show latest

  # List the releases that have fragments
  fraglog show --list

  # One line per fragment
  fraglog show --oneline

  # Plain output (no colors/icons)
  fraglog show --plain`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}
		var opts showOptions
		if len(args) == 1 {
			opts.Version = args[0]
		}
		opts.List, _ = cmd.Flags().GetBool("list")
		opts.Oneline, _ = cmd.Flags().GetBool("oneline")
		return runShow(env, opts)
	},
}

func init() {
	showCmd.GroupID = shared.GroupFragments
	showCmd.Flags().BoolP("list", "l", false, "List release versions only")
	showCmd.Flags().Bool("oneline", false, "Print one short line per fragment")
	rootCmd.AddCommand(showCmd)
}

// latestVersion is the version argument that selects the newest release.
const latestVersion = "latest"

type showOptions struct {
	Version string
	List    bool
	Oneline bool
}

func runShow(env *environment, opts showOptions) error {
	if opts.List && opts.Version != "" {
		return clierrors.InvalidFlagCombination("--list prints every release; drop the version argument", "--list", "[version]")
	}
	if err := env.requireFragmentDir(); err != nil {
		return err
	}

	versions, err := changelog.Load(env.walker(), env.Log)
	if err != nil {
		return clierrors.FragmentDecodeError(err)
	}

	if opts.List {
		for _, v := range changelog.ListVersions(versions) {
			fmt.Fprintln(env.Out, v)
		}
		return nil
	}

	formatOpts := changelog.FormatOptions{Plain: env.Plain}

	if strings.EqualFold(strings.TrimSpace(opts.Version), latestVersion) {
		latest := changelog.Latest(versions)
		if latest == nil {
			fmt.Fprintln(env.Out, "No changelog fragments found.")
			return nil
		}
		opts.Version = latest.Version
	}

	if opts.Version != "" {
		return showVersion(env, versions, opts, formatOpts)
	}

	if len(versions) == 0 {
		fmt.Fprintln(env.Out, "No changelog fragments found.")
		return nil
	}
	if opts.Oneline {
		printOneline(env.Out, changelog.NewestFirst(versions), formatOpts)
		return nil
	}
	if err := changelog.FormatTerminal(versions, env.Out, formatOpts); err != nil {
		return fmt.Errorf("formatting releases: %w", err)
	}
	fmt.Fprintf(env.Out, "\n(%d %s in %d %s)\n",
		changelog.EntryCount(versions), plural(changelog.EntryCount(versions), "fragment", "fragments"),
		len(versions), plural(len(versions), "release", "releases"))
	return nil
}

func showVersion(env *environment, versions []changelog.VersionData, opts showOptions, formatOpts changelog.FormatOptions) error {
	version := opts.Version
	v, err := changelog.FindVersion(versions, version)
	if err != nil {
		var notFound *changelog.VersionNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintf(env.ErrOut, "Version %q not found.\n", version)
			if len(notFound.AvailableVersions) > 0 {
				fmt.Fprintf(env.ErrOut, "\nAvailable versions:\n")
				for _, ver := range notFound.AvailableVersions {
					fmt.Fprintf(env.ErrOut, "  %s\n", ver)
				}
			}
			return shared.NewExitError(shared.ExitInvalidArguments)
		}
		return fmt.Errorf("getting version: %w", err)
	}

	if opts.Oneline {
		printOneline(env.Out, []changelog.VersionData{*v}, formatOpts)
		return nil
	}
	return changelog.FormatVersion(v, env.Out, formatOpts)
}

// printOneline prints each release id followed by one summary line per
// fragment.
func printOneline(w io.Writer, versions []changelog.VersionData, opts changelog.FormatOptions) {
	for _, v := range versions {
		fmt.Fprintf(w, "v%s\n", v.Version)
		for _, f := range v.Entries {
			fmt.Fprintf(w, "  %s\n", changelog.FormatEntrySummary(f, opts))
		}
	}
}
