package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	"github.com/ariel-frischer/fraglog/internal/cli/shared"
	"github.com/ariel-frischer/fraglog/internal/watch"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check every fragment and report all problems",
	Long: `Check every fragment in the fragment directory.

Unlike 'fraglog release', verification does not stop at the first problem:
every unreadable directory, every fragment that fails to decode and every
header field that does not match the 'header' section of the config is
reported. Files outside a release directory are skipped silently.

Exits with status 1 when any problem was found.`,
	Example: `  # Check all fragments
  fraglog verify

  # Re-check whenever a fragment changes (Ctrl+C to stop)
  fraglog verify --watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}
		watchFlag, _ := cmd.Flags().GetBool("watch")
		if watchFlag {
			return runVerifyWatch(cmd.Context(), env)
		}
		return runVerify(env)
	},
}

func init() {
	verifyCmd.GroupID = shared.GroupFragments
	verifyCmd.Flags().BoolP("watch", "w", false, "Re-run verification whenever the fragment tree changes")
	rootCmd.AddCommand(verifyCmd)
}

// runVerify verifies the fragment tree once and prints the report.
func runVerify(env *environment) error {
	if err := env.requireFragmentDir(); err != nil {
		return err
	}

	schema, err := env.headerSchema()
	if err != nil {
		return err
	}

	err = changelog.Verify(changelog.Entries(env.walker(), env.Log), schema)
	if err == nil {
		printVerifySuccess(env.Out, env.Plain)
		return nil
	}

	var vErr *changelog.VerificationError
	if !errors.As(err, &vErr) {
		return err
	}
	printFailures(env.Out, vErr.Failures, env.Plain)
	return shared.NewExitError(shared.ExitValidationFailed)
}

// runVerifyWatch verifies once, then again after every change below the
// fragment directory, until ctx is cancelled.
func runVerifyWatch(ctx context.Context, env *environment) error {
	if err := env.requireFragmentDir(); err != nil {
		return err
	}

	w, err := watch.NewTreeWatcher(env.Config.FragmentPath(), 0, env.Log)
	if err != nil {
		return err
	}
	defer w.Close()

	changes, err := w.Changes(ctx)
	if err != nil {
		return err
	}

	reportWatchRun(env)
	for range changes {
		fmt.Fprintln(env.Out)
		reportWatchRun(env)
	}
	return nil
}

// reportWatchRun runs one verification in watch mode. Failures are printed
// but never end the loop.
func reportWatchRun(env *environment) {
	if err := runVerify(env); err != nil {
		var exitErr *shared.ExitError
		if !errors.As(err, &exitErr) {
			env.Log.Error("verification failed", zap.Error(err))
		}
	}
}

func printVerifySuccess(w io.Writer, plain bool) {
	mark := "✓"
	if !plain {
		mark = color.New(color.FgGreen).Sprint(mark)
	}
	fmt.Fprintf(w, "%s All fragments are valid\n", mark)
}

func printFailures(w io.Writer, failures []changelog.Failure, plain bool) {
	mark := "✗"
	if !plain {
		mark = color.New(color.FgRed).Sprint(mark)
	}
	for _, f := range failures {
		fmt.Fprintf(w, "%s %s\n", mark, f)
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(failures), plural(len(failures), "problem", "problems"))
}
