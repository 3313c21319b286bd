package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/fraglog/internal/build"
	"github.com/ariel-frischer/fraglog/internal/cli/shared"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/ariel-frischer/fraglog"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  "Display version, commit, build date, and Go version information for fraglog",
	Example: `  # Show version info
  fraglog version

  # Plain output (for scripts)
  fraglog version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")
		printVersion(cmd.OutOrStdout(), build.Current(), plain)
	},
}

func init() {
	versionCmd.GroupID = shared.GroupGettingStarted
	rootCmd.AddCommand(versionCmd)
}

// printVersion prints build information. The plain form is stable for
// scripts.
func printVersion(w io.Writer, info build.Info, plain bool) {
	if plain {
		fmt.Fprintf(w, "fraglog %s\n", info.Version)
		fmt.Fprintf(w, "commit: %s\n", info.Commit)
		fmt.Fprintf(w, "built: %s\n", info.BuildDate)
		fmt.Fprintf(w, "go: %s\n", info.GoVersion)
		fmt.Fprintf(w, "platform: %s\n", info.Platform)
		return
	}

	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	if info.IsDevBuild() {
		fmt.Fprintf(w, "%s %s %s\n", bold("fraglog"), info.Version, faint("(development build)"))
	} else {
		fmt.Fprintf(w, "%s %s\n", bold("fraglog"), info.Version)
	}
	fmt.Fprintf(w, "  %s %s\n", faint("commit:  "), info.Commit)
	fmt.Fprintf(w, "  %s %s\n", faint("built:   "), info.BuildDate)
	fmt.Fprintf(w, "  %s %s\n", faint("go:      "), info.GoVersion)
	fmt.Fprintf(w, "  %s %s\n", faint("platform:"), info.Platform)
	fmt.Fprintf(w, "  %s %s\n", faint("source:  "), SourceURL)
}
