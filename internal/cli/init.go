package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	"github.com/ariel-frischer/fraglog/internal/cli/shared"
	"github.com/ariel-frischer/fraglog/internal/config"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file, fragment directory and template",
	Long: `Set up fraglog in the workdir.

This command:
  1. Writes a commented .fraglog.yml
  2. Creates the fragment directory (fragment_dir, default .changelogs)
  3. Writes the default changelog template into it (template_path)

Existing files are left unchanged unless --force is given.`,
	Example: `  # Set up the current project
  fraglog init

  # Regenerate config and template
  fraglog init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		return runInit(env, force)
	},
}

func init() {
	initCmd.GroupID = shared.GroupGettingStarted
	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing config and template")
	rootCmd.AddCommand(initCmd)
}

func runInit(env *environment, force bool) error {
	configPath := config.ProjectConfigPath(env.Workdir)
	if err := writeInitFile(env, configPath, []byte(config.GetDefaultConfigTemplate()), force); err != nil {
		return err
	}

	fragmentDir := env.Config.FragmentPath()
	if err := os.MkdirAll(fragmentDir, 0o755); err != nil {
		return clierrors.FileNotWritable(fragmentDir, err)
	}
	env.Log.Debug("fragment directory ready", zap.String("path", fragmentDir))

	templatePath := env.Config.TemplateFile()
	if err := os.MkdirAll(filepath.Dir(templatePath), 0o755); err != nil {
		return clierrors.FileNotWritable(filepath.Dir(templatePath), err)
	}
	if err := writeInitFile(env, templatePath, []byte(changelog.DefaultTemplate()), force); err != nil {
		return err
	}

	fmt.Fprintf(env.Out, "\nNext: fraglog new <version> --text \"<change>\"\n")
	return nil
}

// writeInitFile writes data to path unless the file exists and force is
// not set. Each outcome is reported on env.Out.
func writeInitFile(env *environment, path string, data []byte, force bool) error {
	display := displayPath(env.Workdir, path)

	_, statErr := os.Stat(path)
	exists := statErr == nil
	if exists && !force {
		fmt.Fprintf(env.Out, "%s %s already exists (use --force to overwrite)\n", initMark(env, "-", color.FgYellow), display)
		return nil
	}

	if err := writeFile(path, data); err != nil {
		return clierrors.FileNotWritable(path, err)
	}

	verb := "Created"
	if exists {
		verb = "Overwrote"
	}
	fmt.Fprintf(env.Out, "%s %s %s\n", initMark(env, "✓", color.FgGreen), verb, display)
	return nil
}

func initMark(env *environment, mark string, attr color.Attribute) string {
	if env.Plain {
		return mark
	}
	return color.New(attr).Sprint(mark)
}
