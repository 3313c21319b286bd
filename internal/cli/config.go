package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/fraglog/internal/cli/shared"
	"github.com/ariel-frischer/fraglog/internal/config"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and migrate fraglog configuration",
	Long: `Inspect and migrate fraglog configuration.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (FRAGLOG_*)
  2. Project config (.fraglog.yml, or legacy .fraglog.json)
  3. User config (~/.config/fraglog/config.yml)
  4. Built-in defaults`,
	Example: `  # Show the effective configuration
  fraglog config show

  # Convert legacy JSON config files to YAML
  fraglog config migrate`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration and where each key came from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment(cmd)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		return runConfigShow(env, asJSON)
	},
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert legacy JSON config files to YAML",
	Long: `Convert legacy JSON config files to YAML.

Without flags both the user config and the project config are migrated.
Existing YAML files are never overwritten. After a successful migration the
JSON file is renamed to <name>.bak.`,
	Example: `  # Migrate both configs
  fraglog config migrate

  # Preview the project migration only
  fraglog config migrate --project --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts migrateOptions
		opts.User, _ = cmd.Flags().GetBool("user")
		opts.Project, _ = cmd.Flags().GetBool("project")
		opts.DryRun, _ = cmd.Flags().GetBool("dry-run")

		global := globalOptionsFrom(cmd)
		workdir, _, err := resolveWorkdir(global.Workdir)
		if err != nil {
			return err
		}
		return runConfigMigrate(cmd.OutOrStdout(), workdir, opts)
	},
}

func init() {
	configCmd.GroupID = shared.GroupConfiguration
	configShowCmd.Flags().Bool("json", false, "Output in JSON format")
	configMigrateCmd.Flags().Bool("user", false, "Migrate the user config only")
	configMigrateCmd.Flags().Bool("project", false, "Migrate the project config only")
	configMigrateCmd.Flags().Bool("dry-run", false, "Show what would be migrated without writing")

	configCmd.AddCommand(configShowCmd, configMigrateCmd)
	rootCmd.AddCommand(configCmd)
}

// configView is the effective configuration in its file form.
func configView(cfg *config.Configuration) map[string]any {
	header := make(map[string]any, len(cfg.Header))
	for key, field := range cfg.Header {
		entry := map[string]any{"required": field.Required}
		if field.Type != "" {
			entry["type"] = field.Type
		}
		if field.Default != nil {
			entry["default"] = field.Default
		}
		header[key] = entry
	}

	return map[string]any{
		"fragment_dir":    cfg.FragmentDir,
		"template_path":   cfg.TemplatePath,
		"changelog":       cfg.Changelog,
		"fragment_format": cfg.FragmentFormat,
		"log_level":       cfg.LogLevel,
		"same_filesystem": cfg.SameFileSystem,
		"header":          header,
	}
}

func runConfigShow(env *environment, asJSON bool) error {
	view := configView(env.Config)

	if asJSON {
		enc := json.NewEncoder(env.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		return nil
	}

	printConfigSources(env.Out, env.Config)

	data, err := yaml.Marshal(view)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	_, err = env.Out.Write(data)
	return err
}

func printConfigSources(w io.Writer, cfg *config.Configuration) {
	keys := make([]string, 0, len(cfg.Sources))
	for k := range cfg.Sources {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fmt.Fprintln(w, "# Configuration Sources")
	for _, k := range keys {
		fmt.Fprintf(w, "#   %-16s %s\n", k, cfg.Sources[k])
	}
	fmt.Fprintln(w)
}

type migrateOptions struct {
	User    bool
	Project bool
	DryRun  bool
}

func runConfigMigrate(out io.Writer, workdir string, opts migrateOptions) error {
	if !opts.User && !opts.Project {
		opts.User, opts.Project = true, true
	}

	var results []*config.MigrationResult
	if opts.User {
		r, err := config.MigrateUserConfig(opts.DryRun)
		if err != nil {
			return clierrors.Wrap(err, clierrors.Configuration)
		}
		results = append(results, r)
	}
	if opts.Project {
		r, err := config.MigrateProjectConfig(workdir, opts.DryRun)
		if err != nil {
			return clierrors.Wrap(err, clierrors.Configuration)
		}
		results = append(results, r)
	}

	for _, r := range results {
		fmt.Fprintln(out, r.Message)
		if !r.Success {
			continue
		}
		if err := config.RemoveLegacyConfig(r.SourcePath, r.DryRun); err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Runtime, "backing up legacy config")
		}
		if !r.DryRun {
			fmt.Fprintf(out, "Backed up %s to %s.bak\n", r.SourcePath, r.SourcePath)
		}
	}
	return nil
}
