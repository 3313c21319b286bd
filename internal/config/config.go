// fraglog - Changelog fragment aggregation
// Source: https://github.com/ariel-frischer/fraglog

// Package config provides hierarchical configuration management for fraglog using koanf.
// Configuration is loaded with priority: environment variables > project config (.fraglog.yml)
// > user config (~/.config/fraglog/config.yml) > defaults. The legacy JSON project
// config (.fraglog.json) is still read, with a migration warning.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/fraglog/internal/fragment"
)

// EnvPrefix prefixes every environment override, e.g. FRAGLOG_FRAGMENT_DIR.
const EnvPrefix = "FRAGLOG_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the fraglog CLI tool configuration
type Configuration struct {
	// FragmentDir holds the fragment tree, relative to the workdir.
	FragmentDir string `koanf:"fragment_dir" validate:"required"`
	// TemplatePath is the changelog template, relative to FragmentDir.
	// It is never treated as a fragment.
	TemplatePath string `koanf:"template_path" validate:"required"`
	// Changelog is the rendered output file, relative to the workdir.
	Changelog string `koanf:"changelog" validate:"required"`
	// FragmentFormat is the header syntax 'fraglog new' writes: toml or yaml.
	FragmentFormat string `koanf:"fragment_format" validate:"oneof=toml yaml yml"`
	LogLevel       string `koanf:"log_level" validate:"oneof=debug info warn error"`
	// SameFileSystem stops the fragment walk at mount points.
	SameFileSystem bool `koanf:"same_filesystem"`

	// Header declares the metadata fields fragments carry. Keys are header
	// names.
	Header map[string]HeaderField `koanf:"header" validate:"dive"`

	// Workdir is the directory relative paths resolve against. Not loaded
	// from any source.
	Workdir string `koanf:"-"`
	// Sources records which layer set each top-level key.
	Sources map[string]ConfigSource `koanf:"-"`
}

// HeaderField configures one header key.
type HeaderField struct {
	Type     string `koanf:"type" validate:"omitempty,oneof=int text bool"`
	Required bool   `koanf:"required"`
	Default  any    `koanf:"default"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// Workdir is where the project config is looked up (default: current directory).
	Workdir string
	// ProjectConfigPath overrides the project config path. Unlike the
	// default location, an explicit path must exist.
	ProjectConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
	// SkipUserConfig ignores the user-level config file.
	SkipUserConfig bool
}

// ConfigNotFoundError is returned when an explicitly requested config file is missing.
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

// LoadWithOptions loads configuration for a workdir from user, project, and
// environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)
	sources := make(map[string]ConfigSource)

	workdir := opts.Workdir
	if workdir == "" {
		workdir = "."
	}

	defaults := koanf.New(".")
	loadDefaults(defaults)
	if err := mergeLayer(k, defaults, sources, SourceDefault); err != nil {
		return nil, err
	}

	if !opts.SkipUserConfig {
		user := koanf.New(".")
		if err := loadUserConfig(user, warningWriter, opts.SkipWarnings); err != nil {
			return nil, err
		}
		if err := mergeLayer(k, user, sources, SourceUser); err != nil {
			return nil, err
		}
	}

	project := koanf.New(".")
	if err := loadProjectConfig(project, workdir, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}
	if err := mergeLayer(k, project, sources, SourceProject); err != nil {
		return nil, err
	}

	environment := koanf.New(".")
	if err := loadEnvironmentConfig(environment); err != nil {
		return nil, err
	}
	if err := mergeLayer(k, environment, sources, SourceEnv); err != nil {
		return nil, err
	}

	cfg, err := finalizeConfig(k)
	if err != nil {
		return nil, err
	}
	cfg.Workdir = workdir
	cfg.Sources = sources
	return cfg, nil
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// mergeLayer merges one configuration layer into k and attributes the
// top-level keys it sets to source.
func mergeLayer(k, layer *koanf.Koanf, sources map[string]ConfigSource, source ConfigSource) error {
	for _, key := range layer.Keys() {
		top, _, _ := strings.Cut(key, ".")
		sources[top] = source
	}
	if err := k.Merge(layer); err != nil {
		return fmt.Errorf("merging %s config: %w", source, err)
	}
	return nil
}

// loadUserConfig loads the user-level YAML config when present.
func loadUserConfig(k *koanf.Koanf, warningWriter io.Writer, skipWarnings bool) error {
	userYAMLPath, _ := UserConfigPath()
	legacyUserPath, _ := LegacyUserConfigPath()

	userYAMLExists := fileExists(userYAMLPath)
	legacyUserExists := fileExists(legacyUserPath)

	if userYAMLExists {
		if err := loadYAMLConfig(k, userYAMLPath, "user"); err != nil {
			return fmt.Errorf("loading user YAML config: %w", err)
		}
		warnLegacyExists(warningWriter, legacyUserPath, userYAMLPath, legacyUserExists, skipWarnings, "--user")
	} else if legacyUserExists {
		if err := loadLegacyJSONConfig(k, legacyUserPath, "user", warningWriter, skipWarnings, "--user"); err != nil {
			return fmt.Errorf("loading legacy user JSON config: %w", err)
		}
	}
	return nil
}

// loadProjectConfig loads project-level config (YAML preferred, legacy JSON supported).
// An explicit path replaces the lookup and must exist.
func loadProjectConfig(k *koanf.Koanf, workdir, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	if customPath != "" {
		if !fileExists(customPath) {
			return &ConfigNotFoundError{Path: customPath}
		}
		if strings.EqualFold(filepath.Ext(customPath), ".json") {
			return loadLegacyJSONConfig(k, customPath, "project", warningWriter, skipWarnings, "--project")
		}
		if err := loadYAMLConfig(k, customPath, "project"); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		return nil
	}

	projectYAMLPath := ProjectConfigPath(workdir)
	legacyProjectPath := LegacyProjectConfigPath(workdir)

	projectYAMLExists := fileExists(projectYAMLPath)
	legacyProjectExists := fileExists(legacyProjectPath)

	if projectYAMLExists {
		if err := loadYAMLConfig(k, projectYAMLPath, "project"); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		warnLegacyExists(warningWriter, legacyProjectPath, projectYAMLPath, legacyProjectExists, skipWarnings, "--project")
	} else if legacyProjectExists {
		if err := loadLegacyJSONConfig(k, legacyProjectPath, "project", warningWriter, skipWarnings, "--project"); err != nil {
			return fmt.Errorf("loading legacy project JSON config: %w", err)
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadLegacyJSONConfig loads legacy JSON and warns about migration
func loadLegacyJSONConfig(k *koanf.Koanf, path, configType string, warningWriter io.Writer, skipWarnings bool, migrateFlag string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load legacy %s config %s: %w", configType, path, err)
	}
	if !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", path)
		fmt.Fprintf(warningWriter, "  Run 'fraglog config migrate %s' to migrate to YAML format.\n\n", migrateFlag)
	}
	return nil
}

// warnLegacyExists warns if legacy JSON exists alongside new YAML
func warnLegacyExists(warningWriter io.Writer, legacyPath, yamlPath string, legacyExists, skipWarnings bool, migrateFlag string) {
	if legacyExists && !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
		fmt.Fprintf(warningWriter, "  Run 'fraglog config migrate %s' to remove the legacy file.\n\n", migrateFlag)
	}
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.FragmentDir = expandHomePath(cfg.FragmentDir)
	cfg.Changelog = expandHomePath(cfg.Changelog)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: FRAGLOG_FRAGMENT_DIR -> fragment_dir
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// resolve joins a configured path onto base unless it is already absolute.
func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// FragmentPath returns the fragment directory resolved against the workdir.
func (c *Configuration) FragmentPath() string {
	return resolve(c.Workdir, c.FragmentDir)
}

// TemplateFile returns the template path resolved against the fragment directory.
func (c *Configuration) TemplateFile() string {
	return resolve(c.FragmentPath(), c.TemplatePath)
}

// ChangelogPath returns the output file resolved against the workdir.
func (c *Configuration) ChangelogPath() string {
	return resolve(c.Workdir, c.Changelog)
}

// Format returns the header syntax new fragments are written in.
func (c *Configuration) Format() (fragment.Format, error) {
	f, err := fragment.ParseFormat(c.FragmentFormat)
	if err != nil {
		return 0, &ValidationError{FilePath: "config", Field: "fragment_format", Message: err.Error()}
	}
	return f, nil
}
