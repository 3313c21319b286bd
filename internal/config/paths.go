package config

import (
	"os"
	"path/filepath"
)

const (
	appName = "fraglog"

	// ProjectConfigName is the project config file, kept at the workdir root.
	ProjectConfigName = ".fraglog.yml"
	// LegacyProjectConfigName is the deprecated JSON form of the project config.
	LegacyProjectConfigName = ".fraglog.json"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/fraglog/config.yml
// - macOS: ~/Library/Application Support/fraglog/config.yml
// - Windows: %APPDATA%\fraglog\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// LegacyUserConfigPath returns the path to the deprecated user-level JSON config.
func LegacyUserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ProjectConfigPath returns the project config path for workdir.
func ProjectConfigPath(workdir string) string {
	return filepath.Join(workdir, ProjectConfigName)
}

// LegacyProjectConfigPath returns the deprecated JSON project config path for workdir.
func LegacyProjectConfigPath(workdir string) string {
	return filepath.Join(workdir, LegacyProjectConfigName)
}
