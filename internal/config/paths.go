// ABOUTME: Standard filesystem paths for fresh configuration and data
// ABOUTME: Resolves ~/.fresh/ for global and .fresh/ for project-local paths

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName  = ".fresh"
	projectDirName = ".fresh"
)

// GlobalDir returns the user-global config directory (~/.fresh/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// ProjectDir returns the project-local config directory (.fresh/ in cwd).
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName)
}

// SessionsDir returns the persisted-session storage directory consumed by
// internal/sessionstate's collaborator.
func SessionsDir() string {
	return filepath.Join(GlobalDir(), "sessions")
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), "config.json")
}

// ProjectConfigFile returns the path to the project-local config file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(ProjectDir(projectRoot), "config.json")
}

// ThemesDir returns the user-global custom themes directory, searched by
// cmd/fresh's resolveTheme when Settings.Theme names a file rather than a
// built-in.
func ThemesDir() string {
	return filepath.Join(GlobalDir(), "themes")
}

// EnsureDir creates a directory and all parents if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
