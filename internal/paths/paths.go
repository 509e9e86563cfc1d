// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DirName is the per-project configuration directory.
	DirName = ".glint"
	// ConfigFileName is the config file inside DirName.
	ConfigFileName = "config.yaml"
)

// ResolveConfigFile resolves a config file path from user input.
//
// Input normalization:
//   - "/path/to/project" -> "/path/to/project/.glint/config.yaml"
//   - "/path/to/project/.glint" -> "/path/to/project/.glint/config.yaml"
//   - "/path/to/custom.yaml" -> "/path/to/custom.yaml" (existing files and
//     any path with a .yaml or .yml extension are used as is)
//   - "" -> "./.glint/config.yaml"
//
// A .glint/redirect file containing a relative or absolute directory is
// followed, so git worktrees can share the main worktree's config.
func ResolveConfigFile(path string) string {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)

	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		return path
	}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}

	dir := path
	if filepath.Base(path) != DirName {
		dir = filepath.Join(path, DirName)
	}
	return filepath.Join(followRedirect(dir), ConfigFileName)
}

// UserConfigFile returns ~/.config/glint/config.yaml, or "" when the home
// directory is unknown.
func UserConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "glint", ConfigFileName)
}

// followRedirect checks for a redirect file and follows it if present.
func followRedirect(dir string) string {
	content, err := os.ReadFile(filepath.Join(dir, "redirect")) //nolint:gosec // redirect path is within .glint dir
	if err != nil {
		return dir
	}

	target := strings.TrimSpace(string(content))
	if target == "" {
		return dir
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Clean(filepath.Join(dir, target))
}
