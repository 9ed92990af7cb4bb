// Package paths resolves where skeleton looks for its user configuration.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigFileName is the user config file inside the config directory.
const ConfigFileName = "config.toml"

// Env is the interface for environment variable lookups.
// Implementations must return "" for unset variables.
type Env interface {
	Get(key string) string
}

// OSEnv implements Env using os.Getenv.
type OSEnv struct{}

func (OSEnv) Get(key string) string {
	return os.Getenv(key)
}

// ResolveConfigDir computes the user config directory.
//
// Resolution order:
//  1. SKELETON_CONFIG_DIR env var (if set)
//  2. macOS: ~/Library/Preferences/skeleton
//  3. XDG_CONFIG_HOME/skeleton (if set)
//  4. ~/.config/skeleton
//
// The homeDir parameter must be an absolute path to the user's home directory.
// This function does not touch the filesystem.
// ~ inside env vars is treated as literal (not expanded).
func ResolveConfigDir(env Env, homeDir string) string {
	return ResolveConfigDirWithOS(env, homeDir, runtime.GOOS == "darwin")
}

// ResolveConfigDirWithOS is like ResolveConfigDir but accepts an explicit OS flag for testing.
func ResolveConfigDirWithOS(env Env, homeDir string, isDarwin bool) string {
	if v := env.Get("SKELETON_CONFIG_DIR"); v != "" {
		return v
	}
	if isDarwin {
		return filepath.Join(homeDir, "Library", "Preferences", "skeleton")
	}
	if v := env.Get("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "skeleton")
	}
	return filepath.Join(homeDir, ".config", "skeleton")
}

// UserConfigFile returns the path of the user config file, or "" if the
// home directory cannot be determined and no override is set.
func UserConfigFile(env Env) string {
	if v := env.Get("SKELETON_CONFIG_DIR"); v != "" {
		return filepath.Join(v, ConfigFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(ResolveConfigDir(env, home), ConfigFileName)
}
