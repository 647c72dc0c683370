package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	EnvAutoSpeakConfig = "AUTOSPEAK_CONFIG"
	EnvAutoSpeakHome   = "AUTOSPEAK_HOME"
)

// RuntimePaths locates everything autospeak keeps on disk. The lock record
// and the per-session tracked-process records live directly under HomeDir so
// that every session of the same user resolves the same files.
type RuntimePaths struct {
	HomeDir     string
	ConfigPath  string
	LockPath    string
	HistoryPath string
	LogPath     string
}

// ResolveRuntimePaths resolves paths from AUTOSPEAK_CONFIG, AUTOSPEAK_HOME
// or the default ~/.claude-auto-speak, in that order.
func ResolveRuntimePaths() RuntimePaths {
	if configPath := expandHome(strings.TrimSpace(os.Getenv(EnvAutoSpeakConfig))); configPath != "" {
		return buildRuntimePaths(filepath.Dir(configPath), configPath)
	}

	homeDir := expandHome(strings.TrimSpace(os.Getenv(EnvAutoSpeakHome)))
	if homeDir == "" {
		homeDir = defaultHome()
	}
	return buildRuntimePaths(homeDir, filepath.Join(homeDir, "config.json"))
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".claude-auto-speak"
	}
	return filepath.Join(home, ".claude-auto-speak")
}

func buildRuntimePaths(homeDir, configPath string) RuntimePaths {
	return RuntimePaths{
		HomeDir:     homeDir,
		ConfigPath:  configPath,
		LockPath:    filepath.Join(homeDir, "speak.lock"),
		HistoryPath: filepath.Join(homeDir, "history.db"),
		LogPath:     filepath.Join(homeDir, "autospeak.log"),
	}
}

func expandHome(path string) string {
	if path == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
