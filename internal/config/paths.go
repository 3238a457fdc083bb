package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "NETSCOPE_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "netscope.yaml"
	// ConfigDirName is the directory under XDG, ~/.config and /etc
	ConfigDirName = "netscope"
)

// candidate is one place a config file may live. user marks locations that
// belong to the invoking user and are suitable for writing a new file.
type candidate struct {
	path string
	user bool
}

// candidates lists config locations in lookup order. Locations whose
// variable is unset are skipped.
func candidates(getenv func(string) string) []candidate {
	var list []candidate
	if path := getenv(EnvConfigPath); path != "" {
		list = append(list, candidate{path: path})
	}
	list = append(list, candidate{path: ConfigFileName})
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		list = append(list, candidate{path: filepath.Join(xdg, ConfigDirName, "config.yaml"), user: true})
	}
	if home := getenv("HOME"); home != "" {
		list = append(list, candidate{path: filepath.Join(home, ".config", ConfigDirName, "config.yaml"), user: true})
	}
	return append(list, candidate{path: filepath.Join("/etc", ConfigDirName, "config.yaml")})
}

// FindConfigPath returns the first existing config file, or "" when none exists
func FindConfigPath() string {
	for _, c := range candidates(os.Getenv) {
		if !fileExists(c.path) {
			continue
		}
		if abs, err := filepath.Abs(c.path); err == nil {
			return abs
		}
		return c.path
	}
	return ""
}

// DefaultConfigPath is where --init-config writes when no path is given:
// the first per-user location, else the working directory.
func DefaultConfigPath() string {
	return defaultConfigPath(os.Getenv)
}

func defaultConfigPath(getenv func(string) string) string {
	for _, c := range candidates(getenv) {
		if c.user {
			return c.path
		}
	}
	return ConfigFileName
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
