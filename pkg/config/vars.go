package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "gncat"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gncat by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// DataDir returns the directory path for the local record storage.
// Returns ~/.local/share/gncat by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/gncat/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/gncat/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// GroupsFilePath returns the full path to the groups.yaml file with
// taxonomic display groups.
// Returns ~/.config/gncat/groups.yaml by default.
func GroupsFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "groups.yaml")
}

// LocalPath returns the location of the local storage for the given
// driver. An explicit path in the config wins.
func (c *Config) LocalPath() string {
	if c.Local.Path != "" {
		return c.Local.Path
	}
	switch c.Local.Driver {
	case "file":
		return DataDir(c.HomeDir)
	default:
		return filepath.Join(DataDir(c.HomeDir), AppName+".db")
	}
}
