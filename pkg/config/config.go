// Package config provides configuration management for GNcat.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - StorageMode: local or remote
//   - Local: driver, path, key, postgres connection settings
//   - Remote: driver, owner, repo, branch, path, api_url, bucket, region,
//     endpoint, path_style, dir, timeout
//   - Import: mode, fill_names
//   - Log: level, format, destination
//   - General: page_size, top_n, jobs_number
//
// Runtime-only fields:
//   - Remote.Token (environment or session holder, never config.yaml)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNCAT_ prefix with underscores for nesting:
//
//	GNCAT_STORAGE_MODE=remote
//	GNCAT_REMOTE_OWNER=zoarch-lab
//	GNCAT_REMOTE_TOKEN=ghp_xxx
//	GNCAT_LOG_LEVEL=debug
package config

import (
	"runtime"
)

// StorageMode tells which backend is authoritative for persistence.
// Local storage is always written, Remote adds the remote blob.
type StorageMode string

const (
	StorageLocal  StorageMode = "local"
	StorageRemote StorageMode = "remote"
)

// Config represents the complete GNcat configuration.
type Config struct {
	// StorageMode decides if mutations are also pushed to the remote blob.
	StorageMode StorageMode `mapstructure:"storage_mode" yaml:"storage_mode"`

	// Local contains settings of the local persistent storage.
	Local LocalConfig `mapstructure:"local" yaml:"local"`

	// Remote contains settings of the remote blob.
	Remote RemoteConfig `mapstructure:"remote" yaml:"remote"`

	// Import contains defaults for the import command.
	Import ImportConfig `mapstructure:"import" yaml:"import"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// PageSize is the number of records shown per page in listings.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// TopN is the number of buckets kept in charts before the rest
	// is collapsed into "Other".
	TopN int `mapstructure:"top_n" yaml:"top_n"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, data and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// LocalConfig describes where the record list is kept on this machine.
type LocalConfig struct {
	// Driver is one of "sqlite", "file", "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the sqlite database file or the directory for the "file"
	// driver. Empty means the default location inside the data directory.
	Path string `mapstructure:"path" yaml:"path"`

	// Key is the storage slot that holds the whole record list.
	Key string `mapstructure:"key" yaml:"key"`

	// Postgres contains connection settings for the "postgres" driver.
	Postgres DatabaseConfig `mapstructure:"postgres" yaml:"postgres"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// RemoteConfig identifies the single file used as the shared remote blob.
type RemoteConfig struct {
	// Driver is one of "github", "s3", "fs", "memory".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Owner is the GitHub user or organization.
	Owner string `mapstructure:"owner" yaml:"owner"`

	// Repo is the GitHub repository name.
	Repo string `mapstructure:"repo" yaml:"repo"`

	// Branch is the branch that holds the data file.
	Branch string `mapstructure:"branch" yaml:"branch"`

	// Path is the file path inside the repository, the object key in
	// the bucket, or the file name inside Dir.
	Path string `mapstructure:"path" yaml:"path"`

	// APIURL is the base URL of the GitHub API.
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	// Bucket is the S3 bucket name.
	Bucket string `mapstructure:"bucket" yaml:"bucket"`

	// Region is the S3 region.
	Region string `mapstructure:"region" yaml:"region"`

	// Endpoint is an optional S3-compatible endpoint (MinIO).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// PathStyle forces path-style S3 addressing.
	PathStyle bool `mapstructure:"path_style" yaml:"path_style"`

	// Dir is the shared directory for the "fs" driver.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// Timeout of remote requests in seconds.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`

	// Token is the bearer credential. For S3 it has the form
	// "ACCESS_KEY_ID:SECRET_ACCESS_KEY". It is never saved to config.yaml.
	Token string `mapstructure:"token" yaml:"-"`
}

// ImportConfig keeps defaults for importing spreadsheets.
type ImportConfig struct {
	// Mode is "append" or "replace".
	Mode string `mapstructure:"mode" yaml:"mode"`

	// FillNames fills blank Genus and Species from a scientific name column.
	FillNames bool `mapstructure:"fill_names" yaml:"fill_names"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		StorageMode: StorageLocal,
		Local: LocalConfig{
			Driver: "sqlite",
			Key:    "gncat_inventory_data",
			Postgres: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "postgres",
				Password: "postgres",
				Database: "gncat",
				SSLMode:  "disable",
			},
		},
		Remote: RemoteConfig{
			Driver:  "github",
			Branch:  "main",
			Path:    "data/inventory.json",
			APIURL:  "https://api.github.com",
			Region:  "us-east-1",
			Timeout: 30,
		},
		Import: ImportConfig{
			Mode: "replace",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		PageSize:   25,
		TopN:       10,
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
