package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptStorageMode sets which backend is authoritative for persistence.
// Valid values: "local", "remote".
func OptStorageMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("StorageMode", s) {
			c.StorageMode = StorageMode(s)
		}
	}
}

// OptLocalDriver sets the local storage driver.
// Valid values: "sqlite", "file", "postgres".
func OptLocalDriver(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Local.Driver", s) {
			c.Local.Driver = s
		}
	}
}

// OptLocalPath sets the sqlite file or the directory of the file driver.
func OptLocalPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Local Path", s) {
			c.Local.Path = s
		}
	}
}

// OptLocalKey sets the storage slot name that holds the record list.
func OptLocalKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Local Key", s) {
			c.Local.Key = s
		}
	}
}

// OptPostgresHost sets the PostgreSQL server hostname or IP address.
func OptPostgresHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Postgres Host", s) {
			c.Local.Postgres.Host = s
		}
	}
}

// OptPostgresPort sets the PostgreSQL server port number.
func OptPostgresPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Postgres Port", i) {
			c.Local.Postgres.Port = i
		}
	}
}

// OptPostgresUser sets the PostgreSQL database username.
func OptPostgresUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Postgres User", s) {
			c.Local.Postgres.User = s
		}
	}
}

// OptPostgresPassword sets the PostgreSQL database password.
func OptPostgresPassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Postgres Password", s) {
			c.Local.Postgres.Password = s
		}
	}
}

// OptPostgresDatabase sets the PostgreSQL database name to connect to.
func OptPostgresDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Postgres Database", s) {
			c.Local.Postgres.Database = s
		}
	}
}

// OptPostgresSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptPostgresSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Postgres.SSLMode", s) {
			c.Local.Postgres.SSLMode = s
		}
	}
}

// OptRemoteDriver sets the remote blob driver.
// Valid values: "github", "s3", "fs", "memory".
func OptRemoteDriver(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Remote.Driver", s) {
			c.Remote.Driver = s
		}
	}
}

// OptRemoteOwner sets the GitHub user or organization.
func OptRemoteOwner(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Remote Owner", s) {
			c.Remote.Owner = s
		}
	}
}

// OptRemoteRepo sets the GitHub repository name.
func OptRemoteRepo(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Remote Repo", s) {
			c.Remote.Repo = s
		}
	}
}

// OptRemoteBranch sets the branch that holds the data file.
func OptRemoteBranch(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Remote Branch", s) {
			c.Remote.Branch = s
		}
	}
}

// OptRemotePath sets the data file path (or S3 object key).
func OptRemotePath(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "/")
	return func(c *Config) {
		if isValidString("Remote Path", s) {
			c.Remote.Path = s
		}
	}
}

// OptRemoteAPIURL sets the base URL of the GitHub API.
func OptRemoteAPIURL(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "/")
	return func(c *Config) {
		if isValidString("Remote API URL", s) {
			c.Remote.APIURL = s
		}
	}
}

// OptRemoteBucket sets the S3 bucket name.
func OptRemoteBucket(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Remote Bucket", s) {
			c.Remote.Bucket = s
		}
	}
}

// OptRemoteRegion sets the S3 region.
func OptRemoteRegion(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Remote Region", s) {
			c.Remote.Region = s
		}
	}
}

// OptRemoteEndpoint sets an S3-compatible endpoint, for example MinIO.
func OptRemoteEndpoint(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Remote Endpoint", s) {
			c.Remote.Endpoint = s
		}
	}
}

// OptRemotePathStyle forces path-style S3 addressing.
func OptRemotePathStyle(b bool) Option {
	return func(c *Config) {
		c.Remote.PathStyle = b
	}
}

// OptRemoteDir sets the shared directory of the "fs" driver.
func OptRemoteDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Remote Dir", s) {
			c.Remote.Dir = s
		}
	}
}

// OptRemoteTimeout sets the timeout of remote requests in seconds.
func OptRemoteTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Remote Timeout", i) {
			c.Remote.Timeout = i
		}
	}
}

// OptRemoteToken sets the bearer credential for the remote blob.
// Runtime-only field - not in ToOptions().
func OptRemoteToken(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if s != "" {
			c.Remote.Token = s
		}
	}
}

// OptImportMode sets the default import mode.
// Valid values: "append", "replace".
func OptImportMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Import.Mode", s) {
			c.Import.Mode = s
		}
	}
}

// OptImportFillNames enables filling Genus and Species from a scientific
// name column during import.
func OptImportFillNames(b bool) Option {
	return func(c *Config) {
		c.Import.FillNames = b
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptPageSize sets the number of records per page in listings.
func OptPageSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Page Size", i) {
			c.PageSize = i
		}
	}
}

// OptTopN sets how many chart buckets are kept before collapsing the
// rest into "Other".
func OptTopN(i int) Option {
	return func(c *Config) {
		if isValidInt("Top N", i) {
			c.TopN = i
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, data, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
