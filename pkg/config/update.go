package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Remote.Token).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int

	s = string(c.StorageMode)
	if s != "" {
		res = append(res, OptStorageMode(s))
	}

	s = c.Local.Driver
	if s != "" {
		res = append(res, OptLocalDriver(s))
	}
	s = c.Local.Path
	if s != "" {
		res = append(res, OptLocalPath(s))
	}
	s = c.Local.Key
	if s != "" {
		res = append(res, OptLocalKey(s))
	}
	s = c.Local.Postgres.Host
	if s != "" {
		res = append(res, OptPostgresHost(s))
	}
	i = c.Local.Postgres.Port
	if i > 0 {
		res = append(res, OptPostgresPort(i))
	}
	s = c.Local.Postgres.User
	if s != "" {
		res = append(res, OptPostgresUser(s))
	}
	s = c.Local.Postgres.Password
	if s != "" {
		res = append(res, OptPostgresPassword(s))
	}
	s = c.Local.Postgres.Database
	if s != "" {
		res = append(res, OptPostgresDatabase(s))
	}
	s = c.Local.Postgres.SSLMode
	if s != "" {
		res = append(res, OptPostgresSSLMode(s))
	}

	s = c.Remote.Driver
	if s != "" {
		res = append(res, OptRemoteDriver(s))
	}
	s = c.Remote.Owner
	if s != "" {
		res = append(res, OptRemoteOwner(s))
	}
	s = c.Remote.Repo
	if s != "" {
		res = append(res, OptRemoteRepo(s))
	}
	s = c.Remote.Branch
	if s != "" {
		res = append(res, OptRemoteBranch(s))
	}
	s = c.Remote.Path
	if s != "" {
		res = append(res, OptRemotePath(s))
	}
	s = c.Remote.APIURL
	if s != "" {
		res = append(res, OptRemoteAPIURL(s))
	}
	s = c.Remote.Bucket
	if s != "" {
		res = append(res, OptRemoteBucket(s))
	}
	s = c.Remote.Region
	if s != "" {
		res = append(res, OptRemoteRegion(s))
	}
	s = c.Remote.Endpoint
	if s != "" {
		res = append(res, OptRemoteEndpoint(s))
	}
	if c.Remote.PathStyle {
		res = append(res, OptRemotePathStyle(true))
	}
	s = c.Remote.Dir
	if s != "" {
		res = append(res, OptRemoteDir(s))
	}
	i = c.Remote.Timeout
	if i > 0 {
		res = append(res, OptRemoteTimeout(i))
	}

	s = c.Import.Mode
	if s != "" {
		res = append(res, OptImportMode(s))
	}
	if c.Import.FillNames {
		res = append(res, OptImportFillNames(true))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.PageSize
	if i > 0 {
		res = append(res, OptPageSize(i))
	}
	i = c.TopN
	if i > 0 {
		res = append(res, OptTopN(i))
	}
	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"StorageMode":   {"local": s, "remote": s},
		"Local.Driver":  {"sqlite": s, "file": s, "postgres": s},
		"Remote.Driver": {"github": s, "s3": s, "fs": s, "memory": s},
		"Postgres.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Import.Mode":     {"append": s, "replace": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	} else {
		gn.Warn(
			"<em>%s</em> does not support '%s' as a value. "+
				"Valid values are: \n%s\nIgnoring...",
			name, val, strings.Join(lines, "\n"),
		)
		return false
	}
}
