// Package ioconfig reads and updates config.yaml. This is an impure
// package that handles the file system and environment variables.
package ioconfig

import (
	"os"
	"strings"

	"github.com/gnames/gncat/pkg/config"
	"github.com/spf13/viper"
)

// EnvPrefix starts every environment variable of GNcat.
const EnvPrefix = "GNCAT"

// TokenKey is the config key of the remote credential. It is read only
// from the environment.
const TokenKey = "remote.token"

// envKeys are config keys that can be overridden by environment
// variables. They match the fields of config.ToOptions.
var envKeys = []string{
	"storage_mode",

	"local.driver",
	"local.path",
	"local.key",
	"local.postgres.host",
	"local.postgres.port",
	"local.postgres.user",
	"local.postgres.password",
	"local.postgres.database",
	"local.postgres.ssl_mode",

	"remote.driver",
	"remote.owner",
	"remote.repo",
	"remote.branch",
	"remote.path",
	"remote.api_url",
	"remote.bucket",
	"remote.region",
	"remote.endpoint",
	"remote.path_style",
	"remote.dir",
	"remote.timeout",

	"import.mode",
	"import.fill_names",

	"log.level",
	"log.format",
	"log.destination",

	"page_size",
	"top_n",
	"jobs_number",
}

// EnvName returns the environment variable of a config key,
// for example "remote.token" becomes GNCAT_REMOTE_TOKEN.
func EnvName(key string) string {
	r := strings.NewReplacer(".", "_")
	return EnvPrefix + "_" + strings.ToUpper(r.Replace(key))
}

// Load reads config.yaml of the home directory with environment
// overrides. The result keeps raw values, apply them to a valid Config
// with ToOptions and Update. The remote token is returned separately
// because ToOptions never carries it.
func Load(homeDir string) (*config.Config, string, error) {
	path := config.ConfigFilePath(homeDir)
	v := viper.New()
	v.SetConfigFile(path)
	for _, k := range envKeys {
		_ = v.BindEnv(k, EnvName(k))
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, "", ReadError(path, err)
	}

	var res config.Config
	if err := v.Unmarshal(&res); err != nil {
		return nil, "", ReadError(path, err)
	}
	res.Remote.Token = strings.TrimSpace(os.Getenv(EnvName(TokenKey)))
	return &res, res.Remote.Token, nil
}

// Save sets the given keys in config.yaml and keeps the rest of the
// settings. Environment variables are not consulted, so overrides never
// leak into the file.
func Save(homeDir string, settings map[string]any) error {
	path := config.ConfigFilePath(homeDir)
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return SaveError(path, err)
	}
	for k, val := range settings {
		if k == TokenKey {
			continue
		}
		v.Set(k, val)
	}
	if err := v.WriteConfig(); err != nil {
		return SaveError(path, err)
	}
	return nil
}

// HasEnv checks if any GNCAT_* variable is set.
func HasEnv() bool {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, EnvPrefix+"_") {
			return true
		}
	}
	return false
}
