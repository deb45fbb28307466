// Package ioremote provides drivers of the remote blob that holds the
// shared record list.
package ioremote

import (
	"context"
	"time"

	"github.com/gnames/gncat/pkg/blob"
	"github.com/gnames/gncat/pkg/config"
)

// New selects a backend according to the remote settings. The token is
// the credential: a GitHub token, or "ACCESS_KEY_ID:SECRET_ACCESS_KEY"
// for S3. A missing token is not an error here, the client reports it
// during Init.
func New(ctx context.Context, cfg config.RemoteConfig, token string) (blob.Backend, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	switch blob.Driver(cfg.Driver) {
	case blob.DriverGitHub, "":
		if cfg.Owner == "" {
			return nil, ConfigError("github", "owner")
		}
		if cfg.Repo == "" {
			return nil, ConfigError("github", "repo")
		}
		if cfg.Path == "" {
			return nil, ConfigError("github", "path")
		}
		return NewGitHub(
			cfg.APIURL, cfg.Owner, cfg.Repo, cfg.Branch, cfg.Path, token, timeout,
		), nil
	case blob.DriverS3:
		id, secret := SplitKeyPair(token)
		return NewS3(ctx, S3Config{
			Bucket:          cfg.Bucket,
			Key:             cfg.Path,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			PathStyle:       cfg.PathStyle,
			AccessKeyID:     id,
			SecretAccessKey: secret,
		})
	case blob.DriverFS:
		return NewFS(cfg.Dir, cfg.Path)
	case blob.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, UnknownDriverError(cfg.Driver)
	}
}
