// Package iotesting provides shared test utilities.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gnames/gncat/pkg/config"
)

const (
	// TestDatabaseName is the database name used for PostgreSQL integration
	// tests. This ensures tests never run against a production database.
	TestDatabaseName = "gncat_test"
)

// TempHomeConfig returns a default configuration with HomeDir inside a
// temporary directory, so tests never touch ~/.config/gncat or
// ~/.local/share/gncat. Logging goes to stderr.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    cfg := iotesting.TempHomeConfig(t)
//	    // cfg.LocalPath() is inside t.TempDir()
//	}
func TempHomeConfig(t *testing.T, opts ...config.Option) *config.Config {
	t.Helper()

	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(t.TempDir()),
		config.OptLogDestination("stderr"),
		config.OptJobsNumber(2),
	})
	cfg.Update(opts)
	return cfg
}

// PostgresConfig returns database settings for integration tests. The
// test is skipped in short mode or when PostgreSQL is not reachable.
// Host and port can be changed with GNCAT_TEST_PG_HOST and
// GNCAT_TEST_PG_PORT.
func PostgresConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}

	cfg := config.New().Local.Postgres
	cfg.Database = TestDatabaseName
	if host := os.Getenv("GNCAT_TEST_PG_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("GNCAT_TEST_PG_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		t.Skipf("PostgreSQL is not reachable at %s", addr)
	}
	conn.Close()
	return cfg
}
