// Package iologger configures the global slog logger.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gncat/pkg/config"
)

// LogPath returns the log file location inside logDir.
func LogPath(logDir string) string {
	return filepath.Join(logDir, config.AppName+".log")
}

// Init sets the default slog logger from the log configuration.
// With the "file" destination the log goes to gncat.log in logDir, the
// file is truncated unless appendLog is true.
func Init(logDir string, cfg config.LogConfig, appendLog bool) error {
	w, err := writer(logDir, cfg.Destination, appendLog)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler(w, cfg)))
	return nil
}

func writer(logDir, dest string, appendLog bool) (io.Writer, error) {
	switch dest {
	case "stdout":
		return os.Stdout, nil
	case "file":
		path := LogPath(logDir)
		flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		if appendLog {
			flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		}
		f, err := os.OpenFile(path, flags, 0644)
		if err != nil {
			return nil, LogFileError(path, err)
		}
		return f, nil
	default:
		return os.Stderr, nil
	}
}

func handler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	switch cfg.Format {
	case "text":
		return slog.NewTextHandler(w, opts)
	case "tint":
		// terse text for terminals
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}
		return slog.NewTextHandler(w, opts)
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
