// Package iogroups reads the taxonomic groups table from groups.yaml.
// This is an impure I/O package that implements groups.Loader.
package iogroups

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/groups"
	"gopkg.in/yaml.v3"
)

type iogroups struct {
	path string
}

// New creates a loader for groups.yaml in the config directory.
func New(cfg *config.Config) groups.Loader {
	return &iogroups{path: config.GroupsFilePath(cfg.HomeDir)}
}

// NewFromPath creates a loader for an explicit file.
func NewFromPath(path string) groups.Loader {
	return &iogroups{path: path}
}

// Load reads the table. A missing file gives the built-in table.
func (g *iogroups) Load() (groups.Table, error) {
	data, err := os.ReadFile(g.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("Groups file not found, using built-in groups", "path", g.path)
		return groups.Default().Index(), nil
	}
	if err != nil {
		return groups.Table{}, GroupsConfigError(g.path, err)
	}
	res, err := Parse(data)
	if err != nil {
		return groups.Table{}, GroupsConfigError(g.path, err)
	}
	return res, nil
}

// Parse decodes groups.yaml content.
func Parse(data []byte) (groups.Table, error) {
	var res groups.Table
	if err := yaml.Unmarshal(data, &res); err != nil {
		return groups.Table{}, err
	}
	if len(res.Groups) == 0 {
		return groups.Table{}, errors.New("no groups defined")
	}
	for _, g := range res.Groups {
		if g.Name == "" {
			return groups.Table{}, errors.New("group without name")
		}
	}
	if res.Other == "" {
		res.Other = groups.DefaultOther
	}
	return res.Index(), nil
}
