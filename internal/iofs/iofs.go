package iofs

import (
	_ "embed"
	"os"

	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/record"
)

//go:embed config.yaml
var ConfigYAML string

//go:embed groups.yaml
var GroupsYAML string

//go:embed demo.json
var demoJSON []byte

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.DataDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return DirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	return ensureFile(config.ConfigFilePath(homeDir), ConfigYAML)
}

func EnsureGroupsFile(homeDir string) error {
	return ensureFile(config.GroupsFilePath(homeDir), GroupsYAML)
}

// ensureFile writes content to path unless the file already exists.
func ensureFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return DefaultFileError(path, err)
	}

	return nil
}

// Demo returns the bundled demonstration dataset. Every call gives a
// fresh copy.
func Demo() ([]record.Record, error) {
	res, err := record.UnmarshalList(demoJSON)
	if err != nil {
		return nil, DemoError(err)
	}
	return res, nil
}
