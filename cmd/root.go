/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gnames/gn"
	"github.com/gnames/gncat/internal/ioconfig"
	"github.com/gnames/gncat/internal/iofs"
	"github.com/gnames/gncat/internal/iologger"
	"github.com/gnames/gncat/internal/iosession"
	gncat "github.com/gnames/gncat/pkg"
	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/errcode"
	"github.com/spf13/cobra"
)

var (
	homeDir string
	cfg     *config.Config

	// tokenSource tells where the remote credential came from.
	tokenSource string
)

// getRootCmd returns the root command with all subcommands.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", gncat.Version, gncat.Build),
		Use:     "gncat",
		Short:   "GNcat keeps a natural history specimen catalog",
		Long: `GNcat keeps a catalog of natural history specimens on this machine
and, optionally, in a single shared remote file (a GitHub repository file,
an S3 object, or a file on a shared directory).

Records are flat sets of fields. Spreadsheet headers are standardized on
import ("catalog_number" becomes "Catalog #", "locality" becomes
"Location"), every other column is kept as is.

Storage modes:
  local   records are saved to local storage only
  remote  records are also pushed to the remote file in the background

Configuration precedence (highest to lowest):
  1. CLI flags (--storage-mode, --log-level)
  2. Environment variables (GNCAT_*)
  3. Config file (~/.config/gncat/config.yaml)
  4. Built-in defaults

The remote credential is read from GNCAT_REMOTE_TOKEN or saved for the
session with 'gncat remote login'. It is never written to config.yaml.`,
		PersistentPreRunE: bootstrap,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "gncat version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gncat")

	rootCmd.PersistentFlags().String("storage-mode", "",
		"override storage mode for this run (local or remote)")
	rootCmd.PersistentFlags().String("log-level", "",
		"override log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		getInitCmd(),
		getListCmd(),
		getShowCmd(),
		getAddCmd(),
		getUpdateCmd(),
		getDeleteCmd(),
		getImportCmd(),
		getExportCmd(),
		getStatsCmd(),
		getIncompleteCmd(),
		getValuesCmd(),
		getChartsCmd(),
		getModeCmd(),
		getRemoteCmd(),
		getSyncCmd(),
		getServeCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		return err
	}
	if err = iofs.EnsureGroupsFile(homeDir); err != nil {
		return err
	}

	cfgViper, envToken, err := ioconfig.Load(homeDir)
	if err != nil {
		return err
	}

	cfg = config.New()
	cfg.Update(cfgViper.ToOptions())

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})
	cfg.Update(flagOptions(cmd))

	var token string
	token, tokenSource = resolveToken(envToken)
	cfg.Update([]config.Option{config.OptRemoteToken(token)})

	// Reconfigure logging with user's settings, keeping earlier lines
	if err = iologger.Init(config.LogDir(homeDir), cfg.Log, true); err != nil {
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"storage_mode", cfg.StorageMode,
		"env_overrides", ioconfig.HasEnv(),
	)
	return nil
}

// flagOptions converts global flags into config options.
func flagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	flags := cmd.Flags()
	if flags.Changed("storage-mode") {
		s, _ := flags.GetString("storage-mode")
		res = append(res, config.OptStorageMode(s))
	}
	if flags.Changed("log-level") {
		s, _ := flags.GetString("log-level")
		res = append(res, config.OptLogLevel(s))
	}
	return res
}

// resolveToken picks the environment credential over the session one.
func resolveToken(envToken string) (string, string) {
	if envToken != "" {
		return envToken, "environment"
	}
	token, err := iosession.New().Get()
	if err != nil {
		slog.Warn("Cannot read session token", "error", err)
		return "", ""
	}
	if token != "" {
		return token, "session"
	}
	return "", ""
}

// printError shows the user-facing message of an error.
func printError(err error) {
	if gnErr, ok := errcode.GNError(err); ok {
		gn.PrintErrorMessage(gnErr)
		return
	}
	gn.PrintErrorMessage(err)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}
