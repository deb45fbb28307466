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
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gncat/internal/ioconfig"
	"github.com/gnames/gncat/internal/iosession"
	"github.com/gnames/gncat/pkg/blob"
	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/store"
	"github.com/spf13/cobra"
)

// getModeCmd returns the mode command.
func getModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mode [local|remote]",
		Short: "Show or change the storage mode",
		Long: `Show or change the storage mode. The new mode is saved to config.yaml.

  local   records are saved to local storage only
  remote  records are also pushed to the remote file in the background

Examples:
  gncat mode
  gncat mode remote`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cfg.StorageMode)
				return nil
			}
			m, err := parseMode(args[0])
			if err != nil {
				return err
			}
			if err = saveMode(m); err != nil {
				return err
			}
			gn.Info("Storage mode is <em>%s</em>", m)
			if m == config.StorageRemote && cfg.Remote.Token == "" {
				gn.Warn("No remote credential, run <em>gncat remote login</em>")
			}
			return nil
		},
	}
}

func parseMode(s string) (config.StorageMode, error) {
	m := config.StorageMode(strings.ToLower(strings.TrimSpace(s)))
	if m != config.StorageLocal && m != config.StorageRemote {
		return "", store.StorageModeError(s)
	}
	return m, nil
}

// saveMode persists the storage mode to config.yaml.
func saveMode(m config.StorageMode) error {
	err := ioconfig.Save(homeDir, map[string]any{"storage_mode": string(m)})
	if err != nil {
		return err
	}
	cfg.Update([]config.Option{config.OptStorageMode(string(m))})
	return nil
}

// getRemoteCmd returns the remote command with its subcommands.
func getRemoteCmd() *cobra.Command {
	remoteCmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage the remote file and its credential",
		Long: `Manage the remote file that keeps the shared record list.

The credential is a GitHub token for the github driver, or
ACCESS_KEY_ID:SECRET_ACCESS_KEY for the s3 driver. It is saved for the
session only and never written to config.yaml.`,
	}
	remoteCmd.AddCommand(
		getRemoteLoginCmd(),
		getRemoteLogoutCmd(),
		getRemoteStatusCmd(),
		getRemoteSetCmd(),
	)
	return remoteCmd
}

func getRemoteLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [token]",
		Short: "Save the remote credential for this session",
		Long: `Save the remote credential for this session. Without an argument the
token is read from standard input.

Examples:
  gncat remote login ghp_xxx
  echo "$TOKEN" | gncat remote login`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				fmt.Fprint(cmd.ErrOrStderr(), "Token: ")
				var err error
				if token, err = readLine(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			h := iosession.New()
			if err := h.Set(token); err != nil {
				return err
			}
			cfg.Update([]config.Option{config.OptRemoteToken(token)})
			tokenSource = "session"
			gn.Info("Credential saved to <em>%s</em>", h.Path())

			client, err := remoteClient(cmd.Context())
			if err != nil {
				return err
			}
			if !client.Init(cmd.Context()) {
				gn.Warn("Cannot connect to %s remote storage with this credential",
					client.Driver())
				return nil
			}
			gn.Info("Connected to <em>%s</em> remote storage", client.Driver())
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func getRemoteLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the session credential",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			h := iosession.New()
			if err := h.Clear(); err != nil {
				return err
			}
			gn.Info("Session credential removed")
			if tokenSource == "environment" {
				gn.Warn("GNCAT_REMOTE_TOKEN is still set in the environment")
			}
			return nil
		},
	}
}

func getRemoteStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the remote file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Storage mode:  %s\n", cfg.StorageMode)
			fmt.Fprintf(out, "Driver:        %s\n", cfg.Remote.Driver)
			fmt.Fprintf(out, "Location:      %s\n", remoteLocation(cfg.Remote))
			src := tokenSource
			if src == "" {
				src = "none"
			}
			fmt.Fprintf(out, "Credential:    %s\n", src)

			client, err := remoteClient(ctx)
			if err != nil {
				return err
			}
			return printRemoteState(ctx, out, client)
		},
	}
}

func printRemoteState(ctx context.Context, out io.Writer, client *blob.Client) error {
	if !client.Init(ctx) {
		fmt.Fprintf(out, "State:         %s\n", client.State())
		gn.Warn("Remote storage is not reachable, see the log for details")
		return nil
	}
	recs, err := client.Read(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "State:         %s\n", client.State())
	fmt.Fprintf(out, "Records:       %s\n", humanize.Comma(int64(len(recs))))
	if v := client.Version(); v != "" {
		fmt.Fprintf(out, "Version:       %s\n", v)
	} else {
		fmt.Fprintln(out, "Version:       remote file does not exist yet")
	}
	return nil
}

func remoteLocation(r config.RemoteConfig) string {
	switch blob.Driver(r.Driver) {
	case blob.DriverS3:
		res := fmt.Sprintf("s3://%s/%s", r.Bucket, r.Path)
		if r.Endpoint != "" {
			res += " at " + r.Endpoint
		}
		return res
	case blob.DriverFS:
		return r.Dir + "/" + r.Path
	case blob.DriverMemory:
		return "memory"
	default:
		return fmt.Sprintf("%s/%s@%s:%s", r.Owner, r.Repo, r.Branch, r.Path)
	}
}

// remoteSetFlags map flags of 'remote set' to config keys.
var remoteSetFlags = []struct {
	flag, key, usage string
}{
	{"driver", "remote.driver", "github, s3, fs or memory"},
	{"owner", "remote.owner", "GitHub user or organization"},
	{"repo", "remote.repo", "GitHub repository"},
	{"branch", "remote.branch", "GitHub branch"},
	{"path", "remote.path", "file path in the repository, object key, or file name"},
	{"api-url", "remote.api_url", "GitHub API URL"},
	{"bucket", "remote.bucket", "S3 bucket"},
	{"region", "remote.region", "S3 region"},
	{"endpoint", "remote.endpoint", "S3-compatible endpoint"},
	{"dir", "remote.dir", "shared directory of the fs driver"},
}

func getRemoteSetCmd() *cobra.Command {
	var (
		pathStyle bool
		timeout   int
	)

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change remote settings in config.yaml",
		Long: `Change remote settings in config.yaml. Only given flags are changed.

Examples:
  gncat remote set --owner zoarch-lab --repo inventory
  gncat remote set --driver s3 --bucket catalog --path inventory.json
  gncat remote set --driver fs --dir /mnt/shared --path inventory.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := make(map[string]any)
			for _, f := range remoteSetFlags {
				if cmd.Flags().Changed(f.flag) {
					v, _ := cmd.Flags().GetString(f.flag)
					settings[f.key] = strings.TrimSpace(v)
				}
			}
			if cmd.Flags().Changed("path-style") {
				settings["remote.path_style"] = pathStyle
			}
			if cmd.Flags().Changed("timeout") {
				if timeout <= 0 {
					return fmt.Errorf("timeout must be positive")
				}
				settings["remote.timeout"] = timeout
			}
			if len(settings) == 0 {
				return fmt.Errorf("nothing to change, see 'gncat remote set --help'")
			}
			if d, ok := settings["remote.driver"]; ok {
				switch blob.Driver(d.(string)) {
				case blob.DriverGitHub, blob.DriverS3, blob.DriverFS, blob.DriverMemory:
				default:
					return fmt.Errorf("unknown remote driver %q", d)
				}
			}

			if err := ioconfig.Save(homeDir, settings); err != nil {
				return err
			}
			gn.Info("Remote settings saved to <em>%s</em>",
				config.ConfigFilePath(homeDir))
			return nil
		},
	}

	for _, f := range remoteSetFlags {
		setCmd.Flags().String(f.flag, "", f.usage)
	}
	setCmd.Flags().BoolVar(&pathStyle, "path-style", false,
		"use path-style S3 addressing")
	setCmd.Flags().IntVar(&timeout, "timeout", 0, "request timeout in seconds")

	return setCmd
}

// getSyncCmd returns the sync command with its subcommands.
func getSyncCmd() *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull or push the record list explicitly",
		Long: `Pull the remote record list into local storage, or push local records
to the remote file. Push overwrites remote changes made by others.`,
	}

	pullCmd := &cobra.Command{
		Use:   "pull",
		Short: "Replace local records with the remote list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mutate(cmd.Context(), func(st *store.Store) error {
				if err := st.PullRemote(cmd.Context()); err != nil {
					return err
				}
				gn.Info("Pulled <em>%s</em> records",
					humanize.Comma(int64(st.Len())))
				return nil
			})
		},
	}

	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "Overwrite the remote list with local records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mutate(cmd.Context(), func(st *store.Store) error {
				if err := st.PushRemote(cmd.Context()); err != nil {
					return err
				}
				gn.Info("Pushed <em>%s</em> records",
					humanize.Comma(int64(st.Len())))
				return nil
			})
		},
	}

	syncCmd.AddCommand(pullCmd, pushCmd)
	return syncCmd
}
