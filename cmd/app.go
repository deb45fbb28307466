package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gncat/internal/iofs"
	"github.com/gnames/gncat/internal/iogroups"
	"github.com/gnames/gncat/internal/iolocal"
	"github.com/gnames/gncat/internal/ioremote"
	"github.com/gnames/gncat/pkg/blob"
	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/groups"
	"github.com/gnames/gncat/pkg/store"
	"github.com/gnames/gnfmt"
)

// openStore builds the record store from the configuration and loads
// records. Close it with closeStore.
func openStore(
	ctx context.Context,
	opts ...store.Option,
) (*store.Store, store.InitResult, error) {
	var res store.InitResult
	local, err := iolocal.New(ctx, cfg)
	if err != nil {
		return nil, res, err
	}

	base := []store.Option{
		store.OptMode(cfg.StorageMode),
		store.OptDemo(iofs.Demo),
		store.OptJobsNumber(cfg.JobsNumber),
		store.OptSyncNotifier(reportSync),
	}
	if client, err := remoteClient(ctx); err == nil {
		base = append(base, store.OptRemote(client))
	} else {
		slog.Debug("Remote storage is not configured", "error", err)
	}

	st := store.New(local, append(base, opts...)...)
	res = st.Initialize(ctx, store.InitOptions{
		UseRemote: cfg.StorageMode == config.StorageRemote,
	})
	return st, res, nil
}

// remoteClient creates an uninitialized client of the configured remote.
func remoteClient(ctx context.Context) (*blob.Client, error) {
	backend, err := ioremote.New(ctx, cfg.Remote, cfg.Remote.Token)
	if err != nil {
		return nil, err
	}
	return blob.NewClient(backend), nil
}

// closeStore waits for background remote writes and releases storage.
func closeStore(st *store.Store) {
	timeout := 2 * time.Duration(cfg.Remote.Timeout) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := st.Close(ctx); err != nil {
		slog.Warn("Store closed before background work finished", "error", err)
		gn.Warn("Some changes may not have reached remote storage")
	}
}

// reportSync warns about failed background remote writes.
func reportSync(ev store.SyncEvent) {
	if ev.OK() {
		return
	}
	if ev.Conflict {
		gn.Warn("Remote file changed since it was read, " +
			"run <em>gncat sync pull</em> or <em>gncat sync push</em>")
		return
	}
	gn.Warn("Remote sync failed: %s", ev.Error)
}

// loadGroups reads taxonomic display groups from groups.yaml.
func loadGroups() groups.Table {
	tbl, err := iogroups.New(cfg).Load()
	if err != nil {
		printError(err)
		gn.Warn("Using built-in taxonomic groups")
		return groups.Default().Index()
	}
	return tbl
}

// printJSON writes pretty JSON.
func printJSON(w io.Writer, data any) error {
	enc := gnfmt.GNjson{Pretty: true}
	res, err := enc.Encode(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(res))
	return err
}
