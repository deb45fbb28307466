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
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/gnames/gncat/internal/ioserver"
	"github.com/spf13/cobra"
)

// getServeCmd returns the serve command.
func getServeCmd() *cobra.Command {
	var addr string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog as a JSON HTTP API",
		Long: `Serve the catalog as a JSON HTTP API until interrupted.

Endpoints:
  GET    /api/records?q=&field=&page=&per_page=&<Field>=
  POST   /api/records
  GET    /api/records/{catalog}
  PATCH  /api/records/{catalog}
  DELETE /api/records/{catalog}
  GET    /api/incomplete?group=
  GET    /api/stats
  GET    /api/values/{field}
  GET    /api/charts?top=
  POST   /api/import?mode=append|replace   (multipart field "file")
  GET    /api/export?format=xlsx|csv
  GET    /api/mode, PUT /api/mode
  GET    /api/sync, POST /api/sync/push, POST /api/sync/pull

Examples:
  gncat serve
  gncat serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, res, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(st)

			srv := ioserver.New(st, loadGroups(),
				ioserver.OptPageSize(cfg.PageSize),
				ioserver.OptTopN(cfg.TopN),
				ioserver.OptModeSaver(saveMode),
			)
			gn.Info("Serving <em>%d</em> records (%s) on <em>%s</em>",
				len(res.Records), res.Source, addr)
			return srv.Run(ctx, addr)
		},
	}

	serveCmd.Flags().StringVarP(&addr, "addr", "a", ":8080",
		"address to listen on")
	return serveCmd
}
