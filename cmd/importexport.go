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
	"log/slog"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/nameparse"
	"github.com/gnames/gncat/pkg/store"
	"github.com/gnames/gncat/pkg/tabular"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// getImportCmd returns the import command.
func getImportCmd() *cobra.Command {
	var (
		appendRecs  bool
		replaceRecs bool
		fillNames   bool
		noProgress  bool
	)

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import records from a CSV or Excel file",
		Long: `Import records from a CSV or Excel file (.csv, .xlsx, .xls, .xlsm).

The first row is the header. Known header aliases are renamed to canonical
field names, other columns are kept. Rows with a catalog number that is
already taken are skipped.

Modes:
  replace  imported records replace all records (default, see config.yaml)
  append   imported records are added after existing ones

With --fill-names, blank Genus and Species are filled from a
"Scientific name" column.

Examples:
  gncat import specimens.xlsx
  gncat import new_birds.csv --append
  gncat import legacy.csv --append --fill-names`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := importMode(appendRecs, replaceRecs, cfg.Import.Mode)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("fill-names") {
				cfg.Update([]config.Option{config.OptImportFillNames(fillNames)})
			}
			return runImport(cmd, args[0], mode, noProgress)
		},
	}

	importCmd.Flags().BoolVarP(&appendRecs, "append", "a", false,
		"append records to existing ones")
	importCmd.Flags().BoolVarP(&replaceRecs, "replace", "r", false,
		"replace existing records")
	importCmd.Flags().BoolVar(&fillNames, "fill-names", false,
		"fill Genus and Species from scientific names")
	importCmd.Flags().BoolVar(&noProgress, "no-progress", false,
		"do not show progress bar")

	return importCmd
}

func runImport(
	cmd *cobra.Command,
	path string,
	mode store.ImportMode,
	noProgress bool,
) error {
	ctx := cmd.Context()
	start := time.Now()

	rows, err := tabular.DecodeFile(path)
	if err != nil {
		return err
	}
	gn.Info("Read <em>%s</em> rows from %s",
		humanize.Comma(int64(len(rows))), path)

	var opts []store.Option
	if !noProgress && len(rows) > 0 {
		bar := newProgressBar(len(rows), "Standardizing ")
		defer bar.Finish()
		opts = append(opts, store.OptProgress(func() { bar.Increment() }))
	}
	if cfg.Import.FillNames {
		opts = append(opts, store.OptNameFiller(nameparse.New(cfg.JobsNumber)))
	}

	st, _, err := openStore(ctx, opts...)
	if err != nil {
		return err
	}
	defer closeStore(st)

	res, err := st.ImportFrom(ctx, rows, mode)
	if err != nil {
		return err
	}

	dur := time.Since(start)
	slog.Info("Import finished",
		"file", path, "duration", gnfmt.TimeString(dur.Seconds()))
	gn.Info("Imported <em>%s</em> records (%s mode) in %s",
		humanize.Comma(int64(res.Imported)), res.Mode,
		gnfmt.TimeString(dur.Seconds()))
	if res.Duplicates > 0 {
		gn.Warn("Skipped %s rows with duplicate catalog numbers",
			humanize.Comma(int64(res.Duplicates)))
	}
	if res.Filled > 0 {
		gn.Info("Filled names of %s records", humanize.Comma(int64(res.Filled)))
	}
	gn.Info("Catalog now has <em>%s</em> records", humanize.Comma(int64(res.Total)))
	return nil
}

// getExportCmd returns the export command.
func getExportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export records to an Excel or CSV file",
		Long: `Export all records to an Excel (sheet "Inventory") or CSV file.

The default file name is gncat_inventory_YYYY-MM-DD.<ext> in the current
directory.

Examples:
  gncat export
  gncat export --format csv
  gncat export -o /tmp/catalog.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := tabular.ParseFormat(format)
			if err != nil {
				return err
			}
			if output == "" {
				output = tabular.ExportFileName(f, time.Now())
			}

			st, _, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(st)

			data, err := st.ExportSnapshot(f)
			if err != nil {
				return err
			}
			if err = os.WriteFile(output, data, 0644); err != nil {
				return tabular.WriteError(f, err)
			}
			gn.Info("Exported <em>%s</em> records to %s (%s)",
				humanize.Comma(int64(st.Len())), output,
				humanize.Bytes(uint64(len(data))))
			return nil
		},
	}

	exportCmd.Flags().StringVarP(&format, "format", "f", "xlsx",
		"file format: xlsx or csv")
	exportCmd.Flags().StringVarP(&output, "output", "o", "",
		"output file")

	return exportCmd
}

// newProgressBar creates a new progress bar with consistent
// settings.
func newProgressBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}

