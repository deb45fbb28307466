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
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/record"
	"github.com/gnames/gncat/pkg/store"
	"github.com/spf13/cobra"
)

// listColumns are the fields shown by the table output.
var listColumns = []string{
	record.Catalog, record.Order, record.Family, record.Genus,
	record.Species, record.CommonName, record.Country,
}

// getInitCmd returns the init command.
func getInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create configuration and load records",
		Long: `Create configuration files and directories, then load records.

Records come from the first source that has them:
  1. the remote file (storage mode 'remote' with a credential)
  2. local storage
  3. the bundled demonstration dataset

Examples:
  gncat init
  GNCAT_REMOTE_TOKEN=ghp_xxx gncat init --storage-mode remote`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, res, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(st)

			gn.Info("Configuration files are available at <em>%s</em>",
				config.ConfigDir(homeDir))
			gn.Info("Storage mode: <em>%s</em>", st.GetStorageMode())
			gn.Info("Loaded <em>%s</em> records from %s",
				humanize.Comma(int64(len(res.Records))), res.Source)
			return nil
		},
	}
}

// getListCmd returns the list command.
func getListCmd() *cobra.Command {
	var (
		query    string
		field    string
		filters  []string
		page     int
		perPage  int
		recent   int
		showJSON bool
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Search and list records",
		Long: `Search records and print them a page at a time.

The query is a case-insensitive substring searched in all fields, or in
one field given by --field. Filters are exact, case-insensitive matches.

Examples:
  gncat list
  gncat list -q canis
  gncat list -q flagstaff --field Location
  gncat list --filter Country=USA --filter Order=Carnivora -p 2
  gncat list --recent 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flt, err := parseFilters(filters)
			if err != nil {
				return err
			}
			st, _, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(st)

			out := cmd.OutOrStdout()
			if recent > 0 {
				recs := st.Recent(recent)
				if showJSON {
					return printJSON(out, recs)
				}
				printTable(out, recs)
				return nil
			}

			if perPage <= 0 {
				perPage = cfg.PageSize
			}
			recs := st.Search(store.Criteria{Term: query, Field: field, Filters: flt})
			pg := store.Paginate(recs, page, perPage)
			if showJSON {
				return printJSON(out, pg)
			}
			printTable(out, pg.Records)
			fmt.Fprintf(out, "\nPage %d of %d, %s records\n",
				pg.Page, pg.Pages, humanize.Comma(int64(pg.Total)))
			return nil
		},
	}

	listCmd.Flags().StringVarP(&query, "query", "q", "", "search term")
	listCmd.Flags().StringVarP(&field, "field", "f", "",
		"limit the search term to one field")
	listCmd.Flags().StringArrayVar(&filters, "filter", nil,
		"exact match Field=Value, can be repeated")
	listCmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	listCmd.Flags().IntVar(&perPage, "per-page", 0,
		"records per page (default from config)")
	listCmd.Flags().IntVarP(&recent, "recent", "r", 0,
		"show the last N added records instead of searching")
	listCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON")

	return listCmd
}

func printTable(w io.Writer, recs []record.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(listColumns, "\t"))
	for _, r := range recs {
		row := make([]string, len(listColumns))
		for i, c := range listColumns {
			row[i] = r.Get(c).String()
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

// getShowCmd returns the show command.
func getShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <catalog>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(st)

			rec, ok := st.GetByCatalog(args[0])
			if !ok {
				return store.NotFoundError(args[0])
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
}

// getAddCmd returns the add command.
func getAddCmd() *cobra.Command {
	var sets []string

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record",
		Long: `Add a record. The catalog number is required and must be unique.

Examples:
  gncat add --set "Catalog #=M-0101" --set Genus=Canis --set Species=latrans
  gncat add --set "Catalog #=B-0042" --set "# of specimens=2"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := parseSet(sets)
			if err != nil {
				return err
			}
			return mutate(cmd.Context(), func(st *store.Store) error {
				if err := st.Add(cmd.Context(), rec); err != nil {
					return err
				}
				gn.Info("Added record <em>%s</em>", rec.CatalogKey())
				return nil
			})
		},
	}

	addCmd.Flags().StringArrayVarP(&sets, "set", "s", nil,
		"field value as Field=Value, can be repeated")
	return addCmd
}

// getUpdateCmd returns the update command.
func getUpdateCmd() *cobra.Command {
	var sets []string

	updateCmd := &cobra.Command{
		Use:   "update <catalog>",
		Short: "Update fields of a record",
		Long: `Update fields of a record. Given fields replace old values, other
fields stay. Setting "Catalog #" renames the record.

Examples:
  gncat update M-0101 --set Location=Flagstaff --set Country=USA`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partial, err := parseSet(sets)
			if err != nil {
				return err
			}
			if partial.Len() == 0 {
				return fmt.Errorf("nothing to update, use --set Field=Value")
			}
			return mutate(cmd.Context(), func(st *store.Store) error {
				if err := st.Update(cmd.Context(), args[0], partial); err != nil {
					return err
				}
				gn.Info("Updated record <em>%s</em>", args[0])
				return nil
			})
		},
	}

	updateCmd.Flags().StringArrayVarP(&sets, "set", "s", nil,
		"field value as Field=Value, can be repeated")
	return updateCmd
}

// getDeleteCmd returns the delete command.
func getDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <catalog>",
		Aliases: []string{"rm"},
		Short:   "Delete a record",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd.Context(), func(st *store.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				gn.Info("Deleted record <em>%s</em>", args[0])
				return nil
			})
		},
	}
}

// mutate runs f over an open store and waits for remote writes.
func mutate(ctx context.Context, f func(*store.Store) error) error {
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(st)
	return f(st)
}
