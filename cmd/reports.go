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
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gncat/pkg/record"
	"github.com/gnames/gncat/pkg/summary"
	"github.com/spf13/cobra"
)

// getStatsCmd returns the stats command.
func getStatsCmd() *cobra.Command {
	var showJSON bool

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show summary statistics of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, _, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(st)

			stats := st.GetSummaryStats()
			out := cmd.OutOrStdout()
			if showJSON {
				return printJSON(out, stats)
			}
			printStats(out, stats)
			return nil
		},
	}

	statsCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON")
	return statsCmd
}

func printStats(w io.Writer, s summary.Stats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	lines := []struct {
		label string
		n     int
	}{
		{"Records", s.TotalRecords},
		{"Specimens", s.TotalSpecimens},
		{"Species", s.UniqueSpecies},
		{"Genera", s.UniqueGenera},
		{"Families", s.UniqueFamilies},
		{"Orders", s.UniqueOrders},
		{"Locations", s.UniqueLocations},
		{"Countries", s.UniqueCountries},
		{"Incomplete records", s.Incomplete},
	}
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\n", l.label, humanize.Comma(int64(l.n)))
	}
	_ = tw.Flush()
}

// getIncompleteCmd returns the incomplete command.
func getIncompleteCmd() *cobra.Command {
	var group string

	incompleteCmd := &cobra.Command{
		Use:   "incomplete",
		Short: "List records with missing required fields",
		Long: `List records that miss any of the tracked fields (Order, Family,
Genus, Species, Common Name, Location, Country, How collected,
Date collected).

Examples:
  gncat incomplete
  gncat incomplete --group Birds`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, _, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(st)

			tbl := loadGroups()
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Catalog #\tGroup\tMissing")
			var count int
			for _, r := range st.GetIncompleteRecords() {
				g := tbl.GroupOf(r.Get(record.Order).String())
				if group != "" && !strings.EqualFold(g, group) {
					continue
				}
				count++
				fmt.Fprintf(tw, "%s\t%s\t%s\n",
					r.CatalogKey(), g, strings.Join(r.MissingFields(), ", "))
			}
			_ = tw.Flush()
			fmt.Fprintf(out, "\n%s incomplete records\n",
				humanize.Comma(int64(count)))
			return nil
		},
	}

	incompleteCmd.Flags().StringVarP(&group, "group", "g", "",
		"only records of a taxonomic group")
	return incompleteCmd
}

// getValuesCmd returns the values command.
func getValuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "values <field>",
		Short: "List distinct values of a field",
		Long: `List distinct non-blank values of a field, sorted.

Examples:
  gncat values Country
  gncat values "Common Name"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(st)

			out := cmd.OutOrStdout()
			for _, v := range st.GetUniqueValues(args[0]) {
				fmt.Fprintln(out, v)
			}
			return nil
		},
	}
}

// getChartsCmd returns the charts command.
func getChartsCmd() *cobra.Command {
	var (
		top      int
		showJSON bool
	)

	chartsCmd := &cobra.Command{
		Use:   "charts",
		Short: "Show distributions of records",
		Long: `Show distributions of records by class, order, family, taxonomic
group, country, state or province, and collection year.

Categories beyond --top are collapsed into "Other".

Examples:
  gncat charts
  gncat charts --top 5
  gncat charts --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if top <= 0 {
				top = cfg.TopN
			}
			st, _, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore(st)

			d, err := st.Dashboard(cmd.Context(), loadGroups(), summary.OptTopN(top))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if showJSON {
				return printJSON(out, d)
			}
			printDashboard(out, d)
			return nil
		},
	}

	chartsCmd.Flags().IntVarP(&top, "top", "t", 0,
		"number of categories before 'Other' (default from config)")
	chartsCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON")
	return chartsCmd
}

func printDashboard(w io.Writer, d summary.Dashboard) {
	printStats(w, d.Stats)
	charts := []struct {
		title string
		dist  summary.Distribution
	}{
		{"Taxonomic groups", d.Groups},
		{"Classes", d.Classes},
		{"Orders", d.Orders},
		{"Families", d.Families},
		{"Countries", d.Countries},
		{"States/Provinces", d.States},
		{"Collection years", d.Years},
	}
	for _, c := range charts {
		fmt.Fprintf(w, "\n%s\n", c.title)
		printDistribution(w, c.dist)
	}
	fmt.Fprintf(w, "\nRecords without country and state: %s\n",
		humanize.Comma(int64(d.MissingGeo)))
}

// barWidth is the length of a 100% bar.
const barWidth = 30

func printDistribution(w io.Writer, d summary.Distribution) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, b := range d.Buckets {
		bar := strings.Repeat("#", int(b.Percent*barWidth/100+0.5))
		fmt.Fprintf(tw, "  %s\t%s\t%.1f%%\t%s\n",
			b.Label, humanize.Comma(int64(b.Count)), b.Percent, bar)
	}
	_ = tw.Flush()
}
