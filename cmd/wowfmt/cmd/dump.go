package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ssargent/wowformats/pkg/loader"
	"github.com/ssargent/wowformats/pkg/query"
)

type dumpedRow struct {
	Index  int            `json:"index"`
	Values map[string]any `json:"values"`
}

func newDumpCmd(a *app) *cobra.Command {
	var (
		table  string
		where  []string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "dump <file.dbc>",
		Short: "Decode and print the rows of a table file",
		Long: `Decode and print the rows of a single table file. The table is taken
from the file name unless --table is given.

Examples:
  wowfmt dump ./DBFilesClient/Map.dbc --version=wotlk
  wowfmt dump ./LiquidType.dbc --json --limit=5
  wowfmt dump ./Map.dbc --where="InstanceType=2" --where="MaxPlayers>=25"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if table == "" {
				table = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			s, err := lookupSchema(table)
			if err != nil {
				return err
			}

			c := a.container
			t, err := loader.Open(path, s, c.Config().ClientVersion, c.LayoutCache(), c.FileOptions()...)
			if err != nil {
				return err
			}
			defer t.Close()

			out := cmd.OutOrStdout()
			names := t.File.Layout().Names()
			enc := json.NewEncoder(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer w.Flush()
			if !asJSON {
				fmt.Fprintln(w, strings.Join(names, "\t"))
			}

			conditions := make([]query.FieldQuery, 0, len(where))
			for _, expr := range where {
				q, err := query.Parse(expr)
				if err != nil {
					return err
				}
				conditions = append(conditions, q)
			}
			matches, err := query.NewEngine(nil).Execute(cmd.Context(), t.File, conditions...)
			if err != nil {
				return err
			}
			if limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}

			for _, i := range matches {
				row, err := t.File.Row(i)
				if err != nil {
					return err
				}
				if asJSON {
					if err := enc.Encode(dumpedRow{Index: i, Values: row.JSONMap()}); err != nil {
						return err
					}
					continue
				}
				cells := make([]string, len(names))
				for j, name := range names {
					v, _ := row.Value(name)
					cells[j] = fmt.Sprint(v)
				}
				fmt.Fprintln(w, strings.Join(cells, "\t"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "Table name, when it differs from the file name")
	cmd.Flags().StringArrayVar(&where, "where", nil, "Only rows matching Field<op>Value (=, !=, <, <=, >, >=, ~); repeatable")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of rows to print (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per row")
	return cmd
}
