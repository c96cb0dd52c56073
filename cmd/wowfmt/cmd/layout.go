package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ssargent/wowformats/pkg/layout"
	"github.com/ssargent/wowformats/pkg/version"
)

func newLayoutCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "layout <table>",
		Short: "Show the record layout of a table",
		Long: `Show where each field of a table sits in a record for the configured
client version, or the record size in every version with --all.

Examples:
  wowfmt layout Map --version=cata
  wowfmt layout LiquidType --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := lookupSchema(args[0])
			if err != nil {
				return err
			}
			cache := a.container.LayoutCache()

			if all {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				defer w.Flush()
				fmt.Fprintln(w, "VERSION\tSIZE\tFIELDS")
				for _, v := range version.All() {
					l, err := cache.Resolve(s, v)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s\t%d\t%d\n", v, l.Size, l.FieldCount)
				}
				return nil
			}

			l, err := cache.Resolve(s, a.container.Config().ClientVersion)
			if err != nil {
				return err
			}
			printLayout(cmd.OutOrStdout(), l)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Show record size and field count for every client version")
	return cmd
}

func printLayout(out io.Writer, l *layout.Layout) {
	fmt.Fprintln(out, l)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "OFFSET\tSIZE\tCOUNT\tCOLUMN\tNAME\tKIND\tREFERENCES")
	for _, f := range l.Fields {
		ref := ""
		switch {
		case f.ForeignKey != nil:
			ref = f.ForeignKey.Table + "." + f.ForeignKey.Field
		case f.Enum != nil:
			ref = f.Enum.Name
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\t%s\t%s\n", f.Offset, f.Size, f.Count, f.Column, f.Name, f.Kind, ref)
	}
}
