package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ssargent/wowformats/pkg/chunk"
	"github.com/ssargent/wowformats/pkg/loader"
)

func newChunksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chunks <file>",
		Short: "List the chunks of an ADT or WMO file",
		Long: `List the chunks of a chunked map file (ADT, WMO) with their offsets and
payload sizes.

Examples:
  wowfmt chunks ./World/Maps/Azeroth/Azeroth_32_48.adt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loader.Map(args[0])
			if err != nil {
				return err
			}
			defer m.Close()

			chunks, err := chunk.Parse(m.Bytes())
			if err != nil {
				return err
			}
			if v, err := chunk.Version(chunks); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Version %d\n", v)
			} else {
				a.container.Logger().WithError(err).Debug("no version chunk")
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "TAG\tOFFSET\tSIZE")
			for _, c := range chunks {
				fmt.Fprintf(w, "%s\t%d\t%d\n", c.Tag, c.Offset, c.Size())
			}
			return nil
		},
	}
}
