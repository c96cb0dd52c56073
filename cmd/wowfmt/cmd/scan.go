package cmd

import (
	"fmt"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Open every known table in the data directory and decode all rows",
		Long: `Open every known table in the data directory, decode each row and report
tables whose layout disagrees with the file header or fails to decode.

Examples:
  wowfmt scan --data-dir=/games/wow/DBFilesClient --version=tbc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.container.Tables(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TABLE\tROWS\tRECORD_SIZE\tLAYOUT_SIZE\tFIELDS\tERRORS")

			failed := 0
			for _, name := range set.Names() {
				f, _ := set.File(name)
				errs := 0
				for i := 0; i < f.Len(); i++ {
					if _, err := f.Row(i); err != nil {
						errs++
						a.container.Logger().WithError(err).WithFields(log.Fields{
							"table": name,
							"row":   i,
						}).Error("failed to decode row")
					}
				}
				if errs > 0 {
					failed++
				}
				l := f.Layout()
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n", name, f.Len(), f.Header.RecordSize, l.Size, l.FieldCount, errs)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d tables failed to decode", failed, len(set.Names()))
			}
			return nil
		},
	}
}
