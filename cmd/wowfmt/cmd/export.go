package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Decode every table in the data directory into a new snapshot",
		Long: `Decode every known table in the data directory and store the rows as a
new snapshot in the export directory. Snapshots from different client
versions can be browsed side by side with "wowfmt serve".

Examples:
  wowfmt export --data-dir=./classic/DBFilesClient --version=classic
  wowfmt export --data-dir=./wotlk/DBFilesClient --version=wotlk`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.container
			set, err := c.Tables(cmd.Context())
			if err != nil {
				return err
			}
			store, err := c.Storage()
			if err != nil {
				return err
			}

			export := store.Begin(c.Config().ClientVersion)
			for _, name := range set.Names() {
				f, _ := set.File(name)
				if err := export.AddFile(f); err != nil {
					_ = export.Abort()
					return fmt.Errorf("failed to export %s: %w", name, err)
				}
				c.Logger().WithField("table", name).WithField("rows", f.Len()).Debug("table staged")
			}
			snap, err := export.Commit()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %s: %d tables from %s\n", snap.ID, len(snap.Tables), snap.Version)
			return nil
		},
	}
}

func newSnapshotsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots [id]",
		Short: "List exported snapshots, or the tables of one snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.container.Storage()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()

			if len(args) == 1 {
				id, err := ksuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid snapshot id: %w", err)
				}
				snap, err := store.Snapshot(id)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "TABLE\tROWS\tRECORD_SIZE\tFIELDS")
				for _, t := range snap.Tables {
					fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", t.Name, t.Rows, t.Header.RecordSize, t.Header.FieldCount)
				}
				return nil
			}

			snapshots, err := store.Snapshots()
			if err != nil {
				return err
			}
			if len(snapshots) == 0 {
				fmt.Fprintln(w, "No snapshots found")
				return nil
			}
			fmt.Fprintln(w, "ID\tVERSION\tTABLES\tCREATED")
			for _, snap := range snapshots {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", snap.ID, snap.Version, len(snap.Tables), snap.Created.Format(time.RFC3339))
			}
			return nil
		},
	}
}
