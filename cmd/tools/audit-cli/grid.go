// cmd/tools/audit-cli/grid.go
package main

import (
	"encoding/csv"
	"encoding/json"

	"github.com/spf13/cobra"

	buildstoregrid "checklist-audit-workers/internal/workers/audit/build-store-grid"
)

func newGridCmd(opts *engineOpts) *cobra.Command {
	var file string
	var location string
	var csvOutput bool

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Build the store grid row for one location's lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.build()
			if err != nil {
				return err
			}
			lists, err := readLists(file)
			if err != nil {
				return err
			}

			row := buildstoregrid.BuildRow(engine, "", location, lists)
			if !csvOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(row)
			}

			w := csv.NewWriter(cmd.OutOrStdout())
			if err := w.Write(buildstoregrid.CSVHeader); err != nil {
				return err
			}
			if err := w.Write(row.CSVRecord()); err != nil {
				return err
			}
			w.Flush()
			return w.Error()
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON export of the location's list instances")
	cmd.Flags().StringVar(&location, "location", "", "store name shown in the row")
	cmd.Flags().BoolVar(&csvOutput, "csv", false, "output the grid header and row as CSV")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
