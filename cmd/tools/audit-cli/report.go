// cmd/tools/audit-cli/report.go
package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	buildfoodsafetyreport "checklist-audit-workers/internal/workers/audit/build-food-safety-report"
)

func newReportCmd(opts *engineOpts) *cobra.Command {
	var file string
	var location string
	var date string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the daily food safety log for one location",
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
			if date == "" {
				date = engine.Now().Format("2006-01-02")
			}

			report, err := buildfoodsafetyreport.BuildReport(engine, location, date, lists)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON export of the day's list instances")
	cmd.Flags().StringVar(&location, "location", "", "store name shown on the report")
	cmd.Flags().StringVar(&date, "date", "", "report day as YYYY-MM-DD (default: today in the audit zone)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
