// cmd/tools/audit-cli/score.go
package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newScoreCmd(opts *engineOpts) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Audit every list in an export",
		Long: `Audit every list in an export.
Prints one JSON audit per line, in input order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.build()
			if err != nil {
				return err
			}
			lists, err := readLists(file)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for i := range lists {
				if err := enc.Encode(engine.Audit(&lists[i])); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON export of list instances")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
