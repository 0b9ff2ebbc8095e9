// cmd/tools/audit-cli/registry.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"checklist-audit-workers/internal/common/validation"
	"checklist-audit-workers/pkg/registry"
)

func newRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the activity registry",
	}
	cmd.AddCommand(newRegistryValidateCmd())
	return cmd
}

func newRegistryValidateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a registry file and compile its input schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			if _, err := validation.NewValidator(reg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "registry file (default: the embedded registry)")

	return cmd
}
