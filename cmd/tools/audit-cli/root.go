// cmd/tools/audit-cli/root.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"checklist-audit-workers/internal/common/config"
	"checklist-audit-workers/internal/integrity"
)

// engineOpts are the persistent flags that shape the integrity engine.
type engineOpts struct {
	configPath string
	now        string
	timezone   string
}

// build returns the engine for one invocation. A config file supplies the
// vocabulary, policy and zone; --tz and --now override it.
func (o *engineOpts) build() (*integrity.Engine, error) {
	var opts []integrity.Option
	if o.timezone != "" {
		loc, err := time.LoadLocation(o.timezone)
		if err != nil {
			return nil, fmt.Errorf("--tz %q: %w", o.timezone, err)
		}
		opts = append(opts, integrity.WithLocation(loc))
	}
	if o.now != "" {
		now, err := time.Parse(time.RFC3339, o.now)
		if err != nil {
			return nil, fmt.Errorf("--now must be RFC3339: %w", err)
		}
		opts = append(opts, integrity.WithClock(func() time.Time { return now }))
	}

	if o.configPath == "" {
		return integrity.New(opts...), nil
	}
	cfg, err := config.LoadFromFile(o.configPath)
	if err != nil {
		return nil, err
	}
	return cfg.Engine(opts...)
}

func NewRootCmd() *cobra.Command {
	opts := &engineOpts{}

	rootCmd := &cobra.Command{
		Use:   "audit-cli",
		Short: "Audit exported food safety checklists",
		Long: `audit-cli - offline checklist integrity audits

Reads list instances exported from the checklist platform (a JSON array or a
single object) and prints the same audits, store grid rows and daily reports
the workers produce.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "worker config file supplying vocabulary and scoring policy")
	rootCmd.PersistentFlags().StringVar(&opts.now, "now", "", "audit clock as RFC3339 (default: current time)")
	rootCmd.PersistentFlags().StringVar(&opts.timezone, "tz", "", "IANA zone for expiration days (default: config or host zone)")

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		newScoreCmd(opts),
		newGridCmd(opts),
		newReportCmd(opts),
		newRegistryCmd(),
	)

	return rootCmd
}

// Execute runs the command tree against args.
func Execute(args []string) error {
	rootCmd := NewRootCmd()
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
