package main

import (
	"fmt"
	"sort"

	"github.com/copperhq/logforge"
	"github.com/spf13/cobra"
)

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics <config.yml>",
		Short: "Load a bootstrap config and report registry/pool metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			cfg, err := logforge.LoadBootstrapConfig(path)
			if err != nil {
				return err
			}

			r := logforge.NewRegistry()
			if err := logforge.ApplyBootstrapConfig(r, cfg); err != nil {
				return err
			}
			defer r.Shutdown()

			names := r.LoggerNames()
			sort.Strings(names)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "loggers: %d %v\n", len(names), names)

			stats := r.PoolStats()
			if !stats.Installed {
				fmt.Fprintln(out, "pool: none")
				return nil
			}
			fmt.Fprintf(out, "pool: workers=%d queue_size=%d overrun=%d\n",
				stats.Workers, stats.QueueSize, stats.OverrunCounter)
			return nil
		},
	}
}
