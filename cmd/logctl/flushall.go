package main

import (
	"fmt"

	"github.com/copperhq/logforge"
	"github.com/spf13/cobra"
)

func newFlushAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush-all <config.yml>",
		Short: "Load a bootstrap config, flush every configured logger, and exit",
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
			r.FlushAll()
			fmt.Fprintf(cmd.OutOrStdout(), "flushed %d logger(s)\n", len(names))
			return nil
		},
	}
}
