package main

import (
	"fmt"

	"github.com/copperhq/logforge"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config.yml>",
		Short: "Parse and apply a bootstrap config to a throwaway registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			cfg, err := logforge.LoadBootstrapConfig(path)
			if err != nil {
				return err
			}

			r := logforge.NewRegistry()
			if err := logforge.ApplyBootstrapConfig(r, cfg); err != nil {
				return fmt.Errorf("config %s is invalid: %w", path, err)
			}
			r.Shutdown()

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d sink(s), %d logger(s))\n",
				path, len(cfg.Sinks), len(cfg.Loggers))
			return nil
		},
	}
	return cmd
}
