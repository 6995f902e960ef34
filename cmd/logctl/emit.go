package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/copperhq/logforge"
	"github.com/spf13/cobra"
)

func newEmitCmd() *cobra.Command {
	var loggerName string
	var levelName string

	cmd := &cobra.Command{
		Use:   "emit <config.yml> <message...>",
		Short: "Load a bootstrap config and emit one message through a named logger",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			message := strings.Join(args[1:], " ")

			level, err := logforge.ParseLevel(levelName)
			if err != nil {
				return err
			}

			cfg, err := logforge.LoadBootstrapConfig(path)
			if err != nil {
				return err
			}

			r := logforge.NewRegistry()
			if err := logforge.ApplyBootstrapConfig(r, cfg); err != nil {
				return err
			}
			defer r.Shutdown()

			if verbose {
				r.SetErrorHandler(func(loggerName string, err error) {
					fmt.Fprintf(os.Stderr, "logctl: %s: %v\n", loggerName, err)
				})
			}

			l, ok := r.Get(loggerName)
			if !ok {
				return fmt.Errorf("no logger named %q in %s", loggerName, path)
			}

			l.Log(logforge.Source{}, level, []byte(message))
			l.Flush()
			return nil
		},
	}
	cmd.Flags().StringVar(&loggerName, "logger", "", "name of the logger to emit through (required)")
	cmd.Flags().StringVar(&levelName, "level", "info", "severity level to emit at")
	_ = cmd.MarkFlagRequired("logger")
	return cmd
}
