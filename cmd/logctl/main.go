// Command logctl is a small operator tool for exercising a logforge
// bootstrap config file outside of the owning process: validate it,
// or emit a single message through one of its configured loggers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var verbose bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "logctl",
		Short:         "Inspect and exercise logforge bootstrap configs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	bindGlobalFlags(root.PersistentFlags())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newEmitCmd())
	root.AddCommand(newMetricsCmd())
	root.AddCommand(newFlushAllCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// bindGlobalFlags wires flags shared by every subcommand directly onto
// the pflag.FlagSet cobra hands back, rather than through cobra's
// convenience wrappers, since that set is what subcommands read at
// RunE time.
func bindGlobalFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&verbose, "verbose", "v", false, "print diagnostic errors to stderr as they occur")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print logctl's version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

// version is overridden at release build time via -ldflags.
var version = "dev"
