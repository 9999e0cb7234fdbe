// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

// Root returns the root command for the clwd CLI.
func Root() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:           "clwd",
		Short:         "Provision cloud dev instances preloaded with Claude Code",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// The flag feeds the same switch the environment does, so every
			// layer below sees one consistent debug setting.
			if debug {
				os.Setenv("CLWD_DEBUG", "true")
			}
		},
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output")

	cmd.AddCommand(Init())
	cmd.AddCommand(Open())
	cmd.AddCommand(Exec())
	cmd.AddCommand(Status())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Auth())
	cmd.AddCommand(Config())
	cmd.AddCommand(Version())

	return cmd
}
