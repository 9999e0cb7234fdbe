package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/clwd/cmd/clwd/handlers"
)

// Auth returns the command that re-runs credential preparation and transfer
// against an existing instance, or checks local credential availability.
func Auth() *cobra.Command {
	var (
		name  string
		check bool
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Transfer Claude Code credentials to an instance",
		Long: `Auth re-runs credential preparation and transfers the result to an
existing project's instance. Useful after logging in locally or when the
transfer during init was skipped or degraded.

With --check, only reports which local credential sources are available.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if check {
				return handlers.AuthCheck(cmd.Context())
			}
			return handlers.Auth(cmd.Context(), name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name")
	cmd.Flags().BoolVar(&check, "check", false, "Only check local credential availability")

	return cmd
}
