package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/clwd/cmd/clwd/handlers"
)

// Destroy returns the command that tears down a project's instance.
func Destroy() *cobra.Command {
	var (
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy a project's instance",
		Long: `Destroy deletes the project's cloud server and removes the local
project record. The record is removed only after the provider confirms
the deletion, so a failed destroy leaves the project inspectable.

WARNING: This operation is irreversible. All data on the instance is lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), name, force)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (required)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
