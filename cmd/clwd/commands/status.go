package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/clwd/cmd/clwd/handlers"
)

// Status returns the command that reports instance status. With --name it
// queries the provider for one project; without it, it lists all tracked
// projects from the local store.
func Status() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show instance status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" {
				return handlers.List(cmd.Context())
			}
			return handlers.Status(cmd.Context(), name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (all projects when omitted)")

	return cmd
}
