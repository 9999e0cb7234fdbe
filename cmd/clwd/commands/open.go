package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/clwd/cmd/clwd/handlers"
)

// Open returns the command that opens an interactive SSH session on a
// project's instance. "ssh" is accepted as an alias.
func Open() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:     "open",
		Aliases: []string{"ssh"},
		Short:   "Open an interactive session on a project's instance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Open(cmd.Context(), name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
