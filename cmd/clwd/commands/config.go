package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/clwd/cmd/clwd/handlers"
)

// Config returns the command group for inspecting and moving the local
// project store.
func Config() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect, export, and import the local project store",
	}

	cmd.AddCommand(configList())
	cmd.AddCommand(configShow())
	cmd.AddCommand(configExport())
	cmd.AddCommand(configImport())

	return cmd
}

func configList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.List(cmd.Context())
		},
	}
}

func configShow() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a project's full record as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ConfigShow(cmd.Context(), name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func configExport() *cobra.Command {
	return &cobra.Command{
		Use:   "export PATH",
		Short: "Export the project store to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ConfigExport(cmd.Context(), args[0])
		},
	}
}

func configImport() *cobra.Command {
	var merge bool

	cmd := &cobra.Command{
		Use:   "import PATH",
		Short: "Import a project store export",
		Long: `Import replaces the local project store with the export's contents.
With --merge, existing projects are kept and imported ones win on name
collisions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ConfigImport(cmd.Context(), args[0], merge)
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "Merge into the existing store instead of replacing it")

	return cmd
}
