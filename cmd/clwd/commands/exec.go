package commands

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/clwd/cmd/clwd/handlers"
)

// Exec returns the command that runs a one-shot command on a project's
// instance and prints its output.
func Exec() *cobra.Command {
	var (
		name    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "exec COMMAND...",
		Short: "Run a command on a project's instance",
		Long: `Run a one-shot command on a project's instance over SSH.

The remote command's stdout and stderr are printed locally. A non-zero
remote exit code fails the command with the captured output attached.

Example:
  clwd exec --name myproject -- ls -la /app`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Exec(cmd.Context(), name, strings.Join(args, " "), timeout)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Project name (required)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Remote command timeout")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
