package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/clwd/cmd/clwd/handlers"
)

// Init returns the command that provisions a new project instance.
//
// Flags:
//
//	--name, -n: Project name (required)
//	--provider: Cloud provider (default "hetzner")
//	--size, -s: Instance size: small, medium, large (default "small")
//	--hardening: Security hardening level: none, minimal, full (default "none")
//	--region, -r: Provider region code (provider default when empty)
//	--skip-auth: Skip Claude Code credential transfer
//	--premium: Use the premium provisioning service if configured
func Init() *cobra.Command {
	var opts handlers.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Provision a new development instance",
		Long: `Provision a new cloud development instance for a project.

The instance is bootstrapped with Node.js, the Claude Code CLI, and an
nginx preview proxy on port 80. Your local Claude Code credentials are
transferred over SSH after setup completes, so they never appear in the
instance's bootstrap payload.

Example:
  clwd init --name myproject --size small --hardening minimal`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ProjectName, "name", "n", "", "Project name (required)")
	cmd.Flags().StringVar(&opts.ProviderKind, "provider", "hetzner", "Cloud provider")
	cmd.Flags().StringVarP(&opts.Size, "size", "s", "small", "Instance size: small, medium, large")
	cmd.Flags().StringVar(&opts.HardeningLevel, "hardening", "none", "Security hardening: none, minimal, full")
	cmd.Flags().StringVarP(&opts.Region, "region", "r", "", "Provider region code")
	cmd.Flags().BoolVar(&opts.SkipAuth, "skip-auth", false, "Skip Claude Code credential transfer")
	cmd.Flags().BoolVar(&opts.Premium, "premium", false, "Use the premium provisioning service")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
