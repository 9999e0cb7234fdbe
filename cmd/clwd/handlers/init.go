package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/clwd/internal/provision"
)

// InitOptions holds the init command's inputs.
type InitOptions struct {
	ProjectName    string
	ProviderKind   string
	Size           string
	HardeningLevel string
	Region         string
	SkipAuth       bool
	Premium        bool
}

// Init handles the init command: it provisions a new instance for the
// project and prints the connection details.
func Init(ctx context.Context, opts InitOptions) error {
	if opts.Premium {
		// The hosted provisioning service is not live yet; fall through to
		// standard provisioning either way.
		if cfg, err := loadSettings(); err == nil && cfg.IsPremiumConfigured() && cfg.HasPremiumToken() {
			fmt.Println(styled(warnStyle, "Premium provisioning is configured but not yet available, using standard provisioning."))
		} else {
			fmt.Println(styled(warnStyle, "Premium provisioning is not yet available, using standard provisioning."))
		}
	}

	// Reject duplicate names before any cloud resource is created. The store
	// re-checks under its own read-modify-write, so a racing init still
	// cannot corrupt state.
	st, err := openStore()
	if err != nil {
		return err
	}
	existing, err := st.Get(opts.ProjectName)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("project %q already exists, destroy it first or choose another name", opts.ProjectName)
	}

	lc, err := newLifecycle()
	if err != nil {
		return err
	}

	inst, err := lc.Provision(ctx, provision.Request{
		ProjectName:    opts.ProjectName,
		ProviderKind:   opts.ProviderKind,
		Size:           opts.Size,
		HardeningLevel: opts.HardeningLevel,
		Region:         opts.Region,
		SkipAuth:       opts.SkipAuth,
	})
	if err != nil {
		return fmt.Errorf("failed to create project %q: %w", opts.ProjectName, err)
	}

	fmt.Println(styled(successStyle, fmt.Sprintf("✓ Project %q created", opts.ProjectName)))
	fmt.Printf("  Instance: %s (%s)\n", inst.Name, inst.Address)
	fmt.Printf("  Preview:  http://%s\n", inst.Address)
	fmt.Println()
	fmt.Println(styled(dimStyle, "Next steps:"))
	fmt.Println(styled(dimStyle, fmt.Sprintf("  clwd open --name %s     # Open interactive session", opts.ProjectName)))
	fmt.Println(styled(dimStyle, fmt.Sprintf("  clwd status --name %s   # Check instance status", opts.ProjectName)))
	fmt.Println(styled(dimStyle, fmt.Sprintf("  clwd destroy --name %s  # Destroy when done", opts.ProjectName)))
	return nil
}
