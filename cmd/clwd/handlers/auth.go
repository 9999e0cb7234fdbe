package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/clwd/internal/auth"
)

// newPreparer is replaced in tests.
var newPreparer = func() *auth.Preparer {
	return auth.NewPreparer()
}

// Auth handles the auth command: it re-runs credential preparation and
// transfers the result to an existing project's instance.
func Auth(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("project name required, pass --name or use --check")
	}

	lc, err := newLifecycle()
	if err != nil {
		return err
	}
	if err := lc.TransferCredentials(ctx, name); err != nil {
		return err
	}

	fmt.Println(styled(successStyle, fmt.Sprintf("✓ Credentials transferred to project %q", name)))
	return nil
}

// AuthCheck handles `auth --check`: it reports which local credential
// sources are available without touching any instance.
func AuthCheck(ctx context.Context) error {
	report := newPreparer().Preflight(ctx)

	fmt.Println(styled(titleStyle, "  Claude Code credential sources"))
	printCheck("keychain available", report.KeychainAvailable)
	printCheck("keychain credentials", report.KeychainCredentials)
	printCheck("session file (~/.claude.json)", report.SessionFile)
	printCheck("session valid", report.SessionValid)
	fmt.Println()

	if !report.Ready {
		return fmt.Errorf("no usable credentials found, log in with the Claude Code CLI first")
	}
	fmt.Println(styled(successStyle, "✓ Ready to provision authenticated instances"))
	return nil
}

func printCheck(label string, ok bool) {
	if ok {
		fmt.Printf("  %s %s\n", styled(successStyle, "✓"), label)
		return
	}
	fmt.Printf("  %s %s\n", styled(dimStyle, "✗"), label)
}
