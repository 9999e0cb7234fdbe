package handlers

import (
	"context"
	"fmt"
)

// Open handles the open command: it attaches the local terminal to an
// interactive session on the project's instance.
func Open(ctx context.Context, name string) error {
	inst, st, err := lookupInstance(name)
	if err != nil {
		return err
	}
	_ = st.Touch(name)

	fmt.Println(styled(dimStyle, fmt.Sprintf("Connecting to %s (%s)...", name, inst.Address)))

	client := newRemoteSession(inst.Address)
	if _, err := client.RunInteractive(ctx, ""); err != nil {
		return fmt.Errorf("session on %s failed: %w", inst.Address, err)
	}
	return nil
}
