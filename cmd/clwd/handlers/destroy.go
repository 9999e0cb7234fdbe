package handlers

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
)

// confirmDestroy prompts for interactive confirmation. Replaced in tests.
var confirmDestroy = func(name string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Destroy project %q and its instance?", name)).
			Description("This operation is irreversible. All data on the instance will be lost.").
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

// Destroy handles the destroy command. Without --force it requires an
// interactive confirmation; in non-interactive contexts --force is
// mandatory.
func Destroy(ctx context.Context, name string, force bool) error {
	if !force {
		if !stdoutIsTTY() {
			return fmt.Errorf("refusing to destroy %q without confirmation, pass --force in non-interactive use", name)
		}
		confirmed, err := confirmDestroy(name)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println(styled(dimStyle, "Destroy aborted."))
			return nil
		}
	}

	lc, err := newLifecycle()
	if err != nil {
		return err
	}
	if err := lc.Destroy(ctx, name); err != nil {
		return err
	}

	fmt.Println(styled(successStyle, fmt.Sprintf("✓ Project %q destroyed", name)))
	return nil
}
