package handlers

import (
	"context"
	"fmt"
)

// Status handles `status --name`: it queries the provider for the live
// instance status, records it, and prints the project block.
func Status(ctx context.Context, name string) error {
	lc, err := newLifecycle()
	if err != nil {
		return err
	}
	project, err := lc.Status(ctx, name)
	if err != nil {
		return err
	}
	fmt.Print(renderProject(project))
	return nil
}

// List handles `status` without a name and `config list`: it prints the
// tracked projects from the local store, most recently used first.
func List(_ context.Context) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	summaries, err := st.ListSummaries()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println(styled(dimStyle, "No projects yet. Create one with `clwd init --name <name>`."))
		return nil
	}
	fmt.Print(renderSummaries(summaries))
	return nil
}
