package handlers

import (
	"context"
	"encoding/json"
	"fmt"
)

// ConfigShow handles `config show`: it prints a project's full record as
// indented JSON.
func ConfigShow(_ context.Context, name string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	project, err := st.Get(name)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project %q not found, run `clwd status` to list projects", name)
	}

	out, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// ConfigExport handles `config export`: it writes the full store document to
// a file for backup or machine transfer.
func ConfigExport(_ context.Context, path string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	if err := st.Export(path); err != nil {
		return err
	}
	fmt.Println(styled(successStyle, fmt.Sprintf("✓ Projects exported to %s", path)))
	return nil
}

// ConfigImport handles `config import`: it replaces or merges the local
// store with an exported document.
func ConfigImport(_ context.Context, path string, merge bool) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	if err := st.Import(path, merge); err != nil {
		return err
	}
	mode := "replaced"
	if merge {
		mode = "merged"
	}
	fmt.Println(styled(successStyle, fmt.Sprintf("✓ Projects %s from %s", mode, path)))
	return nil
}
