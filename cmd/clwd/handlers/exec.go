package handlers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/imamik/clwd/internal/provider"
)

// Exec handles the exec command: it runs a one-shot command on the project's
// instance and mirrors the remote output locally. A non-zero remote exit
// fails the command with the captured output attached.
func Exec(ctx context.Context, name, command string, timeout time.Duration) error {
	inst, st, err := lookupInstance(name)
	if err != nil {
		return err
	}
	_ = st.Touch(name)

	client := newRemoteSession(inst.Address)
	exitCode, stdout, stderr, err := client.Run(ctx, command, timeout)
	if err != nil {
		return fmt.Errorf("exec on %s: %w", inst.Address, err)
	}

	fmt.Print(stdout)
	fmt.Fprint(os.Stderr, stderr)

	if exitCode != 0 {
		return &provider.RemoteCommandError{
			Command:  command,
			ExitCode: exitCode,
			Stdout:   stdout,
			Stderr:   stderr,
		}
	}
	return nil
}
