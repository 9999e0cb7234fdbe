// Package main is the entry point for the clwd CLI.
//
// clwd provisions cloud development instances preloaded with the Claude Code
// agent. It creates Hetzner Cloud servers bootstrapped with Node.js, the
// agent CLI, and an nginx preview proxy, transfers local Claude Code
// credentials over SSH, and tracks every instance in a local project store.
//
// Commands: init, open, exec, status, destroy, auth, config, version.
//
// For detailed usage information, run:
//
//	clwd --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/clwd/cmd/clwd/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Interrupts cancel in-flight polling loops; a cancelled provision
	// reports as user-cancelled, not as a timeout.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
