package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

const (
	// DefaultUser is the account the bootstrap configures on instances.
	DefaultUser = "root"

	defaultConnectTimeout = 10 // seconds, passed to ssh -o ConnectTimeout
)

// sshOptions is the fixed option set for non-interactive automation against
// freshly created instances: accept new host keys, never record them, keep
// output quiet, keep long-running sessions alive.
var sshOptions = []string{
	"-o", "StrictHostKeyChecking=no",
	"-o", "UserKnownHostsFile=/dev/null",
	"-o", "LogLevel=ERROR",
	"-o", fmt.Sprintf("ConnectTimeout=%d", defaultConnectTimeout),
	"-o", "ServerAliveInterval=60",
	"-o", "ServerAliveCountMax=3",
}

// Client executes commands on one remote instance.
type Client struct {
	Address string
	User    string
	KeyPath string // private key; empty lets ssh pick its defaults

	// execCommand builds the command to run; replaced in tests.
	execCommand func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

// NewClient creates a client for the instance at address. The private key is
// discovered from the usual locations; if none exists, ssh falls back to its
// own defaults.
func NewClient(address, user string) *Client {
	keyPath, _ := PrivateKeyPath()
	return &Client{
		Address:     address,
		User:        user,
		KeyPath:     keyPath,
		execCommand: exec.CommandContext,
	}
}

// sshArgs assembles the argument list for one ssh invocation.
func (c *Client) sshArgs(command string, tty bool) []string {
	args := append([]string{}, sshOptions...)
	if c.KeyPath != "" {
		args = append(args, "-i", c.KeyPath)
	}
	if tty {
		args = append(args, "-t")
	}
	args = append(args, fmt.Sprintf("%s@%s", c.User, c.Address))
	if command != "" {
		args = append(args, command)
	}
	return args
}

// scpArgs assembles the argument list for one scp transfer.
func (c *Client) scpArgs(localPath, remotePath string) []string {
	args := []string{
		"-o", "StrictHostKeyChecking=no",
		"-o", "UserKnownHostsFile=/dev/null",
		"-o", "LogLevel=ERROR",
		"-o", fmt.Sprintf("ConnectTimeout=%d", defaultConnectTimeout),
	}
	if c.KeyPath != "" {
		args = append(args, "-i", c.KeyPath)
	}
	return append(args, localPath, fmt.Sprintf("%s@%s:%s", c.User, c.Address, remotePath))
}

// TestReachable reports whether a trivial remote command succeeds within the
// timeout. All failures read as "not reachable"; this is a probe, not a
// diagnostic.
func (c *Client) TestReachable(ctx context.Context, timeout time.Duration) bool {
	exitCode, _, _, err := c.Run(ctx, "echo ok", timeout)
	return err == nil && exitCode == 0
}

// Run executes a one-shot command and captures its output. A non-zero remote
// exit is reported through exitCode with a nil error; the error return is
// reserved for transport failures (unreachable host, timeout, missing ssh
// binary), which callers must treat differently.
func (c *Client) Run(ctx context.Context, command string, timeout time.Duration) (exitCode int, stdout, stderr string, err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := c.execCommand(ctx, "ssh", c.sshArgs(command, false)...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	stdout, stderr = outBuf.String(), errBuf.String()

	if runErr == nil {
		return 0, stdout, stderr, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, stdout, stderr, fmt.Errorf("ssh %s@%s: %w", c.User, c.Address, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		// ssh exits 255 on its own connection failures; everything else is
		// the remote command's exit code.
		code := exitErr.ExitCode()
		if code == 255 {
			return -1, stdout, stderr, fmt.Errorf("ssh %s@%s: connection failed: %s", c.User, c.Address, bytes.TrimSpace(errBuf.Bytes()))
		}
		return code, stdout, stderr, nil
	}
	return -1, stdout, stderr, fmt.Errorf("ssh %s@%s: %w", c.User, c.Address, runErr)
}

// RunInteractive attaches the local terminal to a remote session, optionally
// running a command instead of the login shell. Returns the session's exit
// code.
func (c *Client) RunInteractive(ctx context.Context, command string) (int, error) {
	cmd := c.execCommand(ctx, "ssh", c.sshArgs(command, true)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("ssh %s@%s: %w", c.User, c.Address, err)
}

// CopyFile transfers a local file to the instance via scp.
func (c *Client) CopyFile(ctx context.Context, localPath, remotePath string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := c.execCommand(ctx, "scp", c.scpArgs(localPath, remotePath)...)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("scp %s to %s@%s:%s: %w: %s", localPath, c.User, c.Address, remotePath, err, bytes.TrimSpace(errBuf.Bytes()))
	}
	return nil
}
