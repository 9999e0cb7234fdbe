package remote

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExec returns an execCommand replacement that ignores the requested
// binary and runs the given shell script instead, recording the arguments it
// was invoked with.
func fakeExec(script string, captured *[]string) func(ctx context.Context, name string, arg ...string) *exec.Cmd {
	return func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		if captured != nil {
			*captured = append([]string{name}, arg...)
		}
		return exec.CommandContext(ctx, "sh", "-c", script)
	}
}

func TestSSHArgs(t *testing.T) {
	t.Parallel()

	c := &Client{Address: "203.0.113.5", User: "root", KeyPath: "/home/dev/.ssh/id_ed25519"}
	args := c.sshArgs("uptime", false)

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "StrictHostKeyChecking=no")
	assert.Contains(t, joined, "UserKnownHostsFile=/dev/null")
	assert.Contains(t, joined, "ConnectTimeout=10")
	assert.Contains(t, args, "-i")
	assert.Contains(t, args, "/home/dev/.ssh/id_ed25519")
	assert.NotContains(t, args, "-t")

	// Target and command come last, in that order.
	require.GreaterOrEqual(t, len(args), 2)
	assert.Equal(t, "root@203.0.113.5", args[len(args)-2])
	assert.Equal(t, "uptime", args[len(args)-1])
}

func TestSSHArgs_Interactive(t *testing.T) {
	t.Parallel()

	c := &Client{Address: "203.0.113.5", User: "root"}
	args := c.sshArgs("", true)

	assert.Contains(t, args, "-t")
	assert.NotContains(t, args, "-i")
	// No command appended for a login shell.
	assert.Equal(t, "root@203.0.113.5", args[len(args)-1])
}

func TestSCPArgs(t *testing.T) {
	t.Parallel()

	c := &Client{Address: "203.0.113.5", User: "root", KeyPath: "/tmp/key"}
	args := c.scpArgs("/local/creds.json", "/root/.claude/.credentials.json")

	require.GreaterOrEqual(t, len(args), 2)
	assert.Equal(t, "/local/creds.json", args[len(args)-2])
	assert.Equal(t, "root@203.0.113.5:/root/.claude/.credentials.json", args[len(args)-1])
	assert.Contains(t, args, "-i")
}

func TestRun_Success(t *testing.T) {
	t.Parallel()

	var captured []string
	c := &Client{Address: "203.0.113.5", User: "root", execCommand: fakeExec("echo out; echo err >&2", &captured)}

	exitCode, stdout, stderr, err := c.Run(context.Background(), "echo hi", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "out\n", stdout)
	assert.Equal(t, "err\n", stderr)

	require.NotEmpty(t, captured)
	assert.Equal(t, "ssh", captured[0])
	assert.Equal(t, "echo hi", captured[len(captured)-1])
}

func TestRun_RemoteExitCodeIsNotAnError(t *testing.T) {
	t.Parallel()

	c := &Client{Address: "203.0.113.5", User: "root", execCommand: fakeExec("exit 3", nil)}

	exitCode, _, _, err := c.Run(context.Background(), "false", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, exitCode)
}

func TestRun_Exit255IsTransportFailure(t *testing.T) {
	t.Parallel()

	c := &Client{Address: "203.0.113.5", User: "root", execCommand: fakeExec("echo 'Connection refused' >&2; exit 255", nil)}

	exitCode, _, _, err := c.Run(context.Background(), "echo hi", 5*time.Second)
	require.Error(t, err)
	assert.Equal(t, -1, exitCode)
	assert.Contains(t, err.Error(), "connection failed")
	assert.Contains(t, err.Error(), "Connection refused")
}

func TestRun_TimeoutIsTransportFailure(t *testing.T) {
	t.Parallel()

	c := &Client{Address: "203.0.113.5", User: "root", execCommand: fakeExec("sleep 5", nil)}

	exitCode, _, _, err := c.Run(context.Background(), "sleep", 50*time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, -1, exitCode)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTestReachable(t *testing.T) {
	t.Parallel()

	up := &Client{Address: "203.0.113.5", User: "root", execCommand: fakeExec("exit 0", nil)}
	assert.True(t, up.TestReachable(context.Background(), time.Second))

	down := &Client{Address: "203.0.113.5", User: "root", execCommand: fakeExec("exit 255", nil)}
	assert.False(t, down.TestReachable(context.Background(), time.Second))
}

func TestCopyFile(t *testing.T) {
	t.Parallel()

	var captured []string
	c := &Client{Address: "203.0.113.5", User: "root", execCommand: fakeExec("exit 0", &captured)}
	err := c.CopyFile(context.Background(), "/local/file", "/remote/file", 5*time.Second)
	require.NoError(t, err)
	require.NotEmpty(t, captured)
	assert.Equal(t, "scp", captured[0])

	failing := &Client{Address: "203.0.113.5", User: "root", execCommand: fakeExec("echo 'No such file' >&2; exit 1", nil)}
	err = failing.CopyFile(context.Background(), "/local/file", "/remote/file", 5*time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No such file")
}

func TestSessionCache_ReusesClients(t *testing.T) {
	t.Parallel()

	created := 0
	cache := NewSessionCache()
	cache.newClient = func(address, user string) *Client {
		created++
		return &Client{Address: address, User: user}
	}

	a := cache.Get("203.0.113.5", "root")
	b := cache.Get("203.0.113.5", "root")
	assert.Same(t, a, b)
	assert.Equal(t, 1, created)

	// A different user on the same host is a different session.
	cache.Get("203.0.113.5", "deploy")
	assert.Equal(t, 2, created)
}

func TestSessionCache_Invalidate(t *testing.T) {
	t.Parallel()

	cache := NewSessionCache()
	cache.newClient = func(address, user string) *Client {
		return &Client{Address: address, User: user}
	}

	a := cache.Get("203.0.113.5", "root")
	cache.Invalidate("203.0.113.5", "root")
	b := cache.Get("203.0.113.5", "root")
	assert.NotSame(t, a, b)
}

func TestSessionCache_Clear(t *testing.T) {
	t.Parallel()

	cache := NewSessionCache()
	cache.newClient = func(address, user string) *Client {
		return &Client{Address: address, User: user}
	}

	a := cache.Get("203.0.113.5", "root")
	cache.Clear()
	b := cache.Get("203.0.113.5", "root")
	assert.NotSame(t, a, b)
}

func TestPrivateKeyPath_DiscoveryOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, ok := PrivateKeyPath()
	assert.False(t, ok, "no keys should be found in an empty home")

	sshDir := filepath.Join(home, ".ssh")
	require.NoError(t, os.MkdirAll(sshDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(sshDir, "id_rsa"), []byte("rsa"), 0o600))

	path, ok := PrivateKeyPath()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(sshDir, "id_rsa"), path)

	// ed25519 is preferred when both exist.
	require.NoError(t, os.WriteFile(filepath.Join(sshDir, "id_ed25519"), []byte("ed"), 0o600))
	path, ok = PrivateKeyPath()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(sshDir, "id_ed25519"), path)
}

func TestEnsureKeyPair_GeneratesWhenMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	configDir := filepath.Join(home, ".clwd")

	privPath, pubKey, err := EnsureKeyPair(configDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(configDir, "id_ed25519"), privPath)
	assert.True(t, strings.HasPrefix(pubKey, "ssh-ed25519 "))

	info, err := os.Stat(privPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A second call reuses the generated key.
	again, pubAgain, err := EnsureKeyPair(configDir)
	require.NoError(t, err)
	assert.Equal(t, privPath, again)
	assert.Equal(t, pubKey, pubAgain)
}

func TestEnsureKeyPair_PrefersExistingKey(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	sshDir := filepath.Join(home, ".ssh")
	require.NoError(t, os.MkdirAll(sshDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(sshDir, "id_ed25519"), []byte("priv"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(sshDir, "id_ed25519.pub"), []byte("ssh-ed25519 AAAA dev\n"), 0o600))

	privPath, pubKey, err := EnsureKeyPair(filepath.Join(home, ".clwd"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sshDir, "id_ed25519"), privPath)
	assert.Equal(t, "ssh-ed25519 AAAA dev\n", pubKey)
}
