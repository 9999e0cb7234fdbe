package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/imamik/clwd/internal/provider"
)

const (
	// keychainService is the generic-password entry the Claude Code CLI
	// writes its OAuth credentials under.
	keychainService = "Claude Code-credentials"

	// sessionFileName is the session file the Claude Code CLI keeps in the
	// user's home directory.
	sessionFileName = ".claude.json"

	keychainTimeout = 30 * time.Second

	// localProviderKind tags authentication errors raised before any cloud
	// provider is involved.
	localProviderKind = "local"
)

// Remote paths the prepared material is copied to. Owner-only permissions are
// applied after transfer.
const (
	RemoteCredentialsPath = "/root/.claude/.credentials.json"
	RemoteSessionPath     = "/root/.claude.json"
	RemoteSettingsPath    = "/root/.claude/settings.json"
)

// Bundle holds credential material ready for transfer. Any field may be
// empty; Prepare fails only when nothing usable was found at all.
type Bundle struct {
	// Credentials is the content for .credentials.json, extracted from the
	// keychain. Empty off macOS or when the entry is absent.
	Credentials string
	// Session is the full ~/.claude.json content, validated as JSON.
	Session string
	// Settings is a generated minimal settings document for the remote
	// agent.
	Settings string
}

// Preparer extracts local Claude Code credentials. The function fields exist
// so tests can run without a keychain or a real home directory.
type Preparer struct {
	goos       string
	runCommand func(ctx context.Context, name string, arg ...string) ([]byte, error)
	homeDir    func() (string, error)
}

// NewPreparer creates a Preparer bound to the current platform.
func NewPreparer() *Preparer {
	return &Preparer{
		goos: runtime.GOOS,
		runCommand: func(ctx context.Context, name string, arg ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, arg...).Output()
		},
		homeDir: os.UserHomeDir,
	}
}

// Prepare gathers credential material from the keychain and the session file.
// Returns an authentication error when neither source yields anything, so
// provisioning can fail before any cloud resources are created.
func (p *Preparer) Prepare(ctx context.Context) (*Bundle, error) {
	bundle := &Bundle{Settings: settingsDocument()}

	if p.goos == "darwin" {
		secret, err := p.keychainSecret(ctx)
		if err != nil {
			return nil, err
		}
		if secret != "" {
			bundle.Credentials = credentialsDocument(secret)
		}
	}

	session, err := p.sessionContent()
	if err != nil {
		return nil, err
	}
	bundle.Session = session

	if bundle.Credentials == "" && bundle.Session == "" {
		return nil, provider.NewAuthenticationError(localProviderKind,
			"no Claude Code credentials found; log in with the Claude Code CLI first, or pass --skip-auth")
	}
	return bundle, nil
}

// keychainSecret reads the Claude Code keychain entry. An absent entry is not
// an error; a timed-out or failed security invocation is, since the user may
// have denied the access prompt.
func (p *Preparer) keychainSecret(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, keychainTimeout)
	defer cancel()

	out, err := p.runCommand(ctx, "security", "find-generic-password", "-s", keychainService, "-w")
	if err != nil {
		if ctx.Err() != nil {
			return "", provider.NewAuthenticationError(localProviderKind, "keychain access timed out, access may have been denied")
		}
		// security exits non-zero when the item does not exist.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", nil
		}
		return "", provider.NewAuthenticationError(localProviderKind, "failed to access keychain: %v", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// sessionContent reads ~/.claude.json. A missing or malformed file yields an
// empty string; the keychain may still carry enough on its own.
func (p *Preparer) sessionContent() (string, error) {
	home, err := p.homeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	data, err := os.ReadFile(filepath.Join(home, sessionFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", sessionFileName, err)
	}
	if !json.Valid(data) {
		return "", nil
	}
	return string(data), nil
}

// Report describes which credential sources are present, for `auth --check`.
type Report struct {
	KeychainAvailable   bool `json:"keychain_available"`
	KeychainCredentials bool `json:"keychain_credentials"`
	SessionFile         bool `json:"session_file"`
	SessionValid        bool `json:"session_valid"`
	Ready               bool `json:"ready"`
}

// Preflight checks both credential sources without preparing a bundle.
func (p *Preparer) Preflight(ctx context.Context) Report {
	var report Report

	if p.goos == "darwin" {
		report.KeychainAvailable = true
		if secret, err := p.keychainSecret(ctx); err == nil && secret != "" {
			report.KeychainCredentials = true
		}
	}

	if home, err := p.homeDir(); err == nil {
		data, err := os.ReadFile(filepath.Join(home, sessionFileName))
		if err == nil {
			report.SessionFile = true
			var session map[string]any
			if json.Unmarshal(data, &session) == nil {
				_, report.SessionValid = session["oauthAccount"]
			}
		}
	}

	report.Ready = report.KeychainCredentials || report.SessionValid
	return report
}

// credentialsDocument normalizes the keychain secret into .credentials.json
// content. Structured secrets pass through; bare tokens get wrapped.
func credentialsDocument(secret string) string {
	if json.Valid([]byte(secret)) {
		return secret
	}
	doc, _ := json.MarshalIndent(map[string]string{"token": secret}, "", "  ")
	return string(doc)
}

// settingsDocument generates the minimal settings the remote agent needs.
// Auto-updates stay off so the instance runs the version the bootstrap
// installed.
func settingsDocument() string {
	doc, _ := json.MarshalIndent(map[string]any{
		"autoUpdates": false,
		"env": map[string]string{
			"CLAUDE_CODE_INSTALL_METHOD": "clwd",
		},
	}, "", "  ")
	return string(doc)
}
