package provision

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/imamik/clwd/internal/auth"
	"github.com/imamik/clwd/internal/provider"
	"github.com/imamik/clwd/internal/remote"
	"github.com/imamik/clwd/internal/store"
	"github.com/imamik/clwd/internal/util/retry"
)

// Timeouts bounds the waiting phases of a lifecycle operation.
type Timeouts struct {
	// Reachable bounds the TCP port 22 reachability wait after creation.
	Reachable time.Duration
	// Setup bounds the wait for the cloud-init completion marker.
	Setup time.Duration
	// SetupInterval is the marker poll interval.
	SetupInterval time.Duration
	// CredentialSettle is the pause after invalidating the SSH session and
	// before the credential transfer, giving sshd time to finish its
	// post-bootstrap restart.
	CredentialSettle time.Duration
	// RemoteCommand bounds individual remote probe and chmod commands.
	RemoteCommand time.Duration
	// Transfer bounds each scp file transfer.
	Transfer time.Duration
}

// DefaultTimeouts returns the production timeout profile.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Reachable:        5 * time.Minute,
		Setup:            5 * time.Minute,
		SetupInterval:    5 * time.Second,
		CredentialSettle: 3 * time.Second,
		RemoteCommand:    30 * time.Second,
		Transfer:         60 * time.Second,
	}
}

// Request holds the inputs for provisioning one project.
type Request struct {
	ProjectName    string
	ProviderKind   string
	Size           string
	HardeningLevel string
	Region         string
	// SkipAuth disables credential preparation and transfer entirely.
	SkipAuth bool
}

// CredentialPreparer yields the local credential bundle for transfer.
type CredentialPreparer interface {
	Prepare(ctx context.Context) (*auth.Bundle, error)
}

// ProviderResolver maps a provider kind and region to a ready client.
// Unknown kinds fail with a configuration error.
type ProviderResolver func(kind, region string) (provider.Provider, error)

// RemoteRunner is the slice of the remote client the orchestrator uses.
// *remote.Client satisfies it.
type RemoteRunner interface {
	TestReachable(ctx context.Context, timeout time.Duration) bool
	Run(ctx context.Context, command string, timeout time.Duration) (exitCode int, stdout, stderr string, err error)
	CopyFile(ctx context.Context, localPath, remotePath string, timeout time.Duration) error
}

// Orchestrator sequences the instance lifecycle against a store, a provider,
// and the remote transport.
type Orchestrator struct {
	store    *store.Store
	resolve  ProviderResolver
	preparer CredentialPreparer
	sessions *remote.SessionCache
	observer Observer
	timeouts Timeouts

	// remoteFor is replaced in tests to avoid spawning ssh processes.
	remoteFor func(address string) RemoteRunner
}

// New creates an orchestrator with production defaults.
func New(st *store.Store, resolve ProviderResolver, preparer CredentialPreparer, observer Observer) *Orchestrator {
	sessions := remote.NewSessionCache()
	return &Orchestrator{
		store:    st,
		resolve:  resolve,
		preparer: preparer,
		sessions: sessions,
		observer: observer,
		timeouts: DefaultTimeouts(),
		remoteFor: func(address string) RemoteRunner {
			return sessions.Get(address, remote.DefaultUser)
		},
	}
}

// Provision creates and configures an instance for the project. The returned
// instance is already persisted. A failed credential transfer does not fail
// the provision; it degrades to warnings since the user can authenticate the
// agent manually.
func (o *Orchestrator) Provision(ctx context.Context, req Request) (*provider.Instance, error) {
	start := time.Now()

	prov, err := o.resolve(req.ProviderKind, req.Region)
	if err != nil {
		return nil, err
	}

	// Credentials are validated before anything costs money.
	var bundle *auth.Bundle
	if !req.SkipAuth {
		bundle, err = o.preparer.Prepare(ctx)
		if err != nil {
			return nil, fmt.Errorf("prepare credentials: %w", err)
		}
		o.observer.Printf("[credentials] prepared")
	}

	o.observer.Printf("[create] provisioning %s instance for project %q", prov.Kind(), req.ProjectName)
	inst, err := prov.CreateInstance(ctx, provider.CreateRequest{
		ProjectName:    req.ProjectName,
		Size:           req.Size,
		HardeningLevel: req.HardeningLevel,
		Region:         req.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	o.observer.Printf("[create] instance %s up at %s", inst.Name, inst.Address)

	if err := prov.WaitForReachable(ctx, inst.Address, o.timeouts.Reachable); err != nil {
		return nil, fmt.Errorf("wait for ssh on %s: %w", inst.Address, err)
	}
	o.observer.Printf("[reachable] ssh port open on %s", inst.Address)

	// Persist before setup completes so a stuck bootstrap still leaves a
	// destroyable record.
	if err := o.store.Add(req.ProjectName, inst); err != nil {
		return nil, fmt.Errorf("record project %q: %w", req.ProjectName, err)
	}

	if err := o.waitForSetup(ctx, inst.Address); err != nil {
		return nil, fmt.Errorf("wait for instance setup: %w", err)
	}
	o.observer.Printf("[setup] bootstrap complete on %s", inst.Address)

	if bundle != nil {
		o.transferCredentials(ctx, inst.Address, bundle)
	}

	o.observer.Printf("[done] project %q ready in %v", req.ProjectName, time.Since(start).Round(time.Second))
	return inst, nil
}

// Destroy tears down the project's instance, then removes the record. A
// provider failure, including instance-not-found, leaves the record in place
// so the state stays inspectable.
func (o *Orchestrator) Destroy(ctx context.Context, projectName string) error {
	project, err := o.store.Get(projectName)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project %q: %w", projectName, store.ErrNotFound)
	}

	prov, err := o.resolve(project.ProviderKind, project.Metadata["region"])
	if err != nil {
		return err
	}

	o.observer.Printf("[destroy] deleting instance %s (%s)", project.Name, project.ID)
	if err := prov.DestroyInstance(ctx, project.ID); err != nil {
		return fmt.Errorf("destroy instance %s: %w", project.ID, err)
	}

	o.sessions.Invalidate(project.Address, remote.DefaultUser)
	if err := o.store.Remove(projectName); err != nil {
		return fmt.Errorf("remove project record %q: %w", projectName, err)
	}
	o.observer.Printf("[destroy] project %q removed", projectName)
	return nil
}

// TransferCredentials re-runs credential preparation and transfer against an
// already provisioned project, for `clwd auth`.
func (o *Orchestrator) TransferCredentials(ctx context.Context, projectName string) error {
	inst, err := o.store.GetInstance(projectName)
	if err != nil {
		return err
	}
	if inst == nil {
		return fmt.Errorf("project %q: %w", projectName, store.ErrNotFound)
	}

	bundle, err := o.preparer.Prepare(ctx)
	if err != nil {
		return fmt.Errorf("prepare credentials: %w", err)
	}
	o.transferCredentials(ctx, inst.Address, bundle)
	return nil
}

// Status fetches the provider's current status for the project's instance,
// records it, and returns the refreshed record. The status string is passed
// through verbatim.
func (o *Orchestrator) Status(ctx context.Context, projectName string) (*store.Project, error) {
	project, err := o.store.Get(projectName)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project %q: %w", projectName, store.ErrNotFound)
	}

	prov, err := o.resolve(project.ProviderKind, project.Metadata["region"])
	if err != nil {
		return nil, err
	}

	status, err := prov.InstanceStatus(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("query instance %s: %w", project.ID, err)
	}
	if err := o.store.UpdateStatus(projectName, status); err != nil {
		return nil, err
	}
	return o.store.Get(projectName)
}

// waitForSetup polls for the bootstrap completion marker. Remote command
// failures during the poll read as "not ready"; only the deadline or
// cancellation ends it.
func (o *Orchestrator) waitForSetup(ctx context.Context, address string) error {
	client := o.remoteFor(address)
	return retry.Poll(ctx, retry.PollConfig{
		Interval: o.timeouts.SetupInterval,
		Timeout:  o.timeouts.Setup,
	}, func(ctx context.Context) (bool, error) {
		exitCode, _, _, err := client.Run(ctx, "test -f "+provider.SetupMarkerPath, o.timeouts.RemoteCommand)
		if err != nil {
			return false, err
		}
		return exitCode == 0, nil
	})
}

// transferCredentials copies the bundle to the instance. The bootstrap may
// have restarted sshd, so the cached session is dropped and connectivity
// re-verified first. Every failure degrades to a warning.
func (o *Orchestrator) transferCredentials(ctx context.Context, address string, bundle *auth.Bundle) {
	o.sessions.Invalidate(address, remote.DefaultUser)

	select {
	case <-ctx.Done():
		o.observer.Warnf("credential transfer cancelled; run `clwd auth` later")
		return
	case <-time.After(o.timeouts.CredentialSettle):
	}

	client := o.remoteFor(address)
	if !client.TestReachable(ctx, o.timeouts.RemoteCommand) {
		o.observer.Warnf("instance %s not reachable for credential transfer; run `clwd auth` later", address)
		return
	}

	if exitCode, _, stderr, err := client.Run(ctx, "mkdir -p /root/.claude", o.timeouts.RemoteCommand); err != nil || exitCode != 0 {
		o.observer.Warnf("failed to create remote config directory (exit %d, %v): %s", exitCode, err, stderr)
		return
	}

	for _, f := range []struct {
		label, content, remotePath string
	}{
		{"credentials", bundle.Credentials, auth.RemoteCredentialsPath},
		{"session", bundle.Session, auth.RemoteSessionPath},
		{"settings", bundle.Settings, auth.RemoteSettingsPath},
	} {
		if f.content == "" {
			continue
		}
		if err := o.transferFile(ctx, client, f.content, f.remotePath); err != nil {
			o.observer.Warnf("failed to transfer %s: %v", f.label, err)
			continue
		}
		o.observer.Printf("[credentials] %s installed at %s", f.label, f.remotePath)
	}
}

// transferFile stages content in a local temp file, copies it over scp, and
// locks down the remote permissions.
func (o *Orchestrator) transferFile(ctx context.Context, client RemoteRunner, content, remotePath string) error {
	tmp, err := os.CreateTemp("", "clwd-transfer-*")
	if err != nil {
		return fmt.Errorf("stage temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("stage temp file: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("stage temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("stage temp file: %w", err)
	}

	if err := client.CopyFile(ctx, tmp.Name(), remotePath, o.timeouts.Transfer); err != nil {
		return err
	}
	if exitCode, _, stderr, err := client.Run(ctx, "chmod 600 "+remotePath, o.timeouts.RemoteCommand); err != nil {
		return err
	} else if exitCode != 0 {
		return fmt.Errorf("chmod %s: exit %d: %s", remotePath, exitCode, stderr)
	}
	return nil
}
