// Package handlers implements the command logic behind the CLI surface.
//
// Handlers wire settings, the project store, the provider, and the lifecycle
// orchestrator together. Constructor function variables are replaced in
// tests to inject fakes.
package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/imamik/clwd/internal/auth"
	"github.com/imamik/clwd/internal/provider"
	"github.com/imamik/clwd/internal/provider/hetzner"
	"github.com/imamik/clwd/internal/provision"
	"github.com/imamik/clwd/internal/remote"
	"github.com/imamik/clwd/internal/settings"
	"github.com/imamik/clwd/internal/store"
)

// lifecycle is the slice of the orchestrator the handlers drive.
type lifecycle interface {
	Provision(ctx context.Context, req provision.Request) (*provider.Instance, error)
	Destroy(ctx context.Context, projectName string) error
	Status(ctx context.Context, projectName string) (*store.Project, error)
	TransferCredentials(ctx context.Context, projectName string) error
}

// remoteSession is the slice of the remote client the handlers drive
// directly, for open and exec.
type remoteSession interface {
	Run(ctx context.Context, command string, timeout time.Duration) (exitCode int, stdout, stderr string, err error)
	RunInteractive(ctx context.Context, command string) (int, error)
}

// Factory function variables - replaced in tests.
var (
	loadSettings = settings.Load

	openStore = func() (*store.Store, error) {
		dir, err := store.DefaultDir()
		if err != nil {
			return nil, err
		}
		return store.New(dir)
	}

	newLifecycle = func() (lifecycle, error) {
		cfg, err := loadSettings()
		if err != nil {
			return nil, err
		}
		if cfg.Debug {
			log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
		}
		st, err := openStore()
		if err != nil {
			return nil, err
		}
		return provision.New(st, providerResolver(cfg), auth.NewPreparer(), provision.NewConsoleObserver()), nil
	}

	newRemoteSession = func(address string) remoteSession {
		return remote.NewClient(address, remote.DefaultUser)
	}
)

// providerResolver maps a provider kind to a configured client. The local
// SSH keypair is ensured here so every created server gets a key attached.
func providerResolver(cfg *settings.Settings) provision.ProviderResolver {
	return func(kind, region string) (provider.Provider, error) {
		if kind != hetzner.Kind {
			return nil, provider.NewConfigurationError(kind, "unsupported provider %q, only hetzner is available", kind)
		}
		configDir, err := store.DefaultDir()
		if err != nil {
			return nil, err
		}
		_, publicKey, err := remote.EnsureKeyPair(configDir)
		if err != nil {
			return nil, err
		}
		return hetzner.New(hetzner.Options{
			Token:     cfg.HetznerAPIToken,
			Region:    region,
			PublicKey: publicKey,
		})
	}
}

// lookupInstance fetches the stored instance for a project, failing with a
// hint when the project is unknown.
func lookupInstance(name string) (*provider.Instance, *store.Store, error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	inst, err := st.GetInstance(name)
	if err != nil {
		return nil, nil, err
	}
	if inst == nil {
		return nil, nil, fmt.Errorf("project %q not found, run `clwd status` to list projects", name)
	}
	return inst, st, nil
}
