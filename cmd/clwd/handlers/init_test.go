package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/clwd/internal/provider"
	"github.com/imamik/clwd/internal/provision"
	"github.com/imamik/clwd/internal/store"
)

// fakeLifecycle records orchestrator calls for handler tests.
type fakeLifecycle struct {
	provisionReq  provision.Request
	provisionErr  error
	inst          *provider.Instance
	destroyNames  []string
	destroyErr    error
	statusProject *store.Project
	statusErr     error
	transferNames []string
	transferErr   error
}

func (f *fakeLifecycle) Provision(ctx context.Context, req provision.Request) (*provider.Instance, error) {
	f.provisionReq = req
	if f.provisionErr != nil {
		return nil, f.provisionErr
	}
	return f.inst, nil
}

func (f *fakeLifecycle) Destroy(ctx context.Context, projectName string) error {
	f.destroyNames = append(f.destroyNames, projectName)
	return f.destroyErr
}

func (f *fakeLifecycle) Status(ctx context.Context, projectName string) (*store.Project, error) {
	return f.statusProject, f.statusErr
}

func (f *fakeLifecycle) TransferCredentials(ctx context.Context, projectName string) error {
	f.transferNames = append(f.transferNames, projectName)
	return f.transferErr
}

// installLifecycle swaps in a fake orchestrator for one test.
func installLifecycle(t *testing.T, f *fakeLifecycle) {
	t.Helper()
	orig := newLifecycle
	newLifecycle = func() (lifecycle, error) { return f, nil }
	t.Cleanup(func() { newLifecycle = orig })
}

func testInstance(t *testing.T) *provider.Instance {
	t.Helper()
	inst, err := provider.NewInstance("42", "clwd-demo-1700000000", "203.0.113.5", "hetzner", "running",
		"2026-08-23T10:00:00Z", map[string]string{"region": "nbg1", "hardening_level": "none"})
	require.NoError(t, err)
	return inst
}

func TestInit_PassesRequestThrough(t *testing.T) {
	installStore(t, false)
	fake := &fakeLifecycle{inst: testInstance(t)}
	installLifecycle(t, fake)

	err := Init(context.Background(), InitOptions{
		ProjectName:    "demo",
		ProviderKind:   "hetzner",
		Size:           "medium",
		HardeningLevel: "minimal",
		Region:         "fsn1",
		SkipAuth:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, provision.Request{
		ProjectName:    "demo",
		ProviderKind:   "hetzner",
		Size:           "medium",
		HardeningLevel: "minimal",
		Region:         "fsn1",
		SkipAuth:       true,
	}, fake.provisionReq)
}

func TestInit_PremiumFallsBackToStandard(t *testing.T) {
	installStore(t, false)
	fake := &fakeLifecycle{inst: testInstance(t)}
	installLifecycle(t, fake)

	err := Init(context.Background(), InitOptions{ProjectName: "demo", ProviderKind: "hetzner", Premium: true})
	require.NoError(t, err)
	assert.Equal(t, "demo", fake.provisionReq.ProjectName)
}

func TestInit_ProvisionFailure(t *testing.T) {
	installStore(t, false)
	fake := &fakeLifecycle{provisionErr: errors.New("quota exceeded")}
	installLifecycle(t, fake)

	err := Init(context.Background(), InitOptions{ProjectName: "demo", ProviderKind: "hetzner"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "demo")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestInit_RejectsExistingProject(t *testing.T) {
	installStore(t, true)
	fake := &fakeLifecycle{inst: testInstance(t)}
	installLifecycle(t, fake)

	err := Init(context.Background(), InitOptions{ProjectName: "demo", ProviderKind: "hetzner"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Empty(t, fake.provisionReq.ProjectName, "no provisioning may happen for a duplicate name")
}
