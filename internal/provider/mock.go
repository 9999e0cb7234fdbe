package provider

import (
	"context"
	"time"
)

// Mock is a function-field mock implementation of Provider for tests.
// Unset fields fall back to benign defaults.
type Mock struct {
	KindTag string

	CreateInstanceFunc   func(ctx context.Context, req CreateRequest) (*Instance, error)
	DestroyInstanceFunc  func(ctx context.Context, instanceID string) error
	InstanceStatusFunc   func(ctx context.Context, instanceID string) (string, error)
	WaitForReachableFunc func(ctx context.Context, address string, timeout time.Duration) error
	SizesFunc            func() map[string]SizeSpec
	RegionsFunc          func() map[string]string

	// Call counters for assertion convenience.
	CreateCalls  int
	DestroyCalls int
}

var _ Provider = (*Mock)(nil)

func (m *Mock) Kind() string {
	if m.KindTag != "" {
		return m.KindTag
	}
	return "mock"
}

func (m *Mock) CreateInstance(ctx context.Context, req CreateRequest) (*Instance, error) {
	m.CreateCalls++
	if m.CreateInstanceFunc != nil {
		return m.CreateInstanceFunc(ctx, req)
	}
	return NewInstance("1", "mock-"+req.ProjectName, "192.0.2.1", m.Kind(), "running", "2026-01-01T00:00:00Z", map[string]string{
		"hardening_level": req.HardeningLevel,
		"region":          req.Region,
	})
}

func (m *Mock) DestroyInstance(ctx context.Context, instanceID string) error {
	m.DestroyCalls++
	if m.DestroyInstanceFunc != nil {
		return m.DestroyInstanceFunc(ctx, instanceID)
	}
	return nil
}

func (m *Mock) InstanceStatus(ctx context.Context, instanceID string) (string, error) {
	if m.InstanceStatusFunc != nil {
		return m.InstanceStatusFunc(ctx, instanceID)
	}
	return "running", nil
}

func (m *Mock) WaitForReachable(ctx context.Context, address string, timeout time.Duration) error {
	if m.WaitForReachableFunc != nil {
		return m.WaitForReachableFunc(ctx, address, timeout)
	}
	return nil
}

func (m *Mock) Sizes() map[string]SizeSpec {
	if m.SizesFunc != nil {
		return m.SizesFunc()
	}
	return map[string]SizeSpec{"small": {ServerType: "mock-small"}}
}

func (m *Mock) Regions() map[string]string {
	if m.RegionsFunc != nil {
		return m.RegionsFunc()
	}
	return map[string]string{"mock-1": "Mock Region 1"}
}
