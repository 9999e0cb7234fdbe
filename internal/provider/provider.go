package provider

import (
	"context"
	"fmt"
	"time"
)

// Instance describes one provisioned cloud server.
type Instance struct {
	// ID is the provider-assigned identifier, opaque to clwd.
	ID string `json:"id"`
	// Name is the provider-visible server name. It is derived from the
	// project name plus the creation timestamp so repeated provisioning of
	// the same project never collides.
	Name string `json:"name"`
	// Address is the public IPv4 address.
	Address string `json:"ip"`
	// ProviderKind identifies which provider created the instance.
	ProviderKind string `json:"provider"`
	// Status is the provider-reported lifecycle status, passed through
	// verbatim (e.g. "initializing", "running", "off").
	Status string `json:"status"`
	// CreatedAt is the local creation timestamp in RFC 3339 form. It is
	// captured by clwd, not reported by the provider.
	CreatedAt string `json:"created_at"`
	// Metadata holds provider-specific facts (region, server type,
	// hardening level, datacenter) without requiring schema changes.
	Metadata map[string]string `json:"metadata"`
}

// NewInstance constructs a validated Instance. All scalar fields are
// required; an empty one indicates a malformed provider response and fails
// construction.
func NewInstance(id, name, address, providerKind, status, createdAt string, metadata map[string]string) (*Instance, error) {
	for _, f := range []struct{ field, value string }{
		{"id", id},
		{"name", name},
		{"address", address},
		{"provider", providerKind},
		{"status", status},
		{"created_at", createdAt},
	} {
		if f.value == "" {
			return nil, fmt.Errorf("instance %s cannot be empty", f.field)
		}
	}
	if metadata == nil {
		metadata = make(map[string]string)
	}
	return &Instance{
		ID:           id,
		Name:         name,
		Address:      address,
		ProviderKind: providerKind,
		Status:       status,
		CreatedAt:    createdAt,
		Metadata:     metadata,
	}, nil
}

// CreateRequest holds the parameters for instance creation.
type CreateRequest struct {
	// ProjectName is the user-chosen project the instance belongs to.
	ProjectName string
	// Size is the abstract instance size (small, medium, large).
	Size string
	// HardeningLevel selects the bootstrap security profile
	// (none, minimal, full).
	HardeningLevel string
	// Region is the provider region code. Empty selects the provider
	// default.
	Region string
}

// SizeSpec describes one offered instance size.
type SizeSpec struct {
	ServerType   string `json:"server_type"`
	CPU          int    `json:"cpu"`
	Memory       string `json:"memory"`
	Disk         string `json:"disk"`
	PriceMonthly string `json:"price_monthly"`
}

// Provider is the capability set the orchestrator needs from a cloud
// provider. Implementations must be safe for sequential reuse across
// operations; no concurrency guarantees are required.
type Provider interface {
	// Kind returns the provider tag recorded on instances (e.g. "hetzner").
	Kind() string

	// CreateInstance creates a server bootstrapped for clwd and returns its
	// record. The bootstrap payload never contains agent credentials; those
	// are transferred over SSH after setup.
	CreateInstance(ctx context.Context, req CreateRequest) (*Instance, error)

	// DestroyInstance deletes the server by provider id. A missing server
	// fails with an error matching IsInstanceNotFound.
	DestroyInstance(ctx context.Context, instanceID string) error

	// InstanceStatus returns the provider's current status string for the
	// server, verbatim.
	InstanceStatus(ctx context.Context, instanceID string) (string, error)

	// WaitForReachable blocks until TCP port 22 on address accepts
	// connections, then settles briefly before returning. It fails with a
	// timeout error once the deadline elapses.
	WaitForReachable(ctx context.Context, address string, timeout time.Duration) error

	// Sizes returns the supported size catalog.
	Sizes() map[string]SizeSpec

	// Regions returns region code to display name.
	Regions() map[string]string
}
