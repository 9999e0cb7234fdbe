package provider

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInstance(t *testing.T) {
	t.Parallel()
	inst, err := NewInstance("12345", "clwd-demo-1700000000", "203.0.113.10", "hetzner", "running", "2026-08-23T10:00:00Z", map[string]string{"region": "nbg1"})
	assert.NoError(t, err)
	assert.Equal(t, "12345", inst.ID)
	assert.Equal(t, "203.0.113.10", inst.Address)
	assert.Equal(t, "nbg1", inst.Metadata["region"])
}

func TestNewInstance_EmptyFieldsRejected(t *testing.T) {
	t.Parallel()
	fields := []string{"id", "name", "address", "provider", "status", "created_at"}
	for i, field := range fields {
		args := []string{"12345", "clwd-demo-1", "203.0.113.10", "hetzner", "running", "2026-08-23T10:00:00Z"}
		args[i] = ""
		_, err := NewInstance(args[0], args[1], args[2], args[3], args[4], args[5], nil)
		assert.Error(t, err, "empty %s must fail construction", field)
		assert.Contains(t, err.Error(), field)
	}
}

func TestNewInstance_NilMetadataBecomesEmptyMap(t *testing.T) {
	t.Parallel()
	inst, err := NewInstance("1", "n", "a", "p", "s", "c", nil)
	assert.NoError(t, err)
	assert.NotNil(t, inst.Metadata)
}

func TestErrorCategories(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"configuration", NewConfigurationError("hetzner", "unsupported size: %s", "huge"), IsConfiguration},
		{"authentication", NewAuthenticationError("hetzner", "API token not provided"), IsAuthentication},
		{"quota", NewQuotaExceededError("hetzner", "server limit reached"), IsQuotaExceeded},
		{"not found", NewInstanceNotFoundError("hetzner", "99"), IsInstanceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, tt.check(tt.err))
			// Categories are mutually exclusive.
			for _, other := range tests {
				if other.name != tt.name {
					assert.False(t, other.check(tt.err), "%s must not match %s", tt.name, other.name)
				}
			}
		})
	}
}

func TestErrorCategory_SurvivesWrapping(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("create instance: %w", NewQuotaExceededError("hetzner", "limit"))
	assert.True(t, IsQuotaExceeded(err))
}

func TestRemoteCommandError(t *testing.T) {
	t.Parallel()
	err := &RemoteCommandError{Command: "test -f " + SetupMarkerPath, ExitCode: 1, Stderr: "not found"}
	assert.True(t, IsRemoteCommandFailure(err))
	assert.Contains(t, err.Error(), "exited with code 1")
	assert.Contains(t, err.Error(), "not found")

	wrapped := fmt.Errorf("exec: %w", err)
	assert.True(t, IsRemoteCommandFailure(wrapped))
}
