package provider

import (
	"errors"
	"fmt"
	"strings"
)

// Error is the base type for provider failures. It records which provider
// produced the failure so CLI messages can name it.
type Error struct {
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinel categories. Concrete errors wrap exactly one of these so callers
// can branch with errors.Is without knowing provider internals.
var (
	// ErrConfiguration marks bad input (unknown size, region, provider).
	// Never retried; the caller must fix the request.
	ErrConfiguration = errors.New("configuration error")

	// ErrAuthentication marks missing or rejected credentials, either the
	// provider API token or the local agent credentials in fail-fast mode.
	ErrAuthentication = errors.New("authentication error")

	// ErrQuotaExceeded marks a provider-reported resource limit. Surfaced
	// verbatim, never retried.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrInstanceNotFound marks an operation against a server id the
	// provider does not know.
	ErrInstanceNotFound = errors.New("instance not found")
)

// NewConfigurationError reports invalid provisioning input.
func NewConfigurationError(providerKind, format string, args ...any) error {
	return &Error{Provider: providerKind, Message: fmt.Sprintf(format, args...), Err: ErrConfiguration}
}

// NewAuthenticationError reports missing or rejected credentials.
func NewAuthenticationError(providerKind, format string, args ...any) error {
	return &Error{Provider: providerKind, Message: fmt.Sprintf(format, args...), Err: ErrAuthentication}
}

// NewQuotaExceededError reports a provider resource limit.
func NewQuotaExceededError(providerKind, format string, args ...any) error {
	return &Error{Provider: providerKind, Message: fmt.Sprintf(format, args...), Err: ErrQuotaExceeded}
}

// NewInstanceNotFoundError reports an unknown instance id.
func NewInstanceNotFoundError(providerKind, instanceID string) error {
	return &Error{Provider: providerKind, Message: fmt.Sprintf("instance not found: %s", instanceID), Err: ErrInstanceNotFound}
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return errors.Is(err, ErrConfiguration) }

// IsAuthentication reports whether err is an authentication error.
func IsAuthentication(err error) bool { return errors.Is(err, ErrAuthentication) }

// IsQuotaExceeded reports whether err is a quota error.
func IsQuotaExceeded(err error) bool { return errors.Is(err, ErrQuotaExceeded) }

// IsInstanceNotFound reports whether err indicates a missing instance.
func IsInstanceNotFound(err error) bool { return errors.Is(err, ErrInstanceNotFound) }

// RemoteCommandError reports a remote command that ran but exited non-zero.
// It is distinct from transport failures, which surface as plain errors.
type RemoteCommandError struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *RemoteCommandError) Error() string {
	msg := fmt.Sprintf("remote command %q exited with code %d", e.Command, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// IsRemoteCommandFailure reports whether err is a non-zero remote exit.
func IsRemoteCommandFailure(err error) bool {
	var rce *RemoteCommandError
	return errors.As(err, &rce)
}
