// Package remote runs commands on provisioned instances over the system ssh
// and scp binaries.
//
// The process-based transport (rather than an in-process SSH library) is
// deliberate: interactive sessions hand the user's real terminal to ssh, and
// one-shot commands reuse the exact same option set, key discovery, and
// known-hosts behavior the interactive path gets.
//
// Sessions are keyed by (address, user) in an explicit [SessionCache] owned
// by the caller, so it can be invalidated after instance-identity-affecting
// events and injected fresh per test scenario.
package remote
