// Package retry provides retry and polling primitives for failure-prone
// remote operations.
//
// [WithExponentialBackoff] retries an operation with configurable max
// attempts, initial delay, and maximum delay. It is used for Hetzner Cloud
// API calls that may fail transiently.
//
// [Poll] repeatedly runs a probe at a fixed interval until it reports
// readiness or a deadline elapses. Both the SSH reachability wait and the
// remote setup-completion wait during provisioning are built on it.
package retry
