// Package provider defines the cloud provider abstraction consumed by the
// lifecycle orchestrator: instance creation and destruction, status lookup,
// reachability waiting, and size/region catalogs.
//
// One implementation exists (Hetzner Cloud, see the hetzner subpackage).
// New providers are added as new implementations of [Provider], never by
// branching on a provider tag inside shared logic.
package provider
