// Package hetzner implements the provider abstraction on Hetzner Cloud
// using the official hcloud-go SDK.
//
// Servers boot ubuntu-24.04 with a generated cloud-init script that installs
// the Claude Code agent, configures an nginx preview proxy, applies the
// requested hardening level, and drops the setup-completion marker. Agent
// credentials are never embedded in the cloud-init payload.
package hetzner
