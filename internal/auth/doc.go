// Package auth prepares Claude Code credential material for transfer to a
// freshly provisioned instance.
//
// Credentials come from two local sources: the macOS keychain entry written
// by the Claude Code CLI, and the ~/.claude.json session file. On other
// platforms the keychain step is skipped and only the session file is used.
// The prepared bundle is transferred over scp after the instance finishes
// its bootstrap; it is never embedded in cloud-init user data.
package auth
