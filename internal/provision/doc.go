// Package provision is the instance lifecycle orchestrator. It sequences
// credential preparation, server creation, reachability and bootstrap
// polling, project persistence, and credential transfer, and owns the
// ordering guarantees between them: credentials are validated before any
// cloud resource exists, the project record lands before setup completes so
// partial instances stay destroyable, and destruction removes the record
// only after the provider confirms deletion.
package provision
