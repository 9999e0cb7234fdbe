// Package store persists the project-to-instance mapping as a single JSON
// document under the user's clwd configuration directory.
//
// Every mutation is a full read-modify-write of the document, committed by
// writing a temporary file and atomically renaming it into place. Before
// each overwrite the prior document is snapshotted to a backup file; a
// bounded number of backups are retained, oldest pruned first. There is no
// in-process cache: every operation re-reads from disk, so concurrent CLI
// invocations observe last-writer-wins at the file level.
package store
