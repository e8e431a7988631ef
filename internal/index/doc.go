// Package index persists the fingerprint-to-destination mapping that makes
// organization runs idempotent.
//
// The index is a single JSON file kept under the destination root. It is
// loaded fully into memory at the start of a run, mutated only by the
// orchestrator after a confirmed write, and persisted exactly once per run
// via an atomic temp-file-and-rename so a crash can never leave a partial
// index on disk. A present-but-unreadable file is a fatal condition; the run
// must not proceed and silently re-copy an entire archive.
package index
