// Package analyze turns discovered paths into FileRecords: a content
// fingerprint, a resolved capture date, and an optional GPS coordinate.
//
// The stage is a data-parallel map over the path list. A fixed-size worker
// pool processes paths independently with no shared mutable state; each
// worker writes into its own result slot, so output order matches input
// order regardless of completion order. Files that cannot be read or parsed
// are recorded as failures and never abort the run.
//
// Date resolution is an ordered chain of independent probes, first match
// wins: EXIF DateTimeOriginal, EXIF DateTime, a YYYYMMDD pattern in the
// filename, and finally the file's modification time, which always answers.
package analyze
