// Package pipeline drives one organization run end to end: load the
// fingerprint index, scan the source tree, analyze files in parallel,
// optionally cluster by location, copy into the destination layout, and
// persist the updated index. Phases run strictly in order; a fatal
// infrastructure error stops the run, while per-file problems are collected
// into the summary and the run continues.
package pipeline
