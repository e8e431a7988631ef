// Package logging assembles the structured slog loggers used across snapsort.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes small attr helpers so stage code emits log lines with
// a consistent shape. A no-op logger is provided for tests and wiring code
// that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// logs with the same format and routing.
package logging
