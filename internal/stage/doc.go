// Package stage defines the failure taxonomy shared by pipeline stages.
//
// Errors carry one of the exported sentinel markers so the orchestrator can
// distinguish fatal infrastructure faults (corrupt index, unreachable
// destination) from per-file conditions that merely land in the failure
// report. Wrap attaches stage and operation context while preserving the
// marker for errors.Is checks.
package stage
