package pipeline

import (
	"time"

	"snapsort/internal/analyze"
)

// Phase identifies the orchestrator's position in the run.
type Phase string

const (
	PhaseLoadingIndex    Phase = "loading-index"
	PhaseScanning        Phase = "scanning"
	PhaseAnalyzing       Phase = "analyzing"
	PhaseClustering      Phase = "clustering"
	PhaseOrganizing      Phase = "organizing"
	PhaseWriting         Phase = "writing"
	PhasePersistingIndex Phase = "persisting-index"
	PhaseDone            Phase = "done"
	PhaseFailed          Phase = "failed"
)

// Summary aggregates the outcome of one run.
type Summary struct {
	RunID     string
	Phase     Phase
	DryRun    bool
	StartedAt time.Time
	Elapsed   time.Duration

	Scanned    int
	Analyzed   int
	Duplicates int
	Organized  int
	Clustered  int
	Noise      int

	BytesCopied int64
	Failures    []analyze.Failure
}

// Failed reports how many files could not be processed.
func (s *Summary) Failed() int {
	return len(s.Failures)
}
