package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"snapsort/internal/analyze"
	"snapsort/internal/cluster"
	"snapsort/internal/config"
	"snapsort/internal/gazetteer"
	"snapsort/internal/index"
	"snapsort/internal/logging"
	"snapsort/internal/stage"
	"snapsort/internal/walker"
	"snapsort/internal/writer"
)

// Options selects the source, destination, and per-run overrides.
type Options struct {
	Source         string
	Dest           string
	IndexPath      string // empty selects {dest}/{index_filename}
	Jobs           int    // 0 falls back to the configured pool size
	WithClustering bool
	DryRun         bool

	// Progress hooks for interactive frontends. Both are optional;
	// OnAnalyzeProgress must be safe for concurrent use.
	OnAnalyzeStart    func(total int)
	OnAnalyzeProgress func(n int)
}

// Orchestrator runs the organization pipeline over one source tree.
type Orchestrator struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger
}

// New builds an orchestrator. Options override the corresponding config
// values for this run only.
func New(cfg *config.Config, opts Options, logger *slog.Logger) *Orchestrator {
	if opts.Jobs == 0 {
		opts.Jobs = cfg.Organize.Jobs
	}
	opts.WithClustering = opts.WithClustering || cfg.Organize.WithClustering
	if opts.IndexPath == "" {
		opts.IndexPath = filepath.Join(opts.Dest, cfg.Organize.IndexFilename)
	}
	return &Orchestrator{
		cfg:    cfg,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run executes the full pipeline and returns the run summary. The summary is
// populated even when the run fails, up to the phase that stopped it.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.NewString(),
		DryRun:    o.opts.DryRun,
		StartedAt: time.Now(),
	}
	logger := o.logger.With(logging.String("run_id", summary.RunID))
	logger.Info("starting run",
		logging.String("source", o.opts.Source),
		logging.String("dest", o.opts.Dest),
		logging.Bool("dry_run", o.opts.DryRun))

	err := o.run(ctx, logger, summary)
	summary.Elapsed = time.Since(summary.StartedAt)
	if err != nil {
		summary.Phase = PhaseFailed
		logger.Error("run failed", logging.String("phase", string(summary.Phase)), logging.Error(err))
		return summary, err
	}
	summary.Phase = PhaseDone
	logger.Info("run complete",
		logging.Int("organized", summary.Organized),
		logging.Int("duplicates", summary.Duplicates),
		logging.Int("failed", summary.Failed()),
		logging.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

func (o *Orchestrator) run(ctx context.Context, logger *slog.Logger, summary *Summary) error {
	// Dry runs write nothing, index included, so they take no lock and
	// leave no lock file behind in the destination.
	if !o.opts.DryRun {
		runLock := flock.New(o.opts.IndexPath + ".lock")
		ok, err := runLock.TryLock()
		if err != nil {
			return stage.Wrap(stage.ErrValidation, "pipeline", "lock", "acquire run lock", err)
		}
		if !ok {
			return stage.Wrap(stage.ErrValidation, "pipeline", "lock",
				"another run is already organizing into this destination", nil)
		}
		defer func() { _ = runLock.Unlock() }()
	}

	summary.Phase = PhaseLoadingIndex
	idx, err := index.Load(o.opts.IndexPath)
	if err != nil {
		return err
	}
	logger.Info("index loaded", logging.Int("entries", idx.Len()))

	summary.Phase = PhaseScanning
	paths, err := walker.New(logger).Scan(ctx, o.opts.Source)
	if err != nil {
		return err
	}
	summary.Scanned = len(paths)
	logger.Info("scan complete", logging.Int("files", len(paths)))

	summary.Phase = PhaseAnalyzing
	if o.opts.OnAnalyzeStart != nil {
		o.opts.OnAnalyzeStart(len(paths))
	}
	analyzer := analyze.New(o.opts.Jobs, logger)
	analyzer.Progress = o.opts.OnAnalyzeProgress
	records, failures, err := analyzer.Analyze(ctx, paths)
	if err != nil {
		return err
	}
	summary.Analyzed = len(records)
	summary.Failures = append(summary.Failures, failures...)

	records, duplicates := o.dedupe(idx, records)
	summary.Duplicates = duplicates
	logger.Info("analysis complete",
		logging.Int("records", len(records)),
		logging.Int("duplicates", duplicates),
		logging.Int("failed", len(failures)))

	if o.opts.WithClustering {
		summary.Phase = PhaseClustering
		if err := o.clusterRecords(ctx, logger, records, summary); err != nil {
			return err
		}
	}

	summary.Phase = PhaseOrganizing
	var requiredBytes uint64
	for i := range records {
		requiredBytes += uint64(records[i].Size)
	}
	if !o.opts.DryRun {
		if err := writer.Preflight(o.opts.Dest, requiredBytes); err != nil {
			return err
		}
	}

	summary.Phase = PhaseWriting
	if err := o.writeRecords(ctx, logger, idx, records, summary); err != nil {
		return err
	}

	summary.Phase = PhasePersistingIndex
	if !o.opts.DryRun {
		if err := idx.SaveAtomic(o.opts.IndexPath); err != nil {
			return err
		}
	}
	return nil
}

// dedupe drops records whose fingerprint is already in the index or appeared
// earlier in this run. Input order is preserved, so the first occurrence of
// duplicated content is the one that gets organized.
func (o *Orchestrator) dedupe(idx *index.Index, records []analyze.FileRecord) ([]analyze.FileRecord, int) {
	seen := make(map[string]struct{}, len(records))
	kept := records[:0]
	duplicates := 0
	for _, record := range records {
		if idx.Contains(record.Fingerprint) {
			duplicates++
			continue
		}
		if _, inRun := seen[record.Fingerprint]; inRun {
			duplicates++
			continue
		}
		seen[record.Fingerprint] = struct{}{}
		kept = append(kept, record)
	}
	return kept, duplicates
}

func (o *Orchestrator) clusterRecords(ctx context.Context, logger *slog.Logger, records []analyze.FileRecord, summary *Summary) error {
	clusters := cluster.New(o.cfg.Cluster.EpsilonKM, o.cfg.Cluster.MinPoints, logger).Assign(records)
	for i := range records {
		if records[i].ClusterID >= 0 {
			summary.Clustered++
		} else if records[i].Coordinate != nil {
			summary.Noise++
		}
	}
	if len(clusters) == 0 {
		return nil
	}

	gazetteerPath, err := config.ExpandPath(o.cfg.Cluster.GazetteerPath)
	if err != nil {
		return stage.Wrap(stage.ErrValidation, "pipeline", "gazetteer", "resolve path", err)
	}
	store, err := gazetteer.Open(gazetteerPath, logger)
	if err != nil {
		return stage.Wrap(stage.ErrValidation, "pipeline", "gazetteer", "open store", err)
	}
	defer store.Close()

	names := make(map[int]string, len(clusters))
	for _, c := range clusters {
		name, err := store.ResolveName(ctx, c.Centroid.Lat, c.Centroid.Lon, o.cfg.Cluster.MaxPlaceDistanceKM)
		if err != nil {
			return stage.Wrap(stage.ErrValidation, "pipeline", "gazetteer",
				fmt.Sprintf("resolve name for cluster %d", c.ID), err)
		}
		names[c.ID] = name
		logger.Info("cluster located",
			logging.Int("cluster", c.ID),
			logging.Int("members", len(c.Members)),
			logging.String("location", name))
	}
	for i := range records {
		if name, ok := names[records[i].ClusterID]; ok {
			records[i].LocationName = name
		}
	}
	return nil
}

func (o *Orchestrator) writeRecords(ctx context.Context, logger *slog.Logger, idx *index.Index, records []analyze.FileRecord, summary *Summary) error {
	w := writer.New(o.opts.Dest, writer.Options{
		MaxAttempts: o.cfg.Transfer.MaxAttempts,
		RetryBase:   time.Duration(o.cfg.Transfer.RetryBaseMS) * time.Millisecond,
		RetryMax:    time.Duration(o.cfg.Transfer.RetryMaxMS) * time.Millisecond,
		Verify:      o.cfg.Transfer.VerifyAfterWrite,
		DryRun:      o.opts.DryRun,
	}, logger)

	for i := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		record := &records[i]
		result, err := w.Place(ctx, record)
		if err != nil {
			if stage.IsFatal(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			summary.Failures = append(summary.Failures, analyze.Failure{
				Path:   record.SourcePath,
				Reason: err.Error(),
			})
			continue
		}

		summary.Organized++
		summary.BytesCopied += result.Bytes
		if o.opts.DryRun {
			continue
		}
		// The index only learns about content that is confirmed on disk.
		if err := idx.Insert(index.Entry{
			Fingerprint: record.Fingerprint,
			TargetPath:  record.TargetPath,
			SourcePath:  record.SourcePath,
			RecordedAt:  time.Now().UTC(),
		}); err != nil {
			logger.Warn("index insert rejected",
				logging.String("fingerprint", record.Fingerprint),
				logging.Error(err))
		}
	}
	return nil
}
