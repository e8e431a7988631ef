package writer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"snapsort/internal/analyze"
	"snapsort/internal/fileutil"
	"snapsort/internal/logging"
	"snapsort/internal/stage"
)

// Writer copies records to their computed destinations.
type Writer struct {
	destRoot    string
	maxAttempts int
	retryBase   time.Duration
	retryMax    time.Duration
	verify      bool
	dryRun      bool
	logger      *slog.Logger

	// sleep and copy are replaceable so retry tests can induce transient
	// failures without waiting out real backoff.
	sleep func(context.Context, time.Duration) error
	copy  func(src, dst, wantHex string) error
}

// Options configures a Writer.
type Options struct {
	MaxAttempts int
	RetryBase   time.Duration
	RetryMax    time.Duration
	// Verify re-hashes each destination copy against the source
	// fingerprint. Size is always checked.
	Verify bool
	DryRun bool
}

// Result reports what one Place call did.
type Result struct {
	TargetPath string
	Attempts   int
	Skipped    bool // destination already held identical content
	Bytes      int64
}

// New constructs a writer rooted at destRoot.
func New(destRoot string, opts Options, logger *slog.Logger) *Writer {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = 100 * time.Millisecond
	}
	if opts.RetryMax < opts.RetryBase {
		opts.RetryMax = opts.RetryBase
	}
	return &Writer{
		destRoot:    destRoot,
		maxAttempts: opts.MaxAttempts,
		retryBase:   opts.RetryBase,
		retryMax:    opts.RetryMax,
		verify:      opts.Verify,
		dryRun:      opts.DryRun,
		logger:      logging.NewComponentLogger(logger, "writer"),
		sleep:       sleepCtx,
		copy:        fileutil.CopyFileVerified,
	}
}

// TargetPath computes the destination for a record:
// {dest}/{YYYY}/{MM}/{DD}/[{location}/]{filename}. The original filename is
// kept byte for byte; only location names are sanitized, and that happens
// upstream in the gazetteer.
func TargetPath(destRoot string, record analyze.FileRecord) string {
	date := record.CaptureDate
	dir := filepath.Join(destRoot,
		fmt.Sprintf("%04d", date.Year),
		fmt.Sprintf("%02d", int(date.Month)),
		fmt.Sprintf("%02d", date.Day))
	if record.LocationName != "" {
		dir = filepath.Join(dir, record.LocationName)
	}
	return filepath.Join(dir, filepath.Base(record.SourcePath))
}

// Place copies one record to its target path, retrying transient copy
// failures. The record's TargetPath field is set either way. A destination
// that already holds identical content counts as success without a copy.
func (w *Writer) Place(ctx context.Context, record *analyze.FileRecord) (Result, error) {
	target := TargetPath(w.destRoot, *record)
	record.TargetPath = target
	result := Result{TargetPath: target}

	if w.dryRun {
		w.logger.Info("dry run, would copy",
			logging.String("source", record.SourcePath),
			logging.String("target", target))
		return result, nil
	}

	identical, err := w.matchesExisting(target, record)
	if err != nil {
		return result, err
	}
	if identical {
		result.Skipped = true
		w.logger.Debug("target already holds identical content",
			logging.String("target", target))
		return result, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return result, fmt.Errorf("create target directory: %w", err)
	}

	wantDigest := record.Fingerprint
	if !w.verify {
		wantDigest = ""
	}

	var lastErr error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		result.Attempts = attempt
		lastErr = w.copy(record.SourcePath, target, wantDigest)
		if lastErr == nil {
			result.Bytes = record.Size
			if attempt > 1 {
				w.logger.Info("copy succeeded after retry",
					logging.String("target", target),
					logging.Int("attempt", attempt))
			}
			return result, nil
		}

		w.logger.Warn("copy attempt failed",
			logging.String("source", record.SourcePath),
			logging.String("target", target),
			logging.Int("attempt", attempt),
			logging.Error(lastErr))
		if attempt == w.maxAttempts {
			break
		}
		if err := w.sleep(ctx, w.backoff(attempt)); err != nil {
			return result, err
		}
	}
	return result, stage.Wrap(stage.ErrTransient, "writer", "copy",
		fmt.Sprintf("giving up after %d attempts", result.Attempts), lastErr)
}

// matchesExisting reports whether target already exists with the record's
// size and fingerprint.
func (w *Writer) matchesExisting(target string, record *analyze.FileRecord) (bool, error) {
	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat target: %w", err)
	}
	if info.Size() != record.Size {
		return false, nil
	}
	sum, err := fileutil.HashFile(target)
	if err != nil {
		return false, fmt.Errorf("hash target: %w", err)
	}
	return sum == record.Fingerprint, nil
}

// backoff returns the delay before the next attempt: exponential from the
// base with 25% jitter, capped.
func (w *Writer) backoff(attempt int) time.Duration {
	delay := w.retryBase << (attempt - 1)
	if delay > w.retryMax {
		delay = w.retryMax
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/2+1)) - delay/4
	delay += jitter
	if delay < 0 {
		delay = 0
	}
	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
