package analyze

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/rwcarlsen/goexif/exif"

	"snapsort/internal/fileutil"
	"snapsort/internal/logging"
)

// Analyzer computes FileRecords for discovered paths using a fixed-size
// worker pool.
type Analyzer struct {
	jobs   int
	logger *slog.Logger

	// Progress, when set, is called once per finished path. It must be safe
	// for concurrent use; workers call it directly.
	Progress func(n int)
}

// New constructs an analyzer. jobs <= 0 means one worker per CPU.
func New(jobs int, logger *slog.Logger) *Analyzer {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &Analyzer{jobs: jobs, logger: logging.NewComponentLogger(logger, "analyze")}
}

type task struct {
	idx  int
	path string
}

type outcome struct {
	record  FileRecord
	failure *Failure
}

// Analyze maps paths to records in parallel. Output order matches input
// order regardless of worker completion order. Per-file errors land in the
// returned failure list; only context cancellation aborts.
func (a *Analyzer) Analyze(ctx context.Context, paths []string) ([]FileRecord, []Failure, error) {
	if len(paths) == 0 {
		return nil, nil, nil
	}

	results := make([]outcome, len(paths))
	tasks := make(chan task)

	var wg sync.WaitGroup
	for w := 0; w < a.jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tk := range tasks {
				results[tk.idx] = a.analyzeOne(tk.path)
				if a.Progress != nil {
					a.Progress(1)
				}
			}
		}()
	}

	var ctxErr error
feed:
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break feed
		}
		select {
		case tasks <- task{idx: i, path: path}:
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		}
	}
	close(tasks)
	wg.Wait()

	if ctxErr != nil {
		return nil, nil, ctxErr
	}

	records := make([]FileRecord, 0, len(paths))
	var failures []Failure
	for _, res := range results {
		if res.failure != nil {
			failures = append(failures, *res.failure)
			continue
		}
		records = append(records, res.record)
	}
	return records, failures, nil
}

func (a *Analyzer) analyzeOne(path string) outcome {
	info, err := os.Stat(path)
	if err != nil {
		a.logger.Warn("skipping unreadable file", logging.String("path", path), logging.Error(err))
		return outcome{failure: &Failure{Path: path, Reason: "stat: " + err.Error()}}
	}

	fingerprint, err := fileutil.HashFile(path)
	if err != nil {
		a.logger.Warn("skipping unreadable file", logging.String("path", path), logging.Error(err))
		return outcome{failure: &Failure{Path: path, Reason: "hash: " + err.Error()}}
	}

	record := FileRecord{
		SourcePath:  path,
		Fingerprint: fingerprint,
		Size:        info.Size(),
		ClusterID:   -1,
	}

	// EXIF is best effort: many photo formats carry none, and a broken
	// header only removes the first two date probes.
	if x := decodeEXIF(path); x != nil {
		if date, ok := exifDate(x, exif.DateTimeOriginal); ok {
			record.CaptureDate = date
			record.DateSource = DateSourceEXIFOriginal
		} else if date, ok := exifDate(x, exif.DateTime); ok {
			record.CaptureDate = date
			record.DateSource = DateSourceEXIFCreated
		}
		record.Coordinate = coordinateFromEXIF(x)
	}

	if record.CaptureDate.IsZero() {
		if date, ok := DateFromFilename(filepath.Base(path)); ok {
			record.CaptureDate = date
			record.DateSource = DateSourceFilename
		} else {
			record.CaptureDate = DateOf(info.ModTime())
			record.DateSource = DateSourceModTime
		}
	}

	return outcome{record: record}
}

func decodeEXIF(path string) *exif.Exif {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil
	}
	return x
}
