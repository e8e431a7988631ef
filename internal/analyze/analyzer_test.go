package analyze

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"snapsort/internal/logging"
	"snapsort/internal/testsupport"
)

func TestAnalyzeResolvesDateFromFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo_20240212.jpg")
	testsupport.WriteFile(t, path, 256)

	analyzer := New(2, logging.NewNop())
	records, failures, err := analyzer.Analyze(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.DateSource != DateSourceFilename {
		t.Fatalf("date source = %q, want %q", rec.DateSource, DateSourceFilename)
	}
	want := Date{2024, time.February, 12}
	if rec.CaptureDate != want {
		t.Fatalf("capture date = %v, want %v", rec.CaptureDate, want)
	}
	if rec.ClusterID != -1 {
		t.Fatalf("cluster id = %d, want -1", rec.ClusterID)
	}
	if len(rec.Fingerprint) != 64 {
		t.Fatalf("fingerprint length = %d, want 64", len(rec.Fingerprint))
	}
}

func TestAnalyzeFallsBackToModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holiday.jpg")
	testsupport.WriteFile(t, path, 128)
	mtime := time.Date(2023, time.June, 15, 10, 30, 0, 0, time.Local)
	testsupport.Touch(t, path, mtime)

	analyzer := New(1, logging.NewNop())
	records, _, err := analyzer.Analyze(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.DateSource != DateSourceModTime {
		t.Fatalf("date source = %q, want %q", rec.DateSource, DateSourceModTime)
	}
	want := Date{2023, time.June, 15}
	if rec.CaptureDate != want {
		t.Fatalf("capture date = %v, want %v", rec.CaptureDate, want)
	}
}

func TestAnalyzeOrderIndependentOfWorkerCount(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a_20240101.jpg", "b_20240102.jpg", "c_20240103.jpg", "d_20240104.jpg", "e_20240105.jpg"} {
		path := filepath.Join(dir, name)
		testsupport.WriteFile(t, path, 64)
		paths = append(paths, path)
	}

	var runs [][]FileRecord
	for _, jobs := range []int{1, 2, 8} {
		analyzer := New(jobs, logging.NewNop())
		records, failures, err := analyzer.Analyze(context.Background(), paths)
		if err != nil {
			t.Fatalf("Analyze with %d jobs: %v", jobs, err)
		}
		if len(failures) != 0 {
			t.Fatalf("unexpected failures with %d jobs: %v", jobs, failures)
		}
		runs = append(runs, records)
	}

	for i := 1; i < len(runs); i++ {
		if !reflect.DeepEqual(runs[0], runs[i]) {
			t.Fatalf("results differ between worker counts:\n%v\n%v", runs[0], runs[i])
		}
	}
	for i, rec := range runs[0] {
		if rec.SourcePath != paths[i] {
			t.Fatalf("record %d path = %q, want %q", i, rec.SourcePath, paths[i])
		}
	}
}

func TestAnalyzeCollectsFailuresForMissingFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good_20240101.jpg")
	testsupport.WriteFile(t, good, 64)
	missing := filepath.Join(dir, "missing.jpg")

	analyzer := New(2, logging.NewNop())
	records, failures, err := analyzer.Analyze(context.Background(), []string{good, missing})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(records) != 1 || records[0].SourcePath != good {
		t.Fatalf("expected only the readable file in records, got %v", records)
	}
	if len(failures) != 1 || failures[0].Path != missing {
		t.Fatalf("expected one failure for %q, got %v", missing, failures)
	}
}

func TestAnalyzeProgressCallback(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 4; i++ {
		path := filepath.Join(dir, filepath.Base(dir)+string(rune('a'+i))+".jpg")
		testsupport.WriteFile(t, path, 32)
		paths = append(paths, path)
	}

	analyzer := New(1, logging.NewNop())
	var ticks int
	analyzer.Progress = func(n int) { ticks += n }

	if _, _, err := analyzer.Analyze(context.Background(), paths); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if ticks != len(paths) {
		t.Fatalf("progress ticks = %d, want %d", ticks, len(paths))
	}
}

func TestAnalyzeHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 16; i++ {
		path := filepath.Join(dir, "img_"+string(rune('a'+i))+".jpg")
		testsupport.WriteFile(t, path, 32)
		paths = append(paths, path)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := New(1, logging.NewNop())
	if _, _, err := analyzer.Analyze(ctx, paths); err == nil {
		t.Fatal("expected cancellation error")
	}

	if _, err := os.Stat(paths[0]); err != nil {
		t.Fatalf("source files must be untouched: %v", err)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	analyzer := New(0, logging.NewNop())
	records, failures, err := analyzer.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if records != nil || failures != nil {
		t.Fatalf("expected nil results for empty input, got %v / %v", records, failures)
	}
}
