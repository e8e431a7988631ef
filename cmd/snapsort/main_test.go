package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"snapsort/internal/analyze"
	"snapsort/internal/index"
	"snapsort/internal/pipeline"
	"snapsort/internal/testsupport"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapsort.toml")
	content := "[organize]\njobs = 1\n\n[logging]\nformat = \"json\"\nlevel = \"error\"\n"
	testsupport.WriteFileContent(t, path, []byte(content))
	return path
}

func TestHashCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	testsupport.WriteFileContent(t, path, []byte("pixels"))

	out, err := execute(t, "--config", writeTestConfig(t), "hash", path)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	fields := strings.Fields(out)
	if len(fields) != 2 || len(fields[0]) != 64 || fields[1] != path {
		t.Fatalf("unexpected hash output: %q", out)
	}
}

func TestHashCommandRejectsDirectoryWithoutRecursive(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "--config", writeTestConfig(t), "hash", dir); err == nil {
		t.Fatal("expected error for directory without --recursive")
	}
}

func TestHashCommandRecursive(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFileContent(t, filepath.Join(dir, "a.jpg"), []byte("a"))
	testsupport.WriteFileContent(t, filepath.Join(dir, "sub", "b.png"), []byte("b"))
	testsupport.WriteFileContent(t, filepath.Join(dir, "skip.txt"), []byte("c"))

	out, err := execute(t, "--config", writeTestConfig(t), "hash", "--recursive", dir)
	if err != nil {
		t.Fatalf("hash --recursive: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 hashed photos, got %d lines: %q", len(lines), out)
	}
}

func TestOrganizeCommandDryRun(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	testsupport.WriteFileContent(t, filepath.Join(source, "trip_20240212.jpg"), []byte("alpha"))

	out, err := execute(t, "--config", writeTestConfig(t), "organize", "--dry-run", source, dest)
	if err != nil {
		t.Fatalf("organize --dry-run: %v", err)
	}
	if !strings.Contains(out, "dry run") {
		t.Fatalf("summary should mention dry run: %q", out)
	}
	if _, err := os.Stat(filepath.Join(dest, "2024")); !os.IsNotExist(err) {
		t.Fatal("dry run must not create the destination tree")
	}
}

func TestOrganizeCommandEndToEnd(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	testsupport.WriteFileContent(t, filepath.Join(source, "trip_20240212.jpg"), []byte("alpha"))

	out, err := execute(t, "--config", writeTestConfig(t), "organize", source, dest)
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	if !strings.Contains(out, "Organized") {
		t.Fatalf("expected summary table, got %q", out)
	}
	if _, err := os.Stat(filepath.Join(dest, "2024", "02", "12", "trip_20240212.jpg")); err != nil {
		t.Fatalf("expected organized file: %v", err)
	}
}

func TestIndexCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")
	idx := index.New()
	if err := idx.Insert(index.Entry{
		Fingerprint: strings.Repeat("ab", 32),
		TargetPath:  "/photos/2024/02/12/trip.jpg",
		SourcePath:  "/import/trip.jpg",
		RecordedAt:  time.Now().UTC(),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := idx.SaveAtomic(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := execute(t, "--config", writeTestConfig(t), "index", path)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if !strings.Contains(out, "abababababababab") || !strings.Contains(out, "trip.jpg") {
		t.Fatalf("unexpected index listing: %q", out)
	}
}

func TestClusterCommandNoGeotags(t *testing.T) {
	source := t.TempDir()
	testsupport.WriteFileContent(t, filepath.Join(source, "a_20240101.jpg"), []byte("one"))

	out, err := execute(t, "--config", writeTestConfig(t), "cluster", source)
	if err != nil {
		t.Fatalf("cluster: %v", err)
	}
	if !strings.Contains(out, "no location clusters") {
		t.Fatalf("expected empty-cluster notice, got %q", out)
	}
}

func TestConfigValidateCommand(t *testing.T) {
	out, err := execute(t, "--config", writeTestConfig(t), "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "valid") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "conf", "snapsort.toml")
	out, err := execute(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output should name the target path: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, err := execute(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected refusal to overwrite without --overwrite")
	}
	if _, err := execute(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestSummaryTableIncludesFailures(t *testing.T) {
	s := &pipeline.Summary{RunID: "test-run", Scanned: 3, Analyzed: 2, Organized: 2}
	s.Failures = append(s.Failures, analyze.Failure{Path: "/import/broken.jpg", Reason: "hash: io error"})

	out := summaryTable(s)
	if !strings.Contains(out, "test-run") {
		t.Fatalf("table should carry the run id: %q", out)
	}
	if !strings.Contains(out, "/import/broken.jpg") {
		t.Fatalf("table should list failures: %q", out)
	}
}
