package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"snapsort/internal/stage"
)

const formatVersion = 1

// Entry records where a fingerprint's content was placed.
type Entry struct {
	Fingerprint string    `json:"fingerprint"`
	TargetPath  string    `json:"target_path"`
	SourcePath  string    `json:"source_path"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type envelope struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// Index is the in-memory fingerprint mapping. It is not safe for concurrent
// use; the orchestrator is its single writer.
type Index struct {
	entries map[string]Entry
}

// New returns an empty index.
func New() *Index {
	return &Index{entries: make(map[string]Entry)}
}

// Load reads a persisted index. A missing file yields an empty index. A
// present but unreadable or malformed file is fatal: proceeding would make
// every archived file look new again.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, stage.Wrap(stage.ErrCorruptIndex, "index", "load", path, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, stage.Wrap(stage.ErrCorruptIndex, "index", "load", fmt.Sprintf("%s: malformed index", path), err)
	}
	if env.Version != formatVersion {
		return nil, stage.Wrap(stage.ErrCorruptIndex, "index", "load",
			fmt.Sprintf("%s: unsupported index version %d", path, env.Version), nil)
	}

	idx := New()
	for fingerprint, entry := range env.Entries {
		if fingerprint == "" {
			continue
		}
		entry.Fingerprint = fingerprint
		idx.entries[fingerprint] = entry
	}
	return idx, nil
}

// Contains reports whether a fingerprint is already indexed. In-memory only.
func (i *Index) Contains(fingerprint string) bool {
	_, ok := i.entries[fingerprint]
	return ok
}

// Get returns the entry for a fingerprint.
func (i *Index) Get(fingerprint string) (Entry, bool) {
	entry, ok := i.entries[fingerprint]
	return entry, ok
}

// Insert adds an entry. First writer wins: inserting an already-present
// fingerprint is a caller bug, not an overwrite.
func (i *Index) Insert(entry Entry) error {
	if entry.Fingerprint == "" {
		return errors.New("index: empty fingerprint")
	}
	if _, exists := i.entries[entry.Fingerprint]; exists {
		return fmt.Errorf("index: fingerprint %s already present", entry.Fingerprint)
	}
	i.entries[entry.Fingerprint] = entry
	return nil
}

// Len returns the number of entries.
func (i *Index) Len() int {
	return len(i.entries)
}

// Entries returns all entries sorted by fingerprint.
func (i *Index) Entries() []Entry {
	out := make([]Entry, 0, len(i.entries))
	for _, entry := range i.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Fingerprint < out[b].Fingerprint })
	return out
}

// SaveAtomic serializes the index next to its final location and renames it
// into place. A reader observes either the fully-prior or fully-new file.
// On failure the previous index on disk is left untouched.
func (i *Index) SaveAtomic(path string) error {
	env := envelope{Version: formatVersion, Entries: i.entries}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return stage.Wrap(stage.ErrIndexPersist, "index", "save", "encode", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return stage.Wrap(stage.ErrIndexPersist, "index", "save", "create parent directory", err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return stage.Wrap(stage.ErrIndexPersist, "index", "save", "create temp file", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return stage.Wrap(stage.ErrIndexPersist, "index", "save", "write temp file", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return stage.Wrap(stage.ErrIndexPersist, "index", "save", "sync temp file", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return stage.Wrap(stage.ErrIndexPersist, "index", "save", "close temp file", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return stage.Wrap(stage.ErrIndexPersist, "index", "save", "rename into place", err)
	}
	return nil
}
