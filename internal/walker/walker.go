package walker

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"snapsort/internal/logging"
)

// photoExtensions is the fixed set of recognized photo file extensions,
// matched case-insensitively.
var photoExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".tif":  {},
	".tiff": {},
	".bmp":  {},
	".webp": {},
	".heic": {},
	".heif": {},
	".raw":  {},
	".cr2":  {},
	".nef":  {},
	".arw":  {},
	".dng":  {},
}

// IsPhotoFile reports whether a path carries a recognized photo extension.
func IsPhotoFile(path string) bool {
	_, ok := photoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Walker discovers candidate files at the source.
type Walker struct {
	logger *slog.Logger
}

// New constructs a walker.
func New(logger *slog.Logger) *Walker {
	return &Walker{logger: logging.NewComponentLogger(logger, "walker")}
}

// Scan traverses the source root depth-first and returns candidate paths in
// a stable lexicographic order. Unreadable directories are logged and
// skipped. The walk stops early if ctx is cancelled.
func (w *Walker) Scan(ctx context.Context, root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			// Root errors abort; anything deeper is skipped.
			if path == root {
				return walkErr
			}
			w.logger.Warn("skipping unreadable entry", logging.String("path", path), logging.Error(walkErr))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			// WalkDir does not follow symlinks; skipping the entry itself
			// keeps link targets out of the run entirely.
			w.logger.Debug("skipping symlink", logging.String("path", path))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if IsPhotoFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.logger.Debug("scan complete", logging.String("root", root), logging.Int("candidates", len(paths)))
	return paths, nil
}
