package writer

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"snapsort/internal/stage"
)

// Preflight verifies the destination root before any file is moved: the
// directory must exist or be creatable, be writable, and the filesystem must
// have room for requiredBytes. Failures here abort the run.
func Preflight(destRoot string, requiredBytes uint64) error {
	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return stage.Wrap(stage.ErrDestinationUnavailable, "writer", "preflight",
			"create destination root", err)
	}

	if err := unix.Access(destRoot, unix.W_OK|unix.X_OK); err != nil {
		return stage.Wrap(stage.ErrDestinationUnavailable, "writer", "preflight",
			fmt.Sprintf("destination %s is not writable", destRoot), err)
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(destRoot, &stat); err != nil {
		return stage.Wrap(stage.ErrDestinationUnavailable, "writer", "preflight",
			fmt.Sprintf("statfs %s", destRoot), err)
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < requiredBytes {
		return stage.Wrap(stage.ErrDestinationUnavailable, "writer", "preflight",
			fmt.Sprintf("insufficient space: need %d bytes, %d free", requiredBytes, free), nil)
	}
	return nil
}
