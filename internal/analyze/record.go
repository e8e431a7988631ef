package analyze

import (
	"fmt"
	"time"
)

// DateSource identifies which probe resolved a record's capture date.
type DateSource string

const (
	DateSourceEXIFOriginal DateSource = "exif_original"
	DateSourceEXIFCreated  DateSource = "exif_created"
	DateSourceFilename     DateSource = "filename"
	DateSourceModTime      DateSource = "mtime"
)

// Date is a plain calendar date. The destination hierarchy is date-based, so
// time of day and zone are deliberately dropped at resolution time.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf reduces a timestamp to its calendar date in local time.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Coordinate is a geographic position in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// FileRecord describes one analyzed source file.
type FileRecord struct {
	SourcePath  string
	Fingerprint string
	Size        int64
	CaptureDate Date
	DateSource  DateSource
	Coordinate  *Coordinate

	// Assigned after clustering; ClusterID is -1 for noise or when
	// clustering is disabled.
	ClusterID    int
	LocationName string

	// Derived by the writer from date and location.
	TargetPath string
}

// Failure records a per-file analysis error.
type Failure struct {
	Path   string
	Reason string
}
