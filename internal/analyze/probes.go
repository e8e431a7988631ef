package analyze

import (
	"regexp"
	"strconv"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifTimeLayout is the EXIF date format "YYYY:MM:DD HH:MM:SS".
const exifTimeLayout = "2006:01:02 15:04:05"

// filenameDatePattern matches an eight-digit YYYYMMDD run bounded by
// non-digits, restricted to plausible photo years.
var filenameDatePattern = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{6})(?:\D|$)`)

// exifDate extracts one date field from decoded EXIF metadata.
func exifDate(x *exif.Exif, field exif.FieldName) (Date, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return Date{}, false
	}
	value, err := tag.StringVal()
	if err != nil {
		return Date{}, false
	}
	parsed, err := time.Parse(exifTimeLayout, value)
	if err != nil {
		return Date{}, false
	}
	return DateOf(parsed), true
}

// DateFromFilename extracts a YYYYMMDD date embedded in a file name. The
// digits must form a real calendar date; 20241340 does not count.
func DateFromFilename(name string) (Date, bool) {
	match := filenameDatePattern.FindStringSubmatch(name)
	if match == nil {
		return Date{}, false
	}
	digits := match[1]
	year, _ := strconv.Atoi(digits[:4])
	month, _ := strconv.Atoi(digits[4:6])
	day, _ := strconv.Atoi(digits[6:8])

	parsed := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if parsed.Year() != year || int(parsed.Month()) != month || parsed.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, true
}

// coordinateFromEXIF pulls a GPS position out of decoded metadata. Absence
// is normal, not an error.
func coordinateFromEXIF(x *exif.Exif) *Coordinate {
	lat, lon, err := x.LatLong()
	if err != nil {
		return nil
	}
	if lat == 0 && lon == 0 {
		// Cameras without a fix frequently write zeroed GPS tags.
		return nil
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil
	}
	return &Coordinate{Lat: lat, Lon: lon}
}
