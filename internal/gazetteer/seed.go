package gazetteer

import (
	"bufio"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
)

//go:embed data/cities.tsv
var embeddedCities string

// Column layout of the GeoNames "geoname" table dump.
const (
	colName       = 1
	colLatitude   = 4
	colLongitude  = 5
	colCountry    = 8
	colPopulation = 14
	minColumns    = 15
)

// parseCityData reads a GeoNames-format tab-separated dump. Blank lines and
// comment lines are skipped; a malformed data line is an error rather than a
// silent gap in coverage.
func parseCityData(data string) ([]Place, error) {
	var places []Place
	scanner := bufio.NewScanner(strings.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		place, err := parseCityLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		places = append(places, place)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read city data: %w", err)
	}
	return places, nil
}

func parseCityLine(line string) (Place, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < minColumns {
		return Place{}, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(fields))
	}

	name := strings.TrimSpace(fields[colName])
	if name == "" {
		return Place{}, fmt.Errorf("empty place name")
	}
	lat, err := strconv.ParseFloat(fields[colLatitude], 64)
	if err != nil {
		return Place{}, fmt.Errorf("parse latitude %q: %w", fields[colLatitude], err)
	}
	lon, err := strconv.ParseFloat(fields[colLongitude], 64)
	if err != nil {
		return Place{}, fmt.Errorf("parse longitude %q: %w", fields[colLongitude], err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Place{}, fmt.Errorf("coordinates out of range: %f, %f", lat, lon)
	}

	population := int64(0)
	if raw := strings.TrimSpace(fields[colPopulation]); raw != "" {
		population, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Place{}, fmt.Errorf("parse population %q: %w", raw, err)
		}
	}

	return Place{
		Name:       name,
		Country:    strings.TrimSpace(fields[colCountry]),
		Lat:        lat,
		Lon:        lon,
		Population: population,
	}, nil
}
