package gazetteer

import (
	"fmt"
	"math"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SanitizeName turns a place name into a directory-safe component: ASCII
// transliteration, title case, and underscores for everything a filesystem
// might object to.
func SanitizeName(name string) string {
	ascii := unidecode.Unidecode(name)
	titled := cases.Title(language.Und).String(strings.TrimSpace(ascii))

	var b strings.Builder
	b.Grow(len(titled))
	lastUnderscore := false
	for _, r := range titled {
		safe := r == '-' ||
			(r >= '0' && r <= '9') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= 'a' && r <= 'z')
		if safe {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// FallbackName derives a stable name from coordinates, e.g. "48.86N_2.35E".
// Two decimal places is roughly a kilometer of precision, enough to keep
// nearby shots together without pretending to know the place.
func FallbackName(lat, lon float64) string {
	ns := byte('N')
	if lat < 0 {
		ns = 'S'
	}
	ew := byte('E')
	if lon < 0 {
		ew = 'W'
	}
	return fmt.Sprintf("%.2f%c_%.2f%c", math.Abs(lat), ns, math.Abs(lon), ew)
}
