package gazetteer

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"snapsort/internal/logging"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "gazetteer.db"), logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenSeedsEmptyDatabase(t *testing.T) {
	store := openTestStore(t)
	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count == 0 {
		t.Fatal("expected embedded seed data, table is empty")
	}
}

func TestOpenDoesNotReseedExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gazetteer.db")

	store, err := Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	first, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	second, err := reopened.Count(context.Background())
	if err != nil {
		t.Fatalf("Count after reopen: %v", err)
	}
	if first != second {
		t.Fatalf("place count changed across reopen: %d then %d", first, second)
	}
}

func TestNearest(t *testing.T) {
	store := openTestStore(t)

	// A point in central Paris should resolve to Paris, not London.
	place, distance, err := store.Nearest(context.Background(), 48.8566, 2.3522)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if place == nil {
		t.Fatal("expected a nearest place")
	}
	if place.Name != "Paris" {
		t.Fatalf("nearest place = %q, want Paris", place.Name)
	}
	if distance > 5 {
		t.Fatalf("distance to Paris = %.1f km, expected under 5", distance)
	}
}

func TestResolveNameWithinRange(t *testing.T) {
	store := openTestStore(t)
	name, err := store.ResolveName(context.Background(), 51.51, -0.13, 50)
	if err != nil {
		t.Fatalf("ResolveName: %v", err)
	}
	if name != "London" {
		t.Fatalf("ResolveName = %q, want London", name)
	}
}

func TestResolveNameFallsBackWhenTooFar(t *testing.T) {
	store := openTestStore(t)

	// Middle of the South Atlantic: nothing within 50 km.
	name, err := store.ResolveName(context.Background(), -40.0, -20.0, 50)
	if err != nil {
		t.Fatalf("ResolveName: %v", err)
	}
	if name != "40.00S_20.00W" {
		t.Fatalf("ResolveName = %q, want coordinate fallback", name)
	}
}

func TestImportPlaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	before, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	err = store.ImportPlaces(ctx, []Place{
		{Name: "Testville", Country: "XX", Lat: 10, Lon: 10, Population: 42},
	})
	if err != nil {
		t.Fatalf("ImportPlaces: %v", err)
	}
	after, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if after != before+1 {
		t.Fatalf("count = %d, want %d", after, before+1)
	}

	place, _, err := store.Nearest(ctx, 10, 10)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if place == nil || place.Name != "Testville" {
		t.Fatalf("nearest = %+v, want Testville", place)
	}
}

func TestParseCityLine(t *testing.T) {
	line := strings.Join([]string{
		"2988507", "Paris", "Paris", "", "48.85341", "2.3488",
		"P", "PPLC", "FR", "", "", "", "", "", "2138551", "", "", "Europe/Paris", "2023-01-11",
	}, "\t")

	place, err := parseCityLine(line)
	if err != nil {
		t.Fatalf("parseCityLine: %v", err)
	}
	if place.Name != "Paris" || place.Country != "FR" || place.Population != 2138551 {
		t.Fatalf("unexpected place: %+v", place)
	}

	if _, err := parseCityLine("too\tfew\tcolumns"); err == nil {
		t.Fatal("expected error for short line")
	}
	bad := strings.Replace(line, "48.85341", "not-a-number", 1)
	if _, err := parseCityLine(bad); err == nil {
		t.Fatal("expected error for bad latitude")
	}
}

func TestParseEmbeddedCityData(t *testing.T) {
	places, err := parseCityData(embeddedCities)
	if err != nil {
		t.Fatalf("parseCityData: %v", err)
	}
	if len(places) < 50 {
		t.Fatalf("embedded extract suspiciously small: %d places", len(places))
	}
	for _, place := range places {
		if place.Name == "" || place.Country == "" {
			t.Fatalf("incomplete place: %+v", place)
		}
	}
}
