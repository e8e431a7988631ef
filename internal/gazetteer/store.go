package gazetteer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"snapsort/internal/cluster"
	"snapsort/internal/logging"
)

// Place is one populated place from the gazetteer table.
type Place struct {
	Name       string
	Country    string
	Lat        float64
	Lon        float64
	Population int64
}

// Store manages the place database backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open initializes or connects to the gazetteer database. An empty database
// is seeded from the embedded city extract.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure gazetteer directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, logger: logging.NewComponentLogger(logger, "gazetteer")}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.seedIfEmpty(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS places (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    country TEXT NOT NULL,
    lat REAL NOT NULL,
    lon REAL NOT NULL,
    population INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_places_lat ON places(lat);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create places table: %w", err)
	}
	return nil
}

func (s *Store) seedIfEmpty(ctx context.Context) error {
	count, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	places, err := parseCityData(embeddedCities)
	if err != nil {
		return fmt.Errorf("parse embedded city data: %w", err)
	}
	if err := s.ImportPlaces(ctx, places); err != nil {
		return err
	}
	s.logger.Info("seeded gazetteer from embedded city data", logging.Int("places", len(places)))
	return nil
}

// Count returns the number of places in the table.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM places`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count places: %w", err)
	}
	return count, nil
}

// ImportPlaces inserts places in one transaction.
func (s *Store) ImportPlaces(ctx context.Context, places []Place) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO places (name, country, lat, lon, population) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	for _, place := range places {
		if _, err := stmt.ExecContext(ctx, place.Name, place.Country, place.Lat, place.Lon, place.Population); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert place %q: %w", place.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// Nearest returns the closest place to the given position and its distance
// in kilometers. Rows are scanned in name order and only a strictly smaller
// distance replaces the running best, so equidistant candidates resolve the
// same way every run.
func (s *Store) Nearest(ctx context.Context, lat, lon float64) (*Place, float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, country, lat, lon, population FROM places ORDER BY name, country`)
	if err != nil {
		return nil, 0, fmt.Errorf("query places: %w", err)
	}
	defer rows.Close()

	var best *Place
	bestKM := 0.0
	for rows.Next() {
		var place Place
		if err := rows.Scan(&place.Name, &place.Country, &place.Lat, &place.Lon, &place.Population); err != nil {
			return nil, 0, fmt.Errorf("scan place: %w", err)
		}
		distance := cluster.HaversineKM(lat, lon, place.Lat, place.Lon)
		if best == nil || distance < bestKM {
			copied := place
			best = &copied
			bestKM = distance
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate places: %w", err)
	}
	if best == nil {
		return nil, 0, nil
	}
	return best, bestKM, nil
}

// ResolveName maps a position to a directory-safe location name. Positions
// farther than maxDistanceKM from every known place get a coordinate-derived
// fallback name instead, so organization never silently mislabels remote
// shots with the nearest big city.
func (s *Store) ResolveName(ctx context.Context, lat, lon, maxDistanceKM float64) (string, error) {
	place, distance, err := s.Nearest(ctx, lat, lon)
	if err != nil {
		return "", err
	}
	if place == nil || distance > maxDistanceKM {
		return FallbackName(lat, lon), nil
	}
	return SanitizeName(place.Name), nil
}
