// Package gazetteer resolves coordinates to human-readable place names using
// a local SQLite table of populated places. No network calls are made; when
// the table is empty it is seeded from an embedded city extract, and lookups
// that find no place within range fall back to a name derived from the
// coordinates themselves.
package gazetteer
