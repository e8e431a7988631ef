// Package config loads, normalizes, and validates snapsort configuration.
//
// Configuration lives in a TOML file (default ~/.config/snapsort/config.toml)
// and is merged over repository defaults. All path fields are expanded and
// absolute after Load. CLI flags are applied on top by the command layer.
package config
