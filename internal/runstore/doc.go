// Package runstore persists completed aggregation runs in SQLite.
//
// Each run records its phase, panel, tier counts and every verdict with the
// per-source vote snapshot, so earlier results can be listed, inspected and
// re-exported without re-running the panel. Run identifiers are UUIDs.
//
// The database is a history, not a cache: saving a run never rewrites an
// earlier one. Schema changes bump schemaVersion in schema.go; users delete
// the history file to adopt the new schema.
package runstore
