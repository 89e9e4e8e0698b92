// Package logging assembles structured slog loggers and formatting helpers used
// across traitvote.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so aggregation code can tag log
// lines with run identifiers and pipeline phases. The package also provides a
// no-op logger for tests and library callers that do not care about logs.
package logging
