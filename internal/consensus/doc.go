// Package consensus resolves labels from a panel of independent classification
// sources into a single verdict per item.
//
// The package is pure: it never touches files, the network, or the database.
// Callers hand it in-memory maps of source -> item -> label (or source ->
// proposed category names) and receive ordered verdicts, merged vocabularies,
// and tier summaries back. Majority voting is unweighted, ties resolve to the
// label first seen in panel order, and confidence tiers use fixed thresholds
// tuned for a five-source panel.
//
// Keep I/O out of this package. Loaders live in internal/ballots, writers in
// internal/report, and persistence in internal/runstore.
package consensus
