// Package ballots reads per-source label files and proposal lists into the
// in-memory maps the consensus engine consumes.
//
// Supported inputs:
//   - a directory holding one <source>.csv or <source>.json file per source
//   - a single "wide" CSV with one row per item and one column per source
//   - a YAML (or JSON) document mapping each source to its proposed categories
//
// Loaders trim whitespace and byte-order marks but never normalize labels;
// run the preprocess step first when canonical strings are required.
package ballots
