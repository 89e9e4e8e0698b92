// Package report serializes consensus verdicts, summaries and preprocessed
// item lists for downstream consumers.
//
// Verdict CSVs keep the column layout the rest of the pipeline expects: the
// item column, the consensus label column, "agreement", "flag" (the tier
// glyph), then one column per panel source in panel order. Absent votes are
// written as empty cells in CSV and null in JSON.
package report
