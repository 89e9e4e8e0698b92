// Command traitvote resolves multi-source labelling ballots into consensus
// verdicts.
//
// Each panel source labels the same items independently. The CLI loads those
// ballots, picks the majority label per item, grades the agreement into a
// confidence tier, and writes the verdicts alongside a tier summary. Helper
// commands merge category proposals, summarize earlier verdict files, clean
// raw item lists, and browse the run history kept in SQLite.
package main
