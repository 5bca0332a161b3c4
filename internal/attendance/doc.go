// Package attendance turns a free-form attendance log into a presence matrix.
//
// A log is a sequence of lines. Lines starting with "Date:" open a new session,
// lines starting with "Roll:" list the roll numbers present in the most recent
// session. Everything else is ignored.
//
//	Date: 01-01-2024
//	Roll: 1,2,3
//	Date: 02-01-2024
//	Roll: 2,3
//
// Build parses such text into a Matrix. From a Matrix callers derive per-roll
// summaries (Summarize), paginated windows over the roll list (Paginate) and
// the row set handed to spreadsheet writers (Project).
//
// The package performs no I/O and never fails: malformed input degrades to
// fewer sessions or rolls, never to an error.
package attendance
