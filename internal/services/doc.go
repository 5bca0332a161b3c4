// Package services implements the business logic layer between the HTTP
// handlers and the attendance core.
//
// # Snapshots
//
// AttendanceService turns raw logs into immutable snapshots. Each successful
// parse builds a new attendance.Matrix, wraps it in a Snapshot carrying a
// UUID and a BLAKE2b-256 digest of the input, and swaps it in atomically.
// Readers always see either the previous or the new snapshot, never a
// partially built one, and no lock guards the matrix.
//
// A failed read (missing file, rejected upload, oversized input) leaves the
// current snapshot in place.
//
// # Collaborators
//
// The service depends on small interfaces so tests can replace them:
//
//   - FileReader: reads logs from disk and uploads
//   - Publisher: pushes export tables to Google Sheets
//   - Notifier: broadcasts attendance:updated events to WebSocket clients
//   - LogLibrary: lists and resolves logs in the data directory
//
// # Errors
//
// Sentinel errors in errors.go are wrapped with %w; handlers map them to
// HTTP problems with errors.Is.
package services
