// Package exporter writes attendance export tables to spreadsheet formats.
//
// Every writer consumes the same attendance.ExportTable produced by
// attendance.Project, so the file formats differ only in presentation:
//
// XLSXWriter: a single-sheet workbook with a styled header row and frozen
// panes.
//
// CSVWriter: plain CSV with an optional UTF-8 BOM for Excel compatibility.
//
// PDFWriter: a landscape A4 table; wide session ranges are split across
// pages with the roll and summary columns repeated.
//
// SheetsPublisher: pushes the table to a Google spreadsheet.
//
// Example usage:
//
//	w, err := exporter.ForFormat("xlsx", cfg.Attendance)
//	if err != nil {
//		return err
//	}
//	err = w.WriteTable(out, attendance.Project(matrix))
package exporter
