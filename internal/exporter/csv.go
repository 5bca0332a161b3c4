package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"rollbook/internal/attendance"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter handles CSV output of export tables.
type CSVWriter struct {
	// BOMPrefix adds a UTF-8 byte order mark so Excel detects the encoding.
	BOMPrefix bool
}

// NewCSVWriter creates a new CSV writer
func NewCSVWriter(bomPrefix bool) *CSVWriter {
	return &CSVWriter{BOMPrefix: bomPrefix}
}

func (w *CSVWriter) ContentType() string { return "text/csv; charset=utf-8" }

func (w *CSVWriter) Extension() string { return string(FormatCSV) }

// WriteTable writes the header followed by one record per row.
func (w *CSVWriter) WriteTable(out io.Writer, table attendance.ExportTable) error {
	slog.Debug("Writing CSV table",
		slog.Int("columns", table.Width()),
		slog.Int("rows", len(table.Rows)),
		slog.Bool("bom", w.BOMPrefix),
	)

	if w.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(out)
	if err := cw.WriteAll(table.Records()); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}
