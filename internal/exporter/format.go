package exporter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rollbook/internal/attendance"
	"rollbook/internal/config"
)

// Format names an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ErrUnknownFormat is returned by ParseFormat and ForFormat.
var ErrUnknownFormat = errors.New("unknown export format")

// TableWriter writes an export table to w in one file format.
type TableWriter interface {
	WriteTable(w io.Writer, table attendance.ExportTable) error
	ContentType() string
	Extension() string
}

// ParseFormat normalizes a format name such as "XLSX" or ".csv".
func ParseFormat(name string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "."))
	switch f {
	case FormatXLSX, FormatCSV, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// SupportedFormats lists the accepted format names in sorted order.
func SupportedFormats() []string {
	out := []string{string(FormatXLSX), string(FormatCSV), string(FormatPDF)}
	sort.Strings(out)
	return out
}

// ForFormat returns the writer for name configured from cfg.
func ForFormat(name string, cfg config.AttendanceConfig) (TableWriter, error) {
	f, err := ParseFormat(name)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatXLSX:
		return NewXLSXWriter(cfg.SheetName), nil
	case FormatCSV:
		return NewCSVWriter(true), nil
	default:
		return NewPDFWriter(cfg.SheetName), nil
	}
}

// WriteFile writes table to path through w, creating parent directories.
// A partially written file is removed on failure.
func WriteFile(path string, w TableWriter, table attendance.ExportTable) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := w.WriteTable(file, table); err != nil {
		return fmt.Errorf("failed to write %s: %w", w.Extension(), err)
	}
	return nil
}
