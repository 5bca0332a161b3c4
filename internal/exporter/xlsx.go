package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"rollbook/internal/attendance"
)

const (
	defaultSheetName = "Attendance"
	headerFill       = "4472C4"
	presentFill      = "C6EFCE"
	absentFill       = "FFC7CE"
)

// XLSXWriter writes export tables as a single-sheet workbook.
type XLSXWriter struct {
	SheetName string
}

// NewXLSXWriter creates a workbook writer for the named sheet.
func NewXLSXWriter(sheetName string) *XLSXWriter {
	if sheetName == "" {
		sheetName = defaultSheetName
	}
	return &XLSXWriter{SheetName: sheetName}
}

func (w *XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (w *XLSXWriter) Extension() string { return string(FormatXLSX) }

// WriteTable renders the table starting at A1 and writes the workbook to out.
func (w *XLSXWriter) WriteTable(out io.Writer, table attendance.ExportTable) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := w.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(table.Header))
	for i, h := range table.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cells := row.Cells()
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := w.style(f, table); err != nil {
		return err
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *XLSXWriter) style(f *excelize.File, table attendance.ExportTable) error {
	sheet := w.SheetName
	width := table.Width()
	if width == 0 {
		return nil
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	present, err := markStyle(f, presentFill)
	if err != nil {
		return err
	}
	absent, err := markStyle(f, absentFill)
	if err != nil {
		return err
	}
	for r, row := range table.Rows {
		for c, mark := range row.Marks {
			cell, err := excelize.CoordinatesToCellName(c+2, r+2)
			if err != nil {
				return err
			}
			style := absent
			if mark == attendance.Present.String() {
				style = present
			}
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return fmt.Errorf("failed to style %s: %w", cell, err)
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(width)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 14); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	})
}

func markStyle(f *excelize.File, fill string) (int, error) {
	id, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create mark style: %w", err)
	}
	return id, nil
}
