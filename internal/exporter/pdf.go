package exporter

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"rollbook/internal/attendance"
)

// Page geometry in millimetres for landscape A4.
const (
	pdfPageWidth     = 297.0
	pdfMargin        = 10.0
	pdfRollWidth     = 24.0
	pdfCountWidth    = 26.0
	pdfPercentWidth  = 26.0
	pdfMinMarkWidth  = 20.0
	pdfRowHeight     = 7.0
	pdfTitleFontSize = 14
	pdfBodyFontSize  = 9
)

// PDFWriter renders export tables as a landscape A4 document.
type PDFWriter struct {
	Title string
}

// NewPDFWriter creates a PDF writer with the given document title.
func NewPDFWriter(title string) *PDFWriter {
	if title == "" {
		title = defaultSheetName
	}
	return &PDFWriter{Title: title}
}

func (w *PDFWriter) ContentType() string { return "application/pdf" }

func (w *PDFWriter) Extension() string { return string(FormatPDF) }

// WriteTable draws the table. When the session columns do not fit on one
// page they are split into groups, each starting on a new page with the roll
// and summary columns repeated.
func (w *PDFWriter) WriteTable(out io.Writer, table attendance.ExportTable) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(w.Title, true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)

	// core fonts are cp1252; runes outside it become '.'
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	labels := sessionLabels(table)
	groups := markGroups(len(labels))

	for _, g := range groups {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", pdfTitleFontSize)
		pdf.CellFormat(0, 10, tr(w.Title), "", 1, "L", false, 0, "")

		markWidth := pdfMinMarkWidth
		if n := g[1] - g[0]; n > 0 {
			markWidth = (pdfPageWidth - 2*pdfMargin - pdfRollWidth - pdfCountWidth - pdfPercentWidth) / float64(n)
		}

		pdf.SetFont("Helvetica", "B", pdfBodyFontSize)
		pdf.SetFillColor(0x44, 0x72, 0xC4)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(pdfRollWidth, pdfRowHeight, attendance.RollColumn, "1", 0, "C", true, 0, "")
		for _, label := range labels[g[0]:g[1]] {
			pdf.CellFormat(markWidth, pdfRowHeight, tr(label), "1", 0, "C", true, 0, "")
		}
		pdf.CellFormat(pdfCountWidth, pdfRowHeight, attendance.PresentCountColumn, "1", 0, "C", true, 0, "")
		pdf.CellFormat(pdfPercentWidth, pdfRowHeight, attendance.PercentageColumn, "1", 1, "C", true, 0, "")

		pdf.SetFont("Helvetica", "", pdfBodyFontSize)
		pdf.SetTextColor(0, 0, 0)
		for _, row := range table.Rows {
			pdf.CellFormat(pdfRollWidth, pdfRowHeight, tr(row.Roll), "1", 0, "L", false, 0, "")
			for _, mark := range row.Marks[g[0]:g[1]] {
				pdf.CellFormat(markWidth, pdfRowHeight, mark, "1", 0, "C", false, 0, "")
			}
			pdf.CellFormat(pdfCountWidth, pdfRowHeight, fmt.Sprint(row.PresentCount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(pdfPercentWidth, pdfRowHeight, row.Percentage, "1", 1, "R", false, 0, "")
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// sessionLabels returns the header cells between the roll column and the two
// summary columns.
func sessionLabels(table attendance.ExportTable) []string {
	if len(table.Header) < 3 {
		return nil
	}
	return table.Header[1 : len(table.Header)-2]
}

// markGroups splits n session columns into [start, end) ranges that fit on a
// page. Zero sessions still yield one empty group so the table is drawn.
func markGroups(n int) [][2]int {
	avail := pdfPageWidth - 2*pdfMargin - pdfRollWidth - pdfCountWidth - pdfPercentWidth
	per := int(avail / pdfMinMarkWidth)
	if per < 1 {
		per = 1
	}

	if n == 0 {
		return [][2]int{{0, 0}}
	}
	groups := make([][2]int, 0, (n+per-1)/per)
	for start := 0; start < n; start += per {
		end := start + per
		if end > n {
			end = n
		}
		groups = append(groups, [2]int{start, end})
	}
	return groups
}
