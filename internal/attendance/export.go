package attendance

import "strconv"

const (
	// RollColumn heads the first export column.
	RollColumn = "Roll"
	// PresentCountColumn heads the present count column.
	PresentCountColumn = "Present Count"
	// PercentageColumn heads the last export column.
	PercentageColumn = "Percentage"
)

// ExportRow is one data row: the roll, its marks, the present count and the
// formatted percentage.
type ExportRow struct {
	Roll         string
	Marks        []string
	PresentCount int
	Percentage   string
}

// Cells flattens the row in column order. The present count stays numeric so
// spreadsheet writers can store it as a number.
func (r ExportRow) Cells() []interface{} {
	cells := make([]interface{}, 0, len(r.Marks)+3)
	cells = append(cells, r.Roll)
	for _, m := range r.Marks {
		cells = append(cells, m)
	}
	return append(cells, r.PresentCount, r.Percentage)
}

// Strings flattens the row in column order as text.
func (r ExportRow) Strings() []string {
	out := make([]string, 0, len(r.Marks)+3)
	out = append(out, r.Roll)
	out = append(out, r.Marks...)
	return append(out, strconv.Itoa(r.PresentCount), r.Percentage)
}

// ExportTable is the complete row set handed to spreadsheet writers.
type ExportTable struct {
	Header []string
	Rows   []ExportRow
}

// Records returns header and rows as text, header first.
func (t ExportTable) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header)
	for _, r := range t.Rows {
		out = append(out, r.Strings())
	}
	return out
}

// Width is the number of columns.
func (t ExportTable) Width() int {
	return len(t.Header)
}

// Project builds the export table for m.
func Project(m *Matrix) ExportTable {
	rows := make([]ExportRow, len(m.rolls.order))
	for i := range m.rolls.order {
		rows[i] = m.exportRow(i)
	}

	return ExportTable{Header: m.exportHeader(), Rows: rows}
}

func (m *Matrix) exportRow(i int) ExportRow {
	roll, rec := m.rolls.order[i], m.records[i]
	s := summarize(roll, rec, len(m.sessions))
	return ExportRow{
		Roll:         roll,
		Marks:        rec.Strings(),
		PresentCount: s.PresentCount,
		Percentage:   FormatPercentage(s.Percentage),
	}
}

func (m *Matrix) exportHeader() []string {
	header := make([]string, 0, len(m.sessions)+3)
	header = append(header, RollColumn)
	for _, s := range m.sessions {
		header = append(header, s.Label)
	}
	return append(header, PresentCountColumn, PercentageColumn)
}
