package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject(t *testing.T) {
	table := Project(Build(sampleLog))

	assert.Equal(t, []string{"Roll", "01-01-2024", "02-01-2024", "Present Count", "Percentage"}, table.Header)
	assert.Equal(t, 5, table.Width())
	assert.Equal(t, [][]string{
		{"Roll", "01-01-2024", "02-01-2024", "Present Count", "Percentage"},
		{"1", "P", "A", "1", "50.00%"},
		{"2", "P", "P", "2", "100.00%"},
		{"3", "P", "P", "2", "100.00%"},
	}, table.Records())
}

func TestProject_Empty(t *testing.T) {
	table := Project(Build(""))

	assert.Equal(t, []string{"Roll", "Present Count", "Percentage"}, table.Header)
	assert.Empty(t, table.Rows)
}

func TestProject_NoSessions(t *testing.T) {
	table := Project(Build("Roll: 4"))

	assert.Equal(t, [][]string{
		{"Roll", "Present Count", "Percentage"},
		{"4", "0", "0.00%"},
	}, table.Records())
}

func TestProject_RowWidthMatchesHeader(t *testing.T) {
	table := Project(Build("Roll: 0\nDate: a\nRoll: 1\nDate: b\nDate: c\nRoll: 2,1"))

	for _, row := range table.Rows {
		assert.Len(t, row.Strings(), table.Width())
		assert.Len(t, row.Cells(), table.Width())
	}
}

func TestExportRowCells(t *testing.T) {
	row := ExportRow{Roll: "7", Marks: []string{"P", "A"}, PresentCount: 1, Percentage: "50.00%"}

	assert.Equal(t, []interface{}{"7", "P", "A", 1, "50.00%"}, row.Cells())
}
