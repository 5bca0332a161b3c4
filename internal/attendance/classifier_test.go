package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Line
	}{
		{
			name:     "session header",
			input:    "Date: 01-01-2024",
			expected: Line{Kind: SessionHeader, Label: "01-01-2024"},
		},
		{
			name:     "session header with surrounding whitespace",
			input:    "   Date: 01-01-2024  \r",
			expected: Line{Kind: SessionHeader, Label: "01-01-2024"},
		},
		{
			name:     "label keeps later separators",
			input:    "Date: Monday: morning",
			expected: Line{Kind: SessionHeader, Label: "Monday: morning"},
		},
		{
			name:     "header without separator",
			input:    "Date:01-01-2024",
			expected: Line{Kind: Unrecognized},
		},
		{
			name:     "header with empty label",
			input:    "Date: ",
			expected: Line{Kind: Unrecognized},
		},
		{
			name:     "roster line",
			input:    "Roll: 1, 2 ,3",
			expected: Line{Kind: RosterLine, Rolls: []string{"1", "2", "3"}},
		},
		{
			name:     "roster line drops empty tokens",
			input:    "Roll: 1,,2, ",
			expected: Line{Kind: RosterLine, Rolls: []string{"1", "2"}},
		},
		{
			name:     "roster line keeps duplicates",
			input:    "Roll: 5,5",
			expected: Line{Kind: RosterLine, Rolls: []string{"5", "5"}},
		},
		{
			name:     "roster line with only commas",
			input:    "Roll: , ,",
			expected: Line{Kind: Unrecognized},
		},
		{
			name:     "roster line without separator",
			input:    "Roll:1,2",
			expected: Line{Kind: Unrecognized},
		},
		{
			name:     "lowercase prefix",
			input:    "date: 01-01-2024",
			expected: Line{Kind: Unrecognized},
		},
		{
			name:     "blank",
			input:    "   ",
			expected: Line{Kind: Unrecognized},
		},
		{
			name:     "free text",
			input:    "Attendance for week one",
			expected: Line{Kind: Unrecognized},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.input))
		})
	}
}

func TestClassifyText(t *testing.T) {
	lines := ClassifyText("Date: a\nnoise\nRoll: 1")

	assert.Len(t, lines, 3)
	assert.Equal(t, SessionHeader, lines[0].Kind)
	assert.Equal(t, Unrecognized, lines[1].Kind)
	assert.Equal(t, RosterLine, lines[2].Kind)

	assert.Nil(t, ClassifyText(""))
}

func TestLineKindString(t *testing.T) {
	assert.Equal(t, "session_header", SessionHeader.String())
	assert.Equal(t, "roster_line", RosterLine.String())
	assert.Equal(t, "unrecognized", Unrecognized.String())
}

func TestSessionsAndRolls(t *testing.T) {
	lines := ClassifyText("Roll: 9\nDate: x\nRoll: 1,2\nDate: x\nRoll: 2,3")

	assert.Equal(t, []Session{{Index: 0, Label: "x"}, {Index: 1, Label: "x"}}, Sessions(lines))
	assert.Equal(t, []string{"9", "1", "2", "3"}, Rolls(lines))
}
