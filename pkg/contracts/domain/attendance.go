// Package domain defines the JSON request and response bodies of the
// attendance API.
package domain

import "time"

// ParseRequest submits a raw attendance log
type ParseRequest struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty" validate:"omitempty,filename"`
}

// PageRequest selects a page of rolls. Zero values mean "use the default".
type PageRequest struct {
	Page     int `query:"page" validate:"gte=0"`
	PageSize int `query:"page_size" validate:"gte=0"`
}

// SnapshotInfo identifies the parse result a response was computed from
type SnapshotInfo struct {
	ID       string    `json:"id"`
	Digest   string    `json:"digest"`
	Source   string    `json:"source"`
	ParsedAt time.Time `json:"parsed_at"`
}

// AttendanceRow is one roll with its marks and summary
type AttendanceRow struct {
	Roll           string   `json:"roll"`
	Marks          []string `json:"marks"`
	PresentCount   int      `json:"present_count"`
	Percentage     float64  `json:"percentage"`
	PercentageText string   `json:"percentage_text"`
}

// PageInfo describes the returned window
type PageInfo struct {
	Number     int  `json:"number"`
	Size       int  `json:"size"`
	TotalPages int  `json:"total_pages"`
	TotalRolls int  `json:"total_rolls"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// AttendanceView is one page of the attendance sheet
type AttendanceView struct {
	Snapshot SnapshotInfo    `json:"snapshot"`
	Sessions []string        `json:"sessions"`
	Rows     []AttendanceRow `json:"rows"`
	Page     PageInfo        `json:"page"`
}

// RollView is a single roll lookup
type RollView struct {
	Snapshot SnapshotInfo  `json:"snapshot"`
	Sessions []string      `json:"sessions"`
	Row      AttendanceRow `json:"row"`
}

// PublishResult reports a Google Sheets publish
type PublishResult struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	Range         string `json:"range"`
	UpdatedRows   int64  `json:"updated_rows"`
	UpdatedCells  int64  `json:"updated_cells"`
}

// FormatHelp documents the log grammar
type FormatHelp struct {
	SessionPrefix string   `json:"session_prefix"`
	RosterPrefix  string   `json:"roster_prefix"`
	Separator     string   `json:"separator"`
	Example       string   `json:"example"`
	Rules         []string `json:"rules"`
}

// StoredLog is an attendance log kept in the data directory
type StoredLog struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// StoredLogList is the response of GET /api/attendance/files
type StoredLogList struct {
	Logs  []StoredLog `json:"logs"`
	Count int         `json:"count"`
}
