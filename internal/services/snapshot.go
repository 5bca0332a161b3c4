package services

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"rollbook/internal/attendance"
	"rollbook/pkg/contracts/domain"
)

// Snapshot is one immutable parse result.
type Snapshot struct {
	ID       string
	Digest   string
	Source   string
	ParsedAt time.Time
	Matrix   *attendance.Matrix
}

func newSnapshot(text, source string, parsedAt time.Time) *Snapshot {
	return &Snapshot{
		ID:       uuid.NewString(),
		Digest:   Digest(text),
		Source:   source,
		ParsedAt: parsedAt,
		Matrix:   attendance.Build(text),
	}
}

// Digest is the hex BLAKE2b-256 of text. Identical input gives identical
// digests, which makes it usable as an export ETag.
func Digest(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Info returns the identifying fields for API responses.
func (s *Snapshot) Info() domain.SnapshotInfo {
	return domain.SnapshotInfo{
		ID:       s.ID,
		Digest:   s.Digest,
		Source:   s.Source,
		ParsedAt: s.ParsedAt,
	}
}

// Row builds the API row for roll.
func (s *Snapshot) Row(roll string) (domain.AttendanceRow, bool) {
	rec, ok := s.Matrix.Record(roll)
	if !ok {
		return domain.AttendanceRow{}, false
	}
	sum, _ := s.Matrix.Summarize(roll)
	return domain.AttendanceRow{
		Roll:           roll,
		Marks:          rec.Strings(),
		PresentCount:   sum.PresentCount,
		Percentage:     sum.Percentage,
		PercentageText: attendance.FormatPercentage(sum.Percentage),
	}, true
}
