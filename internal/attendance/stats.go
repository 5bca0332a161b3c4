package attendance

import "fmt"

// Summary is derived from a Record and never stored on its own.
type Summary struct {
	Roll         string
	PresentCount int
	Percentage   float64
}

// Summarize computes the summary for roll. The second result is false when
// the roll is unknown.
func (m *Matrix) Summarize(roll string) (Summary, bool) {
	i, ok := m.rolls.lookup(roll)
	if !ok {
		return Summary{}, false
	}
	return summarize(roll, m.records[i], len(m.sessions)), true
}

// Summaries returns one summary per roll in matrix order.
func (m *Matrix) Summaries() []Summary {
	out := make([]Summary, len(m.rolls.order))
	for i, roll := range m.rolls.order {
		out[i] = summarize(roll, m.records[i], len(m.sessions))
	}
	return out
}

func summarize(roll string, rec Record, sessions int) Summary {
	present := rec.PresentCount()
	return Summary{
		Roll:         roll,
		PresentCount: present,
		Percentage:   Percentage(present, sessions),
	}
}

// Percentage returns present/sessions*100, or 0 when there are no sessions.
func Percentage(present, sessions int) float64 {
	if sessions <= 0 {
		return 0
	}
	return float64(present) / float64(sessions) * 100
}

// FormatPercentage renders p with two decimals and a percent sign.
func FormatPercentage(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}
