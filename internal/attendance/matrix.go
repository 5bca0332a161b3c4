package attendance

// Mark is the attendance state of one roll in one session.
type Mark bool

const (
	Absent  Mark = false
	Present Mark = true
)

// String renders the mark the way exports show it.
func (m Mark) String() string {
	if m == Present {
		return "P"
	}
	return "A"
}

// Record holds one mark per session, in session order.
type Record []Mark

// PresentCount counts Present marks.
func (r Record) PresentCount() int {
	n := 0
	for _, m := range r {
		if m == Present {
			n++
		}
	}
	return n
}

// Strings renders every mark.
func (r Record) Strings() []string {
	out := make([]string, len(r))
	for i, m := range r {
		out[i] = m.String()
	}
	return out
}

// Matrix is the parsed attendance log. It is immutable once built; every
// accessor returns a copy.
//
// For every roll len(Record(roll)) == SessionCount().
type Matrix struct {
	sessions []Session
	rolls    *roster
	records  []Record
}

// Build parses text into a Matrix.
//
// Rolls are collected from every roster line first and start out Absent in
// every session. Lines are then replayed: each session header advances the
// current session and each roster line marks its rolls Present there. Roster
// lines that appear before the first header contribute rolls but no marks.
func Build(text string) *Matrix {
	return BuildLines(ClassifyText(text))
}

// BuildLines builds a Matrix from already classified lines.
func BuildLines(lines []Line) *Matrix {
	m := &Matrix{
		sessions: Sessions(lines),
		rolls:    newRoster(),
	}
	for _, roll := range Rolls(lines) {
		m.rolls.add(roll)
	}

	n := len(m.sessions)
	m.records = make([]Record, len(m.rolls.order))
	for i := range m.records {
		m.records[i] = make(Record, n)
	}

	current := -1
	for _, l := range lines {
		switch l.Kind {
		case SessionHeader:
			current++
		case RosterLine:
			if current < 0 {
				continue
			}
			for _, roll := range l.Rolls {
				i, _ := m.rolls.lookup(roll)
				m.records[i][current] = Present
			}
		}
	}

	return m
}

// SessionCount returns the number of sessions.
func (m *Matrix) SessionCount() int {
	return len(m.sessions)
}

// RollCount returns the number of distinct rolls.
func (m *Matrix) RollCount() int {
	return len(m.rolls.order)
}

// Sessions returns the sessions in declaration order.
func (m *Matrix) Sessions() []Session {
	out := make([]Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// Labels returns the session labels in declaration order.
func (m *Matrix) Labels() []string {
	out := make([]string, len(m.sessions))
	for i, s := range m.sessions {
		out[i] = s.Label
	}
	return out
}

// Rolls returns the rolls in first-seen order.
func (m *Matrix) Rolls() []string {
	out := make([]string, len(m.rolls.order))
	copy(out, m.rolls.order)
	return out
}

// Record returns the marks for roll. The second result is false when the
// roll never appeared in the log.
func (m *Matrix) Record(roll string) (Record, bool) {
	i, ok := m.rolls.lookup(roll)
	if !ok {
		return nil, false
	}
	out := make(Record, len(m.records[i]))
	copy(out, m.records[i])
	return out, true
}

// Has reports whether roll appeared in the log.
func (m *Matrix) Has(roll string) bool {
	_, ok := m.rolls.lookup(roll)
	return ok
}

// Empty reports whether the log produced neither sessions nor rolls.
func (m *Matrix) Empty() bool {
	return len(m.sessions) == 0 && len(m.rolls.order) == 0
}
