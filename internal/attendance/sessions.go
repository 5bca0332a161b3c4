package attendance

// Session is one dated column of the matrix. Index is its zero-based
// declaration position; two sessions may share a label.
type Session struct {
	Index int
	Label string
}

// sessionSequence collects session headers in declaration order.
type sessionSequence struct {
	sessions []Session
}

func (s *sessionSequence) add(label string) {
	s.sessions = append(s.sessions, Session{Index: len(s.sessions), Label: label})
}

func (s *sessionSequence) len() int {
	return len(s.sessions)
}

// Sessions extracts the ordered session list from classified lines.
func Sessions(lines []Line) []Session {
	var seq sessionSequence
	for _, l := range lines {
		if l.Kind == SessionHeader {
			seq.add(l.Label)
		}
	}
	return seq.sessions
}
