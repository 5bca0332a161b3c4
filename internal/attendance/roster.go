package attendance

// roster is an insertion-ordered set of roll identifiers.
type roster struct {
	order []string
	index map[string]int
}

func newRoster() *roster {
	return &roster{index: make(map[string]int)}
}

// add records roll if it has not been seen and returns its position.
func (r *roster) add(roll string) int {
	if i, ok := r.index[roll]; ok {
		return i
	}
	r.index[roll] = len(r.order)
	r.order = append(r.order, roll)
	return len(r.order) - 1
}

func (r *roster) lookup(roll string) (int, bool) {
	i, ok := r.index[roll]
	return i, ok
}

// Rolls returns every roll mentioned on any roster line, in first-seen order,
// regardless of whether a session had been opened yet.
func Rolls(lines []Line) []string {
	r := newRoster()
	for _, l := range lines {
		if l.Kind != RosterLine {
			continue
		}
		for _, roll := range l.Rolls {
			r.add(roll)
		}
	}
	return r.order
}
