package attendance

import "strings"

const (
	// SessionPrefix marks a line that opens a session.
	SessionPrefix = "Date:"
	// RosterPrefix marks a line listing the rolls present in the current session.
	RosterPrefix = "Roll:"

	payloadSeparator = ": "
	rollSeparator    = ","
)

// LineKind identifies what a single log line contributes.
type LineKind int

const (
	Unrecognized LineKind = iota
	SessionHeader
	RosterLine
)

// String returns a readable name for the kind
func (k LineKind) String() string {
	switch k {
	case SessionHeader:
		return "session_header"
	case RosterLine:
		return "roster_line"
	default:
		return "unrecognized"
	}
}

// Line is a classified log line. Label is set for session headers, Rolls for
// roster lines.
type Line struct {
	Kind  LineKind
	Label string
	Rolls []string
}

// Classify inspects one line of input. Surrounding whitespace is ignored.
// A header or roster line without a ": " separator, or with nothing usable
// after it, is Unrecognized.
func Classify(raw string) Line {
	line := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(line, SessionPrefix):
		label, ok := payload(line)
		if !ok {
			return Line{Kind: Unrecognized}
		}
		return Line{Kind: SessionHeader, Label: label}

	case strings.HasPrefix(line, RosterPrefix):
		body, ok := payload(line)
		if !ok {
			return Line{Kind: Unrecognized}
		}
		rolls := splitRolls(body)
		if len(rolls) == 0 {
			return Line{Kind: Unrecognized}
		}
		return Line{Kind: RosterLine, Rolls: rolls}
	}

	return Line{Kind: Unrecognized}
}

// ClassifyText splits text on newlines and classifies every line, keeping
// unrecognized lines so the result is index-aligned with the input.
func ClassifyText(text string) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	for _, r := range raw {
		lines = append(lines, Classify(r))
	}
	return lines
}

// payload returns the trimmed text after the first ": ".
func payload(line string) (string, bool) {
	_, after, found := strings.Cut(line, payloadSeparator)
	if !found {
		return "", false
	}
	after = strings.TrimSpace(after)
	return after, after != ""
}

func splitRolls(body string) []string {
	parts := strings.Split(body, rollSeparator)
	rolls := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			rolls = append(rolls, p)
		}
	}
	return rolls
}
