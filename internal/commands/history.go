package commands

import "strings"

// History keeps submitted console lines for recall with Up and Down. The line being
// typed when recall starts is kept as a draft and comes back after the newest entry.
type History struct {
	lines []string
	max   int
	pos   int // len(lines) when not recalling
	draft string
}

// NewHistory keeps at most max lines (64 when max <= 0).
func NewHistory(max int) *History {
	if max <= 0 {
		max = 64
	}
	return &History{max: max}
}

// Add records a submitted line. Blank lines and repeats of the newest entry are skipped.
// Recall restarts from the newest entry.
func (h *History) Add(line string) {
	defer h.rewind()
	if strings.TrimSpace(line) == "" {
		return
	}
	if n := len(h.lines); n > 0 && h.lines[n-1] == line {
		return
	}
	h.lines = append(h.lines, line)
	if len(h.lines) > h.max {
		h.lines = h.lines[len(h.lines)-h.max:]
	}
}

func (h *History) rewind() {
	h.pos = len(h.lines)
	h.draft = ""
}

// Prev returns the entry before the current one, stopping at the oldest. current is
// saved as the draft when recall starts.
func (h *History) Prev(current string) string {
	if len(h.lines) == 0 {
		return current
	}
	if h.pos == len(h.lines) {
		h.draft = current
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.lines[h.pos]
}

// Next returns the entry after the current one, or the draft past the newest.
func (h *History) Next() string {
	if h.pos >= len(h.lines) {
		return h.draft
	}
	h.pos++
	if h.pos == len(h.lines) {
		return h.draft
	}
	return h.lines[h.pos]
}

// Len returns the number of stored lines.
func (h *History) Len() int { return len(h.lines) }

// Complete extends the command word of line to the longest prefix shared by all matching
// command names, adding a trailing space when exactly one matches. Lines that already
// have arguments are returned unchanged. The matching names are returned too.
func (r *Registry) Complete(line string) (string, []string) {
	lead := ""
	word := line
	if strings.HasPrefix(line, prefix) {
		lead, word = prefix, line[len(prefix):]
	}
	if strings.ContainsAny(word, " \t") {
		return line, nil
	}
	var matches []string
	for _, n := range r.Names() {
		if strings.HasPrefix(n, word) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return line, nil
	case 1:
		return lead + matches[0] + " ", matches
	}
	common := matches[0]
	for _, m := range matches[1:] {
		for !strings.HasPrefix(m, common) {
			common = common[:len(common)-1]
		}
	}
	return lead + common, matches
}
