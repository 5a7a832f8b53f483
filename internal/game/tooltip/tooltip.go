// Package tooltip collects the human-readable trace lines that explain how a
// computed value was reached.
package tooltip

import "strings"

// Tooltip accumulates one line per contribution. A nil *Tooltip discards
// everything pushed to it, so callers that do not want a trace pass nil.
type Tooltip struct {
	lines []string
}

// New returns an empty Tooltip.
func New() *Tooltip {
	return &Tooltip{}
}

// Push appends a line built from parts.
func (t *Tooltip) Push(parts ...string) {
	if t == nil {
		return
	}
	t.lines = append(t.lines, strings.Join(parts, ""))
}

// Lines returns a copy of the accumulated lines.
func (t *Tooltip) Lines() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

// Len returns the number of lines.
func (t *Tooltip) Len() int {
	if t == nil {
		return 0
	}
	return len(t.lines)
}

// String joins the lines with newlines.
func (t *Tooltip) String() string {
	if t == nil {
		return ""
	}
	return strings.Join(t.lines, "\n")
}
