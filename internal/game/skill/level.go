package skill

import (
	"strconv"

	"github.com/raianasancho/gcsga/internal/game/tooltip"
)

// Level is a computed skill level. A level that cannot be computed, because
// there is no actor or too few points, has Defined == false.
type Level struct {
	Level         int
	RelativeLevel int
	Defined       bool
	Tooltip       *tooltip.Tooltip
}

// Undefined returns a level with no value.
func Undefined() Level {
	return Level{}
}

// Compare orders levels. Undefined sorts below every defined level and
// equal to other undefined levels.
func (l Level) Compare(o Level) int {
	switch {
	case !l.Defined && !o.Defined:
		return 0
	case !l.Defined:
		return -1
	case !o.Defined:
		return 1
	case l.Level < o.Level:
		return -1
	case l.Level > o.Level:
		return 1
	default:
		return 0
	}
}

// Is reports whether l is defined and equal to n.
func (l Level) Is(n int) bool {
	return l.Defined && l.Level == n
}

// String renders the level, or "-" when undefined.
func (l Level) String() string {
	if !l.Defined {
		return "-"
	}
	return strconv.Itoa(l.Level)
}
