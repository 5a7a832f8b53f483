// Package dice reads GURPS dice notation ("3d6", "2d+1", "1d-1") and rolls
// it on a pluggable randomness source. A die with no size is a d6.
package dice

import (
	"strconv"
	"strings"
)

// RollResult is one evaluated expression: the faces that came up and the
// flat adjustment. It travels inside published roll results, so its JSON
// shape is part of the roll log.
//
// Invariant: Total() == DiceTotal() + Modifier.
type RollResult struct {
	Expression string `json:"expression"`
	Dice       []int  `json:"dice"`
	Modifier   int    `json:"modifier,omitempty"`
}

// DiceTotal sums the faces alone.
func (r RollResult) DiceTotal() int {
	total := 0
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// Total is the faces plus the modifier.
func (r RollResult) Total() int {
	return r.DiceTotal() + r.Modifier
}

// String renders the roll the way a roll card shows it,
// "2d6+3: [4 5] +3 = 12". A zero modifier is left out, and so is the
// expression when it is empty.
func (r RollResult) String() string {
	var b strings.Builder
	if r.Expression != "" {
		b.WriteString(r.Expression)
		b.WriteString(": ")
	}
	b.WriteByte('[')
	for i, d := range r.Dice {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(d))
	}
	b.WriteByte(']')
	if r.Modifier != 0 {
		b.WriteByte(' ')
		if r.Modifier > 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(r.Modifier))
	}
	b.WriteString(" = ")
	b.WriteString(strconv.Itoa(r.Total()))
	return b.String()
}

// Source supplies randomness. Implementations must be safe for concurrent
// use.
type Source interface {
	// Intn returns a value in [0, n). n is always > 0.
	Intn(n int) int
}
