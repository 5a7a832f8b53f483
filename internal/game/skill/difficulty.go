// Package skill computes skill and spell levels from invested points and
// searches for the point values that reach a target level.
package skill

import "strings"

// Difficulty is a skill's difficulty tier.
type Difficulty string

const (
	Easy     Difficulty = "e"
	Average  Difficulty = "a"
	Hard     Difficulty = "h"
	VeryHard Difficulty = "vh"
	Wildcard Difficulty = "w"
)

// BaseRelativeLevel is the relative level bought by a single point.
func (d Difficulty) BaseRelativeLevel() int {
	switch d {
	case Easy:
		return 0
	case Average:
		return -1
	case Hard:
		return -2
	default:
		return -3
	}
}

// String returns the upper-case abbreviation, e.g. "VH".
func (d Difficulty) String() string {
	return strings.ToUpper(string(d))
}

// searchWindow is how many points past the current value the increment and
// decrement searches look.
func (d Difficulty) searchWindow() int {
	if d == Wildcard {
		return 12
	}
	return 4
}

// ParseDifficulty splits "dx/a" into its attribute and difficulty. Missing
// halves take defAttr and defDiff.
func ParseDifficulty(s, defAttr string, defDiff Difficulty) (string, Difficulty) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return defAttr, defDiff
	}
	attr, diff, found := strings.Cut(s, "/")
	if attr == "" {
		attr = defAttr
	}
	if !found || diff == "" {
		return attr, defDiff
	}
	switch d := Difficulty(diff); d {
	case Easy, Average, Hard, VeryHard, Wildcard:
		return attr, d
	default:
		return attr, defDiff
	}
}
