package criteria

import (
	"fmt"

	"github.com/raianasancho/gcsga/internal/game/fxp"
)

// NumericCompare selects how a NumericCriteria tests a candidate.
type NumericCompare string

const (
	AnyNumber NumericCompare = "none"
	Equals    NumericCompare = "is"
	NotEquals NumericCompare = "is_not"
	AtLeast   NumericCompare = "at_least"
	AtMost    NumericCompare = "at_most"
)

var numericCompareText = map[NumericCompare]string{
	AnyNumber: "is anything",
	Equals:    "is",
	NotEquals: "is not",
	AtLeast:   "is at least",
	AtMost:    "is at most",
}

// String returns the human-readable phrase for c.
func (c NumericCompare) String() string {
	if s, ok := numericCompareText[c]; ok {
		return s
	}
	return string(c)
}

// NumericCriteria is a predicate over fixed-point numbers.
type NumericCriteria struct {
	Compare   NumericCompare `yaml:"compare" json:"compare"`
	Qualifier fxp.Int        `yaml:"qualifier,omitempty" json:"qualifier,omitempty"`
}

// Matches tests n.
func (c NumericCriteria) Matches(n fxp.Int) bool {
	switch c.Compare {
	case Equals:
		return n == c.Qualifier
	case NotEquals:
		return n != c.Qualifier
	case AtLeast:
		return n >= c.Qualifier
	case AtMost:
		return n <= c.Qualifier
	default:
		return true
	}
}

// Describe renders the predicate, e.g. "is at least 12".
func (c NumericCriteria) Describe() string {
	if c.Compare == AnyNumber || c.Compare == "" {
		return AnyNumber.String()
	}
	return fmt.Sprintf("%s %s", c.Compare.String(), c.Qualifier)
}
