// Package criteria provides the string and numeric predicates that features
// use to select the skills, spells and weapons they apply to.
package criteria

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// StringCompare selects how a StringCriteria tests a candidate.
type StringCompare string

const (
	Any              StringCompare = "none"
	Is               StringCompare = "is"
	IsNot            StringCompare = "is_not"
	Contains         StringCompare = "contains"
	DoesNotContain   StringCompare = "does_not_contain"
	StartsWith       StringCompare = "starts_with"
	DoesNotStartWith StringCompare = "does_not_start_with"
	EndsWith         StringCompare = "ends_with"
	DoesNotEndWith   StringCompare = "does_not_end_with"
)

// AllStringCompares lists every mode in display order.
var AllStringCompares = []StringCompare{
	Any, Is, IsNot, Contains, DoesNotContain, StartsWith, DoesNotStartWith, EndsWith, DoesNotEndWith,
}

var stringCompareText = map[StringCompare]string{
	Any:              "is anything",
	Is:               "is",
	IsNot:            "is not",
	Contains:         "contains",
	DoesNotContain:   "does not contain",
	StartsWith:       "starts with",
	DoesNotStartWith: "does not start with",
	EndsWith:         "ends with",
	DoesNotEndWith:   "does not end with",
}

var stringCompareAltText = map[StringCompare]string{
	IsNot:            "is",
	DoesNotContain:   "contains",
	DoesNotStartWith: "starts with",
	DoesNotEndWith:   "ends with",
}

// String returns the human-readable phrase for c.
func (c StringCompare) String() string {
	if s, ok := stringCompareText[c]; ok {
		return s
	}
	return string(c)
}

// Negated reports whether c is one of the "not" modes.
func (c StringCompare) Negated() bool {
	_, ok := stringCompareAltText[c]
	return ok
}

// StringCriteria is a case-insensitive predicate over strings.
type StringCriteria struct {
	Compare   StringCompare `yaml:"compare" json:"compare"`
	Qualifier string        `yaml:"qualifier,omitempty" json:"qualifier,omitempty"`
}

var folder = cases.Fold()

func fold(s string) string {
	return folder.String(s)
}

// EqualFold reports whether s and t are equal under case folding.
// Two empty strings are never equal.
func EqualFold(s, t string) bool {
	if s == "" && t == "" {
		return false
	}
	return fold(s) == fold(t)
}

// Matches tests a single candidate.
//
// Postcondition: the Contains, StartsWith and EndsWith modes test whether
// the qualifier occurs in, starts or ends the candidate.
func (c StringCriteria) Matches(s string) bool {
	switch c.Compare {
	case Is:
		return EqualFold(s, c.Qualifier)
	case IsNot:
		return !EqualFold(s, c.Qualifier)
	case Contains:
		return strings.Contains(fold(s), fold(c.Qualifier))
	case DoesNotContain:
		return !strings.Contains(fold(s), fold(c.Qualifier))
	case StartsWith:
		return strings.HasPrefix(fold(s), fold(c.Qualifier))
	case DoesNotStartWith:
		return !strings.HasPrefix(fold(s), fold(c.Qualifier))
	case EndsWith:
		return strings.HasSuffix(fold(s), fold(c.Qualifier))
	case DoesNotEndWith:
		return !strings.HasSuffix(fold(s), fold(c.Qualifier))
	default:
		return true
	}
}

// MatchesList tests a list of candidates. An empty list is tested as a
// single empty string. Positive modes need one matching candidate; negative
// modes need every candidate to match.
func (c StringCriteria) MatchesList(s ...string) bool {
	if len(s) == 0 {
		return c.Matches("")
	}
	matches := 0
	for _, one := range s {
		if c.Matches(one) {
			matches++
		}
	}
	if c.Compare.Negated() {
		return matches == len(s)
	}
	return matches > 0
}

// AltString returns the positive phrase for negated modes, for sentences
// that carry the negation elsewhere.
func (c StringCriteria) AltString() string {
	if s, ok := stringCompareAltText[c.Compare]; ok {
		return s
	}
	return c.Compare.String()
}

// Describe renders the predicate, e.g. `starts with "Broad"`.
func (c StringCriteria) Describe() string {
	if c.Compare == Any || c.Compare == "" {
		return Any.String()
	}
	return fmt.Sprintf("%s \"%s\"", c.Compare.String(), c.Qualifier)
}
