package skill

import (
	"fmt"

	"github.com/raianasancho/gcsga/internal/game/fxp"
)

// DefaultStudyHoursNeeded is the study time that buys one point.
const DefaultStudyHoursNeeded = 200

// StudyType is how time was spent learning.
type StudyType string

const (
	StudySelf      StudyType = "self"
	StudyJob       StudyType = "job"
	StudyTeacher   StudyType = "teacher"
	StudyIntensive StudyType = "intensive"
)

// Multiplier converts raw hours of this kind into effective study hours.
func (t StudyType) Multiplier() fxp.Int {
	switch t {
	case StudySelf:
		return fxp.One / 2
	case StudyJob:
		return fxp.One / 4
	case StudyIntensive:
		return 2 * fxp.One
	default:
		return fxp.One
	}
}

// Study is a block of time spent learning.
type Study struct {
	Type  StudyType `yaml:"type"`
	Hours fxp.Int   `yaml:"hours"`
	Note  string    `yaml:"note,omitempty"`
}

// AdjustedHours returns the effective hours of this block.
func (st Study) AdjustedHours() fxp.Int {
	return st.Hours.Mul(st.Type.Multiplier())
}

// StudyHours sums the effective hours of every study block.
func (s *Skill) StudyHours() fxp.Int {
	var total fxp.Int
	for _, st := range s.Studies {
		total += st.AdjustedHours()
	}
	return total
}

// StudyProgress renders "Studied 120 of 200 hours", or "" when nothing
// has been studied.
func (s *Skill) StudyProgress() string {
	hours := s.StudyHours()
	if hours <= 0 {
		return ""
	}
	needed := s.StudyHoursNeeded
	if needed <= 0 {
		needed = DefaultStudyHoursNeeded
	}
	return fmt.Sprintf("Studied %s of %d hours", hours, needed)
}
