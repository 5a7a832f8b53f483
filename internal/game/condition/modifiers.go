package condition

// AttributePenalty returns the total penalty that active conditions apply
// to attribute id, as a value to subtract.
//
// Postcondition: Returns >= 0. A nil set has no penalty.
func AttributePenalty(s *ActiveSet, id string) int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, a := range s.conditions {
		total += a.Def.AttributePenalties[id] * a.Stacks
	}
	return total
}
