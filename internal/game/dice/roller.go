package dice

// Roll throws expr's dice on src. A constant expression throws none and
// still reports an empty face list.
//
// Precondition: expr must come from Parse; src must be non-nil.
func Roll(expr Expression, src Source) RollResult {
	faces := make([]int, expr.Count)
	for i := range faces {
		faces[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{Expression: expr.String(), Dice: faces, Modifier: expr.Modifier}
}
