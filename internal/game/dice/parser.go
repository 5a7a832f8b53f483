package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultSides is the die size assumed when GURPS notation omits it.
const DefaultSides = 6

// Expression represents a parsed dice expression ready to be rolled.
//
// Invariant: Count >= 0, Sides >= 2. Count == 0 denotes a constant.
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

// String renders the expression in canonical form: "3d6", "2d6+1", "5".
func (e Expression) String() string {
	if e.Count == 0 {
		return strconv.Itoa(e.Modifier)
	}
	s := fmt.Sprintf("%dd%d", e.Count, e.Sides)
	if e.Modifier != 0 {
		s += fmt.Sprintf("%+d", e.Modifier)
	}
	return s
}

// Parse parses a dice expression string into an Expression.
// Supported forms: "3d6", "d20", "2d", "2d+1", "1d6-2", and plain integers.
// Omitted sides default to 6.
//
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a valid Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	raw := expr
	s := strings.ToLower(strings.ReplaceAll(expr, " ", ""))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		mod, err := strconv.Atoi(s)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", raw)
		}
		return Expression{Raw: raw, Sides: DefaultSides, Modifier: mod}, nil
	}

	// Count defaults to 1 when omitted.
	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
		if count <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", raw)
		}
	}

	rest := s[dIdx+1:]
	sidesStr, modStr := rest, ""
	if i := strings.IndexAny(rest, "+-"); i >= 0 {
		sidesStr, modStr = rest[:i], rest[i:]
	}

	sides := DefaultSides
	if sidesStr != "" {
		var err error
		sides, err = strconv.Atoi(sidesStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
		}
		if sides < 2 {
			return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", raw)
		}
	}

	modifier := 0
	if modStr != "" {
		var err error
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
	}

	return Expression{Raw: raw, Count: count, Sides: sides, Modifier: modifier}, nil
}

var sidelessDice = regexp.MustCompile(`(\d+)d(\d*)`)

// D6ify rewrites GURPS shorthand dice in text to explicit six-sided dice:
// "2d+1 cut" becomes "2d6+1 cut". Dice that already name their sides are
// left alone.
func D6ify(text string) string {
	return sidelessDice.ReplaceAllStringFunc(text, func(m string) string {
		if strings.HasSuffix(m, "d") {
			return m + strconv.Itoa(DefaultSides)
		}
		return m
	})
}

// Damage is a parsed weapon damage entry such as "2d+1(2) cut".
type Damage struct {
	Dice         Expression
	ArmorDivisor string // "" when the attack has no divisor
	Type         string // "cut", "pi+", "cr" ...
}

// String renders the damage in sheet notation.
func (d Damage) String() string {
	s := d.Dice.String()
	if d.ArmorDivisor != "" {
		s += "(" + d.ArmorDivisor + ")"
	}
	if d.Type != "" {
		s += " " + d.Type
	}
	return s
}

var damagePattern = regexp.MustCompile(`^\s*(\d*d\d*(?:\s*[+-]\s*\d+)?|[+-]?\d+)\s*(?:\(([0-9.]+)\))?\s*(.*?)\s*$`)

// ParseDamage reads a damage string: dice, an optional armor divisor in
// parentheses and an optional damage type.
//
// Postcondition: Returns an error when text does not start with dice.
func ParseDamage(text string) (Damage, error) {
	m := damagePattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return Damage{}, fmt.Errorf("dice: invalid damage %q", text)
	}
	expr, err := Parse(m[1])
	if err != nil {
		return Damage{}, fmt.Errorf("dice: invalid damage %q: %w", text, err)
	}
	return Damage{Dice: expr, ArmorDivisor: m[2], Type: m[3]}, nil
}
