// Package fxp implements the four-decimal fixed-point numbers used for
// equipment value, weight and leveled feature amounts.
package fxp

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Int is a signed fixed-point value scaled by 10^4.
//
// Invariant: all arithmetic truncates toward zero; no operation rounds
// unless it is named Round.
type Int int64

const (
	// Precision is the number of decimal places carried.
	Precision = 4
	// One is the value 1.
	One Int = 10000
	// Hundred is the value 100.
	Hundred = 100 * One
)

// FromInteger converts a whole number.
func FromInteger(v int) Int {
	return Int(v) * One
}

// FromFloat converts v, truncating beyond four decimals.
//
// The conversion goes through the shortest decimal representation so that
// values such as 0.29 do not lose their last digit to binary drift.
func FromFloat(v float64) Int {
	f, err := FromString(strconv.FormatFloat(v, 'f', -1, 64))
	if err != nil {
		return 0
	}
	return f
}

// FromString parses a decimal such as "12", "-0.5" or "+3.14159".
// Digits past the fourth decimal are truncated.
//
// Precondition: s is a plain decimal with an optional sign.
// Postcondition: returns an error for empty or malformed input.
func FromString(s string) (Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("fxp: empty number")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("fxp: malformed number %q", s)
	}
	var v int64
	if whole != "" {
		w, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("fxp: malformed number %q: %w", s, err)
		}
		v = w * int64(One)
	}
	if frac != "" {
		if len(frac) > Precision {
			frac = frac[:Precision]
		}
		for len(frac) < Precision {
			frac += "0"
		}
		f, err := strconv.ParseUint(frac, 10, 64)
		if err != nil || strings.ContainsAny(frac, "+-") {
			return 0, fmt.Errorf("fxp: malformed fraction in %q", s)
		}
		v += int64(f)
	}
	if neg {
		v = -v
	}
	return Int(v), nil
}

// Extract parses the leading decimal number of s, ignoring anything after
// it. Returns 0 when s does not start with a number.
func Extract(s string) Int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	v, err := FromString(s[:end])
	if err != nil {
		return 0
	}
	return v
}

// Mul returns v*other truncated to four decimals.
func (v Int) Mul(other Int) Int {
	return v * other / One
}

// Div returns v/other truncated to four decimals.
//
// Precondition: other != 0.
func (v Int) Div(other Int) Int {
	return v * One / other
}

// Trunc drops the fractional part.
func (v Int) Trunc() Int {
	return v / One * One
}

// Round rounds half away from zero to a whole number.
func (v Int) Round() Int {
	if v < 0 {
		return -((-v + One/2) / One * One)
	}
	return (v + One/2) / One * One
}

// AsInt returns the whole part.
func (v Int) AsInt() int {
	return int(v / One)
}

// AsFloat returns v as a float64.
func (v Int) AsFloat() float64 {
	return float64(v) / float64(One)
}

// Max returns the larger of v and other.
func (v Int) Max(other Int) Int {
	if v > other {
		return v
	}
	return other
}

// Min returns the smaller of v and other.
func (v Int) Min(other Int) Int {
	if v < other {
		return v
	}
	return other
}

// String renders v without trailing zeros, e.g. "2.5" or "-3".
func (v Int) String() string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v / One)
	frac := int64(v % One)
	s := strconv.FormatInt(whole, 10)
	if frac != 0 {
		fs := fmt.Sprintf("%04d", frac)
		s += "." + strings.TrimRight(fs, "0")
	}
	if neg {
		s = "-" + s
	}
	return s
}

// StringWithSign renders v with a leading "+" when non-negative.
func (v Int) StringWithSign() string {
	if v >= 0 {
		return "+" + v.String()
	}
	return v.String()
}

// MarshalYAML writes v as a plain decimal string.
func (v Int) MarshalYAML() (any, error) {
	return v.String(), nil
}

// UnmarshalYAML accepts decimal strings and numbers.
func (v *Int) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := FromString(node.Value)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
