package roll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/raianasancho/gcsga/internal/game/roll"
)

func TestGetSuccess_Table(t *testing.T) {
	cases := []struct {
		level, total int
		want         roll.Success
	}{
		{16, 6, roll.CriticalSuccess},
		{10, 18, roll.CriticalFailure},
		{14, 17, roll.CriticalFailure},
		{16, 17, roll.Failed},
		{3, 4, roll.CriticalSuccess},
		{15, 5, roll.CriticalSuccess},
		{14, 5, roll.Succeeded},
		{15, 6, roll.Succeeded},
		{5, 15, roll.CriticalFailure},
		{6, 15, roll.Failed},
		{12, 12, roll.Succeeded},
		{12, 13, roll.Failed},
		{25, 18, roll.CriticalFailure},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, roll.GetSuccess(tc.level, tc.total), "level %d total %d", tc.level, tc.total)
	}
}

func TestGetMargin(t *testing.T) {
	s, m := roll.GetMargin("DX", 12, 12)
	assert.Equal(t, roll.Succeeded, s)
	assert.Equal(t, 0, m.Value)
	assert.Equal(t, "zero", m.Class)
	assert.Equal(t, "Just made it", m.Text)

	s, m = roll.GetMargin("DX", 12, 9)
	assert.Equal(t, roll.Succeeded, s)
	assert.Equal(t, "pos", m.Class)
	assert.Equal(t, "Succeeded by 3", m.Text)
	assert.Equal(t, 3, m.Modifier.Modifier)
	assert.Equal(t, "Success from DX", m.Modifier.Name)

	s, m = roll.GetMargin("DX", 10, 14)
	assert.Equal(t, roll.Failed, s)
	assert.Equal(t, 4, m.Value)
	assert.Equal(t, "neg", m.Class)
	assert.Equal(t, -4, m.Modifier.Modifier)
	assert.Equal(t, "Failure from DX", m.Modifier.Name)
}

func TestGetMargin_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		level := rapid.IntRange(-10, 30).Draw(t, "level")
		total := rapid.IntRange(3, 18).Draw(t, "total")
		s, m := roll.GetMargin("x", level, total)
		if m.Value < 0 {
			t.Fatalf("negative margin %d", m.Value)
		}
		if total == 18 && s != roll.CriticalFailure {
			t.Fatalf("18 must always critically fail, got %s", s)
		}
		if total <= 4 && s != roll.CriticalSuccess {
			t.Fatalf("%d must always critically succeed, got %s", total, s)
		}
		if s == roll.Succeeded && level < total {
			t.Fatalf("plain success above level: level %d total %d", level, total)
		}
		if s == roll.Failed && level >= total {
			t.Fatalf("plain failure at or below level: level %d total %d", level, total)
		}
		// Raising the level never turns a success into a failure.
		s2 := roll.GetSuccess(level+1, total)
		if s.IsSuccess() && !s2.IsSuccess() {
			t.Fatalf("success at %d but not at %d for total %d", level, level+1, total)
		}
	})
}

func TestParseType(t *testing.T) {
	for _, tt := range roll.Types {
		got, err := roll.ParseType(string(tt))
		assert.NoError(t, err)
		assert.Equal(t, tt, got)
	}
	_, err := roll.ParseType("fright")
	assert.ErrorIs(t, err, roll.ErrUnknownType)
}

func TestEncumbranceName(t *testing.T) {
	assert.Equal(t, "None", roll.EncumbranceName(0))
	assert.Equal(t, "Medium", roll.EncumbranceName(2))
	assert.Equal(t, "Extra-Heavy", roll.EncumbranceName(4))
}
