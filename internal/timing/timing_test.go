package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	t.Run("known codes resolve", func(t *testing.T) {
		m, ok := Lookup("A11")
		assert.True(t, ok)
		assert.Equal(t, Monday, m.Day)
		assert.Equal(t, 1, m.Period)
		assert.Equal(t, "08:30", m.Start)
		assert.Equal(t, "10:00", m.End)

		m, ok = Lookup("D23")
		assert.True(t, ok)
		assert.Equal(t, Saturday, m.Day)
		assert.Equal(t, 4, m.Period)
	})

	t.Run("unknown code is absent", func(t *testing.T) {
		_, ok := Lookup("Z99")
		assert.False(t, ok)
	})
}

func TestGridIsComplete(t *testing.T) {
	// 6 days of 7 periods, each cell covered by exactly one code.
	codes := Codes()
	assert.Len(t, codes, 42)

	seen := map[Cell]string{}
	for _, code := range codes {
		m, ok := Lookup(code)
		assert.True(t, ok)
		assert.GreaterOrEqual(t, m.Period, 1)
		assert.LessOrEqual(t, m.Period, 7)

		previous, taken := seen[m.Cell()]
		assert.False(t, taken, "cell of %v already taken by %v", code, previous)
		seen[m.Cell()] = code
	}
	assert.Len(t, seen, 42)
}

func TestExclusionGroups(t *testing.T) {
	groups := ExclusionGroups()
	assert.NotEmpty(t, groups)

	for _, group := range groups {
		assert.NotEmpty(t, group.A)
		assert.NotEmpty(t, group.B)
		for _, a := range group.A {
			assert.NotContains(t, group.B, a, "sides of an exclusion group must be disjoint")
			_, ok := Lookup(a)
			assert.True(t, ok, "exclusion code %v must resolve", a)
		}
		for _, b := range group.B {
			_, ok := Lookup(b)
			assert.True(t, ok, "exclusion code %v must resolve", b)
		}
	}
}
