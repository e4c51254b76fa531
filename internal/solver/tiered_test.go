package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func facultyPrefs() Preferences {
	return Preferences{
		FacultyRanks: map[CourseID][]string{
			1: {"Rao"},
			2: {"Das"},
		},
	}
}

func TestSearchTiered(t *testing.T) {
	t.Run("no preferences routes to plain random", func(t *testing.T) {
		s := independentInstance(t)

		solutions := s.SearchTiered(context.Background(), 5)

		require.NotEmpty(t, solutions)
		for _, sol := range solutions {
			assert.True(t, s.Verify(sol))
			assert.Equal(t, "random", sol.Details.Method)
			assert.Zero(t, sol.Score)
		}
	})

	t.Run("time preference only ranks the pool by time score", func(t *testing.T) {
		s := independentInstance(t)
		s.prefs = Preferences{TimeMode: TimeModeMorning}

		solutions := s.SearchTiered(context.Background(), 10)

		require.NotEmpty(t, solutions)
		for i, sol := range solutions {
			assert.Equal(t, "time_ranked", sol.Details.Method)
			if i > 0 {
				assert.GreaterOrEqual(t, solutions[i-1].Details.TimeScore, sol.Details.TimeScore)
			}
		}
	})

	t.Run("faculty preference only fills from the highest tier", func(t *testing.T) {
		// Course 1: Rao preferred, course 2: Das preferred; all four
		// combinations are conflict-free, so the full-match tier must
		// surface first.
		courses := []Course{course(1, "CSE101", 3), course(2, "CSE102", 3)}
		options := []SlotOption{
			option(11, 1, "A11", "Rao"),
			option(12, 1, "B11", "Iyer"),
			option(21, 2, "D11", "Das"),
			option(22, 2, "E11", "Nair"),
		}
		s := seededSolver(t, courses, options, facultyPrefs(), 7)

		solutions := s.SearchTiered(context.Background(), 10)

		require.Len(t, solutions, 4)
		assert.Equal(t, "tiered_faculty_priority", solutions[0].Details.Method)
		assert.Equal(t, 2, solutions[0].Details.Tier)
		assert.Equal(t, 2, solutions[0].Details.FacultyMatches)
		tiers := make([]int, 0, len(solutions))
		for _, sol := range solutions {
			tiers = append(tiers, sol.Details.Tier)
		}
		assert.IsNonIncreasing(t, tiers, "higher tiers must come first")
	})

	t.Run("both preferences tier by match count and break ties by time", func(t *testing.T) {
		courses := []Course{course(1, "CSE101", 3), course(2, "CSE102", 3)}
		options := []SlotOption{
			option(11, 1, "A11", "Rao"),
			option(12, 1, "B11", "Iyer"),
			option(21, 2, "D11", "Das"),
			option(22, 2, "E11", "Nair"),
		}
		prefs := facultyPrefs()
		prefs.TimeMode = TimeModeMorning
		s := seededSolver(t, courses, options, prefs, 7)

		solutions := s.SearchTiered(context.Background(), 10)

		require.Len(t, solutions, 4)
		top := solutions[0]
		assert.Equal(t, "tiered_time_ranked", top.Details.Method)
		assert.Equal(t, 2, top.Details.Tier)

		one, found := findPick(top, 1)
		require.True(t, found)
		assert.Equal(t, "Rao", one.Faculty)
		two, found := findPick(top, 2)
		require.True(t, found)
		assert.Equal(t, "Das", two.Faculty)

		// Within the same tier, higher time score wins.
		for i := 1; i < len(solutions); i++ {
			if solutions[i].Details.Tier == solutions[i-1].Details.Tier {
				assert.GreaterOrEqual(t, solutions[i-1].Details.TimeScore, solutions[i].Details.TimeScore)
			}
		}
	})
}

func TestSearchTieredPool(t *testing.T) {
	courses := []Course{course(1, "CSE101", 3), course(2, "CSE102", 3)}
	options := []SlotOption{
		option(11, 1, "A11", "Rao"),
		option(12, 1, "B11", "Iyer"),
		option(21, 2, "D11", "Das"),
		option(22, 2, "E11", "Nair"),
	}
	s := seededSolver(t, courses, options, facultyPrefs(), 7)

	solutions := s.SearchTieredPool(context.Background(), 100, 10)

	require.NotEmpty(t, solutions)
	for _, sol := range solutions {
		assert.True(t, s.Verify(sol))
		assert.Equal(t, "tiered_pool", sol.Details.Method)
	}

	// The all-preferred assignment is reachable and must rank first given
	// its dominant faculty scores.
	top := solutions[0]
	assert.Equal(t, 2, top.Details.Tier)
}
