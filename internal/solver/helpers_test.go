package solver

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func course(id CourseID, code string, credits int) Course {
	return Course{ID: id, Code: code, Name: code, Credits: credits}
}

func option(id OptionID, courseID CourseID, code, faculty string) SlotOption {
	return SlotOption{ID: id, CourseID: courseID, Code: code, Faculty: faculty, Venue: "CR-001"}
}

func seededSolver(t *testing.T, courses []Course, options []SlotOption, prefs Preferences, seed int64) *Solver {
	t.Helper()
	s, err := New(courses, options, prefs, WithRand(rand.New(rand.NewSource(seed))))
	require.NoError(t, err)
	return s
}

// twoCourseInstance is the canonical small case: course A meets Monday
// period 1 or 2, course B meets Monday period 1 or Tuesday period 1. Three
// of the four combinations are valid.
func twoCourseInstance(t *testing.T, prefs Preferences) *Solver {
	t.Helper()
	courses := []Course{course(1, "CSE101", 3), course(2, "CSE102", 4)}
	options := []SlotOption{
		option(11, 1, "A11", "Rao"),  // MON P1
		option(12, 1, "B11", "Iyer"), // MON P2
		option(21, 2, "A11", "Nair"), // MON P1
		option(22, 2, "D11", "Das"),  // TUE P1
	}
	return seededSolver(t, courses, options, prefs, 7)
}

// independentInstance builds three courses with two options each on
// pairwise disjoint cells, giving exactly 2x2x2 valid assignments.
func independentInstance(t *testing.T) *Solver {
	t.Helper()
	courses := []Course{course(1, "CSE101", 3), course(2, "CSE102", 3), course(3, "CSE103", 3)}
	options := []SlotOption{
		option(11, 1, "A11", "Rao"),  // MON P1
		option(12, 1, "B11", "Iyer"), // MON P2
		option(21, 2, "D11", "Nair"), // TUE P1
		option(22, 2, "E11", "Das"),  // TUE P2
		option(31, 3, "A12", "Bose"), // WED P1
		option(32, 3, "B12", "Sen"),  // WED P2
	}
	return seededSolver(t, courses, options, Preferences{}, 7)
}
