package solver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusplan/sectionsolver/internal/timing"
)

func TestBuildDetails(t *testing.T) {
	t.Run("gaps count idle periods between classes", func(t *testing.T) {
		courses := []Course{course(1, "CSE101", 3), course(2, "CSE102", 3)}
		options := []SlotOption{
			option(11, 1, "A11", "Rao"), // MON P1
			option(21, 2, "C11", "Das"), // MON P3
		}
		s := seededSolver(t, courses, options, Preferences{}, 1)

		details := s.buildDetails([]SlotOption{options[0], options[1]})

		assert.Equal(t, 1, details.GapsPerDay[timing.Monday])
		assert.Equal(t, 1, details.TotalGaps)
		assert.Zero(t, details.SaturdayCells)
	})

	t.Run("saturday cells are tallied", func(t *testing.T) {
		courses := []Course{course(1, "CSE101", 3)}
		options := []SlotOption{option(11, 1, "D13+E13", "Rao")} // SAT P1+P2
		s := seededSolver(t, courses, options, Preferences{}, 1)

		details := s.buildDetails([]SlotOption{options[0]})

		assert.Equal(t, 2, details.SaturdayCells)
		assert.Zero(t, details.TotalGaps)
	})

	t.Run("faculty matches are counted per course", func(t *testing.T) {
		s := twoCourseInstance(t, Preferences{
			FacultyRanks: map[CourseID][]string{1: {"Rao"}, 2: {"Das"}},
		})

		details := s.buildDetails([]SlotOption{
			option(11, 1, "A11", "Rao"),
			option(22, 2, "D11", "Das"),
		})

		assert.Equal(t, 2, details.FacultyMatches)
	})
}

func TestSlotOptionCells(t *testing.T) {
	assert.Equal(t, []string{"A11", "A12"}, SlotOption{Code: "A11+A12"}.Cells())
	assert.Equal(t, []string{"B21", "E14"}, SlotOption{Code: "B21/E14"}.Cells())
	assert.Equal(t, []string{"C11"}, SlotOption{Code: "C11"}.Cells())
}

func TestInputFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	payload := `{
		"courses": [
			{"id": 1, "code": "CSE101", "name": "Data Structures", "credits": 4}
		],
		"options": [
			{"id": 11, "course_id": 1, "code": "A11+A12", "faculty": "Rao", "venue": "CR-011"}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	input, err := InputFromJSON(path)

	require.NoError(t, err)
	require.Len(t, input.Courses, 1)
	assert.Equal(t, CourseID(1), input.Courses[0].ID)
	assert.Equal(t, 4, input.Courses[0].Credits)
	require.Len(t, input.Options, 1)
	assert.Equal(t, "A11+A12", input.Options[0].Code)
	assert.Equal(t, "Rao", input.Options[0].Faculty)
}

func TestParseFacultyRanks(t *testing.T) {
	ranks, err := ParseFacultyRanks(map[string][]string{"42": {"Rao", "Iyer"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rao", "Iyer"}, ranks[42])

	_, err = ParseFacultyRanks(map[string][]string{"not-a-number": {"Rao"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
