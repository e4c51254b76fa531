package solver

import (
	"testing"

	. "github.com/onsi/gomega"
)

func scoringSolver(t *testing.T, prefs Preferences) *Solver {
	t.Helper()
	courses := []Course{course(1, "CSE101", 3), course(2, "CSE102", 1)}
	options := []SlotOption{
		option(11, 1, "A11", "Rao"),  // MON P1
		option(12, 1, "A21", "Iyer"), // MON P4
		option(21, 2, "D11", "Nair"), // TUE P1
		option(22, 2, "A24", "Das"),  // WED P7
	}
	return seededSolver(t, courses, options, prefs, 1)
}

func TestTimeScoreCurves(t *testing.T) {
	g := NewWithT(t)

	morning := scoringSolver(t, Preferences{TimeMode: TimeModeMorning})
	g.Expect(morning.timeScore(1)).To(Equal(100.0))
	g.Expect(morning.timeScore(4)).To(Equal(55.0))
	g.Expect(morning.timeScore(7)).To(Equal(10.0))

	afternoon := scoringSolver(t, Preferences{TimeMode: TimeModeAfternoon})
	g.Expect(afternoon.timeScore(1)).To(Equal(10.0))
	g.Expect(afternoon.timeScore(7)).To(Equal(100.0))

	middle := scoringSolver(t, Preferences{TimeMode: TimeModeMiddle})
	g.Expect(middle.timeScore(4)).To(Equal(100.0))
	g.Expect(middle.timeScore(3)).To(Equal(70.0))
	g.Expect(middle.timeScore(1)).To(Equal(10.0))
	g.Expect(middle.timeScore(7)).To(Equal(10.0))

	neutral := scoringSolver(t, Preferences{})
	g.Expect(neutral.timeScore(1)).To(Equal(50.0))
	g.Expect(neutral.timeScore(7)).To(Equal(50.0))
}

func TestTimeScoreAvoidFlags(t *testing.T) {
	g := NewWithT(t)

	s := scoringSolver(t, Preferences{
		TimeMode:          TimeModeMorning,
		AvoidEarlyMorning: true,
		AvoidLateEvening:  true,
	})

	g.Expect(s.timeScore(1)).To(BeZero())
	g.Expect(s.timeScore(7)).To(BeZero())
	g.Expect(s.timeScore(2)).To(Equal(85.0))
}

func TestFacultyScoreRanks(t *testing.T) {
	g := NewWithT(t)

	s := scoringSolver(t, Preferences{
		FacultyRanks: map[CourseID][]string{
			1: {"Rao", "Iyer", "Menon", "Pillai"},
		},
	})

	g.Expect(s.facultyScore(option(11, 1, "A11", "Rao"))).To(Equal(1000.0))
	g.Expect(s.facultyScore(option(12, 1, "A21", "Iyer"))).To(Equal(800.0))
	g.Expect(s.facultyScore(option(13, 1, "B11", "Menon"))).To(Equal(600.0))
	g.Expect(s.facultyScore(option(14, 1, "C11", "Pillai"))).To(BeZero(), "only the top three ranks score")
	g.Expect(s.facultyScore(option(21, 2, "D11", "Rao"))).To(BeZero(), "preferences are per course")
}

func TestGapHeuristic(t *testing.T) {
	g := NewWithT(t)

	g.Expect(gapHeuristic([]string{"A11"})).To(Equal(-24.0)) // P1
	g.Expect(gapHeuristic([]string{"A21"})).To(BeZero())     // P4
	g.Expect(gapHeuristic([]string{"A11", "A21"})).To(Equal(-12.0))
}

func TestScoreOption(t *testing.T) {
	t.Run("credit weight amplifies the score", func(t *testing.T) {
		g := NewWithT(t)
		s := scoringSolver(t, Preferences{})

		// Neutral cell score 50, gap penalty -24 at period 1.
		g.Expect(s.scoreOption(option(11, 1, "A11", "Rao"))).To(Equal(26.0 * 3))
		g.Expect(s.scoreOption(option(21, 2, "D11", "Nair"))).To(Equal(26.0 * 1))
	})

	t.Run("hard exclusions score strongly negative", func(t *testing.T) {
		g := NewWithT(t)
		s := scoringSolver(t, Preferences{AvoidedFaculties: []string{"Das"}})

		g.Expect(s.scoreOption(option(22, 2, "A24", "Das"))).To(BeNumerically("<", -500))
	})

	t.Run("excluded cell scores strongly negative", func(t *testing.T) {
		g := NewWithT(t)
		s := scoringSolver(t, Preferences{ExcludeCells: []string{"D11"}})

		g.Expect(s.scoreOption(option(21, 2, "D11", "Nair"))).To(BeNumerically("<", -500))
	})
}

func TestSolutionScores(t *testing.T) {
	g := NewWithT(t)

	s := scoringSolver(t, Preferences{})
	picks := []SlotOption{
		option(11, 1, "A11", "Rao"),  // MON P1, credits 3
		option(21, 2, "D11", "Nair"), // TUE P1, credits 1
	}

	g.Expect(s.averageScore(picks)).To(Equal((26.0*3 + 26.0*1) / 2))

	score, details := s.penalizedScore(picks)
	g.Expect(details.TotalGaps).To(BeZero())
	g.Expect(details.SaturdayCells).To(BeZero())
	g.Expect(score).To(Equal(26.0*3 + 26.0*1))
}
