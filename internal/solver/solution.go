package solver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/campusplan/sectionsolver/internal/timing"
)

// Details carries the human-readable diagnostics attached to every
// finished solution. They are informational; only the strategies that say
// so fold them into the score.
type Details struct {
	Method          string             `json:"method"`
	FacultyMatches  int                `json:"faculty_matches"`
	GapsPerDay      map[timing.Day]int `json:"gaps_per_day"`
	TotalGaps       int                `json:"total_gaps"`
	SaturdayCells   int                `json:"saturday_cells"`
	Tier            int                `json:"tier,omitempty"`
	PoolSize        int                `json:"pool_size,omitempty"`
	TimeScore       float64            `json:"time_score,omitempty"`
	FacultyPriority float64            `json:"faculty_priority,omitempty"`
}

// Solution is one complete assignment: exactly one slot option per course,
// with its score, credit sum, and diagnostics.
type Solution struct {
	Picks        []SlotOption `json:"picks"`
	Score        float64      `json:"score"`
	TotalCredits int          `json:"total_credits"`
	Details      Details      `json:"details"`
}

func (s *Solver) newSolution(picks []SlotOption, score float64, details Details) Solution {
	return Solution{
		Picks:        picks,
		Score:        score,
		TotalCredits: s.totalCredits(picks),
		Details:      details,
	}
}

func (s *Solver) totalCredits(picks []SlotOption) int {
	return lo.SumBy(picks, func(o SlotOption) int {
		return s.byCourse[o.CourseID].Credits
	})
}

// buildDetails assembles diagnostics for a complete assignment: preferred
// faculty matches, idle gaps per day (unused periods strictly between the
// first and last class of the day), and Saturday load.
func (s *Solver) buildDetails(picks []SlotOption) Details {
	details := Details{
		FacultyMatches: s.countFacultyMatches(picks),
		GapsPerDay:     make(map[timing.Day]int),
	}

	dayPeriods := make(map[timing.Day][]int)
	for _, o := range picks {
		for _, code := range o.Cells() {
			m, ok := timing.Lookup(code)
			if !ok {
				continue
			}
			dayPeriods[m.Day] = append(dayPeriods[m.Day], m.Period)
			if m.Day == timing.Saturday {
				details.SaturdayCells++
			}
		}
	}

	for day, periods := range dayPeriods {
		sort.Ints(periods)
		gaps := 0
		for i := 1; i < len(periods); i++ {
			if gap := periods[i] - periods[i-1] - 1; gap > 0 {
				gaps += gap
			}
		}
		details.GapsPerDay[day] = gaps
		details.TotalGaps += gaps
	}
	return details
}

// signature is the duplicate-suppression key: a canonical encoding of the
// chosen option-id set.
func signature(picks []SlotOption) string {
	ids := lo.Map(picks, func(o SlotOption, _ int) uint64 { return uint64(o.ID) })
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := lo.Map(ids, func(id uint64, _ int) string { return fmt.Sprint(id) })
	return strings.Join(parts, ",")
}

// Verify independently checks a solution against the session's invariants:
// exactly one pick per course, every cell resolvable, no shared grid cell,
// and no mutual-exclusion pairing violated.
func (s *Solver) Verify(sol Solution) bool {
	if len(sol.Picks) != len(s.courses) {
		return false
	}

	seenCourses := make(map[CourseID]struct{}, len(sol.Picks))
	occupied := make(map[timing.Cell]struct{})
	for _, o := range sol.Picks {
		if _, ok := s.byCourse[o.CourseID]; !ok {
			return false
		}
		if _, dup := seenCourses[o.CourseID]; dup {
			return false
		}
		seenCourses[o.CourseID] = struct{}{}

		for _, code := range o.Cells() {
			m, ok := timing.Lookup(code)
			if !ok {
				return false
			}
			if _, taken := occupied[m.Cell()]; taken {
				return false
			}
			occupied[m.Cell()] = struct{}{}
		}
	}

	for i, a := range sol.Picks {
		for _, b := range sol.Picks[i+1:] {
			if s.optionsClash(a, b) {
				return false
			}
		}
	}
	return true
}

// sortByScore orders solutions best-first, keeping insertion order for
// ties so seeded runs stay deterministic.
func sortByScore(solutions []Solution) {
	sort.SliceStable(solutions, func(i, j int) bool {
		return solutions[i].Score > solutions[j].Score
	})
}
