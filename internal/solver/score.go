package solver

import (
	"math"

	"github.com/samber/lo"

	"github.com/campusplan/sectionsolver/internal/timing"
)

// Faculty rank scores dominate the 0-100 time curve so that a preferred
// faculty outweighs any time placement.
var facultyRankScores = []float64{1000, 800, 600}

const hardExclusionScore = -1000

// facultyScore returns the rank score when the option's faculty is among
// the course's preferred names.
func (s *Solver) facultyScore(o SlotOption) float64 {
	ranks := s.prefs.FacultyRanks[o.CourseID]
	if o.Faculty == "" || len(ranks) == 0 {
		return 0
	}
	rank := lo.IndexOf(ranks, o.Faculty)
	if rank >= 0 && rank < len(facultyRankScores) {
		return facultyRankScores[rank]
	}
	return 0
}

// timeScore maps a period to a 0-100 value according to the configured
// time mode. The avoid flags zero out the first and last teaching periods.
func (s *Solver) timeScore(period int) float64 {
	if s.prefs.AvoidEarlyMorning && period == 1 {
		return 0
	}
	if s.prefs.AvoidLateEvening && period == 7 {
		return 0
	}

	switch s.prefs.TimeMode {
	case TimeModeMorning:
		return math.Max(0, 115-float64(15*period))
	case TimeModeAfternoon:
		return math.Max(0, 10+float64(15*(period-1)))
	case TimeModeMiddle:
		return math.Max(0, 100-float64(30*abs(period-4)))
	default:
		return 50
	}
}

// scoreOption computes the quality score of a single option: the average
// over its cells of time score plus faculty score, reduced by the gap
// heuristic, amplified by the course's credit weight. Hard exclusions are
// scored strongly negative instead of being removed, for strategies that
// rank an unfiltered pool.
func (s *Solver) scoreOption(o SlotOption) float64 {
	codes := o.Cells()
	if len(codes) == 0 {
		return 0
	}

	facultyScore := s.facultyScore(o)
	avoided := o.Faculty != "" && lo.Contains(s.prefs.AvoidedFaculties, o.Faculty)

	total := 0.0
	for _, code := range codes {
		cellScore := 0.0
		switch {
		case lo.Contains(s.prefs.ExcludeCells, code) || avoided:
			cellScore = hardExclusionScore
		default:
			if m, ok := timing.Lookup(code); ok {
				cellScore = s.timeScore(m.Period)
			}
		}
		total += cellScore + facultyScore
	}

	score := total/float64(len(codes)) + gapHeuristic(codes)

	credits := 1
	if course, ok := s.byCourse[o.CourseID]; ok && course.Credits > 0 {
		credits = course.Credits
	}
	return score * float64(credits)
}

// gapHeuristic penalizes cells far from the middle of the day, which are
// statistically more likely to leave idle periods between classes.
func gapHeuristic(codes []string) float64 {
	if len(codes) == 0 {
		return 0
	}
	penalty := 0.0
	for _, code := range codes {
		if m, ok := timing.Lookup(code); ok {
			penalty += float64(8 * abs(m.Period-4))
		}
	}
	return -penalty / float64(len(codes))
}

// averageScore is the plain solution score: the mean of the chosen
// options' scores.
func (s *Solver) averageScore(picks []SlotOption) float64 {
	if len(picks) == 0 {
		return 0
	}
	return lo.SumBy(picks, s.cachedScore) / float64(len(picks))
}

// penalizedScore sums the option scores and additionally charges 2 points
// per idle gap period and 3 per Saturday cell, returning the diagnostics
// computed along the way.
func (s *Solver) penalizedScore(picks []SlotOption) (float64, Details) {
	details := s.buildDetails(picks)
	score := lo.SumBy(picks, s.cachedScore)
	score -= float64(2 * details.TotalGaps)
	score -= float64(3 * details.SaturdayCells)
	return score, details
}

func (s *Solver) cachedScore(o SlotOption) float64 {
	if score, ok := s.scores[o.ID]; ok {
		return score
	}
	return s.scoreOption(o)
}

// poolTimeScore averages the time score over every cell of the assignment;
// used by the tiered routing scenarios that rank a random pool.
func (s *Solver) poolTimeScore(picks []SlotOption) float64 {
	total, count := 0.0, 0
	for _, o := range picks {
		for _, code := range o.Cells() {
			if m, ok := timing.Lookup(code); ok {
				total += s.timeScore(m.Period)
				count++
			}
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// facultyPriorityScore sums the rank scores of every matched preferred
// faculty across the assignment.
func (s *Solver) facultyPriorityScore(picks []SlotOption) float64 {
	return lo.SumBy(picks, s.facultyScore)
}

// countFacultyMatches tallies courses assigned to one of their preferred
// faculties.
func (s *Solver) countFacultyMatches(picks []SlotOption) int {
	return lo.CountBy(picks, func(o SlotOption) bool {
		return o.Faculty != "" && lo.Contains(s.prefs.FacultyRanks[o.CourseID], o.Faculty)
	})
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
