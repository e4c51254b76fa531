package solver

import (
	"github.com/campusplan/sectionsolver/internal/timing"
)

// Enumerate walks valid assignments depth-first in a freshly shuffled
// course and domain order, skips offset distinct results, and returns up
// to limit of the rest ranked by penalized score. Useful for paginating
// through alternatives without re-ranking a large pool.
func (s *Solver) Enumerate(limit, offset int) []Solution {
	if len(s.courses) == 0 || limit <= 0 {
		return nil
	}

	order := make([]Course, len(s.courses))
	copy(order, s.courses)
	s.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	for _, course := range order {
		domain := s.domains[course.ID]
		s.rng.Shuffle(len(domain), func(i, j int) {
			domain[i], domain[j] = domain[j], domain[i]
		})
	}

	var solutions []Solution
	seen := make(map[string]struct{})
	skipped := 0
	budget := &assignmentBudget{remaining: offset + limit}

	s.backtrack(order, 0, nil, make(map[timing.Cell]struct{}), budget, func(picks []SlotOption) {
		sig := signature(picks)
		if _, dup := seen[sig]; dup {
			return
		}
		seen[sig] = struct{}{}

		if skipped < offset {
			skipped++
			return
		}
		score, details := s.penalizedScore(picks)
		details.Method = "backtracking"
		solutions = append(solutions, s.newSolution(picks, score, details))
	})

	sortByScore(solutions)
	return solutions
}
