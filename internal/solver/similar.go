package solver

import (
	"github.com/campusplan/sectionsolver/internal/timing"
)

// SearchSimilar generates assignments close to a reference solution by
// holding all but one or two courses fixed to their reference option and
// enumerating replacements for the rest, single-course variations first.
func (s *Solver) SearchSimilar(reference Solution, limit int) []Solution {
	if len(s.courses) == 0 {
		return nil
	}

	refByCourse := make(map[CourseID]SlotOption, len(reference.Picks))
	for _, o := range reference.Picks {
		refByCourse[o.CourseID] = o
	}

	var solutions []Solution
	seen := map[string]struct{}{
		signature(reference.Picks): {},
	}

	for _, varyCount := range []int{1, 2} {
		if len(solutions) >= limit {
			break
		}
		for _, varied := range combinations(len(s.courses), varyCount) {
			if len(solutions) >= limit {
				break
			}
			if picks := s.varyReference(refByCourse, varied, seen); picks != nil {
				score, details := s.penalizedScore(picks)
				details.Method = "similar"
				solutions = append(solutions, s.newSolution(picks, score, details))
			}
		}
	}
	return truncate(solutions, limit)
}

// varyReference keeps the reference picks for every course except the
// varied indices and first-fits an alternative for those. Returns nil when
// no unseen valid variation exists.
func (s *Solver) varyReference(refByCourse map[CourseID]SlotOption, varied []int, seen map[string]struct{}) []SlotOption {
	variedSet := make(map[int]struct{}, len(varied))
	for _, i := range varied {
		variedSet[i] = struct{}{}
	}

	var selected []SlotOption
	occupied := make(map[timing.Cell]struct{})
	for i, course := range s.courses {
		if _, vary := variedSet[i]; vary {
			continue
		}
		ref, ok := refByCourse[course.ID]
		if !ok {
			return nil
		}
		selected = append(selected, ref)
		for cell := range s.optionCells(ref) {
			occupied[cell] = struct{}{}
		}
	}

	for _, idx := range varied {
		course := s.courses[idx]
		ref := refByCourse[course.ID]

		placed := false
		for _, option := range s.domains[course.ID] {
			if option.ID == ref.ID {
				continue
			}
			if s.clashesSelected(option, selected) || s.overlapsOccupied(option, occupied) {
				continue
			}
			for cell := range s.optionCells(option) {
				occupied[cell] = struct{}{}
			}
			selected = append(selected, option)
			placed = true
			break
		}
		if !placed {
			return nil
		}
	}

	if len(selected) != len(s.courses) {
		return nil
	}
	sig := signature(selected)
	if _, dup := seen[sig]; dup {
		return nil
	}
	seen[sig] = struct{}{}
	return selected
}

// combinations enumerates the r-element index subsets of 0..n-1 in
// lexicographic order.
func combinations(n, r int) [][]int {
	if r > n || r <= 0 {
		return nil
	}

	indices := make([]int, r)
	for i := range indices {
		indices[i] = i
	}

	var result [][]int
	for {
		current := make([]int, r)
		copy(current, indices)
		result = append(result, current)

		i := r - 1
		for i >= 0 && indices[i] == i+n-r {
			i--
		}
		if i < 0 {
			return result
		}
		indices[i]++
		for j := i + 1; j < r; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}
