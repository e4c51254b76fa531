package solver

import (
	"github.com/campusplan/sectionsolver/internal/timing"
)

// assignmentBudget bounds a depth-first enumeration with an explicit
// counter instead of shared mutable closures.
type assignmentBudget struct {
	remaining int
}

func (b *assignmentBudget) exhausted() bool {
	return b.remaining <= 0
}

func (b *assignmentBudget) take() {
	b.remaining--
}

// SearchExhaustive enumerates every valid assignment up to maxSolutions,
// then scores and ranks them, returning the top targetSize. Courses are
// visited most-constrained-first so pruning bites early. Deterministic for
// a fixed domain order.
func (s *Solver) SearchExhaustive(maxSolutions, targetSize int) []Solution {
	if len(s.courses) == 0 {
		return nil
	}

	ordered := s.coursesByDomainSize()
	budget := &assignmentBudget{remaining: maxSolutions}
	seen := make(map[string]struct{})

	var assignments [][]SlotOption
	s.backtrack(ordered, 0, nil, make(map[timing.Cell]struct{}), budget, func(picks []SlotOption) {
		sig := signature(picks)
		if _, dup := seen[sig]; dup {
			return
		}
		seen[sig] = struct{}{}
		assignments = append(assignments, picks)
	})

	solutions := make([]Solution, 0, len(assignments))
	for _, picks := range assignments {
		details := s.buildDetails(picks)
		details.Method = "exhaustive"
		details.PoolSize = len(assignments)
		solutions = append(solutions, s.newSolution(picks, s.averageScore(picks), details))
	}
	sortByScore(solutions)
	return truncate(solutions, targetSize)
}

// backtrack is the shared depth-first routine: one option per course,
// pruning on the conflict matrix and the occupied-cell set. emit receives
// an owned copy of each complete assignment.
func (s *Solver) backtrack(
	ordered []Course,
	index int,
	selected []SlotOption,
	occupied map[timing.Cell]struct{},
	budget *assignmentBudget,
	emit func(picks []SlotOption),
) {
	if budget.exhausted() {
		return
	}
	if index == len(ordered) {
		budget.take()
		picks := make([]SlotOption, len(selected))
		copy(picks, selected)
		emit(picks)
		return
	}

	for _, option := range s.domains[ordered[index].ID] {
		if budget.exhausted() {
			return
		}
		if s.clashesSelected(option, selected) || s.overlapsOccupied(option, occupied) {
			continue
		}

		cells := s.optionCells(option)
		for cell := range cells {
			occupied[cell] = struct{}{}
		}
		s.backtrack(ordered, index+1, append(selected, option), occupied, budget, emit)
		for cell := range cells {
			delete(occupied, cell)
		}
	}
}

func (s *Solver) clashesSelected(option SlotOption, selected []SlotOption) bool {
	for _, existing := range selected {
		if s.clash(option.ID, existing.ID) {
			return true
		}
	}
	return false
}

// CountSolutions counts valid complete assignments, stopping at maxCount.
func (s *Solver) CountSolutions(maxCount int) int {
	if len(s.courses) == 0 {
		return 0
	}

	count := 0
	budget := &assignmentBudget{remaining: maxCount}
	s.backtrack(s.courses, 0, nil, make(map[timing.Cell]struct{}), budget, func([]SlotOption) {
		count++
	})
	return count
}

// CountDistinctPatterns counts valid combinations of distinct meeting
// patterns, ignoring which faculty teaches them. Only literal time overlap
// is checked here; mutual-exclusion groups are assumed to coincide with a
// time overlap for these patterns (not verified for arbitrary groups).
func (s *Solver) CountDistinctPatterns(maxCount int) int {
	if len(s.courses) == 0 {
		return 0
	}

	codesPerCourse := make([][]string, 0, len(s.courses))
	for _, course := range s.courses {
		unique := make(map[string]struct{})
		for _, o := range s.viable[course.ID] {
			if !s.excluded(o) {
				unique[o.Code] = struct{}{}
			}
		}
		if len(unique) == 0 {
			return 0
		}
		codes := make([]string, 0, len(unique))
		for code := range unique {
			codes = append(codes, code)
		}
		codesPerCourse = append(codesPerCourse, codes)
	}

	count := 0
	occupied := make(map[timing.Cell]struct{})

	var walk func(index int)
	walk = func(index int) {
		if count >= maxCount {
			return
		}
		if index == len(codesPerCourse) {
			count++
			return
		}

		for _, pattern := range codesPerCourse[index] {
			if count >= maxCount {
				return
			}

			cells, clash := patternCells(pattern, occupied)
			if clash {
				continue
			}
			for _, cell := range cells {
				occupied[cell] = struct{}{}
			}
			walk(index + 1)
			for _, cell := range cells {
				delete(occupied, cell)
			}
		}
	}
	walk(0)
	return count
}

// patternCells resolves a meeting pattern into grid cells, reporting a
// clash against the occupied set.
func patternCells(pattern string, occupied map[timing.Cell]struct{}) ([]timing.Cell, bool) {
	option := SlotOption{Code: pattern}
	var cells []timing.Cell
	for _, code := range option.Cells() {
		m, ok := timing.Lookup(code)
		if !ok {
			continue
		}
		if _, taken := occupied[m.Cell()]; taken {
			return nil, true
		}
		cells = append(cells, m.Cell())
	}
	return cells, false
}

func truncate(solutions []Solution, limit int) []Solution {
	if limit >= 0 && len(solutions) > limit {
		return solutions[:limit]
	}
	return solutions
}
