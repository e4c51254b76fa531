package solver

import (
	"context"

	"github.com/campusplan/sectionsolver/internal/timing"
)

const (
	// diversityFloor is the lowest the acceptance threshold relaxes to.
	diversityFloor = 5.0
	// diversityRelaxStep is subtracted from the threshold after a streak
	// of consecutive rejections, guaranteeing forward progress.
	diversityRelaxStep = 5.0
	// diversityRejectStreak triggers the relaxation.
	diversityRejectStreak = 20
)

// timeSignature summarizes when an assignment meets, for similarity
// comparison across solutions.
type timeSignature struct {
	days    map[timing.Day]struct{}
	periods map[int]struct{}
}

func (s *Solver) timeSignatureOf(picks []SlotOption) timeSignature {
	sig := timeSignature{
		days:    make(map[timing.Day]struct{}),
		periods: make(map[int]struct{}),
	}
	for _, o := range picks {
		for cell := range s.optionCells(o) {
			sig.days[cell.Day] = struct{}{}
			sig.periods[cell.Period] = struct{}{}
		}
	}
	return sig
}

// similarity weighs shared option ids most, then shared days, then shared
// periods. Lower means more different.
func (s *Solver) similarity(picks []SlotOption, sig timeSignature, other Solution) float64 {
	otherSig := s.timeSignatureOf(other.Picks)
	otherIDs := make(map[OptionID]struct{}, len(other.Picks))
	for _, o := range other.Picks {
		otherIDs[o.ID] = struct{}{}
	}

	shared := 0
	for _, o := range picks {
		if _, ok := otherIDs[o.ID]; ok {
			shared++
		}
	}
	sharedDays := 0
	for day := range sig.days {
		if _, ok := otherSig.days[day]; ok {
			sharedDays++
		}
	}
	sharedPeriods := 0
	for period := range sig.periods {
		if _, ok := otherSig.periods[period]; ok {
			sharedPeriods++
		}
	}
	return float64(shared*10 + sharedDays*2 + sharedPeriods)
}

// diversityScore maps the closest accepted neighbor's similarity onto a
// 0-100 scale where higher means more different.
func (s *Solver) diversityScore(picks []SlotOption, accepted []Solution) float64 {
	if len(accepted) == 0 {
		return 100
	}
	sig := s.timeSignatureOf(picks)
	minSimilarity := -1.0
	for _, existing := range accepted {
		if sim := s.similarity(picks, sig, existing); minSimilarity < 0 || sim < minSimilarity {
			minSimilarity = sim
		}
	}
	return max(0, 100-minSimilarity*5)
}

// SearchDiverse collects up to limit assignments whose diversity against
// every accepted one stays at or above the threshold. The first solution is
// always accepted; after diversityRejectStreak consecutive rejections the
// threshold relaxes by diversityRelaxStep, never below diversityFloor.
func (s *Solver) SearchDiverse(ctx context.Context, limit int, minDiversity float64) []Solution {
	if len(s.courses) == 0 {
		return nil
	}

	// With an active preference the greedy domain order embodies it, so
	// only shuffle domains when nothing is preferred.
	shuffleDomains := !s.prefs.hasTimePrefs() && !s.prefs.hasFacultyPrefs()

	var solutions []Solution
	seen := make(map[string]struct{})
	threshold := minDiversity
	rejectStreak := 0
	budget := &assignmentBudget{remaining: limit * 50}

	order := make([]Course, len(s.courses))
	copy(order, s.courses)

	for len(solutions) < limit && !budget.exhausted() {
		if ctx.Err() != nil {
			break
		}

		s.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		if shuffleDomains {
			for _, course := range order {
				domain := s.domains[course.ID]
				s.rng.Shuffle(len(domain), func(i, j int) {
					domain[i], domain[j] = domain[j], domain[i]
				})
			}
		}

		picks := s.firstAssignment(order, budget)
		if picks == nil {
			break
		}

		sig := signature(picks)
		if _, dup := seen[sig]; dup {
			budget.take()
			continue
		}

		if rejectStreak > diversityRejectStreak {
			threshold = max(diversityFloor, threshold-diversityRelaxStep)
			rejectStreak = 0
		}

		if diversity := s.diversityScore(picks, solutions); diversity >= threshold || len(solutions) == 0 {
			seen[sig] = struct{}{}
			score, details := s.penalizedScore(picks)
			details.Method = "diverse"
			solutions = append(solutions, s.newSolution(picks, score, details))
			rejectStreak = 0
		} else {
			rejectStreak++
		}
	}
	return solutions
}

// firstAssignment returns the first complete assignment found by
// depth-first search over the given course order, charging the budget per
// option tried.
func (s *Solver) firstAssignment(order []Course, budget *assignmentBudget) []SlotOption {
	var walk func(index int, selected []SlotOption, occupied map[timing.Cell]struct{}) []SlotOption
	walk = func(index int, selected []SlotOption, occupied map[timing.Cell]struct{}) []SlotOption {
		if budget.exhausted() {
			return nil
		}
		if index == len(order) {
			picks := make([]SlotOption, len(selected))
			copy(picks, selected)
			return picks
		}

		for _, option := range s.domains[order[index].ID] {
			budget.take()
			if budget.exhausted() {
				return nil
			}
			if s.clashesSelected(option, selected) || s.overlapsOccupied(option, occupied) {
				continue
			}

			cells := s.optionCells(option)
			for cell := range cells {
				occupied[cell] = struct{}{}
			}
			result := walk(index+1, append(selected, option), occupied)
			for cell := range cells {
				delete(occupied, cell)
			}
			if result != nil {
				return result
			}
		}
		return nil
	}
	return walk(0, nil, make(map[timing.Cell]struct{}))
}
