package solver

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"github.com/campusplan/sectionsolver/internal/timing"
)

// defaultPoolTarget is the random-pool size the ranking scenarios draw
// from before tiering.
const defaultPoolTarget = 20000

// scoredAssignment carries the metrics the ranking scenarios sort on.
type scoredAssignment struct {
	picks           []SlotOption
	facultyMatches  int
	timeScore       float64
	facultyPriority float64
}

// SearchTiered routes to one of four ranking scenarios depending on which
// preference categories are active:
//
//  1. neither: a plain random batch, unscored;
//  2. time only: the random pool ranked by time score;
//  3. faculty only: the pool tiered by preferred-faculty match count,
//     ranked inside each tier by faculty priority;
//  4. both: tiered by match count, ranked inside each tier by time score.
func (s *Solver) SearchTiered(ctx context.Context, targetSize int) []Solution {
	hasFaculty := s.prefs.hasFacultyPrefs()
	hasTime := s.prefs.hasTimePrefs()

	if !hasFaculty && !hasTime {
		return s.searchRandomBatch(ctx, targetSize)
	}

	pool := s.generateRandomPool(ctx, defaultPoolTarget)
	if len(pool) == 0 {
		return nil
	}

	scored := lo.Map(pool, func(picks []SlotOption, _ int) scoredAssignment {
		return scoredAssignment{
			picks:           picks,
			facultyMatches:  s.countFacultyMatches(picks),
			timeScore:       s.poolTimeScore(picks),
			facultyPriority: s.facultyPriorityScore(picks),
		}
	})

	switch {
	case hasTime && !hasFaculty:
		return s.rankByTime(scored, targetSize)
	case hasFaculty && !hasTime:
		return s.rankTiered(scored, targetSize, "tiered_faculty_priority",
			func(a scoredAssignment) float64 { return a.facultyPriority })
	default:
		return s.rankTiered(scored, targetSize, "tiered_time_ranked",
			func(a scoredAssignment) float64 { return a.timeScore })
	}
}

// searchRandomBatch produces targetSize random valid assignments with no
// ranking at all.
func (s *Solver) searchRandomBatch(ctx context.Context, targetSize int) []Solution {
	s.rebuildDomains(false, true)
	s.rebuildCaches()

	var solutions []Solution
	seen := make(map[string]struct{})
	maxAttempts := targetSize * 100

	for attempts := 0; len(solutions) < targetSize && attempts < maxAttempts; attempts++ {
		if ctx.Err() != nil {
			break
		}
		picks := s.tryRandomAssignment()
		if picks == nil {
			continue
		}
		sig := signature(picks)
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}

		details := s.buildDetails(picks)
		details.Method = "random"
		solutions = append(solutions, s.newSolution(picks, 0, details))
	}
	return solutions
}

// rankByTime is the time-only scenario: the whole pool sorted by time
// score.
func (s *Solver) rankByTime(scored []scoredAssignment, targetSize int) []Solution {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].timeScore > scored[j].timeScore
	})

	solutions := make([]Solution, 0, min(len(scored), targetSize))
	for _, item := range scored[:min(len(scored), targetSize)] {
		details := s.buildDetails(item.picks)
		details.Method = "time_ranked"
		details.TimeScore = item.timeScore
		details.PoolSize = len(scored)
		solutions = append(solutions, s.newSolution(item.picks, item.timeScore, details))
	}
	return solutions
}

// rankTiered fills results from the highest faculty-match tier downward,
// ordering each tier by the given key. The match count dominates; the key
// only breaks ties inside a tier.
func (s *Solver) rankTiered(scored []scoredAssignment, targetSize int, method string, key func(scoredAssignment) float64) []Solution {
	var solutions []Solution
	for tier := len(s.courses); tier >= 0 && len(solutions) < targetSize; tier-- {
		inTier := lo.Filter(scored, func(a scoredAssignment, _ int) bool {
			return a.facultyMatches == tier
		})
		sort.SliceStable(inTier, func(i, j int) bool {
			return key(inTier[i]) > key(inTier[j])
		})

		for _, item := range inTier {
			if len(solutions) >= targetSize {
				break
			}
			details := s.buildDetails(item.picks)
			details.Method = method
			details.Tier = tier
			details.TimeScore = item.timeScore
			details.FacultyPriority = item.facultyPriority
			details.PoolSize = len(scored)
			solutions = append(solutions, s.newSolution(item.picks, key(item), details))
		}
	}
	return solutions
}

// SearchTieredPool builds the pool tier by tier instead of sampling
// blindly: for each tier it forces exactly that many courses onto their
// preferred faculties, filling from the all-preferred tier downward until
// targetPool assignments exist, then ranks everything by full score.
func (s *Solver) SearchTieredPool(ctx context.Context, targetPool, targetSize int) []Solution {
	if len(s.courses) == 0 {
		return nil
	}

	preferred := make(map[CourseID][]SlotOption, len(s.courses))
	fallback := make(map[CourseID][]SlotOption, len(s.courses))
	for _, course := range s.courses {
		ranks := s.prefs.FacultyRanks[course.ID]
		domain := s.domains[course.ID]
		if len(ranks) == 0 {
			preferred[course.ID] = domain
			continue
		}
		preferred[course.ID] = lo.Filter(domain, func(o SlotOption, _ int) bool {
			return o.Faculty != "" && lo.Contains(ranks, o.Faculty)
		})
		fallback[course.ID] = lo.Filter(domain, func(o SlotOption, _ int) bool {
			return o.Faculty == "" || !lo.Contains(ranks, o.Faculty)
		})
	}

	var assignments [][]SlotOption
	seen := make(map[string]struct{})
	for matched := len(s.courses); matched >= 0 && len(assignments) < targetPool; matched-- {
		if ctx.Err() != nil {
			break
		}
		assignments = append(assignments, s.generateExactTier(
			ctx, matched, preferred, fallback, seen, targetPool-len(assignments))...)
	}

	solutions := make([]Solution, 0, len(assignments))
	for _, picks := range assignments {
		details := s.buildDetails(picks)
		details.Method = "tiered_pool"
		details.Tier = s.countFacultyMatches(picks)
		details.PoolSize = len(assignments)
		solutions = append(solutions, s.newSolution(picks, s.averageScore(picks), details))
	}
	sortByScore(solutions)
	return truncate(solutions, targetSize)
}

// generateExactTier collects assignments where exactly matched courses use
// a preferred-faculty option, by randomly choosing which courses those are
// and first-fitting the rest.
func (s *Solver) generateExactTier(
	ctx context.Context,
	matched int,
	preferred, fallback map[CourseID][]SlotOption,
	seen map[string]struct{},
	maxSolutions int,
) [][]SlotOption {
	var solutions [][]SlotOption
	if matched > len(s.courses) {
		return solutions
	}

	maxAttempts := maxSolutions * 50
	for attempts := 0; len(solutions) < maxSolutions && attempts < maxAttempts; attempts++ {
		if ctx.Err() != nil {
			break
		}

		usePreferred := make(map[CourseID]struct{}, matched)
		for _, i := range s.rng.Perm(len(s.courses))[:matched] {
			usePreferred[s.courses[i].ID] = struct{}{}
		}

		picks := s.tryTierAssignment(usePreferred, preferred, fallback)
		if picks == nil {
			continue
		}
		sig := signature(picks)
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		solutions = append(solutions, picks)
	}
	return solutions
}

// tryTierAssignment first-fits one option per course, drawing from the
// preferred or fallback pool as dictated by usePreferred, falling back to
// the other pool when the dictated one is empty.
func (s *Solver) tryTierAssignment(
	usePreferred map[CourseID]struct{},
	preferred, fallback map[CourseID][]SlotOption,
) []SlotOption {
	order := make([]Course, len(s.courses))
	copy(order, s.courses)
	s.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	var selected []SlotOption
	occupied := make(map[timing.Cell]struct{})

	for _, course := range order {
		pool := fallback[course.ID]
		if _, ok := usePreferred[course.ID]; ok {
			pool = preferred[course.ID]
		}
		if len(pool) == 0 {
			if _, ok := usePreferred[course.ID]; ok {
				pool = fallback[course.ID]
			} else {
				pool = preferred[course.ID]
			}
		}
		if len(pool) == 0 {
			return nil
		}

		placed := false
		for _, i := range s.rng.Perm(len(pool)) {
			option := pool[i]
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
	return selected
}
