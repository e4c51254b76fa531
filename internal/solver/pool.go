package solver

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusplan/sectionsolver/internal/timing"
)

const (
	// maxSamplesPerCourse bounds the candidates tried per course in one
	// random attempt; a full scan would turn sampling into slow DFS.
	maxSamplesPerCourse = 5
	// noProgressLimit stops pool generation after this many consecutive
	// attempts that produced nothing new.
	noProgressLimit = 1000
)

// SearchRandomPool samples up to targetPool distinct valid assignments by
// random restarts over an unfiltered candidate pool, then scores and ranks
// the whole pool, returning the top targetSize. Budget exhaustion and
// cancellation return whatever was accumulated.
func (s *Solver) SearchRandomPool(ctx context.Context, targetPool, targetSize int) []Solution {
	pool := s.generateRandomPool(ctx, targetPool)
	if len(pool) == 0 {
		return nil
	}

	solutions := make([]Solution, 0, len(pool))
	for _, picks := range pool {
		details := s.buildDetails(picks)
		details.Method = "random_pool"
		details.PoolSize = len(pool)
		solutions = append(solutions, s.newSolution(picks, s.averageScore(picks), details))
	}
	sortByScore(solutions)
	return truncate(solutions, targetSize)
}

// generateRandomPool rebuilds the domains in randomized order, ignoring
// the soft exclusion filters for maximum diversity, and collects distinct
// assignments until the target, the attempt cap, or a no-progress streak.
func (s *Solver) generateRandomPool(ctx context.Context, targetPool int) [][]SlotOption {
	s.rebuildDomains(false, true)
	s.rebuildCaches()

	var pool [][]SlotOption
	seen := make(map[string]struct{})
	maxAttempts := targetPool * 10
	noProgress := 0

	for attempts := 0; len(pool) < targetPool && attempts < maxAttempts; attempts++ {
		if ctx.Err() != nil {
			break
		}

		picks := s.tryRandomAssignment()
		if picks == nil {
			noProgress++
		} else {
			sig := signature(picks)
			if _, dup := seen[sig]; dup {
				noProgress++
			} else {
				seen[sig] = struct{}{}
				pool = append(pool, picks)
				noProgress = 0
			}
		}

		if noProgress >= noProgressLimit {
			s.log.Debug("random pool exhausted",
				zap.Int("collected", len(pool)),
				zap.Int("attempts", attempts+1))
			break
		}
	}
	return pool
}

// tryRandomAssignment shuffles the course order and first-fits a small
// random sample of each course's domain. Returns nil when some course
// cannot be placed.
func (s *Solver) tryRandomAssignment() []SlotOption {
	order := make([]Course, len(s.courses))
	copy(order, s.courses)
	s.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	var selected []SlotOption
	occupied := make(map[timing.Cell]struct{})

	for _, course := range order {
		domain := s.domains[course.ID]
		if len(domain) == 0 {
			return nil
		}

		sampled := s.sample(domain, maxSamplesPerCourse)
		placed := false
		for _, option := range sampled {
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

// sample draws up to n options without replacement.
func (s *Solver) sample(domain []SlotOption, n int) []SlotOption {
	if len(domain) <= n {
		shuffled := make([]SlotOption, len(domain))
		copy(shuffled, domain)
		s.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		return shuffled
	}

	picked := make([]SlotOption, 0, n)
	for _, i := range s.rng.Perm(len(domain))[:n] {
		picked = append(picked, domain[i])
	}
	return picked
}
