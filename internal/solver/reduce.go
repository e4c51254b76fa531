package solver

import (
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ReduceDomains runs AC-3 over every ordered course pair, removing options
// that clash with every option of some other course. Returns false when a
// domain empties, which means no complete assignment exists. The pass only
// prunes; it never changes the set of valid complete assignments.
func (s *Solver) ReduceDomains() bool {
	if len(s.courses) < 2 {
		return true
	}

	type arc struct{ from, to CourseID }
	var queue []arc
	for _, a := range s.courses {
		for _, b := range s.courses {
			if a.ID != b.ID {
				queue = append(queue, arc{a.ID, b.ID})
			}
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if !s.revise(current.from, current.to) {
			continue
		}
		if len(s.domains[current.from]) == 0 {
			s.log.Debug("domain wiped out during arc consistency",
				zap.Uint64("course", uint64(current.from)))
			return false
		}
		for _, c := range s.courses {
			if c.ID != current.from && c.ID != current.to {
				queue = append(queue, arc{c.ID, current.from})
			}
		}
	}
	return true
}

// revise drops options of course a that have no conflict-free counterpart
// in course b's domain. Reports whether anything was removed.
func (s *Solver) revise(a, b CourseID) bool {
	kept := lo.Filter(s.domains[a], func(option SlotOption, _ int) bool {
		return lo.SomeBy(s.domains[b], func(support SlotOption) bool {
			return !s.clash(option.ID, support.ID)
		})
	})
	if len(kept) == len(s.domains[a]) {
		return false
	}
	s.domains[a] = kept
	return true
}
