package solver

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/campusplan/sectionsolver/internal/timing"
)

// ErrInvalidInput marks caller errors: malformed preferences or a course
// left with no usable slot options. Distinct from an unsatisfiable
// instance, which yields an empty result list instead.
var ErrInvalidInput = errors.New("invalid solver input")

// Solver generates conflict-free section assignments for a fixed set of
// courses. It is built once per generation session and is not safe for
// concurrent use.
type Solver struct {
	courses  []Course
	byCourse map[CourseID]Course
	prefs    Preferences
	rng      *rand.Rand
	log      *zap.Logger

	// viable holds every non-faulty option per course, before preference
	// exclusions; domains holds the current working pool.
	viable  map[CourseID][]SlotOption
	domains map[CourseID][]SlotOption

	cells     map[OptionID]map[timing.Cell]struct{}
	conflicts map[OptionID]map[OptionID]struct{}
	scores    map[OptionID]float64

	warnings []string
}

// Option configures a Solver.
type Option func(*Solver)

// WithRand injects the random source used by sampling strategies. Fixing
// the seed makes those strategies reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(s *Solver) { s.rng = rng }
}

// WithLogger attaches a logger for per-session diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(s *Solver) { s.log = log }
}

// New builds a solver session from the caller's courses, their slot
// options, and a preference configuration. Options whose meeting pattern
// contains an unknown code are dropped with a warning; options matching a
// hard exclusion are dropped silently. A course with nothing left, or a
// malformed configuration, is an ErrInvalidInput.
func New(courses []Course, options []SlotOption, prefs Preferences, opts ...Option) (*Solver, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	s := &Solver{
		courses:  courses,
		byCourse: lo.KeyBy(courses, func(c Course) CourseID { return c.ID }),
		prefs:    prefs,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      zap.NewNop(),
		viable:   make(map[CourseID][]SlotOption),
	}
	for _, opt := range opts {
		opt(s)
	}

	perCourse := lo.GroupBy(options, func(o SlotOption) CourseID { return o.CourseID })
	for _, course := range courses {
		s.viable[course.ID] = lo.Filter(perCourse[course.ID], func(o SlotOption, _ int) bool {
			return !s.markFaulty(course, o)
		})
	}

	s.rebuildDomains(true, false)
	s.rebuildCaches()

	for _, course := range courses {
		if len(s.domains[course.ID]) == 0 {
			return nil, fmt.Errorf("%w: course %v has no usable slot options", ErrInvalidInput, course.Code)
		}
	}

	s.log.Debug("solver session ready",
		zap.Int("courses", len(courses)),
		zap.Int("options", len(options)),
		zap.Int("warnings", len(s.warnings)))
	return s, nil
}

// Warnings lists non-fatal exclusions recorded while building the
// candidate pool.
func (s *Solver) Warnings() []string {
	return s.warnings
}

// markFaulty records a warning when any of the option's codes fails to
// resolve against the timing table.
func (s *Solver) markFaulty(course Course, o SlotOption) bool {
	faulty := lo.Filter(o.Cells(), func(code string, _ int) bool {
		_, ok := timing.Lookup(code)
		return !ok
	})
	if len(faulty) == 0 {
		return false
	}

	faculty := o.Faculty
	if faculty == "" {
		faculty = "unknown faculty"
	}
	msg := fmt.Sprintf("excluded %v for %v: unknown slot code(s) %v",
		faculty, course.Code, strings.Join(faulty, ", "))
	if !lo.Contains(s.warnings, msg) {
		s.warnings = append(s.warnings, msg)
	}
	return true
}

// excluded applies the hard filters: avoided faculty and excluded cells.
func (s *Solver) excluded(o SlotOption) bool {
	if o.Faculty != "" && lo.Contains(s.prefs.AvoidedFaculties, o.Faculty) {
		return true
	}
	return lo.Some(o.Cells(), s.prefs.ExcludeCells)
}

// rebuildDomains resets the working pool from the viable options. In
// greedy mode each domain is ordered by descending score so depth-first
// strategies try the best candidates first; otherwise the order is left
// shuffled for sampling strategies. When ignorePrefs is set the hard
// exclusion filters are skipped, leaving scoring to demote those options.
func (s *Solver) rebuildDomains(greedy, ignorePrefs bool) {
	s.domains = make(map[CourseID][]SlotOption, len(s.courses))
	for _, course := range s.courses {
		pool := s.viable[course.ID]
		if !ignorePrefs {
			pool = lo.Filter(pool, func(o SlotOption, _ int) bool {
				return !s.excluded(o)
			})
		}

		domain := make([]SlotOption, len(pool))
		copy(domain, pool)
		s.rng.Shuffle(len(domain), func(i, j int) {
			domain[i], domain[j] = domain[j], domain[i]
		})
		if greedy {
			sort.SliceStable(domain, func(i, j int) bool {
				return s.scoreOption(domain[i]) > s.scoreOption(domain[j])
			})
		}
		s.domains[course.ID] = domain
	}
}

// rebuildCaches recomputes the timing sets, per-option scores, and the
// pairwise conflict matrix for the current domains. Must be called after
// every domain rebuild.
func (s *Solver) rebuildCaches() {
	all := s.allDomainOptions()

	s.cells = make(map[OptionID]map[timing.Cell]struct{}, len(all))
	s.scores = make(map[OptionID]float64, len(all))
	for _, o := range all {
		set := make(map[timing.Cell]struct{})
		for _, code := range o.Cells() {
			if m, ok := timing.Lookup(code); ok {
				set[m.Cell()] = struct{}{}
			}
		}
		s.cells[o.ID] = set
		s.scores[o.ID] = s.scoreOption(o)
	}

	s.conflicts = make(map[OptionID]map[OptionID]struct{}, len(all))
	for _, o := range all {
		s.conflicts[o.ID] = make(map[OptionID]struct{})
	}
	for i, a := range all {
		for _, b := range all[i+1:] {
			if a.CourseID == b.CourseID {
				continue
			}
			if s.optionsClash(a, b) {
				s.conflicts[a.ID][b.ID] = struct{}{}
				s.conflicts[b.ID][a.ID] = struct{}{}
			}
		}
	}
}

func (s *Solver) allDomainOptions() []SlotOption {
	var all []SlotOption
	for _, course := range s.courses {
		all = append(all, s.domains[course.ID]...)
	}
	return all
}

// optionsClash checks time overlap and the mutual-exclusion groups
// directly; used only while building the matrix.
func (s *Solver) optionsClash(a, b SlotOption) bool {
	cellsA, cellsB := s.optionCells(a), s.optionCells(b)
	for cell := range cellsA {
		if _, ok := cellsB[cell]; ok {
			return true
		}
	}

	codesA, codesB := a.Cells(), b.Cells()
	for _, group := range timing.ExclusionGroups() {
		aInA, aInB := lo.Some(codesA, group.A), lo.Some(codesA, group.B)
		bInA, bInB := lo.Some(codesB, group.A), lo.Some(codesB, group.B)
		if (aInA && bInB) || (aInB && bInA) {
			return true
		}
	}
	return false
}

func (s *Solver) optionCells(o SlotOption) map[timing.Cell]struct{} {
	if cached, ok := s.cells[o.ID]; ok {
		return cached
	}
	set := make(map[timing.Cell]struct{})
	for _, code := range o.Cells() {
		if m, ok := timing.Lookup(code); ok {
			set[m.Cell()] = struct{}{}
		}
	}
	return set
}

// clash is the O(1) matrix lookup every search strategy goes through.
func (s *Solver) clash(a, b OptionID) bool {
	_, ok := s.conflicts[a][b]
	return ok
}

// overlapsOccupied reports whether the option touches any already occupied
// grid cell.
func (s *Solver) overlapsOccupied(o SlotOption, occupied map[timing.Cell]struct{}) bool {
	for cell := range s.optionCells(o) {
		if _, ok := occupied[cell]; ok {
			return true
		}
	}
	return false
}

// coursesByDomainSize returns the courses ordered most-constrained-first.
func (s *Solver) coursesByDomainSize() []Course {
	ordered := make([]Course, len(s.courses))
	copy(ordered, s.courses)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(s.domains[ordered[i].ID]) < len(s.domains[ordered[j].ID])
	})
	return ordered
}
