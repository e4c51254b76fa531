package solver

import (
	"sort"

	"github.com/campusplan/sectionsolver/internal/timing"
)

// beamState is one retained partial assignment: its cumulative score, the
// options chosen so far, and the grid cells they occupy.
type beamState struct {
	score    float64
	picks    []SlotOption
	occupied map[timing.Cell]struct{}
}

// SearchBeam keeps the top beamWidth partial assignments while folding in
// one course at a time, most-constrained-first. Arc consistency runs first;
// an empty domain aborts with no solutions. Scores are cumulative sums of
// the per-option scores.
func (s *Solver) SearchBeam(beamWidth, targetSize int) []Solution {
	if len(s.courses) == 0 {
		return nil
	}
	if !s.ReduceDomains() {
		return nil
	}

	ordered := s.coursesByDomainSize()

	// Seed with extra width from the first course for diversity before the
	// first cut.
	var beams []beamState
	first := s.domains[ordered[0].ID]
	for _, option := range first[:min(len(first), beamWidth*2)] {
		occupied := make(map[timing.Cell]struct{})
		for cell := range s.optionCells(option) {
			occupied[cell] = struct{}{}
		}
		beams = append(beams, beamState{
			score:    s.cachedScore(option),
			picks:    []SlotOption{option},
			occupied: occupied,
		})
	}
	beams = topBeams(beams, beamWidth)

	for _, course := range ordered[1:] {
		var next []beamState
		for _, beam := range beams {
			for _, option := range s.domains[course.ID] {
				if s.overlapsOccupied(option, beam.occupied) {
					continue
				}
				if s.clashesSelected(option, beam.picks) {
					continue
				}

				occupied := make(map[timing.Cell]struct{}, len(beam.occupied))
				for cell := range beam.occupied {
					occupied[cell] = struct{}{}
				}
				for cell := range s.optionCells(option) {
					occupied[cell] = struct{}{}
				}

				picks := make([]SlotOption, len(beam.picks), len(beam.picks)+1)
				copy(picks, beam.picks)
				next = append(next, beamState{
					score:    beam.score + s.cachedScore(option),
					picks:    append(picks, option),
					occupied: occupied,
				})
			}
		}

		beams = topBeams(next, beamWidth)
		if len(beams) == 0 {
			break
		}
	}

	var solutions []Solution
	seen := make(map[string]struct{})
	for _, beam := range beams {
		if len(beam.picks) != len(s.courses) {
			continue
		}
		sig := signature(beam.picks)
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}

		details := s.buildDetails(beam.picks)
		details.Method = "beam_search"
		solutions = append(solutions, s.newSolution(beam.picks, beam.score, details))

		if len(solutions) >= targetSize {
			break
		}
	}
	return solutions
}

func topBeams(beams []beamState, width int) []beamState {
	sort.SliceStable(beams, func(i, j int) bool {
		return beams[i].score > beams[j].score
	})
	if len(beams) > width {
		beams = beams[:width]
	}
	return beams
}
