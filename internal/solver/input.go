package solver

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// CourseID identifies a course request for the duration of one generation
// session. Preference maps are keyed by this type, not by its string form.
type CourseID uint64

// OptionID identifies a single slot option within a session.
type OptionID uint64

// Course is one course the caller wants scheduled.
type Course struct {
	ID      CourseID `mapstructure:"id" json:"id"`
	Code    string   `mapstructure:"code" json:"code"`
	Name    string   `mapstructure:"name" json:"name"`
	Credits int      `mapstructure:"credits" json:"credits"`
}

// SlotOption is one substitutable way to take a course: a meeting pattern
// taught by a particular faculty at a particular venue.
type SlotOption struct {
	ID       OptionID `mapstructure:"id" json:"id"`
	CourseID CourseID `mapstructure:"course_id" json:"course_id"`
	Code     string   `mapstructure:"code" json:"code"`
	Faculty  string   `mapstructure:"faculty" json:"faculty"`
	Venue    string   `mapstructure:"venue" json:"venue"`
}

// Cells splits the option's meeting pattern into atomic slot codes,
// e.g. "A11+A12" into ["A11", "A12"].
func (o SlotOption) Cells() []string {
	return strings.Split(strings.ReplaceAll(o.Code, "/", "+"), "+")
}

// TimeMode shapes the per-period time score curve.
type TimeMode string

const (
	TimeModeNone      TimeMode = "none"
	TimeModeMorning   TimeMode = "morning"
	TimeModeAfternoon TimeMode = "afternoon"
	TimeModeMiddle    TimeMode = "middle"
)

// Preferences configures filtering and scoring for one generation session.
type Preferences struct {
	TimeMode          TimeMode
	AvoidEarlyMorning bool
	AvoidLateEvening  bool
	// FacultyRanks maps a course to its preferred faculty names, most
	// preferred first.
	FacultyRanks     map[CourseID][]string
	AvoidedFaculties []string
	ExcludeCells     []string
}

// Validate rejects malformed preference configurations before any search
// begins.
func (p Preferences) Validate() error {
	switch p.TimeMode {
	case "", TimeModeNone, TimeModeMorning, TimeModeAfternoon, TimeModeMiddle:
		return nil
	default:
		return fmt.Errorf("%w: unknown time mode %q", ErrInvalidInput, p.TimeMode)
	}
}

func (p Preferences) hasFacultyPrefs() bool {
	return len(p.FacultyRanks) > 0
}

func (p Preferences) hasTimePrefs() bool {
	return (p.TimeMode != "" && p.TimeMode != TimeModeNone) ||
		p.AvoidEarlyMorning || p.AvoidLateEvening
}

// Input bundles the course list with its slot options, as decoded from a
// caller-supplied file.
type Input struct {
	Courses []Course     `mapstructure:"courses"`
	Options []SlotOption `mapstructure:"options"`
}

// InputFromJSON reads and decodes a course/option file.
func InputFromJSON(file string) (Input, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Input{}, err
	}

	var raw map[string]any
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return Input{}, err
	}

	var input Input
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &input,
	})
	if err != nil {
		return Input{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Input{}, fmt.Errorf("cannot decode input file: %w", err)
	}

	return input, nil
}

// ParseFacultyRanks converts a string-keyed preference map, as found at
// serialization boundaries, into the typed form used by the solver.
func ParseFacultyRanks(raw map[string][]string) (map[CourseID][]string, error) {
	ranks := make(map[CourseID][]string, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: course id %q: %v", ErrInvalidInput, k, err)
		}
		ranks[CourseID(id)] = v
	}
	return ranks, nil
}
