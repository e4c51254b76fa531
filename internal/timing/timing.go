package timing

// Day on the weekly teaching grid.
type Day string

const (
	Monday    Day = "MON"
	Tuesday   Day = "TUE"
	Wednesday Day = "WED"
	Thursday  Day = "THU"
	Friday    Day = "FRI"
	Saturday  Day = "SAT"
)

// Cell identifies one (day, period) position on the grid. Two meetings
// sharing a Cell overlap in time.
type Cell struct {
	Day    Day
	Period int
}

// Meeting is the resolved timing of a single atomic slot code.
type Meeting struct {
	Day    Day
	Period int
	Start  string
	End    string
}

func (m Meeting) Cell() Cell {
	return Cell{Day: m.Day, Period: m.Period}
}

// ExclusionGroup declares two disjoint atomic-code sets as mutually
// conflicting even when their meetings do not overlap in time. A pair of
// options clashes when one touches side A and the other touches side B.
type ExclusionGroup struct {
	A []string
	B []string
}

var meetings = map[string]Meeting{
	// Monday
	"A11": {Monday, 1, "08:30", "10:00"},
	"B11": {Monday, 2, "10:05", "11:35"},
	"C11": {Monday, 3, "11:40", "13:10"},
	"A21": {Monday, 4, "13:15", "14:45"},
	"A14": {Monday, 5, "14:50", "16:20"},
	"B21": {Monday, 6, "16:25", "17:55"},
	"C21": {Monday, 7, "18:00", "19:30"},

	// Tuesday
	"D11": {Tuesday, 1, "08:30", "10:00"},
	"E11": {Tuesday, 2, "10:05", "11:35"},
	"F11": {Tuesday, 3, "11:40", "13:10"},
	"D21": {Tuesday, 4, "13:15", "14:45"},
	"E14": {Tuesday, 5, "14:50", "16:20"},
	"E21": {Tuesday, 6, "16:25", "17:55"},
	"F21": {Tuesday, 7, "18:00", "19:30"},

	// Wednesday
	"A12": {Wednesday, 1, "08:30", "10:00"},
	"B12": {Wednesday, 2, "10:05", "11:35"},
	"C12": {Wednesday, 3, "11:40", "13:10"},
	"A22": {Wednesday, 4, "13:15", "14:45"},
	"B14": {Wednesday, 5, "14:50", "16:20"},
	"B22": {Wednesday, 6, "16:25", "17:55"},
	"A24": {Wednesday, 7, "18:00", "19:30"},

	// Thursday
	"D12": {Thursday, 1, "08:30", "10:00"},
	"E12": {Thursday, 2, "10:05", "11:35"},
	"F12": {Thursday, 3, "11:40", "13:10"},
	"D22": {Thursday, 4, "13:15", "14:45"},
	"F14": {Thursday, 5, "14:50", "16:20"},
	"E22": {Thursday, 6, "16:25", "17:55"},
	"F22": {Thursday, 7, "18:00", "19:30"},

	// Friday
	"A13": {Friday, 1, "08:30", "10:00"},
	"B13": {Friday, 2, "10:05", "11:35"},
	"C13": {Friday, 3, "11:40", "13:10"},
	"A23": {Friday, 4, "13:15", "14:45"},
	"C14": {Friday, 5, "14:50", "16:20"},
	"B23": {Friday, 6, "16:25", "17:55"},
	"B24": {Friday, 7, "18:00", "19:30"},

	// Saturday
	"D13": {Saturday, 1, "08:30", "10:00"},
	"E13": {Saturday, 2, "10:05", "11:35"},
	"F13": {Saturday, 3, "11:40", "13:10"},
	"D23": {Saturday, 4, "13:15", "14:45"},
	"D14": {Saturday, 5, "14:50", "16:20"},
	"D24": {Saturday, 6, "16:25", "17:55"},
	"E23": {Saturday, 7, "18:00", "19:30"},
}

// exclusionGroups holds the institutional clash rules: the C1-row/A2-row
// theory clash, plus per-day pairs adjacent across the lunch break
// (period 3 vs period 4) that the institution forbids combining.
var exclusionGroups = []ExclusionGroup{
	{A: []string{"C11", "C12", "C13"}, B: []string{"A21", "A22", "A23"}},
	{A: []string{"C11"}, B: []string{"A21"}}, // Monday lunch
	{A: []string{"F11"}, B: []string{"D21"}}, // Tuesday lunch
	{A: []string{"C12"}, B: []string{"A22"}}, // Wednesday lunch
	{A: []string{"F12"}, B: []string{"D22"}}, // Thursday lunch
	{A: []string{"C13"}, B: []string{"A23"}}, // Friday lunch
	{A: []string{"F13"}, B: []string{"D23"}}, // Saturday lunch
}

// Lookup resolves an atomic slot code into its grid meeting. The second
// return is false for codes absent from the table; callers treat the owning
// option as faulty.
func Lookup(code string) (Meeting, bool) {
	m, ok := meetings[code]
	return m, ok
}

// Codes returns every known atomic slot code. Order is unspecified.
func Codes() []string {
	codes := make([]string, 0, len(meetings))
	for code := range meetings {
		codes = append(codes, code)
	}
	return codes
}

// ExclusionGroups returns the static mutual-exclusion rules. The returned
// slice must not be modified.
func ExclusionGroups() []ExclusionGroup {
	return exclusionGroups
}
