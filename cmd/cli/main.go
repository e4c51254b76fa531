package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/campusplan/sectionsolver/internal/solver"
)

var (
	validStrategies = []string{"exhaustive", "pool", "beam", "tiered", "tieredpool", "diverse"}
	strategies      = map[string]func(ctx context.Context, s *solver.Solver, limit int) []solver.Solution{
		"exhaustive": func(_ context.Context, s *solver.Solver, limit int) []solver.Solution {
			return s.SearchExhaustive(20000, limit)
		},
		"pool": func(ctx context.Context, s *solver.Solver, limit int) []solver.Solution {
			return s.SearchRandomPool(ctx, 20000, limit)
		},
		"beam": func(_ context.Context, s *solver.Solver, limit int) []solver.Solution {
			return s.SearchBeam(100, limit)
		},
		"tiered": func(ctx context.Context, s *solver.Solver, limit int) []solver.Solution {
			return s.SearchTiered(ctx, limit)
		},
		"tieredpool": func(ctx context.Context, s *solver.Solver, limit int) []solver.Solution {
			return s.SearchTieredPool(ctx, 20000, limit)
		},
		"diverse": func(ctx context.Context, s *solver.Solver, limit int) []solver.Solution {
			return s.SearchDiverse(ctx, limit, 30)
		},
	}
)

// preferencesFile mirrors the on-disk preference layout; course ids arrive
// as string keys at this boundary and are converted to typed ids before
// the solver sees them.
type preferencesFile struct {
	TimeMode                 string              `mapstructure:"time_mode"`
	AvoidEarlyMorning        bool                `mapstructure:"avoid_early_morning"`
	AvoidLateEvening         bool                `mapstructure:"avoid_late_evening"`
	CourseFacultyPreferences map[string][]string `mapstructure:"course_faculty_preferences"`
	AvoidedFaculties         []string            `mapstructure:"avoided_faculties"`
	ExcludeSlots             []string            `mapstructure:"exclude_slots"`
}

func loadPreferences(path string) (solver.Preferences, error) {
	if path == "" {
		return solver.Preferences{TimeMode: solver.TimeModeNone}, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return solver.Preferences{}, fmt.Errorf("cannot read preference file: %w", err)
	}

	var file preferencesFile
	if err := v.Unmarshal(&file); err != nil {
		return solver.Preferences{}, fmt.Errorf("cannot decode preference file: %w", err)
	}

	ranks, err := solver.ParseFacultyRanks(file.CourseFacultyPreferences)
	if err != nil {
		return solver.Preferences{}, err
	}

	mode := strings.ToLower(file.TimeMode)
	if mode == "" {
		mode = string(solver.TimeModeNone)
	} else if mode == "evening" {
		mode = string(solver.TimeModeAfternoon)
	}

	return solver.Preferences{
		TimeMode:          solver.TimeMode(mode),
		AvoidEarlyMorning: file.AvoidEarlyMorning,
		AvoidLateEvening:  file.AvoidLateEvening,
		FacultyRanks:      ranks,
		AvoidedFaculties:  file.AvoidedFaculties,
		ExcludeCells:      file.ExcludeSlots,
	}, nil
}

func main() {
	coursesPtr := flag.String("courses", "", "Path to the course/option input file (JSON)")
	prefsPtr := flag.String("prefs", "", "Path to the preference file (JSON/YAML/TOML); optional")
	strategyPtr := flag.String("strategy", "tiered", `Search strategy. Allowed values are:
- "exhaustive" (enumerate every valid assignment, then rank),
- "pool" (random pool sampling, then rank),
- "beam" (arc consistency plus beam search),
- "tiered" (auto-routes on the active preference categories),
- "tieredpool" (builds the pool tier by tier on faculty matches),
- "diverse" (diversity-aware sampling), where "tiered" is the default`)
	limitPtr := flag.Int("limit", 100, "Maximum number of solutions to return")
	seedPtr := flag.Int64("seed", 0, "Random seed; 0 leaves the source unseeded")
	outPtr := flag.String("out", "", "Path to the output file; if empty, results go to the Standard Output")
	flag.Parse()

	log, _ := zap.NewProduction()
	defer log.Sync()

	strategy := strings.ToLower(*strategyPtr)
	if !slices.Contains(validStrategies, strategy) {
		log.Fatal("invalid strategy", zap.String("strategy", strategy))
	} else if *coursesPtr == "" {
		log.Fatal("a course input file must be specified")
	}

	input, err := solver.InputFromJSON(*coursesPtr)
	if err != nil {
		log.Fatal("cannot parse course input file", zap.Error(err))
	}

	prefs, err := loadPreferences(*prefsPtr)
	if err != nil {
		log.Fatal("cannot load preferences", zap.Error(err))
	}

	opts := []solver.Option{solver.WithLogger(log)}
	if *seedPtr != 0 {
		opts = append(opts, solver.WithRand(rand.New(rand.NewSource(*seedPtr))))
	}

	engine, err := solver.New(input.Courses, input.Options, prefs, opts...)
	if err != nil {
		log.Fatal("cannot initialize solver", zap.Error(err))
	}
	for _, warning := range engine.Warnings() {
		log.Warn(warning)
	}

	solutions := strategies[strategy](context.Background(), engine, *limitPtr)
	log.Info("generation finished",
		zap.String("strategy", strategy),
		zap.Int("solutions", len(solutions)))

	invalid := lo.CountBy(solutions, func(sol solver.Solution) bool {
		return !engine.Verify(sol)
	})
	if invalid > 0 {
		log.Fatal("generated solutions failed verification", zap.Int("invalid", invalid))
	}

	encoded, err := json.MarshalIndent(solutions, "", "  ")
	if err != nil {
		log.Fatal("cannot encode solutions", zap.Error(err))
	}
	if *outPtr == "" {
		fmt.Println(string(encoded))
	} else if err := os.WriteFile(*outPtr, encoded, 0644); err != nil {
		log.Fatal("cannot write output file", zap.Error(err))
	}
}
