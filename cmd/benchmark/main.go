package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/campusplan/sectionsolver/internal/solver"
	"github.com/campusplan/sectionsolver/internal/timing"
)

type benchmarkCase struct {
	courses          int
	optionsPerCourse int
}

var cases = []benchmarkCase{
	{courses: 3, optionsPerCourse: 4},
	{courses: 5, optionsPerCourse: 8},
	{courses: 6, optionsPerCourse: 12},
	{courses: 8, optionsPerCourse: 15},
}

// syntheticInstance builds a random but resolvable instance: every option
// uses codes drawn from the timing table, so only genuine conflicts limit
// the search.
func syntheticInstance(rng *rand.Rand, courses, optionsPerCourse int) ([]solver.Course, []solver.SlotOption) {
	codes := timing.Codes()

	courseList := make([]solver.Course, 0, courses)
	var options []solver.SlotOption
	nextOption := solver.OptionID(1)

	for c := 1; c <= courses; c++ {
		id := solver.CourseID(c)
		courseList = append(courseList, solver.Course{
			ID:      id,
			Code:    fmt.Sprintf("CSE%03d", c),
			Name:    fmt.Sprintf("Synthetic Course %d", c),
			Credits: 2 + rng.Intn(3),
		})

		for o := 0; o < optionsPerCourse; o++ {
			pattern := codes[rng.Intn(len(codes))]
			if rng.Intn(2) == 0 {
				pattern += "+" + codes[rng.Intn(len(codes))]
			}
			options = append(options, solver.SlotOption{
				ID:       nextOption,
				CourseID: id,
				Code:     pattern,
				Faculty:  fmt.Sprintf("Faculty %d", rng.Intn(optionsPerCourse)),
				Venue:    fmt.Sprintf("CR-%03d", rng.Intn(40)),
			})
			nextOption++
		}
	}
	return courseList, options
}

func main() {
	outPtr := flag.String("out", "benchmark.csv", "Path to the CSV results file")
	seedPtr := flag.Int64("seed", 42, "Random seed for instance generation and sampling")
	limitPtr := flag.Int("limit", 100, "Solutions requested per strategy")
	flag.Parse()

	log, _ := zap.NewDevelopment()
	defer log.Sync()

	strategies := map[string]func(ctx context.Context, s *solver.Solver) []solver.Solution{
		"exhaustive": func(_ context.Context, s *solver.Solver) []solver.Solution {
			return s.SearchExhaustive(20000, *limitPtr)
		},
		"pool": func(ctx context.Context, s *solver.Solver) []solver.Solution {
			return s.SearchRandomPool(ctx, 20000, *limitPtr)
		},
		"beam": func(_ context.Context, s *solver.Solver) []solver.Solution {
			return s.SearchBeam(100, *limitPtr)
		},
		"tiered": func(ctx context.Context, s *solver.Solver) []solver.Solution {
			return s.SearchTiered(ctx, *limitPtr)
		},
		"diverse": func(ctx context.Context, s *solver.Solver) []solver.Solution {
			return s.SearchDiverse(ctx, *limitPtr, 30)
		},
	}
	strategyNames := []string{"exhaustive", "pool", "beam", "tiered", "diverse"}

	records := [][]string{
		{"courses", "options_per_course", "strategy", "solutions", "valid", "milliseconds"},
	}

	for _, c := range cases {
		instanceRng := rand.New(rand.NewSource(*seedPtr))
		courses, options := syntheticInstance(instanceRng, c.courses, c.optionsPerCourse)

		for _, name := range strategyNames {
			// A fresh solver per run: several strategies rebuild the
			// candidate pool as they go.
			engine, err := solver.New(courses, options, solver.Preferences{},
				solver.WithRand(rand.New(rand.NewSource(*seedPtr))))
			if err != nil {
				log.Warn("skipping unsolvable instance",
					zap.Int("courses", c.courses), zap.Error(err))
				break
			}

			started := time.Now()
			solutions := strategies[name](context.Background(), engine)
			elapsed := time.Since(started)

			valid := lo.CountBy(solutions, engine.Verify)
			records = append(records, []string{
				fmt.Sprint(c.courses),
				fmt.Sprint(c.optionsPerCourse),
				name,
				fmt.Sprint(len(solutions)),
				fmt.Sprint(valid),
				fmt.Sprint(elapsed.Milliseconds()),
			})
			log.Info("strategy finished",
				zap.String("strategy", name),
				zap.Int("courses", c.courses),
				zap.Int("solutions", len(solutions)),
				zap.Duration("elapsed", elapsed))
		}
	}

	file, err := os.Create(*outPtr)
	if err != nil {
		log.Fatal("cannot create results file", zap.Error(err))
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		log.Fatal("cannot write results", zap.Error(err))
	}
}
