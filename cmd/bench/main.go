package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/markphelps/optional"

	"pcmax/internal/bench"
	"pcmax/internal/coordinator"
	"pcmax/internal/ga"
	"pcmax/internal/opt"
	"pcmax/internal/pcmax"
	"pcmax/internal/sa"
	"pcmax/internal/ts"
)

// coordinatorAdapter exposes a parallel run as a single optimizer whose
// result is the best worker.
type coordinatorAdapter struct{ c *coordinator.Coordinator }

func (a coordinatorAdapter) Solve(ctx context.Context, inst *pcmax.Instance) (opt.Result, error) {
	rep, err := a.c.Run(ctx, inst)
	if err != nil {
		return opt.Result{}, err
	}
	best, _ := rep.Best()
	best.Duration = rep.Elapsed
	return best, nil
}

// Factories

func newGAFactory(cfg ga.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ga.New(cfg, rand.New(rand.NewSource(seed)), ga.WithWorker(0, seed))
		return solver
	}
}

func newParallelGAFactory(cfg ga.Config, workers int) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		c, _ := coordinator.New(coordinator.Config{
			Workers: workers,
			GA:      cfg,
			Seed:    optional.NewInt64(seed),
		})
		return coordinatorAdapter{c: c}
	}
}

func newSAFactory(cfg sa.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := sa.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newTSFactory(cfg ts.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ts.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func main() {
	var (
		out          = flag.String("out", "artifacts/results.csv", "output CSV path")
		instances    = flag.String("instances", "", "instance files glob, e.g. data/**/*.txt")
		pairs        = flag.String("pairs", "", "random instances: processors x tasks, comma separated, e.g. 25x198,10x50")
		algos        = flag.String("algos", "GA,PGA,SA,TS", "algorithms: GA, PGA (parallel GA), SA, TS (comma separated)")
		runs         = flag.Int("runs", 10, "runs per algorithm and instance (consecutive seeds)")
		baseSeed     = flag.Int64("seed", 1000, "base seed of the runs")
		instanceSeed = flag.Int64("instance_seed", 777, "base seed for random instances")
		perRunTO     = flag.Duration("per_run_timeout", 0, "timeout of one run; 0 = none")
		limit        = flag.Int("limit", -1, "target makespan for the GA; also counted as limit_hits (-1 = none)")

		// --- Genetic algorithm ---
		gaPop     = flag.Int("ga_pop", 100, "population size")
		gaIter    = flag.Int("ga_iter", 20000, "max generations")
		gaTime    = flag.Duration("ga_time", 10*time.Second, "max wall time per search loop")
		gaRepl    = flag.String("ga_repl", "per-slot", "replacement policy: per-slot | quota")
		gaCx      = flag.Float64("ga_cx", 0.40, "per-slot replacement probability")
		gaQuota   = flag.Float64("ga_quota", 0.20, "quota replacement fraction")
		gaMut     = flag.Float64("ga_mut", 0.05, "mutation probability")
		gaWorkers = flag.Int("ga_workers", 4, "workers of the parallel GA")
		gaCheck   = flag.Int("ga_check", 1000, "generations between shared stop checks")

		// --- Simulated annealing ---
		saIterPerTask = flag.Int("sa_iter_per_task", 2500, "iterations per task (used when sa_iter == 0)")
		saIter        = flag.Int("sa_iter", 0, "total iterations (0 => sa_iter_per_task x tasks)")
		saT0          = flag.Float64("sa_t0", 2000.0, "initial temperature")
		saTmin        = flag.Float64("sa_tmin", 0.5, "final temperature")
		saAlpha       = flag.Float64("sa_alpha", 0.995, "cooling factor")
		saNeigh       = flag.String("sa_neigh", "move", "neighborhood: move | swap")

		// --- Tabu search ---
		tsIterPerTask = flag.Int("ts_iter_per_task", 250, "iterations per task (used when ts_iter == 0)")
		tsIter        = flag.Int("ts_iter", 0, "total iterations (0 => ts_iter_per_task x tasks)")
		tsTenure      = flag.Int("ts_tenure", 7, "base tabu tenure")
		tsTenureRand  = flag.Int("ts_tenure_rand", 3, "random tenure extension [0..ts_tenure_rand]")
		tsNeighbors   = flag.Int("ts_neighbors", 90, "sampled neighbors per iteration")
		tsNeigh       = flag.String("ts_neigh", "move", "neighborhood: move | swap")
	)
	flag.Parse()

	ctx := context.Background()

	var cases []bench.Case
	if *instances != "" {
		fileCases, err := bench.GlobCases(*instances)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Instances:", err)
			os.Exit(2)
		}
		cases = append(cases, fileCases...)
	}
	if *pairs != "" {
		randCases, err := parsePairs(*pairs, *instanceSeed)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Pairs:", err)
			os.Exit(2)
		}
		cases = append(cases, randCases...)
	}
	if len(cases) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to run: set -instances and/or -pairs")
		os.Exit(2)
	}

	gaLimit := *limit
	if gaLimit < 0 {
		gaLimit = 0
	}
	gaCfg := ga.Config{
		Population:        *gaPop,
		MaxIterations:     *gaIter,
		MaxTime:           *gaTime,
		Limit:             gaLimit,
		Replacement:       ga.Replacement(*gaRepl),
		CrossoverRate:     *gaCx,
		ReplacementQuota:  *gaQuota,
		MutationRate:      *gaMut,
		StopCheckInterval: *gaCheck,
	}
	if err := gaCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "GA config:", err)
		os.Exit(2)
	}
	if *gaWorkers <= 0 {
		fmt.Fprintln(os.Stderr, "GA config: ga_workers must be > 0")
		os.Exit(2)
	}

	saCfg := sa.Config{
		Iterations:        *saIter,
		IterationsPerTask: *saIterPerTask,
		InitialTemp:       *saT0,
		FinalTemp:         *saTmin,
		Alpha:             *saAlpha,
		Neighborhood:      sa.Neighborhood(*saNeigh),
	}
	if err := saCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "SA config:", err)
		os.Exit(2)
	}

	tsCfg := ts.Config{
		Iterations:        *tsIter,
		IterationsPerTask: *tsIterPerTask,
		TabuTenure:        *tsTenure,
		TabuTenureRand:    *tsTenureRand,
		NeighborsPerIter:  *tsNeighbors,
		Neighborhood:      ts.Neighborhood(*tsNeigh),
	}
	if err := tsCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "TS config:", err)
		os.Exit(2)
	}

	available := map[string]bench.Algorithm{
		"GA":  {Name: "GA", Factory: newGAFactory(gaCfg)},
		"PGA": {Name: "PGA", Factory: newParallelGAFactory(gaCfg, *gaWorkers)},
		"SA":  {Name: "SA", Factory: newSAFactory(saCfg)},
		"TS":  {Name: "TS", Factory: newTSFactory(tsCfg)},
	}

	var selected []bench.Algorithm
	for _, a := range splitCSV(*algos) {
		al, ok := available[a]
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown algorithm %q; available: %v\n", a, keys(available))
			os.Exit(2)
		}
		selected = append(selected, al)
	}

	runner := bench.Runner{
		Runs:          *runs,
		BaseSeed:      *baseSeed,
		PerRunTimeout: *perRunTO,
		Limit:         *limit,
	}

	var records []bench.Record
	for _, c := range cases {
		for _, a := range selected {
			fmt.Printf("Running %s on %s: %d processors, %d tasks (runs=%d)...\n", a.Name, c.Name, c.Processors, c.Tasks, runner.Runs)

			rec, err := runner.RunCase(ctx, c, a)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
			records = append(records, rec)

			fmt.Printf("  Makespan: best=%d mean=%.2f std=%.2f (lower bound %d) | Time: mean=%.2fms std=%.2fms\n",
				rec.MakespanBest, rec.MakespanMean, rec.MakespanStd, rec.LowerBound,
				rec.TimeMeanMs, rec.TimeStdMs,
			)
		}
	}

	if err := bench.WriteCSV(*out, records); err != nil {
		fmt.Fprintln(os.Stderr, "Error writing CSV:", err)
		os.Exit(1)
	}
	fmt.Println("Saved:", *out)
}

// helpers

func parsePairs(s string, baseInstanceSeed int64) ([]bench.Case, error) {
	parts := splitCSV(s)
	cases := make([]bench.Case, 0, len(parts))

	for i, p := range parts {
		pt := strings.Split(p, "x")
		if len(pt) != 2 {
			return nil, fmt.Errorf("pair %q is malformed, example: 25x198", p)
		}
		procs, err := atoiStrict(pt[0])
		if err != nil {
			return nil, fmt.Errorf("pair %q: processor count: %w", p, err)
		}
		tasks, err := atoiStrict(pt[1])
		if err != nil {
			return nil, fmt.Errorf("pair %q: task count: %w", p, err)
		}
		if procs <= 0 || tasks <= 0 {
			return nil, fmt.Errorf("pair %q: processor and task counts must be > 0", p)
		}

		seed := baseInstanceSeed + int64(i)*10_000 + int64(procs)*100 + int64(tasks)

		cases = append(cases, bench.Case{
			Name:         fmt.Sprintf("m%dn%d", procs, tasks),
			Processors:   procs,
			Tasks:        tasks,
			InstanceSeed: seed,
		})
	}

	return cases, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiStrict(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
