package ga

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"time"

	"pcmax/internal/logging"
	"pcmax/internal/metrics"
	"pcmax/internal/opt"
	"pcmax/internal/pcmax"
)

// StopSignal is a one-way flag shared by sibling search loops.
type StopSignal interface {
	Stopped() bool
	Signal()
}

// Solver runs the genetic search for P||Cmax. A Solver owns its random
// stream and is not safe for concurrent use; parallel runs use one Solver
// per worker.
type Solver struct {
	Cfg     Config
	Rng     *rand.Rand
	Log     logging.Logger
	Metrics metrics.Collector
	Stop    StopSignal
	Worker  int
	Seed    int64
}

// Option configures a Solver in New.
type Option func(*Solver)

func WithLogger(log logging.Logger) Option {
	return func(s *Solver) { s.Log = log }
}

func WithMetrics(m metrics.Collector) Option {
	return func(s *Solver) { s.Metrics = m }
}

// WithStopSignal makes the solver poll stop every StopCheckInterval
// generations and raise it when its own search ends.
func WithStopSignal(stop StopSignal) Option {
	return func(s *Solver) { s.Stop = stop }
}

// WithWorker labels results, logs and metrics. seed is informational only.
func WithWorker(id int, seed int64) Option {
	return func(s *Solver) {
		s.Worker = id
		s.Seed = seed
	}
}

// New validates cfg and applies opts. Missing logger and metrics default to
// no-op implementations.
func New(cfg Config, rng *rand.Rand, opts ...Option) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New("random generator is nil")
	}
	s := &Solver{Cfg: cfg, Rng: rng}
	for _, o := range opts {
		o(s)
	}
	if s.Log == nil {
		s.Log = logging.Nop()
	}
	if s.Metrics == nil {
		s.Metrics = metrics.NewNop()
	}
	return s, nil
}

// Solve evolves a population on inst until a stop condition holds and returns
// the best assignment seen. A context stop returns the best so far together
// with ctx.Err().
func (s *Solver) Solve(ctx context.Context, inst *pcmax.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, errors.New("random generator is nil")
	}
	log := s.Log
	if log == nil {
		log = logging.Nop()
	}
	mc := s.Metrics
	if mc == nil {
		mc = metrics.NewNop()
	}
	worker := strconv.Itoa(s.Worker)

	eval, err := pcmax.NewEvaluator(inst)
	if err != nil {
		return opt.Result{}, err
	}

	pop := newPopulation(s.Cfg.Population, inst.Tasks)
	seedPopulation(pop, inst.Processors, eval, s.Rng)
	evaluations := pop.Len()

	best := Solution{Assignment: make([]int, inst.Tasks), Makespan: math.MaxInt}
	trackBest(pop, &best)
	mc.SetBest(worker, best.Makespan)
	log.Info("search started",
		"processors", inst.Processors,
		"tasks", inst.Tasks,
		"initial_best", best.Makespan,
		"replacement", string(s.Cfg.Replacement),
	)

	deadline := time.Now().Add(s.Cfg.MaxTime)
	gen := 0
	reported := 0
	var reason opt.StopReason

	for {
		if reason = s.stopReason(ctx, gen, best.Makespan, deadline); reason != "" {
			break
		}

		evaluations += s.step(pop, eval)

		if trackBest(pop, &best) {
			log.Debug("new best", "generation", gen, "makespan", best.Makespan)
			mc.SetBest(worker, best.Makespan)
		}
		gen++

		if gen%s.Cfg.StopCheckInterval == 0 {
			mc.AddGenerations(worker, gen-reported)
			reported = gen
			if s.Stop != nil && s.Stop.Stopped() {
				reason = opt.StopShared
				break
			}
		}
	}

	if s.Stop != nil {
		s.Stop.Signal()
	}
	mc.AddGenerations(worker, gen-reported)

	res := s.result(best, evaluations, gen, reason, time.Since(start))
	mc.RunFinished(string(reason), res.Duration)
	log.Info("search finished",
		"reason", string(reason),
		"generations", gen,
		"makespan", best.Makespan,
		"elapsed", res.Duration,
	)

	if reason == opt.StopContext {
		return res, ctx.Err()
	}
	return res, nil
}

// stopReason reports the first satisfied termination condition, or "" to
// run another generation.
func (s *Solver) stopReason(ctx context.Context, gen, best int, deadline time.Time) opt.StopReason {
	switch {
	case best <= s.Cfg.Limit:
		return opt.StopLimit
	case gen >= s.Cfg.MaxIterations:
		return opt.StopIterations
	case time.Now().After(deadline):
		return opt.StopTime
	case ctx.Err() != nil:
		return opt.StopContext
	}
	return ""
}

// step runs one generation (replacement then mutation) and returns the number
// of evaluations it performed.
func (s *Solver) step(pop *Population, eval *pcmax.Evaluator) int {
	var n int
	switch s.Cfg.Replacement {
	case ReplacementQuota:
		n = s.replaceQuota(pop, eval)
	default:
		n = s.replacePerSlot(pop, eval)
	}
	return n + s.mutatePopulation(pop, eval)
}

// replacePerSlot overwrites each non-elite slot with an offspring of the two
// elites with probability CrossoverRate.
func (s *Solver) replacePerSlot(pop *Population, eval *pcmax.Evaluator) int {
	sols := pop.Solutions
	p1 := bestIndex(sols)
	p2 := secondBestIndex(sols, p1)

	n := 0
	for i := range sols {
		if i == p1 || i == p2 {
			continue
		}
		if s.Rng.Float64() < s.Cfg.CrossoverRate {
			crossover(&sols[p1], &sols[p2], &sols[i], eval, s.Rng)
			n++
		}
	}
	return n
}

// replaceQuota performs a fixed number of crossovers into victims drawn
// uniformly among non-elite slots.
func (s *Solver) replaceQuota(pop *Population, eval *pcmax.Evaluator) int {
	sols := pop.Solutions
	p1 := bestIndex(sols)
	p2 := secondBestIndex(sols, p1)

	count := s.Cfg.quotaCount()
	for k := 0; k < count; k++ {
		victim := s.Rng.Intn(len(sols))
		for victim == p1 || victim == p2 {
			victim = s.Rng.Intn(len(sols))
		}
		crossover(&sols[p1], &sols[p2], &sols[victim], eval, s.Rng)
	}
	return count
}

// mutatePopulation mutates each slot with probability MutationRate and
// returns the number of re-evaluations.
func (s *Solver) mutatePopulation(pop *Population, eval *pcmax.Evaluator) int {
	n := 0
	for i := range pop.Solutions {
		if s.Rng.Float64() < s.Cfg.MutationRate && mutate(&pop.Solutions[i], eval, s.Rng) {
			n++
		}
	}
	return n
}
