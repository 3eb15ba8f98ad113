package coordinator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/markphelps/optional"
	"github.com/sourcegraph/conc/pool"

	"pcmax/internal/ga"
	"pcmax/internal/logging"
	"pcmax/internal/metrics"
	"pcmax/internal/opt"
	"pcmax/internal/pcmax"
)

type Config struct {
	Workers int
	GA      ga.Config
	// Seed fixes the base seed. Without it the base seed is taken from the
	// wall clock at the start of every run.
	Seed optional.Int64
}

func DefaultConfig() Config {
	return Config{Workers: 4, GA: ga.DefaultConfig()}
}

func (c Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", c.Workers)
	}
	return c.GA.Validate()
}

// Report is what a run exposes to the reporting step: one result per worker
// and the wall time of the whole run.
type Report struct {
	RunID    uuid.UUID
	BaseSeed int64
	Workers  []opt.Result
	Elapsed  time.Duration
}

// Best returns the worker result with the lowest makespan (first on ties).
func (r Report) Best() (opt.Result, bool) {
	if len(r.Workers) == 0 {
		return opt.Result{}, false
	}
	best := r.Workers[0]
	for _, w := range r.Workers[1:] {
		if w.Makespan < best.Makespan {
			best = w
		}
	}
	return best, true
}

// Coordinator runs isolated search loops that share only a stop signal.
type Coordinator struct {
	cfg     Config
	log     logging.Logger
	metrics metrics.Collector
	tune    func(worker int, cfg *ga.Config)
	now     func() time.Time
}

type Option func(*Coordinator)

func WithLogger(log logging.Logger) Option {
	return func(c *Coordinator) { c.log = log }
}

func WithMetrics(m metrics.Collector) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithWorkerConfig adjusts the GA configuration of individual workers before
// they start, e.g. to mix replacement policies within one run.
func WithWorkerConfig(fn func(worker int, cfg *ga.Config)) Option {
	return func(c *Coordinator) { c.tune = fn }
}

func New(cfg Config, opts ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Coordinator{
		cfg:     cfg,
		log:     logging.Nop(),
		metrics: metrics.NewNop(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Coordinator) baseSeed() int64 {
	return c.cfg.Seed.OrElse(c.now().UnixNano())
}

func (c *Coordinator) solver(runID uuid.UUID, worker int, seed int64, stop ga.StopSignal) (*ga.Solver, error) {
	cfg := c.cfg.GA
	if c.tune != nil {
		c.tune(worker, &cfg)
	}
	opts := []ga.Option{
		ga.WithLogger(c.log.With("run", runID.String(), "worker", worker, "seed", seed)),
		ga.WithMetrics(c.metrics),
		ga.WithWorker(worker, seed),
	}
	if stop != nil {
		opts = append(opts, ga.WithStopSignal(stop))
	}
	s, err := ga.New(cfg, rand.New(rand.NewSource(seed)), opts...)
	if err != nil {
		return nil, fmt.Errorf("worker %d: %w", worker, err)
	}
	return s, nil
}

// RunSequential runs a single search loop on the calling goroutine.
func (c *Coordinator) RunSequential(ctx context.Context, inst *pcmax.Instance) (Report, error) {
	runID := uuid.New()
	base := c.baseSeed()

	s, err := c.solver(runID, 0, base, nil)
	if err != nil {
		return Report{}, err
	}

	start := time.Now()
	res, err := s.Solve(ctx, inst)
	return Report{
		RunID:    runID,
		BaseSeed: base,
		Workers:  []opt.Result{res},
		Elapsed:  time.Since(start),
	}, err
}

// Run starts Config.Workers search loops in parallel and waits for all of
// them. The first loop to end raises the shared stop; the others notice it at
// their next stop check.
func (c *Coordinator) Run(ctx context.Context, inst *pcmax.Instance) (Report, error) {
	if err := inst.Validate(); err != nil {
		return Report{}, err
	}

	runID := uuid.New()
	base := c.baseSeed()
	stop := &SharedStop{}

	solvers := make([]*ga.Solver, c.cfg.Workers)
	for w := range solvers {
		s, err := c.solver(runID, w, WorkerSeed(base, w), stop)
		if err != nil {
			return Report{}, err
		}
		solvers[w] = s
	}

	c.log.Info("parallel search started",
		"run", runID.String(),
		"workers", c.cfg.Workers,
		"base_seed", base,
	)

	results := make([]opt.Result, len(solvers))
	p := pool.New().WithErrors().WithMaxGoroutines(len(solvers))
	start := time.Now()
	for w, s := range solvers {
		p.Go(func() error {
			res, err := s.Solve(ctx, inst)
			results[w] = res
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			return nil
		})
	}
	err := p.Wait()

	rep := Report{
		RunID:    runID,
		BaseSeed: base,
		Workers:  results,
		Elapsed:  time.Since(start),
	}
	if best, ok := rep.Best(); ok {
		c.log.Info("parallel search finished",
			"run", runID.String(),
			"best_worker", best.Worker,
			"makespan", best.Makespan,
			"elapsed", rep.Elapsed,
		)
	}
	// Workers only fail on cancellation once they have started.
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return rep, err
}
