package sa

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"pcmax/internal/opt"
	"pcmax/internal/pcmax"
)

// Solver is a simulated-annealing baseline over task-to-processor
// assignments.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New validates cfg and binds the solver to rng.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New("random generator is nil")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

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

	eval, err := pcmax.NewEvaluator(inst)
	if err != nil {
		return opt.Result{}, err
	}

	n := inst.Tasks

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerTask * n
	}

	curr := make([]int, n)
	cand := make([]int, n)

	randomAssignment(curr, inst.Processors, s.Rng)

	currCost := eval.MustMakespan(curr)
	bestCost := currCost
	best := make([]int, n)
	copy(best, curr)

	evals := 1
	T := s.Cfg.InitialTemp

	iter := 0
	for ; iter < maxIter && T > s.Cfg.FinalTemp; iter++ {
		if err := ctx.Err(); err != nil {
			return opt.Result{
				Assignment:  best,
				Makespan:    bestCost,
				Evaluations: evals,
				Iterations:  iter,
				Duration:    time.Since(start),
				Stopped:     opt.StopContext,
				Meta: map[string]any{
					"T": T,
				},
			}, err
		}

		copy(cand, curr)
		switch s.Cfg.Neighborhood {
		case NeighborhoodSwap:
			neighborSwap(cand, s.Rng)
		default:
			neighborMove(cand, inst.Processors, s.Rng)
		}

		candCost := eval.MustMakespan(cand)
		evals++

		delta := candCost - currCost
		accept := false
		if delta <= 0 {
			accept = true
		} else {
			// Metropolis criterion
			p := math.Exp(-float64(delta) / T)
			if s.Rng.Float64() < p {
				accept = true
			}
		}

		if accept {
			curr, cand = cand, curr
			currCost = candCost

			if currCost < bestCost {
				bestCost = currCost
				copy(best, curr)
			}
		}

		T *= s.Cfg.Alpha
	}

	return opt.Result{
		Assignment:  best,
		Makespan:    bestCost,
		Evaluations: evals,
		Iterations:  iter,
		Duration:    time.Since(start),
		Stopped:     opt.StopIterations,
		Meta: map[string]any{
			"initial_temp": s.Cfg.InitialTemp,
			"final_temp":   s.Cfg.FinalTemp,
			"alpha":        s.Cfg.Alpha,
			"neighborhood": string(s.Cfg.Neighborhood),
		},
	}, nil
}

func randomAssignment(a []int, processors int, rng *rand.Rand) {
	for i := range a {
		a[i] = 1 + rng.Intn(processors)
	}
}

// Swaps the processors of two random tasks.
func neighborSwap(a []int, rng *rand.Rand) {
	if len(a) < 2 {
		return
	}
	i := rng.Intn(len(a))
	j := rng.Intn(len(a) - 1)
	if j >= i {
		j++
	}
	a[i], a[j] = a[j], a[i]
}

// Moves a random task to a different processor.
func neighborMove(a []int, processors int, rng *rand.Rand) {
	if processors < 2 {
		return
	}
	i := rng.Intn(len(a))
	p := 1 + rng.Intn(processors-1)
	if p >= a[i] {
		p++
	}
	a[i] = p
}
