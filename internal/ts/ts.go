package ts

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"pcmax/internal/opt"
	"pcmax/internal/pcmax"
)

// Solver is a tabu-search baseline over task-to-processor assignments.
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

// move is one neighbor: for NeighborhoodMove task a goes to processor b, for
// NeighborhoodSwap tasks a and b exchange processors.
type move struct {
	a, b int
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
	procs := inst.Processors

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerTask * n
	}

	curr := make([]int, n)
	cand := make([]int, n)
	for i := range curr {
		curr[i] = 1 + s.Rng.Intn(procs)
	}

	currCost := eval.MustMakespan(curr)
	evals := 1

	best := make([]int, n)
	copy(best, curr)
	bestCost := currCost

	// Ring capacity is kept well above the longest tenure.
	tabu := newTabuList(max(32, (s.Cfg.TabuTenure+s.Cfg.TabuTenureRand)*4))

	neighbors := s.Cfg.NeighborsPerIter

	// A single processor or a single task leaves nothing to explore.
	if procs < 2 && s.Cfg.Neighborhood == NeighborhoodMove || n < 2 && s.Cfg.Neighborhood == NeighborhoodSwap {
		maxIter = 0
	}

	iter := 0
	for ; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return opt.Result{
				Assignment:  best,
				Makespan:    bestCost,
				Evaluations: evals,
				Iterations:  iter,
				Duration:    time.Since(start),
				Stopped:     opt.StopContext,
			}, err
		}

		// Best admissible move
		chosen, chosenCost, chosenOK := move{}, math.MaxInt, false
		// Best move ignoring tabu status, used when every sampled move is tabu
		fallback, fallbackCost := move{}, math.MaxInt

		for k := 0; k < neighbors; k++ {
			m := s.sample(curr, procs)

			copy(cand, curr)
			s.apply(cand, m)

			cost := eval.MustMakespan(cand)
			evals++

			if cost < fallbackCost {
				fallback, fallbackCost = m, cost
			}

			// aspiration: a tabu move is allowed if it beats the global best
			if tabu.IsTabu(s.key(curr, m), iter) && cost >= bestCost {
				continue
			}
			if cost < chosenCost {
				chosen, chosenCost, chosenOK = m, cost, true
			}
		}
		if !chosenOK {
			chosen, chosenCost = fallback, fallbackCost
		}

		// Forbid undoing the move for a while.
		reverse := s.reverse(curr, chosen)
		s.apply(curr, chosen)
		currCost = chosenCost

		tenure := s.Cfg.TabuTenure
		if s.Cfg.TabuTenureRand > 0 {
			tenure += s.Rng.Intn(s.Cfg.TabuTenureRand + 1)
		}
		tabu.Add(s.key(curr, reverse), iter+tenure)

		if currCost < bestCost {
			bestCost = currCost
			copy(best, curr)
		}
	}

	return opt.Result{
		Assignment:  best,
		Makespan:    bestCost,
		Evaluations: evals,
		Iterations:  iter,
		Duration:    time.Since(start),
		Stopped:     opt.StopIterations,
		Meta: map[string]any{
			"tabu_tenure":        s.Cfg.TabuTenure,
			"tabu_tenure_rand":   s.Cfg.TabuTenureRand,
			"neighbors_per_iter": s.Cfg.NeighborsPerIter,
			"neighborhood":       string(s.Cfg.Neighborhood),
		},
	}, nil
}

func (s *Solver) sample(a []int, procs int) move {
	n := len(a)
	if s.Cfg.Neighborhood == NeighborhoodSwap {
		i := s.Rng.Intn(n)
		j := s.Rng.Intn(n - 1)
		if j >= i {
			j++
		}
		return move{a: i, b: j}
	}
	task := s.Rng.Intn(n)
	p := 1 + s.Rng.Intn(procs-1)
	if p >= a[task] {
		p++
	}
	return move{a: task, b: p}
}

func (s *Solver) apply(a []int, m move) {
	if s.Cfg.Neighborhood == NeighborhoodSwap {
		a[m.a], a[m.b] = a[m.b], a[m.a]
		return
	}
	a[m.a] = m.b
}

// reverse returns the move that undoes m when applied after it.
func (s *Solver) reverse(a []int, m move) move {
	if s.Cfg.Neighborhood == NeighborhoodSwap {
		return m
	}
	return move{a: m.a, b: a[m.a]}
}

// key identifies a move applied to a. A move key records the task and both
// processors; a swap key is the unordered task pair.
func (s *Solver) key(a []int, m move) uint64 {
	if s.Cfg.Neighborhood == NeighborhoodSwap {
		i, j := m.a, m.b
		if i > j {
			i, j = j, i
		}
		return moveKey(i, j, 0)
	}
	return moveKey(m.a, a[m.a], m.b)
}

// tabuList is a fixed-size ring of move keys with a map for lookups.
type tabuList struct {
	m   map[uint64]int // key -> iteration the tabu expires
	key []uint64
	exp []int
	i   int
}

func newTabuList(capacity int) *tabuList {
	if capacity < 8 {
		capacity = 8
	}
	return &tabuList{
		m:   make(map[uint64]int, capacity*2),
		key: make([]uint64, capacity),
		exp: make([]int, capacity),
		i:   0,
	}
}

func (t *tabuList) IsTabu(k uint64, iter int) bool {
	if exp, ok := t.m[k]; ok && exp > iter {
		return true
	}
	return false
}

// Add records k until expiry, evicting the oldest slot of the ring.
func (t *tabuList) Add(k uint64, expiry int) {
	oldK := t.key[t.i]
	oldExp := t.exp[t.i]
	if oldK != 0 {
		if curExp, ok := t.m[oldK]; ok && curExp == oldExp {
			delete(t.m, oldK)
		}
	}

	t.key[t.i] = k
	t.exp[t.i] = expiry
	t.m[k] = expiry

	t.i++
	if t.i >= len(t.key) {
		t.i = 0
	}
}

// moveKey packs three 21-bit fields.
func moveKey(a, b, c int) uint64 {
	return (uint64(uint32(a)) << 42) |
		(uint64(uint32(b)) << 21) |
		uint64(uint32(c))
}
