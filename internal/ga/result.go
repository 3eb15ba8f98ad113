package ga

import (
	"time"

	"pcmax/internal/opt"
)

// result snapshots best into an opt.Result. The assignment is copied so the
// caller never aliases the search loop's buffer.
func (s *Solver) result(best Solution, evals, gens int, reason opt.StopReason, elapsed time.Duration) opt.Result {
	return opt.Result{
		Assignment:  append([]int(nil), best.Assignment...),
		Makespan:    best.Makespan,
		Evaluations: evals,
		Iterations:  gens,
		Duration:    elapsed,
		Stopped:     reason,
		Worker:      s.Worker,
		Seed:        s.Seed,
		Meta: map[string]any{
			"population":  s.Cfg.Population,
			"replacement": string(s.Cfg.Replacement),
			"crossover":   s.Cfg.CrossoverRate,
			"quota":       s.Cfg.ReplacementQuota,
			"mutation":    s.Cfg.MutationRate,
		},
	}
}
