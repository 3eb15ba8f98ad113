package ga

import (
	"math/rand"

	"pcmax/internal/pcmax"
)

// evaluate refreshes sol.Makespan.
func evaluate(sol *Solution, eval *pcmax.Evaluator) {
	sol.Makespan = eval.MustMakespan(sol.Assignment)
}

// seedPopulation assigns every task of every slot to a uniformly drawn
// processor and evaluates the slot.
func seedPopulation(pop *Population, processors int, eval *pcmax.Evaluator, rng *rand.Rand) {
	for i := range pop.Solutions {
		sol := &pop.Solutions[i]
		for t := range sol.Assignment {
			sol.Assignment[t] = 1 + rng.Intn(processors)
		}
		evaluate(sol, eval)
	}
}

// bestIndex returns the slot with the lowest makespan; ties go to the lowest
// index.
func bestIndex(sols []Solution) int {
	best := 0
	for i := 1; i < len(sols); i++ {
		if sols[i].Makespan < sols[best].Makespan {
			best = i
		}
	}
	return best
}

// secondBestIndex is bestIndex over every slot except exclude.
func secondBestIndex(sols []Solution, exclude int) int {
	idx := -1
	for i := range sols {
		if i == exclude {
			continue
		}
		if idx < 0 || sols[i].Makespan < sols[idx].Makespan {
			idx = i
		}
	}
	return idx
}

// crossover is single-point: genes below a uniform cut in [0, n-1] come from
// p1, the rest from p2. child must not alias either parent.
func crossover(p1, p2, child *Solution, eval *pcmax.Evaluator, rng *rand.Rand) {
	cut := rng.Intn(len(child.Assignment))
	copy(child.Assignment[:cut], p1.Assignment[:cut])
	copy(child.Assignment[cut:], p2.Assignment[cut:])
	evaluate(child, eval)
}

// mutate swaps the processors of two distinct tasks. A single-task solution
// has nothing to swap and is left untouched.
func mutate(sol *Solution, eval *pcmax.Evaluator, rng *rand.Rand) bool {
	n := len(sol.Assignment)
	if n < 2 {
		return false
	}
	i := rng.Intn(n)
	j := rng.Intn(n)
	for j == i {
		j = rng.Intn(n)
	}
	a := sol.Assignment
	a[i], a[j] = a[j], a[i]
	evaluate(sol, eval)
	return true
}

// trackBest value-copies the lowest-makespan slot into best if it is strictly
// better and reports whether best changed.
func trackBest(pop *Population, best *Solution) bool {
	improved := false
	for i := range pop.Solutions {
		if pop.Solutions[i].Makespan < best.Makespan {
			best.CopyFrom(&pop.Solutions[i])
			improved = true
		}
	}
	return improved
}
