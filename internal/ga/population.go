package ga

// Solution is one candidate assignment. Makespan is valid only right after
// evaluation.
type Solution struct {
	// Assignment[i] is the 1-based processor owning task i.
	Assignment []int
	Makespan   int
}

// CopyFrom copies assignment and makespan from src without aliasing it.
func (s *Solution) CopyFrom(src *Solution) {
	copy(s.Assignment, src.Assignment)
	s.Makespan = src.Makespan
}

// Population is a fixed-size ordered set of solutions sharing one backing array.
type Population struct {
	Solutions []Solution
}

// newPopulation lays all assignments out in one backing slice.
func newPopulation(size, tasks int) *Population {
	backing := make([]int, size*tasks)
	sols := make([]Solution, size)
	for i := range sols {
		sols[i].Assignment = backing[i*tasks : (i+1)*tasks : (i+1)*tasks]
	}
	return &Population{Solutions: sols}
}

func (p *Population) Len() int { return len(p.Solutions) }
