package pcmax

import "fmt"

// Evaluator computes makespans for one instance. The per-processor load
// buffer is reused across calls, so an Evaluator must not be shared between
// goroutines.
type Evaluator struct {
	inst  *Instance
	loads []int
}

// NewEvaluator validates inst and allocates the load buffer once.
func NewEvaluator(inst *Instance) (*Evaluator, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{inst: inst, loads: make([]int, inst.Processors)}, nil
}

func (e *Evaluator) Instance() *Instance { return e.inst }

// Makespan returns the largest processor load of assign. It does not allocate.
func (e *Evaluator) Makespan(assign []int) (int, error) {
	if e == nil || e.inst == nil {
		return 0, fmt.Errorf("nil evaluator")
	}
	if len(assign) != e.inst.Tasks {
		return 0, fmt.Errorf("%w: length must be %d (got %d)", ErrInvalidAssignment, e.inst.Tasks, len(assign))
	}

	for p := range e.loads {
		e.loads[p] = 0
	}

	procs := e.inst.Processors
	for i, p := range assign {
		if p < 1 || p > procs {
			return 0, fmt.Errorf("%w: assign[%d]=%d out of range [1,%d]", ErrInvalidAssignment, i, p, procs)
		}
		e.loads[p-1] += e.inst.TaskTimes[i]
	}

	maxLoad := 0
	for _, l := range e.loads {
		if l > maxLoad {
			maxLoad = l
		}
	}
	return maxLoad, nil
}

// MustMakespan panics on an invalid assignment. Operators only ever write ids
// in range, so a panic here means a bug in their index arithmetic.
func (e *Evaluator) MustMakespan(assign []int) int {
	ms, err := e.Makespan(assign)
	if err != nil {
		panic(err)
	}
	return ms
}

// Loads writes per-processor sums into dst (resized as needed) and returns it.
// Index 0 holds processor 1.
func (e *Evaluator) Loads(assign []int, dst []int) ([]int, error) {
	if err := ValidateAssignment(assign, e.inst.Tasks, e.inst.Processors); err != nil {
		return nil, err
	}
	if cap(dst) < e.inst.Processors {
		dst = make([]int, e.inst.Processors)
	}
	dst = dst[:e.inst.Processors]
	for p := range dst {
		dst[p] = 0
	}
	for i, p := range assign {
		dst[p-1] += e.inst.TaskTimes[i]
	}
	return dst, nil
}
