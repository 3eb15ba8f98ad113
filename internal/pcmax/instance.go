package pcmax

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidInstance wraps every instance validation failure.
var ErrInvalidInstance = errors.New("invalid instance")

// Instance describes a P||Cmax problem: identical processors and independent
// tasks with fixed processing times. It is never modified after construction.
type Instance struct {
	Processors int
	Tasks      int
	// TaskTimes length must be Tasks.
	TaskTimes []int
}

// NewInstance copies taskTimes and validates the result.
func NewInstance(processors int, taskTimes []int) (*Instance, error) {
	inst := &Instance{
		Processors: processors,
		Tasks:      len(taskTimes),
		TaskTimes:  append([]int(nil), taskTimes...),
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// Validate checks counts, the times length and that no time is negative.
func (inst *Instance) Validate() error {
	if inst == nil {
		return fmt.Errorf("%w: instance is nil", ErrInvalidInstance)
	}
	if inst.Processors <= 0 {
		return fmt.Errorf("%w: processors must be > 0 (got %d)", ErrInvalidInstance, inst.Processors)
	}
	if inst.Tasks <= 0 {
		return fmt.Errorf("%w: tasks must be > 0 (got %d)", ErrInvalidInstance, inst.Tasks)
	}
	if len(inst.TaskTimes) != inst.Tasks {
		return fmt.Errorf("%w: taskTimes length must be %d (got %d)", ErrInvalidInstance, inst.Tasks, len(inst.TaskTimes))
	}
	for i, v := range inst.TaskTimes {
		if v < 0 {
			return fmt.Errorf("%w: taskTimes[%d] must be >= 0 (got %d)", ErrInvalidInstance, i, v)
		}
	}
	return nil
}

// TotalTime is the makespan of putting every task on one processor.
func (inst *Instance) TotalTime() int {
	sum := 0
	for _, t := range inst.TaskTimes {
		sum += t
	}
	return sum
}

// LongestTask is a trivial lower bound on any makespan.
func (inst *Instance) LongestTask() int {
	longest := 0
	for _, t := range inst.TaskTimes {
		if t > longest {
			longest = t
		}
	}
	return longest
}

// LowerBound returns max(longest task, ceil(total / processors)).
func (inst *Instance) LowerBound() int {
	total := inst.TotalTime()
	avg := (total + inst.Processors - 1) / inst.Processors
	if lt := inst.LongestTask(); lt > avg {
		return lt
	}
	return avg
}

// RandomInstance draws task times uniformly from [minTime, maxTime]. It panics
// on a nil rng or inverted bounds.
func RandomInstance(processors, tasks, minTime, maxTime int, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("random generator is nil")
	}
	if minTime < 0 || maxTime < 0 || maxTime < minTime {
		panic("invalid time bounds")
	}
	tt := make([]int, tasks)
	span := maxTime - minTime + 1
	for i := range tt {
		tt[i] = minTime
		if span > 1 {
			tt[i] += rng.Intn(span)
		}
	}
	inst, err := NewInstance(processors, tt)
	if err != nil {
		panic(err)
	}
	return inst
}
