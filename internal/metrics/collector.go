// Package metrics records search progress. Search loops report through the
// Collector interface; Nop is used when no exporter is configured.
package metrics

import "time"

// Collector receives progress from search loops. Implementations must be safe
// for concurrent use: every worker of a parallel run reports to the same
// collector.
type Collector interface {
	// AddGenerations adds n completed generations for the worker.
	AddGenerations(worker string, n int)
	// SetBest records the current best makespan of the worker.
	SetBest(worker string, makespan int)
	// RunFinished records a terminated search loop.
	RunFinished(reason string, d time.Duration)
}

type Nop struct{}

var _ Collector = Nop{}

func NewNop() Nop { return Nop{} }

func (Nop) AddGenerations(string, int)        {}
func (Nop) SetBest(string, int)               {}
func (Nop) RunFinished(string, time.Duration) {}
