package coordinator

import (
	"sync/atomic"

	"pcmax/internal/ga"
)

// SharedStop is raised once by the first worker that ends its search and is
// never reset.
type SharedStop struct {
	stopped atomic.Bool
}

var _ ga.StopSignal = (*SharedStop)(nil)

func (s *SharedStop) Stopped() bool { return s.stopped.Load() }

func (s *SharedStop) Signal() { s.stopped.Store(true) }
