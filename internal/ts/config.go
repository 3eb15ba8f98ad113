package ts

import "fmt"

// Neighborhood defines the move type.
type Neighborhood string

const (
	// NeighborhoodMove reassigns one task to another processor.
	NeighborhoodMove Neighborhood = "move"
	// NeighborhoodSwap exchanges the processors of two tasks.
	NeighborhoodSwap Neighborhood = "swap"
)

type Config struct {
	Iterations        int
	IterationsPerTask int

	TabuTenure int

	TabuTenureRand int

	NeighborsPerIter int

	Neighborhood Neighborhood
}

func DefaultConfig() Config {
	return Config{
		Iterations:        0,
		IterationsPerTask: 250,

		TabuTenure:     7,
		TabuTenureRand: 3,

		NeighborsPerIter: 90,
		Neighborhood:     NeighborhoodMove,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerTask <= 0 {
		return fmt.Errorf("either Iterations > 0 or IterationsPerTask > 0 must be set")
	}
	if c.TabuTenure <= 0 {
		return fmt.Errorf("TabuTenure must be > 0 (got %d)", c.TabuTenure)
	}
	if c.TabuTenureRand < 0 {
		return fmt.Errorf("TabuTenureRand must be >= 0 (got %d)", c.TabuTenureRand)
	}
	if c.NeighborsPerIter <= 0 {
		return fmt.Errorf("NeighborsPerIter must be > 0 (got %d)", c.NeighborsPerIter)
	}
	switch c.Neighborhood {
	case NeighborhoodMove, NeighborhoodSwap:
		// ok
	default:
		return fmt.Errorf("unknown neighborhood %q", c.Neighborhood)
	}
	return nil
}
