package sa

import "fmt"

// Neighborhood kind
type Neighborhood string

const (
	// NeighborhoodSwap exchanges the processors of two tasks.
	NeighborhoodSwap Neighborhood = "swap"
	// NeighborhoodMove reassigns one task to a different processor.
	NeighborhoodMove Neighborhood = "move"
)

type Config struct {
	Iterations        int
	IterationsPerTask int

	InitialTemp float64
	FinalTemp   float64
	Alpha       float64

	Neighborhood Neighborhood
}

func DefaultConfig() Config {
	return Config{
		Iterations:        0,
		IterationsPerTask: 2500,

		InitialTemp: 2000.0,
		FinalTemp:   0.5,
		Alpha:       0.995,

		Neighborhood: NeighborhoodMove,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerTask <= 0 {
		return fmt.Errorf("either Iterations > 0 or IterationsPerTask > 0 must be set")
	}
	if c.InitialTemp <= 0 {
		return fmt.Errorf("InitialTemp must be > 0 (got %f)", c.InitialTemp)
	}
	if c.FinalTemp <= 0 {
		return fmt.Errorf("FinalTemp must be > 0 (got %f)", c.FinalTemp)
	}
	if c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf("FinalTemp must be < InitialTemp (got %f >= %f)", c.FinalTemp, c.InitialTemp)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0,1) (got %f)", c.Alpha)
	}
	switch c.Neighborhood {
	case NeighborhoodSwap, NeighborhoodMove:
		// ok
	default:
		return fmt.Errorf("unknown neighborhood %q", c.Neighborhood)
	}
	return nil
}
