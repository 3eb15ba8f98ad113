package ga

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig wraps every Config validation failure.
var ErrInvalidConfig = errors.New("invalid ga config")

// Replacement selects how the elites' offspring overwrite the population.
type Replacement string

const (
	// ReplacementPerSlot replaces every non-elite slot independently with
	// probability CrossoverRate.
	ReplacementPerSlot Replacement = "per-slot"
	// ReplacementQuota performs Population*ReplacementQuota crossovers into
	// randomly drawn non-elite slots. Draws are independent, so one slot may
	// be overwritten several times in a generation.
	ReplacementQuota Replacement = "quota"
)

// Config holds the parameters of one search loop.
type Config struct {
	Population    int
	MaxIterations int
	MaxTime       time.Duration
	// Limit is the target makespan: the search stops once best <= Limit.
	Limit int

	Replacement      Replacement
	CrossoverRate    float64
	ReplacementQuota float64
	MutationRate     float64

	// StopCheckInterval is the number of generations between two reads of the
	// shared stop signal.
	StopCheckInterval int
}

// Validate checks sizes and rates. The quota policy needs a non-elite slot,
// so it requires Population >= 3.
func (c Config) Validate() error {
	if c.Population <= 1 {
		return fmt.Errorf("%w: population must be > 1 (got %d)", ErrInvalidConfig, c.Population)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be > 0 (got %d)", ErrInvalidConfig, c.MaxIterations)
	}
	if c.MaxTime <= 0 {
		return fmt.Errorf("%w: max time must be > 0 (got %s)", ErrInvalidConfig, c.MaxTime)
	}
	if c.Limit < 0 {
		return fmt.Errorf("%w: limit must be >= 0 (got %d)", ErrInvalidConfig, c.Limit)
	}
	switch c.Replacement {
	case ReplacementPerSlot:
	case ReplacementQuota:
		if c.Population < 3 {
			return fmt.Errorf("%w: quota replacement needs population >= 3 (got %d)", ErrInvalidConfig, c.Population)
		}
	default:
		return fmt.Errorf("%w: unknown replacement policy %q", ErrInvalidConfig, c.Replacement)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("%w: crossover rate must be in [0,1] (got %f)", ErrInvalidConfig, c.CrossoverRate)
	}
	if c.ReplacementQuota < 0 || c.ReplacementQuota > 1 {
		return fmt.Errorf("%w: replacement quota must be in [0,1] (got %f)", ErrInvalidConfig, c.ReplacementQuota)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("%w: mutation rate must be in [0,1] (got %f)", ErrInvalidConfig, c.MutationRate)
	}
	if c.StopCheckInterval <= 0 {
		return fmt.Errorf("%w: stop check interval must be > 0 (got %d)", ErrInvalidConfig, c.StopCheckInterval)
	}
	return nil
}

// quotaCount is the number of crossovers per generation under ReplacementQuota.
func (c Config) quotaCount() int {
	return int(float64(c.Population) * c.ReplacementQuota)
}

// DefaultConfig returns the parallel-mode parameters.
func DefaultConfig() Config {
	return Config{
		Population:        100,
		MaxIterations:     10_000_000,
		MaxTime:           300 * time.Second,
		Limit:             0,
		Replacement:       ReplacementPerSlot,
		CrossoverRate:     0.40,
		ReplacementQuota:  0.20,
		MutationRate:      0.05,
		StopCheckInterval: 1000,
	}
}

// SequentialConfig mirrors the single-threaded search: quota replacement and
// a smaller iteration budget.
func SequentialConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxIterations = 5_000_000
	cfg.Replacement = ReplacementQuota
	return cfg
}
