package bench

import (
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// Stats summarises repeated runs. Std is the sample standard deviation and is
// 0 for fewer than two values.
type Stats struct {
	N    int
	Best float64
	Mean float64
	Std  float64
}

func CalcStats[T Number](values []T) Stats {
	s := Stats{N: len(values)}
	if s.N == 0 {
		return s
	}

	xs := make([]float64, len(values))
	for i, v := range values {
		xs[i] = float64(v)
	}

	s.Best = floats.Min(xs)
	if s.N < 2 {
		s.Mean = xs[0]
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(xs, nil)
	return s
}
