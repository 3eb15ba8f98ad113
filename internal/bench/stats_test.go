package bench

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalcStats(t *testing.T) {
	s := CalcStats([]int{12, 10, 14})
	require.Equal(t, 3, s.N)
	require.Equal(t, 10.0, s.Best)
	require.InDelta(t, 12.0, s.Mean, 1e-9)
	require.InDelta(t, 2.0, s.Std, 1e-9)

	f := CalcStats([]float64{1.5, 2.5})
	require.Equal(t, 1.5, f.Best)
	require.InDelta(t, 2.0, f.Mean, 1e-9)
	require.InDelta(t, math.Sqrt(0.5), f.Std, 1e-9)
}

func TestCalcStats_Degenerate(t *testing.T) {
	require.Equal(t, Stats{}, CalcStats[int](nil))

	one := CalcStats([]int{7})
	require.Equal(t, Stats{N: 1, Best: 7, Mean: 7}, one)
}
