package pcmax

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluator_Makespan(t *testing.T) {
	inst, err := NewInstance(2, []int{5, 5, 5, 5})
	require.NoError(t, err)
	eval, err := NewEvaluator(inst)
	require.NoError(t, err)

	require.Equal(t, 10, eval.MustMakespan([]int{1, 2, 1, 2}))
	require.Equal(t, 15, eval.MustMakespan([]int{1, 1, 1, 2}))
	require.Equal(t, 20, eval.MustMakespan([]int{2, 2, 2, 2}))
}

func TestEvaluator_BoundsOnRandomAssignments(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, procs := range []int{1, 2, 5, 25} {
		inst := RandomInstance(procs, 120, 1, 99, rng)
		eval, err := NewEvaluator(inst)
		require.NoError(t, err)

		assign := make([]int, inst.Tasks)
		for trial := 0; trial < 50; trial++ {
			for i := range assign {
				assign[i] = 1 + rng.Intn(procs)
			}
			ms := eval.MustMakespan(assign)
			require.GreaterOrEqual(t, ms, inst.LongestTask())
			require.LessOrEqual(t, ms, inst.TotalTime())
			if procs == 1 {
				require.Equal(t, inst.TotalTime(), ms)
			}
		}
	}
}

func TestEvaluator_RejectsOutOfRange(t *testing.T) {
	inst, err := NewInstance(3, []int{1, 2, 3})
	require.NoError(t, err)
	eval, err := NewEvaluator(inst)
	require.NoError(t, err)

	_, err = eval.Makespan([]int{1, 4, 2})
	require.ErrorIs(t, err, ErrInvalidAssignment)

	_, err = eval.Makespan([]int{0, 1, 2})
	require.ErrorIs(t, err, ErrInvalidAssignment)

	_, err = eval.Makespan([]int{1, 2})
	require.ErrorIs(t, err, ErrInvalidAssignment)

	require.Panics(t, func() { eval.MustMakespan([]int{1, 2, 9}) })
}

func TestEvaluator_ReusesBufferBetweenCalls(t *testing.T) {
	inst, err := NewInstance(2, []int{4, 6})
	require.NoError(t, err)
	eval, err := NewEvaluator(inst)
	require.NoError(t, err)

	require.Equal(t, 10, eval.MustMakespan([]int{1, 1}))
	// A stale accumulator would report 10 + 6 here.
	require.Equal(t, 6, eval.MustMakespan([]int{1, 2}))

	assign := []int{2, 1}
	allocs := testing.AllocsPerRun(100, func() {
		eval.MustMakespan(assign)
	})
	require.Zero(t, allocs)
}

func TestEvaluator_Loads(t *testing.T) {
	inst, err := NewInstance(3, []int{1, 2, 3, 4})
	require.NoError(t, err)
	eval, err := NewEvaluator(inst)
	require.NoError(t, err)

	loads, err := eval.Loads([]int{1, 3, 3, 1}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{5, 0, 5}, loads)

	_, err = eval.Loads([]int{1, 3, 3, 4}, loads)
	require.ErrorIs(t, err, ErrInvalidAssignment)
}
