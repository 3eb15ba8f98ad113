package ts

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"pcmax/internal/opt"
	"pcmax/internal/pcmax"
)

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Neighborhood = "insert"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.TabuTenure = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Iterations, cfg.IterationsPerTask = 0, 0
	require.Error(t, cfg.Validate())
}

func TestTabuList_Expiry(t *testing.T) {
	tl := newTabuList(8)
	k := moveKey(3, 1, 2)
	tl.Add(k, 5)

	require.True(t, tl.IsTabu(k, 0))
	require.True(t, tl.IsTabu(k, 4))
	require.False(t, tl.IsTabu(k, 5))
	require.False(t, tl.IsTabu(moveKey(3, 2, 1), 0))
}

func TestTabuList_RingEviction(t *testing.T) {
	tl := newTabuList(8)
	first := moveKey(0, 1, 2)
	tl.Add(first, 100)
	for i := 1; i < 8; i++ {
		tl.Add(moveKey(i, 1, 2), 100)
	}
	require.True(t, tl.IsTabu(first, 0))

	tl.Add(moveKey(8, 1, 2), 100)
	require.False(t, tl.IsTabu(first, 0))
}

func TestSample_MoveChangesProcessor(t *testing.T) {
	s, err := New(DefaultConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	a := []int{1, 2, 3, 1, 2}
	for trial := 0; trial < 500; trial++ {
		m := s.sample(a, 3)
		require.GreaterOrEqual(t, m.b, 1)
		require.LessOrEqual(t, m.b, 3)
		require.NotEqual(t, a[m.a], m.b)
	}
}

func TestReverse_UndoesMove(t *testing.T) {
	for _, nb := range []Neighborhood{NeighborhoodMove, NeighborhoodSwap} {
		cfg := DefaultConfig()
		cfg.Neighborhood = nb
		s, err := New(cfg, rand.New(rand.NewSource(2)))
		require.NoError(t, err)

		a := []int{1, 2, 3, 1, 2}
		orig := append([]int(nil), a...)
		for trial := 0; trial < 100; trial++ {
			m := s.sample(a, 3)
			r := s.reverse(a, m)
			s.apply(a, m)
			s.apply(a, r)
			require.Equal(t, orig, a)
		}
	}
}

func TestSolve(t *testing.T) {
	inst, err := pcmax.NewInstance(2, []int{5, 5, 5, 5})
	require.NoError(t, err)

	for _, nb := range []Neighborhood{NeighborhoodMove, NeighborhoodSwap} {
		cfg := DefaultConfig()
		cfg.Neighborhood = nb
		cfg.Iterations = 200
		s, err := New(cfg, rand.New(rand.NewSource(3)))
		require.NoError(t, err)

		res, err := s.Solve(context.Background(), inst)
		require.NoError(t, err)
		require.Equal(t, opt.StopIterations, res.Stopped)

		eval, err := pcmax.NewEvaluator(inst)
		require.NoError(t, err)
		require.Equal(t, eval.MustMakespan(res.Assignment), res.Makespan)
		if nb == NeighborhoodMove {
			require.Equal(t, 10, res.Makespan)
		}
	}
}

func TestSolve_SingleProcessor(t *testing.T) {
	inst, err := pcmax.NewInstance(1, []int{3, 4})
	require.NoError(t, err)

	s, err := New(DefaultConfig(), rand.New(rand.NewSource(4)))
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)
	require.Equal(t, 7, res.Makespan)
	require.Equal(t, []int{1, 1}, res.Assignment)
}

func TestSolve_ContextCancelled(t *testing.T) {
	inst, err := pcmax.NewInstance(2, []int{1, 2, 3})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := New(DefaultConfig(), rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	res, err := s.Solve(ctx, inst)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, opt.StopContext, res.Stopped)
	require.Len(t, res.Assignment, 3)
}
