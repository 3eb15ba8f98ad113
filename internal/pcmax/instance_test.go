package pcmax

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewInstance_Validation(t *testing.T) {
	_, err := NewInstance(0, []int{1, 2})
	require.ErrorIs(t, err, ErrInvalidInstance)

	_, err = NewInstance(2, nil)
	require.ErrorIs(t, err, ErrInvalidInstance)

	_, err = NewInstance(2, []int{3, -1})
	require.ErrorIs(t, err, ErrInvalidInstance)

	inst, err := NewInstance(2, []int{0, 4, 7})
	require.NoError(t, err)
	require.Equal(t, 3, inst.Tasks)
}

func TestInstance_Bounds(t *testing.T) {
	inst, err := NewInstance(3, []int{9, 1, 1, 1})
	require.NoError(t, err)
	require.Equal(t, 12, inst.TotalTime())
	require.Equal(t, 9, inst.LongestTask())
	require.Equal(t, 9, inst.LowerBound())

	inst, err = NewInstance(2, []int{5, 5, 5, 5, 1})
	require.NoError(t, err)
	require.Equal(t, 11, inst.LowerBound())
}

func TestRandomInstance(t *testing.T) {
	inst := RandomInstance(4, 50, 3, 9, rand.New(rand.NewSource(1)))
	require.NoError(t, inst.Validate())
	for _, v := range inst.TaskTimes {
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 9)
	}

	again := RandomInstance(4, 50, 3, 9, rand.New(rand.NewSource(1)))
	require.Equal(t, inst.TaskTimes, again.TaskTimes)
}

func TestNewInstance_CopiesTaskTimes(t *testing.T) {
	times := []int{3, 4, 5}
	inst, err := NewInstance(2, times)
	require.NoError(t, err)

	times[0] = 100
	require.Equal(t, []int{3, 4, 5}, inst.TaskTimes)
	require.Equal(t, 12, inst.TotalTime())
}
