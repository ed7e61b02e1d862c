package wrappers

import (
	"testing"

	env "github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/envspec/environment/classiccontrol/mountaincar"
	"github.com/samuelfneumann/envspec/environment/spaces"
	"github.com/samuelfneumann/envspec/spec"
	ts "github.com/samuelfneumann/envspec/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func newMountainCar(t *testing.T, cutoff int) *mountaincar.Discrete {
	starter, err := env.NewUniformStarter([]r1.Interval{{Min: -0.6,
		Max: -0.4}, {}}, 0)
	require.NoError(t, err)

	task, err := mountaincar.NewGoal(starter, cutoff, mountaincar.GoalPosition)
	require.NoError(t, err)

	m, _, err := mountaincar.NewDiscrete(task, 1.0, 0)
	require.NoError(t, err)
	return m
}

func TestTimeLimit(t *testing.T) {
	_, err := NewTimeLimit(newMountainCar(t, 100), 0)
	assert.Error(t, err)
	_, err = NewTimeLimit(nil, 10)
	assert.Error(t, err)

	limited, err := NewTimeLimit(newMountainCar(t, 100), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, limited.T())

	s, err := spec.New(limited)
	require.NoError(t, err)
	assert.Equal(t, 5, s.T())

	// The spec sees the new limit immediately
	require.NoError(t, limited.SetLimit(500))
	assert.Equal(t, 100, s.T(), "wrapped horizon is lower")
	require.NoError(t, limited.SetLimit(20))
	assert.Equal(t, 20, s.T())
	assert.Error(t, limited.SetLimit(-1))
	assert.Equal(t, 20, limited.Limit())

	_, err = limited.Reset()
	require.NoError(t, err)

	action := mat.NewVecDense(1, []float64{1})
	var step ts.TimeStep
	last := false
	for !last {
		step, last, err = limited.Step(action)
		require.NoError(t, err)
	}
	assert.Equal(t, 20, step.Number)
	assert.Equal(t, ts.Timeout, step.EndType())
	current := limited.CurrentTimeStep()
	assert.True(t, current.Last())
	assert.Contains(t, limited.String(), "TimeLimit(steps: 20)")

	_, _, err = limited.Step(mat.NewVecDense(1, []float64{3}))
	assert.Error(t, err)
}

func TestTileCoder(t *testing.T) {
	low := mat.NewVecDense(2, []float64{0, 0})
	high := mat.NewVecDense(2, []float64{1, 1})

	_, err := NewTileCoder(0, low, high, []int{4, 4}, 0)
	assert.Error(t, err)
	_, err = NewTileCoder(2, low, high, []int{4}, 0)
	assert.Error(t, err)
	_, err = NewTileCoder(2, high, low, []int{4, 4}, 0)
	assert.Error(t, err)

	coder, err := NewTileCoder(3, low, high, []int{4, 5}, 0)
	require.NoError(t, err)
	assert.Equal(t, 60, coder.VecLength())

	for _, x := range [][]float64{{0, 0}, {0.3, 0.9}, {1, 1}, {-5, 5}} {
		encoded := coder.Encode(mat.NewVecDense(2, x))
		require.Equal(t, 60, encoded.Len())
		assert.Equal(t, 3.0, floats.Sum(encoded.RawVector().Data))

		// One tile is active in each tiling
		for j := 0; j < 3; j++ {
			tiling := encoded.SliceVec(j*20, (j+1)*20)
			assert.Equal(t, 1.0, mat.Sum(tiling))
		}
	}
}

func TestTileCoding(t *testing.T) {
	bounds := make([]r1.Interval, cartpole.ObservationDims)
	starter, err := env.NewUniformStarter(bounds, 0)
	require.NoError(t, err)
	task, err := cartpole.NewBalance(starter, 10, cartpole.FailAngle)
	require.NoError(t, err)
	c, _, err := cartpole.NewDiscrete(task, 1.0, 0)
	require.NoError(t, err)

	_, _, err = NewTileCoding(c, 2, []int{2, 2, 2, 2}, 0)
	assert.Error(t, err, "unbounded observation space")

	m := newMountainCar(t, 10)
	tc, first, err := NewTileCoding(m, 4, []int{8, 8}, 0)
	require.NoError(t, err)
	assert.Equal(t, 256, first.Observation.Len())

	s, err := spec.New(tc)
	require.NoError(t, err)
	assert.Equal(t, spaces.KindBox, s.ObservationSpace().Kind())
	assert.Equal(t, 256, s.ObservationSpace().Dims())
	assert.Same(t, m.ActionSpace(), s.ActionSpace())
	assert.Equal(t, 10, s.T())

	step, _, err := tc.Step(mat.NewVecDense(1, []float64{2}))
	require.NoError(t, err)
	assert.True(t, s.ObservationSpace().Contains(step.Observation))
	assert.Equal(t, 4.0, mat.Sum(step.Observation))

	step, err = tc.Reset()
	require.NoError(t, err)
	assert.True(t, step.First())
	assert.Equal(t, 4.0, mat.Sum(tc.CurrentTimeStep().Observation))
}
