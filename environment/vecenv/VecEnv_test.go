package vecenv

import (
	"errors"
	"testing"

	env "github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/envspec/environment/classiccontrol/mountaincar"
	"github.com/samuelfneumann/envspec/spec"
	ts "github.com/samuelfneumann/envspec/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func newCartpole(t *testing.T, cutoff int, seed uint64) *cartpole.Discrete {
	bounds := make([]r1.Interval, cartpole.ObservationDims)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: -0.05, Max: 0.05}
	}
	starter, err := env.NewUniformStarter(bounds, seed)
	require.NoError(t, err)

	task, err := cartpole.NewBalance(starter, cutoff, cartpole.FailAngle)
	require.NoError(t, err)

	c, _, err := cartpole.NewDiscrete(task, 1.0, seed)
	require.NoError(t, err)
	return c
}

func newMountainCar(t *testing.T) *mountaincar.Discrete {
	starter, err := env.NewUniformStarter([]r1.Interval{{Min: -0.5,
		Max: -0.5}, {}}, 0)
	require.NoError(t, err)

	task, err := mountaincar.NewGoal(starter, 10, mountaincar.GoalPosition)
	require.NoError(t, err)

	m, _, err := mountaincar.NewDiscrete(task, 1.0, 0)
	require.NoError(t, err)
	return m
}

// closer records whether it was closed
type closer struct {
	*cartpole.Discrete
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func constructors() map[string]func(...env.Environment) (env.VecEnv, error) {
	return map[string]func(...env.Environment) (env.VecEnv, error){
		"Serial": func(envs ...env.Environment) (env.VecEnv, error) {
			return NewSerial(envs...)
		},
		"Parallel": func(envs ...env.Environment) (env.VecEnv, error) {
			return NewParallel(envs...)
		},
	}
}

func TestNew(t *testing.T) {
	for name, construct := range constructors() {
		t.Run(name, func(t *testing.T) {
			_, err := construct()
			assert.Error(t, err, "empty batch")

			_, err = construct(newCartpole(t, 10, 0), newMountainCar(t))
			assert.Error(t, err, "mismatched spaces")

			_, err = construct(newCartpole(t, 10, 0), nil)
			assert.Error(t, err, "nil member")

			v, err := construct(newCartpole(t, 10, 0),
				newCartpole(t, 30, 1), newCartpole(t, 20, 2))
			require.NoError(t, err)
			assert.Equal(t, 3, v.NumEnvs())
			assert.Equal(t, 30, v.T())
		})
	}
}

func TestSpec(t *testing.T) {
	for name, construct := range constructors() {
		t.Run(name, func(t *testing.T) {
			v, err := construct(newCartpole(t, 100, 0), newCartpole(t, 200, 1))
			require.NoError(t, err)

			s, err := spec.New(v)
			require.NoError(t, err)
			assert.True(t, s.Vectorized())

			control, err := s.ControlType()
			require.NoError(t, err)
			assert.Equal(t, spec.Discrete, control)
			assert.Equal(t, 200, s.T())
			assert.Equal(t, 200.0, s.MaxEpisodeReward())
			assert.Equal(t, r1.Interval{Min: -1, Max: 1}, s.RewardRange())
			assert.Contains(t, s.String(), name+"(2 x Cartpole-Discrete)")
		})
	}
}

// shifted reports a different reward range than the environment it
// embeds
type shifted struct {
	*cartpole.Discrete
	rewardRange r1.Interval
}

func (s *shifted) RewardRange() r1.Interval { return s.rewardRange }

func TestMixedMembers(t *testing.T) {
	for name, construct := range constructors() {
		t.Run(name, func(t *testing.T) {
			short := newCartpole(t, 10, 0)
			long := &shifted{newCartpole(t, 300, 1),
				r1.Interval{Min: -5, Max: 0.5}}

			v, err := construct(short, long)
			require.NoError(t, err)

			assert.Equal(t, 300, v.T())
			assert.Equal(t, 300.0, v.MaxEpisodeReward())
			assert.Equal(t, r1.Interval{Min: -5, Max: 1}, v.RewardRange())
		})
	}
}

func TestStep(t *testing.T) {
	for name, construct := range constructors() {
		t.Run(name, func(t *testing.T) {
			v, err := construct(newCartpole(t, 3, 0), newCartpole(t, 5, 1))
			require.NoError(t, err)

			first, err := v.Reset()
			require.NoError(t, err)
			require.Len(t, first, 2)
			for _, step := range first {
				assert.True(t, step.First())
			}

			_, _, err = v.Step([]*mat.VecDense{mat.NewVecDense(1, nil)})
			assert.Error(t, err, "too few actions")

			actions := []*mat.VecDense{
				mat.NewVecDense(1, []float64{1}),
				mat.NewVecDense(1, []float64{1}),
			}
			_, _, err = v.Step([]*mat.VecDense{actions[0],
				mat.NewVecDense(1, []float64{7})})
			assert.Error(t, err, "illegal action")

			// Members end their episodes independently and are reset
			// automatically
			ends := make([]int, 2)
			for i := 1; i <= 15; i++ {
				steps, lasts, err := v.Step(actions)
				require.NoError(t, err)
				require.Len(t, steps, 2)
				require.Len(t, lasts, 2)

				for j, last := range lasts {
					if last {
						ends[j]++
						assert.Equal(t, ts.Timeout, steps[j].EndType())
					}
				}
			}
			assert.Equal(t, []int{5, 3}, ends)
		})
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	serial, err := NewSerial(newCartpole(t, 50, 0), newCartpole(t, 50, 1))
	require.NoError(t, err)
	parallel, err := NewParallel(newCartpole(t, 50, 0), newCartpole(t, 50, 1))
	require.NoError(t, err)

	serialSteps, err := serial.Reset()
	require.NoError(t, err)
	parallelSteps, err := parallel.Reset()
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		for j := range serialSteps {
			assert.True(t, mat.Equal(serialSteps[j].Observation,
				parallelSteps[j].Observation))
		}

		actions := []*mat.VecDense{
			mat.NewVecDense(1, []float64{float64(i % 3)}),
			mat.NewVecDense(1, []float64{float64((i + 1) % 3)}),
		}
		serialSteps, _, err = serial.Step(actions)
		require.NoError(t, err)
		parallelSteps, _, err = parallel.Step(actions)
		require.NoError(t, err)
	}
}

func TestClose(t *testing.T) {
	for name, construct := range constructors() {
		t.Run(name, func(t *testing.T) {
			a := &closer{Discrete: newCartpole(t, 10, 0)}
			b := &closer{Discrete: newCartpole(t, 10, 1),
				err: errors.New("closer")}

			v, err := construct(a, b, newCartpole(t, 10, 2))
			require.NoError(t, err)

			err = v.Close()
			assert.Error(t, err)
			assert.True(t, a.closed)
			assert.True(t, b.closed)
		})
	}
}
