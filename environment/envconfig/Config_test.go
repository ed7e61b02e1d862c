package envconfig

import (
	"os"
	"path/filepath"
	"testing"

	env "github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/spaces"
	"github.com/samuelfneumann/envspec/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func writeFile(t *testing.T, name, contents string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	jsonPath := writeFile(t, "config.json", `{
		"environment": "Cartpole",
		"task": "Balance",
		"continuousActions": false,
		"episodeCutoff": 500,
		"discount": 0.99
	}`)
	yamlPath := writeFile(t, "config.yaml", `
environment: Cartpole
task: Balance
continuousActions: false
episodeCutoff: 500
discount: 0.99
`)

	fromJSON, err := Load(jsonPath)
	require.NoError(t, err)
	fromYAML, err := Load(yamlPath)
	require.NoError(t, err)

	want := NewConfig(Cartpole, Balance, false, 500, 0.99, false)
	assert.Equal(t, want, fromJSON)
	assert.Equal(t, want, fromYAML)

	_, err = Load(writeFile(t, "config.toml", "environment = 'Cartpole'"))
	assert.Error(t, err, "unknown format")

	_, err = Load(writeFile(t, "bad.yml", "environment: Cartpole\nfoo: 1\n"))
	assert.Error(t, err, "unknown field")

	_, err = Load(writeFile(t, "bad.json", `{
		"environment": "Cartpole",
		"task": "Balance",
		"episodeCutoff": 500,
		"discount": 0.99,
		"foo": 1
	}`))
	assert.Error(t, err, "unknown field")

	_, err = Load(writeFile(t, "invalid.json",
		`{"environment": "Cartpole", "task": "Goal", "episodeCutoff": 5}`))
	assert.Error(t, err, "invalid task")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := NewConfig(Pendulum, SwingUp, true, 200, 1.0, false)
	require.NoError(t, valid.Validate())

	invalid := map[string]func(c *Config){
		"NoEnvironment":   func(c *Config) { c.Environment = "" },
		"UnknownEnv":      func(c *Config) { c.Environment = "Reacher" },
		"WrongTask":       func(c *Config) { c.Task = Balance },
		"ZeroCutoff":      func(c *Config) { c.EpisodeCutoff = 0 },
		"NegativeGymCut":  func(c *Config) { c.Gym = true; c.EpisodeCutoff = -1 },
		"DiscountTooHigh": func(c *Config) { c.Discount = 1.5 },
		"NoEnvs":          func(c *Config) { c.NumEnvs = 0 },
		"EmptyTileCoding": func(c *Config) { c.TileCoding = &TileCoding{} },
	}

	for name, modify := range invalid {
		t.Run(name, func(t *testing.T) {
			c := valid
			modify(&c)
			assert.Error(t, c.Validate())
		})
	}

	gym := NewConfig("CartPole-v1", "", false, 0, 0.99, true)
	assert.NoError(t, gym.Validate())
}

func TestCreate(t *testing.T) {
	tests := []struct {
		env     EnvName
		task    TaskName
		obsDims int
	}{
		{Cartpole, Balance, 4},
		{MountainCar, Goal, 2},
		{Pendulum, SwingUp, 2},
		{Acrobot, SwingUp, 4},
	}

	for _, test := range tests {
		for _, continuous := range []bool{false, true} {
			c := NewConfig(test.env, test.task, continuous, 50, 0.9, false)
			e, step, err := c.Create(7)
			require.NoError(t, err)
			assert.True(t, step.First())
			assert.Equal(t, test.obsDims, e.ObservationSpace().Dims())
			assert.Equal(t, 50, e.T())
			assert.Equal(t, 0.9, e.DiscountSpec())

			want := spaces.KindDiscrete
			if continuous {
				want = spaces.KindBox
			}
			assert.Equal(t, want, e.ActionSpace().Kind())
		}
	}
}

func TestCreateTileCoding(t *testing.T) {
	c := NewConfig(MountainCar, Goal, false, 50, 1.0, false)
	c.TileCoding = &TileCoding{Tilings: 2, Bins: []int{4, 4}}

	e, step, err := c.Create(0)
	require.NoError(t, err)
	assert.Equal(t, 32, e.ObservationSpace().Dims())
	assert.Equal(t, 2.0, mat.Sum(step.Observation))

	// Cartpole has an unbounded observation space
	c = NewConfig(Cartpole, Balance, false, 50, 1.0, false)
	c.TileCoding = &TileCoding{Tilings: 2, Bins: []int{4, 4, 4, 4}}
	_, _, err = c.Create(0)
	assert.Error(t, err)
}

func TestCreateVec(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		c := NewConfig(Cartpole, Balance, false, 100, 0.99, false)
		c.NumEnvs = 3
		c.Parallel = parallel

		v, err := c.CreateVec(11)
		require.NoError(t, err)
		assert.Equal(t, 3, v.NumEnvs())

		steps, err := v.Reset()
		require.NoError(t, err)
		require.Len(t, steps, 3)

		// Members are seeded differently
		assert.False(t, mat.Equal(steps[0].Observation, steps[1].Observation))
		require.NoError(t, v.Close())
	}
}

// closer records whether it was closed
type closer struct {
	env.Environment
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return nil
}

func TestNewVecEnvClosesMembers(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		cartpole, _, err := NewConfig(Cartpole, Balance, false, 10, 1.0,
			false).Create(0)
		require.NoError(t, err)
		mountainCar, _, err := NewConfig(MountainCar, Goal, false, 10, 1.0,
			false).Create(0)
		require.NoError(t, err)

		// Members with different spaces cannot be batched
		members := []*closer{{Environment: cartpole},
			{Environment: mountainCar}}
		_, err = newVecEnv([]env.Environment{members[0], members[1]},
			parallel)
		require.Error(t, err)

		for _, m := range members {
			assert.True(t, m.closed)
		}
	}
}

func TestDescribe(t *testing.T) {
	c := NewConfig(Pendulum, SwingUp, true, 200, 0.99, false)
	s, err := c.Describe(0)
	require.NoError(t, err)
	assert.False(t, s.Vectorized())

	control, err := s.ControlType()
	require.NoError(t, err)
	assert.Equal(t, spec.Continuous, control)
	assert.Equal(t, 200, s.T())
	assert.Equal(t, 200.0, s.MaxEpisodeReward())

	c.NumEnvs = 4
	s, err = c.Describe(0)
	require.NoError(t, err)
	assert.True(t, s.Vectorized())
	assert.Equal(t, 200, s.T())

	c.Task = Goal
	_, err = c.Describe(0)
	assert.Error(t, err)
}
