// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are JSON and YAML serializable.
package envconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	env "github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/gym"
	"github.com/samuelfneumann/envspec/environment/vecenv"
	"github.com/samuelfneumann/envspec/environment/wrappers"
	"github.com/samuelfneumann/envspec/spec"
	ts "github.com/samuelfneumann/envspec/timestep"
	"gopkg.in/yaml.v2"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	MountainCar EnvName = "MountainCar"
	Pendulum    EnvName = "Pendulum"
	Cartpole    EnvName = "Cartpole"
	Acrobot     EnvName = "Acrobot"
)

// TaskName stores the tasks that can be configured with this package.
// Note that not all tasks can be used with all environments. The tasks
// that can be used with each environment are as follows:
//
//	Environment			Task
//	MountainCar			Goal
//	Cartpole			Balance
//	Pendulum			SwingUp
//	Acrobot				SwingUp
type TaskName string

// Tasks available for configuration
const (
	Goal    TaskName = "Goal"
	SwingUp TaskName = "SwingUp"
	Balance TaskName = "Balance"
)

// tasks maps each environment to the tasks it can be used with
var tasks = map[EnvName][]TaskName{
	MountainCar: {Goal},
	Cartpole:    {Balance},
	Pendulum:    {SwingUp},
	Acrobot:     {SwingUp},
}

// TileCoding configures a wrappers.TileCoding around the environment
type TileCoding struct {
	Tilings int   `json:"tilings" yaml:"tilings"`
	Bins    []int `json:"bins" yaml:"bins"`
}

// Config implements a specific configuration of a specific environment
// and specific task. Not all environments can have all tasks.
//
// If Gym is true, Environment is the name of an OpenAI Gym environment,
// Task is ignored, and a positive EpisodeCutoff wraps the environment
// in a wrappers.TimeLimit. Otherwise, Environment is one of the
// EnvName constants and EpisodeCutoff is the cutoff of the Task.
type Config struct {
	Environment       EnvName     `json:"environment" yaml:"environment"`
	Task              TaskName    `json:"task" yaml:"task"`
	ContinuousActions bool        `json:"continuousActions" yaml:"continuousActions"`
	EpisodeCutoff     int         `json:"episodeCutoff" yaml:"episodeCutoff"`
	Discount          float64     `json:"discount" yaml:"discount"`
	Gym               bool        `json:"gym" yaml:"gym"`
	NumEnvs           int         `json:"numEnvs,omitempty" yaml:"numEnvs,omitempty"`
	Parallel          bool        `json:"parallel,omitempty" yaml:"parallel,omitempty"`
	TileCoding        *TileCoding `json:"tileCoding,omitempty" yaml:"tileCoding,omitempty"`
}

// NewConfig returns a new environment Config of a single environment
func NewConfig(envName EnvName, taskName TaskName, continuousActions bool,
	episodeCutoff int, discount float64, gym bool) Config {
	return Config{
		Environment:       envName,
		Task:              taskName,
		ContinuousActions: continuousActions,
		EpisodeCutoff:     episodeCutoff,
		Discount:          discount,
		Gym:               gym,
		NumEnvs:           1,
	}
}

// Load reads a Config from a JSON (.json) or YAML (.yaml, .yml) file
// and validates it. Unknown fields are an error in both formats.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: could not read config: %v", err)
	}

	var c Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		err = decoder.Decode(&c)

	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, &c)

	default:
		return Config{}, fmt.Errorf("load: unknown config format %q", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("load: could not decode %v: %v", path,
			err)
	}

	if c.NumEnvs == 0 {
		c.NumEnvs = 1
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("load: %v", err)
	}
	return c, nil
}

// Validate checks that the Config describes an environment which can
// be created
func (c Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("validate: no environment specified")
	}

	if !c.Gym {
		legal, ok := tasks[c.Environment]
		if !ok {
			return fmt.Errorf("validate: no such environment %v",
				c.Environment)
		}
		if !hasTask(legal, c.Task) {
			return fmt.Errorf("validate: %v environment has no task %v",
				c.Environment, c.Task)
		}
		if c.EpisodeCutoff <= 0 {
			return fmt.Errorf("validate: episode cutoff must be positive, "+
				"got %v", c.EpisodeCutoff)
		}
	} else if c.EpisodeCutoff < 0 {
		return fmt.Errorf("validate: episode cutoff cannot be negative, "+
			"got %v", c.EpisodeCutoff)
	}

	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], got %v",
			c.Discount)
	}
	if c.NumEnvs < 1 {
		return fmt.Errorf("validate: number of environments must be "+
			"positive, got %v", c.NumEnvs)
	}
	if c.TileCoding != nil && (c.TileCoding.Tilings <= 0 ||
		len(c.TileCoding.Bins) == 0) {
		return fmt.Errorf("validate: tile coding needs a positive number of "+
			"tilings and bins")
	}

	return nil
}

func hasTask(legal []TaskName, task TaskName) bool {
	for _, t := range legal {
		if t == task {
			return true
		}
	}
	return false
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	e, step, err := c.create(seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	if c.TileCoding != nil {
		tc, tcStep, err := wrappers.NewTileCoding(e, c.TileCoding.Tilings,
			c.TileCoding.Bins, seed)
		if err != nil {
			closeEnv(e)
			return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
		}
		e, step = tc, tcStep
	}

	return e, step, nil
}

// create returns the environment, without wrappers other than a time
// limit
func (c Config) create(seed uint64) (env.Environment, ts.TimeStep, error) {
	if c.Gym {
		return c.createGym(seed)
	}

	switch c.Environment {
	case MountainCar:
		return CreateMountainCar(c.ContinuousActions, c.Task,
			c.EpisodeCutoff, seed, c.Discount)

	case Cartpole:
		return CreateCartpole(c.ContinuousActions, c.Task,
			c.EpisodeCutoff, seed, c.Discount)

	case Pendulum:
		return CreatePendulum(c.ContinuousActions, c.Task,
			c.EpisodeCutoff, seed, c.Discount)

	case Acrobot:
		return CreateAcrobot(c.ContinuousActions, c.Task,
			c.EpisodeCutoff, seed, c.Discount)
	}

	return nil, ts.TimeStep{}, fmt.Errorf("cannot create environment %v, "+
		"no such environment", c.Environment)
}

// createGym returns the OpenAI Gym environment described by the Config
func (c Config) createGym(seed uint64) (env.Environment, ts.TimeStep,
	error) {
	g, step, err := gym.New(string(c.Environment), c.Discount, seed)
	if err != nil {
		return nil, ts.TimeStep{}, err
	}
	if c.EpisodeCutoff == 0 {
		return g, step, nil
	}

	limited, err := wrappers.NewTimeLimit(g, c.EpisodeCutoff)
	if err != nil {
		g.Close()
		return nil, ts.TimeStep{}, err
	}
	return limited, step, nil
}

// CreateVec returns a vectorized environment of NumEnvs environments
// described by the Config. Member i is seeded with seed + i.
func (c Config) CreateVec(seed uint64) (env.VecEnv, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createVec: %v", err)
	}

	envs := make([]env.Environment, c.NumEnvs)
	for i := range envs {
		e, _, err := c.Create(seed + uint64(i))
		if err != nil {
			for _, created := range envs[:i] {
				closeEnv(created)
			}
			return nil, fmt.Errorf("createVec: environment %v: %v", i, err)
		}
		envs[i] = e
	}

	v, err := newVecEnv(envs, c.Parallel)
	if err != nil {
		return nil, fmt.Errorf("createVec: %v", err)
	}
	return v, nil
}

// newVecEnv batches envs into a vectorized environment. If the batch
// cannot be built, every member is closed.
func newVecEnv(envs []env.Environment, parallel bool) (env.VecEnv, error) {
	var v env.VecEnv
	var err error
	if parallel {
		v, err = vecenv.NewParallel(envs...)
	} else {
		v, err = vecenv.NewSerial(envs...)
	}
	if err != nil {
		for _, e := range envs {
			closeEnv(e)
		}
		return nil, err
	}
	return v, nil
}

// Describe returns the specification of the environment described by
// the Config. If NumEnvs > 1, the environment is vectorized.
func (c Config) Describe(seed uint64) (*spec.EnvSpec, error) {
	var e interface{}
	var err error
	if c.NumEnvs > 1 {
		e, err = c.CreateVec(seed)
	} else {
		e, _, err = c.Create(seed)
	}
	if err != nil {
		return nil, fmt.Errorf("describe: %v", err)
	}

	return spec.New(e)
}

// closeEnv closes environments which hold resources
func closeEnv(e env.Environment) {
	if e == nil {
		return
	}
	if closer, ok := e.(io.Closer); ok {
		closer.Close()
	}
}
