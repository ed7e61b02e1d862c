// Package gym provides access to OpenAI's Gym environments.
//
// Environments are created through GoGym and keep their default tasks
// and episode cutoffs. To use a shorter cutoff, wrap a GymEnv in a
// wrappers.TimeLimit. The horizons and reward ranges of the classic
// control environments are known to this package; all other
// environments report an unbounded horizon and reward range.
//
// This is made possible through the Go bindings for OpenAI Gym,
// found at https://github.com/samuelfneumann/GoGym, and so requires a
// Python installation of OpenAI Gym.
package gym

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/spaces"
	ts "github.com/samuelfneumann/envspec/timestep"
	"github.com/samuelfneumann/gogym"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// properties are the properties of a Gym environment which cannot be
// read from GoGym
type properties struct {
	t                int
	rewardRange      r1.Interval
	maxEpisodeReward float64
}

// known lists the properties of Gym environments under their default
// tasks and cutoffs
var known = map[string]properties{
	"CartPole-v0": {200, r1.Interval{Min: 0, Max: 1}, 200},
	"CartPole-v1": {500, r1.Interval{Min: 0, Max: 1}, 500},

	"MountainCar-v0": {200, r1.Interval{Min: -1, Max: 0}, 0},
	"MountainCarContinuous-v0": {999, r1.Interval{Min: -0.144, Max: 100},
		100},

	"Pendulum-v0": {200, r1.Interval{Min: -16.2736044, Max: 0}, 0},
	"Pendulum-v1": {200, r1.Interval{Min: -16.2736044, Max: 0}, 0},

	"Acrobot-v1": {500, r1.Interval{Min: -1, Max: 0}, 0},
}

// propertiesOf returns the properties of the Gym environment with the
// given name
func propertiesOf(name string) properties {
	if p, ok := known[name]; ok {
		return p
	}
	return properties{
		t:                environment.UnboundedHorizon,
		rewardRange:      r1.Interval{Min: math.Inf(-1), Max: math.Inf(1)},
		maxEpisodeReward: math.Inf(1),
	}
}

// GymEnv implements access to an OpenAI Gym environment using GoGym
//
// GymEnv implements the environment.Environment interface
type GymEnv struct {
	env  gogym.Environment
	name string

	currentStep      ts.TimeStep
	discount         float64
	observationSpace spaces.Space
	actionSpace      spaces.Space
	properties
}

// New returns a new GymEnv with the given name, which must be a legal
// name from the OpenAI Gym suite.
func New(name string, discount float64, seed uint64) (*GymEnv, ts.TimeStep,
	error) {
	goGymEnv, err := gogym.Make(name)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: could not create "+
			"environment: %v", err)
	}

	observationSpace, err := convertSpace(goGymEnv.ObservationSpace(), seed)
	if err != nil {
		goGymEnv.Close()
		return nil, ts.TimeStep{}, fmt.Errorf("new: observation space: %v",
			err)
	}
	actionSpace, err := convertSpace(goGymEnv.ActionSpace(), seed)
	if err != nil {
		goGymEnv.Close()
		return nil, ts.TimeStep{}, fmt.Errorf("new: action space: %v", err)
	}

	if _, err := goGymEnv.Seed(int(seed)); err != nil {
		goGymEnv.Close()
		return nil, ts.TimeStep{}, fmt.Errorf("new: could not seed "+
			"environment: %v", err)
	}

	gymEnv := &GymEnv{
		env:              goGymEnv,
		name:             name,
		discount:         discount,
		observationSpace: observationSpace,
		actionSpace:      actionSpace,
		properties:       propertiesOf(name),
	}

	t, err := gymEnv.Reset()
	if err != nil {
		goGymEnv.Close()
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v", err)
	}

	return gymEnv, t, nil
}

// convertSpace converts a GoGym space to a space of package spaces
func convertSpace(space gogym.Space, seed uint64) (spaces.Space, error) {
	switch space.(type) {
	case *gogym.DiscreteSpace:
		n := int(space.High()[0].AtVec(0)) + 1
		return spaces.NewDiscrete(n, seed)

	case *gogym.BoxSpace:
		return spaces.NewBox(space.Low()[0], space.High()[0], seed)
	}

	return nil, fmt.Errorf("convertSpace: invalid space type %T, package "+
		"gym supports only GoGym's BoxSpace or DiscreteSpace", space)
}

// Step takes a single environmental step
func (g *GymEnv) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a == nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: nil action")
	}
	if !g.actionSpace.Contains(a) && g.actionSpace.Kind() ==
		spaces.KindDiscrete {
		return ts.TimeStep{}, true, fmt.Errorf("step: illegal action %v ∉ "+
			"%v", a.RawVector().Data, g.actionSpace)
	}

	obs, reward, done, err := g.env.Step(a)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: could not step "+
			"GoGym environment: %v", err)
	}

	t := ts.New(ts.Mid, reward, g.discount, mat.VecDenseCopyOf(obs),
		g.currentStep.Number+1)
	if done {
		t.StepType = ts.Last
		if t.Number >= g.t && g.t != environment.UnboundedHorizon {
			t.SetEnd(ts.Timeout)
		} else {
			t.SetEnd(ts.TerminalStateReached)
		}
	}
	g.currentStep = t

	return t, done, nil
}

// Reset resets the environment to some starting state
func (g *GymEnv) Reset() (ts.TimeStep, error) {
	obs, err := g.env.Reset()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: could not reset "+
			"environment: %v", err)
	}

	t := ts.New(ts.First, 0, g.discount, mat.VecDenseCopyOf(obs), 0)
	g.currentStep = t

	return t, nil
}

// CurrentTimeStep returns the current timestep in the environment
func (g *GymEnv) CurrentTimeStep() ts.TimeStep {
	return g.currentStep
}

// ObservationSpace returns the observation space of the environment
func (g *GymEnv) ObservationSpace() spaces.Space {
	return g.observationSpace
}

// ActionSpace returns the action space of the environment
func (g *GymEnv) ActionSpace() spaces.Space {
	return g.actionSpace
}

// DiscountSpec returns the discount of the environment
func (g *GymEnv) DiscountSpec() float64 {
	return g.discount
}

// T returns the default episode cutoff of the environment
func (g *GymEnv) T() int {
	return g.t
}

// MaxEpisodeReward returns the maximum episodic reward
func (g *GymEnv) MaxEpisodeReward() float64 {
	return g.maxEpisodeReward
}

// RewardRange returns the minimum and maximum reward
func (g *GymEnv) RewardRange() r1.Interval {
	return g.rewardRange
}

// Close performs resource cleanup after the environment is no longer
// needed
func (g *GymEnv) Close() error {
	g.env.Close()
	return nil
}

func (g *GymEnv) String() string {
	return fmt.Sprintf("Gym(%v)", g.name)
}

// Close performs cleanup of the package-level resources used to access
// OpenAI Gym. No GymEnv can be used after Close has been called.
func Close() {
	gogym.Close()
}
