// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"github.com/samuelfneumann/envspec/environment/spaces"
	ts "github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// UnboundedHorizon is returned by T() when episodes have no step limit
const UnboundedHorizon int = -1

// Describer is the set of properties that single and vectorized
// environments share
type Describer interface {
	// ObservationSpace returns the space of observations
	ObservationSpace() spaces.Space

	// ActionSpace returns the space of legal actions
	ActionSpace() spaces.Space

	// T returns the maximum number of steps in an episode, or
	// UnboundedHorizon if episodes have no step limit
	T() int

	// MaxEpisodeReward returns the maximum attainable return of an
	// episode, which may be +Inf
	MaxEpisodeReward() float64

	// RewardRange returns the minimum and maximum reward of a single
	// timestep
	RewardRange() r1.Interval
}

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when episodes end
type Ender interface {
	// End determines whether the argument TimeStep is the last in the
	// episode. If so, End sets the StepType of the TimeStep to
	// timestep.Last, records the reason through SetEnd, and returns
	// true.
	End(*ts.TimeStep) bool
}

// Task implements the reward scheme and episode termination for taking
// actions in some environment
type Task interface {
	Starter
	Ender

	GetReward(state, action, nextState mat.Vector) float64
	AtGoal(state mat.Matrix) bool

	// RewardRange returns the minimum and maximum reward on any
	// timestep of the task
	RewardRange() r1.Interval

	// MaxEpisodeReward returns the maximum attainable return
	MaxEpisodeReward() float64

	// T returns the episode cutoff of the task
	T() int
}

// Environment implements a simulated environment, which includes a Task
// to complete
type Environment interface {
	Describer

	Reset() (ts.TimeStep, error)
	Step(action *mat.VecDense) (ts.TimeStep, bool, error)
	CurrentTimeStep() ts.TimeStep
	DiscountSpec() float64
}

// VecEnv implements a batch of environments sharing the same spaces,
// which are stepped in lock-step
type VecEnv interface {
	Describer

	// NumEnvs returns the number of environments in the batch
	NumEnvs() int

	// Reset resets each environment in the batch
	Reset() ([]ts.TimeStep, error)

	// Step takes one step in each environment, with actions[i] taken
	// in environment i
	Step(actions []*mat.VecDense) ([]ts.TimeStep, []bool, error)

	// Close releases the batch. Environments in the batch are not
	// usable after Close is called.
	Close() error
}
