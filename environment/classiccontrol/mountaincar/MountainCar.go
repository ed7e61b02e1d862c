// Package mountaincar implements the classic control environment
// "Mountain Car"
package mountaincar

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/spaces"
	ts "github.com/samuelfneumann/envspec/timestep"
	"github.com/samuelfneumann/envspec/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	MinPosition float64 = -1.2
	MaxPosition float64 = 0.6
	MaxSpeed    float64 = 0.07
	Power       float64 = 0.0015 // Engine power
	Gravity     float64 = 0.0025

	ObservationDims int = 2
	ActionDims      int = 1

	// Discrete Actions Env
	MinDiscreteAction int = 0
	MaxDiscreteAction int = 2

	// Continuous Actions Env
	MinContinuousAction float64 = -1.0
	MaxContinuousAction float64 = 1.0
)

// base implements the underlying Mountain Car environment. It tracks
// all the needed physical and environmental variables, but does not
// compute forces from actions. The Discrete and Continuous structs
// each embed a base environment and calculate the force from actions.
//
// In Mountain Car, the environment state is continuous and consists of
// the car's x position and velocity. The x position and velocity are
// bounded by the constants defined in this package.
type base struct {
	env.Task
	positionBounds   r1.Interval
	speedBounds      r1.Interval
	lastStep         ts.TimeStep
	discount         float64
	power            float64
	gravity          float64
	observationSpace *spaces.Box
}

// newBase creates a new base environment with the argument task
func newBase(t env.Task, discount float64, seed uint64) (*base, ts.TimeStep,
	error) {
	positionBounds := r1.Interval{Min: MinPosition, Max: MaxPosition}
	speedBounds := r1.Interval{Min: -MaxSpeed, Max: MaxSpeed}

	observationSpace, err := spaces.NewBox(
		mat.NewVecDense(ObservationDims, []float64{positionBounds.Min,
			speedBounds.Min}),
		mat.NewVecDense(ObservationDims, []float64{positionBounds.Max,
			speedBounds.Max}),
		seed,
	)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newBase: could not create "+
			"observation space: %v", err)
	}

	state := t.Start()
	if !observationSpace.Contains(state) {
		return nil, ts.TimeStep{}, fmt.Errorf("newBase: illegal starting "+
			"state %v ∉ %v", state.RawVector().Data, observationSpace)
	}

	firstStep := ts.New(ts.First, 0.0, discount, state, 0)

	mountainCar := &base{
		Task:             t,
		positionBounds:   positionBounds,
		speedBounds:      speedBounds,
		lastStep:         firstStep,
		discount:         discount,
		power:            Power,
		gravity:          Gravity,
		observationSpace: observationSpace,
	}

	return mountainCar, firstStep, nil
}

// ObservationSpace returns the observation space of the environment
func (m *base) ObservationSpace() spaces.Space {
	return m.observationSpace
}

// DiscountSpec returns the discount of the environment
func (m *base) DiscountSpec() float64 {
	return m.discount
}

// CurrentTimeStep returns the current timestep in the environment
func (m *base) CurrentTimeStep() ts.TimeStep {
	return m.lastStep
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (m *base) Reset() (ts.TimeStep, error) {
	state := m.Start()
	if !m.observationSpace.Contains(state) {
		return ts.TimeStep{}, fmt.Errorf("reset: illegal starting state "+
			"%v ∉ %v", state.RawVector().Data, m.observationSpace)
	}

	startStep := ts.New(ts.First, 0, m.discount, state, 0)
	m.lastStep = startStep

	return startStep, nil
}

// nextState calculates the next state in the environment given the
// force applied to the car
func (m *base) nextState(force float64) *mat.VecDense {
	// Get the current state
	state := m.lastStep.Observation
	position, velocity := state.AtVec(0), state.AtVec(1)

	// Update the velocity
	velocity += force*m.power - m.gravity*math.Cos(3*position)
	velocity = floatutils.ClipInterval(velocity, m.speedBounds)

	// Update the position
	position += velocity
	position = floatutils.ClipInterval(position, m.positionBounds)

	// The car stops at the left boundary
	if position <= m.positionBounds.Min && velocity < 0 {
		velocity = 0
	}

	return mat.NewVecDense(ObservationDims, []float64{position, velocity})
}

// update updates the base environment to change the last state to
// newState. This function also checks whether or not a TimeStep is the
// last in the episode, adjusting it accordingly, and calculates the
// reward for the transition as defined by the Task.
func (m *base) update(action, newState *mat.VecDense) (ts.TimeStep, bool) {
	reward := m.GetReward(m.lastStep.Observation, action, newState)
	nextStep := ts.New(ts.Mid, reward, m.discount, newState,
		m.lastStep.Number+1)

	m.End(&nextStep)

	m.lastStep = nextStep
	return nextStep, nextStep.Last()
}
