// Package pendulum implements the pendulum classic control environment
package pendulum

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/spaces"
	"github.com/samuelfneumann/envspec/timestep"
	"github.com/samuelfneumann/envspec/utils/floatutils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// default physical constants
const (
	AngleBound  float64 = math.Pi // +/- Angle bounds
	SpeedBound  float64 = 8.0     // +/- Speed bounds
	TorqueBound float64 = 2.0     // +/- Torque bounds

	MaxContinuousAction float64 = TorqueBound
	MinContinuousAction float64 = -MaxContinuousAction

	MaxDiscreteAction int = 4
	MinDiscreteAction int = 0

	dt              float64 = 0.05
	Gravity         float64 = 9.8
	Mass            float64 = 1.0
	Length          float64 = 1.0
	ActionDims      int     = 1
	ObservationDims int     = 2
)

// base implements the underlying Pendulum environment. In this
// environment, a pendulum is attached to a fixed base. An agent can
// swing the pendulum back and forth, but the swinging torque is
// underpowered. In order to be able to swing the pendulum straight up,
// it must first be rocked back and forth, using the momentum to
// gradually climb higher until the pendulum can point straight up or
// rotate fully around its fixed base.
//
// State features consist of the angle of the pendulum from the positive
// y-axis and the angular velocity of the pendulum. Both state features
// are bounded by the AngleBound and SpeedBound constants in this
// package. The sign of the angular velocity or speed indicates
// direction, with negative sign indicating counter clockwise rotation
// and positive sign indicating clockwise direction. The angular
// velocity is clipped betwee [-SpeedBound, SpeedBound]. Angles are
// normalized to stay within [-AngleBound, AngleBound] = [-π, π].
//
// The Discrete and Continuous structs embed a base and map their
// actions to the torque applied to the fixed base.
type base struct {
	environment.Task
	dt               float64
	gravity          float64
	mass             float64
	length           float64
	angleBounds      r1.Interval
	speedBounds      r1.Interval
	torqueBounds     r1.Interval
	lastStep         timestep.TimeStep
	discount         float64
	observationSpace *spaces.Box
}

// newBase creates and returns a new base environment
func newBase(t environment.Task, d float64, seed uint64) (*base,
	timestep.TimeStep, error) {
	angleBounds := r1.Interval{Min: -AngleBound, Max: AngleBound}
	speedBounds := r1.Interval{Min: -SpeedBound, Max: SpeedBound}
	torqueBounds := r1.Interval{Min: -TorqueBound, Max: TorqueBound}

	minObs := []float64{angleBounds.Min, speedBounds.Min}
	maxObs := []float64{angleBounds.Max, speedBounds.Max}
	observationSpace, err := spaces.NewBox(
		mat.NewVecDense(ObservationDims, minObs),
		mat.NewVecDense(ObservationDims, maxObs),
		seed,
	)
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("newBase: could not "+
			"create observation space: %v", err)
	}

	state := t.Start()
	if !observationSpace.Contains(state) {
		return nil, timestep.TimeStep{}, fmt.Errorf("newBase: illegal "+
			"starting state %v ∉ %v", state.RawVector().Data,
			observationSpace)
	}

	firstStep := timestep.New(timestep.First, 0.0, d, state, 0)

	pendulum := &base{
		Task:             t,
		dt:               dt,
		gravity:          Gravity,
		mass:             Mass,
		length:           Length,
		angleBounds:      angleBounds,
		speedBounds:      speedBounds,
		torqueBounds:     torqueBounds,
		lastStep:         firstStep,
		discount:         d,
		observationSpace: observationSpace,
	}

	return pendulum, firstStep, nil
}

// CurrentTimeStep returns the last TimeStep that occurred in the
// environment
func (p *base) CurrentTimeStep() timestep.TimeStep {
	return p.lastStep
}

// Reset resets the environment and returns a starting state drawn from the
// Starter
func (p *base) Reset() (timestep.TimeStep, error) {
	state := p.Start()
	if !p.observationSpace.Contains(state) {
		return timestep.TimeStep{}, fmt.Errorf("reset: illegal starting "+
			"state %v ∉ %v", state.RawVector().Data, p.observationSpace)
	}

	startStep := timestep.New(timestep.First, 0, p.discount, state, 0)
	p.lastStep = startStep

	return startStep, nil
}

// ObservationSpace returns the observation space of the environment
func (p *base) ObservationSpace() spaces.Space {
	return p.observationSpace
}

// DiscountSpec returns the discount of the environment
func (p *base) DiscountSpec() float64 {
	return p.discount
}

// nextState computes the next state of the environment given an amount
// of torque to apply to the fixed base of the pendulum. The torque is
// first clipped to the appropriate torque bounds.
func (p *base) nextState(torque float64) *mat.VecDense {
	obs := p.lastStep.Observation
	th, thdot := obs.AtVec(0), obs.AtVec(1)

	// Clip the torque
	torque = floatutils.ClipInterval(torque, p.torqueBounds)

	newthdot := thdot + (-3*p.gravity/(2*p.length)*math.Sin(th+math.Pi)+
		3.0/(p.mass*math.Pow(p.length, 2))*torque)*p.dt

	newth := th + (newthdot * p.dt)

	// Clip the angular velocity
	newthdot = floats.Min([]float64{newthdot, p.speedBounds.Max})
	newthdot = floats.Max([]float64{newthdot, p.speedBounds.Min})

	// Normalize the angle
	newth = normalizeAngle(newth, p.angleBounds)

	return mat.NewVecDense(ObservationDims, []float64{newth, newthdot})
}

func (p *base) update(action, newState *mat.VecDense) (timestep.TimeStep,
	bool) {
	reward := p.GetReward(p.lastStep.Observation, action, newState)
	nextStep := timestep.New(timestep.Mid, reward, p.discount, newState,
		p.lastStep.Number+1)

	// Check if the step is the last in the episode and adjust step type
	// if necessary
	p.End(&nextStep)

	p.lastStep = nextStep
	return nextStep, nextStep.Last()
}

// normalizeAngle normalizes the pendulum angle to the appropriate limits
func normalizeAngle(th float64, angleBounds r1.Interval) float64 {
	if angleBounds.Max != -angleBounds.Min {
		panic("angle bounds should be centered around 0")
	}

	if th > angleBounds.Max {
		divisor := int(th / angleBounds.Max)
		return -math.Pi + th - (angleBounds.Max * float64(divisor))
	} else if th < angleBounds.Min {
		divisor := int(th / angleBounds.Min)
		return math.Pi + th - (angleBounds.Min * float64(divisor))
	} else {
		return th
	}
}
