// Package cartpole implements the Cartpole classic control environment
package cartpole

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
	// Physical constants
	Gravity        float64 = 9.8
	CartMass       float64 = 1.0
	PoleMass       float64 = 0.1
	TotalMass      float64 = CartMass + PoleMass
	HalfPoleLength float64 = 0.5  // half of pole length
	ForceMag       float64 = 10.0 // Magnification of force applied
	Dt             float64 = 0.02 // seconds between state updates

	// Bounds (+/-) on state variabels. The speed and angular velocity
	// of the cart are unbounded.
	PositionBounds float64 = 4.8
	AngleBounds    float64 = math.Pi

	ObservationDims int = 4
	ActionDims      int = 1

	// Discrete Actions
	MinDiscreteAction int = 0
	MaxDiscreteAction int = 2

	// Continuous Actions
	MinContinuousAction float64 = -1.0
	MaxContinuousAction float64 = 1.0
)

// base implements the underlying Cartpole environment. It tracks the
// physical variables, the Task, and the current state, but does not
// map actions to forces. The Discrete and Continuous structs each embed
// a base environment and convert their actions to the force applied to
// the cart.
type base struct {
	env.Task
	lastStep              ts.TimeStep
	discount              float64
	gravity               float64
	forceMag              float64
	poleMass              float64
	halfPoleLength        float64
	cartMass              float64
	dt                    float64
	positionBounds        r1.Interval
	speedBounds           r1.Interval
	angleBounds           r1.Interval
	angularVelocityBounds r1.Interval
	observationSpace      *spaces.Box
}

// newBase constructs a new base Cartpole environment
func newBase(t env.Task, discount float64, seed uint64) (*base, ts.TimeStep,
	error) {
	positionBounds := r1.Interval{Min: -PositionBounds, Max: PositionBounds}
	speedBounds := r1.Interval{Min: math.Inf(-1), Max: math.Inf(1)}
	angleBounds := r1.Interval{Min: -AngleBounds, Max: AngleBounds}
	angularVelocityBounds := r1.Interval{Min: math.Inf(-1),
		Max: math.Inf(1)}

	lower := []float64{positionBounds.Min, speedBounds.Min,
		angleBounds.Min, angularVelocityBounds.Min}
	upper := []float64{positionBounds.Max, speedBounds.Max,
		angleBounds.Max, angularVelocityBounds.Max}
	observationSpace, err := spaces.NewBox(
		mat.NewVecDense(ObservationDims, lower),
		mat.NewVecDense(ObservationDims, upper),
		seed,
	)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newBase: could not create "+
			"observation space: %v", err)
	}

	// Get the first state
	state := t.Start()
	if err := validateState(state, observationSpace); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newBase: %v", err)
	}

	// Construct first timestep
	firstStep := ts.New(ts.First, 0.0, discount, state, 0)

	cartpole := &base{
		Task:                  t,
		lastStep:              firstStep,
		discount:              discount,
		gravity:               Gravity,
		forceMag:              ForceMag,
		poleMass:              PoleMass,
		halfPoleLength:        HalfPoleLength,
		cartMass:              CartMass,
		dt:                    Dt,
		positionBounds:        positionBounds,
		speedBounds:           speedBounds,
		angleBounds:           angleBounds,
		angularVelocityBounds: angularVelocityBounds,
		observationSpace:      observationSpace,
	}

	return cartpole, firstStep, nil
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (c *base) Reset() (ts.TimeStep, error) {
	state := c.Start()
	if err := validateState(state, c.observationSpace); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}

	startStep := ts.New(ts.First, 0, c.discount, state, 0)
	c.lastStep = startStep

	return startStep, nil
}

// CurrentTimeStep returns the current timestep in the environment
func (c *base) CurrentTimeStep() ts.TimeStep {
	return c.lastStep
}

// ObservationSpace returns the observation space of the environment
func (c *base) ObservationSpace() spaces.Space {
	return c.observationSpace
}

// DiscountSpec returns the discount of the environment
func (c *base) DiscountSpec() float64 {
	return c.discount
}

// nextState computes the next state of the environment when force is
// applied to the cart in the direction given by the sign of direction
// and with magnitude |direction| * forceMag
func (c *base) nextState(direction float64) *mat.VecDense {
	// Get state variables
	state := c.lastStep.Observation
	x, xDot := state.AtVec(0), state.AtVec(1)
	th, thDot := state.AtVec(2), state.AtVec(3)

	force := direction * c.forceMag

	// Calculate physical variables to determine next state
	cosTheta := math.Cos(th)
	sinTheta := math.Sin(th)

	totalMass := c.poleMass + c.cartMass
	poleMassLength := c.poleMass * c.halfPoleLength

	temp := (force + poleMassLength*thDot*thDot*sinTheta) / totalMass
	thAcc := (c.gravity*sinTheta - cosTheta*temp) / (c.halfPoleLength *
		(4.0/3.0 - c.poleMass*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thAcc*cosTheta/totalMass

	// Update state variables using Euler kinematic integration
	x += (c.dt * xDot)
	xDot += (c.dt * xAcc)
	th += (c.dt * thDot)
	thDot += (c.dt * thAcc)

	// The cart stops when it reaches a boundary
	if x <= c.positionBounds.Min || x >= c.positionBounds.Max {
		xDot = 0
	}
	x = floatutils.ClipInterval(x, c.positionBounds)
	xDot = floatutils.ClipInterval(xDot, c.speedBounds)
	th = normalizeAngle(th, c.angleBounds)
	thDot = floatutils.ClipInterval(thDot, c.angularVelocityBounds)

	return mat.NewVecDense(ObservationDims, []float64{x, xDot, th, thDot})
}

// update updates the base environment to change the last state to
// newState, computing the reward of the transition and checking
// whether the episode has ended.
func (c *base) update(action, newState *mat.VecDense) (ts.TimeStep, bool) {
	reward := c.GetReward(c.lastStep.Observation, action, newState)
	nextStep := ts.New(ts.Mid, reward, c.discount, newState,
		c.lastStep.Number+1)

	// Check if the step ends the episode
	c.End(&nextStep)

	c.lastStep = nextStep
	return nextStep, nextStep.Last()
}

func (c *base) String() string {
	msg := "Cartpole  |  Position: %v  |  Speed: %v  |  Angle: %v" +
		"  |  Angular Velocity: %v"

	state := c.lastStep.Observation
	position, speed := state.AtVec(0), state.AtVec(1)
	angle, velocity := state.AtVec(2), state.AtVec(3)

	return fmt.Sprintf(msg, position, speed, angle, velocity)
}

// validateState ensures that a state observation is valid and between
// the physical bounds of the Cartpole environment
func validateState(obs *mat.VecDense, space spaces.Space) error {
	if !space.Contains(obs) {
		return fmt.Errorf("state %v is not within bounds %v",
			obs.RawVector().Data, space)
	}
	return nil
}

// normalizeAngle normalizes the pole angle to the appropriate limits
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
