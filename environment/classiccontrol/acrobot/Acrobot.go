// Package acrobot implements the classic control environment Acrobot
package acrobot

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

// dynamicsType determines whether the dynamics of the environment
// follows those defined in the NeurIPS paper or the RL book.
type dynamicsType bool

const (
	// Dynamics of environment is consistent with RL book
	book dynamicsType = true

	// Dynamics of environment is consistent with NeurIPS paper
	nips dynamicsType = false
)

const (
	dt float64 = 0.2

	// Physical constants
	LinkLength1 float64 = 1.0 // Metres, length of link 1
	LinkLength2 float64 = 1.0 // Metres, length of link 2
	LinkMass1   float64 = 1.0 // Kg, mass of link 1
	LinkMass2   float64 = 1.0 // Kg, mass of link 2
	LinkCOMPos1 float64 = 0.5 // Metres, centre of mass link 1
	LinkCOMPos2 float64 = 0.5 // Metres, centre of mass link 2
	LinkMOI     float64 = 1.0 // Moments of inertia for both links
	MaxVel1     float64 = 4 * math.Pi
	MaxVel2     float64 = 9 * math.Pi
	Gravity     float64 = 9.8
	MaxAngle    float64 = math.Pi
	MaxTorque   float64 = 1.0

	// Environment constants
	ObservationDims     int     = 4
	ActionDims          int     = 1
	MinContinuousAction float64 = -MaxTorque
	MaxContinuousAction float64 = MaxTorque
	MinDiscreteAction   int     = 0 // Applies -MaxTorque
	MaxDiscreteAction   int     = 2 // Applies MaxTorque

	BookOrNips dynamicsType = book
)

// base implements the classic control environment Acrobot. In this
// environment, a double hinged and double linked pendulum is attached
// to a single actuated fixed base. Torque can be applied to the base
// to swing the double pendulum (acrobot) around.
//
// State feature vectors are 4-dimensional and have the form:
//
//	[θ1, θ2, θ̇1, θ̇2], where:
//	θ1 = angle of the first link measured from the negative y-axis
//	θ2 = angle of the second link relative to the first link
//	θ̇1 = angular velocity of the first link
//	θ̇2 = angular velocity of the second link
//
// Angles are wrapped to stay within [-π, π] and angular velocities are
// clipped to [-MaxVel1, MaxVel1] and [-MaxVel2, MaxVel2].
//
// The Discrete and Continuous structs embed a base and map their
// actions to the torque applied to the fixed base.
type base struct {
	env.Task
	lastStep         ts.TimeStep
	discount         float64
	angleBounds      r1.Interval
	velocity1Bounds  r1.Interval
	velocity2Bounds  r1.Interval
	observationSpace *spaces.Box
}

// newBase returns a new base acrobot environment
func newBase(t env.Task, discount float64, seed uint64) (*base, ts.TimeStep,
	error) {
	angleBounds := r1.Interval{Min: -MaxAngle, Max: MaxAngle}
	velocity1Bounds := r1.Interval{Min: -MaxVel1, Max: MaxVel1}
	velocity2Bounds := r1.Interval{Min: -MaxVel2, Max: MaxVel2}

	observationSpace, err := spaces.NewBox(
		mat.NewVecDense(ObservationDims, []float64{angleBounds.Min,
			angleBounds.Min, velocity1Bounds.Min, velocity2Bounds.Min}),
		mat.NewVecDense(ObservationDims, []float64{angleBounds.Max,
			angleBounds.Max, velocity1Bounds.Max, velocity2Bounds.Max}),
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

	acrobot := &base{
		Task:             t,
		lastStep:         firstStep,
		discount:         discount,
		angleBounds:      angleBounds,
		velocity1Bounds:  velocity1Bounds,
		velocity2Bounds:  velocity2Bounds,
		observationSpace: observationSpace,
	}

	return acrobot, firstStep, nil
}

// nextState returns the next state of the environment given the
// torque to apply to the fixed base of the acrobot.
func (a *base) nextState(torque float64) *mat.VecDense {
	s := a.lastStep.Observation
	torque = floatutils.Clip(torque, -MaxTorque, MaxTorque)

	// The torque is held constant over the integration step
	augmented := mat.NewVecDense(s.Len()+1, nil)
	augmented.CopyVec(s)
	augmented.SetVec(s.Len(), torque)

	integrated := rk4(dsDt, augmented, dt)
	ns := mat.VecDenseCopyOf(integrated.SliceVec(0, ObservationDims))

	// Ensure state stays in an acceptable range
	ns.SetVec(0, floatutils.WrapInterval(ns.AtVec(0), a.angleBounds))
	ns.SetVec(1, floatutils.WrapInterval(ns.AtVec(1), a.angleBounds))
	ns.SetVec(2, floatutils.ClipInterval(ns.AtVec(2), a.velocity1Bounds))
	ns.SetVec(3, floatutils.ClipInterval(ns.AtVec(3), a.velocity2Bounds))

	return ns
}

// update computes the reward of transitioning to newState, checks
// whether the episode has ended, and records the resulting timestep
func (a *base) update(action, newState *mat.VecDense) (ts.TimeStep, bool) {
	reward := a.GetReward(a.lastStep.Observation, action, newState)
	nextStep := ts.New(ts.Mid, reward, a.discount, newState,
		a.lastStep.Number+1)

	a.End(&nextStep)

	a.lastStep = nextStep
	return nextStep, nextStep.Last()
}

// CurrentTimeStep returns the current timestep of the environment
func (a *base) CurrentTimeStep() ts.TimeStep {
	return a.lastStep
}

// Reset resets the environment, begins a new episode, and returns
// the first timestep of the new episode
func (a *base) Reset() (ts.TimeStep, error) {
	state := a.Start()
	if !a.observationSpace.Contains(state) {
		return ts.TimeStep{}, fmt.Errorf("reset: illegal starting state "+
			"%v ∉ %v", state.RawVector().Data, a.observationSpace)
	}

	startStep := ts.New(ts.First, 0, a.discount, state, 0)
	a.lastStep = startStep

	return startStep, nil
}

// ObservationSpace returns the observation space of the environment
func (a *base) ObservationSpace() spaces.Space {
	return a.observationSpace
}

// DiscountSpec returns the discount of the environment
func (a *base) DiscountSpec() float64 {
	return a.discount
}

// dsDt calculates ds/dt for the environment, where s is the state
// augmented with the applied torque
func dsDt(sAugmented *mat.VecDense) *mat.VecDense {
	m1 := LinkMass1
	m2 := LinkMass2
	l1 := LinkLength1
	lc1 := LinkCOMPos1
	lc2 := LinkCOMPos2
	i1 := LinkMOI
	i2 := LinkMOI
	g := Gravity

	theta1 := sAugmented.AtVec(0)
	theta2 := sAugmented.AtVec(1)
	dtheta1 := sAugmented.AtVec(2)
	dtheta2 := sAugmented.AtVec(3)
	torque := sAugmented.AtVec(4)

	d1 := m1*lc1*lc1 + m2*(l1*l1+lc2*lc2+2*l1*lc2*math.Cos(theta2)) +
		i1 + i2
	d2 := m2*(lc2*lc2+l1*lc2*math.Cos(theta2)) + i2

	phi2 := m2 * lc2 * g * math.Cos(theta1+theta2-math.Pi/2)
	phi1 := -m2*l1*lc2*dtheta2*dtheta2*math.Sin(theta2) -
		2*m2*l1*lc2*dtheta2*dtheta1*math.Sin(theta2) +
		(m1*lc1+m2*l1)*g*math.Cos(theta1-math.Pi/2) + phi2

	var ddtheta2 float64
	if BookOrNips == nips {
		ddtheta2 = (torque + d2/d1*phi1 - phi2) /
			(m2*lc2*lc2 + i2 - d2*d2/d1)
	} else {
		ddtheta2 = (torque + d2/d1*phi1 -
			m2*l1*lc2*dtheta1*dtheta1*math.Sin(theta2) - phi2) /
			(m2*lc2*lc2 + i2 - d2*d2/d1)
	}
	ddtheta1 := -(d2*ddtheta2 + phi1) / d1

	// The torque does not change over the step
	return mat.NewVecDense(5, []float64{dtheta1, dtheta2, ddtheta1,
		ddtheta2, 0.0})
}

// rk4 takes a single step of length h of 4-th order Runge-Kutta
// integration of the autonomous system dy/dt = derivs(y)
func rk4(derivs func(*mat.VecDense) *mat.VecDense, y0 *mat.VecDense,
	h float64) *mat.VecDense {
	input := mat.NewVecDense(y0.Len(), nil)

	k1 := derivs(y0)

	input.AddScaledVec(y0, h/2, k1)
	k2 := derivs(input)

	input.AddScaledVec(y0, h/2, k2)
	k3 := derivs(input)

	input.AddScaledVec(y0, h, k3)
	k4 := derivs(input)

	// y0 + h/6 * (k1 + 2k2 + 2k3 + k4)
	sum := mat.VecDenseCopyOf(k1)
	sum.AddScaledVec(sum, 2, k2)
	sum.AddScaledVec(sum, 2, k3)
	sum.AddVec(sum, k4)

	y := mat.NewVecDense(y0.Len(), nil)
	y.AddScaledVec(y0, h/6, sum)
	return y
}
