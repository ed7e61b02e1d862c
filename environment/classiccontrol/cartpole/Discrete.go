package cartpole

import (
	"fmt"

	env "github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/spaces"
	ts "github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/mat"
)

// Discrete implements the classic control environment Cartpole with
// discrete actions. In this environment, a pole is attached to a cart,
// which can move horizontally. Gravity pulls the pole downwards so
// that balancing it in an upright position is very difficult.
//
// The state features are continuous and consist of the cart's x
// position and speed, as well as the pole's angle from the positive
// y-axis and the pole's angular velocity. The position is clipped to
// within [-PositionBounds, PositionBounds], and upon reaching a position
// boundary the velocity of the cart is set to 0. The pole's angle is
// normalized so that all angles stay in the range [-π, π].
//
// Actions are discrete, consisting of the direction to apply
// horizontal force to the cart. Legal actions are in {0, 1, 2}:
//
//	Action		Meaning
//	  0			Apply force left
//	  1			Do nothing
//	  2			Apply force right
//
// Illegal actions result in an error.
//
// Discrete implements the environment.Environment interface
type Discrete struct {
	*base
	actionSpace *spaces.Discrete
}

// NewDiscrete constructs a new Cartpole environment with discrete
// actions
func NewDiscrete(t env.Task, discount float64, seed uint64) (*Discrete,
	ts.TimeStep, error) {
	base, firstStep, err := newBase(t, discount, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newDiscrete: %v", err)
	}

	actionSpace, err := spaces.NewDiscrete(MaxDiscreteAction+1, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newDiscrete: could not "+
			"create action space: %v", err)
	}

	return &Discrete{base, actionSpace}, firstStep, nil
}

// ActionSpace returns the action space of the environment
func (c *Discrete) ActionSpace() spaces.Space {
	return c.actionSpace
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended. Actions are discrete, consisting of the
// direction to apply horizontal force to the cart or whether to apply
// no force to the cart. Legal actions are in the set {0, 1, 2}.
func (c *Discrete) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a == nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: nil action")
	}
	if !c.actionSpace.Contains(a) {
		return ts.TimeStep{}, true, fmt.Errorf("step: illegal action %v "+
			"∉ (0, 1, 2)", a.RawVector().Data)
	}

	// Convert action (0, 1, 2) to a direction (-1, 0, 1)
	direction := a.AtVec(0) - 1

	// Calculate the next state given the direction to apply force
	nextState := c.nextState(direction)

	// Update the embedded base Cartpole environment
	nextStep, last := c.update(a, nextState)
	return nextStep, last, nil
}

func (c *Discrete) String() string {
	return "Cartpole-Discrete"
}
