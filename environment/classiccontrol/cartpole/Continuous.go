package cartpole

import (
	"fmt"

	env "github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/spaces"
	ts "github.com/samuelfneumann/envspec/timestep"
	"github.com/samuelfneumann/envspec/utils/floatutils"
	"gonum.org/v1/gonum/mat"
)

// Continuous implements the classic control environment Cartpole with
// continuous actions. The dynamics are the same as those of Discrete.
//
// Actions are 1-dimensional and continuous in [-1, 1]. The sign of the
// action determines the direction of the force applied to the cart and
// the magnitude scales ForceMag. Actions outside of [-1, 1] are clipped
// to stay within this range.
//
// Continuous implements the environment.Environment interface
type Continuous struct {
	*base
	actionSpace *spaces.Box
}

// NewContinuous constructs a new Cartpole environment with continuous
// actions
func NewContinuous(t env.Task, discount float64, seed uint64) (*Continuous,
	ts.TimeStep, error) {
	base, firstStep, err := newBase(t, discount, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newContinuous: %v", err)
	}

	actionSpace, err := spaces.NewBoxScalar(MinContinuousAction,
		MaxContinuousAction, ActionDims, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newContinuous: could not "+
			"create action space: %v", err)
	}

	return &Continuous{base, actionSpace}, firstStep, nil
}

// ActionSpace returns the action space of the environment
func (c *Continuous) ActionSpace() spaces.Space {
	return c.actionSpace
}

// Step takes one environmental step given action a and returns the next
// state as a timestep.TimeStep and a bool indicating whether or not the
// episode has ended
func (c *Continuous) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a == nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: nil action")
	}
	if a.Len() != ActionDims {
		return ts.TimeStep{}, true, fmt.Errorf("step: actions should be "+
			"%v-dimensional", ActionDims)
	}

	// Continuous action in [-1, 1]
	direction := floatutils.Clip(a.AtVec(0), MinContinuousAction,
		MaxContinuousAction)

	// Calculate the next state given the direction to apply force
	nextState := c.nextState(direction)

	// Update the embedded base Cartpole environment
	nextStep, last := c.update(a, nextState)
	return nextStep, last, nil
}

func (c *Continuous) String() string {
	return "Cartpole-Continuous"
}
