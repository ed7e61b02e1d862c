package acrobot

import (
	"fmt"

	env "github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/spaces"
	ts "github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/mat"
)

// Continuous implements the classic control environment Acrobot with
// continuous actions. Actions are 1-dimensional torques applied to the
// fixed base of the acrobot, bounded by [MinContinuousAction,
// MaxContinuousAction]. Actions outside of these bounds are clipped.
//
// Continuous implements the environment.Environment interface.
type Continuous struct {
	*base
	actionSpace *spaces.Box
}

// NewContinuous returns a new Acrobot environment with continuous
// actions
func NewContinuous(t env.Task, discount float64, seed uint64) (*Continuous,
	ts.TimeStep, error) {
	acrobot, firstStep, err := newBase(t, discount, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newContinuous: %v", err)
	}

	actionSpace, err := spaces.NewBoxScalar(MinContinuousAction,
		MaxContinuousAction, ActionDims, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newContinuous: %v", err)
	}

	return &Continuous{acrobot, actionSpace}, firstStep, nil
}

// ActionSpace returns the action space of the environment
func (c *Continuous) ActionSpace() spaces.Space {
	return c.actionSpace
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended.
func (c *Continuous) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a == nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: nil action")
	}
	if a.Len() != ActionDims {
		return ts.TimeStep{}, true, fmt.Errorf("step: actions should be "+
			"%v-dimensional", ActionDims)
	}

	newState := c.nextState(a.AtVec(0))
	nextStep, last := c.update(a, newState)
	return nextStep, last, nil
}

func (c *Continuous) String() string {
	return "Acrobot-Continuous"
}
