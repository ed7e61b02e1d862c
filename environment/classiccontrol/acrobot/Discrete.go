package acrobot

import (
	"fmt"

	env "github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/spaces"
	ts "github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/mat"
)

// Discrete implements the classic control environment Acrobot with
// discrete actions. Actions are in {0, 1, 2} and apply a torque of
// -1, 0, or 1 to the fixed base of the acrobot.
//
// Discrete implements the environment.Environment interface.
type Discrete struct {
	*base
	actionSpace *spaces.Discrete
}

// NewDiscrete returns a new Acrobot environment with discrete actions
func NewDiscrete(t env.Task, discount float64, seed uint64) (*Discrete,
	ts.TimeStep, error) {
	acrobot, firstStep, err := newBase(t, discount, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newDiscrete: %v", err)
	}

	actionSpace, err := spaces.NewDiscrete(MaxDiscreteAction+1, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newDiscrete: %v", err)
	}

	return &Discrete{acrobot, actionSpace}, firstStep, nil
}

// ActionSpace returns the action space of the environment
func (d *Discrete) ActionSpace() spaces.Space {
	return d.actionSpace
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended.
func (d *Discrete) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a == nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: nil action")
	}
	if !d.actionSpace.Contains(a) {
		return ts.TimeStep{}, true, fmt.Errorf("step: illegal action %v "+
			"∉ (0, 1, 2)", a.RawVector().Data)
	}

	torque := a.AtVec(0) - 1.0

	newState := d.nextState(torque)
	nextStep, last := d.update(a, newState)
	return nextStep, last, nil
}

func (d *Discrete) String() string {
	return "Acrobot-Discrete"
}
