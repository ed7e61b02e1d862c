package pendulum

import (
	"fmt"

	"github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/spaces"
	"github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/mat"
)

// Discrete implements the classic control environment Pendulum with
// discrete actions. Actions are 1-dimensional in {0, 1, 2, 3, 4} and
// select the torque applied to the fixed base:
//
//	Action	Torque
//	  0		-2
//	  1		-1
//	  2		 0
//	  3		 1
//	  4		 2
//
// Discrete implements the environment.Environment interface
type Discrete struct {
	*base
	actionSpace *spaces.Discrete
}

// NewDiscrete creates and returns a new Discrete environment
func NewDiscrete(t environment.Task, discount float64,
	seed uint64) (*Discrete, timestep.TimeStep, error) {
	baseEnv, firstStep, err := newBase(t, discount, seed)
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("newDiscrete: %v", err)
	}

	actionSpace, err := spaces.NewDiscrete(MaxDiscreteAction+1, seed)
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("newDiscrete: %v", err)
	}

	return &Discrete{baseEnv, actionSpace}, firstStep, nil
}

// ActionSpace returns the action space of the environment
func (p *Discrete) ActionSpace() spaces.Space {
	return p.actionSpace
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended.
func (p *Discrete) Step(action *mat.VecDense) (timestep.TimeStep, bool,
	error) {
	if action == nil {
		return timestep.TimeStep{}, true, fmt.Errorf("step: nil action")
	}
	if !p.actionSpace.Contains(action) {
		return timestep.TimeStep{}, true, fmt.Errorf("step: illegal action "+
			"%v ∉ (0, 1, 2, 3, 4)", action.RawVector().Data)
	}

	// Convert discrete action to torque applied to fixed base
	step := (MaxContinuousAction - MinContinuousAction) /
		float64(MaxDiscreteAction)
	torque := MinContinuousAction + action.AtVec(0)*step

	nextState := p.nextState(torque)
	nextStep, last := p.update(action, nextState)
	return nextStep, last, nil
}

func (p *Discrete) String() string {
	return "Pendulum-Discrete"
}
