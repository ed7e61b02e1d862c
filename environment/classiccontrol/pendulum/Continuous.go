package pendulum

import (
	"fmt"

	"github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/spaces"
	"github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/mat"
)

// Continuous implements the classic control environment Pendulum with
// continuous actions.
//
// Actions are continuous and 1-dimensional. Actions determine the
// torque to apply to the pendulum at its fixed base. Actions are
// bounded by [-2, 2] = [MinContinuousAction, MaxContinuousAction].
// Actions outside of this region are clipped to stay within these
// bounds.
//
// Continuous implements the environment.Environment interface
type Continuous struct {
	*base
	actionSpace *spaces.Box
}

// NewContinuous creates and returns a new Continuous environment
func NewContinuous(t environment.Task, discount float64,
	seed uint64) (*Continuous, timestep.TimeStep, error) {
	baseEnv, firstStep, err := newBase(t, discount, seed)
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("newContinuous: %v", err)
	}

	actionSpace, err := spaces.NewBoxScalar(MinContinuousAction,
		MaxContinuousAction, ActionDims, seed)
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("newContinuous: %v", err)
	}

	return &Continuous{baseEnv, actionSpace}, firstStep, nil
}

// ActionSpace returns the action space of the environment
func (p *Continuous) ActionSpace() spaces.Space {
	return p.actionSpace
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended. Actions are 1-dimensional and continuous,
// consisting of the torque to apply to the fixed base.
func (p *Continuous) Step(action *mat.VecDense) (timestep.TimeStep, bool,
	error) {
	if action == nil {
		return timestep.TimeStep{}, true, fmt.Errorf("step: nil action")
	}
	if action.Len() != ActionDims {
		return timestep.TimeStep{}, true, fmt.Errorf("step: actions should "+
			"be %v-dimensional", ActionDims)
	}

	nextState := p.nextState(action.AtVec(0))
	nextStep, last := p.update(action, nextState)
	return nextStep, last, nil
}

func (p *Continuous) String() string {
	return "Pendulum-Continuous"
}
