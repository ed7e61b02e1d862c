package mountaincar

import (
	"fmt"

	env "github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/spaces"
	ts "github.com/samuelfneumann/envspec/timestep"
	"github.com/samuelfneumann/envspec/utils/floatutils"
	"gonum.org/v1/gonum/mat"
)

// Continuous implements the classic control Mountain Car environment
// with continuous actions. The dynamics are those of Discrete.
//
// Actions are 1-dimensional and continuous. Actions determine the force
// to apply to the car and in which direction to apply this force.
// Actions are bounded between [-1, 1] = [MinContinuousAction,
// MaxContinuousAction], and actions outside of this range are clipped
// to stay within this range.
//
// Continuous implements the environment.Environment interface
type Continuous struct {
	*base
	actionSpace *spaces.Box
}

// NewContinuous creates a new Continuous action Mountain Car
// environment with the argument task
func NewContinuous(t env.Task, discount float64, seed uint64) (*Continuous,
	ts.TimeStep, error) {
	baseEnv, firstStep, err := newBase(t, discount, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newContinuous: %v", err)
	}

	actionSpace, err := spaces.NewBoxScalar(MinContinuousAction,
		MaxContinuousAction, ActionDims, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newContinuous: %v", err)
	}

	return &Continuous{baseEnv, actionSpace}, firstStep, nil
}

// ActionSpace returns the action space of the environment
func (m *Continuous) ActionSpace() spaces.Space {
	return m.actionSpace
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended.
func (m *Continuous) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a == nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: nil action")
	}
	if a.Len() != ActionDims {
		return ts.TimeStep{}, true, fmt.Errorf("step: actions should be "+
			"%v-dimensional", ActionDims)
	}

	// Clip action to legal range
	force := floatutils.Clip(a.AtVec(0), MinContinuousAction,
		MaxContinuousAction)

	newState := m.nextState(force)
	nextStep, last := m.update(a, newState)
	return nextStep, last, nil
}

func (m *Continuous) String() string {
	return "MountainCar-Continuous"
}
