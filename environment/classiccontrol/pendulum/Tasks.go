package pendulum

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/envspec/environment"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// SwingUp implements a task where the agent must swing the pendulum up
// and hold it in a vertical position. Rewards are the cosine of the
// pendulum angle measured from the positive y-axis. The goal state
// is the pendulum sticking straight up, at which point the agent gets
// a reward of 1.0 on each timestep
type SwingUp struct {
	environment.Starter
	*environment.StepLimit
}

// NewSwingUp creates and returns a new SwingUp task
func NewSwingUp(s environment.Starter, maxSteps int) (*SwingUp, error) {
	ender, err := environment.NewStepLimit(maxSteps)
	if err != nil {
		return nil, fmt.Errorf("newSwingUp: %v", err)
	}
	return &SwingUp{s, ender}, nil
}

// GetReward gets the reward of transitioning to nextState
func (s *SwingUp) GetReward(_, _, nextState mat.Vector) float64 {
	th := nextState.AtVec(0)
	return math.Cos(th)
}

// AtGoal determines whether or not the current state is the goal state
func (s *SwingUp) AtGoal(state mat.Matrix) bool {
	return state.At(0, 0) == 0
}

// RewardRange returns the minimum and maximum reward of the task
func (s *SwingUp) RewardRange() r1.Interval {
	return r1.Interval{Min: -1.0, Max: 1.0}
}

// MaxEpisodeReward returns the return of an episode in which the
// pendulum stays upright on every step
func (s *SwingUp) MaxEpisodeReward() float64 {
	return float64(s.Limit())
}

// T returns the episode cutoff
func (s *SwingUp) T() int {
	return s.Limit()
}
