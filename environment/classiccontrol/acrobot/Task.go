package acrobot

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/envspec/environment"
	ts "github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	// Goal position in the classic control problem is to swing the
	// tip above one link length above the fixed base.
	GoalHeight float64 = LinkLength1

	// Reward on reaching the goal and on all other timesteps
	maxReward, minReward float64 = 0.0, -1.0
)

// SwingUp implements the classic control Acrobot task where the
// agent must swing the tip of the second link above some set
// height.
//
// The task is a cost-to-goal task: a reward of -1.0 is given on all
// timesteps except for the timestep which transitions the acrobot's
// second link above the goal line, which gets a reward of 0.0.
//
// Episodes are ended when the acrobot's second link swings above the
// goal height or a step limit is reached.
type SwingUp struct {
	env.Starter
	stepLimitEnder *env.StepLimit
	lineEnder      *env.FunctionEnder
	goalHeight     float64
}

// NewSwingUp returns a new SwingUp task with start state distribution
// defined by s, episodic step limit stepLimit, and goal height
// goalHeight. For the default classic control case, the goal height
// should be set to the GoalHeight constant defined in this package.
func NewSwingUp(s env.Starter, stepLimit int,
	goalHeight float64) (*SwingUp, error) {
	stepLimitEnder, err := env.NewStepLimit(stepLimit)
	if err != nil {
		return nil, fmt.Errorf("newSwingUp: %v", err)
	}

	task := &SwingUp{
		Starter:        s,
		stepLimitEnder: stepLimitEnder,
		goalHeight:     goalHeight,
	}
	task.lineEnder = env.NewFunctionEnder(func(obs *mat.VecDense) bool {
		return task.aboveLine(obs)
	}, ts.TerminalStateReached)

	return task, nil
}

// aboveLine returns whether the tip of the acrobot is above the goal
// height in state
func (s *SwingUp) aboveLine(state mat.Vector) bool {
	theta1, theta2 := state.AtVec(0), state.AtVec(1)
	return -math.Cos(theta1)-math.Cos(theta2+theta1) > s.goalHeight
}

// AtGoal returns whether the argument state is a goal state
func (s *SwingUp) AtGoal(state mat.Matrix) bool {
	r, _ := state.Dims()
	if r < 2 {
		return false
	}
	return s.aboveLine(mat.NewVecDense(2, []float64{state.At(0, 0),
		state.At(1, 0)}))
}

// End determines if a timestep is the last timestep in the episode,
// adjusting its StepType and EndType if so
func (s *SwingUp) End(t *ts.TimeStep) bool {
	if ended := s.lineEnder.End(t); ended {
		return true
	}
	if ended := s.stepLimitEnder.End(t); ended {
		return true
	}
	return false
}

// GetReward returns the reward for transitioning to nextState
func (s *SwingUp) GetReward(_, _, nextState mat.Vector) float64 {
	if s.aboveLine(nextState) {
		return maxReward
	}
	return minReward
}

// RewardRange returns the minimum and maximum reward of the task
func (s *SwingUp) RewardRange() r1.Interval {
	return r1.Interval{Min: minReward, Max: maxReward}
}

// MaxEpisodeReward returns the maximum attainable return
func (s *SwingUp) MaxEpisodeReward() float64 {
	return maxReward
}

// T returns the episode cutoff
func (s *SwingUp) T() int {
	return s.stepLimitEnder.Limit()
}
