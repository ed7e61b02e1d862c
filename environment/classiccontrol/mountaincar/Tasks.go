package mountaincar

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	// Commonly used goal position
	GoalPosition float64 = 0.45
)

// Goal implements the classic control task of reaching a goal on
// Mountain Car. In this task, the agent must learn to drive the car
// up the hill and reach the goal state. Since the car is underpowered,
// it must rock back and forth from hill to hill until it reaches the
// goal.
//
// Rewards are -1 on each timestep and 0 for the action which
// transitions the car to the goal.
//
// Episodes end after a step limit or when the car reaches the goal
// state.
type Goal struct {
	environment.Starter
	goalEnder *environment.IntervalLimit
	stepEnder *environment.StepLimit
	goalX     float64 // x position of goal
}

// NewGoal creates and returns a new Goal struct given a Starter, which
// determines the starting states; the maximum number of episode
// steps; and the goal x position.
func NewGoal(s environment.Starter, episodeSteps int,
	goalX float64) (*Goal, error) {
	stepEnder, err := environment.NewStepLimit(episodeSteps)
	if err != nil {
		return nil, fmt.Errorf("newGoal: %v", err)
	}

	interval := []r1.Interval{{Min: math.Inf(-1), Max: goalX}}
	positionIndex := []int{0}
	goalEnder, err := environment.NewIntervalLimit(interval, positionIndex,
		timestep.TerminalStateReached)
	if err != nil {
		return nil, fmt.Errorf("newGoal: %v", err)
	}

	return &Goal{s, goalEnder, stepEnder, goalX}, nil
}

// AtGoal returns a boolean indicating whether or not the argument state
// is the goal state
func (g *Goal) AtGoal(state mat.Matrix) bool {
	return state.At(0, 0) >= g.goalX
}

// GetReward returns the reward for a given state and action, resulting
// in a given next state. Since this is a cost-to-goal Task, rewards are
// -1.0 for all actions, except for an action which leads to the goal
// state, which results in a reward of 0.0
func (g *Goal) GetReward(_, _, nextState mat.Vector) float64 {
	xPosition := nextState.AtVec(0)

	if xPosition >= g.goalX {
		return 0.0
	}
	return -1.0
}

// RewardRange returns the minimum and maximum reward of the task
func (g *Goal) RewardRange() r1.Interval {
	return r1.Interval{Min: -1.0, Max: 0.0}
}

// MaxEpisodeReward returns the maximum attainable return
func (g *Goal) MaxEpisodeReward() float64 { return 0.0 }

// T returns the episode cutoff
func (g *Goal) T() int { return g.stepEnder.Limit() }

// End determines if a timestep is the last timestep in the episode.
// If so, it changes the TimeStep's StepType to timestep.Last. This
// function returns true if the argument timestep is the last timestep
// in the episode and false otherwise.
func (g *Goal) End(t *timestep.TimeStep) bool {
	// Check if the goal was reached, modifying t.StepType if appropriate
	if end := g.goalEnder.End(t); end {
		return true
	}

	// Check if the max steps was reached, modifying t.StepType if appropriate
	if end := g.stepEnder.End(t); end {
		return true
	}
	return false
}
