package cartpole

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/envspec/environment"
	ts "github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	FailAngle float64 = 12 * 2 * math.Pi / 360
)

// Balance implements the classic control Cartpole Balance task. In this
// Task, the goal of the agent is to balance the pole on the cart in
// an upright position for as long as possible. Goal positions consist
// of the pole above some set angle threshold θ.
//
// The rewards are +1 for every timestep and -1 when the pole has fallen
// below some set angle threshold θ.
//
// Episodes end after a step limit or after the pole has fallen below
// some angle threshold θ.
type Balance struct {
	env.Starter
	stepLimiter  *env.StepLimit
	angleLimiter *env.IntervalLimit
	failAngle    float64
}

// NewBalance creates and returns a new Balance task
func NewBalance(s env.Starter, episodeSteps int,
	failAngle float64) (*Balance, error) {
	stepLimiter, err := env.NewStepLimit(episodeSteps)
	if err != nil {
		return nil, fmt.Errorf("newBalance: %v", err)
	}

	// Create the Enders
	legalAngles := []r1.Interval{{Min: -failAngle, Max: failAngle}}
	angleFeatureIndex := []int{2}

	angleLimiter, err := env.NewIntervalLimit(legalAngles, angleFeatureIndex,
		ts.TerminalStateReached)
	if err != nil {
		return nil, fmt.Errorf("newBalance: %v", err)
	}

	return &Balance{s, stepLimiter, angleLimiter, failAngle}, nil
}

// End checks if a TimeStep is the last in an episode. If so, it adjusts
// the TimeStep's StepType to timestep.Last and returns true. Otherwise,
// the function does not adjust the TimeStep and returns false.
func (b *Balance) End(t *ts.TimeStep) bool {
	if end := b.angleLimiter.End(t); end {
		return true
	}
	if end := b.stepLimiter.End(t); end {
		return true
	}
	return false
}

// GetReward returns the reward for an action taken in some state,
// resulting in a transition to the next state nextState.
func (b *Balance) GetReward(_, _, nextState mat.Vector) float64 {
	angle := math.Abs(nextState.AtVec(2))

	// Angle of 0 is pointing straight up, so we want angles to be
	// less than the failAngle
	if angle < b.failAngle {
		return 1.0
	}
	return -1.0
}

// AtGoal returns whether or not the pole is within the fail angle
func (b *Balance) AtGoal(state mat.Matrix) bool {
	return math.Abs(state.At(2, 0)) < b.failAngle
}

// RewardRange returns the minimum and maximum reward of the task
func (b *Balance) RewardRange() r1.Interval {
	return r1.Interval{Min: -1.0, Max: 1.0}
}

// MaxEpisodeReward returns the return of an episode in which the pole
// never falls
func (b *Balance) MaxEpisodeReward() float64 {
	return float64(b.stepLimiter.Limit())
}

// T returns the episode cutoff
func (b *Balance) T() int {
	return b.stepLimiter.Limit()
}
