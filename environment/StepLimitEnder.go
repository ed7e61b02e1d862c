package environment

import (
	"fmt"

	"github.com/samuelfneumann/envspec/timestep"
)

// StepLimit implements the Ender interface to end episodes at specific
// timestep limits
type StepLimit struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit. The step limit
// must be positive.
func NewStepLimit(episodeSteps int) (*StepLimit, error) {
	if episodeSteps <= 0 {
		return nil, fmt.Errorf("newStepLimit: step limit must be positive, "+
			"got %v", episodeSteps)
	}
	return &StepLimit{episodeSteps}, nil
}

// Limit returns the number of steps after which episodes are ended
func (s *StepLimit) Limit() int {
	return s.episodeSteps
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is timestep.Timeout
func (s *StepLimit) End(t *timestep.TimeStep) bool {
	if t.Number >= s.episodeSteps {
		t.StepType = timestep.Last
		t.SetEnd(timestep.Timeout)
		return true
	}
	return false
}
