package vecenv

import (
	"fmt"

	env "github.com/samuelfneumann/envspec/environment"
	ts "github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/mat"
)

// Serial implements a vectorized environment which steps each of its
// members in turn on the calling goroutine.
//
// Serial implements the environment.VecEnv interface
type Serial struct {
	*batch
}

// NewSerial returns a new Serial batch of envs. All environments must
// have equal observation and action spaces.
func NewSerial(envs ...env.Environment) (*Serial, error) {
	b, err := newBatch(envs)
	if err != nil {
		return nil, fmt.Errorf("newSerial: %v", err)
	}
	return &Serial{b}, nil
}

// Reset resets every member and returns the first timestep of each
func (s *Serial) Reset() ([]ts.TimeStep, error) {
	steps := make([]ts.TimeStep, len(s.envs))
	for i, e := range s.envs {
		step, err := e.Reset()
		if err != nil {
			return nil, fmt.Errorf("reset: environment %v: %v", i, err)
		}
		steps[i] = step
	}
	return steps, nil
}

// Step takes one step in every member, where actions[i] is the action
// for member i. Members whose episodes end are reset, but the returned
// timesteps are the last timesteps of those episodes.
func (s *Serial) Step(actions []*mat.VecDense) ([]ts.TimeStep, []bool,
	error) {
	if err := s.checkActions(actions); err != nil {
		return nil, nil, fmt.Errorf("step: %v", err)
	}

	steps := make([]ts.TimeStep, len(s.envs))
	lasts := make([]bool, len(s.envs))
	for i := range s.envs {
		step, last, err := s.step(i, actions[i])
		if err != nil {
			return nil, nil, fmt.Errorf("step: %v", err)
		}
		steps[i], lasts[i] = step, last
	}
	return steps, lasts, nil
}

// Close closes every member which holds resources
func (s *Serial) Close() error {
	if err := s.close(); err != nil {
		return fmt.Errorf("close: %v", err)
	}
	return nil
}

func (s *Serial) String() string {
	return s.describe("Serial")
}
