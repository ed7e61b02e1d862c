// Package wrappers provides wrappers for environments
package wrappers

import (
	"fmt"
	"io"

	env "github.com/samuelfneumann/envspec/environment"
	ts "github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/mat"
)

// TimeLimit wraps an environment and ends its episodes after a limited
// number of steps. If the wrapped environment has its own horizon, the
// lower of the two limits is the effective one. Episodes ended by the
// wrapper have EndType timestep.Timeout.
//
// TimeLimit itself implements the environment.Environment interface.
type TimeLimit struct {
	env.Environment
	limit    int
	lastStep ts.TimeStep
}

// NewTimeLimit returns a new TimeLimit which ends the episodes of e
// after limit steps
func NewTimeLimit(e env.Environment, limit int) (*TimeLimit, error) {
	if e == nil {
		return nil, fmt.Errorf("newTimeLimit: cannot wrap nil environment")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("newTimeLimit: limit must be positive, got %v",
			limit)
	}

	return &TimeLimit{
		Environment: e,
		limit:       limit,
		lastStep:    e.CurrentTimeStep(),
	}, nil
}

// Limit returns the step limit imposed by the wrapper
func (t *TimeLimit) Limit() int {
	return t.limit
}

// SetLimit changes the step limit. The new limit applies to the
// current episode.
func (t *TimeLimit) SetLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("setLimit: limit must be positive, got %v", limit)
	}
	t.limit = limit
	return nil
}

// T returns the effective horizon of the wrapped environment
func (t *TimeLimit) T() int {
	wrapped := t.Environment.T()
	if wrapped == env.UnboundedHorizon || t.limit < wrapped {
		return t.limit
	}
	return wrapped
}

// Reset resets the wrapped environment
func (t *TimeLimit) Reset() (ts.TimeStep, error) {
	step, err := t.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}
	t.lastStep = step
	return step, nil
}

// Step takes one step in the wrapped environment, ending the episode
// if the step limit has been reached
func (t *TimeLimit) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	step, last, err := t.Environment.Step(a)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
	}

	if !last && step.Number >= t.limit {
		step.StepType = ts.Last
		step.SetEnd(ts.Timeout)
		last = true
	}
	t.lastStep = step

	return step, last, nil
}

// CurrentTimeStep returns the last timestep returned by the wrapper
func (t *TimeLimit) CurrentTimeStep() ts.TimeStep {
	return t.lastStep
}

// Close closes the wrapped environment if it holds resources
func (t *TimeLimit) Close() error {
	return closeWrapped(t.Environment)
}

// closeWrapped closes e if it holds resources
func closeWrapped(e env.Environment) error {
	if closer, ok := e.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *TimeLimit) String() string {
	return fmt.Sprintf("TimeLimit(steps: %v)(%v)", t.limit, t.Environment)
}
