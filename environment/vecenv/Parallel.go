package vecenv

import (
	"context"
	"fmt"

	env "github.com/samuelfneumann/envspec/environment"
	ts "github.com/samuelfneumann/envspec/timestep"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Parallel implements a vectorized environment which steps its members
// concurrently, one goroutine per member. Each member is only ever
// touched by a single goroutine during a call to Reset or Step, so
// members need not be safe for concurrent use. A Parallel itself must
// not be used concurrently.
//
// Parallel implements the environment.VecEnv interface
type Parallel struct {
	*batch
}

// NewParallel returns a new Parallel batch of envs. All environments
// must have equal observation and action spaces.
func NewParallel(envs ...env.Environment) (*Parallel, error) {
	b, err := newBatch(envs)
	if err != nil {
		return nil, fmt.Errorf("newParallel: %v", err)
	}
	return &Parallel{b}, nil
}

// Reset resets every member and returns the first timestep of each
func (p *Parallel) Reset() ([]ts.TimeStep, error) {
	steps := make([]ts.TimeStep, len(p.envs))
	errGroup, _ := errgroup.WithContext(context.Background())

	for i := range p.envs {
		i := i
		errGroup.Go(func() error {
			step, err := p.envs[i].Reset()
			if err != nil {
				return fmt.Errorf("environment %v: %v", i, err)
			}
			steps[i] = step
			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return nil, fmt.Errorf("reset: %v", err)
	}
	return steps, nil
}

// Step takes one step in every member, where actions[i] is the action
// for member i. Members whose episodes end are reset, but the returned
// timesteps are the last timesteps of those episodes.
func (p *Parallel) Step(actions []*mat.VecDense) ([]ts.TimeStep, []bool,
	error) {
	if err := p.checkActions(actions); err != nil {
		return nil, nil, fmt.Errorf("step: %v", err)
	}

	steps := make([]ts.TimeStep, len(p.envs))
	lasts := make([]bool, len(p.envs))
	errGroup, _ := errgroup.WithContext(context.Background())

	for i := range p.envs {
		i := i
		errGroup.Go(func() error {
			step, last, err := p.step(i, actions[i])
			if err != nil {
				return err
			}
			steps[i], lasts[i] = step, last
			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return nil, nil, fmt.Errorf("step: %v", err)
	}
	return steps, lasts, nil
}

// Close closes every member which holds resources
func (p *Parallel) Close() error {
	if err := p.close(); err != nil {
		return fmt.Errorf("close: %v", err)
	}
	return nil
}

func (p *Parallel) String() string {
	return p.describe("Parallel")
}
