// Package vecenv implements vectorized environments: batches of
// environments which are reset and stepped together.
package vecenv

import (
	"fmt"
	"io"

	env "github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/spaces"
	ts "github.com/samuelfneumann/envspec/timestep"
	"github.com/samuelfneumann/envspec/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// batch holds the member environments of a vectorized environment.
// All members share the same observation and action spaces.
type batch struct {
	envs []env.Environment
}

// newBatch checks that envs can be batched together and returns the
// batch
func newBatch(envs []env.Environment) (*batch, error) {
	if len(envs) == 0 {
		return nil, fmt.Errorf("at least one environment is required")
	}

	first := envs[0]
	for i, e := range envs {
		if e == nil {
			return nil, fmt.Errorf("environment %v is nil", i)
		}
		if !spaces.Equal(first.ObservationSpace(), e.ObservationSpace()) {
			return nil, fmt.Errorf("observation space %v of environment %v "+
				"does not match %v", e.ObservationSpace(), i,
				first.ObservationSpace())
		}
		if !spaces.Equal(first.ActionSpace(), e.ActionSpace()) {
			return nil, fmt.Errorf("action space %v of environment %v "+
				"does not match %v", e.ActionSpace(), i, first.ActionSpace())
		}
	}

	members := make([]env.Environment, len(envs))
	copy(members, envs)
	return &batch{members}, nil
}

// NumEnvs returns the number of environments in the batch
func (b *batch) NumEnvs() int {
	return len(b.envs)
}

// Envs returns the member environments
func (b *batch) Envs() []env.Environment {
	return b.envs
}

// ObservationSpace returns the observation space shared by all members
func (b *batch) ObservationSpace() spaces.Space {
	return b.envs[0].ObservationSpace()
}

// ActionSpace returns the action space shared by all members
func (b *batch) ActionSpace() spaces.Space {
	return b.envs[0].ActionSpace()
}

// T returns the longest horizon of any member, or
// environment.UnboundedHorizon if any member is unbounded
func (b *batch) T() int {
	t := b.envs[0].T()
	for _, e := range b.envs[1:] {
		memberT := e.T()
		if memberT == env.UnboundedHorizon || t == env.UnboundedHorizon {
			return env.UnboundedHorizon
		}
		if memberT > t {
			t = memberT
		}
	}
	return t
}

// MaxEpisodeReward returns the largest maximum episodic reward of any
// member
func (b *batch) MaxEpisodeReward() float64 {
	max := b.envs[0].MaxEpisodeReward()
	for _, e := range b.envs[1:] {
		max = floatutils.Max(max, e.MaxEpisodeReward())
	}
	return max
}

// RewardRange returns the smallest interval containing the reward range
// of every member
func (b *batch) RewardRange() r1.Interval {
	rewardRange := b.envs[0].RewardRange()
	for _, e := range b.envs[1:] {
		memberRange := e.RewardRange()
		rewardRange.Min = floatutils.Min(rewardRange.Min, memberRange.Min)
		rewardRange.Max = floatutils.Max(rewardRange.Max, memberRange.Max)
	}
	return rewardRange
}

// checkActions ensures there is exactly one action per member
func (b *batch) checkActions(actions []*mat.VecDense) error {
	if len(actions) != len(b.envs) {
		return fmt.Errorf("expected %v actions, got %v", len(b.envs),
			len(actions))
	}
	return nil
}

// step steps member i. If the member's episode ends, the member is
// reset but the terminal timestep is returned.
func (b *batch) step(i int, action *mat.VecDense) (ts.TimeStep, bool,
	error) {
	step, last, err := b.envs[i].Step(action)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("environment %v: %v", i, err)
	}

	if last {
		if _, err := b.envs[i].Reset(); err != nil {
			return ts.TimeStep{}, true, fmt.Errorf("environment %v: could "+
				"not reset: %v", i, err)
		}
	}
	return step, last, nil
}

// close closes every member which holds resources
func (b *batch) close() error {
	var firstErr error
	for i, e := range b.envs {
		if closer, ok := e.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("environment %v: %v", i, err)
			}
		}
	}
	return firstErr
}

func (b *batch) describe(kind string) string {
	return fmt.Sprintf("%v(%v x %v)", kind, len(b.envs), b.envs[0])
}
