// Package spec implements specifications of environments.
//
// An EnvSpec summarizes the properties of an environment which generic
// training code needs in order to be built: the observation and action
// spaces, the maximum horizon, the reward bounds, and whether the
// environment is one of discrete or continuous control. An EnvSpec
// holds no copy of these properties; each accessor reads them from the
// wrapped environment when it is called.
package spec

import (
	"fmt"
	"strings"

	"github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/spaces"
	"gonum.org/v1/gonum/spatial/r1"
)

// ControlType classifies an environment by its action space
type ControlType string

const (
	Discrete   ControlType = "Discrete"
	Continuous ControlType = "Continuous"
)

// EnvSpec implements a read-only view of the specification of a single
// or vectorized environment. The wrapped environment is borrowed: the
// EnvSpec never resets, steps, or closes it.
type EnvSpec struct {
	env        environment.Describer
	vectorized bool
}

// New returns a new EnvSpec of env, which must be either an
// environment.Environment or an environment.VecEnv. If env is neither,
// a *TypeError is returned.
func New(env interface{}) (*EnvSpec, error) {
	switch e := env.(type) {
	case environment.VecEnv:
		return &EnvSpec{env: e, vectorized: true}, nil

	case environment.Environment:
		return &EnvSpec{env: e, vectorized: false}, nil
	}

	return nil, newTypeError("new",
		"environment.Environment or environment.VecEnv", env)
}

// Env returns the wrapped environment
func (e *EnvSpec) Env() environment.Describer {
	return e.env
}

// Vectorized returns whether the wrapped environment is an
// environment.VecEnv
func (e *EnvSpec) Vectorized() bool {
	return e.vectorized
}

// ObservationSpace returns the observation space of the environment
func (e *EnvSpec) ObservationSpace() spaces.Space {
	return e.env.ObservationSpace()
}

// ActionSpace returns the action space of the environment
func (e *EnvSpec) ActionSpace() spaces.Space {
	return e.env.ActionSpace()
}

// T returns the maximum horizon of the environment
func (e *EnvSpec) T() int {
	return e.env.T()
}

// MaxEpisodeReward returns the maximum episodic reward of the
// environment
func (e *EnvSpec) MaxEpisodeReward() float64 {
	return e.env.MaxEpisodeReward()
}

// RewardRange returns the minimum and maximum possible rewards
func (e *EnvSpec) RewardRange() r1.Interval {
	return e.env.RewardRange()
}

// ControlType returns whether the environment is one of discrete or
// continuous control:
//
//	Action Space Kind	Control Type
//	KindDiscrete		Discrete
//	KindBox			Continuous
//
// Any other kind of action space results in a *TypeError naming the
// type of the action space.
func (e *EnvSpec) ControlType() (ControlType, error) {
	space := e.env.ActionSpace()
	if space == nil {
		return "", newTypeError("controlType", "Discrete or Box action space",
			space)
	}

	switch space.Kind() {
	case spaces.KindDiscrete:
		return Discrete, nil

	case spaces.KindBox:
		return Continuous, nil
	}

	return "", newTypeError("controlType", "Discrete or Box action space",
		space)
}

// String returns a multi-line summary of the specification
func (e *EnvSpec) String() string {
	controlType, err := e.ControlType()
	control := string(controlType)
	if err != nil {
		control = fmt.Sprintf("<error: %v>", err)
	}
	rewardRange := e.RewardRange()

	var b strings.Builder
	fmt.Fprintf(&b, "<EnvSpec, %v>\n", e.env)
	fmt.Fprintf(&b, "\tObservation space: %v\n", e.ObservationSpace())
	fmt.Fprintf(&b, "\tAction space: %v\n", e.ActionSpace())
	fmt.Fprintf(&b, "\tControl type: %v\n", control)
	fmt.Fprintf(&b, "\tT: %v\n", e.T())
	fmt.Fprintf(&b, "\tMax episode reward: %v\n", e.MaxEpisodeReward())
	fmt.Fprintf(&b, "\tReward range: (%v, %v)", rewardRange.Min,
		rewardRange.Max)

	return b.String()
}
