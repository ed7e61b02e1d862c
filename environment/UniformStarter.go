package environment

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting states uniformly from a box
type UniformStarter struct {
	features int
	seed     uint64
	rand     *distmv.Uniform
}

// NewUniformStarter returns a new UniformStarter which samples feature
// i of the starting state uniformly from bounds[i]
func NewUniformStarter(bounds []r1.Interval, seed uint64) (*UniformStarter,
	error) {
	if len(bounds) == 0 {
		return nil, fmt.Errorf("newUniformStarter: at least one bound is " +
			"required")
	}
	for i, bound := range bounds {
		if bound.Min > bound.Max || math.IsInf(bound.Min, 0) ||
			math.IsInf(bound.Max, 0) {
			return nil, fmt.Errorf("newUniformStarter: illegal bound %v at "+
				"index %v", bound, i)
		}
	}

	source := rand.NewSource(seed)
	rand := distmv.NewUniform(bounds, source)

	return &UniformStarter{len(bounds), seed, rand}, nil
}

// Start returns a starting state vector
func (u *UniformStarter) Start() *mat.VecDense {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}
