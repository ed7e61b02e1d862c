package spaces

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Discrete is the space {0, 1, ..., N-1}. Elements of the space are
// 1-dimensional vectors holding the chosen integer.
type Discrete struct {
	n    int
	seed uint64
	rng  *rand.Rand
}

// NewDiscrete returns a new Discrete space of n elements
func NewDiscrete(n int, seed uint64) (*Discrete, error) {
	if n <= 0 {
		return nil, fmt.Errorf("newDiscrete: number of elements must be "+
			"positive, got %v", n)
	}

	return &Discrete{
		n:    n,
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}, nil
}

// N returns the number of elements in the space
func (d *Discrete) N() int { return d.n }

// Kind implements the Space interface
func (d *Discrete) Kind() Kind { return KindDiscrete }

// Dims implements the Space interface
func (d *Discrete) Dims() int { return 1 }

// Sample returns an element of the space chosen uniformly at random
func (d *Discrete) Sample() *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(d.rng.Intn(d.n))})
}

// Contains returns whether x holds a single integer in [0, N)
func (d *Discrete) Contains(x mat.Vector) bool {
	if isNil(x) || x.Len() != 1 {
		return false
	}
	v := x.AtVec(0)
	return v == float64(int(v)) && v >= 0 && int(v) < d.n
}

// Seed re-seeds the sampler
func (d *Discrete) Seed(seed uint64) {
	d.seed = seed
	d.rng.Seed(seed)
}

func (d *Discrete) String() string {
	return fmt.Sprintf("Discrete(%v)", d.n)
}
