package spaces

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Box is the n-dimensional box [Low_1, High_1] x ... x [Low_n, High_n].
// Any bound may be infinite.
type Box struct {
	low  *mat.VecDense
	high *mat.VecDense
	src  rand.Source
}

// NewBox returns a new Box bounded below by low and above by high
func NewBox(low, high *mat.VecDense, seed uint64) (*Box, error) {
	if low == nil || high == nil {
		return nil, fmt.Errorf("newBox: bounds cannot be nil")
	}
	if low.Len() != high.Len() {
		return nil, fmt.Errorf("newBox: lower bound length %v must match "+
			"upper bound length %v", low.Len(), high.Len())
	}
	for i := 0; i < low.Len(); i++ {
		if low.AtVec(i) > high.AtVec(i) {
			return nil, fmt.Errorf("newBox: lower bound %v exceeds upper "+
				"bound %v at index %v", low.AtVec(i), high.AtVec(i), i)
		}
	}

	return &Box{
		low:  mat.VecDenseCopyOf(low),
		high: mat.VecDenseCopyOf(high),
		src:  rand.NewSource(seed),
	}, nil
}

// NewBoxScalar returns a dims-dimensional Box with the same bounds in
// every dimension
func NewBoxScalar(low, high float64, dims int, seed uint64) (*Box, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("newBoxScalar: dims must be positive, got %v",
			dims)
	}

	lowVec := mat.NewVecDense(dims, nil)
	highVec := mat.NewVecDense(dims, nil)
	for i := 0; i < dims; i++ {
		lowVec.SetVec(i, low)
		highVec.SetVec(i, high)
	}

	return NewBox(lowVec, highVec, seed)
}

// Low returns a copy of the lower bound of the space
func (b *Box) Low() *mat.VecDense { return mat.VecDenseCopyOf(b.low) }

// High returns a copy of the upper bound of the space
func (b *Box) High() *mat.VecDense { return mat.VecDenseCopyOf(b.high) }

// Kind implements the Space interface
func (b *Box) Kind() Kind { return KindBox }

// Dims implements the Space interface
func (b *Box) Dims() int { return b.low.Len() }

// Sample takes a sample from within the box. Bounded dimensions are
// sampled uniformly, dimensions bounded on one side are sampled from a
// shifted exponential distribution, and unbounded dimensions are
// sampled from a standard normal distribution.
func (b *Box) Sample() *mat.VecDense {
	sample := mat.NewVecDense(b.Dims(), nil)

	for i := 0; i < b.Dims(); i++ {
		low, high := b.low.AtVec(i), b.high.AtVec(i)
		lowBounded, highBounded := !math.IsInf(low, -1), !math.IsInf(high, 1)

		var value float64
		switch {
		case lowBounded && highBounded:
			value = distuv.Uniform{Min: low, Max: high, Src: b.src}.Rand()

		case lowBounded:
			value = low + distuv.Exponential{Rate: 1.0, Src: b.src}.Rand()

		case highBounded:
			value = high - distuv.Exponential{Rate: 1.0, Src: b.src}.Rand()

		default:
			value = distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: b.src}.Rand()
		}
		sample.SetVec(i, value)
	}

	return sample
}

// Contains returns whether x lies within the box
func (b *Box) Contains(x mat.Vector) bool {
	if isNil(x) || x.Len() != b.Dims() {
		return false
	}

	for i := 0; i < x.Len(); i++ {
		v := x.AtVec(i)
		if math.IsNaN(v) || v < b.low.AtVec(i) || v > b.high.AtVec(i) {
			return false
		}
	}
	return true
}

// Seed re-seeds the sampler
func (b *Box) Seed(seed uint64) {
	b.src = rand.NewSource(seed)
}

func (b *Box) String() string {
	return fmt.Sprintf("Box(%v, %v)", b.low.RawVector().Data,
		b.high.RawVector().Data)
}
