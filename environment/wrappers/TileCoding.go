package wrappers

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	env "github.com/samuelfneumann/envspec/environment"
	"github.com/samuelfneumann/envspec/environment/spaces"
	ts "github.com/samuelfneumann/envspec/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"
)

// Controls tiling offsets. For each dimension, tilings are offset by
// randomly sampling from a uniform distribution with support
// [- tiling width/OffsetDiv, tiling width/OffsetDiv]
const OffsetDiv float64 = 1.5

// TileCoder implements functionality for tile coding a vector. Tile
// coding takes a low-dimensional vector and changes it into a large,
// sparse vector consisting of only 0's and 1's. Each 1 represents the
// coordinates of the original vector in some space of tilings. For
// example:
//
//	[0.5, 0.1] -> [0, 0, 0, 1, 0, 0, 1, 0]
//
// The number of nonzero elements in the tile-coded representation equals
// the number of tilings used to encode the vector. The number of total
// features in the tile-coded representation is the number of tilings
// times the number of tiles per tiling. Tile coding requires that the
// space to be tiled be bounded.
type TileCoder struct {
	numTilings        int
	minDims           *mat.VecDense
	offsets           []*mat.Dense
	bins              []int
	binLengths        []float64
	featuresPerTiling int
}

// NewTileCoder creates and returns a new TileCoder. The minDims and
// maxDims arguments are the finite bounds on each dimension between
// which tilings will be placed. The bins argument determines how many
// tiles are placed (per tiling) along each dimension.
func NewTileCoder(numTilings int, minDims, maxDims *mat.VecDense,
	bins []int, seed uint64) (*TileCoder, error) {
	if numTilings <= 0 {
		return nil, fmt.Errorf("newTileCoder: number of tilings must be "+
			"positive, got %v", numTilings)
	}
	if minDims.Len() != maxDims.Len() || minDims.Len() != len(bins) {
		return nil, fmt.Errorf("newTileCoder: bounds and bins should have "+
			"the same length (%v, %v, %v)", minDims.Len(), maxDims.Len(),
			len(bins))
	}

	// Calculate the length of bins and the tiling offset bounds
	bounds := make([]r1.Interval, len(bins))
	binLengths := make([]float64, len(bins))
	for i := range bins {
		low, high := minDims.AtVec(i), maxDims.AtVec(i)
		if math.IsInf(low, 0) || math.IsInf(high, 0) || low >= high {
			return nil, fmt.Errorf("newTileCoder: cannot tile dimension %v "+
				"with bounds [%v, %v]", i, low, high)
		}
		if bins[i] <= 0 {
			return nil, fmt.Errorf("newTileCoder: bins must be positive, "+
				"got %v at index %v", bins[i], i)
		}

		binLength := (high - low) / float64(bins[i])
		bound := binLength / OffsetDiv

		binLengths[i] = binLength
		bounds[i] = r1.Interval{Min: -bound, Max: bound}
	}

	// Sample tiling offsets
	u := distmv.NewUniform(bounds, rand.NewSource(seed))
	sampler := samplemv.IID{Dist: u}

	offsets := make([]*mat.Dense, numTilings)
	for i := range offsets {
		offsets[i] = mat.NewDense(1, len(bounds), nil)
		sampler.Sample(offsets[i])
	}

	return &TileCoder{
		numTilings:        numTilings,
		minDims:           mat.VecDenseCopyOf(minDims),
		offsets:           offsets,
		bins:              append([]int(nil), bins...),
		binLengths:        binLengths,
		featuresPerTiling: prod(bins),
	}, nil
}

// Encode tile codes v
func (t *TileCoder) Encode(v mat.Vector) *mat.VecDense {
	tileCoded := mat.NewVecDense(t.VecLength(), nil)

	for j := 0; j < t.numTilings; j++ {
		indexOffset := j * t.featuresPerTiling
		index := 0
		stride := 1

		for i := len(t.bins) - 1; i > -1; i-- {
			// Offset the tiling
			data := v.AtVec(i) + t.offsets[j].At(0, i)

			tile := math.Floor((data - t.minDims.AtVec(i)) / t.binLengths[i])

			// Clip tile to within tiling bounds
			tile = math.Min(tile, float64(t.bins[i]-1))
			tile = math.Max(tile, 0)

			index += int(tile) * stride
			stride *= t.bins[i]
		}
		tileCoded.SetVec(indexOffset+index, 1.0)
	}
	return tileCoded
}

// VecLength returns the number of features in a tile-coded vector
func (t *TileCoder) VecLength() int {
	return t.numTilings * t.featuresPerTiling
}

// NumTilings returns the number of non-zero features in a tile-coded
// vector
func (t *TileCoder) NumTilings() int {
	return t.numTilings
}

func prod(i []int) int {
	prod := 1
	for _, v := range i {
		prod *= v
	}
	return prod
}

// TileCoding wraps an environment and tile codes its observations.
// The wrapped environment must have a Box observation space with
// finite bounds. The observation space of a TileCoding is the Box
// [0, 1]^n, where n is the length of tile-coded vectors.
//
// TileCoding itself implements the environment.Environment interface.
type TileCoding struct {
	env.Environment
	coder            *TileCoder
	observationSpace *spaces.Box
}

// NewTileCoding returns a new TileCoding wrapper which tile codes the
// observations of e using numTilings tilings of bins tiles per
// dimension. The current timestep of e is returned tile coded.
func NewTileCoding(e env.Environment, numTilings int, bins []int,
	seed uint64) (*TileCoding, ts.TimeStep, error) {
	box, ok := e.ObservationSpace().(*spaces.Box)
	if !ok {
		return nil, ts.TimeStep{}, fmt.Errorf("newTileCoding: expected "+
			"Box observation space, got %T", e.ObservationSpace())
	}

	coder, err := NewTileCoder(numTilings, box.Low(), box.High(), bins, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newTileCoding: %v", err)
	}

	observationSpace, err := spaces.NewBoxScalar(0, 1, coder.VecLength(),
		seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newTileCoding: %v", err)
	}

	tc := &TileCoding{e, coder, observationSpace}
	return tc, tc.CurrentTimeStep(), nil
}

// ObservationSpace returns the space of tile-coded observations
func (t *TileCoding) ObservationSpace() spaces.Space {
	return t.observationSpace
}

// Reset resets the wrapped environment
func (t *TileCoding) Reset() (ts.TimeStep, error) {
	step, err := t.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}
	return t.encode(step), nil
}

// Step takes one step in the wrapped environment
func (t *TileCoding) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	step, last, err := t.Environment.Step(a)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
	}
	return t.encode(step), last, nil
}

// CurrentTimeStep returns the current timestep of the wrapped
// environment with a tile-coded observation
func (t *TileCoding) CurrentTimeStep() ts.TimeStep {
	return t.encode(t.Environment.CurrentTimeStep())
}

// encode tile codes the observation of a timestep
func (t *TileCoding) encode(step ts.TimeStep) ts.TimeStep {
	if step.Observation != nil {
		step.Observation = t.coder.Encode(step.Observation)
	}
	return step
}

// Close closes the wrapped environment if it holds resources
func (t *TileCoding) Close() error {
	return closeWrapped(t.Environment)
}

func (t *TileCoding) String() string {
	return fmt.Sprintf("TileCoding(tilings: %v)(%v)", t.coder.numTilings,
		t.Environment)
}
