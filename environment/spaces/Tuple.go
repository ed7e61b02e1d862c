package spaces

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Tuple is the cartesian product of a number of spaces. Elements of a
// Tuple are the concatenation of elements of each space, in order.
//
// A Tuple is neither discrete nor a box, and so its Kind is KindOther.
type Tuple struct {
	spaces []Space
}

// NewTuple returns the product of the argument spaces
func NewTuple(spaces ...Space) (*Tuple, error) {
	if len(spaces) == 0 {
		return nil, fmt.Errorf("newTuple: at least one space is required")
	}
	for i, space := range spaces {
		if space == nil {
			return nil, fmt.Errorf("newTuple: space %v is nil", i)
		}
	}

	s := make([]Space, len(spaces))
	copy(s, spaces)
	return &Tuple{spaces: s}, nil
}

// Spaces returns the spaces making up the product
func (t *Tuple) Spaces() []Space {
	s := make([]Space, len(t.spaces))
	copy(s, t.spaces)
	return s
}

// Kind implements the Space interface
func (t *Tuple) Kind() Kind { return KindOther }

// Dims returns the total length of the concatenated element vectors
func (t *Tuple) Dims() int {
	dims := 0
	for _, space := range t.spaces {
		dims += space.Dims()
	}
	return dims
}

// Sample samples each space and concatenates the results
func (t *Tuple) Sample() *mat.VecDense {
	data := make([]float64, 0, t.Dims())
	for _, space := range t.spaces {
		data = append(data, space.Sample().RawVector().Data...)
	}
	return mat.NewVecDense(len(data), data)
}

// Contains returns whether each slice of x lies in its space
func (t *Tuple) Contains(x mat.Vector) bool {
	if isNil(x) || x.Len() != t.Dims() {
		return false
	}

	start := 0
	for _, space := range t.spaces {
		part := mat.NewVecDense(space.Dims(), nil)
		for i := 0; i < space.Dims(); i++ {
			part.SetVec(i, x.AtVec(start+i))
		}
		if !space.Contains(part) {
			return false
		}
		start += space.Dims()
	}
	return true
}

// Seed seeds the i-th space with seed+i
func (t *Tuple) Seed(seed uint64) {
	for i, space := range t.spaces {
		space.Seed(seed + uint64(i))
	}
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.spaces))
	for i, space := range t.spaces {
		parts[i] = space.String()
	}
	return fmt.Sprintf("Tuple(%v)", strings.Join(parts, ", "))
}
