// Package spaces implements the sets of legal actions and observations
// of an environment.
//
// Each Space reports a Kind, which is a closed tag naming the variant of
// the space. Code which needs to distinguish discrete from continuous
// spaces should switch on Kind rather than on the concrete type of the
// Space.
package spaces

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Kind tags the variant of a Space
type Kind int

const (
	// KindOther is the kind of any space which is neither discrete nor
	// a bounded real vector
	KindOther Kind = iota

	// KindDiscrete is the kind of a finite set of choices
	KindDiscrete

	// KindBox is the kind of a (possibly unbounded) box in R^n
	KindBox
)

func (k Kind) String() string {
	switch k {
	case KindDiscrete:
		return "Discrete"
	case KindBox:
		return "Box"
	default:
		return "Other"
	}
}

// Space describes a set of actions, observations, etc.
type Space interface {
	fmt.Stringer

	// Kind returns the variant of the space
	Kind() Kind

	// Dims returns the length of the vectors in the space
	Dims() int

	// Sample takes a sample from within the space's bounds
	Sample() *mat.VecDense

	// Contains returns whether x is in the space
	Contains(x mat.Vector) bool

	// Seed seeds the sampler for the space
	Seed(uint64)
}

// Equal returns whether two spaces describe the same set
func Equal(a, b Space) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || a.Dims() != b.Dims() {
		return false
	}

	switch a := a.(type) {
	case *Discrete:
		b, ok := b.(*Discrete)
		return ok && a.n == b.n

	case *Box:
		b, ok := b.(*Box)
		return ok && mat.Equal(a.low, b.low) && mat.Equal(a.high, b.high)

	case *Tuple:
		b, ok := b.(*Tuple)
		if !ok || len(a.spaces) != len(b.spaces) {
			return false
		}
		for i := range a.spaces {
			if !Equal(a.spaces[i], b.spaces[i]) {
				return false
			}
		}
		return true
	}

	return a.String() == b.String()
}

// isNil returns whether x is nil or a nil *mat.VecDense
func isNil(x mat.Vector) bool {
	if x == nil {
		return true
	}
	v, ok := x.(*mat.VecDense)
	return ok && v == nil
}
