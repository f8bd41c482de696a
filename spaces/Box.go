package spaces

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rlworld/classic/utils/floatutils"
)

// Box represents the cartesian product of n closed intervals. Each
// interval has the form [low[i], high[i]].
//
// A bound of ±math.MaxFloat64 or ±Inf marks an axis as unbounded in
// that direction. Sample draws uniformly from an axis when the width
// of the axis is finite. Otherwise the axis is sampled from a standard
// normal distribution, which is then clipped to the axis bounds.
type Box struct {
	src  rand.Source
	low  *mat.VecDense
	high *mat.VecDense
}

// NewBox returns a new Box with the given lower and upper bounds. The
// bounds are copied. NewBox panics if the bounds have different lengths
// or if any lower bound exceeds its upper bound.
func NewBox(low, high []float64, seed uint64) *Box {
	if len(low) != len(high) {
		panic(fmt.Sprintf("newBox: lower bounds length %v must match "+
			"upper bounds length %v", len(low), len(high)))
	}
	if len(low) == 0 {
		panic("newBox: box must have at least one dimension")
	}
	for i := range low {
		if low[i] > high[i] {
			panic(fmt.Sprintf("newBox: lower bound %v > upper bound %v "+
				"on axis %v", low[i], high[i], i))
		}
	}

	l := make([]float64, len(low))
	copy(l, low)
	h := make([]float64, len(high))
	copy(h, high)

	return &Box{
		src:  rand.NewSource(seed),
		low:  mat.NewVecDense(len(l), l),
		high: mat.NewVecDense(len(h), h),
	}
}

// Sample returns a new vector within the bounds of the Box
func (b *Box) Sample() *mat.VecDense {
	n := b.low.Len()
	sample := mat.NewVecDense(n, nil)

	for i := 0; i < n; i++ {
		low, high := b.low.AtVec(i), b.high.AtVec(i)

		var v float64
		if bounded(low, high) {
			v = distuv.Uniform{Min: low, Max: high, Src: b.src}.Rand()
		} else {
			v = distuv.Normal{Mu: 0, Sigma: 1, Src: b.src}.Rand()
		}
		sample.SetVec(i, floatutils.Clip(v, low, high))
	}

	return sample
}

// Contains returns whether x is in the space
func (b *Box) Contains(x *mat.VecDense) bool {
	if x == nil || x.Len() != b.low.Len() {
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

// Seed reseeds the random source of the space
func (b *Box) Seed(seed uint64) {
	b.src.Seed(seed)
}

// Low returns a copy of the lower bounds of the space
func (b *Box) Low() *mat.VecDense {
	return mat.VecDenseCopyOf(b.low)
}

// High returns a copy of the upper bounds of the space
func (b *Box) High() *mat.VecDense {
	return mat.VecDenseCopyOf(b.high)
}

// Shape returns the number of dimensions of the space
func (b *Box) Shape() int {
	return b.low.Len()
}

func (b *Box) String() string {
	return fmt.Sprintf("Box(%v, %v)", b.low.RawVector().Data,
		b.high.RawVector().Data)
}

// bounded returns whether the interval [low, high] has a finite width
// that can be sampled from uniformly
func bounded(low, high float64) bool {
	if low <= -math.MaxFloat64 || high >= math.MaxFloat64 {
		return false
	}
	return !math.IsInf(high-low, 0)
}
