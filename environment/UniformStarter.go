package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting states uniformly from a box. An
// interval with Min == Max fixes that state feature.
type UniformStarter struct {
	features int
	source   rand.Source
	rand     *distmv.Uniform
}

// NewUniformStarter returns a new UniformStarter which samples state
// feature i uniformly from bounds[i]
func NewUniformStarter(bounds []r1.Interval, seed uint64) *UniformStarter {
	source := rand.NewSource(seed)
	rand := distmv.NewUniform(bounds, source)

	return &UniformStarter{len(bounds), source, rand}
}

// Start returns a starting state vector
func (u *UniformStarter) Start() *mat.VecDense {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}

// Seed reseeds the starting state distribution
func (u *UniformStarter) Seed(seed uint64) {
	u.source.Seed(seed)
}
