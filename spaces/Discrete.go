package spaces

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Discrete represents a space of discrete numbers: (0, 1, 2, ..., n-1).
type Discrete struct {
	rng *rand.Rand
	n   int
}

// NewDiscrete returns a new Discrete space over (0, 1, ..., n-1) which
// samples using a source seeded with seed. NewDiscrete panics if n is
// not positive.
func NewDiscrete(n int, seed uint64) *Discrete {
	if n <= 0 {
		panic(fmt.Sprintf("newDiscrete: n must be positive, got %v", n))
	}

	return &Discrete{
		rng: rand.New(rand.NewSource(seed)),
		n:   n,
	}
}

// Sample takes a sample from within the spaces bounds
func (d *Discrete) Sample() int {
	return d.rng.Intn(d.n)
}

// Contains returns whether x is in the space
func (d *Discrete) Contains(x int) bool {
	return x >= 0 && x < d.n
}

// Seed reseeds the random source of the space
func (d *Discrete) Seed(seed uint64) {
	d.rng.Seed(seed)
}

// N returns the number of elements in the space
func (d *Discrete) N() int {
	return d.n
}

func (d *Discrete) String() string {
	return fmt.Sprintf("Discrete(%d)", d.n)
}
