// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/rlworld/classic/spaces"
	ts "github.com/rlworld/classic/timestep"
)

var (
	// ErrNotReset is returned when an environment is used before Reset
	// has been called
	ErrNotReset = errors.New("environment has not been reset")

	// ErrIllegalAction is returned when an action outside of the
	// environment's action space is taken
	ErrIllegalAction = errors.New("illegal action")

	// ErrInvalidState is returned when a Starter produces a state
	// outside of the environment's observation space
	ErrInvalidState = errors.New("invalid state")
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() *mat.VecDense
	Seed(seed uint64)
}

// Ender determines when episodes end. If End returns true, it has
// adjusted the argument TimeStep so that it is the last in the episode.
type Ender[O any] interface {
	End(t *ts.TimeStep[O]) bool
}

// Task implements the reward scheme for taking actions in some
// environment, together with its starting state distribution and the
// conditions under which episodes end.
type Task[A any] interface {
	Starter
	Ender[*mat.VecDense]
	GetReward(state *mat.VecDense, a A, nextState *mat.VecDense) float64
	Min() float64 // Minimum attainable reward
	Max() float64 // Maximum attainable reward
}

// Renderer visualises environment states. Renderers receive a copy of
// the environment state on each call to Render.
type Renderer interface {
	Render(state *mat.VecDense) error
	Close() error
}

// Env implements a simulated environment with observations of type O
// and actions of type A.
//
// Environments start unusable and must be Reset before Step or Render
// are called. Reset may be called at any time to start a new episode.
// The observations held by returned TimeSteps are never aliased by the
// environment.
type Env[O, A any] interface {
	ActionSpace() spaces.Space[A]
	ObservationSpace() spaces.Space[O]

	// Reset starts a new episode and returns its first TimeStep
	Reset() (ts.TimeStep[O], error)

	// Step takes one environmental step and returns the next TimeStep
	// and whether the episode has ended
	Step(action A) (ts.TimeStep[O], bool, error)

	Render() error
	Close() error
	Seed(seed uint64)
}
