// Package mountaincar implements the discrete action classic control
// environment "Mountain Car"
package mountaincar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/rlworld/classic/environment"
	"github.com/rlworld/classic/spaces"
	ts "github.com/rlworld/classic/timestep"
	"github.com/rlworld/classic/utils/floatutils"
)

const (
	MinPosition  float64 = -1.2
	MaxPosition  float64 = 0.6
	MaxSpeed     float64 = 0.07
	GoalPosition float64 = 0.5
	Force        float64 = 0.001 // Engine power
	Gravity      float64 = 0.0025

	// Number of discrete actions
	Actions int = 3

	// StateDims is the number of state features
	StateDims int = 2
)

// MountainCar implements the classic control Mountain Car environment.
// In this environment, the agent controls a car in a valley between two
// hills. The car is underpowered and cannot drive up the hill unless
// it rocks back and forth from hill to hill, using its momentum to
// gradually climb higher.
//
// State features consist of the x position of the car and its velocity.
// These features are bounded by the MinPosition, MaxPosition, and
// MaxSpeed constants defined in this package. The sign of the velocity
// feature denotes direction, with negative meaning that the car is
// travelling left and positive meaning that the car is travelling
// right. Upon hitting the left wall, the velocity of the car is set
// to 0.
//
// Actions are discrete in (0, 1, 2) and determine in which direction
// to apply full accelerating force to the car:
//
//	Action	Meaning
//	  0		Accelerate left
//	  1		Do nothing
//	  2		Accelerate right
type MountainCar struct {
	task             env.Task[int]
	actionSpace      *spaces.Discrete
	observationSpace *spaces.Box
	positionBounds   r1.Interval
	speedBounds      r1.Interval

	state   *mat.VecDense
	steps   int
	started bool

	display *env.Display
}

// Option configures a MountainCar
type Option func(*MountainCar)

// WithRenderer binds a Renderer to the environment
func WithRenderer(r env.Renderer) Option {
	return func(m *MountainCar) {
		m.display = env.NewDisplay(r)
	}
}

// New creates a new Mountain Car environment with the argument task.
// The environment must be Reset before it is stepped. The seed
// determines the random sources of the action and observation spaces.
func New(t env.Task[int], seed uint64, opts ...Option) *MountainCar {
	positionBounds := r1.Interval{Min: MinPosition, Max: MaxPosition}
	speedBounds := r1.Interval{Min: -MaxSpeed, Max: MaxSpeed}

	m := &MountainCar{
		task:        t,
		actionSpace: spaces.NewDiscrete(Actions, seed+1),
		observationSpace: spaces.NewBox(
			[]float64{positionBounds.Min, speedBounds.Min},
			[]float64{positionBounds.Max, speedBounds.Max},
			seed+2,
		),
		positionBounds: positionBounds,
		speedBounds:    speedBounds,
		state:          mat.NewVecDense(StateDims, nil),
		display:        env.NewDisplay(nil),
	}

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ActionSpace returns the action space of the environment
func (m *MountainCar) ActionSpace() spaces.Space[int] {
	return m.actionSpace
}

// ObservationSpace returns the observation space of the environment
func (m *MountainCar) ObservationSpace() spaces.Space[*mat.VecDense] {
	return m.observationSpace
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (m *MountainCar) Reset() (ts.TimeStep[*mat.VecDense], error) {
	state := m.task.Start()
	if !m.observationSpace.Contains(state) {
		return ts.TimeStep[*mat.VecDense]{}, fmt.Errorf("reset: %w %v",
			env.ErrInvalidState, mat.Formatted(state.T()))
	}

	m.state = state
	m.steps = 0
	m.started = true

	return ts.New(ts.First, 0, mat.VecDenseCopyOf(m.state), 0), nil
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended. Stepping after the episode has ended continues
// the simulation as usual.
func (m *MountainCar) Step(a int) (ts.TimeStep[*mat.VecDense], bool, error) {
	if !m.started {
		return ts.TimeStep[*mat.VecDense]{}, false,
			fmt.Errorf("step: %w", env.ErrNotReset)
	}
	if !m.actionSpace.Contains(a) {
		return ts.TimeStep[*mat.VecDense]{}, false,
			fmt.Errorf("step: %w %v ∉ (0, 1, 2)", env.ErrIllegalAction, a)
	}

	// Convert action (0, 1, 2) to a direction (-1, 0, 1)
	direction := float64(a - 1)
	nextState := m.nextState(direction)
	m.steps++

	nextStep := ts.New(ts.Mid, 0, mat.VecDenseCopyOf(nextState), m.steps)
	done := m.task.End(&nextStep)
	nextStep.Reward = m.task.GetReward(m.state, a, nextState)

	m.state = nextState
	return nextStep, done, nil
}

// nextState calculates the next state in the environment given the
// direction in which to accelerate
func (m *MountainCar) nextState(direction float64) *mat.VecDense {
	position, velocity := m.state.AtVec(0), m.state.AtVec(1)

	velocity += direction*Force + math.Cos(3*position)*(-Gravity)
	velocity = floatutils.ClipInterval(velocity, m.speedBounds)

	position += velocity
	position = floatutils.ClipInterval(position, m.positionBounds)

	// The car stops dead at the left wall
	if position == m.positionBounds.Min && velocity < 0 {
		velocity = 0
	}

	return mat.NewVecDense(StateDims, []float64{position, velocity})
}

// Render sends the current state to the bound Renderer, if any
func (m *MountainCar) Render() error {
	if !m.started {
		return fmt.Errorf("render: %w", env.ErrNotReset)
	}
	return m.display.Render(m.state)
}

// Close closes the bound Renderer. Close may be called multiple times.
func (m *MountainCar) Close() error {
	return m.display.Close()
}

// RewardSpec returns the range of rewards given by the task
func (m *MountainCar) RewardSpec() env.Spec {
	return env.RewardSpec(m.task)
}

// Seed reseeds the starting state distribution and the action and
// observation spaces
func (m *MountainCar) Seed(seed uint64) {
	m.task.Seed(seed)
	m.actionSpace.Seed(seed + 1)
	m.observationSpace.Seed(seed + 2)
}

// String returns a string representation of the environment
func (m *MountainCar) String() string {
	str := "Mountain Car  |  Position: %v  |  Speed: %v"
	return fmt.Sprintf(str, m.state.AtVec(0), m.state.AtVec(1))
}
