// Package cartpole implements the Cartpole classic control environment
package cartpole

import (
	"fmt"
	"log"
	"math"

	"github.com/logrusorgru/aurora"
	"gonum.org/v1/gonum/mat"

	env "github.com/rlworld/classic/environment"
	"github.com/rlworld/classic/spaces"
	ts "github.com/rlworld/classic/timestep"
)

const (
	// Physical constants
	Gravity        float64 = 9.8
	CartMass       float64 = 1.0
	PoleMass       float64 = 0.1
	TotalMass      float64 = PoleMass + CartMass
	HalfPoleLength float64 = 0.5 // half of pole length
	PoleMassLength float64 = PoleMass * HalfPoleLength
	ForceMag       float64 = 10.0
	Tau            float64 = 0.02 // seconds between state updates

	// Episodes fail once the cart leaves these bounds (+/-)
	FailPosition float64 = 2.4

	// Number of discrete actions
	Actions int = 2

	// StateDims is the number of state features
	StateDims int = 4
)

// FailAngle bounds (+/-) the pole angle before an episode fails. It is
// rounded in float64 arithmetic rather than as an exact constant.
var FailAngle = func() float64 {
	pi := math.Pi
	return 12 * 2 * pi / 360
}()

// ObservationBounds returns the upper bounds on the state features. The
// lower bounds are the negated upper bounds. Position and angle bounds
// are twice the failure thresholds so that failing observations are
// still within bounds.
func ObservationBounds() []float64 {
	return []float64{
		FailPosition * 2,
		math.MaxFloat64,
		FailAngle * 2,
		math.MaxFloat64,
	}
}

const warning = "You are calling 'Step()' even though this environment " +
	"has already returned done = true. You should always call 'Reset()' " +
	"once you receive 'done = true' -- any further steps are undefined " +
	"behavior."

// CartPole implements the classic control environment Cartpole. In
// this environment, a pole is attached to a cart, which can move
// horizontally. The agent must keep the pole upright for as long as
// possible.
//
// The state features are continuous and consist of the cart's x
// position and speed, as well as the pole's angle from the positive
// y-axis and the pole's angular velocity.
//
// Actions are discrete and consist of the direction of the force
// applied to the cart:
//
//	Action	Meaning
//	  0		Push left
//	  1		Push right
//
// Stepping after the episode has ended is allowed, but every such step
// is rewarded with 0 and the first one logs a warning.
type CartPole struct {
	task             env.Task[int]
	actionSpace      *spaces.Discrete
	observationSpace *spaces.Box

	state   *mat.VecDense
	steps   int
	started bool

	// stepsBeyondDone counts the steps taken after the episode ended.
	// It is negative until the episode ends.
	stepsBeyondDone int

	display *env.Display
	logger  *log.Logger
}

// Option configures a CartPole
type Option func(*CartPole)

// WithRenderer binds a Renderer to the environment
func WithRenderer(r env.Renderer) Option {
	return func(c *CartPole) {
		c.display = env.NewDisplay(r)
	}
}

// WithLogger sets the logger used to report misuse of the environment
func WithLogger(l *log.Logger) Option {
	return func(c *CartPole) {
		c.logger = l
	}
}

// New constructs a new CartPole environment. The environment must be
// Reset before it is stepped. The seed determines the random sources
// of the action and observation spaces. The Task's Starter keeps its own
// seed until Seed is called.
func New(t env.Task[int], seed uint64, opts ...Option) *CartPole {
	high := ObservationBounds()
	low := make([]float64, len(high))
	for i := range high {
		low[i] = -high[i]
	}

	c := &CartPole{
		task:             t,
		actionSpace:      spaces.NewDiscrete(Actions, seed+1),
		observationSpace: spaces.NewBox(low, high, seed+2),
		state:            mat.NewVecDense(StateDims, nil),
		stepsBeyondDone:  -1,
		display:          env.NewDisplay(nil),
		logger:           log.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ActionSpace returns the action space of the environment
func (c *CartPole) ActionSpace() spaces.Space[int] {
	return c.actionSpace
}

// ObservationSpace returns the observation space of the environment
func (c *CartPole) ObservationSpace() spaces.Space[*mat.VecDense] {
	return c.observationSpace
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (c *CartPole) Reset() (ts.TimeStep[*mat.VecDense], error) {
	state := c.task.Start()
	if !c.observationSpace.Contains(state) {
		return ts.TimeStep[*mat.VecDense]{}, fmt.Errorf("reset: %w %v",
			env.ErrInvalidState, mat.Formatted(state.T()))
	}

	c.state = state
	c.steps = 0
	c.stepsBeyondDone = -1
	c.started = true

	return ts.New(ts.First, 0, mat.VecDenseCopyOf(c.state), 0), nil
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended.
func (c *CartPole) Step(a int) (ts.TimeStep[*mat.VecDense], bool, error) {
	if !c.started {
		return ts.TimeStep[*mat.VecDense]{}, false,
			fmt.Errorf("step: %w", env.ErrNotReset)
	}
	if !c.actionSpace.Contains(a) {
		return ts.TimeStep[*mat.VecDense]{}, false,
			fmt.Errorf("step: %w %v ∉ (0, 1)", env.ErrIllegalAction, a)
	}

	nextState := c.nextState(a)
	c.steps++

	nextStep := ts.New(ts.Mid, 0, mat.VecDenseCopyOf(nextState), c.steps)
	done := c.task.End(&nextStep)

	reward := c.task.GetReward(c.state, a, nextState)
	if done {
		reward = c.terminalReward(reward)
	}
	nextStep.Reward = reward

	c.state = nextState
	return nextStep, done, nil
}

// nextState computes the state following the current state when
// taking action a, using Euler integration. Positions are updated with
// the velocities of the current state.
func (c *CartPole) nextState(a int) *mat.VecDense {
	x, xDot := c.state.AtVec(0), c.state.AtVec(1)
	theta, thetaDot := c.state.AtVec(2), c.state.AtVec(3)

	force := -ForceMag
	if a == 1 {
		force = ForceMag
	}

	cosTheta := math.Cos(theta)
	sinTheta := math.Sin(theta)

	temp := (force + PoleMassLength*thetaDot*thetaDot*sinTheta) / TotalMass
	thetaAcc := (Gravity*sinTheta - cosTheta*temp) /
		(HalfPoleLength * (4.0/3.0 - PoleMass*cosTheta*cosTheta/TotalMass))
	xAcc := temp - PoleMassLength*thetaAcc*cosTheta/TotalMass

	x += Tau * xDot
	xDot += Tau * xAcc
	theta += Tau * thetaDot
	thetaDot += Tau * thetaAcc

	return mat.NewVecDense(StateDims, []float64{x, xDot, theta, thetaDot})
}

// terminalReward adjusts the reward of a step which ends the episode.
// The first such step keeps its reward, later ones are rewarded with 0.
func (c *CartPole) terminalReward(reward float64) float64 {
	if c.stepsBeyondDone < 0 {
		c.stepsBeyondDone = 0
		return reward
	}

	if c.stepsBeyondDone == 0 {
		c.logger.Println(aurora.Yellow(warning))
	}
	c.stepsBeyondDone++
	return 0.0
}

// StepsBeyondDone returns the number of steps taken since the episode
// ended and whether the episode has ended at all
func (c *CartPole) StepsBeyondDone() (int, bool) {
	return c.stepsBeyondDone, c.stepsBeyondDone >= 0
}

// Render sends the current state to the bound Renderer, if any
func (c *CartPole) Render() error {
	if !c.started {
		return fmt.Errorf("render: %w", env.ErrNotReset)
	}
	return c.display.Render(c.state)
}

// Close closes the bound Renderer. Close may be called multiple times.
func (c *CartPole) Close() error {
	return c.display.Close()
}

// RewardSpec returns the range of rewards given by the task
func (c *CartPole) RewardSpec() env.Spec {
	return env.RewardSpec(c.task)
}

// Seed reseeds the starting state distribution and the action and
// observation spaces
func (c *CartPole) Seed(seed uint64) {
	c.task.Seed(seed)
	c.actionSpace.Seed(seed + 1)
	c.observationSpace.Seed(seed + 2)
}

func (c *CartPole) String() string {
	msg := "Cartpole  |  Position: %v  | Speed: %v  |  Angle: %v" +
		"  |  Angular Velocity: %v"

	position, speed := c.state.AtVec(0), c.state.AtVec(1)
	angle, velocity := c.state.AtVec(2), c.state.AtVec(3)

	return fmt.Sprintf(msg, position, speed, angle, velocity)
}
