package cartpole

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/rlworld/classic/environment"
	ts "github.com/rlworld/classic/timestep"
)

// StartBound bounds (+/-) each feature of the default starting states
const StartBound float64 = 0.05

// Balance implements the classic control Cartpole Balance task. In this
// Task, the goal of the agent is to balance the pole on the cart in
// an upright position for as long as possible.
//
// The reward is +1 for every timestep, including the one on which the
// pole falls or the cart leaves the track.
//
// Episodes end when the cart position leaves [-FailPosition,
// FailPosition] or the pole angle leaves [-FailAngle, FailAngle].
type Balance struct {
	env.Starter
	limiter *env.IntervalLimit
}

// NewBalance creates and returns a new Balance task which ends episodes
// when the cart position leaves [-failPosition, failPosition] or the
// pole angle leaves [-failAngle, failAngle]
func NewBalance(s env.Starter, failPosition, failAngle float64) *Balance {
	limits := []r1.Interval{
		{Min: -failPosition, Max: failPosition},
		{Min: -failAngle, Max: failAngle},
	}
	limiter := env.NewIntervalLimit(limits, []int{0, 2},
		ts.TerminalStateReached)

	return &Balance{s, limiter}
}

// DefaultStarter returns a Starter which samples each state feature
// uniformly from [-StartBound, StartBound)
func DefaultStarter(seed uint64) env.Starter {
	bounds := r1.Interval{Min: -StartBound, Max: StartBound}
	return env.NewUniformStarter([]r1.Interval{
		bounds,
		bounds,
		bounds,
		bounds,
	}, seed)
}

// NewDefault returns a CartPole environment with the Balance task,
// the default starting states and the default failure thresholds
func NewDefault(seed uint64, opts ...Option) *CartPole {
	task := NewBalance(DefaultStarter(seed), FailPosition, FailAngle)
	return New(task, seed, opts...)
}

// End checks if a TimeStep is the last in an episode. If so, it adjusts
// the TimeStep's StepType to timestep.Last and returns true. Otherwise,
// the function does not adjust the TimeStep and returns false.
func (b *Balance) End(t *ts.TimeStep[*mat.VecDense]) bool {
	return b.limiter.End(t)
}

// GetReward returns the reward for an action taken in some state,
// resulting in a transition to the next state nextState.
func (b *Balance) GetReward(_ *mat.VecDense, _ int, _ *mat.VecDense) float64 {
	return 1.0
}

// Min returns the minimum possible reward that can be received in the
// environment
func (b *Balance) Min() float64 {
	return 0.0
}

// Max returns the maximum possible reward that can be received in the
// environment
func (b *Balance) Max() float64 {
	return 1.0
}
