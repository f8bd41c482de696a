package mountaincar

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/rlworld/classic/environment"
	ts "github.com/rlworld/classic/timestep"
)

// Bounds of the default starting states
const (
	MinStartPosition float64 = -0.6
	MaxStartPosition float64 = -0.4
)

// Goal implements the classic control task of reaching a goal on
// Mountain Car. In this task, the agent must learn to drive the car
// up the hill and reach the goal state. Since the car is underpowered,
// it must rock back and forth from hill to hill until it reaches the
// goal.
//
// Rewards are -1 on each timestep, including the one reaching the goal.
//
// Episodes end when the car reaches the goal position.
type Goal struct {
	env.Starter
	goalEnder *env.FunctionEnder
	goalX     float64 // x position of goal
}

// NewGoal creates and returns a new Goal struct given a Starter, which
// determines the starting states, and the goal x position.
func NewGoal(s env.Starter, goalX float64) *Goal {
	g := &Goal{Starter: s, goalX: goalX}
	g.goalEnder = env.NewFunctionEnder(g.AtGoal, ts.TerminalStateReached)

	return g
}

// DefaultStarter returns a Starter which samples the position uniformly
// from [MinStartPosition, MaxStartPosition) with zero velocity
func DefaultStarter(seed uint64) env.Starter {
	position := r1.Interval{Min: MinStartPosition, Max: MaxStartPosition}
	velocity := r1.Interval{Min: 0.0, Max: 0.0}

	return env.NewUniformStarter([]r1.Interval{position, velocity}, seed)
}

// NewDefault returns a Mountain Car environment with the Goal task,
// the default starting states and goal position
func NewDefault(seed uint64, opts ...Option) *MountainCar {
	task := NewGoal(DefaultStarter(seed), GoalPosition)
	return New(task, seed, opts...)
}

// End determines if a timestep is the last timestep in an episode by
// checking if the car has reached the goal position
func (g *Goal) End(t *ts.TimeStep[*mat.VecDense]) bool {
	return g.goalEnder.End(t)
}

// AtGoal returns a boolean indicating whether or not the argument state
// is the goal state
func (g *Goal) AtGoal(state *mat.VecDense) bool {
	return state.AtVec(0) >= g.goalX
}

// GetReward returns the reward for a given state and action, resulting
// in a given next state. This is a cost-to-goal Task, so every
// transition costs -1.
func (g *Goal) GetReward(_ *mat.VecDense, _ int, _ *mat.VecDense) float64 {
	return -1.0
}

// Min returns the minimum attainable reward over all timesteps
func (g *Goal) Min() float64 { return -1.0 }

// Max returns the maximum attainable reward over all timesteps
func (g *Goal) Max() float64 { return -1.0 }
