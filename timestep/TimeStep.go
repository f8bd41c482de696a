// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes why an episode ended
type EndType int

const (
	NotEnded EndType = iota
	TerminalStateReached
	Timeout
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "NotEnded"
	}
}

// TimeStep packages together a single timestep in an environment. It
// carries the observation, the reward for the action that produced it,
// whether the episode has ended, and an auxiliary info mapping.
type TimeStep[O any] struct {
	StepType
	EndType
	Reward      float64
	Observation O
	Number      int
	Info        map[string]interface{}
}

// New returns a new TimeStep with an empty Info mapping
func New[O any](t StepType, r float64, o O, n int) TimeStep[O] {
	return TimeStep[O]{
		StepType:    t,
		EndType:     NotEnded,
		Reward:      r,
		Observation: o,
		Number:      n,
		Info:        map[string]interface{}{},
	}
}

// First returns whether a TimeStep is the first in an episode
func (t *TimeStep[O]) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an episode
func (t *TimeStep[O]) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an episode
func (t *TimeStep[O]) Last() bool {
	return t.StepType == Last
}

// End marks the TimeStep as the last in its episode with the given
// end type
func (t *TimeStep[O]) End(e EndType) {
	t.StepType = Last
	t.EndType = e
}

func (t TimeStep[O]) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  End: %v  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.EndType, t.Number)
}
