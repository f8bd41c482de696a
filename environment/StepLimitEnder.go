package environment

import ts "github.com/rlworld/classic/timestep"

// StepLimit implements the Ender interface to end episodes at specific
// timestep limits
type StepLimit[O any] struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit
func NewStepLimit[O any](episodeSteps int) *StepLimit[O] {
	return &StepLimit[O]{episodeSteps}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is timestep.Timeout
func (s *StepLimit[O]) End(t *ts.TimeStep[O]) bool {
	if t.Number >= s.episodeSteps {
		t.End(ts.Timeout)
		return true
	}
	return false
}

// Steps returns the number of steps allowed per episode
func (s *StepLimit[O]) Steps() int {
	return s.episodeSteps
}
