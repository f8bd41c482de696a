// Package wrappers implements environment wrappers, which modify the
// behaviour of the environments they wrap
package wrappers

import (
	env "github.com/rlworld/classic/environment"
	ts "github.com/rlworld/classic/timestep"
)

// StepLimit wraps an environment and ends its episodes after a fixed
// number of steps. Episodes cut off in this way have EndType
// timestep.Timeout. Episodes which the wrapped environment ends on
// its own keep their original EndType.
//
// StepLimit itself implements the environment.Env interface.
type StepLimit[O, A any] struct {
	env.Env[O, A]
	limiter *env.StepLimit[O]
}

// NewStepLimit returns a new StepLimit which ends episodes of e after
// episodeSteps steps
func NewStepLimit[O, A any](e env.Env[O, A], episodeSteps int) *StepLimit[O, A] {
	return &StepLimit[O, A]{
		Env:     e,
		limiter: env.NewStepLimit[O](episodeSteps),
	}
}

// Step takes one step in the wrapped environment, ending the episode
// if the step limit has been reached
func (s *StepLimit[O, A]) Step(a A) (ts.TimeStep[O], bool, error) {
	step, done, err := s.Env.Step(a)
	if err != nil || done {
		return step, done, err
	}

	return step, s.limiter.End(&step), nil
}

// Steps returns the maximum number of steps per episode
func (s *StepLimit[O, A]) Steps() int {
	return s.limiter.Steps()
}
