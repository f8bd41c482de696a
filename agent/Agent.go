// Package agent defines an agent interface
package agent

import (
	ts "github.com/rlworld/classic/timestep"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns from the transitions
// it observes, and a Policy which chooses actions in each state. The
// Policy chooses which actions are taken, and the Learner uses these
// actions to update the Policy.
type Agent[O, A any] interface {
	Learner[O, A]
	Policy[O, A]
}

// Learner implements a learning algorithm that defines how the agent
// changes over time
type Learner[O, A any] interface {
	// Step performs a single update to the learner
	Step() error

	// Observe records that an action lead to some timestep
	Observe(action A, nextObs ts.TimeStep[O]) error

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(ts.TimeStep[O]) error

	// EndEpisode performs cleanup at the end of an episode
	EndEpisode()
}

// Policy represents a policy that an agent can have. Policies determine
// how agents select actions.
type Policy[O, A any] interface {
	SelectAction(t ts.TimeStep[O]) A
	Eval()        // Set policy to evaluation mode
	Train()       // Set policy to training mode
	IsEval() bool // Indicates if in evaluation mode
}

// Type names an agent that can be created from a configuration
type Type string

const (
	Random Type = "Random"
)
