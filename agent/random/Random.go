// Package random implements an agent that selects actions uniformly
// at random and does not learn
package random

import (
	"github.com/rlworld/classic/spaces"
	ts "github.com/rlworld/classic/timestep"
)

// Agent selects actions by sampling from an action space. Agent
// satisfies the agent.Agent interface. Its learning methods are
// no-ops.
type Agent[O, A any] struct {
	actions spaces.Space[A]
	eval    bool
}

// New returns a new random Agent sampling from actions. The action
// space is reseeded with seed so that two Agents with equal seeds
// select the same actions. The Agent takes ownership of actions.
func New[O, A any](actions spaces.Space[A], seed uint64) *Agent[O, A] {
	actions.Seed(seed)
	return &Agent[O, A]{actions: actions}
}

// SelectAction returns an action sampled uniformly from the action
// space, ignoring t
func (a *Agent[O, A]) SelectAction(_ ts.TimeStep[O]) A {
	return a.actions.Sample()
}

// Step performs no update
func (a *Agent[O, A]) Step() error { return nil }

// Observe ignores the transition
func (a *Agent[O, A]) Observe(A, ts.TimeStep[O]) error { return nil }

// ObserveFirst ignores the first timestep of an episode
func (a *Agent[O, A]) ObserveFirst(ts.TimeStep[O]) error { return nil }

// EndEpisode does nothing
func (a *Agent[O, A]) EndEpisode() {}

func (a *Agent[O, A]) Eval()        { a.eval = true }
func (a *Agent[O, A]) Train()       { a.eval = false }
func (a *Agent[O, A]) IsEval() bool { return a.eval }
