package experiment

import (
	"context"
	"fmt"

	"github.com/rlworld/classic/agent"
	env "github.com/rlworld/classic/environment"
	"github.com/rlworld/classic/experiment/trackers"
	ts "github.com/rlworld/classic/timestep"
)

// Incrementer is notified of each step taken in an experiment, for
// example a progress bar
type Incrementer interface {
	Increment()
}

// Option configures an Online experiment
type Option[O, A any] func(*Online[O, A])

// WithRender renders the environment after every reset and step
func WithRender[O, A any]() Option[O, A] {
	return func(o *Online[O, A]) {
		o.render = true
	}
}

// WithProgress increments p on every step taken
func WithProgress[O, A any](p Incrementer) Option[O, A] {
	return func(o *Online[O, A]) {
		o.progress = p
	}
}

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online[O, A any] struct {
	env          env.Env[O, A]
	agent        agent.Agent[O, A]
	maxSteps     uint
	currentSteps uint
	trackers     []trackers.Tracker[O]
	render       bool
	progress     Incrementer
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many timesteps the experiment is run for, and the t parameter
// is a slice of trackers.Tracker which determine what data is saved.
func NewOnline[O, A any](e env.Env[O, A], a agent.Agent[O, A], steps uint,
	t []trackers.Tracker[O], opts ...Option[O, A]) *Online[O, A] {
	o := &Online[O, A]{
		env:      e,
		agent:    a,
		maxSteps: steps,
		trackers: t,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Register registers a Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online[O, A]) Register(t trackers.Tracker[O]) {
	o.trackers = append(o.trackers, t)
}

// Steps returns the number of steps taken so far
func (o *Online[O, A]) Steps() uint {
	return o.currentSteps
}

// RunEpisode runs a single episode of the experiment
func (o *Online[O, A]) RunEpisode() (bool, error) {
	step, err := o.env.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	if err := o.agent.ObserveFirst(step); err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	o.track(step)
	if err := o.maybeRender(); err != nil {
		return false, err
	}

	done := false
	for !done && o.currentSteps < o.maxSteps {
		o.currentSteps++

		action := o.agent.SelectAction(step)
		step, done, err = o.env.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		done = done || step.Last()

		o.track(step)
		if err := o.maybeRender(); err != nil {
			return false, err
		}
		if o.progress != nil {
			o.progress.Increment()
		}

		if err := o.agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		if err := o.agent.Step(); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
	}
	o.agent.EndEpisode()

	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps. Run stops between
// episodes if ctx is cancelled.
func (o *Online[O, A]) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
		ended, err := o.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if ended {
			return nil
		}
	}
}

// Save saves the data cached by the Trackers to disk
func (o *Online[O, A]) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// Close closes the environment of the experiment
func (o *Online[O, A]) Close() error {
	return o.env.Close()
}

func (o *Online[O, A]) maybeRender() error {
	if !o.render {
		return nil
	}
	if err := o.env.Render(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online[O, A]) track(t ts.TimeStep[O]) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}
