// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/rlworld/classic/agent"
	"github.com/rlworld/classic/agent/random"
	"github.com/rlworld/classic/environment/envconfig"
	"github.com/rlworld/classic/experiment/trackers"
)

// Experiment outlines structs that can run experiments. Experiments
// send each environment TimeStep to their Trackers, which cache the
// data in RAM to be later saved to disk with Save. Run runs episodes
// until the maximum timestep limit is reached, and RunEpisode runs a
// single episode.
type Experiment interface {
	Run(ctx context.Context) error

	// RunEpisode returns whether the step budget has been used up
	RunEpisode() (bool, error)

	// Save all tracked data to disk
	Save() error
}

// RunAll runs each experiment on its own goroutine and waits for all
// of them to finish. The first error cancels the context passed to the
// remaining experiments and is returned. Experiments must not share
// environments.
func RunAll(ctx context.Context, exps ...Experiment) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, exp := range exps {
		i, exp := i, exp
		g.Go(func() error {
			if err := exp.Run(ctx); err != nil {
				return fmt.Errorf("runAll: experiment %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Type names the kind of experiment to run
type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment
type Config struct {
	Type     Type             `json:"type"`
	MaxSteps uint             `json:"max_steps"`
	EnvConf  envconfig.Config `json:"environment"`
	Agent    agent.Type       `json:"agent"`
}

// agentSeedOffset separates the agent's random stream from those of the
// environment, which uses the offsets 0 to 2
const agentSeedOffset = 3

// CreateExp creates the experiment described by the Config for the
// run-th run. Each run offsets the configured seed by its index so that
// runs are independent and reproducible, and renders frames to its own
// subdirectory of the configured frame directory.
func (c Config) CreateExp(run int, t []trackers.Tracker[*mat.VecDense],
	envOpts []envconfig.Option,
	opts ...Option[*mat.VecDense, int]) (*Online[*mat.VecDense, int], error) {
	envConf := c.EnvConf
	envConf.Seed += uint64(run)
	if envConf.Render == envconfig.Frames {
		envConf.FrameDir = filepath.Join(envConf.FrameDir,
			fmt.Sprintf("run_%d", run))
	}

	e, err := envConf.Create(envOpts...)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create environment: %w",
			err)
	}

	var a agent.Agent[*mat.VecDense, int]
	switch c.Agent {
	case agent.Random, "":
		a = random.New[*mat.VecDense, int](e.ActionSpace(),
			envConf.Seed+agentSeedOffset)
	default:
		e.Close()
		return nil, fmt.Errorf("createExp: no such agent type %v", c.Agent)
	}

	switch c.Type {
	case OnlineExp, "":
		return NewOnline(e, a, c.MaxSteps, t, opts...), nil
	}

	e.Close()
	return nil, fmt.Errorf("createExp: no such experiment type %v", c.Type)
}
