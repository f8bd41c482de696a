package wrappers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	env "github.com/rlworld/classic/environment"
	ts "github.com/rlworld/classic/timestep"
)

// Transition is a single recorded environment step
type Transition[A any] struct {
	Observation []float64 `json:"obs"`
	Action      A         `json:"action"`
	Reward      float64   `json:"reward"`
	Done        bool      `json:"done"`
}

// Episode is a recorded episode. Episodes cut short by a Reset are
// recorded with EndType timestep.NotEnded.
type Episode[A any] struct {
	EpisodeID     string          `json:"episode_id"`
	Start         []float64       `json:"start"`
	Steps         []Transition[A] `json:"steps"`
	EpisodeReward float64         `json:"episode_reward"`
	EndType       string          `json:"end_type"`
}

// Recorder wraps an environment and writes every episode to an
// io.Writer as a single line of JSON once the episode ends or the
// environment is Reset.
//
// Recorder itself implements the environment.Env interface.
type Recorder[A any] struct {
	env.Env[*mat.VecDense, A]
	out     *json.Encoder
	episode *Episode[A]
}

// NewRecorder returns a new Recorder which writes the episodes of e
// to w
func NewRecorder[A any](e env.Env[*mat.VecDense, A], w io.Writer) *Recorder[A] {
	return &Recorder[A]{
		Env: e,
		out: json.NewEncoder(w),
	}
}

// Reset resets the wrapped environment, writing any unfinished episode
func (r *Recorder[A]) Reset() (ts.TimeStep[*mat.VecDense], error) {
	if err := r.flush(ts.NotEnded); err != nil {
		return ts.TimeStep[*mat.VecDense]{}, fmt.Errorf("reset: %w", err)
	}

	step, err := r.Env.Reset()
	if err != nil {
		return step, err
	}

	r.episode = &Episode[A]{
		EpisodeID: uuid.NewString(),
		Start:     rawCopy(step.Observation),
	}
	return step, nil
}

// Step takes a step in the wrapped environment and records it
func (r *Recorder[A]) Step(a A) (ts.TimeStep[*mat.VecDense], bool, error) {
	step, done, err := r.Env.Step(a)
	if err != nil || r.episode == nil {
		return step, done, err
	}

	r.episode.Steps = append(r.episode.Steps, Transition[A]{
		Observation: rawCopy(step.Observation),
		Action:      a,
		Reward:      step.Reward,
		Done:        done,
	})
	r.episode.EpisodeReward += step.Reward

	if done {
		if err := r.flush(step.EndType); err != nil {
			return step, done, fmt.Errorf("step: %w", err)
		}
	}
	return step, done, nil
}

// Close writes any unfinished episode and closes the wrapped
// environment
func (r *Recorder[A]) Close() error {
	if err := r.flush(ts.NotEnded); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return r.Env.Close()
}

// flush writes the current episode, if it has any steps
func (r *Recorder[A]) flush(end ts.EndType) error {
	episode := r.episode
	r.episode = nil
	if episode == nil || len(episode.Steps) == 0 {
		return nil
	}

	episode.EndType = end.String()
	if err := r.out.Encode(episode); err != nil {
		return fmt.Errorf("could not record episode %v: %w",
			episode.EpisodeID, err)
	}
	return nil
}

func rawCopy(v *mat.VecDense) []float64 {
	data := make([]float64, v.Len())
	for i := range data {
		data[i] = v.AtVec(i)
	}
	return data
}
