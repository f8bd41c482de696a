package experiment

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"sync/atomic"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/rlworld/classic/agent/random"
	"github.com/rlworld/classic/environment/classiccontrol/cartpole"
	"github.com/rlworld/classic/environment/envconfig"
	"github.com/rlworld/classic/experiment/trackers"
	"github.com/rlworld/classic/spaces"
	ts "github.com/rlworld/classic/timestep"
)

type counter struct {
	n atomic.Int64
}

func (c *counter) Increment() { c.n.Add(1) }

func quietCartPole(seed uint64) *cartpole.CartPole {
	return cartpole.NewDefault(seed, cartpole.WithLogger(log.New(io.Discard,
		"", 0)))
}

func TestOnline(t *testing.T) {
	const steps = 500
	dir := t.TempDir()

	e := quietCartPole(3)
	a := random.New[*mat.VecDense, int](e.ActionSpace(), 3)
	ret := trackers.NewReturn[*mat.VecDense](filepath.Join(dir, "ret"))
	length := trackers.NewEpisodeLength[*mat.VecDense](filepath.Join(dir,
		"len"))
	var progress counter

	exp := NewOnline[*mat.VecDense, int](e, a, steps,
		[]trackers.Tracker[*mat.VecDense]{ret},
		WithProgress[*mat.VecDense, int](&progress))
	exp.Register(length)

	if err := exp.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if exp.Steps() != steps {
		t.Errorf("steps: \n\twant(%v)\n\thave(%v)", steps, exp.Steps())
	}
	if have := progress.n.Load(); have != steps {
		t.Errorf("progress: \n\twant(%v)\n\thave(%v)", steps, have)
	}

	// Cartpole gives a reward of 1 for every step up to and including
	// the step that ends the episode, so returns equal lengths
	returns, lengths := ret.Data(), length.Data()
	if len(returns) == 0 {
		t.Fatal("no episodes finished")
	}
	if len(returns) != len(lengths) {
		t.Fatalf("episodes: \n\twant(%v)\n\thave(%v)", len(lengths),
			len(returns))
	}
	total := 0.0
	for i := range returns {
		if returns[i] != lengths[i] {
			t.Errorf("episode %v return: \n\twant(%v)\n\thave(%v)", i,
				lengths[i], returns[i])
		}
		total += lengths[i]
	}
	if total > steps {
		t.Errorf("finished episodes longer than budget: %v > %v", total,
			steps)
	}

	if err := exp.Save(); err != nil {
		t.Fatal(err)
	}
	saved, err := trackers.LoadData(filepath.Join(dir, "len"))
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != len(lengths) {
		t.Errorf("saved episodes: \n\twant(%v)\n\thave(%v)", len(lengths),
			len(saved))
	}
}

func TestOnlineCancelled(t *testing.T) {
	e := quietCartPole(0)
	a := random.New[*mat.VecDense, int](e.ActionSpace(), 0)
	exp := NewOnline[*mat.VecDense, int](e, a, 100, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := exp.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("run: \n\twant(%v)\n\thave(%v)", context.Canceled, err)
	}
	if exp.Steps() != 0 {
		t.Errorf("cancelled experiment took %v steps", exp.Steps())
	}
}

func TestCreateExp(t *testing.T) {
	c := Config{
		Type:     OnlineExp,
		MaxSteps: 200,
		EnvConf:  envconfig.NewConfig(envconfig.MountainCar, 50, 1),
	}

	exp, err := c.CreateExp(0, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	length := trackers.NewEpisodeLength[*mat.VecDense]("")
	exp.Register(length)

	if err := exp.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []float64{50, 50, 50, 50}
	have := length.Data()
	if len(have) != len(want) {
		t.Fatalf("episode lengths: \n\twant(%v)\n\thave(%v)", want, have)
	}
	for i := range want {
		if have[i] != want[i] {
			t.Errorf("episode lengths: \n\twant(%v)\n\thave(%v)", want, have)
			break
		}
	}
}

func TestCreateExpAgentStream(t *testing.T) {
	const seed, draws = 21, 64
	c := Config{
		MaxSteps: 1,
		EnvConf:  envconfig.NewConfig(envconfig.Cartpole, 0, seed),
	}
	exp, err := c.CreateExp(0, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer exp.Close()

	// A space seeded like the environment's starter must not replay the
	// agent's actions
	shared := spaces.NewDiscrete(cartpole.Actions, seed)
	var step ts.TimeStep[*mat.VecDense]
	same := 0
	for i := 0; i < draws; i++ {
		if exp.agent.SelectAction(step) == shared.Sample() {
			same++
		}
	}
	if same == draws {
		t.Errorf("agent actions replay the environment seed's stream for "+
			"all %v draws", draws)
	}
}

func TestCreateExpErrors(t *testing.T) {
	tests := []Config{
		{Type: "Offline", EnvConf: envconfig.NewConfig(envconfig.Cartpole, 0, 0)},
		{Agent: "Sarsa", EnvConf: envconfig.NewConfig(envconfig.Cartpole, 0, 0)},
		{EnvConf: envconfig.NewConfig("Acrobot", 0, 0)},
	}

	for _, c := range tests {
		if _, err := c.CreateExp(0, nil, nil); err == nil {
			t.Errorf("createExp %+v: expected error", c)
		}
	}
}

func TestRunAll(t *testing.T) {
	const runs, steps = 4, 300
	c := Config{
		MaxSteps: steps,
		EnvConf:  envconfig.NewConfig(envconfig.MountainCar, 100, 11),
	}

	var progress counter
	lengths := make([]*trackers.EpisodeLength[*mat.VecDense], runs)
	exps := make([]Experiment, runs)
	for i := range exps {
		lengths[i] = trackers.NewEpisodeLength[*mat.VecDense]("")
		exp, err := c.CreateExp(i, []trackers.Tracker[*mat.VecDense]{
			lengths[i]}, nil, WithProgress[*mat.VecDense, int](&progress))
		if err != nil {
			t.Fatal(err)
		}
		exps[i] = exp
	}

	if err := RunAll(context.Background(), exps...); err != nil {
		t.Fatal(err)
	}
	if have := progress.n.Load(); have != runs*steps {
		t.Errorf("progress: \n\twant(%v)\n\thave(%v)", runs*steps, have)
	}
	for i, l := range lengths {
		if len(l.Data()) != 3 {
			t.Errorf("run %v episodes: \n\twant(%v)\n\thave(%v)", i, 3,
				len(l.Data()))
		}
	}
}

type failing struct{}

func (failing) Run(context.Context) error { return io.ErrUnexpectedEOF }
func (failing) RunEpisode() (bool, error) { return true, nil }
func (failing) Save() error               { return nil }

func TestRunAllError(t *testing.T) {
	c := Config{
		MaxSteps: 10,
		EnvConf:  envconfig.NewConfig(envconfig.Cartpole, 0, 0),
	}
	exp, err := c.CreateExp(0, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	err = RunAll(context.Background(), exp, failing{})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("runAll: \n\twant(%v)\n\thave(%v)", io.ErrUnexpectedEOF, err)
	}
}
