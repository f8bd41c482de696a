package environment

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/rlworld/classic/spaces"
	ts "github.com/rlworld/classic/timestep"
)

func TestUniformStarter(t *testing.T) {
	bounds := []r1.Interval{
		{Min: -0.6, Max: -0.4},
		{Min: 0, Max: 0},
	}
	s := NewUniformStarter(bounds, 1)

	for i := 0; i < 1000; i++ {
		start := s.Start()
		if start.Len() != len(bounds) {
			t.Fatalf("start: length \n\twant(%v)\n\thave(%v)", len(bounds),
				start.Len())
		}
		if v := start.AtVec(0); v < -0.6 || v > -0.4 {
			t.Errorf("start: feature 0 = %v ∉ [-0.6, -0.4]", v)
		}
		if v := start.AtVec(1); v != 0 {
			t.Errorf("start: fixed feature \n\twant(0)\n\thave(%v)", v)
		}
	}
}

func TestUniformStarterSeed(t *testing.T) {
	bounds := []r1.Interval{{Min: -1, Max: 1}, {Min: -1, Max: 1}}
	a, b := NewUniformStarter(bounds, 1), NewUniformStarter(bounds, 2)
	a.Seed(3)
	b.Seed(3)

	for i := 0; i < 10; i++ {
		if x, y := a.Start(), b.Start(); !mat.Equal(x, y) {
			t.Fatalf("seed: equally seeded starters diverged: %v != %v",
				x.RawVector().Data, y.RawVector().Data)
		}
	}
}

func TestIntervalLimit(t *testing.T) {
	limit := NewIntervalLimit(
		[]r1.Interval{{Min: -2.4, Max: 2.4}, {Min: -0.2, Max: 0.2}},
		[]int{0, 2},
		ts.TerminalStateReached,
	)

	tests := []struct {
		obs  []float64
		want bool
	}{
		{[]float64{0, 100, 0, 100}, false},
		{[]float64{2.4, 0, -0.2, 0}, false},
		{[]float64{2.41, 0, 0, 0}, true},
		{[]float64{-2.41, 0, 0, 0}, true},
		{[]float64{0, 0, 0.21, 0}, true},
		{[]float64{0, 0, -0.21, 0}, true},
		{[]float64{math.NaN(), 0, 0, 0}, true},
	}

	for _, test := range tests {
		step := ts.New(ts.Mid, 1, mat.NewVecDense(4, test.obs), 1)
		if have := limit.End(&step); have != test.want {
			t.Errorf("end(%v): \n\twant(%v)\n\thave(%v)", test.obs, test.want,
				have)
		}
		if step.Last() != test.want {
			t.Errorf("end(%v): step type not adjusted", test.obs)
		}
		if test.want && step.EndType != ts.TerminalStateReached {
			t.Errorf("end(%v): end type \n\twant(%v)\n\thave(%v)", test.obs,
				ts.TerminalStateReached, step.EndType)
		}
	}
}

func TestFunctionEnder(t *testing.T) {
	ender := NewFunctionEnder(func(v *mat.VecDense) bool {
		return v.AtVec(0) >= 0.5
	}, ts.TerminalStateReached)

	below := ts.New(ts.Mid, -1, mat.NewVecDense(2, []float64{0.49, 0}), 1)
	if ender.End(&below) || below.Last() {
		t.Error("end: episode ended below the goal")
	}

	at := ts.New(ts.Mid, -1, mat.NewVecDense(2, []float64{0.5, 0}), 1)
	if !ender.End(&at) || !at.Last() {
		t.Error("end: episode did not end at the goal")
	}
}

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit[int](3)

	for n := 0; n < 3; n++ {
		step := ts.New(ts.Mid, 0, 0, n)
		if limit.End(&step) {
			t.Errorf("end: episode ended at step %v", n)
		}
	}

	step := ts.New(ts.Mid, 0, 0, 3)
	if !limit.End(&step) || step.EndType != ts.Timeout {
		t.Errorf("end: step 3 \n\twant(%v)\n\thave(%v)", ts.Timeout,
			step.EndType)
	}
}

type closeCounter struct {
	renders, closes int
	err             error
}

func (c *closeCounter) Render(*mat.VecDense) error {
	c.renders++
	return c.err
}

func (c *closeCounter) Close() error {
	c.closes++
	return c.err
}

func TestDisplay(t *testing.T) {
	var nilDisplay *Display
	if err := nilDisplay.Render(mat.NewVecDense(1, nil)); err != nil {
		t.Errorf("render on nil display: %v", err)
	}
	if err := NewDisplay(nil).Close(); err != nil {
		t.Errorf("close without renderer: %v", err)
	}

	boom := errors.New("boom")
	r := &closeCounter{err: boom}
	d := NewDisplay(r)
	if !d.Bound() {
		t.Error("bound: renderer should be bound")
	}
	if err := d.Render(mat.NewVecDense(1, nil)); !errors.Is(err, boom) {
		t.Errorf("render: \n\twant(%v)\n\thave(%v)", boom, err)
	}
	if err := d.Close(); !errors.Is(err, boom) {
		t.Errorf("close: \n\twant(%v)\n\thave(%v)", boom, err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	d.Render(mat.NewVecDense(1, nil))

	if r.renders != 1 || r.closes != 1 {
		t.Errorf("display: \n\twant(1 render, 1 close)\n\thave(%v renders, "+
			"%v closes)", r.renders, r.closes)
	}
}

func TestSpecOf(t *testing.T) {
	action, err := SpecOf[int](Action, spaces.NewDiscrete(3, 0))
	if err != nil {
		t.Fatal(err)
	}
	if action.Cardinality != Discrete || action.Shape != 1 ||
		action.UpperBound[0] != 2 {
		t.Errorf("specOf: discrete spec %+v", action)
	}

	box := spaces.NewBox([]float64{-1, -math.MaxFloat64},
		[]float64{1, math.MaxFloat64}, 0)
	obs, err := SpecOf[*mat.VecDense](Observation, box)
	if err != nil {
		t.Fatal(err)
	}
	if obs.Cardinality != Continuous || obs.Shape != 2 ||
		obs.LowerBound[1] != -math.MaxFloat64 {
		t.Errorf("specOf: box spec %+v", obs)
	}
}

func TestNewSpecPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("newSpec: expected panic for mismatched shape")
		}
	}()
	NewSpec(2, Action, []float64{0}, []float64{1}, Discrete)
}
