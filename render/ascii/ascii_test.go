package ascii

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/rlworld/classic/render"
)

func TestMountainCar(t *testing.T) {
	var buf bytes.Buffer
	r := NewMountainCar(&buf, WithColors(false))

	if err := r.Render(mat.NewVecDense(2, []float64{-0.5, 0.01})); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"🚗", "🏁", "position: -0.5000",
		"velocity: +0.0100"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%v", want, out)
		}
	}
	if strings.Contains(out, "\x1b") {
		t.Errorf("colours disabled but output has escape codes:\n%q", out)
	}
}

func TestCartPole(t *testing.T) {
	tests := []struct {
		theta float64
		glyph string
	}{
		{0, "|"},
		{0.2, "/"},
		{-0.2, "\\"},
	}

	for _, test := range tests {
		var buf bytes.Buffer
		r := NewCartPole(&buf, WithColors(false))
		state := mat.NewVecDense(4, []float64{0, 0, test.theta, 0})
		if err := r.Render(state); err != nil {
			t.Fatal(err)
		}

		first := strings.SplitN(buf.String(), "\n", 2)[0]
		if have := strings.TrimSpace(first); have != test.glyph {
			t.Errorf("pole glyph for %v: \n\twant(%v)\n\thave(%v)",
				test.theta, test.glyph, have)
		}
	}
}

func TestCartPoleTrackPosition(t *testing.T) {
	left, right := trackLine(t, -2.4), trackLine(t, 2.4)
	if strings.Index(left, "■") >= strings.Index(right, "■") {
		t.Errorf("cart should move right:\n%v\n%v", left, right)
	}
}

func trackLine(t *testing.T, x float64) string {
	t.Helper()
	var buf bytes.Buffer
	r := NewCartPole(&buf, WithColors(false))
	if err := r.Render(mat.NewVecDense(4, []float64{x, 0, 0, 0})); err != nil {
		t.Fatal(err)
	}
	return strings.Split(buf.String(), "\n")[1]
}

func TestClear(t *testing.T) {
	var buf bytes.Buffer
	r := NewMountainCar(&buf, WithColors(false), WithClear(true))
	if err := r.Render(mat.NewVecDense(2, nil)); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), clearScreen) {
		t.Error("frame should start by clearing the screen")
	}
}

func TestClose(t *testing.T) {
	var buf bytes.Buffer
	r := NewCartPole(&buf)
	for i := 0; i < 2; i++ {
		if err := r.Close(); err != nil {
			t.Errorf("close %d: %v", i, err)
		}
	}
	err := r.Render(mat.NewVecDense(4, nil))
	if !errors.Is(err, render.ErrClosed) {
		t.Errorf("render after close: \n\twant(%v)\n\thave(%v)",
			render.ErrClosed, err)
	}
	if buf.Len() != 0 {
		t.Errorf("closed renderer wrote output: %q", buf.String())
	}
}
