// Package ascii implements text-based renderers for the classic
// control environments
package ascii

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/logrusorgru/aurora"
	"gonum.org/v1/gonum/mat"

	"github.com/rlworld/classic/environment/classiccontrol/cartpole"
	"github.com/rlworld/classic/environment/classiccontrol/mountaincar"
	"github.com/rlworld/classic/render"
)

// clearScreen moves the cursor home and clears the terminal
const clearScreen = "\x1b[3;J\x1b[H\x1b[2J"

// Renderer draws environment states as text to an io.Writer
type Renderer struct {
	out    io.Writer
	au     aurora.Aurora
	clear  bool
	closed bool
	draw   func(r *Renderer, b *strings.Builder, state *mat.VecDense)
}

// Option configures a Renderer
type Option func(*Renderer)

// WithColors enables or disables terminal colours
func WithColors(colors bool) Option {
	return func(r *Renderer) {
		r.au = aurora.NewAurora(colors)
	}
}

// WithClear clears the terminal before each frame
func WithClear(clear bool) Option {
	return func(r *Renderer) {
		r.clear = clear
	}
}

func newRenderer(out io.Writer, draw func(*Renderer, *strings.Builder,
	*mat.VecDense), opts []Option) *Renderer {
	r := &Renderer{
		out:  out,
		au:   aurora.NewAurora(true),
		draw: draw,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewMountainCar returns a Renderer for the Mountain Car environment
func NewMountainCar(out io.Writer, opts ...Option) *Renderer {
	return newRenderer(out, drawMountainCar, opts)
}

// NewCartPole returns a Renderer for the Cartpole environment
func NewCartPole(out io.Writer, opts ...Option) *Renderer {
	return newRenderer(out, drawCartPole, opts)
}

// Render draws a single state
func (r *Renderer) Render(state *mat.VecDense) error {
	if r.closed {
		return fmt.Errorf("render: %w", render.ErrClosed)
	}

	var b strings.Builder
	if r.clear {
		b.WriteString(clearScreen)
	}
	r.draw(r, &b, state)

	_, err := io.WriteString(r.out, b.String())
	return err
}

// Close stops the Renderer. Close may be called multiple times.
func (r *Renderer) Close() error {
	r.closed = true
	return nil
}

const width = 16

// drawMountainCar draws the valley followed by a position bar holding
// the car and the goal flag
func drawMountainCar(r *Renderer, b *strings.Builder, state *mat.VecDense) {
	for i := 1; i < width/2+1; i++ {
		b.WriteString(hillRow(width, i))
		if i == 1 {
			fmt.Fprint(b, r.au.Green("🏁"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	x := cell(state.AtVec(0), mountaincar.MinPosition,
		mountaincar.MaxPosition, width)
	goal := cell(mountaincar.GoalPosition, mountaincar.MinPosition,
		mountaincar.MaxPosition, width)
	for i := 0; i < width; i++ {
		switch {
		case i == x:
			fmt.Fprint(b, r.au.Red("🚗"))
		case i == goal:
			fmt.Fprint(b, r.au.Green("🏁"))
		default:
			b.WriteString("=")
		}
	}
	fmt.Fprintf(b, "\nposition: %+.4f  velocity: %+.4f\n", state.AtVec(0),
		state.AtVec(1))
}

// hillRow draws a single row of the valley
func hillRow(xIndices, width int) string {
	var builder strings.Builder
	builder.WriteString(strings.Repeat("=", width))
	builder.WriteString(strings.Repeat(" ", xIndices-(2*width)))
	builder.WriteString(strings.Repeat("=", width))
	return builder.String()
}

// drawCartPole draws the track with the cart on it and a glyph for the
// pole leaning in the direction of its angle
func drawCartPole(r *Renderer, b *strings.Builder, state *mat.VecDense) {
	const trackWidth = 2 * width

	x, theta := state.AtVec(0), state.AtVec(2)
	bound := cartpole.ObservationBounds()[0] / 2
	pos := cell(x, -bound, bound, trackWidth)

	pole := r.au.Yellow(poleGlyph(theta))
	if math.Abs(theta) > cartpole.FailAngle {
		pole = r.au.Red(poleGlyph(theta))
	}

	b.WriteString(strings.Repeat(" ", pos))
	fmt.Fprintln(b, pole)
	for i := 0; i < trackWidth; i++ {
		if i == pos {
			fmt.Fprint(b, r.au.Cyan("■"))
		} else {
			b.WriteString("_")
		}
	}
	fmt.Fprintf(b, "\nx: %+.4f  θ: %+.4f\n", x, theta)
}

// poleGlyph returns the character closest to the pole's angle from the
// vertical. Positive angles lean right.
func poleGlyph(theta float64) string {
	switch {
	case math.Abs(theta) < cartpole.FailAngle/2:
		return "|"
	case theta > 0:
		return "/"
	default:
		return "\\"
	}
}

// cell maps a value in [min, max] to a cell index in [0, cells). Values
// outside of the range are clipped.
func cell(value, min, max float64, cells int) int {
	frac := (value - min) / (max - min)
	frac = math.Max(0, math.Min(1, frac))
	if i := int(frac * float64(cells)); i < cells {
		return i
	}
	return cells - 1
}
