// Package frames implements renderers that draw each environment state
// to a numbered PNG image in a directory
package frames

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/mat"

	"github.com/rlworld/classic/environment/classiccontrol/cartpole"
	"github.com/rlworld/classic/environment/classiccontrol/mountaincar"
	"github.com/rlworld/classic/render"
)

const (
	Width  = 600
	Height = 400
)

// Renderer draws states to PNG files named frame_00000.png,
// frame_00001.png, ... in a directory
type Renderer struct {
	dir    string
	frame  int
	closed bool
	draw   func(dc *gg.Context, state *mat.VecDense)
}

func newRenderer(dir string, draw func(*gg.Context,
	*mat.VecDense)) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("newRenderer: could not create frame "+
			"directory: %w", err)
	}
	return &Renderer{dir: dir, draw: draw}, nil
}

// NewCartPole returns a Renderer that draws Cartpole states into dir,
// creating dir if needed
func NewCartPole(dir string) (*Renderer, error) {
	return newRenderer(dir, drawCartPole)
}

// NewMountainCar returns a Renderer that draws Mountain Car states into
// dir, creating dir if needed
func NewMountainCar(dir string) (*Renderer, error) {
	return newRenderer(dir, drawMountainCar)
}

// Render draws state to the next frame file
func (r *Renderer) Render(state *mat.VecDense) error {
	if r.closed {
		return fmt.Errorf("render: %w", render.ErrClosed)
	}

	dc := gg.NewContext(Width, Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	r.draw(dc, state)

	if err := dc.SavePNG(r.Path(r.frame)); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	r.frame++
	return nil
}

// Frames returns the number of frames written so far
func (r *Renderer) Frames() int {
	return r.frame
}

// Path returns the path of the i-th frame
func (r *Renderer) Path(i int) string {
	return filepath.Join(r.dir, fmt.Sprintf("frame_%05d.png", i))
}

// Close stops the Renderer. Close may be called multiple times.
func (r *Renderer) Close() error {
	r.closed = true
	return nil
}

// drawCartPole draws the track, the cart, and the pole at its angle.
// The image y axis grows downwards, so world heights are flipped.
func drawCartPole(dc *gg.Context, state *mat.VecDense) {
	worldWidth := cartpole.ObservationBounds()[0]
	scale := Width / worldWidth
	poleWidth := 10.0
	poleLen := scale * (2 * cartpole.HalfPoleLength)
	cartWidth, cartHeight := 50.0, 30.0
	cartY := Height - 100.0

	x, theta := state.AtVec(0), state.AtVec(2)
	cartX := x*scale + Width/2

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawLine(0, cartY, Width, cartY)
	dc.Stroke()

	dc.DrawRectangle(cartX-cartWidth/2, cartY-cartHeight/2, cartWidth,
		cartHeight)
	dc.Fill()

	axleY := cartY - cartHeight/4
	dc.Push()
	dc.RotateAbout(theta, cartX, axleY)
	dc.SetRGB(0.8, 0.6, 0.4)
	dc.DrawRectangle(cartX-poleWidth/2, axleY-poleLen, poleWidth, poleLen)
	dc.Fill()
	dc.Pop()

	dc.SetRGB(0.5, 0.5, 0.8)
	dc.DrawCircle(cartX, axleY, poleWidth/2)
	dc.Fill()
}

// mountainHeight returns the height of the valley at position x
func mountainHeight(x float64) float64 {
	return math.Sin(3*x)*0.45 + 0.55
}

// drawMountainCar draws the valley, the goal flag, and the car tilted
// along the slope
func drawMountainCar(dc *gg.Context, state *mat.VecDense) {
	const points = 100
	minX, maxX := mountaincar.MinPosition, mountaincar.MaxPosition
	scale := Width / (maxX - minX)
	toImage := func(x, y float64) (float64, float64) {
		return (x - minX) * scale, Height - y*scale
	}

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)
	for i := 0; i < points; i++ {
		x := minX + (maxX-minX)*float64(i)/(points-1)
		px, py := toImage(x, mountainHeight(x))
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	dc.Stroke()

	flagX, flagY := toImage(mountaincar.GoalPosition,
		mountainHeight(mountaincar.GoalPosition))
	dc.DrawLine(flagX, flagY, flagX, flagY-50)
	dc.Stroke()
	dc.SetRGB(0.8, 0.8, 0)
	dc.MoveTo(flagX, flagY-50)
	dc.LineTo(flagX+25, flagY-45)
	dc.LineTo(flagX, flagY-40)
	dc.ClosePath()
	dc.Fill()

	pos := state.AtVec(0)
	carX, carY := toImage(pos, mountainHeight(pos))
	carWidth, carHeight, clearance := 40.0, 20.0, 10.0
	dc.Push()
	dc.RotateAbout(-math.Atan(math.Cos(3*pos)*3*0.45), carX, carY)
	dc.SetRGB(0, 0, 0)
	dc.DrawRectangle(carX-carWidth/2, carY-clearance-carHeight, carWidth,
		carHeight)
	dc.Fill()
	dc.SetRGB(0.5, 0.5, 0.5)
	dc.DrawCircle(carX-carWidth/4, carY-clearance/2, clearance/2)
	dc.DrawCircle(carX+carWidth/4, carY-clearance/2, clearance/2)
	dc.Fill()
	dc.Pop()
}
