package environment

import "gonum.org/v1/gonum/mat"

// Display binds an optional Renderer to an environment. A nil Display
// or a Display without a Renderer does nothing.
type Display struct {
	renderer Renderer
	closed   bool
}

// NewDisplay returns a new Display for the Renderer r, which may be nil
func NewDisplay(r Renderer) *Display {
	return &Display{renderer: r}
}

// Render sends a copy of state to the Renderer. Render does nothing
// once the Display has been closed.
func (d *Display) Render(state *mat.VecDense) error {
	if d == nil || d.renderer == nil || d.closed {
		return nil
	}
	return d.renderer.Render(mat.VecDenseCopyOf(state))
}

// Close closes the Renderer. Only the first call has any effect.
func (d *Display) Close() error {
	if d == nil || d.closed {
		return nil
	}
	d.closed = true

	if d.renderer == nil {
		return nil
	}
	return d.renderer.Close()
}

// Bound returns whether a Renderer is bound to the Display
func (d *Display) Bound() bool {
	return d != nil && d.renderer != nil
}
