// Package render holds the renderers that visualise classic control
// environments. Renderers implement environment.Renderer and are bound
// to an environment with its WithRenderer option. The environments
// never depend on any renderer being present.
//
// Subpackage ascii draws states as text to an io.Writer, subpackage
// frames draws each state to a PNG file.
package render

import "errors"

// ErrClosed is returned when a closed renderer is asked to render
var ErrClosed = errors.New("renderer closed")
