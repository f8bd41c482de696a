package environment

import (
	"gonum.org/v1/gonum/mat"

	ts "github.com/rlworld/classic/timestep"
)

// FunctionEnder ends an episode whenever a function of the observation
// vector returns true.
type FunctionEnder struct {
	end     func(*mat.VecDense) bool
	endType ts.EndType
}

// NewFunctionEnder returns a new FunctionEnder which ends episodes with
// end type endType when f returns true.
func NewFunctionEnder(f func(*mat.VecDense) bool,
	endType ts.EndType) *FunctionEnder {
	return &FunctionEnder{f, endType}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended, End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is the appropriate ending
// type.
func (f *FunctionEnder) End(t *ts.TimeStep[*mat.VecDense]) bool {
	if f.end(t.Observation) {
		t.End(f.endType)
		return true
	}
	return false
}
