package environment

import (
	"fmt"

	"github.com/rlworld/classic/spaces"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an action or an observation
type SpecType string

const (
	Action      SpecType = "Action"
	Observation SpecType = "Observation"
	Reward      SpecType = "Reward"
)

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an environment specification, which tells the type,
// shape, and bounds of an action or observation in an environment.
// Specs are JSON serializable.
type Spec struct {
	Type        SpecType    `json:"type"`
	Cardinality Cardinality `json:"cardinality"`
	Shape       int         `json:"shape"`
	LowerBound  []float64   `json:"lower_bound"`
	UpperBound  []float64   `json:"upper_bound"`
}

// NewSpec constructs a new environment specification
// The shape argument outlines the number of dimensions of the data
// described by the specification. The argument t outlines what the
// specification is describing (e.g. actions or observations). The
// cardinality arguments describes whether the values that the spec
// describes are continuous or discrete.
func NewSpec(shape int, t SpecType, lowerBound, upperBound []float64,
	cardinality Cardinality) Spec {
	if shape != len(lowerBound) {
		panic(fmt.Sprintf("shape %v must match lower bounds length %v",
			shape, len(lowerBound)))
	}
	if shape != len(upperBound) {
		panic(fmt.Sprintf("shape %v must match upper bounds length %v",
			shape, len(upperBound)))
	}
	return Spec{t, cardinality, shape, lowerBound, upperBound}
}

// SpecOf returns the specification of a Space. Only the Space types in
// package spaces are supported.
func SpecOf[E any](t SpecType, space spaces.Space[E]) (Spec, error) {
	switch s := any(space).(type) {
	case *spaces.Discrete:
		return NewSpec(1, t, []float64{0}, []float64{float64(s.N() - 1)},
			Discrete), nil

	case *spaces.Box:
		return NewSpec(s.Shape(), t, s.Low().RawVector().Data,
			s.High().RawVector().Data, Continuous), nil
	}

	return Spec{}, fmt.Errorf("specOf: unsupported space type %T", space)
}

// EnvSpec describes the action and observation layout of a named
// environment
type EnvSpec struct {
	Name        string `json:"name"`
	Action      Spec   `json:"action"`
	Observation Spec   `json:"observation"`
	Reward      *Spec  `json:"reward,omitempty"`
}

// RewardSpec returns the specification of the rewards of a Task
func RewardSpec[A any](t Task[A]) Spec {
	return NewSpec(1, Reward, []float64{t.Min()}, []float64{t.Max()},
		Continuous)
}

// RewardSpecer is implemented by environments that can describe the
// range of rewards their task gives
type RewardSpecer interface {
	RewardSpec() Spec
}

// Describe returns the specification of an environment. The reward
// specification is only filled in if e is a RewardSpecer.
func Describe[O, A any](name string, e Env[O, A]) (EnvSpec, error) {
	action, err := SpecOf(Action, e.ActionSpace())
	if err != nil {
		return EnvSpec{}, fmt.Errorf("describe %v: %w", name, err)
	}

	obs, err := SpecOf(Observation, e.ObservationSpace())
	if err != nil {
		return EnvSpec{}, fmt.Errorf("describe %v: %w", name, err)
	}

	spec := EnvSpec{Name: name, Action: action, Observation: obs}
	if r, ok := any(e).(RewardSpecer); ok {
		reward := r.RewardSpec()
		spec.Reward = &reward
	}
	return spec, nil
}
