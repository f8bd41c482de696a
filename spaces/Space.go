// Package spaces implements the domains that actions and observations
// of an environment may take values in.
package spaces

// Space is a domain of values of type E. Spaces can sample values
// uniformly from their domain and test values for membership.
//
// Each Space owns its own random source, so two Spaces never share
// random state and a Space may be confined to a single goroutine
// without synchronisation.
type Space[E any] interface {
	Sample() E
	Contains(x E) bool
	Seed(seed uint64)
}
