package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/orrery/internal/physics"
)

var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

// Integrator advances a single body by dt using the force already accumulated
// on it. Implementations must not read other bodies.
type Integrator interface {
	Name() string
	Step(b *physics.Body, dt float64)
}

var registry = map[string]func() Integrator{
	"symplectic": func() Integrator { return NewSymplecticEuler() },
	"euler":      func() Integrator { return NewEuler() },
}

// New returns the integrator registered under name.
func New(name string) (Integrator, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownIntegrator, name, Names())
	}
	return mk(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
