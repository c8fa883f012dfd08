package stopping

import (
	"fmt"
	"sort"
)

const (
	DefaultConstantRate            = 0.01 // MeV/µm
	DefaultProportionalCoefficient = 0.03 // MeV per mg/cm², ~15 MeV protons in CH
)

type Registry struct {
	models map[string]func() Model
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]func() Model),
	}

	r.Register("plasma", func() Model { return Plasma{Method: "rk45"} })
	r.Register("plasma-rk4", func() Model { return Plasma{Method: "rk4"} })
	r.Register("constant", func() Model { return Constant{Rate: DefaultConstantRate} })
	r.Register("proportional", func() Model { return Proportional{Coefficient: DefaultProportionalCoefficient} })

	return r
}

// Register adds or replaces a model constructor.
func (r *Registry) Register(name string, fn func() Model) {
	r.models[name] = fn
}

func (r *Registry) Get(name string) (Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return fn(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var builtin = NewRegistry()

// Lookup resolves name against the built-in models.
func Lookup(name string) (Model, error) {
	return builtin.Get(name)
}

// Names lists the built-in models.
func Names() []string {
	return builtin.List()
}
