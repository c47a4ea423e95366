package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/hawkmoth/internal/dynamo"
)

// Runner produces one comparison from a parameter set.
type Runner func(Params) (*Comparison, error)

type Registry struct {
	models      map[string]func(Params) dynamo.Transition
	experiments map[Kind]Runner
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func(Params) dynamo.Transition),
		experiments: make(map[Kind]Runner),
	}

	r.models["reference"] = func(Params) dynamo.Transition { return dynamo.Reference{} }
	r.models["approximate"] = func(p Params) dynamo.Transition { return dynamo.Approximate{Epsilon: p.Epsilon} }

	r.experiments[Hawkmoth] = RunHawkmoth
	r.experiments[Butterfly] = RunButterfly

	return r
}

func (r *Registry) GetModel(name string, p Params) (dynamo.Transition, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(p), nil
}

func (r *Registry) GetExperiment(name string) (Runner, error) {
	fn, ok := r.experiments[Kind(name)]
	if !ok {
		return nil, fmt.Errorf("unknown experiment: %s", name)
	}
	return fn, nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListExperiments() []string {
	names := make([]string, 0, len(r.experiments))
	for kind := range r.experiments {
		names = append(names, string(kind))
	}
	sort.Strings(names)
	return names
}
