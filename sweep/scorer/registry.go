package scorer

import (
	"golang.org/x/exp/maps"

	"github.com/aslpavel/sweep-go/sweep/xerr"
)

// Registry maps a scorer name to the scorer it builds, resolved by RPC's
// scorer_set and the --scorer CLI flag. Names are exactly "fuzzy" and
// "substr"; anything else is InvalidArgument.
type Registry struct {
	builders map[string]func() Scorer
}

func NewRegistry() *Registry {
	return &Registry{builders: map[string]func() Scorer{
		"fuzzy":  func() Scorer { return NewFuzzyScorer() },
		"substr": func() Scorer { return NewSubstrScorer() },
	}}
}

func (r *Registry) Names() []string {
	return maps.Keys(r.builders)
}

func (r *Registry) Build(name string) (Scorer, error) {
	build, ok := r.builders[name]
	if !ok {
		return nil, xerr.Newf(xerr.InvalidArgument, "unknown scorer %q", name)
	}
	return build(), nil
}
