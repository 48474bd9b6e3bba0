package taal

import (
	"fmt"
	"slices"
	"sync"
)

// Registry is an immutable, ordered table of taal definitions. It is safe
// for concurrent use.
type Registry struct {
	defs  []Definition
	index map[Name]int
}

// NewRegistry validates defs and builds a registry that iterates in the
// given order.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		defs:  make([]Definition, 0, len(defs)),
		index: make(map[Name]int, len(defs)),
	}

	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.index[d.Name]; dup {
			return nil, fmt.Errorf("duplicate taal definition %q", d.Name)
		}
		r.index[d.Name] = len(r.defs)
		r.defs = append(r.defs, d.clone())
	}

	return r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(BuiltinDefinitions()...)
	if err != nil {
		panic(fmt.Sprintf("taal: builtin definitions invalid: %v", err))
	}
	return r
})

// DefaultRegistry returns the shared registry of builtin taals.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Len returns the number of registered taals.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Get looks up a definition by exact name.
func (r *Registry) Get(name Name) (Definition, bool) {
	i, ok := r.index[name]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i].clone(), true
}

// All returns every definition in registry order.
func (r *Registry) All() []Definition {
	out := make([]Definition, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.clone()
	}
	return out
}

// Names returns the registered names in registry order.
func (r *Registry) Names() []Name {
	names := make([]Name, len(r.defs))
	for i, d := range r.defs {
		names[i] = d.Name
	}
	return names
}

// ByMatras returns every definition whose cycle is matras long, in
// registry order.
func (r *Registry) ByMatras(matras int) []Definition {
	var out []Definition
	for _, d := range r.defs {
		if d.Matras == matras {
			out = append(out, d.clone())
		}
	}
	return out
}

// CandidateMatraCounts returns the sorted distinct cycle lengths. Beat
// detectors use it to constrain their bar-length hypotheses.
func (r *Registry) CandidateMatraCounts() []int {
	counts := make([]int, 0, len(r.defs))
	for _, d := range r.defs {
		counts = append(counts, d.Matras)
	}
	slices.Sort(counts)
	return slices.Compact(counts)
}

// Closest returns the definition whose matras is numerically nearest to
// cycleLength. Ties go to the earlier registry entry. ok is false only for
// an empty registry.
func (r *Registry) Closest(cycleLength int) (Definition, bool) {
	if len(r.defs) == 0 {
		return Definition{}, false
	}

	best := 0
	bestDist := absInt(r.defs[0].Matras - cycleLength)
	for i := 1; i < len(r.defs); i++ {
		if dist := absInt(r.defs[i].Matras - cycleLength); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return r.defs[best].clone(), true
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
