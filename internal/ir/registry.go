package ir

import (
	"sort"

	language "github.com/hanpama/supergraph/internal/language"
)

// TypeHandle addresses a ParentDefinition inside a Registry.
type TypeHandle int32

const InvalidHandle TypeHandle = -1

// Registry is an arena of named types with a single name index.
type Registry struct {
	defs  []*ParentDefinition
	index map[string]TypeHandle
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]TypeHandle)}
}

// Add stores def and returns its handle. A second definition with the same
// name replaces the first one under the same handle.
func (r *Registry) Add(def *ParentDefinition) TypeHandle {
	if h, ok := r.index[def.Name]; ok {
		r.defs[h] = def
		return h
	}
	h := TypeHandle(len(r.defs))
	r.defs = append(r.defs, def)
	r.index[def.Name] = h
	return h
}

func (r *Registry) Handle(name string) (TypeHandle, bool) {
	h, ok := r.index[name]
	return h, ok
}

func (r *Registry) Get(h TypeHandle) *ParentDefinition {
	if h < 0 || int(h) >= len(r.defs) {
		return nil
	}
	return r.defs[h]
}

// Lookup returns the definition named name, or nil.
func (r *Registry) Lookup(name string) *ParentDefinition {
	if h, ok := r.index[name]; ok {
		return r.defs[h]
	}
	return nil
}

func (r *Registry) Len() int { return len(r.defs) }

// Rename moves the definition stored under from to the name to.
func (r *Registry) Rename(from, to string) {
	h, ok := r.index[from]
	if !ok {
		return
	}
	delete(r.index, from)
	r.defs[h].Name = to
	r.index[to] = h
}

// Remove drops name from the index. The arena slot stays allocated so that
// outstanding handles keep pointing at the removed definition.
func (r *Registry) Remove(name string) {
	delete(r.index, name)
}

// Sorted returns all indexed definitions ordered by name.
func (r *Registry) Sorted() []*ParentDefinition {
	out := make([]*ParentDefinition, 0, len(r.index))
	for _, h := range r.index {
		out = append(out, r.defs[h])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Implementations returns the object types implementing iface, sorted by name.
func (r *Registry) Implementations(iface string) []*ParentDefinition {
	var out []*ParentDefinition
	for _, def := range r.Sorted() {
		if def.HasFields() && def.Implements(iface) {
			out = append(out, def)
		}
	}
	return out
}

// PossibleTypes returns the concrete object types an abstract type may resolve to.
func (r *Registry) PossibleTypes(def *ParentDefinition) []*ParentDefinition {
	switch {
	case def.Kind == language.Union:
		out := make([]*ParentDefinition, 0, len(def.Members))
		for _, m := range def.Members {
			if member := r.Lookup(m); member != nil {
				out = append(out, member)
			}
		}
		return out
	case def.Kind == language.Interface:
		var out []*ParentDefinition
		for _, impl := range r.Implementations(def.Name) {
			if impl.Kind == language.Object {
				out = append(out, impl)
			}
		}
		return out
	default:
		return []*ParentDefinition{def}
	}
}
