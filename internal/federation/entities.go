package federation

import (
	"github.com/samber/lo"

	"github.com/hanpama/supergraph/internal/fieldset"
	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

// mergeKeys collects the keys of every entity. A subgraph that resolves all
// fields of a key declared elsewhere receives that key as an implicit one:
// it can leave the entity through the key but cannot be entered by it.
func (m *merger) mergeKeys() {
	for _, def := range m.reg.Sorted() {
		if !def.HasFields() || !def.IsEntity {
			continue
		}
		insts := m.instances[def.Name]
		var fieldSets []string
		for _, in := range insts {
			for _, k := range in.def.Keys {
				def.Keys = append(def.Keys, k)
				fieldSets = lo.Union(fieldSets, []string{k.FieldSet})
			}
		}
		for _, in := range insts {
			if in.def.IsInterfaceObject {
				continue
			}
			for _, fs := range fieldSets {
				if lo.ContainsBy(in.def.Keys, func(k *ir.KeyDefinition) bool { return k.FieldSet == fs }) {
					continue
				}
				key := implicitKey(in, fs)
				if key == nil {
					continue
				}
				def.Keys = append(def.Keys, key)
				byType, ok := m.implicitKeys[in.subgraph.Name]
				if !ok {
					byType = make(map[string][]*ir.KeyDefinition)
					m.implicitKeys[in.subgraph.Name] = byType
				}
				byType[def.Name] = append(byType[def.Name], key)
			}
		}
	}
}

// implicitKey returns the key fieldSet for in when its subgraph resolves
// every selected field, or nil.
func implicitKey(in instance, fieldSet string) *ir.KeyDefinition {
	res := fieldset.Validate(in.subgraph.Registry, in.def.Name, fieldset.ModeKey, fieldSet)
	if !res.OK() {
		return nil
	}
	for _, p := range res.Paths {
		last := p.Last()
		parent := in.subgraph.Registry.Lookup(last.TypeName)
		if parent == nil || parent.Fields[last.FieldName] == nil || parent.Fields[last.FieldName].External {
			return nil
		}
	}
	return &ir.KeyDefinition{
		Subgraph:              in.subgraph.Name,
		FieldSet:              res.Normalized,
		DisableEntityResolver: true,
		Key:                   res.Key,
	}
}

// propagateInterfaceObjects lets a subgraph that defines an entity interface
// as @interfaceObject resolve its fields on every implementation, entering
// them through the interface keys.
func (m *merger) propagateInterfaceObjects() {
	for _, iface := range m.reg.Sorted() {
		if iface.Kind != language.Interface {
			continue
		}
		for _, in := range m.instances[iface.Name] {
			if !in.def.IsInterfaceObject {
				continue
			}
			name := in.subgraph.Name
			for _, impl := range m.reg.Implementations(iface.Name) {
				if impl.Kind != language.Object {
					continue
				}
				impl.Subgraphs = lo.Union(impl.Subgraphs, []string{name})
				for _, f := range in.def.OrderedFields() {
					if f.External {
						continue
					}
					target, ok := impl.Fields[f.Name]
					if !ok {
						merged := iface.Fields[f.Name]
						target = &ir.FieldDefinition{
							Name:         f.Name,
							ParentName:   impl.Name,
							Description:  merged.Description,
							Index:        len(impl.Fields),
							Type:         merged.Type,
							Args:         merged.Args,
							Tags:         merged.Tags,
							Inaccessible: merged.Inaccessible,
							Deprecation:  merged.Deprecation,
							Position:     merged.Position,
						}
						impl.Fields[f.Name] = target
					}
					target.Subgraphs = lo.Union(target.Subgraphs, []string{name})
					target.ResolvedBy = lo.Union(target.ResolvedBy, []string{name})
					target.External = false
				}
				for _, k := range in.def.Keys {
					impl.IsEntity = true
					impl.Keys = append(impl.Keys, k)
				}
			}
		}
	}
}
