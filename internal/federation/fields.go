package federation

import (
	"github.com/samber/lo"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
	"github.com/hanpama/supergraph/internal/typemerge"
)

// fieldInstance is one subgraph's definition of a field.
type fieldInstance struct {
	subgraph string
	parent   *ir.ParentDefinition
	field    *ir.FieldDefinition
}

func (m *merger) mergeFields(def *ir.ParentDefinition) {
	byName := make(map[string][]fieldInstance)
	var order []string
	for _, in := range m.instances[def.Name] {
		for _, f := range in.def.OrderedFields() {
			if _, ok := byName[f.Name]; !ok {
				order = append(order, f.Name)
			}
			byName[f.Name] = append(byName[f.Name], fieldInstance{subgraph: in.subgraph.Name, parent: in.def, field: f})
		}
	}
	for _, name := range order {
		def.Fields[name] = m.mergeField(def, name, byName[name])
	}
}

func (m *merger) mergeField(def *ir.ParentDefinition, name string, fis []fieldInstance) *ir.FieldDefinition {
	coords := ir.Coordinates(def.Name, name)
	merged := &ir.FieldDefinition{
		Name:       name,
		ParentName: def.Name,
		Index:      len(def.Fields),
		Type:       m.mergeOutputType(coords, fis),
		Args:       m.mergeArguments(coords, fis),
	}
	for _, fi := range fis {
		f := fi.field
		merged.Subgraphs = append(merged.Subgraphs, fi.subgraph)
		if merged.Description == "" {
			merged.Description = f.Description
		}
		if merged.Position == nil {
			merged.Position = f.Position
		}
		if merged.Deprecation == nil {
			merged.Deprecation = f.Deprecation
		}
		merged.Tags = lo.Union(merged.Tags, f.Tags)
		merged.Inaccessible = merged.Inaccessible || f.Inaccessible
	}
	if def.Kind == language.Object {
		m.resolveField(coords, merged, fis)
	} else {
		for _, fi := range fis {
			merged.ResolvedBy = lo.Union(merged.ResolvedBy, fi.field.ResolvedBy)
		}
		merged.External = len(merged.ResolvedBy) == 0
		merged.Shareable = lo.EveryBy(fis, func(fi fieldInstance) bool { return fi.field.Shareable })
	}
	return merged
}

// resolveField decides which subgraphs resolve an object field. It applies
// @override and checks that fields resolved by several subgraphs are
// shareable in all of them.
func (m *merger) resolveField(coords string, merged *ir.FieldDefinition, fis []fieldInstance) {
	overrides := lo.Filter(fis, func(fi fieldInstance, _ int) bool { return fi.field.Override != "" })
	if len(overrides) > 1 {
		m.addError(ir.ViolationOverrideDuplicate(coords, lo.Map(overrides, func(fi fieldInstance, _ int) string { return fi.subgraph })).At(merged.Position))
	}
	away := make(map[string]bool)
	for _, o := range overrides {
		from := o.field.Override
		if !lo.ContainsBy(fis, func(fi fieldInstance) bool { return fi.subgraph == from }) {
			m.addWarning(ir.ViolationOverrideUnknown(coords, from).In(o.subgraph).At(o.field.Position))
			continue
		}
		if !away[from] {
			away[from] = true
			m.overridden[coords] = append(m.overridden[coords], from)
		}
		merged.Override = from
	}

	if lo.EveryBy(fis, func(fi fieldInstance) bool { return fi.field.External }) {
		m.addError(ir.ViolationAllExternal(coords, lo.Map(fis, func(fi fieldInstance, _ int) string { return fi.subgraph })).At(merged.Position))
	}

	resolving := lo.Filter(fis, func(fi fieldInstance, _ int) bool { return !fi.field.External && !away[fi.subgraph] })
	shareable := lo.EveryBy(resolving, func(fi fieldInstance) bool { return fi.field.Shareable || isKeyField(fi.parent, fi.field.Name) })
	if len(resolving) > 1 && !shareable {
		m.addError(ir.ViolationShareability(coords, lo.Map(resolving, func(fi fieldInstance, _ int) string { return fi.subgraph })).At(merged.Position))
	}
	merged.ResolvedBy = lo.Map(resolving, func(fi fieldInstance, _ int) string { return fi.subgraph })
	merged.External = len(resolving) == 0
	merged.Shareable = len(resolving) > 1 || (len(resolving) == 1 && shareable)
}

// isKeyField reports whether name is selected at the top level of a key of
// def. Key fields may be resolved by every subgraph defining the entity.
func isKeyField(def *ir.ParentDefinition, name string) bool {
	for _, k := range def.Keys {
		if k.Key != nil && lo.Contains(k.Key.Siblings, name) {
			return true
		}
	}
	return false
}

func (m *merger) mergeOutputType(coords string, fis []fieldInstance) *ir.TypeExpr {
	types := make([]*ir.TypeExpr, len(fis))
	for i, fi := range fis {
		t := fi.field.Type
		if t.Depth() > m.opts.maxDepth {
			m.addError(ir.ViolationNestingDepth(coords, m.opts.maxDepth).At(fi.field.Position))
			return ir.NamedType(t.NamedTypeName())
		}
		types[i] = t
	}
	types, ok := m.coerceAbstract(coords, fis, types)
	if !ok {
		return types[0]
	}
	merged := types[0]
	for i := 1; i < len(types); i++ {
		res := typemerge.MostRestrictiveWithDepth(merged, types[i], m.opts.maxDepth)
		switch {
		case res.Mismatch != nil:
			m.addError(ir.ViolationChildType(coords, res.Mismatch.Existing, fis[0].subgraph, res.Mismatch.Incoming, fis[i].subgraph).At(fis[i].field.Position))
			return merged
		case res.DepthExceeded:
			m.addError(ir.ViolationNestingDepth(coords, m.opts.maxDepth).At(fis[i].field.Position))
			return res.Type
		}
		merged = res.Type
	}
	return merged
}

// coerceAbstract rewrites concrete response types to the abstract type that
// other subgraphs declare for the same field. The coercion only applies when
// exactly one concrete candidate exists.
func (m *merger) coerceAbstract(coords string, fis []fieldInstance, types []*ir.TypeExpr) ([]*ir.TypeExpr, bool) {
	names := lo.Uniq(lo.Map(types, func(t *ir.TypeExpr, _ int) string { return t.NamedTypeName() }))
	if len(names) == 1 {
		return types, true
	}
	var abstract *ir.ParentDefinition
	var concrete []string
	for _, name := range names {
		def := m.reg.Lookup(name)
		switch {
		case def == nil:
			return types, true
		case def.IsAbstract():
			if abstract != nil {
				return types, true
			}
			abstract = def
		default:
			concrete = append(concrete, name)
		}
	}
	if abstract == nil || !lo.EveryBy(concrete, func(name string) bool { return m.isPossibleType(abstract, name) }) {
		return types, true
	}
	if len(concrete) > 1 {
		var subgraphs []string
		for i, t := range types {
			if lo.Contains(concrete, t.NamedTypeName()) {
				subgraphs = append(subgraphs, fis[i].subgraph)
			}
		}
		m.addError(ir.ViolationAmbiguousCoercion(coords, abstract.Name, concrete, subgraphs).At(fis[0].field.Position))
		return types, false
	}
	out := make([]*ir.TypeExpr, len(types))
	for i, t := range types {
		out[i] = withNamedType(t, abstract.Name)
	}
	return out, true
}

func (m *merger) isPossibleType(abstract *ir.ParentDefinition, name string) bool {
	if abstract.Kind == language.Union {
		return abstract.HasMember(name)
	}
	def := m.reg.Lookup(name)
	return def != nil && def.HasFields() && def.Implements(abstract.Name)
}

// withNamedType copies t with its named type replaced.
func withNamedType(t *ir.TypeExpr, name string) *ir.TypeExpr {
	switch t.Kind {
	case ir.TypeExprKindNonNull:
		return ir.NonNullType(withNamedType(t.OfType, name))
	case ir.TypeExprKindList:
		return ir.ListType(withNamedType(t.OfType, name))
	default:
		return ir.NamedType(name)
	}
}
