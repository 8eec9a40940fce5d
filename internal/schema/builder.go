package schema

import (
	"github.com/samber/lo"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

type builder struct {
	reg      *ir.Registry
	audience Audience
	// used records the persisted directives that need a definition.
	used map[ir.DirectiveKind]bool
}

// Build converts reg into a schema document for audience. Types are emitted
// in name order; fields, arguments and values keep their merged order.
func Build(reg *ir.Registry, audience Audience) *language.SchemaDocument {
	b := &builder{reg: reg, audience: audience, used: make(map[ir.DirectiveKind]bool)}
	doc := &language.SchemaDocument{}
	for _, def := range reg.Sorted() {
		if ir.IsBuiltinScalar(def.Name) || !b.visible(def.Inaccessible) {
			continue
		}
		doc.Definitions = append(doc.Definitions, b.buildDefinition(def))
	}
	for _, kind := range []ir.DirectiveKind{ir.DirectiveInaccessible, ir.DirectiveTag} {
		if b.used[kind] {
			doc.Directives = append(doc.Directives, ir.KnownDirectiveDefinition(kind))
		}
	}
	return doc
}

func (b *builder) visible(inaccessible bool) bool {
	return b.audience == Router || !inaccessible
}

// visibleType reports whether a reference to typeName survives in this audience.
func (b *builder) visibleType(t *ir.TypeExpr) bool {
	if b.audience == Router {
		return true
	}
	def := b.reg.Lookup(t.NamedTypeName())
	return def == nil || !def.Inaccessible
}

func (b *builder) buildDefinition(def *ir.ParentDefinition) *language.Definition {
	out := &language.Definition{
		Kind:        def.Kind,
		Name:        def.Name,
		Description: def.Description,
		Directives:  b.facets(def.Tags, def.Inaccessible, nil),
	}
	if def.SpecifiedByURL != "" {
		out.Directives = append(out.Directives, stringDirective("specifiedBy", "url", def.SpecifiedByURL))
	}
	switch def.Kind {
	case language.Object, language.Interface:
		out.Interfaces = lo.Filter(def.Interfaces, func(name string, _ int) bool {
			iface := b.reg.Lookup(name)
			return iface != nil && b.visible(iface.Inaccessible)
		})
		for _, f := range def.OrderedFields() {
			if !b.visible(f.Inaccessible) || !b.visibleType(f.Type) {
				continue
			}
			out.Fields = append(out.Fields, b.buildField(f))
		}
	case language.Union:
		out.Types = lo.Filter(def.Members, func(name string, _ int) bool {
			member := b.reg.Lookup(name)
			return member != nil && b.visible(member.Inaccessible)
		})
	case language.Enum:
		for _, v := range def.OrderedEnumValues() {
			if !b.visible(v.Inaccessible) {
				continue
			}
			out.EnumValues = append(out.EnumValues, &language.EnumValueDefinition{
				Name:        v.Name,
				Description: v.Description,
				Directives:  b.facets(v.Tags, v.Inaccessible, v.Deprecation),
			})
		}
	case language.InputObject:
		for _, v := range def.OrderedInputValues() {
			if !b.visible(v.Inaccessible) {
				continue
			}
			out.Fields = append(out.Fields, &language.FieldDefinition{
				Name:         v.Name,
				Description:  v.Description,
				Type:         v.Type.ToAST(),
				DefaultValue: v.DefaultValue,
				Directives:   b.facets(v.Tags, v.Inaccessible, v.Deprecation),
			})
		}
	}
	return out
}

func (b *builder) buildField(f *ir.FieldDefinition) *language.FieldDefinition {
	out := &language.FieldDefinition{
		Name:        f.Name,
		Description: f.Description,
		Type:        f.Type.ToAST(),
		Directives:  b.facets(f.Tags, f.Inaccessible, f.Deprecation),
	}
	for _, arg := range f.OrderedArgs() {
		if !b.visible(arg.Inaccessible) {
			continue
		}
		out.Arguments = append(out.Arguments, &language.ArgumentDefinition{
			Name:         arg.Name,
			Description:  arg.Description,
			Type:         arg.Type.ToAST(),
			DefaultValue: arg.DefaultValue,
			Directives:   b.facets(arg.Tags, arg.Inaccessible, arg.Deprecation),
		})
	}
	return out
}

// facets renders the persisted directives of a coordinate. The client
// schema keeps only @deprecated.
func (b *builder) facets(tags []string, inaccessible bool, deprecation *ir.Deprecation) language.DirectiveList {
	var out language.DirectiveList
	if b.audience == Router {
		for _, tag := range tags {
			b.used[ir.DirectiveTag] = true
			out = append(out, stringDirective("tag", "name", tag))
		}
		if inaccessible {
			b.used[ir.DirectiveInaccessible] = true
			out = append(out, &language.Directive{Name: "inaccessible"})
		}
	}
	if deprecation != nil {
		d := &language.Directive{Name: "deprecated"}
		if deprecation.Reason != "" && deprecation.Reason != ir.DefaultDeprecationReason {
			d = stringDirective("deprecated", "reason", deprecation.Reason)
		}
		out = append(out, d)
	}
	return out
}

func stringDirective(name, arg, value string) *language.Directive {
	return &language.Directive{
		Name: name,
		Arguments: language.ArgumentList{
			{Name: arg, Value: &language.Value{Kind: language.StringValue, Raw: value}},
		},
	}
}
