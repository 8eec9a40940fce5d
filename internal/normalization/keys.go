package normalization

import (
	"github.com/hanpama/supergraph/internal/fieldset"
	"github.com/hanpama/supergraph/internal/ir"
)

func (b *builder) resolveKeys() {
	for _, u := range b.usesOf(ir.DirectiveKey) {
		args := u.args.(keyArgs)
		def := u.site.parent
		res := fieldset.Validate(b.reg, def.Name, fieldset.ModeKey, args.fields)
		if !res.OK() {
			b.addFieldSetErrors(res, u)
			continue
		}
		def.IsEntity = true
		if hasKey(def, res.Normalized) {
			continue
		}
		key := &ir.KeyDefinition{
			Subgraph:              b.name,
			FieldSet:              res.Normalized,
			Resolvable:            args.resolvable,
			DisableEntityResolver: !args.resolvable,
			Key:                   res.Key,
		}
		def.Keys = append(def.Keys, key)
		b.keyPaths[key] = res.Paths
		for _, p := range res.Paths {
			b.keyFields[p.Last().String()] = true
		}
		// Entity extensions of the v1 model mark key fields @external even
		// though the subgraph resolves them.
		if b.entityModel == ir.EntityModelV1 && def.IsExtension {
			for _, p := range res.Paths {
				if len(p.Coordinates) == 1 {
					if f := def.Fields[p.Last().FieldName]; f != nil {
						f.External = false
					}
				}
			}
		}
	}
	for _, def := range b.reg.Sorted() {
		if def.IsInterfaceObject && !def.IsEntity {
			b.addError(ir.ViolationInterfaceObjectKey(def.Name).At(def.Position))
		}
	}
}

func hasKey(def *ir.ParentDefinition, fieldSet string) bool {
	for _, k := range def.Keys {
		if k.FieldSet == fieldSet {
			return true
		}
	}
	return false
}

func (b *builder) addFieldSetErrors(res *fieldset.Result, u *directiveUse) {
	for _, v := range res.Errors {
		b.addError(v.At(u.position))
	}
}

// resolveConditionalFields validates @provides and @requires and records the
// paths under which the selected fields become resolvable.
func (b *builder) resolveConditionalFields() {
	for _, kind := range []ir.DirectiveKind{ir.DirectiveProvides, ir.DirectiveRequires} {
		for _, u := range b.usesOf(kind) {
			b.resolveConditionalField(u, u.args.(fieldSetArgs))
		}
	}

	// A key that selects an external field only resolvable through
	// @provides cannot serve entity lookups.
	for _, def := range b.reg.Sorted() {
		for _, key := range def.Keys {
			for _, p := range b.keyPaths[key] {
				if !p.Leaf {
					continue
				}
				f := b.lookupField(p.Last())
				if f == nil || !f.External {
					continue
				}
				if cond := b.conditional[p.Last().String()]; cond != nil && len(cond.ProvidedBy) > 0 {
					key.Conditions = append(key.Conditions, cond.ProvidedBy...)
					key.DisableEntityResolver = true
				}
			}
		}
	}
}

func (b *builder) resolveConditionalField(u *directiveUse, args fieldSetArgs) {
	field, parent := u.site.field, u.site.parent
	mode, target := fieldset.ModeProvides, field.Type.NamedTypeName()
	if args.kind == ir.DirectiveRequires {
		mode, target = fieldset.ModeRequires, parent.Name
	}
	targetDef := b.reg.Lookup(target)
	if targetDef == nil {
		return
	}
	if !targetDef.IsComposite() {
		b.addError(ir.ViolationConditionalTarget(args.kind.String(), field.Coordinates(), target).At(u.position))
		return
	}
	res := fieldset.Validate(b.reg, target, mode, args.fields)
	if !res.OK() {
		b.addFieldSetErrors(res, u)
		return
	}

	cfg := &ir.RequiredFieldConfiguration{FieldName: field.Name, SelectionSet: res.Normalized}
	if args.kind == ir.DirectiveProvides {
		field.Provides = res.Normalized
		b.provides[parent.Name] = append(b.provides[parent.Name], cfg)
	} else {
		field.Requires = res.Normalized
		b.requires[parent.Name] = append(b.requires[parent.Name], cfg)
	}

	declaring := ir.FieldCoordinates{TypeName: parent.Name, FieldName: field.Name}
	for _, p := range res.Paths {
		if !p.Leaf {
			continue
		}
		last := p.Last()
		f := b.lookupField(last)
		if f == nil {
			continue
		}
		if !f.External {
			if b.keyFields[last.String()] {
				b.addConditional(ir.ViolationConditionalKeyField(args.kind.String(), declaring.String(), last.String()).At(u.position))
			} else {
				b.addConditional(ir.ViolationConditionalField(args.kind.String(), declaring.String(), last.String()).At(u.position))
			}
			continue
		}
		cond := &ir.FieldSetCondition{
			FieldCoordinatesPath: append([]ir.FieldCoordinates{declaring}, p.Coordinates...),
			FieldPath:            append([]string{field.Name}, p.FieldPath...),
		}
		data, ok := b.conditional[last.String()]
		if !ok {
			data = &ir.ConditionalFieldData{}
			b.conditional[last.String()] = data
		}
		if args.kind == ir.DirectiveProvides {
			data.ProvidedBy = append(data.ProvidedBy, cond)
		} else {
			data.RequiredBy = append(data.RequiredBy, cond)
		}
	}
}

func (b *builder) lookupField(c ir.FieldCoordinates) *ir.FieldDefinition {
	def := b.reg.Lookup(c.TypeName)
	if def == nil || !def.HasFields() {
		return nil
	}
	return def.Fields[c.FieldName]
}
