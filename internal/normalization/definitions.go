package normalization

import (
	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

// federationInternalTypes are generated by subgraph frameworks and never part
// of the composed graph.
var federationInternalTypes = map[string]bool{
	"_Any":                 true,
	"_Entity":              true,
	"_Service":             true,
	"_FieldSet":            true,
	"link__Import":         true,
	"link__Purpose":        true,
	"federation__FieldSet": true,
	"federation__Scope":    true,
}

var federationInternalQueryFields = map[string]bool{
	"_entities": true,
	"_service":  true,
}

func (b *builder) skipType(name string) bool {
	return federationInternalTypes[name] || ir.IsSupportTypeName(name) || ir.IsBuiltinScalar(name)
}

func rootTypeName(op language.Operation) string {
	switch op {
	case language.Mutation:
		return ir.MutationTypeName
	case language.Subscription:
		return ir.SubscriptionTypeName
	default:
		return ir.QueryTypeName
	}
}

func (b *builder) collectOperationTypes() {
	for _, list := range [][]*language.SchemaDefinition{b.doc.Schema, b.doc.SchemaExtension} {
		for _, schema := range list {
			for _, ot := range schema.OperationTypes {
				canonical := rootTypeName(ot.Operation)
				b.operationTypes[canonical] = ot.Type
				if ot.Type != canonical {
					b.renames[ot.Type] = canonical
				}
			}
		}
	}
}

// detectEntityModel switches to the v2 entity model when the document links
// the federation v2 specification or uses a directive only v2 defines.
func (b *builder) detectEntityModel() {
	v2 := func(dirs language.DirectiveList) bool {
		for _, d := range dirs {
			kind := ir.DirectiveKindOf(d.Name)
			if kind.IsVersionTwo() {
				return true
			}
			if kind == ir.DirectiveLink {
				if args, problem := decodeArguments(kind, d); problem == nil && ir.IsFederationV2Link(args.(linkArgs).url) {
					return true
				}
			}
		}
		return false
	}
	found := false
	for _, list := range [][]*language.SchemaDefinition{b.doc.Schema, b.doc.SchemaExtension} {
		for _, schema := range list {
			found = found || v2(schema.Directives)
		}
	}
	for _, list := range []language.DefinitionList{b.doc.Definitions, b.doc.Extensions} {
		for _, node := range list {
			found = found || v2(node.Directives)
			for _, f := range node.Fields {
				found = found || v2(f.Directives)
				for _, arg := range f.Arguments {
					found = found || v2(arg.Directives)
				}
			}
			for _, ev := range node.EnumValues {
				found = found || v2(ev.Directives)
			}
		}
	}
	if found {
		b.entityModel = ir.EntityModelV2
	}
}

func (b *builder) collectDirectiveDefinitions() {
	seen := make(map[string]bool)
	for _, d := range b.doc.Directives {
		if seen[d.Name] {
			b.addError(ir.ViolationDuplicateDirective(d.Name).At(d.Position))
			continue
		}
		seen[d.Name] = true
		if ir.DirectiveKindOf(d.Name) != ir.DirectiveUnknown {
			// Known directives always use the built-in definition.
			continue
		}
		if ir.IsReservedName(d.Name) {
			b.addError(ir.ViolationReservedPrefix("Directive", d.Name).At(d.Position))
			continue
		}
		b.customDirectives[d.Name] = d
	}
}

func (b *builder) collectDefinitions() {
	for _, name := range []string{ir.StringScalar, ir.IntScalar, ir.FloatScalar, ir.BooleanScalar, ir.IDScalar} {
		b.reg.Add(&ir.ParentDefinition{Name: name, Kind: language.Scalar})
	}

	for _, node := range b.doc.Definitions {
		name := b.canonicalName(node.Name)
		if b.skipType(name) {
			continue
		}
		if ir.IsReservedName(name) {
			b.addError(ir.ViolationReservedPrefix("Type", name).At(node.Position))
			continue
		}
		if b.reg.Lookup(name) != nil {
			b.addError(ir.ViolationDuplicateType(name).At(node.Position))
			continue
		}
		def := newParentDefinition(name, node, b.name)
		b.reg.Add(def)
		b.nodes[name] = append(b.nodes[name], node)
		b.populate(def, node)
	}
}

func (b *builder) collectExtensions() {
	for _, node := range b.doc.Extensions {
		name := b.canonicalName(node.Name)
		if b.skipType(name) {
			continue
		}
		def := b.reg.Lookup(name)
		if def == nil {
			if !ir.IsRootType(name) && !hasAnyDirective(node.Directives, ir.DirectiveExtends, ir.DirectiveKey) {
				b.addError(ir.ViolationExtensionWithoutBase(string(node.Kind), name).At(node.Position))
				continue
			}
			def = newParentDefinition(name, node, b.name)
			def.IsExtension = true
			def.IsExtensionOrphan = true
			b.reg.Add(def)
		} else if def.Kind != node.Kind {
			b.addError(ir.ViolationExtensionKind(name, string(def.Kind), string(node.Kind)).At(node.Position))
			continue
		}
		b.nodes[name] = append(b.nodes[name], node)
		b.populate(def, node)
	}
}

func newParentDefinition(name string, node *language.Definition, subgraph string) *ir.ParentDefinition {
	def := &ir.ParentDefinition{
		Name:        name,
		Kind:        node.Kind,
		Description: node.Description,
		Subgraphs:   []string{subgraph},
		Position:    node.Position,
	}
	switch node.Kind {
	case language.Object, language.Interface:
		def.Fields = make(map[string]*ir.FieldDefinition)
	case language.InputObject:
		def.InputValues = make(map[string]*ir.InputValueDefinition)
	case language.Enum:
		def.EnumValues = make(map[string]*ir.EnumValueDefinition)
	}
	return def
}

func hasAnyDirective(dirs language.DirectiveList, kinds ...ir.DirectiveKind) bool {
	for _, d := range dirs {
		k := ir.DirectiveKindOf(d.Name)
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
	}
	return false
}

// populate merges the members declared by node into def.
func (b *builder) populate(def *ir.ParentDefinition, node *language.Definition) {
	switch node.Kind {
	case language.Object, language.Interface:
		for _, iface := range node.Interfaces {
			iface = b.canonicalName(iface)
			if def.Implements(iface) {
				b.addError(ir.ViolationDuplicateInterface(def.Name, iface).At(node.Position))
				continue
			}
			def.Interfaces = append(def.Interfaces, iface)
		}
		for _, f := range node.Fields {
			b.populateField(def, f)
		}
	case language.InputObject:
		for _, f := range node.Fields {
			if def.InputValues[f.Name] != nil {
				b.addError(ir.ViolationDuplicateFieldDef(string(def.Kind), def.Name, f.Name).At(f.Position))
				continue
			}
			def.InputValues[f.Name] = &ir.InputValueDefinition{
				Name:         f.Name,
				Description:  f.Description,
				Index:        len(def.InputValues),
				Type:         b.typeExpr(f.Type),
				DefaultValue: f.DefaultValue,
				Subgraphs:    []string{b.name},
				Position:     f.Position,
			}
		}
	case language.Enum:
		for _, ev := range node.EnumValues {
			if def.EnumValues[ev.Name] != nil {
				b.addError(ir.ViolationDuplicateEnumValueDef(def.Name, ev.Name).At(ev.Position))
				continue
			}
			def.EnumValues[ev.Name] = &ir.EnumValueDefinition{
				Name:        ev.Name,
				Description: ev.Description,
				Index:       len(def.EnumValues),
				Subgraphs:   []string{b.name},
				Position:    ev.Position,
			}
		}
	case language.Union:
		for _, member := range node.Types {
			member = b.canonicalName(member)
			if def.HasMember(member) {
				b.addError(ir.ViolationDuplicateMember(def.Name, member).At(node.Position))
				continue
			}
			def.Members = append(def.Members, member)
		}
	}
}

func (b *builder) populateField(def *ir.ParentDefinition, f *language.FieldDefinition) {
	if def.Name == ir.QueryTypeName && federationInternalQueryFields[f.Name] {
		return
	}
	if ir.IsReservedName(f.Name) {
		b.addError(ir.ViolationReservedPrefix("Field", f.Name).At(f.Position))
		return
	}
	if def.Fields[f.Name] != nil {
		b.addError(ir.ViolationDuplicateFieldDef(string(def.Kind), def.Name, f.Name).At(f.Position))
		return
	}
	fd := &ir.FieldDefinition{
		Name:        f.Name,
		ParentName:  def.Name,
		Description: f.Description,
		Index:       len(def.Fields),
		Type:        b.typeExpr(f.Type),
		Args:        make(map[string]*ir.InputValueDefinition, len(f.Arguments)),
		Subgraphs:   []string{b.name},
		ResolvedBy:  []string{b.name},
		Position:    f.Position,
	}
	for _, arg := range f.Arguments {
		if fd.Args[arg.Name] != nil {
			b.addError(ir.ViolationDuplicateArgument(fd.Coordinates(), arg.Name).At(arg.Position))
			continue
		}
		fd.Args[arg.Name] = &ir.InputValueDefinition{
			Name:         arg.Name,
			Description:  arg.Description,
			Index:        len(fd.Args),
			Type:         b.typeExpr(arg.Type),
			DefaultValue: arg.DefaultValue,
			Subgraphs:    []string{b.name},
			Position:     arg.Position,
		}
	}
	def.Fields[f.Name] = fd
	b.fieldNodes[fd.Coordinates()] = f
}
