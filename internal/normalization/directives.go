package normalization

import (
	"sort"

	"github.com/samber/lo"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

// directiveSite is one place a directive can be applied to.
type directiveSite struct {
	location  language.DirectiveLocation
	coords    string
	node      *language.Definition
	parent    *ir.ParentDefinition
	field     *ir.FieldDefinition
	value     *ir.InputValueDefinition
	enumValue *ir.EnumValueDefinition
}

// directiveUse is a decoded known directive.
type directiveUse struct {
	site     *directiveSite
	kind     ir.DirectiveKind
	args     directiveArgs
	position *language.Position
}

// directiveArgs is the typed argument set of one directive kind.
type directiveArgs interface {
	directiveKind() ir.DirectiveKind
}

// flagArgs covers directives without arguments.
type flagArgs struct{ kind ir.DirectiveKind }

type keyArgs struct {
	fields     string
	resolvable bool
}

// fieldSetArgs covers @provides and @requires.
type fieldSetArgs struct {
	kind   ir.DirectiveKind
	fields string
}

type overrideArgs struct{ from string }

type tagArgs struct{ name string }

type deprecatedArgs struct{ reason string }

type specifiedByArgs struct{ url string }

type scopesArgs struct{ scopes [][]string }

type linkArgs struct{ url string }

type eventArgs struct {
	kind   ir.DirectiveKind
	config ir.EventConfiguration
}

type subscriptionFilterArgs struct{ condition *language.Value }

func (a flagArgs) directiveKind() ir.DirectiveKind             { return a.kind }
func (keyArgs) directiveKind() ir.DirectiveKind                { return ir.DirectiveKey }
func (a fieldSetArgs) directiveKind() ir.DirectiveKind         { return a.kind }
func (overrideArgs) directiveKind() ir.DirectiveKind           { return ir.DirectiveOverride }
func (tagArgs) directiveKind() ir.DirectiveKind                { return ir.DirectiveTag }
func (deprecatedArgs) directiveKind() ir.DirectiveKind         { return ir.DirectiveDeprecated }
func (specifiedByArgs) directiveKind() ir.DirectiveKind        { return ir.DirectiveSpecifiedBy }
func (scopesArgs) directiveKind() ir.DirectiveKind             { return ir.DirectiveRequiresScopes }
func (linkArgs) directiveKind() ir.DirectiveKind               { return ir.DirectiveLink }
func (a eventArgs) directiveKind() ir.DirectiveKind            { return a.kind }
func (subscriptionFilterArgs) directiveKind() ir.DirectiveKind { return ir.DirectiveSubscriptionFilter }

var definitionLocations = map[language.DefinitionKind]language.DirectiveLocation{
	language.Object:      language.LocationObject,
	language.Interface:   language.LocationInterface,
	language.Union:       language.LocationUnion,
	language.Scalar:      language.LocationScalar,
	language.Enum:        language.LocationEnum,
	language.InputObject: language.LocationInputObject,
}

// decodeDirectives validates every directive use of the document and decodes
// the known ones into typed arguments.
func (b *builder) decodeDirectives() {
	for _, list := range [][]*language.SchemaDefinition{b.doc.Schema, b.doc.SchemaExtension} {
		for _, schema := range list {
			b.decodeSite(&directiveSite{location: language.LocationSchema, coords: "schema"}, schema.Directives)
		}
	}

	for _, def := range b.reg.Sorted() {
		for _, node := range b.nodes[def.Name] {
			b.decodeSite(&directiveSite{
				location: definitionLocations[def.Kind],
				coords:   def.Name,
				node:     node,
				parent:   def,
			}, node.Directives)

			switch def.Kind {
			case language.Object, language.Interface:
				for _, f := range node.Fields {
					fd := def.Fields[f.Name]
					if fd == nil || b.fieldNodes[fd.Coordinates()] != f {
						continue
					}
					b.decodeSite(&directiveSite{
						location: language.LocationFieldDefinition,
						coords:   fd.Coordinates(),
						node:     node,
						parent:   def,
						field:    fd,
					}, f.Directives)
					for _, arg := range f.Arguments {
						if v := fd.Args[arg.Name]; v != nil && v.Position == arg.Position {
							b.decodeSite(&directiveSite{
								location: language.LocationArgumentDefinition,
								coords:   fd.Coordinates() + "(" + arg.Name + ":)",
								node:     node,
								parent:   def,
								field:    fd,
								value:    v,
							}, arg.Directives)
						}
					}
				}
			case language.InputObject:
				for _, f := range node.Fields {
					if v := def.InputValues[f.Name]; v != nil && v.Position == f.Position {
						b.decodeSite(&directiveSite{
							location: language.LocationInputFieldDefinition,
							coords:   ir.Coordinates(def.Name, f.Name),
							node:     node,
							parent:   def,
							value:    v,
						}, f.Directives)
					}
				}
			case language.Enum:
				for _, ev := range node.EnumValues {
					if v := def.EnumValues[ev.Name]; v != nil && v.Position == ev.Position {
						b.decodeSite(&directiveSite{
							location:  language.LocationEnumValue,
							coords:    ir.Coordinates(def.Name, ev.Name),
							node:      node,
							parent:    def,
							enumValue: v,
						}, ev.Directives)
					}
				}
			}
		}
	}
}

func (b *builder) decodeSite(site *directiveSite, dirs language.DirectiveList) {
	counts := make(map[string]int)
	for _, d := range dirs {
		kind := ir.DirectiveKindOf(d.Name)
		var def *language.DirectiveDefinition
		if kind == ir.DirectiveUnknown {
			def = b.customDirectives[d.Name]
		} else {
			def = ir.KnownDirectiveDefinition(kind)
		}
		if def == nil {
			b.addError(ir.ViolationUnknownDirective(d.Name, site.coords).At(d.Position))
			continue
		}
		if !lo.Contains(def.Locations, site.location) {
			b.addError(ir.ViolationDirectiveLocation(d.Name, string(site.location), site.coords).At(d.Position))
			continue
		}
		counts[d.Name]++
		if counts[d.Name] == 2 && !def.IsRepeatable {
			b.addError(ir.ViolationRepeatedDirective(d.Name, site.coords).At(d.Position))
		}
		if !b.checkDirectiveArguments(def, d, site.coords) || kind == ir.DirectiveUnknown {
			continue
		}
		args, problem := decodeArguments(kind, d)
		if problem != nil {
			b.addError(ir.ViolationDirectiveArgument(d.Name, problem.argument, site.coords, problem.message).At(d.Position))
			continue
		}
		b.uses = append(b.uses, &directiveUse{site: site, kind: kind, args: args, position: d.Position})
	}
}

func (b *builder) checkDirectiveArguments(def *language.DirectiveDefinition, d *language.Directive, coords string) bool {
	ok := true
	for _, arg := range d.Arguments {
		argDef := def.Arguments.ForName(arg.Name)
		if argDef == nil {
			b.addError(ir.ViolationDirectiveArgument(d.Name, arg.Name, coords, "argument is not defined").At(arg.Position))
			ok = false
			continue
		}
		if !b.valueMatches(argDef.Type, arg.Value) {
			b.addError(ir.ViolationDirectiveArgument(d.Name, arg.Name, coords, "expected a value of type "+argDef.Type.String()).At(arg.Position))
			ok = false
		}
	}
	for _, argDef := range def.Arguments {
		if argDef.Type.NonNull && argDef.DefaultValue == nil && d.Arguments.ForName(argDef.Name) == nil {
			b.addError(ir.ViolationMissingDirectiveArgument(d.Name, argDef.Name, coords).At(d.Position))
			ok = false
		}
	}
	return ok
}

// valueMatches is a shallow input coercion check. Nested input objects of
// known directives are validated by their decoders.
func (b *builder) valueMatches(t *language.Type, v *language.Value) bool {
	if v == nil || v.Kind == language.Variable {
		return false
	}
	if v.Kind == language.NullValue {
		return !t.NonNull
	}
	if t.Elem != nil {
		if v.Kind != language.ListValue {
			return b.valueMatches(t.Elem, v)
		}
		for _, child := range v.Children {
			if !b.valueMatches(t.Elem, child.Value) {
				return false
			}
		}
		return true
	}
	switch t.NamedType {
	case ir.StringScalar, ir.FieldSetScalarName, ir.ScopeScalarName:
		return v.Kind == language.StringValue || v.Kind == language.BlockValue
	case ir.IDScalar:
		return v.Kind == language.StringValue || v.Kind == language.BlockValue || v.Kind == language.IntValue
	case ir.IntScalar:
		return v.Kind == language.IntValue
	case ir.FloatScalar:
		return v.Kind == language.IntValue || v.Kind == language.FloatValue
	case ir.BooleanScalar:
		return v.Kind == language.BooleanValue
	}
	if ir.IsSupportTypeName(t.NamedType) {
		return v.Kind == language.ObjectValue
	}
	def := b.reg.Lookup(b.canonicalName(t.NamedType))
	switch {
	case def == nil:
		return true
	case def.Kind == language.Enum:
		return v.Kind == language.EnumValue && def.EnumValues[v.Raw] != nil
	case def.Kind == language.InputObject:
		return v.Kind == language.ObjectValue
	}
	return true
}

// decodeScopes applies list input coercion to a [[Scope!]!]! value: a bare
// scope is a one-element conjunction inside a one-element disjunction.
func decodeScopes(v *language.Value) [][]string {
	if v.Kind != language.ListValue {
		return [][]string{{v.Raw}}
	}
	scopes := make([][]string, 0, len(v.Children))
	for _, conj := range v.Children {
		if conj.Value.Kind != language.ListValue {
			scopes = append(scopes, []string{conj.Value.Raw})
			continue
		}
		and := make([]string, 0, len(conj.Value.Children))
		for _, scope := range conj.Value.Children {
			and = append(and, scope.Value.Raw)
		}
		scopes = append(scopes, and)
	}
	return scopes
}

type argumentProblem struct {
	argument string
	message  string
}

// decodeArguments maps a directive to its typed argument set. Arguments have
// already been checked against the directive definition.
func decodeArguments(kind ir.DirectiveKind, d *language.Directive) (directiveArgs, *argumentProblem) {
	str := func(name string) string {
		if arg := d.Arguments.ForName(name); arg != nil && arg.Value != nil {
			return arg.Value.Raw
		}
		return ""
	}
	strList := func(name string) []string {
		arg := d.Arguments.ForName(name)
		if arg == nil || arg.Value == nil {
			return nil
		}
		if arg.Value.Kind != language.ListValue {
			return []string{arg.Value.Raw}
		}
		out := make([]string, 0, len(arg.Value.Children))
		for _, c := range arg.Value.Children {
			out = append(out, c.Value.Raw)
		}
		return out
	}
	providerID := func() string {
		if id := str("providerId"); id != "" {
			return id
		}
		return ir.DefaultEventProviderID
	}
	event := func(provider ir.EventProvider, typ ir.EventType, subjects []string, argName string) (directiveArgs, *argumentProblem) {
		if len(subjects) == 0 || lo.Contains(subjects, "") {
			return nil, &argumentProblem{argName, "must not be empty"}
		}
		return eventArgs{kind: kind, config: ir.EventConfiguration{
			ProviderType: provider,
			ProviderID:   providerID(),
			Type:         typ,
			Subjects:     subjects,
		}}, nil
	}

	switch kind {
	case ir.DirectiveKey:
		resolvable := true
		if arg := d.Arguments.ForName("resolvable"); arg != nil && arg.Value != nil {
			resolvable = arg.Value.Raw == "true"
		}
		return keyArgs{fields: str("fields"), resolvable: resolvable}, nil
	case ir.DirectiveProvides, ir.DirectiveRequires:
		return fieldSetArgs{kind: kind, fields: str("fields")}, nil
	case ir.DirectiveOverride:
		from := str("from")
		if from == "" {
			return nil, &argumentProblem{"from", "must not be empty"}
		}
		return overrideArgs{from: from}, nil
	case ir.DirectiveTag:
		name := str("name")
		if name == "" {
			return nil, &argumentProblem{"name", "must not be empty"}
		}
		return tagArgs{name: name}, nil
	case ir.DirectiveDeprecated:
		reason := ir.DefaultDeprecationReason
		if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil && arg.Value.Kind != language.NullValue {
			reason = arg.Value.Raw
		}
		return deprecatedArgs{reason: reason}, nil
	case ir.DirectiveSpecifiedBy:
		return specifiedByArgs{url: str("url")}, nil
	case ir.DirectiveRequiresScopes:
		scopes := decodeScopes(d.Arguments.ForName("scopes").Value)
		if len(scopes) == 0 {
			return nil, &argumentProblem{"scopes", "must list at least one scope set"}
		}
		for _, and := range scopes {
			if len(and) == 0 {
				return nil, &argumentProblem{"scopes", "scope sets must not be empty"}
			}
		}
		return scopesArgs{scopes: scopes}, nil
	case ir.DirectiveLink:
		return linkArgs{url: str("url")}, nil
	case ir.DirectiveComposeDirective:
		return flagArgs{kind: kind}, nil
	case ir.DirectiveKafkaPublish:
		return event(ir.EventProviderKafka, ir.EventTypePublish, []string{str("topic")}, "topic")
	case ir.DirectiveKafkaSubscribe:
		return event(ir.EventProviderKafka, ir.EventTypeSubscribe, strList("topics"), "topics")
	case ir.DirectiveNatsPublish:
		return event(ir.EventProviderNats, ir.EventTypePublish, []string{str("subject")}, "subject")
	case ir.DirectiveNatsRequest:
		return event(ir.EventProviderNats, ir.EventTypeRequest, []string{str("subject")}, "subject")
	case ir.DirectiveNatsSubscribe:
		args, problem := event(ir.EventProviderNats, ir.EventTypeSubscribe, strList("subjects"), "subjects")
		if problem != nil {
			return nil, problem
		}
		if arg := d.Arguments.ForName("streamConfiguration"); arg != nil && arg.Value != nil && arg.Value.Kind == language.ObjectValue {
			stream, problem := decodeStreamConfiguration(arg.Value)
			if problem != nil {
				return nil, problem
			}
			ea := args.(eventArgs)
			ea.config.StreamConfiguration = stream
			return ea, nil
		}
		return args, nil
	case ir.DirectiveSubscriptionFilter:
		return subscriptionFilterArgs{condition: d.Arguments.ForName("condition").Value}, nil
	default:
		return flagArgs{kind: kind}, nil
	}
}

func decodeStreamConfiguration(v *language.Value) (*ir.NatsStreamConfiguration, *argumentProblem) {
	stream := &ir.NatsStreamConfiguration{}
	for _, c := range v.Children {
		switch c.Name {
		case "consumerName":
			stream.ConsumerName = c.Value.Raw
		case "streamName":
			stream.StreamName = c.Value.Raw
		default:
			return nil, &argumentProblem{"streamConfiguration", "unknown field " + c.Name}
		}
	}
	if stream.ConsumerName == "" || stream.StreamName == "" {
		return nil, &argumentProblem{"streamConfiguration", "consumerName and streamName are required"}
	}
	return stream, nil
}

// usesOf returns the decoded directives of kind, in document order.
func (b *builder) usesOf(kind ir.DirectiveKind) []*directiveUse {
	return lo.Filter(b.uses, func(u *directiveUse, _ int) bool { return u.kind == kind })
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
