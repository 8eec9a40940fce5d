package normalization

import (
	"github.com/hanpama/supergraph/internal/fieldset"
	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

type builder struct {
	name string
	opts options
	doc  *language.SchemaDocument

	reg              *ir.Registry
	nodes            map[string][]*language.Definition
	fieldNodes       map[string]*language.FieldDefinition
	customDirectives map[string]*language.DirectiveDefinition
	operationTypes   map[string]string
	renames          map[string]string
	entityModel      ir.EntityModel

	uses        []*directiveUse
	keyFields   map[string]bool
	keyPaths    map[*ir.KeyDefinition][]fieldset.Path
	provides    map[string][]*ir.RequiredFieldConfiguration
	requires    map[string][]*ir.RequiredFieldConfiguration
	typeAuth    map[string]*authRequirement
	fieldAuth   map[string]*authRequirement
	events      map[string][]*ir.EventConfiguration
	config      map[string]*ir.ConfigurationData
	auth        map[string]*ir.AuthorizationData
	conditional map[string]*ir.ConditionalFieldData
	filters     map[string]*ir.SubscriptionFilterCondition

	errors   []*ir.Violation
	warnings []*ir.Violation
}

func newBuilder(name string, doc *language.SchemaDocument, opts options) *builder {
	return &builder{
		name:             name,
		opts:             opts,
		doc:              doc,
		reg:              ir.NewRegistry(),
		nodes:            make(map[string][]*language.Definition),
		fieldNodes:       make(map[string]*language.FieldDefinition),
		customDirectives: make(map[string]*language.DirectiveDefinition),
		operationTypes:   make(map[string]string),
		renames:          make(map[string]string),
		entityModel:      ir.EntityModelV1,
		keyFields:        make(map[string]bool),
		keyPaths:         make(map[*ir.KeyDefinition][]fieldset.Path),
		provides:         make(map[string][]*ir.RequiredFieldConfiguration),
		requires:         make(map[string][]*ir.RequiredFieldConfiguration),
		typeAuth:         make(map[string]*authRequirement),
		fieldAuth:        make(map[string]*authRequirement),
		events:           make(map[string][]*ir.EventConfiguration),
		config:           make(map[string]*ir.ConfigurationData),
		auth:             make(map[string]*ir.AuthorizationData),
		conditional:      make(map[string]*ir.ConditionalFieldData),
		filters:          make(map[string]*ir.SubscriptionFilterCondition),
	}
}

func (b *builder) build() {
	if !b.opts.version.Supported() {
		b.addError(ir.ViolationUnsupportedVersion(b.opts.version))
		return
	}

	// Types and their structure
	b.collectOperationTypes()
	b.detectEntityModel()
	b.collectDirectiveDefinitions()
	b.collectDefinitions()
	b.collectExtensions()
	b.checkDefinedMembers()
	b.validateReferences()
	b.validateImplementations()

	// Directive semantics
	b.decodeDirectives()
	b.applyDirectives()
	b.resolveKeys()
	b.resolveConditionalFields()
	b.resolveAuthorization()
	b.resolveSubscriptionFilters()
	b.checkAbstractReturnTypes()

	if len(b.errors) == 0 {
		b.buildConfiguration()
	}
}

func (b *builder) result() *Result {
	for _, v := range b.errors {
		v.In(b.name)
	}
	for _, v := range b.warnings {
		v.In(b.name)
	}
	ir.SortViolations(b.errors)
	ir.SortViolations(b.warnings)

	res := &Result{Errors: b.errors, Warnings: b.warnings}
	if len(b.errors) > 0 {
		return res
	}
	res.Subgraph = &ir.Subgraph{
		Name:                 b.name,
		URL:                  b.opts.url,
		EntityModel:          b.entityModel,
		Registry:             b.reg,
		ConfigurationData:    b.config,
		AuthorizationData:    b.auth,
		ConditionalFieldData: b.conditional,
		SubscriptionFilters:  b.filters,
		OperationTypes:       b.operationTypes,
	}
	return res
}

func (b *builder) addError(v ...*ir.Violation) {
	b.errors = append(b.errors, v...)
}

func (b *builder) addWarning(v ...*ir.Violation) {
	b.warnings = append(b.warnings, v...)
}

// addConditional reports a violation that is an error for the v2 entity
// model and a warning for v1.
func (b *builder) addConditional(v *ir.Violation) {
	if b.entityModel == ir.EntityModelV2 {
		b.addError(v)
		return
	}
	b.addWarning(v)
}

// canonicalName maps a declared root operation type name to its canonical name.
func (b *builder) canonicalName(name string) string {
	if to, ok := b.renames[name]; ok {
		return to
	}
	return name
}

func (b *builder) typeExpr(t *language.Type) *ir.TypeExpr {
	var inner *ir.TypeExpr
	if t.NamedType != "" {
		inner = ir.NamedType(b.canonicalName(t.NamedType))
	} else {
		inner = ir.ListType(b.typeExpr(t.Elem))
	}
	if t.NonNull {
		return ir.NonNullType(inner)
	}
	return inner
}
