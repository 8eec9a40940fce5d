package ir

import (
	"sync"

	language "github.com/hanpama/supergraph/internal/language"
)

// DirectiveKind enumerates the directives composition understands.
type DirectiveKind int

const (
	DirectiveUnknown DirectiveKind = iota
	DirectiveAuthenticated
	DirectiveComposeDirective
	DirectiveDeprecated
	DirectiveExtends
	DirectiveExternal
	DirectiveInaccessible
	DirectiveInterfaceObject
	DirectiveKafkaPublish
	DirectiveKafkaSubscribe
	DirectiveKey
	DirectiveLink
	DirectiveNatsPublish
	DirectiveNatsRequest
	DirectiveNatsSubscribe
	DirectiveOverride
	DirectiveProvides
	DirectiveRequires
	DirectiveRequiresScopes
	DirectiveShareable
	DirectiveSpecifiedBy
	DirectiveSubscriptionFilter
	DirectiveTag

	directiveKindCount
)

var directiveNames = [directiveKindCount]string{
	DirectiveUnknown:            "",
	DirectiveAuthenticated:      "authenticated",
	DirectiveComposeDirective:   "composeDirective",
	DirectiveDeprecated:         "deprecated",
	DirectiveExtends:            "extends",
	DirectiveExternal:           "external",
	DirectiveInaccessible:       "inaccessible",
	DirectiveInterfaceObject:    "interfaceObject",
	DirectiveKafkaPublish:       "edfs__kafkaPublish",
	DirectiveKafkaSubscribe:     "edfs__kafkaSubscribe",
	DirectiveKey:                "key",
	DirectiveLink:               "link",
	DirectiveNatsPublish:        "edfs__natsPublish",
	DirectiveNatsRequest:        "edfs__natsRequest",
	DirectiveNatsSubscribe:      "edfs__natsSubscribe",
	DirectiveOverride:           "override",
	DirectiveProvides:           "provides",
	DirectiveRequires:           "requires",
	DirectiveRequiresScopes:     "requiresScopes",
	DirectiveShareable:          "shareable",
	DirectiveSpecifiedBy:        "specifiedBy",
	DirectiveSubscriptionFilter: "openfed__subscriptionFilter",
	DirectiveTag:                "tag",
}

var directiveKindsByName = func() map[string]DirectiveKind {
	m := make(map[string]DirectiveKind, directiveKindCount)
	for k := DirectiveKind(1); k < directiveKindCount; k++ {
		m[directiveNames[k]] = k
	}
	return m
}()

func (k DirectiveKind) String() string {
	if k < 0 || k >= directiveKindCount {
		return ""
	}
	return directiveNames[k]
}

// DirectiveKindOf returns the kind named name, or DirectiveUnknown.
func DirectiveKindOf(name string) DirectiveKind {
	return directiveKindsByName[name]
}

// IsVersionTwo reports whether using the directive implies the v2 entity model.
func (k DirectiveKind) IsVersionTwo() bool {
	switch k {
	case DirectiveShareable, DirectiveInaccessible, DirectiveOverride, DirectiveInterfaceObject,
		DirectiveComposeDirective, DirectiveAuthenticated, DirectiveRequiresScopes:
		return true
	}
	return false
}

func (k DirectiveKind) IsEvent() bool {
	switch k {
	case DirectiveKafkaPublish, DirectiveKafkaSubscribe, DirectiveNatsPublish, DirectiveNatsRequest, DirectiveNatsSubscribe:
		return true
	}
	return false
}

// IsPersisted reports whether the directive is kept on the federated schema.
func (k DirectiveKind) IsPersisted() bool {
	switch k {
	case DirectiveDeprecated, DirectiveSpecifiedBy, DirectiveTag, DirectiveInaccessible,
		DirectiveAuthenticated, DirectiveRequiresScopes:
		return true
	}
	return false
}

const (
	FieldSetScalarName                = "openfed__FieldSet"
	ScopeScalarName                   = "openfed__Scope"
	SubscriptionFilterConditionName   = "openfed__SubscriptionFilterCondition"
	SubscriptionFieldConditionName    = "openfed__SubscriptionFieldCondition"
	NatsStreamConfigurationName       = "edfs__NatsStreamConfiguration"
	DefaultEventProviderID            = "default"
	MaxSubscriptionFilterDepth        = 5
	MaxSubscriptionFilterListLength   = 5
	MinSubscriptionFilterListLength   = 1
	DefaultDeprecationReason          = "No longer supported"
	federationV2LinkURLPrefix         = "https://specs.apollo.dev/federation/v2"
	federationDirectiveDefinitionsSrc = `
directive @authenticated on ENUM | FIELD_DEFINITION | INTERFACE | OBJECT | SCALAR
directive @composeDirective(name: String!) repeatable on SCHEMA
directive @deprecated(reason: String = "No longer supported") on ARGUMENT_DEFINITION | ENUM_VALUE | FIELD_DEFINITION | INPUT_FIELD_DEFINITION
directive @extends on INTERFACE | OBJECT
directive @external on FIELD_DEFINITION | OBJECT
directive @inaccessible on ARGUMENT_DEFINITION | ENUM | ENUM_VALUE | FIELD_DEFINITION | INPUT_FIELD_DEFINITION | INPUT_OBJECT | INTERFACE | OBJECT | SCALAR | UNION
directive @interfaceObject on OBJECT
directive @key(fields: openfed__FieldSet!, resolvable: Boolean = true) repeatable on INTERFACE | OBJECT
directive @link(url: String!, as: String, for: String, import: [String]) repeatable on SCHEMA
directive @override(from: String!) on FIELD_DEFINITION
directive @provides(fields: openfed__FieldSet!) on FIELD_DEFINITION
directive @requires(fields: openfed__FieldSet!) on FIELD_DEFINITION
directive @requiresScopes(scopes: [[openfed__Scope!]!]!) on ENUM | FIELD_DEFINITION | INTERFACE | OBJECT | SCALAR
directive @shareable repeatable on FIELD_DEFINITION | OBJECT
directive @specifiedBy(url: String!) on SCALAR
directive @tag(name: String!) repeatable on ARGUMENT_DEFINITION | ENUM | ENUM_VALUE | FIELD_DEFINITION | INPUT_FIELD_DEFINITION | INPUT_OBJECT | INTERFACE | OBJECT | SCALAR | UNION
directive @edfs__kafkaPublish(topic: String!, providerId: String! = "default") on FIELD_DEFINITION
directive @edfs__kafkaSubscribe(topics: [String!]!, providerId: String! = "default") on FIELD_DEFINITION
directive @edfs__natsPublish(subject: String!, providerId: String! = "default") on FIELD_DEFINITION
directive @edfs__natsRequest(subject: String!, providerId: String! = "default") on FIELD_DEFINITION
directive @edfs__natsSubscribe(subjects: [String!]!, providerId: String! = "default", streamConfiguration: edfs__NatsStreamConfiguration) on FIELD_DEFINITION
directive @openfed__subscriptionFilter(condition: openfed__SubscriptionFilterCondition!) on FIELD_DEFINITION

scalar openfed__FieldSet
scalar openfed__Scope

input openfed__SubscriptionFieldCondition {
  fieldPath: String!
  values: [String]!
}

input openfed__SubscriptionFilterCondition {
  AND: [openfed__SubscriptionFilterCondition!]
  IN: openfed__SubscriptionFieldCondition
  NOT: openfed__SubscriptionFilterCondition
  OR: [openfed__SubscriptionFilterCondition!]
}

input edfs__NatsStreamConfiguration {
  consumerName: String!
  streamName: String!
}
`
)

// IsFederationV2Link reports whether a @link url imports a v2 federation spec.
func IsFederationV2Link(url string) bool {
	return len(url) >= len(federationV2LinkURLPrefix) && url[:len(federationV2LinkURLPrefix)] == federationV2LinkURLPrefix
}

type knownDefinitions struct {
	directives map[DirectiveKind]*language.DirectiveDefinition
	types      map[string]*language.Definition
}

var loadKnownDefinitions = sync.OnceValue(func() *knownDefinitions {
	doc, err := language.ParseSchema("federation", federationDirectiveDefinitionsSrc)
	if err != nil {
		panic(err)
	}
	k := &knownDefinitions{
		directives: make(map[DirectiveKind]*language.DirectiveDefinition, len(doc.Directives)),
		types:      make(map[string]*language.Definition, len(doc.Definitions)),
	}
	for _, d := range doc.Directives {
		k.directives[DirectiveKindOf(d.Name)] = d
	}
	for _, d := range doc.Definitions {
		k.types[d.Name] = d
	}
	return k
})

// KnownDirectiveDefinition returns the definition of a known directive kind.
func KnownDirectiveDefinition(kind DirectiveKind) *language.DirectiveDefinition {
	return loadKnownDefinitions().directives[kind]
}

// SupportTypeDefinition returns a type referenced by the known directive
// definitions (openfed__FieldSet, openfed__Scope, ...), or nil.
func SupportTypeDefinition(name string) *language.Definition {
	return loadKnownDefinitions().types[name]
}

// IsSupportTypeName reports whether name is provided by the federation definitions.
func IsSupportTypeName(name string) bool {
	_, ok := loadKnownDefinitions().types[name]
	return ok
}
