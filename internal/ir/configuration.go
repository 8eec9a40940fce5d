package ir

// ConfigurationData is the router-facing description of one type in one subgraph.
type ConfigurationData struct {
	TypeName                         string                        `json:"typeName"`
	FieldNames                       []string                      `json:"fieldNames"`
	IsRootNode                       bool                          `json:"isRootNode"`
	Keys                             []*RequiredFieldConfiguration `json:"keys,omitempty"`
	Provides                         []*RequiredFieldConfiguration `json:"provides,omitempty"`
	Requires                         []*RequiredFieldConfiguration `json:"requires,omitempty"`
	ExternalFieldNames               []string                      `json:"externalFieldNames,omitempty"`
	Events                           []*EventConfiguration         `json:"events,omitempty"`
	EntityInterfaceConcreteTypeNames []string                      `json:"entityInterfaceConcreteTypeNames,omitempty"`
	IsInterfaceObject                bool                          `json:"isInterfaceObject,omitempty"`
}

// RequiredFieldConfiguration is a key, provides or requires record. FieldName
// is empty for keys.
type RequiredFieldConfiguration struct {
	FieldName             string               `json:"fieldName"`
	SelectionSet          string               `json:"selectionSet"`
	DisableEntityResolver bool                 `json:"disableEntityResolver,omitempty"`
	Conditions            []*FieldSetCondition `json:"conditions,omitempty"`
}

// FieldSetCondition locates a conditional field: the chain of coordinates
// from the declaring field down to it, and the response path it occupies.
type FieldSetCondition struct {
	FieldCoordinatesPath []FieldCoordinates `json:"fieldCoordinatesPath"`
	FieldPath            []string           `json:"fieldPath"`
}

type FieldCoordinates struct {
	TypeName  string `json:"typeName"`
	FieldName string `json:"fieldName"`
}

func (c FieldCoordinates) String() string { return c.TypeName + "." + c.FieldName }

// ConditionalFieldData records which provides/requires paths make a field conditional.
type ConditionalFieldData struct {
	ProvidedBy []*FieldSetCondition `json:"providedBy,omitempty"`
	RequiredBy []*FieldSetCondition `json:"requiredBy,omitempty"`
}

type EventProvider string

const (
	EventProviderKafka EventProvider = "kafka"
	EventProviderNats  EventProvider = "nats"
)

type EventType string

const (
	EventTypePublish   EventType = "publish"
	EventTypeRequest   EventType = "request"
	EventTypeSubscribe EventType = "subscribe"
)

// EventConfiguration binds a root field to an event source.
type EventConfiguration struct {
	FieldName           string                   `json:"fieldName"`
	ProviderType        EventProvider            `json:"providerType"`
	ProviderID          string                   `json:"providerId"`
	Type                EventType                `json:"type"`
	Subjects            []string                 `json:"subjects"`
	StreamConfiguration *NatsStreamConfiguration `json:"streamConfiguration,omitempty"`
}

type NatsStreamConfiguration struct {
	ConsumerName string `json:"consumerName"`
	StreamName   string `json:"streamName"`
}

// FieldConfiguration is the field-level router configuration entry.
type FieldConfiguration struct {
	TypeName                    string                       `json:"typeName"`
	FieldName                   string                       `json:"fieldName"`
	ArgumentNames               []string                     `json:"argumentNames"`
	RequiresAuthentication      bool                         `json:"requiresAuthentication"`
	RequiredScopes              [][]string                   `json:"requiredScopes"`
	SubscriptionFilterCondition *SubscriptionFilterCondition `json:"subscriptionFilterCondition,omitempty"`
}

// SubscriptionFilterCondition is a node of a subscription filter tree.
// Exactly one member is set.
type SubscriptionFilterCondition struct {
	And []*SubscriptionFilterCondition `json:"and,omitempty"`
	Or  []*SubscriptionFilterCondition `json:"or,omitempty"`
	Not *SubscriptionFilterCondition   `json:"not,omitempty"`
	In  *SubscriptionFieldCondition    `json:"in,omitempty"`
}

// SubscriptionFieldCondition matches when the event value at FieldPath equals
// one of Values. Values hold canonical literals.
type SubscriptionFieldCondition struct {
	FieldPath []string `json:"fieldPath"`
	Values    []string `json:"values"`
}
