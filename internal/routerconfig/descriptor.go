package routerconfig

import (
	"sync"

	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

const (
	packageName = "supergraph.routerconfig.v1"
	filePath    = "supergraph/routerconfig/v1/router_config.proto"

	rootMessage = "RouterConfig"
)

// fieldSpec describes one field of the router configuration schema. Names
// are written in lowerCamel and converted to snake_case for the descriptor.
type fieldSpec struct {
	name     string
	kind     protoreflect.Kind
	message  string
	repeated bool
}

type messageSpec struct {
	name    string
	comment string
	fields  []fieldSpec
}

func str(name string) fieldSpec { return fieldSpec{name: name, kind: protoreflect.StringKind} }
func strs(name string) fieldSpec { return fieldSpec{name: name, kind: protoreflect.StringKind, repeated: true} }
func boolean(name string) fieldSpec { return fieldSpec{name: name, kind: protoreflect.BoolKind} }
func msg(name, of string) fieldSpec { return fieldSpec{name: name, kind: protoreflect.MessageKind, message: of} }
func msgs(name, of string) fieldSpec {
	return fieldSpec{name: name, kind: protoreflect.MessageKind, message: of, repeated: true}
}

var messages = []messageSpec{
	{
		name:    rootMessage,
		comment: "RouterConfig is everything a router needs to serve a federated graph.",
		fields: []fieldSpec{
			str("version"),
			str("federatedSdl"),
			str("clientSdl"),
			msgs("subgraphs", "SubgraphConfig"),
			msgs("fieldConfigurations", "FieldConfiguration"),
		},
	},
	{
		name: "SubgraphConfig",
		fields: []fieldSpec{
			str("name"),
			str("url"),
			msgs("configurationData", "TypeConfiguration"),
		},
	},
	{
		name:    "TypeConfiguration",
		comment: "TypeConfiguration describes what one subgraph resolves of one type.",
		fields: []fieldSpec{
			str("typeName"),
			strs("fieldNames"),
			boolean("isRootNode"),
			msgs("keys", "RequiredField"),
			msgs("provides", "RequiredField"),
			msgs("requires", "RequiredField"),
			strs("externalFieldNames"),
			msgs("events", "EventConfiguration"),
			strs("entityInterfaceConcreteTypeNames"),
			boolean("isInterfaceObject"),
		},
	},
	{
		name:    "RequiredField",
		comment: "RequiredField is a key, provides or requires field set. fieldName is empty for keys.",
		fields: []fieldSpec{
			str("fieldName"),
			str("selectionSet"),
			boolean("disableEntityResolver"),
			msgs("conditions", "FieldSetCondition"),
		},
	},
	{
		name: "FieldSetCondition",
		fields: []fieldSpec{
			msgs("fieldCoordinatesPath", "FieldCoordinates"),
			strs("fieldPath"),
		},
	},
	{
		name: "FieldCoordinates",
		fields: []fieldSpec{
			str("typeName"),
			str("fieldName"),
		},
	},
	{
		name: "EventConfiguration",
		fields: []fieldSpec{
			str("fieldName"),
			str("providerType"),
			str("providerId"),
			str("type"),
			strs("subjects"),
			msg("streamConfiguration", "NatsStreamConfiguration"),
		},
	},
	{
		name: "NatsStreamConfiguration",
		fields: []fieldSpec{
			str("consumerName"),
			str("streamName"),
		},
	},
	{
		name: "FieldConfiguration",
		fields: []fieldSpec{
			str("typeName"),
			str("fieldName"),
			strs("argumentNames"),
			boolean("requiresAuthentication"),
			msgs("requiredScopes", "Scopes"),
			msg("subscriptionFilterCondition", "SubscriptionFilterCondition"),
		},
	},
	{
		name:    "Scopes",
		comment: "Scopes is one conjunction of a required scope disjunction.",
		fields: []fieldSpec{
			strs("scopes"),
		},
	},
	{
		name: "SubscriptionFilterCondition",
		fields: []fieldSpec{
			msgs("and", "SubscriptionFilterCondition"),
			msgs("or", "SubscriptionFilterCondition"),
			msg("not", "SubscriptionFilterCondition"),
			msg("in", "SubscriptionFieldCondition"),
		},
	},
	{
		name: "SubscriptionFieldCondition",
		fields: []fieldSpec{
			strs("fieldPath"),
			strs("values"),
		},
	},
}

// Descriptor returns the file descriptor of the router configuration schema.
var Descriptor = sync.OnceValue(func() protoreflect.FileDescriptor {
	fd, err := buildDescriptor()
	if err != nil {
		panic(err)
	}
	return fd
})

func buildDescriptor() (protoreflect.FileDescriptor, error) {
	fb := protobuilder.NewFile(filePath)
	fb.SetPackageName(packageName)
	fb.SetSyntax(protoreflect.Proto3)

	builders := make(map[string]*protobuilder.MessageBuilder, len(messages))
	for _, spec := range messages {
		mb := protobuilder.NewMessage(protoreflect.Name(spec.name))
		mb.SetComments(comment(spec.comment))
		builders[spec.name] = mb
		fb.AddMessage(mb)
	}
	for _, spec := range messages {
		mb := builders[spec.name]
		fields := make([]*protobuilder.FieldBuilder, 0, len(spec.fields))
		for _, f := range spec.fields {
			var ft *protobuilder.FieldType
			if f.kind == protoreflect.MessageKind {
				ft = protobuilder.FieldTypeMessage(builders[f.message])
			} else {
				ft = protobuilder.FieldTypeScalar(f.kind)
			}
			field := protobuilder.NewField(protoFieldName(f.name), ft)
			if f.repeated {
				field.SetRepeated()
			}
			mb.AddField(field)
			fields = append(fields, field)
		}
		allocateFieldNumbers(fields)
	}
	return fb.Build()
}

func messageDescriptor(name string) protoreflect.MessageDescriptor {
	return Descriptor().Messages().ByName(protoreflect.Name(name))
}
