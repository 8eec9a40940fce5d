package routerconfig

import (
	"sort"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/hanpama/supergraph/internal/ir"
)

type Format string

const (
	FormatBinary Format = "binary"
	FormatJSON   Format = "json"
)

// ParseFormat accepts "binary" (or "proto") and "json".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "binary", "proto", "pb":
		return FormatBinary, nil
	case "json":
		return FormatJSON, nil
	}
	return "", errors.Errorf("unknown router config format %q", s)
}

// Encode serializes c. Both formats are deterministic.
func Encode(c *Config, format Format) ([]byte, error) {
	m := Message(c)
	switch format {
	case FormatBinary:
		data, err := proto.MarshalOptions{Deterministic: true}.Marshal(m)
		return data, errors.Wrap(err, "encode router config")
	case FormatJSON:
		data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(m)
		return data, errors.Wrap(err, "encode router config")
	}
	return nil, errors.Errorf("unknown router config format %q", format)
}

// Decode parses an encoded configuration into a dynamic message.
func Decode(data []byte, format Format) (*dynamicpb.Message, error) {
	m := dynamicpb.NewMessage(messageDescriptor(rootMessage))
	var err error
	switch format {
	case FormatBinary:
		err = proto.Unmarshal(data, m)
	case FormatJSON:
		err = protojson.Unmarshal(data, m)
	default:
		err = errors.Errorf("unknown router config format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(err, "decode router config")
	}
	return m, nil
}

// Message converts c into a dynamic message of the RouterConfig descriptor.
func Message(c *Config) *dynamicpb.Message {
	m := dynamicpb.NewMessage(messageDescriptor(rootMessage))
	r := record{m}
	r.str("version", c.Version)
	r.str("federatedSdl", c.FederatedSDL)
	r.str("clientSdl", c.ClientSDL)
	for _, sg := range c.Subgraphs {
		s := r.add("subgraphs")
		s.str("name", sg.Name)
		s.str("url", sg.URL)
		names := make([]string, 0, len(sg.ConfigurationData))
		for name := range sg.ConfigurationData {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			writeTypeConfiguration(s.add("configurationData"), sg.ConfigurationData[name])
		}
	}
	for _, fc := range c.FieldConfigurations {
		writeFieldConfiguration(r.add("fieldConfigurations"), fc)
	}
	return m
}

func writeTypeConfiguration(r record, cfg *ir.ConfigurationData) {
	r.str("typeName", cfg.TypeName)
	r.strs("fieldNames", cfg.FieldNames)
	r.boolean("isRootNode", cfg.IsRootNode)
	for _, list := range []struct {
		name   string
		fields []*ir.RequiredFieldConfiguration
	}{
		{"keys", cfg.Keys},
		{"provides", cfg.Provides},
		{"requires", cfg.Requires},
	} {
		for _, f := range list.fields {
			writeRequiredField(r.add(list.name), f)
		}
	}
	r.strs("externalFieldNames", cfg.ExternalFieldNames)
	for _, ev := range cfg.Events {
		e := r.add("events")
		e.str("fieldName", ev.FieldName)
		e.str("providerType", string(ev.ProviderType))
		e.str("providerId", ev.ProviderID)
		e.str("type", string(ev.Type))
		e.strs("subjects", ev.Subjects)
		if sc := ev.StreamConfiguration; sc != nil {
			s := e.msg("streamConfiguration")
			s.str("consumerName", sc.ConsumerName)
			s.str("streamName", sc.StreamName)
		}
	}
	r.strs("entityInterfaceConcreteTypeNames", cfg.EntityInterfaceConcreteTypeNames)
	r.boolean("isInterfaceObject", cfg.IsInterfaceObject)
}

func writeRequiredField(r record, f *ir.RequiredFieldConfiguration) {
	r.str("fieldName", f.FieldName)
	r.str("selectionSet", f.SelectionSet)
	r.boolean("disableEntityResolver", f.DisableEntityResolver)
	for _, cond := range f.Conditions {
		c := r.add("conditions")
		for _, coords := range cond.FieldCoordinatesPath {
			fc := c.add("fieldCoordinatesPath")
			fc.str("typeName", coords.TypeName)
			fc.str("fieldName", coords.FieldName)
		}
		c.strs("fieldPath", cond.FieldPath)
	}
}

func writeFieldConfiguration(r record, fc *ir.FieldConfiguration) {
	r.str("typeName", fc.TypeName)
	r.str("fieldName", fc.FieldName)
	r.strs("argumentNames", fc.ArgumentNames)
	r.boolean("requiresAuthentication", fc.RequiresAuthentication)
	for _, conj := range fc.RequiredScopes {
		r.add("requiredScopes").strs("scopes", conj)
	}
	if fc.SubscriptionFilterCondition != nil {
		writeFilterCondition(r.msg("subscriptionFilterCondition"), fc.SubscriptionFilterCondition)
	}
}

func writeFilterCondition(r record, cond *ir.SubscriptionFilterCondition) {
	for _, c := range cond.And {
		writeFilterCondition(r.add("and"), c)
	}
	for _, c := range cond.Or {
		writeFilterCondition(r.add("or"), c)
	}
	if cond.Not != nil {
		writeFilterCondition(r.msg("not"), cond.Not)
	}
	if cond.In != nil {
		in := r.msg("in")
		in.strs("fieldPath", cond.In.FieldPath)
		in.strs("values", cond.In.Values)
	}
}

// record writes fields of a dynamic message by their lowerCamel names.
// Unknown names are programming errors and panic.
type record struct {
	m protoreflect.Message
}

func (r record) field(name string) protoreflect.FieldDescriptor {
	fd := r.m.Descriptor().Fields().ByName(protoFieldName(name))
	if fd == nil {
		panic("routerconfig: no field " + name + " in " + string(r.m.Descriptor().Name()))
	}
	return fd
}

func (r record) str(name, v string) {
	if v != "" {
		r.m.Set(r.field(name), protoreflect.ValueOfString(v))
	}
}

func (r record) boolean(name string, v bool) {
	if v {
		r.m.Set(r.field(name), protoreflect.ValueOfBool(v))
	}
}

func (r record) strs(name string, vs []string) {
	if len(vs) == 0 {
		return
	}
	list := r.m.Mutable(r.field(name)).List()
	for _, v := range vs {
		list.Append(protoreflect.ValueOfString(v))
	}
}

func (r record) msg(name string) record {
	return record{r.m.Mutable(r.field(name)).Message()}
}

func (r record) add(name string) record {
	list := r.m.Mutable(r.field(name)).List()
	v := list.NewElement()
	list.Append(v)
	return record{v.Message()}
}
