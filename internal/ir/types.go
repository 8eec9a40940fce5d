package ir

import (
	"sort"

	language "github.com/hanpama/supergraph/internal/language"
)

// ParentDefinition is one named type of a subgraph or of the federated graph.
type ParentDefinition struct {
	Name        string                  `json:"name"`
	Kind        language.DefinitionKind `json:"kind"`
	Description string                  `json:"description,omitempty"`

	Fields      map[string]*FieldDefinition      `json:"fields,omitempty"`
	InputValues map[string]*InputValueDefinition `json:"inputValues,omitempty"`
	EnumValues  map[string]*EnumValueDefinition  `json:"enumValues,omitempty"`
	Interfaces  []string                         `json:"interfaces,omitempty"`
	Members     []string                         `json:"members,omitempty"`

	Subgraphs []string `json:"subgraphs"`

	IsEntity          bool             `json:"isEntity,omitempty"`
	IsInterfaceObject bool             `json:"isInterfaceObject,omitempty"`
	IsExtension       bool             `json:"isExtension,omitempty"`
	IsExtensionOrphan bool             `json:"isExtensionOrphan,omitempty"`
	Keys              []*KeyDefinition `json:"keys,omitempty"`

	Tags           []string `json:"tags,omitempty"`
	Inaccessible   bool     `json:"inaccessible,omitempty"`
	SpecifiedByURL string   `json:"specifiedByURL,omitempty"`

	Position *language.Position `json:"-"`
}

// FieldDefinition is a field of an object or interface type.
type FieldDefinition struct {
	Name        string                           `json:"name"`
	ParentName  string                           `json:"parentName"`
	Description string                           `json:"description,omitempty"`
	Index       int                              `json:"index"`
	Type        *TypeExpr                        `json:"type"`
	Args        map[string]*InputValueDefinition `json:"args,omitempty"`

	// Subgraphs lists every subgraph defining the field; ResolvedBy the
	// ones able to resolve it (not external, not overridden away).
	Subgraphs  []string `json:"subgraphs"`
	ResolvedBy []string `json:"resolvedBy"`

	External  bool   `json:"external,omitempty"`
	Shareable bool   `json:"shareable,omitempty"`
	Override  string `json:"override,omitempty"`
	Provides  string `json:"provides,omitempty"`
	Requires  string `json:"requires,omitempty"`

	Tags         []string     `json:"tags,omitempty"`
	Inaccessible bool         `json:"inaccessible,omitempty"`
	Deprecation  *Deprecation `json:"deprecation,omitempty"`

	Position *language.Position `json:"-"`
}

// InputValueDefinition is an argument or an input object field.
type InputValueDefinition struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Index        int             `json:"index"`
	Type         *TypeExpr       `json:"type"`
	DefaultValue *language.Value `json:"-"`
	Subgraphs    []string        `json:"subgraphs,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Inaccessible bool            `json:"inaccessible,omitempty"`
	Deprecation  *Deprecation    `json:"deprecation,omitempty"`

	Position *language.Position `json:"-"`
}

// DefaultString returns the canonical literal of the default value, or "".
func (v *InputValueDefinition) DefaultString() string {
	if v.DefaultValue == nil {
		return ""
	}
	return v.DefaultValue.String()
}

type EnumValueDefinition struct {
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Index        int          `json:"index"`
	Subgraphs    []string     `json:"subgraphs,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	Inaccessible bool         `json:"inaccessible,omitempty"`
	Deprecation  *Deprecation `json:"deprecation,omitempty"`

	Position *language.Position `json:"-"`
}

type Deprecation struct {
	Reason string `json:"reason,omitempty"`
}

// KeyDefinition is one @key of an entity in one subgraph.
type KeyDefinition struct {
	Subgraph              string               `json:"subgraph"`
	FieldSet              string               `json:"fieldSet"`
	Resolvable            bool                 `json:"resolvable"`
	DisableEntityResolver bool                 `json:"disableEntityResolver,omitempty"`
	Key                   *EntityKey           `json:"key"`
	Conditions            []*FieldSetCondition `json:"conditions,omitempty"`
}

// EntityKey mirrors the shape of a key field set. Parent is the type name for
// the outermost level and the "Type.field" coordinate for nested levels.
type EntityKey struct {
	Parent     string       `json:"parent"`
	Siblings   []string     `json:"siblings"`
	NestedKeys []*EntityKey `json:"nestedKeys,omitempty"`
}

func (d *ParentDefinition) OrderedFields() []*FieldDefinition {
	fields := make([]*FieldDefinition, 0, len(d.Fields))
	for _, field := range d.Fields {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Index == fields[j].Index {
			return fields[i].Name < fields[j].Name
		}
		return fields[i].Index < fields[j].Index
	})
	return fields
}

func (d *ParentDefinition) OrderedInputValues() []*InputValueDefinition {
	return orderedInputValues(d.InputValues)
}

func (f *FieldDefinition) OrderedArgs() []*InputValueDefinition {
	return orderedInputValues(f.Args)
}

func orderedInputValues(m map[string]*InputValueDefinition) []*InputValueDefinition {
	values := make([]*InputValueDefinition, 0, len(m))
	for _, val := range m {
		values = append(values, val)
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Index == values[j].Index {
			return values[i].Name < values[j].Name
		}
		return values[i].Index < values[j].Index
	})
	return values
}

func (d *ParentDefinition) OrderedEnumValues() []*EnumValueDefinition {
	values := make([]*EnumValueDefinition, 0, len(d.EnumValues))
	for _, val := range d.EnumValues {
		values = append(values, val)
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Index == values[j].Index {
			return values[i].Name < values[j].Name
		}
		return values[i].Index < values[j].Index
	})
	return values
}

// Coordinates returns "Parent.field".
func (f *FieldDefinition) Coordinates() string {
	return f.ParentName + "." + f.Name
}

// IsResolvedBy reports whether subgraph resolves the field.
func (f *FieldDefinition) IsResolvedBy(subgraph string) bool {
	for _, s := range f.ResolvedBy {
		if s == subgraph {
			return true
		}
	}
	return false
}

func (d *ParentDefinition) IsAbstract() bool {
	return d.Kind == language.Interface || d.Kind == language.Union
}

func (d *ParentDefinition) IsComposite() bool {
	return d.Kind == language.Object || d.Kind == language.Interface || d.Kind == language.Union
}

func (d *ParentDefinition) IsLeaf() bool {
	return d.Kind == language.Scalar || d.Kind == language.Enum
}

func (d *ParentDefinition) IsInputType() bool {
	return d.Kind == language.Scalar || d.Kind == language.Enum || d.Kind == language.InputObject
}

func (d *ParentDefinition) IsOutputType() bool {
	return d.Kind != language.InputObject
}

// HasFields reports whether the kind carries output fields.
func (d *ParentDefinition) HasFields() bool {
	return d.Kind == language.Object || d.Kind == language.Interface
}

// Implements reports whether the type declares iface among its interfaces.
func (d *ParentDefinition) Implements(iface string) bool {
	for _, name := range d.Interfaces {
		if name == iface {
			return true
		}
	}
	return false
}

// HasMember reports whether a union lists name.
func (d *ParentDefinition) HasMember(name string) bool {
	for _, m := range d.Members {
		if m == name {
			return true
		}
	}
	return false
}

// Coordinates joins a type and field name.
func Coordinates(typeName, fieldName string) string {
	return typeName + "." + fieldName
}
