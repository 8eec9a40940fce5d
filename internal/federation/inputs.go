package federation

import (
	"github.com/samber/lo"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
	"github.com/hanpama/supergraph/internal/typemerge"
)

// valueInstance is one subgraph's definition of an argument or input field.
type valueInstance struct {
	subgraph string
	value    *ir.InputValueDefinition
}

func isRequired(v *ir.InputValueDefinition) bool {
	return v.Type.IsNonNull() && v.DefaultValue == nil
}

// mergeArguments unions optional arguments. An argument required in one
// subgraph must be defined by every subgraph that defines the field.
func (m *merger) mergeArguments(coords string, fis []fieldInstance) map[string]*ir.InputValueDefinition {
	args := make(map[string]*ir.InputValueDefinition)
	var order []string
	seen := make(map[string]bool)
	for _, fi := range fis {
		for _, arg := range fi.field.OrderedArgs() {
			if !seen[arg.Name] {
				seen[arg.Name] = true
				order = append(order, arg.Name)
			}
		}
	}
	for _, name := range order {
		var (
			values            []valueInstance
			missing, required []string
		)
		for _, fi := range fis {
			arg := fi.field.Args[name]
			if arg == nil {
				missing = append(missing, fi.subgraph)
				continue
			}
			values = append(values, valueInstance{subgraph: fi.subgraph, value: arg})
			if isRequired(arg) {
				required = append(required, fi.subgraph)
			}
		}
		if len(missing) > 0 && len(required) > 0 {
			m.addError(ir.ViolationRequiredArgument(coords, name, required, missing).At(values[0].value.Position))
			continue
		}
		merged := m.mergeInputValue(argumentCoordinates(coords, name), values, func(res typemerge.Result, i int) *ir.Violation {
			return ir.ViolationArgumentType(coords, name, res.Mismatch.Existing, res.Mismatch.Incoming)
		})
		merged.Index = len(args)
		args[name] = merged
	}
	return args
}

// mergeInputObject keeps the fields every subgraph defines. A required field
// missing from some subgraph is an error.
func (m *merger) mergeInputObject(def *ir.ParentDefinition) {
	insts := m.instances[def.Name]
	var order []string
	seen := make(map[string]bool)
	for _, in := range insts {
		for _, v := range in.def.OrderedInputValues() {
			if !seen[v.Name] {
				seen[v.Name] = true
				order = append(order, v.Name)
			}
		}
	}
	for _, name := range order {
		var (
			values  []valueInstance
			missing []string
		)
		required := false
		for _, in := range insts {
			v := in.def.InputValues[name]
			if v == nil {
				missing = append(missing, in.subgraph.Name)
				continue
			}
			values = append(values, valueInstance{subgraph: in.subgraph.Name, value: v})
			required = required || isRequired(v)
		}
		if len(missing) > 0 {
			if required {
				m.addError(ir.ViolationRequiredInputValue(def.Name, name, missing).At(values[0].value.Position))
			}
			continue
		}
		coords := ir.Coordinates(def.Name, name)
		merged := m.mergeInputValue(coords, values, func(res typemerge.Result, i int) *ir.Violation {
			return ir.ViolationChildType(coords, res.Mismatch.Existing, values[0].subgraph, res.Mismatch.Incoming, values[i].subgraph)
		})
		merged.Index = len(def.InputValues)
		def.InputValues[name] = merged
	}
}

// mergeInputValue merges the type, default value and facets of one argument
// or input field. Input types take the most restrictive form so that every
// accepted value is valid in all subgraphs.
func (m *merger) mergeInputValue(coords string, values []valueInstance, mismatch func(typemerge.Result, int) *ir.Violation) *ir.InputValueDefinition {
	first := values[0].value
	merged := &ir.InputValueDefinition{
		Name:        first.Name,
		Description: first.Description,
		Type:        first.Type,
		Position:    first.Position,
	}
	for i, vi := range values {
		v := vi.value
		if i > 0 && merged.Type != nil {
			res := typemerge.MostRestrictiveWithDepth(merged.Type, v.Type, m.opts.maxDepth)
			switch {
			case res.Mismatch != nil:
				m.addError(mismatch(res, i).At(v.Position))
				merged.Type = nil
			case res.DepthExceeded:
				m.addError(ir.ViolationNestingDepth(coords, m.opts.maxDepth).At(v.Position))
				merged.Type = res.Type
			default:
				merged.Type = res.Type
			}
		}
		merged.Subgraphs = append(merged.Subgraphs, vi.subgraph)
		if merged.Description == "" {
			merged.Description = v.Description
		}
		if merged.Deprecation == nil {
			merged.Deprecation = v.Deprecation
		}
		merged.Tags = lo.Union(merged.Tags, v.Tags)
		merged.Inaccessible = merged.Inaccessible || v.Inaccessible
	}
	if merged.Type == nil {
		merged.Type = first.Type
	}

	defaults := typemerge.MergeDefaultValues(lo.Map(values, func(vi valueInstance, _ int) *language.Value { return vi.value.DefaultValue }))
	switch {
	case defaults.TypeMismatch:
		m.addError(ir.ViolationDefaultValueType(coords, defaults.Literals).At(first.Position))
	case defaults.ValueMismatch:
		m.addError(ir.ViolationDefaultValue(coords, defaults.Literals).At(first.Position))
	}
	merged.DefaultValue = defaults.Value
	return merged
}

// mergeEnum merges enum values by usage: output enums take the union, input
// enums the intersection, and enums used both ways must agree.
func (m *merger) mergeEnum(def *ir.ParentDefinition) {
	insts := m.instances[def.Name]
	usage := m.enumUsage[def.Name]
	sets := make([][]string, len(insts))
	var union []string
	for i, in := range insts {
		for _, v := range in.def.OrderedEnumValues() {
			sets[i] = append(sets[i], v.Name)
		}
		union = lo.Union(union, sets[i])
	}
	values := union
	switch {
	case usage.input && usage.output:
		for _, set := range sets {
			if len(set) != len(union) {
				m.addError(ir.ViolationSharedEnum(def.Name).At(def.Position))
				break
			}
		}
	case usage.input:
		for _, set := range sets {
			values = lo.Intersect(values, set)
		}
	}
	for _, name := range values {
		merged := &ir.EnumValueDefinition{Name: name, Index: len(def.EnumValues)}
		for _, in := range insts {
			v := in.def.EnumValues[name]
			if v == nil {
				continue
			}
			merged.Subgraphs = append(merged.Subgraphs, in.subgraph.Name)
			if merged.Description == "" {
				merged.Description = v.Description
			}
			if merged.Position == nil {
				merged.Position = v.Position
			}
			if merged.Deprecation == nil {
				merged.Deprecation = v.Deprecation
			}
			merged.Tags = lo.Union(merged.Tags, v.Tags)
			merged.Inaccessible = merged.Inaccessible || v.Inaccessible
		}
		def.EnumValues[name] = merged
	}
}
