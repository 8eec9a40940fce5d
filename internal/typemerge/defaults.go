package typemerge

import (
	language "github.com/hanpama/supergraph/internal/language"
)

// DefaultValueResult is the outcome of merging the default values one
// argument or input field declares across subgraphs.
type DefaultValueResult struct {
	// Value is the merged default; nil when any subgraph omits it or on conflict.
	Value *language.Value
	// TypeMismatch is set when the declared defaults have incompatible kinds.
	TypeMismatch bool
	// ValueMismatch is set when the defaults share a kind but differ.
	ValueMismatch bool
	// Literals lists the distinct canonical defaults, in first-seen order.
	Literals []string
}

func (r DefaultValueResult) OK() bool { return !r.TypeMismatch && !r.ValueMismatch }

// MergeDefaultValues merges per-subgraph defaults. A nil entry means the
// subgraph declares no default.
func MergeDefaultValues(values []*language.Value) DefaultValueResult {
	var (
		res      DefaultValueResult
		first    *language.Value
		omitted  bool
		literals = map[string]bool{}
	)
	for _, v := range values {
		if v == nil {
			omitted = true
			continue
		}
		lit := v.String()
		if !literals[lit] {
			literals[lit] = true
			res.Literals = append(res.Literals, lit)
		}
		if first == nil {
			first = v
			continue
		}
		if valueClass(first) != valueClass(v) {
			res.TypeMismatch = true
		} else if first.String() != lit {
			res.ValueMismatch = true
		}
	}
	if res.TypeMismatch {
		res.ValueMismatch = false
	}
	if first != nil && !omitted && res.OK() {
		res.Value = first
	}
	return res
}

type valueKindClass int

const (
	classNull valueKindClass = iota
	classNumber
	classString
	classBoolean
	classEnum
	classList
	classObject
	classVariable
)

func valueClass(v *language.Value) valueKindClass {
	switch v.Kind {
	case language.IntValue, language.FloatValue:
		return classNumber
	case language.StringValue, language.BlockValue:
		return classString
	case language.BooleanValue:
		return classBoolean
	case language.EnumValue:
		return classEnum
	case language.ListValue:
		return classList
	case language.ObjectValue:
		return classObject
	case language.Variable:
		return classVariable
	default:
		return classNull
	}
}
