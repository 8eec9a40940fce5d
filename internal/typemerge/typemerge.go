// Package typemerge combines type references, default values and scope sets
// contributed by several subgraphs.
package typemerge

import (
	"github.com/hanpama/supergraph/internal/ir"
)

// DefaultMaxDepth bounds the wrappers walked while merging.
const DefaultMaxDepth = 16

// Mismatch carries the two incompatible type markers for the caller to report.
type Mismatch struct {
	Existing string
	Incoming string
}

type Result struct {
	Type *ir.TypeExpr
	// Mismatch is set when the references differ in list structure or in
	// their named type.
	Mismatch *Mismatch
	// DepthExceeded is set when the nesting exceeded the bound; Type then
	// holds the bare named type of the first argument.
	DepthExceeded bool
}

func (r Result) OK() bool { return r.Mismatch == nil && !r.DepthExceeded }

type restriction int

const (
	mostRestrictive restriction = iota
	leastRestrictive
)

// MostRestrictive merges a and b preferring non-null at every level.
func MostRestrictive(a, b *ir.TypeExpr) Result {
	return merge(a, b, mostRestrictive, DefaultMaxDepth)
}

// LeastRestrictive merges a and b preferring nullable at every level.
func LeastRestrictive(a, b *ir.TypeExpr) Result {
	return merge(a, b, leastRestrictive, DefaultMaxDepth)
}

// MostRestrictiveWithDepth is MostRestrictive with an explicit depth bound.
func MostRestrictiveWithDepth(a, b *ir.TypeExpr, maxDepth int) Result {
	return merge(a, b, mostRestrictive, maxDepth)
}

// LeastRestrictiveWithDepth is LeastRestrictive with an explicit depth bound.
func LeastRestrictiveWithDepth(a, b *ir.TypeExpr, maxDepth int) Result {
	return merge(a, b, leastRestrictive, maxDepth)
}

func merge(a, b *ir.TypeExpr, mode restriction, maxDepth int) Result {
	t, ok, exceeded := mergeLevel(a, b, mode, 0, maxDepth)
	switch {
	case exceeded:
		return Result{Type: ir.NamedType(a.NamedTypeName()), DepthExceeded: true}
	case !ok:
		return Result{Mismatch: &Mismatch{Existing: a.String(), Incoming: b.String()}}
	}
	return Result{Type: t}
}

func mergeLevel(a, b *ir.TypeExpr, mode restriction, depth, maxDepth int) (*ir.TypeExpr, bool, bool) {
	if depth > maxDepth {
		return nil, false, true
	}
	aNonNull, bNonNull := a.IsNonNull(), b.IsNonNull()
	if aNonNull || bNonNull {
		inner, ok, exceeded := mergeLevel(a.Nullable(), b.Nullable(), mode, depth+1, maxDepth)
		if !ok {
			return nil, false, exceeded
		}
		nonNull := aNonNull && bNonNull
		if mode == mostRestrictive {
			nonNull = aNonNull || bNonNull
		}
		if nonNull {
			return ir.NonNullType(inner), true, false
		}
		return inner, true, false
	}
	if a.Kind != b.Kind {
		return nil, false, false
	}
	if a.Kind == ir.TypeExprKindNamed {
		if a.Named != b.Named {
			return nil, false, false
		}
		return ir.NamedType(a.Named), true, false
	}
	inner, ok, exceeded := mergeLevel(a.OfType, b.OfType, mode, depth+1, maxDepth)
	if !ok {
		return nil, false, exceeded
	}
	return ir.ListType(inner), true, false
}

// IsAtLeastAsRestrictive reports whether a accepts no more values than b:
// same structure, and a is non-null wherever b is.
func IsAtLeastAsRestrictive(a, b *ir.TypeExpr) bool {
	if b.IsNonNull() && !a.IsNonNull() {
		return false
	}
	a, b = a.Nullable(), b.Nullable()
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == ir.TypeExprKindNamed {
		return a.Named == b.Named
	}
	return IsAtLeastAsRestrictive(a.OfType, b.OfType)
}
