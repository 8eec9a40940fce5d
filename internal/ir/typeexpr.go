package ir

import (
	language "github.com/hanpama/supergraph/internal/language"
)

// TypeExpr represents a GraphQL type expression (e.g. String, [String!], String!).
// NON_NULL never wraps NON_NULL.
type TypeExpr struct {
	Kind   TypeExprKind `json:"kind"`
	OfType *TypeExpr    `json:"ofType,omitempty"`
	Named  string       `json:"named,omitempty"`
}

type TypeExprKind string

const (
	TypeExprKindNamed   TypeExprKind = "NAMED"
	TypeExprKindList    TypeExprKind = "LIST"
	TypeExprKindNonNull TypeExprKind = "NON_NULL"
)

func NamedType(name string) *TypeExpr { return &TypeExpr{Kind: TypeExprKindNamed, Named: name} }
func ListType(t *TypeExpr) *TypeExpr  { return &TypeExpr{Kind: TypeExprKindList, OfType: t} }

// NonNullType wraps t unless it is already non-null.
func NonNullType(t *TypeExpr) *TypeExpr {
	if t.Kind == TypeExprKindNonNull {
		return t
	}
	return &TypeExpr{Kind: TypeExprKindNonNull, OfType: t}
}

// NamedTypeName returns the innermost named type.
func (t *TypeExpr) NamedTypeName() string {
	if t == nil {
		return ""
	}
	if t.Kind == TypeExprKindNamed {
		return t.Named
	}
	return t.OfType.NamedTypeName()
}

func (t *TypeExpr) IsNonNull() bool { return t != nil && t.Kind == TypeExprKindNonNull }

// Nullable strips an outer NON_NULL.
func (t *TypeExpr) Nullable() *TypeExpr {
	if t.IsNonNull() {
		return t.OfType
	}
	return t
}

// Depth counts the wrappers around the named type.
func (t *TypeExpr) Depth() int {
	depth := 0
	for cur := t; cur != nil && cur.Kind != TypeExprKindNamed; cur = cur.OfType {
		depth++
	}
	return depth
}

func (t *TypeExpr) Equal(o *TypeExpr) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind == TypeExprKindNamed {
		return t.Named == o.Named
	}
	return t.OfType.Equal(o.OfType)
}

func (t *TypeExpr) String() string {
	if t == nil {
		return "Unknown"
	}

	switch t.Kind {
	case TypeExprKindNamed:
		return t.Named
	case TypeExprKindList:
		return "[" + t.OfType.String() + "]"
	case TypeExprKindNonNull:
		return t.OfType.String() + "!"
	default:
		return "Unknown"
	}
}

// TypeExprFromAST converts a parsed type reference.
func TypeExprFromAST(t *language.Type) *TypeExpr {
	var inner *TypeExpr
	if t.NamedType != "" {
		inner = NamedType(t.NamedType)
	} else {
		inner = ListType(TypeExprFromAST(t.Elem))
	}
	if t.NonNull {
		return NonNullType(inner)
	}
	return inner
}

// ToAST converts the expression back into a parser type reference.
func (t *TypeExpr) ToAST() *language.Type {
	switch t.Kind {
	case TypeExprKindNonNull:
		inner := t.OfType.ToAST()
		inner.NonNull = true
		return inner
	case TypeExprKindList:
		return &language.Type{Elem: t.OfType.ToAST()}
	default:
		return &language.Type{NamedType: t.Named}
	}
}
