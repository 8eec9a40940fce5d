// Package schema renders a federated registry as schema-language documents:
// the router schema, which keeps every coordinate and its persisted
// directives, and the client schema, which hides inaccessible coordinates.
package schema

import (
	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

// Audience selects which rendering of the graph to produce.
type Audience int

const (
	// Router keeps inaccessible coordinates and marks them.
	Router Audience = iota
	// Client omits inaccessible coordinates and every federation directive.
	Client
)

// RouterSDL renders the router schema of reg.
func RouterSDL(reg *ir.Registry) string {
	return language.PrintSchemaDocument(Build(reg, Router))
}

// ClientSDL renders the client schema of reg.
func ClientSDL(reg *ir.Registry) string {
	return language.PrintSchemaDocument(Build(reg, Client))
}

// RouterDocument returns the router schema as a document.
func RouterDocument(reg *ir.Registry) *language.SchemaDocument {
	return Build(reg, Router)
}
