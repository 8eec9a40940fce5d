// Package normalization turns one subgraph document into the canonical
// per-subgraph model used by federation: a type registry, routing
// configuration, authorization and conditional-field data.
package normalization

import (
	"github.com/hashicorp/go-multierror"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

type options struct {
	version    ir.CompatibilityVersion
	url        string
	maxOrScope int
}

type Option func(*options)

// WithVersion selects the compatibility version. The default is the latest.
func WithVersion(v ir.CompatibilityVersion) Option {
	return func(o *options) { o.version = v }
}

// WithURL records the routing URL of the subgraph.
func WithURL(url string) Option {
	return func(o *options) { o.url = url }
}

// WithMaxOrScopes bounds the OR-list length of @requiresScopes requirements.
func WithMaxOrScopes(n int) Option {
	return func(o *options) { o.maxOrScope = n }
}

// Result is the outcome of normalizing one subgraph. Subgraph is nil when
// Errors is not empty. Warnings are reported in both cases.
type Result struct {
	Subgraph *ir.Subgraph
	Errors   []*ir.Violation
	Warnings []*ir.Violation
}

func (r *Result) Success() bool { return len(r.Errors) == 0 }

// Err folds Errors into one error, or returns nil.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, v := range r.Errors {
		merr = multierror.Append(merr, v)
	}
	return merr.ErrorOrNil()
}

// Normalize normalizes a parsed subgraph document.
func Normalize(name string, doc *language.SchemaDocument, opts ...Option) *Result {
	o := options{version: ir.LatestCompatibilityVersion, maxOrScope: ir.DefaultMaxOrScopes}
	for _, opt := range opts {
		opt(&o)
	}
	b := newBuilder(name, doc, o)
	b.build()
	return b.result()
}

// NormalizeSDL parses sdl and normalizes it. A parse failure is reported as
// an unparsableSchema error.
func NormalizeSDL(name, sdl string, opts ...Option) *Result {
	doc, err := language.ParseSchema(name, sdl)
	if err != nil {
		v := ir.ViolationUnparsableDocument(language.ErrorMessage(err)).In(name)
		return &Result{Errors: []*ir.Violation{v}}
	}
	return Normalize(name, doc, opts...)
}
