// Package composition is the public entry point for composing federated
// GraphQL subgraphs into a supergraph and its router configuration.
//
// A typical caller normalizes or federates subgraph SDL and then encodes the
// routing configuration:
//
//	res := composition.Federate(ctx, []composition.Subgraph{
//		{Name: "products", URL: "http://products/graphql", SDL: productsSDL},
//		{Name: "reviews", URL: "http://reviews/graphql", SDL: reviewsSDL},
//	})
//	if err := res.Err(); err != nil {
//		return err
//	}
//	cfg, err := composition.RouterConfig(res)
package composition

import (
	"context"

	"github.com/hanpama/supergraph/internal/eventbus"
	"github.com/hanpama/supergraph/internal/federation"
	"github.com/hanpama/supergraph/internal/ir"
	"github.com/hanpama/supergraph/internal/normalization"
	"github.com/hanpama/supergraph/internal/routerconfig"
)

type (
	Subgraph             = federation.Subgraph
	ContractSpec         = federation.ContractSpec
	Option               = federation.Option
	Result               = federation.Result
	NormalizationResult  = normalization.Result
	Violation            = ir.Violation
	Config               = routerconfig.Config
	EventBus             = eventbus.Bus
	CompatibilityVersion = ir.CompatibilityVersion
)

var (
	WithVersion             = federation.WithVersion
	WithMaxOrScopes         = federation.WithMaxOrScopes
	WithMaxTypeNestingDepth = federation.WithMaxTypeNestingDepth
	WithContract            = federation.WithContract
	WithEventBus            = federation.WithEventBus
	NewEventBus             = eventbus.New
)

const LatestCompatibilityVersion = ir.LatestCompatibilityVersion

// Normalize validates one subgraph and builds its normalized form.
func Normalize(ctx context.Context, sg Subgraph, opts ...Option) *NormalizationResult {
	return federation.Normalize(ctx, sg, opts...)
}

// Federate composes the base supergraph.
func Federate(ctx context.Context, subgraphs []Subgraph, opts ...Option) *Result {
	return federation.Federate(ctx, subgraphs, opts...)
}

// FederateWithContracts composes the base supergraph and every contract
// registered with WithContract. Contracts are only composed when the base
// graph succeeds.
func FederateWithContracts(ctx context.Context, subgraphs []Subgraph, opts ...Option) (*Result, map[string]*Result) {
	return federation.FederateWithContracts(ctx, subgraphs, opts...)
}

// RouterConfig builds the routing configuration of a successful result.
func RouterConfig(res *Result) (*Config, error) {
	return routerconfig.Build(res)
}
