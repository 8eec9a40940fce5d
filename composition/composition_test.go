package composition_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanpama/supergraph/composition"
)

const products = `
type Query { topProducts: [Product!]! }
type Product @key(fields: "upc") { upc: String! name: String! price: Int @tag(name: "internal") }
`

const reviews = `
type Product @key(fields: "upc") { upc: String! reviews: [Review!]! }
type Review { body: String! }
`

func TestFederateAndBuildRouterConfig(t *testing.T) {
	ctx := context.Background()
	res, contracts := composition.FederateWithContracts(ctx, []composition.Subgraph{
		{Name: "products", URL: "http://products/graphql", SDL: products},
		{Name: "reviews", URL: "http://reviews/graphql", SDL: reviews},
	}, composition.WithContract("public", composition.ContractSpec{TagExclusions: []string{"internal"}}))
	require.NoError(t, res.Err())
	require.Contains(t, res.FederatedSDL, "reviews: [Review!]!")

	public := contracts["public"]
	require.NotNil(t, public)
	require.NoError(t, public.Err())
	require.NotContains(t, public.ClientSDL, "price")

	cfg, err := composition.RouterConfig(res)
	require.NoError(t, err)
	require.Len(t, cfg.Subgraphs, 2)
	require.NotEmpty(t, cfg.Version)
}

func TestNormalize(t *testing.T) {
	res := composition.Normalize(context.Background(), composition.Subgraph{Name: "reviews", SDL: reviews})
	require.NoError(t, res.Err())
	require.Contains(t, res.Subgraph.ConfigurationData, "Product")

	res = composition.Normalize(context.Background(), composition.Subgraph{Name: "broken", SDL: "type {"})
	require.Error(t, res.Err())
	require.Nil(t, res.Subgraph)
}
