package routerconfig_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/hanpama/supergraph/internal/federation"
	"github.com/hanpama/supergraph/internal/routerconfig"
)

var subgraphs = []federation.Subgraph{
	{Name: "products", URL: "http://products/graphql", SDL: `
		extend schema @link(url: "https://specs.apollo.dev/federation/v2.3")
		type Query {
			product(upc: String!): Product @authenticated
		}
		type Product @key(fields: "upc") {
			upc: String!
			name: String
		}
	`},
	{Name: "inventory", URL: "http://inventory/graphql", SDL: `
		extend schema @link(url: "https://specs.apollo.dev/federation/v2.3")
		type Product @key(fields: "upc") {
			upc: String!
			inStock: Boolean @requiresScopes(scopes: [["read:stock"]])
		}
	`},
}

func build(t *testing.T) *routerconfig.Config {
	t.Helper()
	res := federation.Federate(context.Background(), subgraphs)
	require.NoError(t, res.Err())
	c, err := routerconfig.Build(res)
	require.NoError(t, err)
	return c
}

func TestBuild(t *testing.T) {
	c := build(t)
	require.Len(t, c.Version, 16)
	require.Len(t, c.Subgraphs, 2)
	require.Equal(t, "products", c.Subgraphs[0].Name)
	require.Equal(t, "http://products/graphql", c.Subgraphs[0].URL)
	require.NotEmpty(t, c.FederatedSDL)
	require.Equal(t, c.Version, build(t).Version)
}

func TestBuildRejectsFailedComposition(t *testing.T) {
	res := federation.Federate(context.Background(), []federation.Subgraph{{Name: "a", SDL: "type Query {"}})
	_, err := routerconfig.Build(res)
	require.Error(t, err)
}

func TestEncodeBinary(t *testing.T) {
	c := build(t)
	data, err := routerconfig.Encode(c, routerconfig.FormatBinary)
	require.NoError(t, err)

	m, err := routerconfig.Decode(data, routerconfig.FormatBinary)
	require.NoError(t, err)
	fields := m.Descriptor().Fields()
	require.Equal(t, c.Version, m.Get(fields.ByName("version")).String())
	subgraphs := m.Get(fields.ByName("subgraphs")).List()
	require.Equal(t, 2, subgraphs.Len())

	inventory := subgraphs.Get(1).Message()
	types := inventory.Get(inventory.Descriptor().Fields().ByName("configuration_data")).List()
	product := types.Get(0).Message()
	pf := product.Descriptor().Fields()
	require.Equal(t, "Product", product.Get(pf.ByName("type_name")).String())
	require.True(t, product.Get(pf.ByName("is_root_node")).Bool())
	keys := product.Get(pf.ByName("keys")).List()
	require.Equal(t, 1, keys.Len())
	key := keys.Get(0).Message()
	require.Equal(t, "upc", key.Get(key.Descriptor().Fields().ByName("selection_set")).String())
}

func TestEncodeJSON(t *testing.T) {
	c := build(t)
	data, err := routerconfig.Encode(c, routerconfig.FormatJSON)
	require.NoError(t, err)

	var doc struct {
		Version             string
		FieldConfigurations []struct {
			TypeName               string
			FieldName              string
			ArgumentNames          []string
			RequiresAuthentication bool
			RequiredScopes         []struct{ Scopes []string }
		}
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, c.Version, doc.Version)

	byCoords := make(map[string]int)
	for i, fc := range doc.FieldConfigurations {
		byCoords[fc.TypeName+"."+fc.FieldName] = i
	}
	product := doc.FieldConfigurations[byCoords["Query.product"]]
	require.Equal(t, []string{"upc"}, product.ArgumentNames)
	require.True(t, product.RequiresAuthentication)
	inStock := doc.FieldConfigurations[byCoords["Product.inStock"]]
	require.Equal(t, []string{"read:stock"}, inStock.RequiredScopes[0].Scopes)

	m, err := routerconfig.Decode(data, routerconfig.FormatJSON)
	require.NoError(t, err)
	require.Equal(t, c.Version, m.Get(m.Descriptor().Fields().ByName("version")).String())
}

func TestParseFormat(t *testing.T) {
	f, err := routerconfig.ParseFormat("json")
	require.NoError(t, err)
	require.Equal(t, routerconfig.FormatJSON, f)
	f, err = routerconfig.ParseFormat("proto")
	require.NoError(t, err)
	require.Equal(t, routerconfig.FormatBinary, f)
	_, err = routerconfig.ParseFormat("yaml")
	require.Error(t, err)
}

func TestDescriptorFieldNumbers(t *testing.T) {
	msgs := routerconfig.Descriptor().Messages()
	for i := 0; i < msgs.Len(); i++ {
		fields := msgs.Get(i).Fields()
		seen := make(map[protoreflect.FieldNumber]bool)
		for j := 0; j < fields.Len(); j++ {
			n := fields.Get(j).Number()
			require.False(t, seen[n], "duplicate number in %s", msgs.Get(i).Name())
			require.False(t, n >= 19000 && n <= 19999)
			seen[n] = true
		}
	}
}

func TestRenderProto(t *testing.T) {
	out, err := routerconfig.RenderProto()
	require.NoError(t, err)
	require.Contains(t, out, `syntax = "proto3";`)
	require.Contains(t, out, "package supergraph.routerconfig.v1;")
	require.Contains(t, out, "message RouterConfig {")
	require.Contains(t, out, "message SubscriptionFilterCondition {")
}
