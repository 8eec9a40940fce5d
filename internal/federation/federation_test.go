package federation_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/hanpama/supergraph/internal/eventbus"
	"github.com/hanpama/supergraph/internal/events"
	"github.com/hanpama/supergraph/internal/federation"
	"github.com/hanpama/supergraph/internal/ir"
)

const linkV2 = `extend schema @link(url: "https://specs.apollo.dev/federation/v2.3")` + "\n"

func v2(name, sdl string) federation.Subgraph {
	return federation.Subgraph{Name: name, URL: "http://" + name, SDL: linkV2 + sdl}
}

func kinds(vs []*ir.Violation) []ir.ViolationKind {
	out := make([]ir.ViolationKind, len(vs))
	for i, v := range vs {
		out[i] = v.Kind
	}
	return out
}

func mustFederate(t *testing.T, subgraphs []federation.Subgraph, opts ...federation.Option) *federation.Result {
	t.Helper()
	res := federation.Federate(context.Background(), subgraphs, opts...)
	require.NoError(t, res.Err())
	return res
}

var productsAndReviews = []federation.Subgraph{
	{Name: "products", URL: "http://products", SDL: `
		type Query {
			products: [Product]
		}
		type Product @key(fields: "upc") {
			upc: String!
			name: String
		}
	`},
	{Name: "reviews", URL: "http://reviews", SDL: `
		type Product @key(fields: "upc") {
			upc: String!
			reviews: [Review]
		}
		type Review {
			body: String
		}
	`},
}

func TestFederateEntityAcrossSubgraphs(t *testing.T) {
	res := mustFederate(t, productsAndReviews)

	product := res.Registry.Lookup("Product")
	require.Equal(t, []string{"products", "reviews"}, product.Subgraphs)
	require.Equal(t, []string{"reviews"}, product.Fields["reviews"].ResolvedBy)
	require.Equal(t, []string{"products", "reviews"}, product.Fields["upc"].ResolvedBy)
	require.Len(t, product.Keys, 2)

	cfg := res.Subgraph("reviews").ConfigurationData["Product"]
	require.Equal(t, []string{"upc", "reviews"}, cfg.FieldNames)
	require.True(t, cfg.IsRootNode)

	_, err := gqlparser.LoadSchema(&ast.Source{Input: res.FederatedSDL})
	require.NoError(t, err)
	require.Contains(t, res.ClientSDL, "reviews: [Review]")
}

func TestFederateIsOrderIndependent(t *testing.T) {
	a := mustFederate(t, productsAndReviews)
	b := mustFederate(t, []federation.Subgraph{productsAndReviews[1], productsAndReviews[0]})
	require.Empty(t, cmp.Diff(a.FederatedSDL, b.FederatedSDL))
	require.Equal(t, a.FieldConfigurations, b.FieldConfigurations)

	again := mustFederate(t, productsAndReviews)
	require.Equal(t, a.FederatedSDL, again.FederatedSDL)
	require.Equal(t, a.ClientSDL, again.ClientSDL)
}

func TestFederateShareableConflict(t *testing.T) {
	subgraphs := []federation.Subgraph{
		v2("a", `
			type Query { entity: Entity }
			type Entity @key(fields: "id") { id: ID! age: Int }
		`),
		v2("b", `
			type Entity @key(fields: "id") { id: ID! age: Int }
		`),
	}
	res := federation.Federate(context.Background(), subgraphs)
	require.Len(t, res.Errors, 1)
	v := res.Errors[0]
	require.Equal(t, ir.ViolationShareableFieldDefinitions, v.Kind)
	require.Equal(t, []string{"Entity.age"}, v.Coordinates)
	require.Contains(t, v.Message, `"a"`)
	require.Contains(t, v.Message, `"b"`)
	require.Nil(t, res.Registry)

	// Repeating the run gives the same diagnostics.
	again := federation.Federate(context.Background(), []federation.Subgraph{subgraphs[1], subgraphs[0]})
	require.Equal(t, res.Errors, again.Errors)
}

var scopedEntity = []federation.Subgraph{
	v2("a", `
		type Query { entity: Entity }
		type Entity @key(fields: "id") {
			id: ID! @requiresScopes(scopes: [["read:object"]])
		}
	`),
	v2("b", `
		type Entity @key(fields: "id") {
			id: ID! @requiresScopes(scopes: [["read:all"]])
			name: String
		}
	`),
}

func TestFederateScopeUnion(t *testing.T) {
	res := mustFederate(t, scopedEntity)

	data := res.AuthorizationData["Entity"]
	require.NotNil(t, data)
	id := data.FieldAuthorizationData["id"]
	require.True(t, id.RequiresAuthentication)
	require.Equal(t, [][]string{{"read:object"}, {"read:all"}}, id.RequiredScopes)
	require.Nil(t, data.FieldAuthorizationData["name"])

	require.Contains(t, res.FieldConfigurations, &ir.FieldConfiguration{
		TypeName:               "Entity",
		FieldName:              "id",
		ArgumentNames:          []string{},
		RequiresAuthentication: true,
		RequiredScopes:         [][]string{{"read:object"}, {"read:all"}},
	})
}

func TestFederateScopeLimit(t *testing.T) {
	mustFederate(t, scopedEntity, federation.WithMaxOrScopes(2))

	res := federation.Federate(context.Background(), scopedEntity, federation.WithMaxOrScopes(1))
	require.Equal(t, []ir.ViolationKind{ir.ViolationOrScopesLimit}, kinds(res.Errors))
	require.Equal(t, []string{"Entity.id"}, res.Errors[0].Coordinates)
}

func TestFederateInheritsInterfaceAuthorization(t *testing.T) {
	res := mustFederate(t, []federation.Subgraph{
		v2("a", `
			type Query { node: Node }
			interface Node @authenticated { id: ID! }
			type User implements Node { id: ID! name: String }
		`),
	})
	user := res.AuthorizationData["User"]
	require.NotNil(t, user)
	require.True(t, user.RequiresAuthentication)
	require.True(t, user.FieldAuthorizationData["name"].RequiresAuthentication)
}

func TestFederateIncompatibleParentKind(t *testing.T) {
	res := federation.Federate(context.Background(), []federation.Subgraph{
		v2("a", `
			type Query { x: X }
			type X { id: ID }
		`),
		v2("b", `
			interface X { id: ID }
		`),
	})
	require.Contains(t, kinds(res.Errors), ir.ViolationIncompatibleParentKind)
}

func TestFederateInterfaceObject(t *testing.T) {
	res := mustFederate(t, []federation.Subgraph{
		v2("a", `
			type Query { media: [Media] }
			interface Media @key(fields: "id") { id: ID! title: String }
			type Book implements Media @key(fields: "id") { id: ID! title: String }
		`),
		v2("b", `
			type Media @key(fields: "id") @interfaceObject { id: ID! rating: Int }
		`),
	})

	media := res.Registry.Lookup("Media")
	require.Equal(t, "INTERFACE", string(media.Kind))
	require.Equal(t, []string{"b"}, media.Fields["rating"].ResolvedBy)

	book := res.Registry.Lookup("Book")
	require.Equal(t, []string{"b"}, book.Fields["rating"].ResolvedBy)
	require.Contains(t, book.Subgraphs, "b")

	cfg := res.Subgraph("b").ConfigurationData["Media"]
	require.Equal(t, []string{"Book"}, cfg.EntityInterfaceConcreteTypeNames)
}

func TestFederateArguments(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want ir.ViolationKind
	}{
		{
			name: "required argument missing elsewhere",
			a:    `type Query { f(x: Int!): Int @shareable }`,
			b:    `type Query { f: Int @shareable }`,
			want: ir.ViolationInvalidRequiredArgument,
		},
		{
			name: "different defaults",
			a:    `type Query { f(x: Int = 1): Int @shareable }`,
			b:    `type Query { f(x: Int = 2): Int @shareable }`,
			want: ir.ViolationIncompatibleDefaultValue,
		},
		{
			name: "incompatible output types",
			a:    `type Query { f: Int @shareable }`,
			b:    `type Query { f: String @shareable }`,
			want: ir.ViolationIncompatibleChildType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := federation.Federate(context.Background(), []federation.Subgraph{v2("a", tt.a), v2("b", tt.b)})
			require.Equal(t, []ir.ViolationKind{tt.want}, kinds(res.Errors))
		})
	}
}

func TestFederateOptionalArgumentsUnion(t *testing.T) {
	res := mustFederate(t, []federation.Subgraph{
		v2("a", `type Query { f(x: Int): Int! @shareable }`),
		v2("b", `type Query { f(y: Int): Int @shareable }`),
	})
	f := res.Registry.Lookup("Query").Fields["f"]
	require.Len(t, f.Args, 2)
	require.Equal(t, "Int!", f.Type.String())
	require.Contains(t, res.FieldConfigurations, &ir.FieldConfiguration{
		TypeName:       "Query",
		FieldName:      "f",
		ArgumentNames:  []string{"x", "y"},
		RequiredScopes: [][]string{},
	})
}

func TestFederateOverride(t *testing.T) {
	res := mustFederate(t, []federation.Subgraph{
		v2("a", `
			type Query { e: E }
			type E @key(fields: "id") { id: ID! name: String }
		`),
		v2("b", `
			type E @key(fields: "id") {
				id: ID!
				name: String @override(from: "a")
				extra: String @override(from: "zzz")
			}
		`),
	})
	e := res.Registry.Lookup("E")
	require.Equal(t, []string{"b"}, e.Fields["name"].ResolvedBy)
	require.Equal(t, []string{"id"}, res.Subgraph("a").ConfigurationData["E"].FieldNames)
	require.Equal(t, []ir.ViolationKind{ir.ViolationOverrideFromUnknownSubgraph}, kinds(res.Warnings))
	require.Equal(t, "b", res.Warnings[0].Subgraph)
}

func TestFederateAllExternal(t *testing.T) {
	res := federation.Federate(context.Background(), []federation.Subgraph{
		v2("a", `
			type Query { e: E }
			type E @key(fields: "id") { id: ID! name: String @external }
		`),
		v2("b", `
			type E @key(fields: "id") { id: ID! name: String @external }
		`),
	})
	require.Contains(t, kinds(res.Errors), ir.ViolationAllExternalFieldInstances)
}

func TestFederateAbstractCoercion(t *testing.T) {
	res := mustFederate(t, []federation.Subgraph{
		v2("a", `
			type Query { node: Node @shareable }
			interface Node { id: ID! }
			type User implements Node { id: ID! @shareable }
		`),
		v2("b", `
			type Query { node: User @shareable }
			type User { id: ID! @shareable }
		`),
	})
	require.Equal(t, "Node", res.Registry.Lookup("Query").Fields["node"].Type.String())
	require.Equal(t, []string{"Node"}, res.Registry.Lookup("User").Interfaces)

	res = federation.Federate(context.Background(), []federation.Subgraph{
		v2("a", `
			type Query { node: Node @shareable }
			interface Node { id: ID! }
			type User implements Node { id: ID! @shareable }
			type Admin implements Node { id: ID! @shareable }
		`),
		v2("b", `
			type Query { node: User @shareable }
			type User { id: ID! @shareable }
		`),
		v2("c", `
			type Query { node: Admin @shareable }
			type Admin { id: ID! @shareable }
		`),
	})
	require.Equal(t, []ir.ViolationKind{ir.ViolationAmbiguousConcreteTypeCoercion}, kinds(res.Errors))
	require.Contains(t, res.Errors[0].Message, `"b"`)
	require.Contains(t, res.Errors[0].Message, `"c"`)
}

func TestFederateEnums(t *testing.T) {
	res := mustFederate(t, []federation.Subgraph{
		v2("a", `
			type Query { color: Color @shareable size(s: Size): Int @shareable }
			enum Color { RED }
			enum Size { S M }
		`),
		v2("b", `
			type Query { color: Color @shareable size(s: Size): Int @shareable }
			enum Color { GREEN }
			enum Size { M L }
		`),
	})
	values := func(name string) []string {
		var out []string
		for _, v := range res.Registry.Lookup(name).OrderedEnumValues() {
			out = append(out, v.Name)
		}
		return out
	}
	require.ElementsMatch(t, []string{"RED", "GREEN"}, values("Color"))
	require.Equal(t, []string{"M"}, values("Size"))

	failed := federation.Federate(context.Background(), []federation.Subgraph{
		v2("a", `
			type Query { shared(c: Color): Color @shareable }
			enum Color { RED }
		`),
		v2("b", `
			type Query { shared(c: Color): Color @shareable }
			enum Color { RED GREEN }
		`),
	})
	require.Equal(t, []ir.ViolationKind{ir.ViolationIncompatibleSharedEnum}, kinds(failed.Errors))
}

func TestFederateInputObjects(t *testing.T) {
	res := mustFederate(t, []federation.Subgraph{
		v2("a", `
			type Query { f(in: In): Int @shareable }
			input In { x: Int y: Int }
		`),
		v2("b", `
			type Query { f(in: In): Int @shareable }
			input In { x: Int z: Int }
		`),
	})
	in := res.Registry.Lookup("In")
	require.Len(t, in.InputValues, 1)
	require.NotNil(t, in.InputValues["x"])

	failed := federation.Federate(context.Background(), []federation.Subgraph{
		v2("a", `
			type Query { f(in: In): Int @shareable }
			input In { x: Int }
		`),
		v2("b", `
			type Query { f(in: In): Int @shareable }
			input In { x: Int z: Int! }
		`),
	})
	require.Equal(t, []ir.ViolationKind{ir.ViolationInvalidRequiredInputValue}, kinds(failed.Errors))
	require.Equal(t, []string{"In.z"}, failed.Errors[0].Coordinates)
}

func TestFederateImplicitKeys(t *testing.T) {
	res := mustFederate(t, []federation.Subgraph{
		v2("a", `
			type Query { e: E }
			type E @key(fields: "upc") { upc: String! id: ID! @shareable name: String }
		`),
		v2("b", `
			type E @key(fields: "id") { id: ID! age: Int }
		`),
	})
	cfg := res.Subgraph("a").ConfigurationData["E"]
	require.Contains(t, cfg.Keys, &ir.RequiredFieldConfiguration{SelectionSet: "id", DisableEntityResolver: true})
	require.NotContains(t, res.Subgraph("b").ConfigurationData["E"].Keys,
		&ir.RequiredFieldConfiguration{SelectionSet: "upc", DisableEntityResolver: true})
}

func TestFederateUnresolvableField(t *testing.T) {
	res := federation.Federate(context.Background(), []federation.Subgraph{
		v2("a", `
			type Query { user: User }
			type User { id: ID! @shareable }
		`),
		v2("b", `
			type User { id: ID! @shareable name: String }
		`),
	})
	require.Equal(t, []ir.ViolationKind{ir.ViolationUnresolvableField}, kinds(res.Errors))
	require.Equal(t, []string{"User.name"}, res.Errors[0].Coordinates)
	require.Contains(t, res.Errors[0].Message, `"Query.user"`)
}

func TestFederateContracts(t *testing.T) {
	subgraphs := []federation.Subgraph{
		v2("a", `
			type Query {
				pub: Int @tag(name: "public")
				priv: Int @tag(name: "internal")
				plain: Int
			}
		`),
	}
	base, contracts := federation.FederateWithContracts(context.Background(), subgraphs,
		federation.WithContract("public", federation.ContractSpec{TagInclusions: []string{"public"}}),
		federation.WithContract("external", federation.ContractSpec{TagExclusions: []string{"internal"}}),
	)
	require.NoError(t, base.Err())
	require.Contains(t, base.ClientSDL, "priv")
	require.Len(t, contracts, 2)

	public := contracts["public"]
	require.NoError(t, public.Err())
	require.Equal(t, "public", public.Contract)
	require.Contains(t, public.ClientSDL, "pub")
	require.NotContains(t, public.ClientSDL, "priv")
	require.NotContains(t, public.ClientSDL, "plain")
	require.Contains(t, public.FederatedSDL, "priv")

	external := contracts["external"]
	require.NoError(t, external.Err())
	require.NotContains(t, external.ClientSDL, "priv")
	require.Contains(t, external.ClientSDL, "plain")
}

func TestFederateNoQueryRoot(t *testing.T) {
	res := federation.Federate(context.Background(), []federation.Subgraph{
		v2("a", `type Mutation { m: Int }`),
	})
	require.Equal(t, []ir.ViolationKind{ir.ViolationNoQueryRootType}, kinds(res.Errors))
}

func TestFederateSubgraphNames(t *testing.T) {
	sdl := `type Query { a: Int }`
	res := federation.Federate(context.Background(), []federation.Subgraph{
		{Name: "a", SDL: sdl},
		{Name: "a", SDL: sdl},
		{Name: "", SDL: sdl},
	})
	require.ElementsMatch(t,
		[]ir.ViolationKind{ir.ViolationDuplicateSubgraphName, ir.ViolationEmptySubgraphName},
		kinds(res.Errors))
	require.Empty(t, res.Subgraphs)
}

func TestFederateNormalizationFailures(t *testing.T) {
	res := federation.Federate(context.Background(), []federation.Subgraph{
		{Name: "good", SDL: `type Query { a: Int }`},
		{Name: "bad", SDL: `type Query {`},
	})
	require.Equal(t, []ir.ViolationKind{ir.ViolationUnparsableSchema}, kinds(res.Errors))
	require.Equal(t, "bad", res.Errors[0].Subgraph)
	require.Len(t, res.Subgraphs, 1)
	require.EqualError(t, res.Err(), "1 error occurred:\n\t* "+res.Errors[0].Error()+"\n\n")
}

func TestFederatePublishesEvents(t *testing.T) {
	bus := eventbus.New()
	var phases []string
	eventbus.Subscribe(bus, func(_ context.Context, e events.NormalizationFinish) {
		phases = append(phases, "normalized")
	})
	eventbus.Subscribe(bus, func(_ context.Context, e events.FederationFinish) {
		phases = append(phases, "federated")
	})
	eventbus.Subscribe(bus, func(_ context.Context, e events.CompositionFinish) {
		phases = append(phases, "composed:"+strings.Join(e.Subgraphs, ","))
		require.Empty(t, e.Errors)
	})
	mustFederate(t, productsAndReviews[:1], federation.WithEventBus(bus))
	require.Equal(t, []string{"normalized", "federated", "composed:products"}, phases)
}
