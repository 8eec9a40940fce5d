package normalization_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/supergraph/internal/ir"
	"github.com/hanpama/supergraph/internal/normalization"
)

const linkV2 = `extend schema @link(url: "https://specs.apollo.dev/federation/v2.3")
`

func kinds(vs []*ir.Violation) []ir.ViolationKind {
	out := make([]ir.ViolationKind, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Kind)
	}
	return out
}

func mustNormalize(t *testing.T, sdl string, opts ...normalization.Option) *ir.Subgraph {
	t.Helper()
	res := normalization.NormalizeSDL("subgraph", sdl, opts...)
	require.NoError(t, res.Err())
	require.NotNil(t, res.Subgraph)
	return res.Subgraph
}

func TestNormalizeSimpleEntity(t *testing.T) {
	res := normalization.NormalizeSDL("products", `
		type Entity @key(fields: "id") {
			id: ID!
			name: String!
		}
	`)
	require.Empty(t, res.Errors)
	require.Empty(t, res.Warnings)

	want := map[string]*ir.ConfigurationData{
		"Entity": {
			TypeName:   "Entity",
			FieldNames: []string{"id", "name"},
			IsRootNode: true,
			Keys:       []*ir.RequiredFieldConfiguration{{FieldName: "", SelectionSet: "id"}},
		},
	}
	require.Empty(t, cmp.Diff(want, res.Subgraph.ConfigurationData))

	entity := res.Subgraph.Registry.Lookup("Entity")
	require.True(t, entity.IsEntity)
	require.Equal(t, &ir.EntityKey{Parent: "Entity", Siblings: []string{"id"}}, entity.Keys[0].Key)
	require.Equal(t, ir.EntityModelV1, res.Subgraph.EntityModel)
}

func TestNormalizeIncompatibleKeyField(t *testing.T) {
	res := normalization.NormalizeSDL("products", `
		type Entity @key(fields: "name") {
			id: ID!
		}
	`)
	require.Nil(t, res.Subgraph)
	require.Len(t, res.Errors, 1)
	require.Equal(t, ir.ViolationUndefinedFieldInFieldSet, res.Errors[0].Kind)
	require.Equal(t, "products", res.Errors[0].Subgraph)
	require.Error(t, res.Err())
}

func TestNormalizeFailures(t *testing.T) {
	tests := []struct {
		name string
		sdl  string
		want []ir.ViolationKind
	}{
		{
			name: "unparsable",
			sdl:  `type {`,
			want: []ir.ViolationKind{ir.ViolationUnparsableSchema},
		},
		{
			name: "duplicates",
			sdl: `
				type Query { a: Int a: String }
				type Query { b: Int }
				enum E { A A }
				union U = Query | Query
			`,
			want: []ir.ViolationKind{
				ir.ViolationDuplicateFieldDefinition,
				ir.ViolationDuplicateTypeDefinition,
				ir.ViolationDuplicateEnumValue,
				ir.ViolationDuplicateUnionMember,
			},
		},
		{
			name: "extension without base",
			sdl: `
				type Query { a: Int }
				extend type Missing { a: Int }
				extend enum E { A }
				enum E2 { B }
				extend input E2 { c: Int }
			`,
			want: []ir.ViolationKind{
				ir.ViolationNoBaseDefinitionForExtension,
				ir.ViolationNoBaseDefinitionForExtension,
				ir.ViolationIncompatibleExtensionKind,
			},
		},
		{
			name: "references",
			sdl: `
				type Query { a: Missing b(x: Query): Int c: In }
				input In { f: Query }
				union U = In
				type T implements Query { a: Int }
			`,
			want: []ir.ViolationKind{
				ir.ViolationUndefinedType,
				ir.ViolationInvalidInputType,
				ir.ViolationInvalidOutputType,
				ir.ViolationInvalidInputType,
				ir.ViolationInvalidUnionMember,
				ir.ViolationInvalidImplementedType,
			},
		},
		{
			name: "empty types",
			sdl: `
				type Query { a: Int }
				interface I
				input In
			`,
			want: []ir.ViolationKind{ir.ViolationNoDefinedMembers, ir.ViolationNoDefinedMembers},
		},
		{
			name: "directive usage",
			sdl: `
				type Query {
					a: Int @foo
					b: Int @key(fields: "a")
					c: Int @deprecated @deprecated
					d: Int @provides
					e: Int @tag(name: 1)
				}
			`,
			want: []ir.ViolationKind{
				ir.ViolationUndefinedDirective,
				ir.ViolationInvalidDirectiveLocation,
				ir.ViolationInvalidRepeatedDirective,
				ir.ViolationUndefinedRequiredArgument,
				ir.ViolationInvalidDirectiveArgument,
			},
		},
		{
			name: "self override",
			sdl:  linkV2 + `type Query { a: Int @override(from: "subgraph") }`,
			want: []ir.ViolationKind{ir.ViolationSelfOverride},
		},
		{
			name: "interface object without key",
			sdl:  linkV2 + `type Query { a: Int } type Media @interfaceObject { title: String }`,
			want: []ir.ViolationKind{ir.ViolationInterfaceObjectWithoutKey},
		},
		{
			name: "provides on leaf",
			sdl: `
				type Query { a: Int @provides(fields: "b") }
			`,
			want: []ir.ViolationKind{ir.ViolationInvalidConditionalFieldSetTarget},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := normalization.NormalizeSDL("subgraph", tt.sdl)
			require.Nil(t, res.Subgraph)
			require.ElementsMatch(t, tt.want, kinds(res.Errors))
		})
	}
}

func TestNormalizeUnsupportedVersion(t *testing.T) {
	res := normalization.NormalizeSDL("a", `type Query { a: Int }`, normalization.WithVersion("2"))
	require.Equal(t, []ir.ViolationKind{ir.ViolationUnsupportedCompatibilityVersion}, kinds(res.Errors))
}

func TestNormalizeInterfaceImplementation(t *testing.T) {
	res := normalization.NormalizeSDL("a", `
		type Query { node: Node }
		interface Node {
			id: ID!
			name(lang: String): String
		}
		type User implements Node {
			id: ID
			name: String
		}
	`)
	require.Len(t, res.Errors, 1)
	v := res.Errors[0]
	require.Equal(t, ir.ViolationInvalidInterfaceImplementation, v.Kind)
	require.Equal(t, []string{"User", "User.id", "User.name"}, v.Coordinates)
}

func TestNormalizeOrphanExtension(t *testing.T) {
	sg := mustNormalize(t, `
		type Query { topReviews: [Review] }
		type Review { body: String! }
		extend type Product @key(fields: "upc") {
			upc: String! @external
			reviews: [Review]
		}
	`)
	product := sg.Registry.Lookup("Product")
	require.True(t, product.IsExtensionOrphan)
	require.False(t, product.Fields["upc"].External)

	cfg := sg.ConfigurationData["Product"]
	require.Equal(t, []string{"upc", "reviews"}, cfg.FieldNames)
	require.Empty(t, cfg.ExternalFieldNames)
	require.True(t, cfg.IsRootNode)
	require.False(t, sg.ConfigurationData["Review"].IsRootNode)
}

func TestNormalizeRootTypeRenaming(t *testing.T) {
	sg := mustNormalize(t, `
		schema { query: RootQuery }
		type RootQuery { me: User }
		type User { id: ID! friend: RootQuery }
	`)
	require.Nil(t, sg.Registry.Lookup("RootQuery"))
	require.NotNil(t, sg.Registry.Lookup("Query"))
	require.Equal(t, "Query", sg.Registry.Lookup("User").Fields["friend"].Type.String())
	require.Equal(t, "RootQuery", sg.OperationTypes[ir.QueryTypeName])
	require.True(t, sg.ConfigurationData["Query"].IsRootNode)
}

func TestNormalizeConditionalKeyField(t *testing.T) {
	sdl := `
		type Query { review: Review }
		type Review @key(fields: "id") {
			id: ID!
			author: User @provides(fields: "id")
		}
		type User @key(fields: "id") {
			id: ID!
			name: String
		}
	`
	t.Run("v1 warns", func(t *testing.T) {
		res := normalization.NormalizeSDL("reviews", sdl)
		require.Empty(t, res.Errors)
		require.Equal(t, []ir.ViolationKind{ir.ViolationNonExternalConditionalKeyField}, kinds(res.Warnings))
	})
	t.Run("v2 fails", func(t *testing.T) {
		res := normalization.NormalizeSDL("reviews", linkV2+sdl)
		require.Nil(t, res.Subgraph)
		require.Equal(t, []ir.ViolationKind{ir.ViolationNonExternalConditionalKeyField}, kinds(res.Errors))
	})
}

func TestNormalizeProvides(t *testing.T) {
	sg := mustNormalize(t, linkV2+`
		type Query { review: Review }
		type Review @key(fields: "id") {
			id: ID!
			author: User @provides(fields: "id name")
		}
		type User @key(fields: "id") {
			id: ID! @external
			name: String @external
			age: Int
		}
	`)
	require.Equal(t, ir.EntityModelV2, sg.EntityModel)

	provided := &ir.FieldSetCondition{
		FieldCoordinatesPath: []ir.FieldCoordinates{{TypeName: "Review", FieldName: "author"}, {TypeName: "User", FieldName: "name"}},
		FieldPath:            []string{"author", "name"},
	}
	require.Empty(t, cmp.Diff(&ir.ConditionalFieldData{ProvidedBy: []*ir.FieldSetCondition{provided}}, sg.ConditionalFieldData["User.name"]))

	review := sg.ConfigurationData["Review"]
	require.Empty(t, cmp.Diff([]*ir.RequiredFieldConfiguration{{FieldName: "author", SelectionSet: "id name"}}, review.Provides))

	user := sg.ConfigurationData["User"]
	require.Equal(t, []string{"age"}, user.FieldNames)
	require.Equal(t, []string{"id", "name"}, user.ExternalFieldNames)
	require.Len(t, user.Keys, 1)
	require.True(t, user.Keys[0].DisableEntityResolver)
	require.Len(t, user.Keys[0].Conditions, 1)
	require.Equal(t, []string{"author", "id"}, user.Keys[0].Conditions[0].FieldPath)

	require.Empty(t, sg.Registry.Lookup("User").Fields["name"].ResolvedBy)
	require.False(t, sg.Registry.Lookup("User").Fields["age"].Shareable)
}

func TestNormalizeAuthorization(t *testing.T) {
	sdl := `
		type Query { me: User @authenticated }
		type User @requiresScopes(scopes: [["read:user"]]) {
			id: ID!
			email: String @requiresScopes(scopes: [["read:email"], ["admin"]])
		}
	`
	sg := mustNormalize(t, sdl)

	user := sg.AuthorizationData["User"]
	require.Equal(t, [][]string{{"read:user"}}, user.RequiredScopes)
	require.Empty(t, cmp.Diff(&ir.FieldAuthorizationData{
		FieldName:              "email",
		RequiresAuthentication: true,
		RequiredScopes:         [][]string{{"read:user", "read:email"}, {"read:user", "admin"}},
	}, user.FieldAuthorizationData["email"]))
	require.Equal(t, [][]string{{"read:user"}}, user.FieldAuthorizationData["id"].RequiredScopes)

	me := sg.AuthorizationData["Query"].FieldAuthorizationData["me"]
	require.True(t, me.RequiresAuthentication)
	require.Nil(t, me.RequiredScopes)
	require.False(t, sg.AuthorizationData["Query"].RequiresAuthentication)

	res := normalization.NormalizeSDL("subgraph", sdl, normalization.WithMaxOrScopes(1))
	require.Equal(t, []ir.ViolationKind{ir.ViolationOrScopesLimit}, kinds(res.Errors))
}

func TestNormalizeScopeCoercion(t *testing.T) {
	tests := []struct {
		name   string
		scopes string
		want   [][]string
	}{
		{"bare scope", `"read:secret"`, [][]string{{"read:secret"}}},
		{"flat list", `["read:secret", "admin"]`, [][]string{{"read:secret"}, {"admin"}}},
		{"mixed", `[["read:secret", "audit"], "admin"]`, [][]string{{"read:secret", "audit"}, {"admin"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sg := mustNormalize(t, linkV2+`type Query { secret: String @requiresScopes(scopes: `+tt.scopes+`) }`)
			secret := sg.AuthorizationData["Query"].FieldAuthorizationData["secret"]
			require.True(t, secret.RequiresAuthentication)
			require.Equal(t, tt.want, secret.RequiredScopes)
		})
	}

	for _, scopes := range []string{`[]`, `[[]]`} {
		t.Run("empty "+scopes, func(t *testing.T) {
			res := normalization.NormalizeSDL("subgraph", linkV2+`type Query { secret: String @requiresScopes(scopes: `+scopes+`) }`)
			require.Equal(t, []ir.ViolationKind{ir.ViolationInvalidDirectiveArgument}, kinds(res.Errors))
			require.Nil(t, res.Subgraph)
		})
	}
}

func TestNormalizeScopeLimitNamesEveryField(t *testing.T) {
	res := normalization.NormalizeSDL("subgraph", `
		type Query {
			b: Int @requiresScopes(scopes: [["x"], ["y"]])
			a: Int @requiresScopes(scopes: [["x"], ["y"]])
			c: Int @requiresScopes(scopes: [["x"]])
		}
	`, normalization.WithMaxOrScopes(1))
	require.Equal(t, []ir.ViolationKind{ir.ViolationOrScopesLimit}, kinds(res.Errors))
	require.Equal(t, []string{"Query.a", "Query.b"}, res.Errors[0].Coordinates)
}

func TestNormalizeEntityModelFromLink(t *testing.T) {
	sg := mustNormalize(t, `extend schema @link(url: "https://specs.apollo.dev/link/v1.0")
		type Query { a: Int }
	`)
	require.Equal(t, ir.EntityModelV1, sg.EntityModel)

	sg = mustNormalize(t, linkV2+`type Query { a: Int }`)
	require.Equal(t, ir.EntityModelV2, sg.EntityModel)
}

func TestNormalizeEvents(t *testing.T) {
	sg := mustNormalize(t, `
		type Query { entity: Entity }
		type Mutation {
			publish(id: ID!): Boolean @edfs__kafkaPublish(topic: "updates")
		}
		type Subscription {
			updated: Entity @edfs__natsSubscribe(subjects: ["a", "b"], providerId: "nats", streamConfiguration: {consumerName: "c", streamName: "s"})
		}
		type Entity @key(fields: "id") { id: ID! }
	`)
	require.Empty(t, cmp.Diff([]*ir.EventConfiguration{{
		FieldName:    "publish",
		ProviderType: ir.EventProviderKafka,
		ProviderID:   ir.DefaultEventProviderID,
		Type:         ir.EventTypePublish,
		Subjects:     []string{"updates"},
	}}, sg.ConfigurationData["Mutation"].Events))
	require.Empty(t, cmp.Diff([]*ir.EventConfiguration{{
		FieldName:           "updated",
		ProviderType:        ir.EventProviderNats,
		ProviderID:          "nats",
		Type:                ir.EventTypeSubscribe,
		Subjects:            []string{"a", "b"},
		StreamConfiguration: &ir.NatsStreamConfiguration{ConsumerName: "c", StreamName: "s"},
	}}, sg.ConfigurationData["Subscription"].Events))

	res := normalization.NormalizeSDL("subgraph", `type Query { q: Int @edfs__kafkaPublish(topic: "x") }`)
	require.Equal(t, []ir.ViolationKind{ir.ViolationInvalidEventDirectiveLocation}, kinds(res.Errors))
}

func TestNormalizeSubscriptionFilter(t *testing.T) {
	const types = `
		type Query { a: Int }
		type Entity { id: ID! owner: Owner }
		type Owner { name: String }
	`
	sg := mustNormalize(t, types+`
		type Subscription {
			updated: Entity @openfed__subscriptionFilter(condition: {
				OR: [
					{ IN: { fieldPath: "id", values: [1, 2] } },
					{ NOT: { IN: { fieldPath: "owner.name", values: ["x"] } } }
				]
			})
		}
	`)
	want := &ir.SubscriptionFilterCondition{Or: []*ir.SubscriptionFilterCondition{
		{In: &ir.SubscriptionFieldCondition{FieldPath: []string{"id"}, Values: []string{"1", "2"}}},
		{Not: &ir.SubscriptionFilterCondition{In: &ir.SubscriptionFieldCondition{FieldPath: []string{"owner", "name"}, Values: []string{"x"}}}},
	}}
	require.Empty(t, cmp.Diff(want, sg.SubscriptionFilters["Subscription.updated"]))

	invalid := []string{
		`{ AND: [] }`,
		`{ AND: [{IN: {fieldPath: "id", values: []}}, {IN: {fieldPath: "id", values: []}}, {IN: {fieldPath: "id", values: []}}, {IN: {fieldPath: "id", values: []}}, {IN: {fieldPath: "id", values: []}}, {IN: {fieldPath: "id", values: []}}] }`,
		`{ IN: { fieldPath: "owner", values: ["x"] } }`,
		`{ IN: { fieldPath: "missing", values: ["x"] } }`,
		`{ IN: { fieldPath: "id", values: ["x"] }, NOT: { IN: { fieldPath: "id", values: ["x"] } } }`,
		`{ NOT: { NOT: { NOT: { NOT: { NOT: { IN: { fieldPath: "id", values: ["x"] } } } } } } }`,
	}
	for _, cond := range invalid {
		res := normalization.NormalizeSDL("subgraph", types+`
			type Subscription { updated: Entity @openfed__subscriptionFilter(condition: `+cond+`) }
		`)
		require.Equal(t, []ir.ViolationKind{ir.ViolationInvalidSubscriptionFilter}, kinds(res.Errors), cond)
	}

	res := normalization.NormalizeSDL("subgraph", types+`
		extend type Query { b: Entity @openfed__subscriptionFilter(condition: { IN: { fieldPath: "id", values: ["x"] } }) }
	`)
	require.Equal(t, []ir.ViolationKind{ir.ViolationInvalidSubscriptionFilterSite}, kinds(res.Errors))
}

func TestNormalizeAbstractWithoutMembers(t *testing.T) {
	res := normalization.NormalizeSDL("subgraph", `
		type Query { node: Node }
		interface Node { id: ID! }
	`)
	require.True(t, res.Success())
	require.Equal(t, []ir.ViolationKind{ir.ViolationAbstractTypeWithoutMembers}, kinds(res.Warnings))
}

func TestNormalizeFacets(t *testing.T) {
	sg := mustNormalize(t, linkV2+`
		type Query {
			products(first: Int = 10 @deprecated): [Product] @shareable @tag(name: "public")
		}
		type Product @key(fields: "sku") @shareable {
			sku: String!
			name: String @inaccessible
			price: Int @override(from: "legacy")
		}
		scalar Url @specifiedBy(url: "https://tools.ietf.org/html/rfc3986")
		enum Color { RED @deprecated(reason: "use CRIMSON") CRIMSON @tag(name: "new") }
	`)
	products := sg.Registry.Lookup("Query").Fields["products"]
	require.True(t, products.Shareable)
	require.Equal(t, []string{"public"}, products.Tags)
	require.Equal(t, ir.DefaultDeprecationReason, products.Args["first"].Deprecation.Reason)
	require.Equal(t, "10", products.Args["first"].DefaultString())

	product := sg.Registry.Lookup("Product")
	require.True(t, product.Fields["sku"].Shareable)
	require.True(t, product.Fields["name"].Inaccessible)
	require.Equal(t, "legacy", product.Fields["price"].Override)

	require.Equal(t, "https://tools.ietf.org/html/rfc3986", sg.Registry.Lookup("Url").SpecifiedByURL)
	color := sg.Registry.Lookup("Color")
	require.Equal(t, "use CRIMSON", color.EnumValues["RED"].Deprecation.Reason)
	require.Equal(t, []string{"new"}, color.EnumValues["CRIMSON"].Tags)
}
