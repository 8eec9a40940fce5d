package typemerge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

func typeOf(t *testing.T, src string) *ir.TypeExpr {
	t.Helper()
	doc, err := language.ParseSchema("t", "type T { f: "+src+" }")
	require.NoError(t, err)
	return ir.TypeExprFromAST(doc.Definitions[0].Fields[0].Type)
}

func TestMergeTypes(t *testing.T) {
	tests := []struct {
		a, b  string
		most  string
		least string
	}{
		{"String", "String", "String", "String"},
		{"String!", "String", "String!", "String"},
		{"String", "String!", "String!", "String"},
		{"[Int]", "[Int!]!", "[Int!]!", "[Int]"},
		{"[Int!]", "[Int]!", "[Int!]!", "[Int]"},
		{"[[ID!]]!", "[[ID]!]", "[[ID!]!]!", "[[ID]]"},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			a, b := typeOf(t, tt.a), typeOf(t, tt.b)

			most := MostRestrictive(a, b)
			require.True(t, most.OK())
			require.Equal(t, tt.most, most.Type.String())

			least := LeastRestrictive(a, b)
			require.True(t, least.OK())
			require.Equal(t, tt.least, least.Type.String())
		})
	}
}

func TestMergeTypesLatticeLaw(t *testing.T) {
	types := []string{"Int", "Int!", "[Int]", "[Int]!", "[Int!]", "[Int!]!", "[[Int]!]", "[[Int!]]!"}
	for _, x := range types {
		for _, y := range types {
			a, b := typeOf(t, x), typeOf(t, y)
			most := MostRestrictive(a, b)
			least := LeastRestrictive(a, b)
			if most.Mismatch != nil {
				require.NotNil(t, least.Mismatch, "%s %s", x, y)
				continue
			}
			require.True(t, IsAtLeastAsRestrictive(most.Type, a), "most(%s, %s) = %s", x, y, most.Type)
			require.True(t, IsAtLeastAsRestrictive(most.Type, b), "most(%s, %s) = %s", x, y, most.Type)
			require.True(t, IsAtLeastAsRestrictive(a, least.Type), "least(%s, %s) = %s", x, y, least.Type)
			require.True(t, IsAtLeastAsRestrictive(b, least.Type), "least(%s, %s) = %s", x, y, least.Type)
			require.True(t, MostRestrictive(b, a).Type.Equal(most.Type))
		}
	}
}

func TestMergeTypesMismatch(t *testing.T) {
	tests := []struct{ a, b string }{
		{"String", "Int"},
		{"[String]", "String"},
		{"[String!]!", "[Int]"},
		{"[[String]]", "[String]"},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			for _, res := range []Result{
				MostRestrictive(typeOf(t, tt.a), typeOf(t, tt.b)),
				LeastRestrictive(typeOf(t, tt.a), typeOf(t, tt.b)),
			} {
				require.False(t, res.OK())
				require.Nil(t, res.Type)
				require.Equal(t, &Mismatch{Existing: tt.a, Incoming: tt.b}, res.Mismatch)
			}
		})
	}
}

func TestMergeTypesDepthExceeded(t *testing.T) {
	deep := ir.NamedType("Int")
	for range 5 {
		deep = ir.NonNullType(ir.ListType(deep))
	}

	res := MostRestrictiveWithDepth(deep, deep, 4)
	require.True(t, res.DepthExceeded)
	require.Nil(t, res.Mismatch)
	require.Equal(t, "Int", res.Type.String())

	res = MostRestrictiveWithDepth(deep, deep, DefaultMaxDepth)
	require.True(t, res.OK())
	require.True(t, res.Type.Equal(deep))
}

func defaultValue(t *testing.T, src string) *language.Value {
	t.Helper()
	doc, err := language.ParseSchema("t", "type T { f(a: Any = "+src+"): Int }")
	require.NoError(t, err)
	return doc.Definitions[0].Fields[0].Arguments[0].DefaultValue
}

func TestMergeDefaultValues(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		res := MergeDefaultValues([]*language.Value{defaultValue(t, `"a"`), defaultValue(t, `"a"`)})
		require.True(t, res.OK())
		require.Equal(t, `"a"`, res.Value.String())
	})
	t.Run("omitted in one subgraph", func(t *testing.T) {
		res := MergeDefaultValues([]*language.Value{defaultValue(t, "1"), nil})
		require.True(t, res.OK())
		require.Nil(t, res.Value)
	})
	t.Run("value mismatch", func(t *testing.T) {
		res := MergeDefaultValues([]*language.Value{defaultValue(t, "1"), defaultValue(t, "2")})
		require.True(t, res.ValueMismatch)
		require.False(t, res.TypeMismatch)
		require.Nil(t, res.Value)
		require.Equal(t, []string{"1", "2"}, res.Literals)
	})
	t.Run("type mismatch", func(t *testing.T) {
		res := MergeDefaultValues([]*language.Value{defaultValue(t, "1"), defaultValue(t, `"1"`)})
		require.True(t, res.TypeMismatch)
		require.False(t, res.ValueMismatch)
	})
	t.Run("int and float share a kind", func(t *testing.T) {
		res := MergeDefaultValues([]*language.Value{defaultValue(t, "1"), defaultValue(t, "1.5")})
		require.False(t, res.TypeMismatch)
		require.True(t, res.ValueMismatch)
	})
	t.Run("lists", func(t *testing.T) {
		res := MergeDefaultValues([]*language.Value{defaultValue(t, "[A, B]"), defaultValue(t, "[A,B]")})
		require.True(t, res.OK())
		require.Equal(t, "[A,B]", res.Value.String())
	})
}

func TestScopes(t *testing.T) {
	read := [][]string{{"read:object"}}
	all := [][]string{{"read:all"}}

	t.Run("or", func(t *testing.T) {
		got := OrScopes(read, all)
		require.Empty(t, cmp.Diff([][]string{{"read:object"}, {"read:all"}}, got))
		require.Empty(t, cmp.Diff(read, OrScopes(read, read)))
	})
	t.Run("and", func(t *testing.T) {
		got := AndScopes([][]string{{"a"}, {"b"}}, [][]string{{"c"}, {"a"}})
		want := [][]string{{"a", "c"}, {"a"}, {"b", "c"}, {"b", "a"}}
		require.Empty(t, cmp.Diff(want, got))
	})
	t.Run("and with empty side", func(t *testing.T) {
		require.Empty(t, cmp.Diff(read, AndScopes(nil, read)))
		require.Empty(t, cmp.Diff(read, AndScopes(read, nil)))
		require.Empty(t, AndScopes(nil, nil))
	})
	t.Run("dedup ignores conjunction order", func(t *testing.T) {
		got := DedupScopes([][]string{{"a", "b", "a"}, {"b", "a"}, {"c"}})
		require.Empty(t, cmp.Diff([][]string{{"a", "b"}, {"c"}}, got))
	})
}
