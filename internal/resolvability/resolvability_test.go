package resolvability

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanpama/supergraph/internal/ir"
	language "github.com/hanpama/supergraph/internal/language"
)

type fixture struct{ reg *ir.Registry }

func newFixture() *fixture { return &fixture{reg: ir.NewRegistry()} }

func (f *fixture) def(kind language.DefinitionKind, name string, subgraphs ...string) *ir.ParentDefinition {
	def := &ir.ParentDefinition{Name: name, Kind: kind, Subgraphs: subgraphs, Fields: map[string]*ir.FieldDefinition{}}
	f.reg.Add(def)
	return def
}

func field(def *ir.ParentDefinition, name, typeName string, resolvedBy ...string) *ir.FieldDefinition {
	fd := &ir.FieldDefinition{
		Name:       name,
		ParentName: def.Name,
		Index:      len(def.Fields),
		Type:       ir.NamedType(typeName),
		Subgraphs:  resolvedBy,
		ResolvedBy: resolvedBy,
	}
	def.Fields[name] = fd
	return fd
}

func key(def *ir.ParentDefinition, subgraph, fields string, resolvable, disabled bool) {
	def.IsEntity = true
	def.Keys = append(def.Keys, &ir.KeyDefinition{
		Subgraph:              subgraph,
		FieldSet:              fields,
		Resolvable:            resolvable,
		DisableEntityResolver: disabled,
	})
}

func kinds(vs []*ir.Violation) []ir.ViolationKind {
	out := make([]ir.ViolationKind, len(vs))
	for i, v := range vs {
		out[i] = v.Kind
	}
	return out
}

// usersGraph has Query.user in "a" and User.name only in "b".
func usersGraph() (*fixture, *ir.ParentDefinition) {
	f := newFixture()
	query := f.def(language.Object, "Query", "a")
	field(query, "user", "User", "a")
	user := f.def(language.Object, "User", "a", "b")
	field(user, "id", "ID", "a", "b")
	field(user, "name", "String", "b")
	return f, user
}

func TestCheckEntityJump(t *testing.T) {
	f, user := usersGraph()
	key(user, "a", "id", true, false)
	key(user, "b", "id", true, false)

	res := Check(f.reg)
	require.True(t, res.Success())
	require.Empty(t, res.Warnings)
}

func TestCheckUnresolvableWithoutKey(t *testing.T) {
	f, _ := usersGraph()

	res := Check(f.reg)
	require.Equal(t, []ir.ViolationKind{ir.ViolationUnresolvableField}, kinds(res.Errors))
	require.Equal(t, []string{"User.name"}, res.Errors[0].Coordinates)
	require.Contains(t, res.Errors[0].Message, `reached through "Query.user"`)
}

func TestCheckKeyMismatch(t *testing.T) {
	f, user := usersGraph()
	key(user, "a", "id", true, false)
	key(user, "b", "email", true, false)

	res := Check(f.reg)
	require.Equal(t, []ir.ViolationKind{ir.ViolationUnresolvableField}, kinds(res.Errors))
}

func TestCheckDisabledEntityResolver(t *testing.T) {
	f, user := usersGraph()
	key(user, "a", "id", true, false)
	key(user, "b", "id", true, true)

	res := Check(f.reg)
	require.False(t, res.Success())

	// A key that is not resolvable still lets a subgraph leave the entity.
	f, user = usersGraph()
	key(user, "a", "id", false, false)
	key(user, "b", "id", true, false)
	require.True(t, Check(f.reg).Success())
}

func TestCheckTransitiveJump(t *testing.T) {
	f := newFixture()
	query := f.def(language.Object, "Query", "a")
	field(query, "user", "User", "a")
	user := f.def(language.Object, "User", "a", "b", "c")
	field(user, "id", "ID", "a", "b")
	field(user, "email", "String", "b", "c")
	field(user, "name", "String", "c")
	key(user, "a", "id", true, false)
	key(user, "b", "id", true, false)
	key(user, "b", "email", true, false)
	key(user, "c", "email", true, false)

	require.True(t, Check(f.reg).Success())
}

func TestCheckReportsShortestPath(t *testing.T) {
	f := newFixture()
	query := f.def(language.Object, "Query", "a")
	field(query, "me", "User", "a")
	field(query, "profile", "Profile", "a")
	user := f.def(language.Object, "User", "a")
	field(user, "profile", "Profile", "a")
	profile := f.def(language.Object, "Profile", "a", "b")
	field(profile, "bio", "String", "b")

	res := Check(f.reg)
	require.Len(t, res.Errors, 1)
	require.Contains(t, res.Errors[0].Message, `"Query.profile"`)
}

func TestCheckWarnings(t *testing.T) {
	f := newFixture()
	query := f.def(language.Object, "Query", "a")
	field(query, "node", "Node", "a")
	f.def(language.Interface, "Node", "a")
	f.def(language.Object, "Orphan", "a")
	entity := f.def(language.Object, "Product", "b")
	key(entity, "b", "id", true, false)
	hidden := f.def(language.Object, "Hidden", "a")
	hidden.Inaccessible = true

	res := Check(f.reg)
	require.True(t, res.Success())
	require.Equal(t, []ir.ViolationKind{
		ir.ViolationUnresolvableAbstractBranch,
		ir.ViolationUnreachableType,
		ir.ViolationUnreachableEntity,
	}, kinds(res.Warnings))
}

func TestCheckAbstractMembers(t *testing.T) {
	f := newFixture()
	query := f.def(language.Object, "Query", "a")
	field(query, "search", "Result", "a")
	result := f.def(language.Union, "Result", "a")
	result.Members = []string{"Book"}
	book := f.def(language.Object, "Book", "a", "b")
	field(book, "title", "String", "b")

	res := Check(f.reg)
	require.Equal(t, []string{"Book.title"}, res.Errors[0].Coordinates)
	require.Contains(t, res.Errors[0].Message, `"Query.search.... on Book"`)
	// Book is reached but not confirmed, so the union has no usable branch.
	require.Equal(t, []ir.ViolationKind{ir.ViolationUnresolvableAbstractBranch}, kinds(res.Warnings))
	require.Equal(t, []string{"Result"}, res.Warnings[0].Coordinates)

	field(book, "id", "ID", "a")
	book.Fields["title"].ResolvedBy = []string{"a", "b"}
	res = Check(f.reg)
	require.True(t, res.Success())
	require.Empty(t, res.Warnings)
}
