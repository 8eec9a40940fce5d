package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanpama/supergraph/internal/routerconfig"
)

const productsSDL = `
type Query { topProducts: [Product!]! }
type Product @key(fields: "upc") { upc: String! name: String! cost: Int @tag(name: "internal") }
`

const reviewsSDL = `
type Product @key(fields: "upc") { upc: String! reviews: [Review!]! }
type Review { body: String! }
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(append(args, "--log-level", "error"), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func writeProject(t *testing.T, extraSDL string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"products.graphql": productsSDL,
		"reviews.graphql":  reviewsSDL + extraSDL,
		"supergraph.yaml": `
subgraphs:
  - name: products
    url: http://products/graphql
    schema: products.graphql
  - name: reviews
    url: http://reviews/graphql
    schema: reviews.graphql
contracts:
  public:
    tagExclusions: [internal]
`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestCompose(t *testing.T) {
	dir := writeProject(t, "")
	out := filepath.Join(dir, "build")

	stdout, _, err := execute(t, "compose", "--config", filepath.Join(dir, "supergraph.yaml"), "--out-dir", out)
	require.NoError(t, err)
	require.Contains(t, stdout, "composed 2 subgraphs, 1 contracts")

	sdl, err := os.ReadFile(filepath.Join(out, "supergraph.graphql"))
	require.NoError(t, err)
	require.Contains(t, string(sdl), "reviews: [Review!]!")

	data, err := os.ReadFile(filepath.Join(out, "router.json"))
	require.NoError(t, err)
	msg, err := routerconfig.Decode(data, routerconfig.FormatJSON)
	require.NoError(t, err)
	require.NotNil(t, msg)

	client, err := os.ReadFile(filepath.Join(out, "contracts", "public", "client.graphql"))
	require.NoError(t, err)
	require.NotContains(t, string(client), "cost")
}

func TestComposeBinaryFormat(t *testing.T) {
	dir := writeProject(t, "")
	out := filepath.Join(dir, "build")

	_, _, err := execute(t, "compose", "-c", filepath.Join(dir, "supergraph.yaml"), "-o", out, "--format", "binary")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(out, "router.json"))
	require.NoError(t, err)
	_, err = routerconfig.Decode(data, routerconfig.FormatBinary)
	require.NoError(t, err)
}

func TestComposeFailure(t *testing.T) {
	dir := writeProject(t, "type Query { topProducts: Int }")

	_, stderr, err := execute(t, "compose", "--config", filepath.Join(dir, "supergraph.yaml"), "--out-dir", dir)
	require.Error(t, err)
	require.Contains(t, stderr, "supergraph: error:")
	require.Contains(t, stderr, "composition failed")
	require.NoFileExists(t, filepath.Join(dir, "router.json"))
}

func TestNormalize(t *testing.T) {
	dir := writeProject(t, "")

	stdout, _, err := execute(t, "normalize", "--name", "reviews", "--schema", filepath.Join(dir, "reviews.graphql"))
	require.NoError(t, err)
	require.Contains(t, stdout, `"name": "reviews"`)
	require.Contains(t, stdout, `"typeName": "Product"`)

	_, _, err = execute(t, "normalize", "--name", "reviews")
	require.ErrorContains(t, err, `required flag(s) "schema" not set`)
}

func TestRouterProto(t *testing.T) {
	stdout, _, err := execute(t, "router-proto")
	require.NoError(t, err)
	require.Contains(t, stdout, "message RouterConfig {")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, "supergraph dev (compatibility version 1)\n", stdout)
}

func TestUnknownCommand(t *testing.T) {
	_, stderr, err := execute(t, "serve")
	require.Error(t, err)
	require.Contains(t, stderr, `unknown command "serve"`)
}
