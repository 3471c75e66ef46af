package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var widgetsDefinition = filepath.Join("..", "..", "examples", "widgets", "widgets.yml")

func TestDefaultGenPkg(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module github.com/acme/widgets\n\ngo 1.25\n"), 0o600))
	nested := filepath.Join(root, "clients", "v1")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := defaultGenPkg(root)
	require.NoError(t, err)
	assert.Equal(t, "github.com/acme/widgets/gen", got)

	got, err = defaultGenPkg(nested)
	require.NoError(t, err)
	assert.Equal(t, "github.com/acme/widgets/clients/v1/gen", got)
}

func TestDefaultGenPkgMissingModuleDirective(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("go 1.25\n"), 0o600))
	_, err := defaultGenPkg(root)
	assert.ErrorContains(t, err, "missing module directive")
}

func TestGenerate(t *testing.T) {
	out := t.TempDir()
	flags := &DefinitionFlags{Definitions: []string{widgetsDefinition}, GenPkg: "github.com/acme/widgets/gen"}

	paths, err := generate(context.Background(), flags.Definitions, out, flags)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(out, "gen", "widgets", "widget_service_binding.go"), paths[0])
	assert.Equal(t, filepath.Join(out, "gen", "widgets", "widget_service_client.go"), paths[1])

	contract, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Contains(t, string(contract), "type WidgetServiceClient interface")
	assert.Contains(t, string(contract), "UploadImage(ctx context.Context, authHeader bindruntime.AuthHeader, id string, image io.Reader) error")

	binding, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(binding), "bindruntime.BinarySerializer()")
	assert.Contains(t, string(binding), `req.PutHeaderParam("X-Labels", bindruntime.ParamString(labels))`)
}

func TestGenerateCodec(t *testing.T) {
	out := t.TempDir()
	flags := &DefinitionFlags{Definitions: []string{widgetsDefinition}, GenPkg: "github.com/acme/widgets/gen", Codec: "msgpack"}
	paths, err := generate(context.Background(), flags.Definitions, out, flags)
	require.NoError(t, err)
	binding, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(binding), "var widgetServiceCodec bindruntime.Codec = bindruntime.MsgPackCodec")
}

func TestGenerateReportsCompileErrors(t *testing.T) {
	def := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(def, []byte(`
services:
  - name: Broken
    namespace: com.example
    endpoints:
      - name: get
        method: GET
        path: /things
        returns: {type: reference, name: Missing}
`), 0o600))
	flags := &DefinitionFlags{Definitions: []string{def}, GenPkg: "example.com/gen"}
	_, err := generate(context.Background(), flags.Definitions, t.TempDir(), flags)
	assert.ErrorContains(t, err, "unresolved reference")
}

func TestPlan(t *testing.T) {
	var buf bytes.Buffer
	flags := &DefinitionFlags{Definitions: []string{widgetsDefinition}}
	require.NoError(t, plan(context.Background(), &buf, flags, "plain"))
	out := buf.String()
	assert.Contains(t, out, "ENDPOINT")
	assert.Contains(t, out, "WidgetService.getWidget")
	assert.Equal(t, 8, strings.Count(out, "WidgetService."))
}
