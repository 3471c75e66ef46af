package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xeger/bindgen/definition"
)

func str() definition.TypeRef { return definition.Primitive{Kind: definition.String} }

func testDoc() *definition.Document {
	return &definition.Document{
		Types: []definition.TypeDefinition{
			{Name: "Widget", Namespace: "com.example.widgets", Kind: definition.KindObject},
			{Name: "Gadget", Namespace: "com.example.gadgets", Kind: definition.KindObject},
		},
		Services: []definition.ServiceDefinition{
			{
				Name:      "WidgetService",
				Namespace: "com.example.widgets",
				Endpoints: []definition.EndpointDefinition{
					{
						Name:    "getWidget",
						Method:  "GET",
						Path:    "/widgets/{id}",
						Args:    []definition.ArgumentDefinition{{Name: "id", Type: str(), Param: definition.ParamPath}},
						Returns: definition.Reference{Name: "Widget"},
						Auth:    &definition.AuthSpec{Kind: definition.AuthHeader},
					},
				},
			},
			{
				Name:      "BrokenService",
				Namespace: "com.example.broken",
				Endpoints: []definition.EndpointDefinition{
					{
						Name:   "upload",
						Method: "POST",
						Path:   "/upload",
						Args: []definition.ArgumentDefinition{
							{Name: "a", Type: str(), Param: definition.ParamBody},
							{Name: "b", Type: str(), Param: definition.ParamBody},
						},
					},
				},
			},
			{
				Name:      "GadgetService",
				Namespace: "com.example.gadgets",
				Endpoints: []definition.EndpointDefinition{
					{
						Name:    "listGadgets",
						Method:  "GET",
						Path:    "/gadgets",
						Args:    []definition.ArgumentDefinition{{Name: "limit", Type: definition.Optional{Item: definition.Primitive{Kind: definition.Integer}}, Param: definition.ParamQuery}},
						Returns: definition.List{Item: definition.Reference{Name: "Gadget"}},
					},
				},
			},
		},
	}
}

func TestGenerate_IsolatesFailingServices(t *testing.T) {
	files, err := Generate(context.Background(), testDoc(), Options{GenPkg: "github.com/example/proj/gen"})
	if !errors.Is(err, ErrMultipleBodyArguments) {
		t.Fatalf("expected ErrMultipleBodyArguments, got %v", err)
	}
	var ce *CompileError
	if !errors.As(err, &ce) || ce.Service != "BrokenService" || ce.Endpoint != "upload" {
		t.Fatalf("expected CompileError locating BrokenService.upload, got %v", err)
	}

	var paths []string
	for _, f := range files {
		paths = append(paths, filepath.ToSlash(f.Path))
	}
	want := []string{
		"gen/gadgets/gadget_service_binding.go",
		"gen/gadgets/gadget_service_client.go",
		"gen/widgets/widget_service_binding.go",
		"gen/widgets/widget_service_client.go",
	}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected files:\n got %v\nwant %v", paths, want)
	}
}

func TestGenerate_FailFast(t *testing.T) {
	files, err := Generate(context.Background(), testDoc(), Options{GenPkg: "github.com/example/proj/gen", FailFast: true})
	if !errors.Is(err, ErrMultipleBodyArguments) {
		t.Fatalf("expected ErrMultipleBodyArguments, got %v", err)
	}
	if files != nil {
		t.Fatalf("expected no files, got %d", len(files))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	doc := testDoc()
	doc.Services = doc.Services[:1]
	render := func() string {
		files, err := Generate(context.Background(), doc, Options{GenPkg: "github.com/example/proj/gen", Concurrency: 1})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		dir := t.TempDir()
		var b strings.Builder
		for _, f := range files {
			p, err := f.Render(dir)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			data, err := os.ReadFile(p)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			b.Write(data)
		}
		return b.String()
	}
	first, second := render(), render()
	if first != second {
		t.Fatal("generation is not deterministic")
	}
	if !strings.Contains(first, "func (c *widgetServiceClient) GetWidget(ctx context.Context, authHeader bindruntime.AuthHeader, id string) (*Widget, error) {") {
		t.Fatalf("unexpected binding:\n%s", first)
	}
}

func TestGenerate_Codec(t *testing.T) {
	doc := testDoc()
	doc.Services = doc.Services[:1]
	files, err := Generate(context.Background(), doc, Options{GenPkg: "github.com/example/proj/gen", Codec: "msgpack"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	p, err := files[0].Render(t.TempDir())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "bindruntime.Codec = bindruntime.MsgPackCodec") {
		t.Fatalf("expected the msgpack codec:\n%s", data)
	}

	if _, err := Generate(context.Background(), doc, Options{Codec: "xml"}); !errors.Is(err, ErrUnrecognized) {
		t.Fatalf("expected ErrUnrecognized, got %v", err)
	}
}

// Unknown tags in one service of a loaded document fail that service only.
func TestGenerate_LoadedDocumentIsolation(t *testing.T) {
	doc, err := definition.Load(strings.NewReader(`
services:
  - name: Good
    namespace: com.example.good
    endpoints:
      - {name: ping, method: get, path: /ping, auth: {type: none}}
  - name: Kerberos
    namespace: com.example.bad
    endpoints:
      - {name: get, method: GET, path: /x, auth: {type: kerberos}}
  - name: Form
    namespace: com.example.form
    endpoints:
      - name: post
        method: POST
        path: /x
        args:
          - {name: a, type: {type: primitive, primitive: STRING}, param: {type: form}}
  - name: Tuple
    namespace: com.example.tuple
    endpoints:
      - {name: get, method: GET, path: /x, returns: {type: tuple}}
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	files, err := Generate(context.Background(), doc, Options{GenPkg: "github.com/example/proj/gen"})
	for _, want := range []error{ErrUnsupportedAuthType, ErrUnsupportedParamCategory, ErrUnrecognized} {
		if !errors.Is(err, want) {
			t.Errorf("expected %v in %v", want, err)
		}
	}
	if len(files) != 2 || filepath.ToSlash(files[0].Path) != "gen/good/good_binding.go" {
		t.Fatalf("expected only the Good service files, got %d", len(files))
	}
}

func TestGenerate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Generate(ctx, testDoc(), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	sums, err := Summarize(testDoc(), Options{})
	if !errors.Is(err, ErrMultipleBodyArguments) {
		t.Fatalf("expected ErrMultipleBodyArguments, got %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(sums))
	}
	get := sums[0]
	if get.Serializer != "failing" || get.Deserializer != "structured" || get.Body != "none" {
		t.Fatalf("unexpected summary: %+v", get)
	}
	if strings.Join(get.Steps, ",") != "path id,header Authorization" {
		t.Fatalf("unexpected steps: %v", get.Steps)
	}
	if strings.Join(sums[1].Steps, ",") != "query ?limit" {
		t.Fatalf("unexpected steps: %v", sums[1].Steps)
	}
}
