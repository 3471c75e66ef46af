package bindgen

import (
	"os"
	"strings"
	"testing"

	"goa.design/goa/v3/codegen"

	"github.com/xeger/bindgen/definition"
)

const testGenPkg = "github.com/example/proj/gen"

func str() definition.TypeRef { return definition.Primitive{Kind: definition.String} }
func prim(k definition.PrimitiveKind) definition.TypeRef { return definition.Primitive{Kind: k} }
func ref(name string) definition.TypeRef { return definition.Reference{Name: name} }

func widgetsDoc(svc definition.ServiceDefinition) *definition.Document {
	return &definition.Document{
		Types: []definition.TypeDefinition{
			{Name: "Widget", Namespace: "com.example.widgets", Kind: definition.KindObject},
			{Name: "WidgetName", Namespace: "com.example.widgets", Kind: definition.KindAlias},
			{Name: "Color", Namespace: "com.example.widgets", Kind: definition.KindEnum},
			{Name: "Shape", Namespace: "com.example.widgets", Kind: definition.KindUnion},
			{Name: "Safe", Namespace: "com.example.markers", Kind: definition.KindObject},
			{Name: "Owner", Namespace: "com.example.people", Kind: definition.KindObject},
		},
		Services: []definition.ServiceDefinition{svc},
	}
}

func service(eps ...definition.EndpointDefinition) definition.ServiceDefinition {
	return definition.ServiceDefinition{Name: "WidgetService", Namespace: "com.example.widgets", Endpoints: eps}
}

func resolver(doc *definition.Document) *Resolver {
	return NewResolver(doc, testGenPkg, "com.example.widgets")
}

func renderFile(t *testing.T, f *codegen.File) string {
	t.Helper()
	outPath, err := f.Render(t.TempDir())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n%s", needle, haystack)
	}
}

func assertNotContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("expected output not to contain %q", needle)
	}
}
