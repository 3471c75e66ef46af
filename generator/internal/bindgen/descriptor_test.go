package bindgen

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xeger/bindgen/definition"
)

func TestBuildDescriptor_Strategies(t *testing.T) {
	cases := []struct {
		name         string
		ep           definition.EndpointDefinition
		serializer   SerializerKind
		deserializer DeserializerKind
	}{
		{
			name:         "get with return",
			ep:           definition.EndpointDefinition{Name: "getWidget", Method: "GET", Path: "/widgets/{id}", Returns: ref("Widget")},
			serializer:   SerializeFailing,
			deserializer: DeserializeStructured,
		},
		{
			name: "post with body and no return",
			ep: definition.EndpointDefinition{
				Name: "createWidget", Method: "POST", Path: "/widgets",
				Args: []definition.ArgumentDefinition{{Name: "widget", Type: ref("Widget"), Param: definition.ParamBody}},
			},
			serializer:   SerializeStructured,
			deserializer: DeserializeEmpty,
		},
		{
			name:         "delete without body",
			ep:           definition.EndpointDefinition{Name: "deleteWidget", Method: "DELETE", Path: "/widgets/{id}"},
			serializer:   SerializeEmptyBody,
			deserializer: DeserializeEmpty,
		},
		{
			name: "binary upload and download",
			ep: definition.EndpointDefinition{
				Name: "swapImage", Method: "PUT", Path: "/widgets/{id}/image",
				Args:    []definition.ArgumentDefinition{{Name: "image", Type: prim(definition.Binary), Param: definition.ParamBody}},
				Returns: prim(definition.Binary),
			},
			serializer:   SerializeBinary,
			deserializer: DeserializePassthrough,
		},
		{
			name: "binary return wins over everything else",
			ep: definition.EndpointDefinition{
				Name: "export", Method: "POST", Path: "/export",
				Args:       []definition.ArgumentDefinition{{Name: "filter", Type: ref("Widget"), Param: definition.ParamBody}},
				Returns:    prim(definition.Binary),
				Auth:       &definition.AuthSpec{Kind: definition.AuthHeader},
				Deprecated: new(string),
			},
			serializer:   SerializeStructured,
			deserializer: DeserializePassthrough,
		},
		{
			name:         "optional binary is structured",
			ep:           definition.EndpointDefinition{Name: "maybeImage", Method: "GET", Path: "/image", Returns: definition.Optional{Item: prim(definition.Binary)}},
			serializer:   SerializeFailing,
			deserializer: DeserializeStructured,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc := service(c.ep)
			d, err := BuildDescriptor(resolver(widgetsDoc(svc)), &svc, &svc.Endpoints[0])
			if err != nil {
				t.Fatalf("descriptor: %v", err)
			}
			if d.Serializer != c.serializer {
				t.Errorf("serializer: got %s want %s", d.Serializer, c.serializer)
			}
			if d.Deserializer != c.deserializer {
				t.Errorf("deserializer: got %s want %s", d.Deserializer, c.deserializer)
			}
			if d.ErrorDecoder != DefaultErrorDecoder {
				t.Errorf("error decoder: got %q", d.ErrorDecoder)
			}
		})
	}
}

func TestBuildDescriptor_ScenarioA(t *testing.T) {
	ep := definition.EndpointDefinition{
		Name:    "getWidget",
		Method:  "GET",
		Path:    "/widgets/{id}",
		Args:    []definition.ArgumentDefinition{{Name: "id", Type: str(), Param: definition.ParamPath}},
		Returns: ref("Widget"),
		Auth:    &definition.AuthSpec{Kind: definition.AuthHeader},
	}
	svc := service(ep)
	d, err := BuildDescriptor(resolver(widgetsDoc(svc)), &svc, &svc.Endpoints[0])
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}
	want := []Segment{{Kind: FixedSegment, Value: "widgets"}, {Kind: VariableSegment, Value: "id"}}
	if diff := cmp.Diff(want, d.Path); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
	if d.ReturnType == nil || d.ReturnType.Ref != "*Widget" {
		t.Fatalf("return type: %+v", d.ReturnType)
	}
	if d.BodyArg != nil {
		t.Fatalf("unexpected body argument %q", d.BodyArg.Name)
	}
}

func TestBuildDescriptor_Idempotent(t *testing.T) {
	ep := definition.EndpointDefinition{
		Name:   "search",
		Method: "POST",
		Path:   "/widgets/{owner}/search",
		Args: []definition.ArgumentDefinition{
			{Name: "query", Type: ref("Widget"), Param: definition.ParamBody},
			{Name: "owner", Type: str(), Param: definition.ParamPath},
			{Name: "tags", Type: definition.List{Item: str()}, Param: definition.ParamQuery},
		},
		Returns: definition.List{Item: ref("Widget")},
	}
	svc := service(ep)
	r := resolver(widgetsDoc(svc))
	first, err := BuildDescriptor(r, &svc, &svc.Endpoints[0])
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}
	second, err := BuildDescriptor(r, &svc, &svc.Endpoints[0])
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("descriptors differ (-first +second):\n%s", diff)
	}
}

func TestBuildDescriptor_Errors(t *testing.T) {
	svc := service(
		definition.EndpointDefinition{
			Name: "post", Method: "POST", Path: "/widgets",
			Args: []definition.ArgumentDefinition{
				{Name: "a", Type: ref("Widget"), Param: definition.ParamBody},
				{Name: "b", Type: str(), Param: definition.ParamBody},
			},
		},
		definition.EndpointDefinition{Name: "get", Method: "GET", Path: "/widgets", Returns: ref("Gadget")},
	)
	r := resolver(widgetsDoc(svc))
	if _, err := BuildDescriptor(r, &svc, &svc.Endpoints[0]); !errors.Is(err, ErrMultipleBodyArguments) {
		t.Fatalf("expected ErrMultipleBodyArguments, got %v", err)
	}
	if _, err := BuildDescriptor(r, &svc, &svc.Endpoints[1]); !errors.Is(err, ErrUnresolvedReference) {
		t.Fatalf("expected ErrUnresolvedReference, got %v", err)
	}
}
