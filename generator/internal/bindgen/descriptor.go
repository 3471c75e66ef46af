package bindgen

import (
	"fmt"

	"github.com/xeger/bindgen/definition"
)

// SerializerKind is the request body encoding strategy of an endpoint.
type SerializerKind int

const (
	// SerializeEmptyBody writes the empty-body sentinel.
	SerializeEmptyBody SerializerKind = iota + 1
	// SerializeFailing must never be invoked: the endpoint has no body.
	SerializeFailing
	// SerializeStructured encodes the body argument with the service codec.
	SerializeStructured
	// SerializeBinary streams a binary body argument unchanged.
	SerializeBinary
)

func (k SerializerKind) String() string {
	switch k {
	case SerializeEmptyBody:
		return "empty-body"
	case SerializeFailing:
		return "failing"
	case SerializeStructured:
		return "structured"
	case SerializeBinary:
		return "binary"
	}
	return "unknown"
}

// DeserializerKind is the response decoding strategy of an endpoint.
type DeserializerKind int

const (
	// DeserializeEmpty discards the response body.
	DeserializeEmpty DeserializerKind = iota + 1
	// DeserializePassthrough hands the raw response body to the caller.
	DeserializePassthrough
	// DeserializeStructured decodes the body with the service codec.
	DeserializeStructured
)

func (k DeserializerKind) String() string {
	switch k {
	case DeserializeEmpty:
		return "empty"
	case DeserializePassthrough:
		return "passthrough"
	case DeserializeStructured:
		return "structured"
	}
	return "unknown"
}

// DefaultErrorDecoder is the error decoding hook shared by every endpoint.
const DefaultErrorDecoder = "DefaultErrorDecoder"

// Descriptor bundles the strategies the transport needs to execute one
// endpoint.
type Descriptor struct {
	Service      string
	Endpoint     string
	Method       string
	Path         []Segment
	Serializer   SerializerKind
	BodyArg      *definition.ArgumentDefinition
	BodyType     *GoType
	Deserializer DeserializerKind
	ReturnType   *GoType
	ErrorDecoder string
}

// BuildDescriptor selects the serializer and deserializer of ep and bundles
// them with its compiled path template.
func BuildDescriptor(r *Resolver, svc *definition.ServiceDefinition, ep *definition.EndpointDefinition) (*Descriptor, error) {
	body, err := bodyArgument(ep)
	if err != nil {
		return nil, endpointError(svc, ep, "", err)
	}
	d := &Descriptor{
		Service:      svc.Name,
		Endpoint:     ep.Name,
		Method:       ep.Method,
		Path:         CompilePath(ep.Path),
		ErrorDecoder: DefaultErrorDecoder,
		BodyArg:      body,
	}

	switch {
	case body != nil:
		t, err := r.Resolve(body.Type, ParamPosition)
		if err != nil {
			return nil, endpointError(svc, ep, body.Name, err)
		}
		d.BodyType = &t
		d.Serializer = SerializeStructured
		if t.IsBinary() {
			d.Serializer = SerializeBinary
		}
	case definition.HasBody(ep.Method):
		d.Serializer = SerializeEmptyBody
	default:
		d.Serializer = SerializeFailing
	}

	if ep.Returns == nil {
		d.Deserializer = DeserializeEmpty
		return d, nil
	}
	t, err := r.Resolve(ep.Returns, ReturnPosition)
	if err != nil {
		return nil, endpointError(svc, ep, "", fmt.Errorf("returns: %w", err))
	}
	d.ReturnType = &t
	d.Deserializer = DeserializeStructured
	if definition.IsPrimitive(ep.Returns, definition.Binary) {
		d.Deserializer = DeserializePassthrough
	}
	return d, nil
}

// bodyArgument returns the single body argument of ep, or nil.
func bodyArgument(ep *definition.EndpointDefinition) (*definition.ArgumentDefinition, error) {
	var body *definition.ArgumentDefinition
	for i := range ep.Args {
		if ep.Args[i].Param != definition.ParamBody {
			continue
		}
		if body != nil {
			return nil, fmt.Errorf("%w: %s and %s", ErrMultipleBodyArguments, body.Name, ep.Args[i].Name)
		}
		body = &ep.Args[i]
	}
	return body, nil
}
