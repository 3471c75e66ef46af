package runtime

// Endpoint is what a channel needs to execute one call: where to send it and
// how to encode the body, decode the result and decode failures.
type Endpoint interface {
	ServiceName() string
	EndpointName() string
	HTTPMethod() string
	// RenderPath fills the path template with the escaped path parameters.
	RenderPath(params map[string]string) (string, error)
	// Pattern returns the path template in "/widgets/{id}" form.
	Pattern() string
	RequestSerializer() Serializer
	ResponseDeserializer() Deserializer
	ErrorDecoder() ErrorDecoder
}

// EndpointDescriptor is the Endpoint implementation emitted by the
// generator. Descriptors are package-level values, built once and only read
// afterwards.
type EndpointDescriptor struct {
	Service      string
	Name         string
	Method       string
	Template     PathTemplate
	Serializer   Serializer
	Deserializer Deserializer
	// Errors decodes non-2xx responses. Nil means DefaultErrorDecoder.
	Errors ErrorDecoder
}

var _ Endpoint = (*EndpointDescriptor)(nil)

func (e *EndpointDescriptor) ServiceName() string  { return e.Service }
func (e *EndpointDescriptor) EndpointName() string { return e.Name }
func (e *EndpointDescriptor) HTTPMethod() string   { return e.Method }
func (e *EndpointDescriptor) Pattern() string      { return e.Template.Pattern() }

func (e *EndpointDescriptor) RenderPath(params map[string]string) (string, error) {
	return e.Template.Fill(params)
}

func (e *EndpointDescriptor) RequestSerializer() Serializer {
	if e.Serializer == nil {
		return FailingSerializer()
	}
	return e.Serializer
}

func (e *EndpointDescriptor) ResponseDeserializer() Deserializer {
	if e.Deserializer == nil {
		return EmptyDeserializer(e.Name)
	}
	return e.Deserializer
}

func (e *EndpointDescriptor) ErrorDecoder() ErrorDecoder {
	if e.Errors == nil {
		return DefaultErrorDecoder
	}
	return e.Errors
}
