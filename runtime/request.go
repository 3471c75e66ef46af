package runtime

import (
	"net/http"
	"net/url"
)

// Request is the transport-neutral request assembled by a generated binding.
type Request struct {
	HeaderParams http.Header
	PathParams   map[string]string
	QueryParams  url.Values
	// Body is the value handed to the endpoint serializer. Nil means the
	// request has no body slot at all; EmptyBody means an empty body.
	Body any
}

// NewRequest returns an empty request.
func NewRequest() *Request {
	return &Request{
		HeaderParams: http.Header{},
		PathParams:   map[string]string{},
		QueryParams:  url.Values{},
	}
}

// PutHeaderParam sets the header name to value, replacing previous values.
func (r *Request) PutHeaderParam(name, value string) { r.HeaderParams.Set(name, value) }

// AddHeaderParam appends value to the header name.
func (r *Request) AddHeaderParam(name, value string) { r.HeaderParams.Add(name, value) }

// PutPathParam sets the path parameter name.
func (r *Request) PutPathParam(name, value string) { r.PathParams[name] = value }

// PutQueryParam sets the query parameter name to value, replacing previous
// values.
func (r *Request) PutQueryParam(name, value string) { r.QueryParams.Set(name, value) }

// AddQueryParam appends value to the query parameter name.
func (r *Request) AddQueryParam(name, value string) { r.QueryParams.Add(name, value) }

// SetBody sets the body slot.
func (r *Request) SetBody(body any) { r.Body = body }
