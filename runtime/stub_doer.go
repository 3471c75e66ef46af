package runtime

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"goa.design/clue/mock"
)

// StubFunc produces the response of a stubbed endpoint. vars holds the path
// parameters of the request.
type StubFunc func(req *http.Request, vars map[string]string) (*http.Response, error)

// StubDoer is a goahttp.Doer serving scripted responses. Requests are
// matched to endpoint descriptors and answered by the next stub queued for
// that endpoint. Requests with no match or no stub left get a 501.
type StubDoer struct {
	router *Router
	m      *mock.Mock
}

// NewStubDoer returns a doer matching requests against endpoints.
func NewStubDoer(endpoints ...Endpoint) *StubDoer {
	d := &StubDoer{router: NewRouter(), m: mock.New()}
	for _, ep := range endpoints {
		d.router.Register(ep, http.NotFoundHandler())
	}
	return d
}

// Set makes f answer every call of endpoint, replacing queued stubs.
func (d *StubDoer) Set(endpoint Endpoint, f StubFunc) {
	d.m.Set(stubKey(endpoint), f)
}

// Add queues f to answer the next call of endpoint.
func (d *StubDoer) Add(endpoint Endpoint, f StubFunc) {
	d.m.Add(stubKey(endpoint), f)
}

// HasMore reports whether queued stubs remain unused.
func (d *StubDoer) HasMore() bool {
	return d.m.HasMore()
}

// Do implements goahttp.Doer.
func (d *StubDoer) Do(req *http.Request) (*http.Response, error) {
	ep, vars, ok := d.router.Match(req)
	if !ok {
		return stubErrorResponse(req, http.StatusNotImplemented, "stub: unknown endpoint"), nil
	}
	f, _ := d.m.Next(stubKey(ep)).(StubFunc)
	if f == nil {
		return stubErrorResponse(req, http.StatusNotImplemented, "stub: unstubbed endpoint "+stubKey(ep)), nil
	}
	resp, err := f(req, vars)
	if err != nil {
		return nil, err
	}
	if resp.Request == nil {
		resp.Request = req
	}
	return resp, nil
}

// RespondJSON returns a stub answering status with v encoded as JSON.
func RespondJSON(status int, v any) StubFunc {
	return func(req *http.Request, _ map[string]string) (*http.Response, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return newStubResponse(req, status, "application/json", b), nil
	}
}

// RespondBytes returns a stub answering status with body.
func RespondBytes(status int, contentType string, body []byte) StubFunc {
	return func(req *http.Request, _ map[string]string) (*http.Response, error) {
		return newStubResponse(req, status, contentType, body), nil
	}
}

// RespondStatus returns a stub answering status with no body.
func RespondStatus(status int) StubFunc {
	return func(req *http.Request, _ map[string]string) (*http.Response, error) {
		return newStubResponse(req, status, "", nil), nil
	}
}

func stubKey(ep Endpoint) string {
	return ep.ServiceName() + "." + ep.EndpointName()
}

func stubErrorResponse(req *http.Request, status int, msg string) *http.Response {
	return newStubResponse(req, status, "text/plain; charset=utf-8", []byte(msg))
}

func newStubResponse(req *http.Request, status int, contentType string, body []byte) *http.Response {
	h := make(http.Header, 2)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	h.Set("Content-Length", strconv.Itoa(len(body)))
	return &http.Response{
		StatusCode:    status,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
