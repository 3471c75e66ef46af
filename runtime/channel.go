package runtime

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"goa.design/clue/log"
	goahttp "goa.design/goa/v3/http"
)

// Channel executes calls described by an endpoint and a request.
type Channel interface {
	// CreateCall submits req and returns immediately. The call completes
	// with the deserialized result or the failure.
	CreateCall(ctx context.Context, endpoint Endpoint, req *Request) *Call
}

// ChannelFunc adapts a function to Channel.
type ChannelFunc func(ctx context.Context, endpoint Endpoint, req *Request) *Call

func (f ChannelFunc) CreateCall(ctx context.Context, endpoint Endpoint, req *Request) *Call {
	return f(ctx, endpoint, req)
}

type (
	// HTTPChannel is a Channel sending requests through a goahttp.Doer.
	HTTPChannel struct {
		base    *url.URL
		doer    goahttp.Doer
		headers http.Header
	}

	// HTTPChannelOption configures an HTTPChannel.
	HTTPChannelOption func(*HTTPChannel)
)

// WithUserAgent sets the User-Agent header of every request.
func WithUserAgent(ua string) HTTPChannelOption {
	return func(c *HTTPChannel) { c.headers.Set("User-Agent", ua) }
}

// WithHeader sets a header on every request. Headers set by the binding
// take precedence.
func WithHeader(name, value string) HTTPChannelOption {
	return func(c *HTTPChannel) { c.headers.Set(name, value) }
}

// NewHTTPChannel returns a channel sending requests to baseURL, which may
// carry a path prefix. A nil doer means http.DefaultClient.
func NewHTTPChannel(baseURL string, doer goahttp.Doer, opts ...HTTPChannelOption) (*HTTPChannel, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}
	if doer == nil {
		doer = http.DefaultClient
	}
	c := &HTTPChannel{base: u, doer: doer, headers: http.Header{}}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// CreateCall implements Channel.
func (c *HTTPChannel) CreateCall(ctx context.Context, endpoint Endpoint, req *Request) *Call {
	return Go(func() (any, error) {
		return c.execute(ctx, endpoint, req)
	})
}

func (c *HTTPChannel) execute(ctx context.Context, endpoint Endpoint, req *Request) (any, error) {
	ctx = log.With(ctx,
		log.KV{K: "bindgen.service", V: endpoint.ServiceName()},
		log.KV{K: "bindgen.endpoint", V: endpoint.EndpointName()},
	)
	httpReq, err := c.newRequest(ctx, endpoint, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	log.Debug(ctx,
		log.KV{K: "http.method", V: httpReq.Method},
		log.KV{K: "http.url", V: httpReq.URL.String()},
	)
	resp, err := c.doer.Do(httpReq)
	if err != nil {
		log.Debug(ctx, log.KV{K: "http.error", V: err.Error()})
		return nil, &ExecutionError{Err: err}
	}
	log.Debug(ctx,
		log.KV{K: "http.status", V: resp.StatusCode},
		log.KV{K: "http.duration", V: time.Since(start).String()},
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, endpoint.ErrorDecoder().Decode(resp)
	}
	return endpoint.ResponseDeserializer().Deserialize(resp)
}

func (c *HTTPChannel) newRequest(ctx context.Context, endpoint Endpoint, req *Request) (*http.Request, error) {
	p, err := endpoint.RenderPath(req.PathParams)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", endpoint.ServiceName(), endpoint.EndpointName(), err)
	}
	u := *c.base
	u.RawPath = strings.TrimRight(c.base.EscapedPath(), "/") + p
	if u.Path, err = url.PathUnescape(u.RawPath); err != nil {
		return nil, err
	}
	u.RawQuery = req.QueryParams.Encode()

	var (
		body        io.Reader
		contentType string
	)
	if req.Body != nil {
		body, contentType, err = endpoint.RequestSerializer().Serialize(req.Body)
		if err != nil {
			return nil, err
		}
	}
	httpReq, err := http.NewRequestWithContext(ctx, endpoint.HTTPMethod(), u.String(), body)
	if err != nil {
		return nil, err
	}
	for k, vs := range c.headers {
		httpReq.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range req.HeaderParams {
		httpReq.Header[k] = append([]string(nil), vs...)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}
