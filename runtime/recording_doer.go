package runtime

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"goa.design/clue/log"
	goahttp "goa.design/goa/v3/http"
)

// Exchange is one request and response seen by a RecordingDoer.
type Exchange struct {
	// Endpoint is "Service.endpoint" when the request matched a known
	// endpoint descriptor, empty otherwise.
	Endpoint       string
	Method         string
	URL            string
	RequestHeader  http.Header
	RequestBody    []byte
	Status         int
	ResponseHeader http.Header
	ResponseBody   []byte
	Started        time.Time
	Duration       time.Duration
	Err            error
}

// RecordingDoer is a goahttp.Doer that forwards requests to another doer
// and keeps a copy of every exchange. Recorded exchanges can be inspected in
// tests or written out as a HAR archive.
type RecordingDoer struct {
	ctx    context.Context
	base   goahttp.Doer
	router *Router

	mu        sync.Mutex
	exchanges []Exchange
}

// NewRecordingDoer returns a doer recording the traffic sent to base. ctx
// carries the logger. Requests are labeled with the matching endpoint
// among endpoints.
func NewRecordingDoer(ctx context.Context, base goahttp.Doer, endpoints ...Endpoint) *RecordingDoer {
	if ctx == nil {
		ctx = context.Background()
	}
	if base == nil {
		base = http.DefaultClient
	}
	router := NewRouter()
	for _, ep := range endpoints {
		router.Register(ep, http.NotFoundHandler())
	}
	return &RecordingDoer{ctx: ctx, base: base, router: router}
}

// Do implements goahttp.Doer.
func (d *RecordingDoer) Do(req *http.Request) (*http.Response, error) {
	ex := Exchange{
		Method:        req.Method,
		URL:           req.URL.String(),
		RequestHeader: req.Header.Clone(),
		Started:       time.Now(),
	}
	if ep, _, ok := d.router.Match(req); ok {
		ex.Endpoint = stubKey(ep)
	}
	if req.Body != nil && req.Body != http.NoBody {
		body, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
		ex.RequestBody = body
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	resp, err := d.base.Do(req)
	ex.Duration = time.Since(ex.Started)
	if err != nil {
		ex.Err = err
		d.record(ex)
		return nil, err
	}

	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if readErr != nil {
		ex.Err = readErr
		d.record(ex)
		return resp, nil
	}
	ex.Status = resp.StatusCode
	ex.ResponseHeader = resp.Header.Clone()
	ex.ResponseBody = decodeContent(body, resp.Header)
	d.record(ex)
	return resp, nil
}

// Exchanges returns the recorded exchanges in order.
func (d *RecordingDoer) Exchanges() []Exchange {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Exchange(nil), d.exchanges...)
}

// Reset discards the recorded exchanges.
func (d *RecordingDoer) Reset() {
	d.mu.Lock()
	d.exchanges = nil
	d.mu.Unlock()
}

// WriteHAR writes the recorded exchanges to path as a HAR 1.2 archive.
func (d *RecordingDoer) WriteHAR(path string) error {
	return writeHAR(path, newHAR(d.Exchanges()))
}

func (d *RecordingDoer) record(ex Exchange) {
	ctx := log.With(d.ctx,
		log.KV{K: "http.method", V: ex.Method},
		log.KV{K: "http.url", V: ex.URL},
	)
	if ex.Endpoint != "" {
		ctx = log.With(ctx, log.KV{K: "bindgen.endpoint", V: ex.Endpoint})
	}
	if ex.Err != nil {
		log.Error(ctx, ex.Err, log.KV{K: "msg", V: "exchange failed"})
	} else {
		log.Debug(ctx, log.KV{K: "http.status", V: ex.Status}, log.KV{K: "http.duration", V: ex.Duration.String()})
	}
	d.mu.Lock()
	d.exchanges = append(d.exchanges, ex)
	d.mu.Unlock()
}

// decodeContent returns the uncompressed body when the upstream returned
// gzip content.
func decodeContent(body []byte, headers http.Header) []byte {
	if headers.Get("Content-Encoding") != "gzip" {
		return body
	}
	reader, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return body
	}
	defer reader.Close()
	plain, err := io.ReadAll(reader)
	if err != nil {
		return body
	}
	return plain
}
