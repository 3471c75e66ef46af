package runtime

import (
	"encoding/json"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
	goahttp "goa.design/goa/v3/http"
)

// Codec encodes request bodies and decodes response bodies. Codecs are
// shared by every endpoint of a service and must be safe for concurrent use.
type Codec interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	// Decode reads the body of resp into v. It does not close the body.
	Decode(resp *http.Response, v any) error
}

var (
	// JSONCodec encodes JSON and decodes responses according to their
	// Content-Type, defaulting to JSON.
	JSONCodec Codec = jsonCodec{}

	// MsgPackCodec encodes and decodes MessagePack.
	MsgPackCodec Codec = msgpackCodec{}
)

type jsonCodec struct{}

func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Decode(resp *http.Response, v any) error {
	return goahttp.ResponseDecoder(resp).Decode(v)
}

type msgpackCodec struct{}

func (msgpackCodec) ContentType() string { return "application/msgpack" }

func (msgpackCodec) Marshal(v any) ([]byte, error) { return msgpack.Marshal(v) }

func (msgpackCodec) Decode(resp *http.Response, v any) error {
	return msgpack.NewDecoder(resp.Body).Decode(v)
}
