package runtime

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Serializer turns the body slot of a request into an HTTP body and its
// content type.
type Serializer interface {
	Serialize(body any) (io.Reader, string, error)
}

// SerializerFunc adapts a function to Serializer.
type SerializerFunc func(body any) (io.Reader, string, error)

func (f SerializerFunc) Serialize(body any) (io.Reader, string, error) { return f(body) }

// Empty is the type of EmptyBody.
type Empty struct{}

// EmptyBody is the body of requests whose method requires a body but whose
// endpoint declares none.
var EmptyBody = Empty{}

// EmptyBodySerializer writes an empty body without a content type.
func EmptyBodySerializer() Serializer {
	return SerializerFunc(func(body any) (io.Reader, string, error) {
		if _, ok := body.(Empty); !ok {
			return nil, "", fmt.Errorf("empty body serializer: unexpected body %T", body)
		}
		return http.NoBody, "", nil
	})
}

// FailingSerializer is used by endpoints that never send a body. Invoking it
// is a programming error reported as ErrFailingSerializer.
func FailingSerializer() Serializer {
	return SerializerFunc(func(any) (io.Reader, string, error) {
		return nil, "", ErrFailingSerializer
	})
}

// StructuredSerializer encodes the body with codec. endpoint names the
// endpoint in errors.
func StructuredSerializer(codec Codec, endpoint string) Serializer {
	return SerializerFunc(func(body any) (io.Reader, string, error) {
		data, err := codec.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		return bytes.NewReader(data), codec.ContentType(), nil
	})
}

// BinarySerializer streams an io.Reader body unchanged.
func BinarySerializer() Serializer {
	return SerializerFunc(func(body any) (io.Reader, string, error) {
		r, ok := body.(io.Reader)
		if !ok {
			return nil, "", fmt.Errorf("binary serializer: body %T is not an io.Reader", body)
		}
		return r, "application/octet-stream", nil
	})
}
