package runtime

import (
	"fmt"
	"io"
	"net/http"
)

// Deserializer turns a successful response into the call result. It owns the
// response body: it must close it unless the body itself is the result.
type Deserializer interface {
	Deserialize(resp *http.Response) (any, error)
}

// DeserializerFunc adapts a function to Deserializer.
type DeserializerFunc func(resp *http.Response) (any, error)

func (f DeserializerFunc) Deserialize(resp *http.Response) (any, error) { return f(resp) }

// EmptyDeserializer discards the response body.
func EmptyDeserializer(endpoint string) Deserializer {
	return DeserializerFunc(func(resp *http.Response) (any, error) {
		defer resp.Body.Close()
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			return nil, fmt.Errorf("drain %s response: %w", endpoint, err)
		}
		return nil, nil
	})
}

// PassthroughDeserializer returns the response body unread. The caller must
// close it.
func PassthroughDeserializer() Deserializer {
	return DeserializerFunc(func(resp *http.Response) (any, error) {
		return resp.Body, nil
	})
}

// StructuredDeserializer decodes the response body into a T with codec. A
// 204 response yields the zero T.
func StructuredDeserializer[T any](codec Codec, endpoint string) Deserializer {
	return DeserializerFunc(func(resp *http.Response) (any, error) {
		defer resp.Body.Close()
		var v T
		if resp.StatusCode == http.StatusNoContent {
			return v, nil
		}
		if err := codec.Decode(resp, &v); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
		}
		return v, nil
	})
}
