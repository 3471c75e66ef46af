package runtime

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   string `json:"id" msgpack:"id"`
	Size int    `json:"size" msgpack:"size"`
}

func response(status int, contentType string, body []byte) *http.Response {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &http.Response{StatusCode: status, Header: h, Body: io.NopCloser(bytes.NewReader(body))}
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestSerializers(t *testing.T) {
	r, ct, err := EmptyBodySerializer().Serialize(EmptyBody)
	require.NoError(t, err)
	assert.Empty(t, ct)
	assert.Equal(t, http.NoBody, r)

	_, _, err = EmptyBodySerializer().Serialize("x")
	assert.Error(t, err)

	_, _, err = FailingSerializer().Serialize(EmptyBody)
	assert.ErrorIs(t, err, ErrFailingSerializer)

	r, ct, err = StructuredSerializer(JSONCodec, "createWidget").Serialize(&widget{ID: "w1", Size: 3})
	require.NoError(t, err)
	assert.Equal(t, "application/json", ct)
	b, _ := io.ReadAll(r)
	assert.JSONEq(t, `{"id":"w1","size":3}`, string(b))

	_, _, err = StructuredSerializer(JSONCodec, "createWidget").Serialize(make(chan int))
	assert.ErrorContains(t, err, "encode createWidget request")

	src := strings.NewReader("raw bytes")
	r, ct, err = BinarySerializer().Serialize(src)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", ct)
	assert.Same(t, src, r)

	_, _, err = BinarySerializer().Serialize(42)
	assert.Error(t, err)
}

func TestStructuredDeserializer(t *testing.T) {
	d := StructuredDeserializer[*widget](JSONCodec, "getWidget")
	body := &closeTracker{Reader: strings.NewReader(`{"id":"w1","size":3}`)}
	resp := response(http.StatusOK, "application/json", nil)
	resp.Body = body

	v, err := d.Deserialize(resp)
	require.NoError(t, err)
	assert.Equal(t, &widget{ID: "w1", Size: 3}, v)
	assert.True(t, body.closed)

	v, err = d.Deserialize(response(http.StatusNoContent, "", nil))
	require.NoError(t, err)
	assert.Nil(t, v.(*widget))

	_, err = d.Deserialize(response(http.StatusOK, "application/json", []byte(`{"id":`)))
	assert.ErrorContains(t, err, "decode getWidget response")
}

func TestMsgPackCodecRoundTrip(t *testing.T) {
	r, ct, err := StructuredSerializer(MsgPackCodec, "createWidget").Serialize(widget{ID: "w2", Size: 9})
	require.NoError(t, err)
	assert.Equal(t, "application/msgpack", ct)
	data, _ := io.ReadAll(r)

	v, err := StructuredDeserializer[widget](MsgPackCodec, "getWidget").Deserialize(response(http.StatusOK, ct, data))
	require.NoError(t, err)
	assert.Equal(t, widget{ID: "w2", Size: 9}, v)
}

func TestEmptyAndPassthroughDeserializers(t *testing.T) {
	body := &closeTracker{Reader: strings.NewReader("ignored")}
	resp := response(http.StatusOK, "", nil)
	resp.Body = body
	v, err := EmptyDeserializer("deleteWidget").Deserialize(resp)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.True(t, body.closed)

	body = &closeTracker{Reader: strings.NewReader("image")}
	resp.Body = body
	v, err = PassthroughDeserializer().Deserialize(resp)
	require.NoError(t, err)
	assert.Same(t, body, v)
	assert.False(t, body.closed)
}
