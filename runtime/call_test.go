package runtime

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallCompletesOnce(t *testing.T) {
	c := NewCall()
	select {
	case <-c.Done():
		t.Fatal("call completed early")
	default:
	}
	c.Complete("first", nil)
	c.Complete("second", errors.New("ignored"))
	v, err := c.Result()
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestBlockWaitsForCompletion(t *testing.T) {
	release := make(chan struct{})
	c := Go(func() (any, error) {
		<-release
		return &widget{ID: "w1"}, nil
	})
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()
	got, err := Block[*widget](c)
	require.NoError(t, err)
	assert.Equal(t, "w1", got.ID)
}

func TestBlockUnwrapsExecutionErrors(t *testing.T) {
	cause := errors.New("connection refused")
	c := Go(func() (any, error) {
		return nil, &ExecutionError{Err: &ExecutionError{Err: cause}}
	})
	_, err := Block[*widget](c)
	assert.Same(t, cause, err)

	c = Go(func() (any, error) { return nil, &ExecutionError{Err: cause} })
	assert.Same(t, cause, Wait(c))
}

func TestBlockRecoversPanics(t *testing.T) {
	c := Go(func() (any, error) { panic("boom") })
	_, err := c.Result()
	var ee *ExecutionError
	require.ErrorAs(t, err, &ee)
	assert.EqualError(t, Wait(c), "panic: boom")
}

func TestBlockResultTypes(t *testing.T) {
	c := NewCall()
	c.Complete(nil, nil)
	got, err := Block[*widget](c)
	require.NoError(t, err)
	assert.Nil(t, got)

	c = NewCall()
	c.Complete("not a widget", nil)
	_, err = Block[*widget](c)
	assert.ErrorContains(t, err, "unexpected call result string")
}

func TestNullArgument(t *testing.T) {
	err := NullArgument("widget")
	assert.ErrorIs(t, err, ErrNullArgument)
	var nae *NullArgumentError
	require.ErrorAs(t, err, &nae)
	assert.Equal(t, "widget", nae.Argument)
	assert.EqualError(t, err, "null argument: widget")
}

func TestDefaultErrorDecoder(t *testing.T) {
	id := uuid.New()
	body := `{"errorCode":"NOT_FOUND","errorName":"Widget:NotFound","errorInstanceId":"` + id.String() + `","parameters":{"id":"w1"}}`
	err := DefaultErrorDecoder.Decode(response(http.StatusNotFound, "application/json", []byte(body)))
	var rerr *RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusNotFound, rerr.StatusCode)
	assert.Equal(t, "NOT_FOUND", rerr.Code)
	assert.Equal(t, "Widget:NotFound", rerr.Name)
	assert.Equal(t, id, rerr.InstanceID)
	assert.Equal(t, map[string]any{"id": "w1"}, rerr.Parameters)
	assert.Contains(t, rerr.Error(), "status 404 NOT_FOUND Widget:NotFound ("+id.String()+")")

	err = DefaultErrorDecoder.Decode(response(http.StatusBadGateway, "text/plain", []byte("upstream down\n")))
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "upstream down", rerr.Message)
	assert.Equal(t, "remote error: status 502: upstream down", rerr.Error())

	resp := response(http.StatusInternalServerError, "application/json", nil)
	resp.Body = io.NopCloser(strings.NewReader(`{"message":"not conjure"}`))
	err = DefaultErrorDecoder.Decode(resp)
	require.ErrorAs(t, err, &rerr)
	assert.Empty(t, rerr.Code)
	assert.Equal(t, `{"message":"not conjure"}`, rerr.Message)
}
