package runtime

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNullArgument is matched by the errors returned when a required
	// argument of a generated client method is nil.
	ErrNullArgument = errors.New("null argument")

	// ErrFailingSerializer is returned when a body is serialized for an
	// endpoint that never sends one.
	ErrFailingSerializer = errors.New("endpoint does not accept a request body")
)

// NullArgumentError names the nil argument.
type NullArgumentError struct {
	Argument string
}

func (e *NullArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNullArgument, e.Argument)
}

func (e *NullArgumentError) Is(target error) bool { return target == ErrNullArgument }

// NullArgument returns the error reported for the nil argument name.
func NullArgument(name string) error {
	return &NullArgumentError{Argument: name}
}

// ExecutionError wraps the failure of an asynchronous call. Block and Wait
// unwrap it so callers see the cause.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string { return "call failed: " + e.Err.Error() }

func (e *ExecutionError) Unwrap() error { return e.Err }

// RemoteError is a non-2xx response decoded by DefaultErrorDecoder.
type RemoteError struct {
	StatusCode int
	Code       string
	Name       string
	InstanceID uuid.UUID
	Parameters map[string]any
	// Message is the raw body when it is not a structured error.
	Message string
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "remote error: status %d", e.StatusCode)
	if e.Code != "" {
		b.WriteString(" " + e.Code)
	}
	if e.Name != "" {
		b.WriteString(" " + e.Name)
	}
	if e.InstanceID != uuid.Nil {
		b.WriteString(" (" + e.InstanceID.String() + ")")
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	return b.String()
}

// ErrorDecoder turns a non-2xx response into an error. The channel closes
// the response body afterwards.
type ErrorDecoder interface {
	Decode(resp *http.Response) error
}

// ErrorDecoderFunc adapts a function to ErrorDecoder.
type ErrorDecoderFunc func(resp *http.Response) error

func (f ErrorDecoderFunc) Decode(resp *http.Response) error { return f(resp) }

// DefaultErrorDecoder decodes {"errorCode", "errorName", "errorInstanceId",
// "parameters"} JSON bodies into a *RemoteError and keeps any other body as
// the error message.
var DefaultErrorDecoder ErrorDecoder = ErrorDecoderFunc(decodeRemoteError)

const maxErrorBody = 64 << 10

type serializableError struct {
	ErrorCode       string         `json:"errorCode"`
	ErrorName       string         `json:"errorName"`
	ErrorInstanceID string         `json:"errorInstanceId"`
	Parameters      map[string]any `json:"parameters"`
}

func decodeRemoteError(resp *http.Response) error {
	rerr := &RemoteError{StatusCode: resp.StatusCode}
	if resp.Body == nil {
		return rerr
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("read error response: %w", err)
	}
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt == "application/json" {
		var se serializableError
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(&se); err == nil && se.ErrorCode != "" {
			rerr.Code = se.ErrorCode
			rerr.Name = se.ErrorName
			rerr.Parameters = se.Parameters
			if id, err := uuid.Parse(se.ErrorInstanceID); err == nil {
				rerr.InstanceID = id
			}
			return rerr
		}
	}
	rerr.Message = strings.TrimSpace(string(data))
	return rerr
}
