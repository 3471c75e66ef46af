package bindgen

import (
	"errors"
	"strings"

	"github.com/xeger/bindgen/definition"
)

// Structural defects detected while compiling a definition.
var (
	ErrUnresolvedReference      = errors.New("unresolved reference")
	ErrMultipleBodyArguments    = errors.New("multiple body arguments")
	ErrUnsupportedAuthType      = errors.New("unsupported auth type")
	ErrUnsupportedParamCategory = errors.New("unsupported param category")
	ErrInvalidPathArgument      = errors.New("invalid path argument")
	ErrInvalidMarker            = errors.New("markers must refer to reference types")
	ErrUnrecognized             = definition.ErrUnrecognized
)

// CompileError reports a defect together with the service, endpoint and
// argument it was found in.
type CompileError struct {
	Service  string
	Endpoint string
	Argument string
	Err      error
}

func (e *CompileError) Error() string {
	var b strings.Builder
	if e.Service != "" {
		b.WriteString("service " + e.Service + ": ")
	}
	if e.Endpoint != "" {
		b.WriteString("endpoint " + e.Endpoint + ": ")
	}
	if e.Argument != "" {
		b.WriteString("argument " + e.Argument + ": ")
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *CompileError) Unwrap() error { return e.Err }

func endpointError(svc *definition.ServiceDefinition, ep *definition.EndpointDefinition, arg string, err error) error {
	ce := &CompileError{Argument: arg, Err: err}
	if svc != nil {
		ce.Service = svc.Name
	}
	if ep != nil {
		ce.Endpoint = ep.Name
	}
	return ce
}
