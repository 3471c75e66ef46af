package bindgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeger/bindgen/definition"
)

const (
	// AuthHeaderName is the header carrying the credential of header-authenticated endpoints.
	AuthHeaderName = "Authorization"

	authParamName = "authHeader"
)

// InsertMode describes how an argument value is written into the request.
type InsertMode int

const (
	// InsertValue writes the stringified value unconditionally.
	InsertValue InsertMode = iota
	// InsertIfPresent writes the unwrapped value of an optional when present.
	InsertIfPresent
	// InsertEach writes one entry per element of a list or set.
	InsertEach
	// InsertIfNotEmpty writes the stringified value of a non-empty map.
	InsertIfNotEmpty
	// InsertBody sets the request body.
	InsertBody
)

// BodySource tells where the request body comes from.
type BodySource int

const (
	// NoBody leaves the body slot unset.
	NoBody BodySource = iota
	// EmptyBody sets the empty-body sentinel.
	EmptyBody
	// ArgumentBody sets the body argument.
	ArgumentBody
)

func (s BodySource) String() string {
	switch s {
	case NoBody:
		return "none"
	case EmptyBody:
		return "empty"
	case ArgumentBody:
		return "argument"
	}
	return "unknown"
}

type (
	// Plan is the deterministic request assembly sequence of an endpoint.
	Plan struct {
		// Params are the method parameters after the context: the auth
		// parameter, if any, then the arguments in processing order.
		Params []Param
		// Guards lists the arguments checked for nil, in declaration order.
		Guards []Param
		// Steps are the request mutations in processing order.
		Steps []Step
		// Body is where the request body comes from; BodyArg names the
		// argument when Body is ArgumentBody.
		Body    BodySource
		BodyArg string
	}

	// Param is a method parameter of the generated contract.
	Param struct {
		Name    string
		Var     string
		Type    GoType
		Auth    bool
		Markers []string
	}

	// Step is one request mutation.
	Step struct {
		Category    definition.ParamCategory
		Arg         string
		Var         string
		Key         string
		Conditional bool
		Mode        InsertMode
		Type        GoType
		Auth        bool
	}
)

// categoryRank orders argument categories for processing.
var categoryRank = map[definition.ParamCategory]int{
	definition.ParamHeader: 0,
	definition.ParamPath:   1,
	definition.ParamQuery:  2,
	definition.ParamBody:   3,
}

// OrderArguments returns the arguments of ep sorted by category (header,
// path, query, body) then by absence disposition (required before
// optional). Ties keep declaration order.
func OrderArguments(args []definition.ArgumentDefinition) ([]definition.ArgumentDefinition, error) {
	for _, a := range args {
		if _, ok := categoryRank[a.Param]; !ok {
			return nil, &CompileError{Argument: a.Name, Err: fmt.Errorf("%w: %s", ErrUnsupportedParamCategory, a.Param)}
		}
	}
	sorted := make([]definition.ArgumentDefinition, len(args))
	copy(sorted, args)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := categoryRank[sorted[i].Param], categoryRank[sorted[j].Param]
		if ci != cj {
			return ci < cj
		}
		return absenceRank(sorted[i].Type) < absenceRank(sorted[j].Type)
	})
	return sorted, nil
}

func absenceRank(t definition.TypeRef) int {
	if t != nil && t.Absent() {
		return 1
	}
	return 0
}

// BuildPlan computes the request assembly plan of ep.
func BuildPlan(r *Resolver, svc *definition.ServiceDefinition, ep *definition.EndpointDefinition) (*Plan, error) {
	if _, err := bodyArgument(ep); err != nil {
		return nil, endpointError(svc, ep, "", err)
	}
	ordered, err := OrderArguments(ep.Args)
	if err != nil {
		if ce, ok := err.(*CompileError); ok {
			return nil, endpointError(svc, ep, ce.Argument, ce.Err)
		}
		return nil, endpointError(svc, ep, "", err)
	}

	p := &Plan{}
	var authStep *Step
	if ep.Auth != nil && ep.Auth.Kind != definition.AuthNone {
		if ep.Auth.Kind != definition.AuthHeader {
			return nil, endpointError(svc, ep, "", fmt.Errorf("%w: %s", ErrUnsupportedAuthType, ep.Auth.Kind))
		}
		auth := Param{Name: authParamName, Var: authParamName, Auth: true, Type: GoType{Ref: "bindruntime.AuthHeader"}}
		p.Params = append(p.Params, auth)
		authStep = &Step{
			Category: definition.ParamHeader,
			Arg:      authParamName,
			Var:      authParamName,
			Key:      AuthHeaderName,
			Mode:     InsertValue,
			Type:     auth.Type,
			Auth:     true,
		}
	}

	for _, a := range ordered {
		t, err := r.Resolve(a.Type, ParamPosition)
		if err != nil {
			return nil, endpointError(svc, ep, a.Name, err)
		}
		markers, err := markerNames(r, a.Markers)
		if err != nil {
			return nil, endpointError(svc, ep, a.Name, err)
		}
		param := Param{Name: a.Name, Var: paramVar(a.Name), Type: t, Markers: markers}
		p.Params = append(p.Params, param)

		step := Step{Category: a.Param, Arg: a.Name, Var: param.Var, Key: a.WireName(), Type: t}
		switch a.Param {
		case definition.ParamBody:
			step.Mode = InsertBody
			p.Body = ArgumentBody
			p.BodyArg = a.Name
		case definition.ParamPath:
			if t.Absent {
				return nil, endpointError(svc, ep, a.Name, fmt.Errorf("%w: path parameters cannot have type %s", ErrInvalidPathArgument, a.Type))
			}
			step.Key = a.Name
			step.Mode = InsertValue
		case definition.ParamHeader, definition.ParamQuery:
			step.Mode = insertMode(a.Type)
			step.Conditional = step.Mode != InsertValue
		}
		p.Steps = append(p.Steps, step)
	}
	// The credential is written last so that no argument can replace it.
	if authStep != nil {
		p.Steps = append(p.Steps, *authStep)
	}
	if err := checkPathVariables(ep, ordered); err != nil {
		return nil, endpointError(svc, ep, err.Argument, err.Err)
	}

	if p.Body == NoBody && definition.HasBody(ep.Method) {
		p.Body = EmptyBody
	}

	for _, a := range ep.Args {
		t, err := r.Resolve(a.Type, ParamPosition)
		if err != nil {
			return nil, endpointError(svc, ep, a.Name, err)
		}
		if t.NeedsGuard() {
			p.Guards = append(p.Guards, Param{Name: a.Name, Var: paramVar(a.Name), Type: t})
		}
	}
	return p, nil
}

// checkPathVariables verifies that the variables of the path template and
// the path arguments of ep name each other one to one.
func checkPathVariables(ep *definition.EndpointDefinition, args []definition.ArgumentDefinition) *CompileError {
	vars := map[string]bool{}
	for _, v := range PathVariables(CompilePath(ep.Path)) {
		vars[v] = false
	}
	for _, a := range args {
		if a.Param != definition.ParamPath {
			continue
		}
		if _, ok := vars[a.Name]; !ok {
			return &CompileError{Argument: a.Name, Err: fmt.Errorf("%w: no {%s} in path %q", ErrInvalidPathArgument, a.Name, ep.Path)}
		}
		vars[a.Name] = true
	}
	for _, v := range PathVariables(CompilePath(ep.Path)) {
		if !vars[v] {
			return &CompileError{Argument: v, Err: fmt.Errorf("%w: path variable {%s} has no path argument", ErrInvalidPathArgument, v)}
		}
	}
	return nil
}

func insertMode(t definition.TypeRef) InsertMode {
	switch t.(type) {
	case definition.Optional:
		return InsertIfPresent
	case definition.List, definition.Set:
		return InsertEach
	case definition.Map:
		return InsertIfNotEmpty
	}
	return InsertValue
}

func markerNames(r *Resolver, markers []definition.TypeRef) ([]string, error) {
	if len(markers) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(markers))
	for _, m := range markers {
		if _, ok := m.(definition.Reference); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMarker, m)
		}
		t, err := r.Resolve(m, ParamPosition)
		if err != nil {
			return nil, err
		}
		names = append(names, strings.TrimPrefix(t.Ref, "*"))
	}
	sort.Strings(names)
	return names, nil
}
