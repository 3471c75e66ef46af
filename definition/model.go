// Package definition holds the in-memory model of an interface definition: the
// services, endpoints, arguments and type references that the binding
// generator compiles. Values are built once by a loader (or by hand in tests)
// and are never mutated afterwards.
package definition

import "strings"

type (
	// Document is a complete, pre-parsed interface definition.
	Document struct {
		// Types is the catalogue that Reference types resolve against.
		Types []TypeDefinition
		// Services lists the services to generate bindings for.
		Services []ServiceDefinition
	}

	// ServiceDefinition describes one service and its endpoints.
	ServiceDefinition struct {
		Name      string
		Namespace string
		Docs      string
		Endpoints []EndpointDefinition
	}

	// EndpointDefinition describes a single HTTP endpoint. At most one
	// argument may be in the Body category.
	EndpointDefinition struct {
		Name    string
		Method  string
		Path    string
		Args    []ArgumentDefinition
		Returns TypeRef // nil when the endpoint returns nothing
		Auth    *AuthSpec
		// Deprecated is non-nil when the endpoint is deprecated; the value is
		// the deprecation message and may be empty.
		Deprecated *string
		Docs       string
	}

	// ArgumentDefinition describes one endpoint argument.
	ArgumentDefinition struct {
		Name  string
		Type  TypeRef
		Param ParamCategory
		// ParamID is the wire name used for header and query parameters.
		// Empty means Name.
		ParamID string
		// Markers are metadata-only reference types attached to the argument.
		Markers []TypeRef
	}

	// TypeDefinition is a catalogue entry for a named type.
	TypeDefinition struct {
		Name      string
		Namespace string
		Kind      TypeKind
	}

	// AuthSpec declares how an endpoint authenticates.
	AuthSpec struct {
		Kind AuthKind
		// CookieName is set for AuthCookie.
		CookieName string
	}
)

// TypeKind is the kind of a named type in the catalogue.
type TypeKind int

const (
	KindObject TypeKind = iota + 1
	KindAlias
	KindEnum
	KindUnion
)

func (k TypeKind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindAlias:
		return "alias"
	case KindEnum:
		return "enum"
	case KindUnion:
		return "union"
	}
	return "unknown"
}

// AuthKind enumerates the authentication schemes of the definition language.
type AuthKind int

const (
	AuthNone AuthKind = iota
	AuthHeader
	AuthCookie

	// AuthUnrecognized marks a scheme the loader did not know.
	AuthUnrecognized AuthKind = -1
)

func (k AuthKind) String() string {
	switch k {
	case AuthNone:
		return "none"
	case AuthHeader:
		return "header"
	case AuthCookie:
		return "cookie"
	}
	return "unknown"
}

// ParamCategory classifies where an argument travels in the HTTP request.
type ParamCategory int

// The zero ParamCategory is unrecognized.
const (
	ParamHeader ParamCategory = iota + 1
	ParamPath
	ParamQuery
	ParamBody
)

func (c ParamCategory) String() string {
	switch c {
	case ParamHeader:
		return "header"
	case ParamPath:
		return "path"
	case ParamQuery:
		return "query"
	case ParamBody:
		return "body"
	}
	return "unknown"
}

// WireName returns the name the argument uses on the wire.
func (a ArgumentDefinition) WireName() string {
	if a.ParamID != "" {
		return a.ParamID
	}
	return a.Name
}

// Lookup returns the catalogue entry for the given reference.
func (d *Document) Lookup(ref Reference) (TypeDefinition, bool) {
	if d == nil {
		return TypeDefinition{}, false
	}
	for _, t := range d.Types {
		if t.Name == ref.Name && (ref.Namespace == "" || t.Namespace == ref.Namespace) {
			return t, true
		}
	}
	return TypeDefinition{}, false
}

// Merge appends the types and services of other to d.
func (d *Document) Merge(other *Document) {
	if other == nil {
		return
	}
	d.Types = append(d.Types, other.Types...)
	d.Services = append(d.Services, other.Services...)
}

// HasBody reports whether requests using method must carry a body. Only GET
// requests are body-less.
func HasBody(method string) bool {
	return !strings.EqualFold(method, "GET")
}
