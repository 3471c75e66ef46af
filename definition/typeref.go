package definition

import "fmt"

// TypeRef is a reference to a type of the definition language. The set of
// implementations is closed: Primitive, Optional, List, Set, Map and Reference,
// plus Unrecognized for tags a loader could not classify.
type TypeRef interface {
	// Absent reports whether values of the type can represent "no value".
	Absent() bool
	fmt.Stringer
	isTypeRef()
}

// PrimitiveKind enumerates the built-in scalar types.
type PrimitiveKind string

const (
	String      PrimitiveKind = "STRING"
	DateTime    PrimitiveKind = "DATETIME"
	Integer     PrimitiveKind = "INTEGER"
	Double      PrimitiveKind = "DOUBLE"
	SafeLong    PrimitiveKind = "SAFELONG"
	Binary      PrimitiveKind = "BINARY"
	Any         PrimitiveKind = "ANY"
	Boolean     PrimitiveKind = "BOOLEAN"
	UUID        PrimitiveKind = "UUID"
	RID         PrimitiveKind = "RID"
	BearerToken PrimitiveKind = "BEARERTOKEN"
)

// PrimitiveKinds lists every known primitive kind.
var PrimitiveKinds = []PrimitiveKind{String, DateTime, Integer, Double, SafeLong, Binary, Any, Boolean, UUID, RID, BearerToken}

// Known reports whether k is one of PrimitiveKinds.
func (k PrimitiveKind) Known() bool {
	for _, p := range PrimitiveKinds {
		if p == k {
			return true
		}
	}
	return false
}

type (
	// Primitive is a built-in scalar type.
	Primitive struct{ Kind PrimitiveKind }

	// Optional wraps a type whose value may be absent.
	Optional struct{ Item TypeRef }

	// List is an ordered collection.
	List struct{ Item TypeRef }

	// Set is an unordered collection of distinct values.
	Set struct{ Item TypeRef }

	// Map associates keys with values.
	Map struct{ Key, Value TypeRef }

	// Reference names a type of the catalogue.
	Reference struct {
		Name      string
		Namespace string
	}

	// Unrecognized stands for a type whose tag is outside the known set, or
	// that is missing. Compiling it fails.
	Unrecognized struct{ Tag string }
)

func (Primitive) Absent() bool    { return false }
func (Optional) Absent() bool     { return true }
func (List) Absent() bool         { return true }
func (Set) Absent() bool          { return true }
func (Map) Absent() bool          { return true }
func (Reference) Absent() bool    { return false }
func (Unrecognized) Absent() bool { return false }

func (p Primitive) String() string { return string(p.Kind) }
func (o Optional) String() string  { return "optional<" + o.Item.String() + ">" }
func (l List) String() string      { return "list<" + l.Item.String() + ">" }
func (s Set) String() string       { return "set<" + s.Item.String() + ">" }
func (m Map) String() string       { return "map<" + m.Key.String() + ", " + m.Value.String() + ">" }
func (r Reference) String() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

func (u Unrecognized) String() string {
	if u.Tag == "" {
		return "<missing>"
	}
	return "<unrecognized " + u.Tag + ">"
}

func (Primitive) isTypeRef()    {}
func (Optional) isTypeRef()     {}
func (List) isTypeRef()         {}
func (Set) isTypeRef()          {}
func (Map) isTypeRef()          {}
func (Reference) isTypeRef()    {}
func (Unrecognized) isTypeRef() {}

// IsPrimitive reports whether t is the primitive of the given kind.
func IsPrimitive(t TypeRef, kind PrimitiveKind) bool {
	p, ok := t.(Primitive)
	return ok && p.Kind == kind
}
