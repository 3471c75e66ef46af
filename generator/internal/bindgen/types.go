package bindgen

import (
	"fmt"
	"sort"

	"goa.design/goa/v3/codegen"

	"github.com/xeger/bindgen/definition"
)

// Position selects how a type is represented: as an argument the binding
// consumes or as a value it produces.
type Position int

const (
	// ParamPosition resolves types of endpoint arguments.
	ParamPosition Position = iota
	// ReturnPosition resolves endpoint return types.
	ReturnPosition
)

// GoType describes the Go representation of a definition type.
type GoType struct {
	// Ref is the Go type expression, e.g. "*widgets.Widget" or "[]string".
	Ref string
	// Absent is the absence-disposition of the definition type: true for
	// optional, list, set and map types.
	Absent bool
	// Nillable is true when a Go value of the type can be nil.
	Nillable bool
	// Primitive is set for primitive definition types.
	Primitive definition.PrimitiveKind
	// Elem describes the contained type of optional, list and set types.
	Elem *GoType
	// Deref is true for optional types whose present value is read with *v.
	Deref bool
	// Imports lists the packages the type expression refers to.
	Imports []*codegen.ImportSpec
}

// IsBinary reports whether t is the binary primitive.
func (t GoType) IsBinary() bool { return t.Primitive == definition.Binary }

// NeedsGuard reports whether an argument of this type must be checked for nil
// before a request is assembled. Types with an absence disposition accept
// nil as "no value" and types that cannot be nil need no check.
func (t GoType) NeedsGuard() bool { return t.Nillable && !t.Absent }

// Resolver maps definition types to Go types for one generated package.
type Resolver struct {
	doc       *definition.Document
	genpkg    string
	namespace string
}

// NewResolver returns a resolver for code generated in the package of
// namespace. genpkg is the import path under which namespace packages live.
func NewResolver(doc *definition.Document, genpkg, namespace string) *Resolver {
	return &Resolver{doc: doc, genpkg: genpkg, namespace: namespace}
}

// Resolve returns the Go representation of t in the given position.
func (r *Resolver) Resolve(t definition.TypeRef, pos Position) (GoType, error) {
	switch t := t.(type) {
	case definition.Primitive:
		return r.primitive(t.Kind, pos)
	case definition.Optional:
		inner, err := r.Resolve(t.Item, pos)
		if err != nil {
			return GoType{}, err
		}
		out := GoType{Absent: true, Nillable: true, Elem: &inner, Imports: inner.Imports}
		if inner.Nillable {
			out.Ref = inner.Ref
		} else {
			out.Ref = "*" + inner.Ref
			out.Deref = true
		}
		return out, nil
	case definition.List:
		return r.collection(t.Item, pos)
	case definition.Set:
		return r.collection(t.Item, pos)
	case definition.Map:
		key, err := r.Resolve(t.Key, pos)
		if err != nil {
			return GoType{}, err
		}
		val, err := r.Resolve(t.Value, pos)
		if err != nil {
			return GoType{}, err
		}
		return GoType{
			Ref:      "map[" + key.Ref + "]" + val.Ref,
			Absent:   true,
			Nillable: true,
			Imports:  mergeImports(key.Imports, val.Imports),
		}, nil
	case definition.Reference:
		return r.reference(t)
	case definition.Unrecognized:
		if t.Tag == "" {
			return GoType{}, fmt.Errorf("%w: missing type", ErrUnrecognized)
		}
		return GoType{}, fmt.Errorf("%w: type %q", ErrUnrecognized, t.Tag)
	case nil:
		return GoType{}, fmt.Errorf("%w: missing type", ErrUnrecognized)
	}
	return GoType{}, fmt.Errorf("%w: type %T", ErrUnrecognized, t)
}

func (r *Resolver) collection(item definition.TypeRef, pos Position) (GoType, error) {
	inner, err := r.Resolve(item, pos)
	if err != nil {
		return GoType{}, err
	}
	return GoType{Ref: "[]" + inner.Ref, Absent: true, Nillable: true, Elem: &inner, Imports: inner.Imports}, nil
}

func (r *Resolver) primitive(kind definition.PrimitiveKind, pos Position) (GoType, error) {
	t := GoType{Primitive: kind}
	switch kind {
	case definition.String, definition.RID, definition.BearerToken:
		t.Ref = "string"
	case definition.Integer:
		t.Ref = "int"
	case definition.SafeLong:
		t.Ref = "int64"
	case definition.Double:
		t.Ref = "float64"
	case definition.Boolean:
		t.Ref = "bool"
	case definition.DateTime:
		t.Ref = "time.Time"
		t.Imports = []*codegen.ImportSpec{codegen.SimpleImport("time")}
	case definition.UUID:
		t.Ref = "uuid.UUID"
		t.Imports = []*codegen.ImportSpec{codegen.SimpleImport("github.com/google/uuid")}
	case definition.Binary:
		t.Ref = "io.Reader"
		if pos == ReturnPosition {
			t.Ref = "io.ReadCloser"
		}
		t.Nillable = true
		t.Imports = []*codegen.ImportSpec{codegen.SimpleImport("io")}
	case definition.Any:
		t.Ref = "any"
		t.Nillable = true
	default:
		return GoType{}, fmt.Errorf("%w: primitive %q", ErrUnrecognized, kind)
	}
	return t, nil
}

func (r *Resolver) reference(ref definition.Reference) (GoType, error) {
	def, ok := r.doc.Lookup(ref)
	if !ok {
		return GoType{}, fmt.Errorf("%w: %s", ErrUnresolvedReference, ref)
	}
	name := codegen.Goify(def.Name, true)
	var imports []*codegen.ImportSpec
	if def.Namespace != "" && def.Namespace != r.namespace {
		pkg := PackageName(def.Namespace)
		name = pkg + "." + name
		imports = []*codegen.ImportSpec{codegen.NewImport(pkg, PackagePath(r.genpkg, def.Namespace))}
	}
	switch def.Kind {
	case definition.KindObject, definition.KindUnion:
		return GoType{Ref: "*" + name, Nillable: true, Imports: imports}, nil
	case definition.KindAlias, definition.KindEnum:
		return GoType{Ref: name, Imports: imports}, nil
	}
	return GoType{}, fmt.Errorf("%w: kind of type %s", ErrUnrecognized, ref)
}

// mergeImports returns the union of the given import lists ordered by path.
func mergeImports(lists ...[]*codegen.ImportSpec) []*codegen.ImportSpec {
	seen := map[string]*codegen.ImportSpec{}
	for _, l := range lists {
		for _, imp := range l {
			seen[imp.Name+" "+imp.Path] = imp
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]*codegen.ImportSpec, 0, len(seen))
	for _, imp := range seen {
		out = append(out, imp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path == out[j].Path {
			return out[i].Name < out[j].Name
		}
		return out[i].Path < out[j].Path
	})
	return out
}
