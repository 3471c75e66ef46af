package definition

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrUnrecognized reports a tagged value outside the closed set the model
// knows about. Load returns it only for catalogue type kinds; unknown type,
// parameter and auth tags inside a service are carried into the model
// (Unrecognized, the zero ParamCategory, AuthUnrecognized) and rejected when
// that service is compiled.
var ErrUnrecognized = errors.New("unrecognized variant")

var validate = newValidator()

type (
	document struct {
		Version  int       `yaml:"version" validate:"gte=0"`
		Types    []typeDef `yaml:"types" validate:"unique=Name,dive"`
		Services []service `yaml:"services" validate:"unique=Name,dive"`
	}

	typeDef struct {
		Name      string `yaml:"name" validate:"required"`
		Namespace string `yaml:"namespace"`
		Kind      string `yaml:"kind" validate:"required,oneof=object alias enum union"`
	}

	service struct {
		Name      string     `yaml:"name" validate:"required"`
		Namespace string     `yaml:"namespace" validate:"required"`
		Docs      string     `yaml:"docs"`
		Endpoints []endpoint `yaml:"endpoints" validate:"unique=Name,dive"`
	}

	endpoint struct {
		Name       string    `yaml:"name" validate:"required"`
		Method     string    `yaml:"method" validate:"required,method"`
		Path       string    `yaml:"path" validate:"required,startswith=/"`
		Auth       *auth     `yaml:"auth"`
		Returns    *typeNode `yaml:"returns"`
		Deprecated *string   `yaml:"deprecated"`
		Docs       string    `yaml:"docs"`
		Args       []arg     `yaml:"args" validate:"unique=Name,dive"`
	}

	auth struct {
		Type       string `yaml:"type" validate:"required"`
		CookieName string `yaml:"cookieName"`
	}

	arg struct {
		Name    string      `yaml:"name" validate:"required"`
		Type    *typeNode   `yaml:"type" validate:"required"`
		Param   *param      `yaml:"param" validate:"required"`
		Markers []*typeNode `yaml:"markers" validate:"dive,required"`
	}

	param struct {
		Type    string `yaml:"type" validate:"required"`
		ParamID string `yaml:"paramId"`
	}

	typeNode struct {
		Type      string    `yaml:"type" validate:"required"`
		Primitive string    `yaml:"primitive"`
		ItemType  *typeNode `yaml:"itemType"`
		KeyType   *typeNode `yaml:"keyType"`
		ValueType *typeNode `yaml:"valueType"`
		Name      string    `yaml:"name"`
		Namespace string    `yaml:"namespace"`
	}
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	err := v.RegisterValidation("method", func(fl validator.FieldLevel) bool {
		switch strings.ToUpper(fl.Field().String()) {
		case "GET", "POST", "PUT", "DELETE":
			return true
		}
		return false
	})
	if err != nil {
		panic(err)
	}
	return v
}

// LoadFiles loads and merges the definition documents at paths.
func LoadFiles(paths ...string) (*Document, error) {
	doc := &Document{}
	for _, path := range paths {
		d, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		doc.Merge(d)
	}
	return doc, nil
}

// LoadFile loads the YAML or JSON definition document at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return doc, nil
}

// Load decodes a YAML or JSON definition document, validates its structure
// and converts it to the model. Unknown fields are rejected.
func Load(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw document
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := validate.Struct(&raw); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return raw.toModel()
}

func (d *document) toModel() (*Document, error) {
	out := &Document{
		Types:    make([]TypeDefinition, 0, len(d.Types)),
		Services: make([]ServiceDefinition, 0, len(d.Services)),
	}
	for _, t := range d.Types {
		kind, err := typeKind(t.Kind)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", t.Name, err)
		}
		out.Types = append(out.Types, TypeDefinition{Name: t.Name, Namespace: t.Namespace, Kind: kind})
	}
	for _, s := range d.Services {
		out.Services = append(out.Services, s.toModel())
	}
	return out, nil
}

func (s *service) toModel() ServiceDefinition {
	svc := ServiceDefinition{
		Name:      s.Name,
		Namespace: s.Namespace,
		Docs:      s.Docs,
		Endpoints: make([]EndpointDefinition, 0, len(s.Endpoints)),
	}
	for _, e := range s.Endpoints {
		ep := EndpointDefinition{
			Name:       e.Name,
			Method:     strings.ToUpper(e.Method),
			Path:       e.Path,
			Deprecated: e.Deprecated,
			Docs:       e.Docs,
		}
		if e.Auth != nil {
			ep.Auth = e.Auth.toModel()
		}
		if e.Returns != nil {
			ep.Returns = e.Returns.toModel()
		}
		for _, a := range e.Args {
			ep.Args = append(ep.Args, a.toModel())
		}
		svc.Endpoints = append(svc.Endpoints, ep)
	}
	return svc
}

func (a *auth) toModel() *AuthSpec {
	switch strings.ToLower(a.Type) {
	case "none":
		return &AuthSpec{Kind: AuthNone}
	case "header":
		return &AuthSpec{Kind: AuthHeader}
	case "cookie":
		return &AuthSpec{Kind: AuthCookie, CookieName: a.CookieName}
	}
	return &AuthSpec{Kind: AuthUnrecognized}
}

func (a *arg) toModel() ArgumentDefinition {
	out := ArgumentDefinition{
		Name:    a.Name,
		Type:    a.Type.toModel(),
		Param:   paramCategory(a.Param.Type),
		ParamID: a.Param.ParamID,
	}
	for _, m := range a.Markers {
		out.Markers = append(out.Markers, m.toModel())
	}
	return out
}

// toModel converts n. Tags outside the known set become Unrecognized so the
// defect surfaces when the owning service is compiled.
func (n *typeNode) toModel() TypeRef {
	if n == nil {
		return Unrecognized{}
	}
	switch strings.ToLower(n.Type) {
	case "primitive":
		return Primitive{Kind: PrimitiveKind(strings.ToUpper(n.Primitive))}
	case "optional":
		return Optional{Item: n.ItemType.toModel()}
	case "list":
		return List{Item: n.ItemType.toModel()}
	case "set":
		return Set{Item: n.ItemType.toModel()}
	case "map":
		return Map{Key: n.KeyType.toModel(), Value: n.ValueType.toModel()}
	case "reference":
		return Reference{Name: n.Name, Namespace: n.Namespace}
	}
	return Unrecognized{Tag: n.Type}
}

func typeKind(s string) (TypeKind, error) {
	switch s {
	case "object":
		return KindObject, nil
	case "alias":
		return KindAlias, nil
	case "enum":
		return KindEnum, nil
	case "union":
		return KindUnion, nil
	}
	return 0, fmt.Errorf("%w: type kind %q", ErrUnrecognized, s)
}

func paramCategory(s string) ParamCategory {
	switch strings.ToLower(s) {
	case "header":
		return ParamHeader
	case "path":
		return ParamPath
	case "query":
		return ParamQuery
	case "body":
		return ParamBody
	}
	return 0
}
