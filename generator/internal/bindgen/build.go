package bindgen

import (
	"fmt"
	"strings"

	"goa.design/goa/v3/codegen"

	"github.com/xeger/bindgen/definition"
)

// RuntimePath is the import path of the package generated bindings compile against.
const RuntimePath = "github.com/xeger/bindgen/runtime"

// Codec names the runtime codec a generated binding uses for structured
// bodies.
type Codec string

const (
	CodecJSON    Codec = "json"
	CodecMsgPack Codec = "msgpack"
)

// Expr returns the runtime expression of c. The empty codec is JSON.
func (c Codec) Expr() (string, error) {
	switch c {
	case "", CodecJSON:
		return "bindruntime.JSONCodec", nil
	case CodecMsgPack:
		return "bindruntime.MsgPackCodec", nil
	}
	return "", fmt.Errorf("%w: codec %q", ErrUnrecognized, string(c))
}

// BuildServiceSpec compiles every endpoint of svc and returns the render data
// of its contract and binding.
func BuildServiceSpec(genpkg string, codec Codec, doc *definition.Document, svc *definition.ServiceDefinition) (*ServiceSpec, error) {
	codecExpr, err := codec.Expr()
	if err != nil {
		return nil, &CompileError{Service: svc.Name, Err: err}
	}
	r := NewResolver(doc, genpkg, svc.Namespace)
	name := codegen.Goify(svc.Name, true)
	spec := &ServiceSpec{
		GenPkg:          genpkg,
		PkgName:         PackageName(svc.Namespace),
		PkgPath:         PackagePath(genpkg, svc.Namespace),
		ServiceName:     svc.Name,
		FileName:        codegen.SnakeCase(name),
		InterfaceName:   name + "Client",
		ImplName:        lowerFirst(name) + "Client",
		ConstructorName: "New" + name + "Client",
		CodecVar:        lowerFirst(name) + "Codec",
		CodecExpr:       codecExpr,
		DocLines:        docLines(svc.Docs),
	}

	runtimeImport := codegen.NewImport("bindruntime", RuntimePath)
	contract := []*codegen.ImportSpec{codegen.SimpleImport("context")}
	binding := []*codegen.ImportSpec{codegen.SimpleImport("context"), runtimeImport}
	for i := range svc.Endpoints {
		ep := &svc.Endpoints[i]
		d, err := BuildDescriptor(r, svc, ep)
		if err != nil {
			return nil, err
		}
		plan, err := BuildPlan(r, svc, ep)
		if err != nil {
			return nil, err
		}
		es := endpointSpec(spec, ep, d, plan)
		spec.Endpoints = append(spec.Endpoints, es)

		for _, p := range plan.Params {
			if p.Auth {
				contract = append(contract, runtimeImport)
			}
			contract = append(contract, p.Type.Imports...)
			binding = append(binding, p.Type.Imports...)
		}
		if d.ReturnType != nil {
			contract = append(contract, d.ReturnType.Imports...)
			binding = append(binding, d.ReturnType.Imports...)
		}
	}
	spec.ContractImports = mergeImports(contract)
	spec.BindingImports = mergeImports(binding)
	return spec, nil
}

func endpointSpec(svc *ServiceSpec, ep *definition.EndpointDefinition, d *Descriptor, plan *Plan) EndpointSpec {
	method := codegen.Goify(ep.Name, true)
	es := EndpointSpec{
		Name:       ep.Name,
		MethodName: method,
		VarName:    lowerFirst(codegen.Goify(svc.ServiceName, true)) + method + "Endpoint",
		HTTPMethod: strings.ToUpper(ep.Method),
		DocLines:   endpointDocLines(method, ep, plan),
		ParamList:  paramList(plan.Params),
	}
	for _, s := range d.Path {
		es.Segments = append(es.Segments, SegmentSpec{Variable: s.Kind == VariableSegment, Value: s.Value})
	}

	switch d.Serializer {
	case SerializeEmptyBody:
		es.SerializerExpr = "bindruntime.EmptyBodySerializer()"
	case SerializeFailing:
		es.SerializerExpr = "bindruntime.FailingSerializer()"
	case SerializeBinary:
		es.SerializerExpr = "bindruntime.BinarySerializer()"
	case SerializeStructured:
		es.SerializerExpr = fmt.Sprintf("bindruntime.StructuredSerializer(%s, %q)", svc.CodecVar, ep.Name)
	}
	switch d.Deserializer {
	case DeserializeEmpty:
		es.DeserializerExpr = fmt.Sprintf("bindruntime.EmptyDeserializer(%q)", ep.Name)
	case DeserializePassthrough:
		es.DeserializerExpr = "bindruntime.PassthroughDeserializer()"
		es.ResultRef = d.ReturnType.Ref
	case DeserializeStructured:
		es.DeserializerExpr = fmt.Sprintf("bindruntime.StructuredDeserializer[%s](%s, %q)", d.ReturnType.Ref, svc.CodecVar, ep.Name)
		es.ResultRef = d.ReturnType.Ref
	}

	for _, g := range plan.Guards {
		es.Guards = append(es.Guards, GuardSpec{Arg: g.Name, Var: g.Var})
	}
	for _, s := range plan.Steps {
		if s.Mode == InsertBody {
			continue
		}
		es.Steps = append(es.Steps, stepSpec(s))
	}
	switch plan.Body {
	case EmptyBody:
		es.BodyExpr = "bindruntime.EmptyBody"
	case ArgumentBody:
		for _, p := range plan.Params {
			if p.Name == plan.BodyArg && !p.Auth {
				es.BodyExpr = p.Var
			}
		}
	}
	return es
}

func stepSpec(s Step) StepSpec {
	out := StepSpec{Key: s.Key, Var: s.Var}
	var put, add string
	switch s.Category {
	case definition.ParamHeader:
		put, add = "PutHeaderParam", "AddHeaderParam"
	case definition.ParamPath:
		put, add = "PutPathParam", "PutPathParam"
	case definition.ParamQuery:
		put, add = "PutQueryParam", "AddQueryParam"
	}
	out.Setter = put
	switch {
	case s.Auth:
		out.Kind = "value"
		out.Value = s.Var + ".String()"
	case s.Mode == InsertIfPresent:
		out.Kind = "present"
		v := s.Var
		if s.Type.Deref {
			v = "*" + v
		}
		out.Value = stringify(v, s.Type.Elem)
	case s.Mode == InsertEach:
		out.Kind = "each"
		out.Setter = add
		out.Value = stringify("v", s.Type.Elem)
	case s.Mode == InsertIfNotEmpty:
		out.Kind = "nonempty"
		out.Value = stringify(s.Var, &s.Type)
	default:
		out.Kind = "value"
		out.Value = stringify(s.Var, &s.Type)
	}
	return out
}

// stringify returns the expression converting expr of type t to a string.
func stringify(expr string, t *GoType) string {
	if t != nil && t.Ref == "string" {
		return expr
	}
	return "bindruntime.ParamString(" + expr + ")"
}

func paramList(params []Param) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, "ctx context.Context")
	for _, p := range params {
		parts = append(parts, p.Var+" "+p.Type.Ref)
	}
	return strings.Join(parts, ", ")
}

func endpointDocLines(method string, ep *definition.EndpointDefinition, plan *Plan) []string {
	lines := docLines(ep.Docs)
	if len(lines) == 0 {
		lines = []string{fmt.Sprintf("%s calls %s %s.", method, strings.ToUpper(ep.Method), ep.Path)}
	}
	var marked []string
	for _, p := range plan.Params {
		if len(p.Markers) > 0 {
			marked = append(marked, fmt.Sprintf("%s (%s)", p.Var, strings.Join(p.Markers, ", ")))
		}
	}
	if len(marked) > 0 {
		lines = append(lines, "", "Markers: "+strings.Join(marked, "; ")+".")
	}
	if ep.Deprecated != nil {
		msg := strings.TrimSpace(*ep.Deprecated)
		if msg == "" {
			msg = "do not use."
		}
		lines = append(lines, "", "Deprecated: "+msg)
	}
	return lines
}

func docLines(docs string) []string {
	docs = strings.TrimSpace(docs)
	if docs == "" {
		return nil
	}
	lines := strings.Split(docs, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return lines
}
