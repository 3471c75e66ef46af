package bindgen

import (
	"path/filepath"

	"goa.design/goa/v3/codegen"
)

// RenderContract returns the file declaring the client interface of spec.
func RenderContract(spec *ServiceSpec) *codegen.File {
	p := filepath.Join(codegen.Gendir, spec.PkgName, spec.FileName+"_client.go")
	sections := []*codegen.SectionTemplate{
		codegen.Header(spec.ServiceName+" client contract", spec.PkgName, spec.ContractImports),
		{
			Name:    "bindgen-contract",
			Source:  contractTmpl,
			FuncMap: codegen.TemplateFuncs(),
			Data:    spec,
		},
	}
	return &codegen.File{Path: p, SectionTemplates: sections}
}

// RenderBinding returns the file implementing the client interface of spec
// on top of a runtime channel.
func RenderBinding(spec *ServiceSpec) *codegen.File {
	p := filepath.Join(codegen.Gendir, spec.PkgName, spec.FileName+"_binding.go")
	sections := []*codegen.SectionTemplate{
		codegen.Header(spec.ServiceName+" client binding", spec.PkgName, spec.BindingImports),
		{
			Name:    "bindgen-descriptors",
			Source:  descriptorsTmpl,
			FuncMap: codegen.TemplateFuncs(),
			Data:    spec,
		},
		{
			Name:    "bindgen-binding",
			Source:  bindingTmpl,
			FuncMap: codegen.TemplateFuncs(),
			Data:    spec,
		},
	}
	return &codegen.File{Path: p, SectionTemplates: sections}
}

const contractTmpl = `
{{- if .DocLines }}
{{- range .DocLines }}
// {{ . }}
{{- end }}
{{- else }}
// {{ .InterfaceName }} is the client of the {{ .ServiceName }} service.
{{- end }}
type {{ .InterfaceName }} interface {
{{- range .Endpoints }}
	{{- range .DocLines }}
	// {{ . }}
	{{- end }}
	{{ .MethodName }}({{ .ParamList }}) {{ if .ResultRef }}({{ .ResultRef }}, error){{ else }}error{{ end }}
{{- end }}
}
`

const descriptorsTmpl = `
// {{ .CodecVar }} encodes request bodies and decodes response bodies of the
// {{ .ServiceName }} service.
var {{ .CodecVar }} bindruntime.Codec = {{ .CodecExpr }}

var (
{{- range .Endpoints }}
	{{ .VarName }} = &bindruntime.EndpointDescriptor{
		Service: {{ printf "%q" $.ServiceName }},
		Name:    {{ printf "%q" .Name }},
		Method:  {{ printf "%q" .HTTPMethod }},
		Template: bindruntime.NewPathTemplate(
		{{- range .Segments }}
			{{- if .Variable }}
			bindruntime.Variable({{ printf "%q" .Value }}),
			{{- else }}
			bindruntime.Fixed({{ printf "%q" .Value }}),
			{{- end }}
		{{- end }}
		),
		Serializer:   {{ .SerializerExpr }},
		Deserializer: {{ .DeserializerExpr }},
		Errors:       bindruntime.DefaultErrorDecoder,
	}
{{- end }}
)

// {{ .InterfaceName }}Endpoints returns the endpoint descriptors of the
// {{ .ServiceName }} service in declaration order.
func {{ .InterfaceName }}Endpoints() []bindruntime.Endpoint {
	return []bindruntime.Endpoint{
	{{- range .Endpoints }}
		{{ .VarName }},
	{{- end }}
	}
}
`

const bindingTmpl = `
type {{ .ImplName }} struct {
	channel bindruntime.Channel
}

// {{ .ConstructorName }} returns a {{ .InterfaceName }} that executes calls
// through channel.
func {{ .ConstructorName }}(channel bindruntime.Channel) {{ .InterfaceName }} {
	return &{{ .ImplName }}{channel: channel}
}
{{ range .Endpoints }}
{{- $ep := . }}
func (c *{{ $.ImplName }}) {{ .MethodName }}({{ .ParamList }}) {{ if .ResultRef }}({{ .ResultRef }}, error){{ else }}error{{ end }} {
{{- if and .Guards .ResultRef }}
	var zero {{ .ResultRef }}
{{- end }}
{{- range .Guards }}
	if {{ .Var }} == nil {
		return {{ if $ep.ResultRef }}zero, {{ end }}bindruntime.NullArgument({{ printf "%q" .Arg }})
	}
{{- end }}
	req := bindruntime.NewRequest()
{{- range .Steps }}
	{{- if eq .Kind "present" }}
	if {{ .Var }} != nil {
		req.{{ .Setter }}({{ printf "%q" .Key }}, {{ .Value }})
	}
	{{- else if eq .Kind "each" }}
	for _, v := range {{ .Var }} {
		req.{{ .Setter }}({{ printf "%q" .Key }}, {{ .Value }})
	}
	{{- else if eq .Kind "nonempty" }}
	if len({{ .Var }}) > 0 {
		req.{{ .Setter }}({{ printf "%q" .Key }}, {{ .Value }})
	}
	{{- else }}
	req.{{ .Setter }}({{ printf "%q" .Key }}, {{ .Value }})
	{{- end }}
{{- end }}
{{- if .BodyExpr }}
	req.SetBody({{ .BodyExpr }})
{{- end }}
	call := c.channel.CreateCall(ctx, {{ .VarName }}, req)
{{- if .ResultRef }}
	return bindruntime.Block[{{ .ResultRef }}](call)
{{- else }}
	return bindruntime.Wait(call)
{{- end }}
}
{{ end }}
`
