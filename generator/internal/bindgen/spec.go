package bindgen

import "goa.design/goa/v3/codegen"

// ServiceSpec is the render data of the contract and binding of one service.
type ServiceSpec struct {
	GenPkg          string
	PkgName         string
	PkgPath         string
	ServiceName     string
	FileName        string
	InterfaceName   string
	ImplName        string
	ConstructorName string
	CodecVar        string
	CodecExpr       string
	DocLines        []string
	ContractImports []*codegen.ImportSpec
	BindingImports  []*codegen.ImportSpec
	Endpoints       []EndpointSpec
}

type EndpointSpec struct {
	Name             string
	MethodName       string
	VarName          string
	HTTPMethod       string
	DocLines         []string
	Segments         []SegmentSpec
	SerializerExpr   string
	DeserializerExpr string
	// ParamList is the rendered parameter list, context first.
	ParamList string
	// ResultRef is the Go type returned on success, empty when the endpoint
	// returns nothing.
	ResultRef string
	Guards    []GuardSpec
	Steps     []StepSpec
	// BodyExpr is the expression passed to SetBody, empty for no body.
	BodyExpr string
}

type SegmentSpec struct {
	Variable bool
	Value    string
}

type GuardSpec struct {
	Arg string
	Var string
}

// StepSpec is one rendered request mutation. Kind is one of "value",
// "present", "each" or "nonempty".
type StepSpec struct {
	Kind   string
	Setter string
	Key    string
	Var    string
	Value  string
}
