package generator

import (
	"errors"
	"strings"

	"github.com/xeger/bindgen/definition"
	"github.com/xeger/bindgen/generator/internal/bindgen"
)

// EndpointSummary describes the compiled strategies of one endpoint.
type EndpointSummary struct {
	Service      string
	Endpoint     string
	Method       string
	Path         string
	Serializer   string
	Deserializer string
	// Steps lists the request mutations in order, e.g. "header Authorization"
	// or "query ?limit".
	Steps []string
	Body  string
}

// Summarize compiles doc without rendering and reports the descriptor and
// request plan of every endpoint. Endpoints that fail to compile are
// skipped and their errors joined.
func Summarize(doc *definition.Document, opts Options) ([]EndpointSummary, error) {
	if doc == nil {
		return nil, nil
	}
	var (
		out  []EndpointSummary
		errs []error
	)
	for i := range doc.Services {
		svc := &doc.Services[i]
		r := bindgen.NewResolver(doc, opts.GenPkg, svc.Namespace)
		for j := range svc.Endpoints {
			ep := &svc.Endpoints[j]
			d, err := bindgen.BuildDescriptor(r, svc, ep)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			plan, err := bindgen.BuildPlan(r, svc, ep)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			s := EndpointSummary{
				Service:      svc.Name,
				Endpoint:     ep.Name,
				Method:       strings.ToUpper(ep.Method),
				Path:         ep.Path,
				Serializer:   d.Serializer.String(),
				Deserializer: d.Deserializer.String(),
				Body:         plan.Body.String(),
			}
			for _, st := range plan.Steps {
				key := st.Key
				if st.Conditional {
					key = "?" + key
				}
				s.Steps = append(s.Steps, st.Category.String()+" "+key)
			}
			out = append(out, s)
		}
	}
	return out, errors.Join(errs...)
}
