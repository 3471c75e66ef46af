package runtime

import (
	"fmt"
	"net/url"
	"strings"
)

type (
	// PathTemplate is a compiled endpoint path.
	PathTemplate struct {
		segments []PathSegment
	}

	// PathSegment is a literal path element or a variable filled from the
	// path parameter of the same name.
	PathSegment struct {
		Value    string
		Variable bool
	}
)

// Fixed returns a literal segment.
func Fixed(value string) PathSegment { return PathSegment{Value: value} }

// Variable returns a segment filled from the path parameter name.
func Variable(name string) PathSegment { return PathSegment{Value: name, Variable: true} }

// NewPathTemplate returns a template made of segments in order.
func NewPathTemplate(segments ...PathSegment) PathTemplate {
	return PathTemplate{segments: append([]PathSegment(nil), segments...)}
}

// Segments returns a copy of the template segments.
func (t PathTemplate) Segments() []PathSegment {
	return append([]PathSegment(nil), t.segments...)
}

// Fill renders the template, escaping each variable value. It fails when a
// variable has no value in params.
func (t PathTemplate) Fill(params map[string]string) (string, error) {
	var b strings.Builder
	for _, s := range t.segments {
		b.WriteByte('/')
		if !s.Variable {
			b.WriteString(s.Value)
			continue
		}
		v, ok := params[s.Value]
		if !ok {
			return "", fmt.Errorf("missing path parameter %q", s.Value)
		}
		b.WriteString(url.PathEscape(v))
	}
	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}

// Pattern returns the template in "/widgets/{id}" form, the syntax accepted
// by goahttp.Muxer.
func (t PathTemplate) Pattern() string {
	var b strings.Builder
	for _, s := range t.segments {
		b.WriteByte('/')
		if s.Variable {
			b.WriteString("{" + s.Value + "}")
			continue
		}
		b.WriteString(s.Value)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
