package bindgen

import "strings"

// SegmentKind distinguishes literal path segments from variables.
type SegmentKind int

const (
	// FixedSegment is a literal path element.
	FixedSegment SegmentKind = iota
	// VariableSegment is filled from the path parameter of the same name.
	VariableSegment
)

// Segment is one element of a compiled path template.
type Segment struct {
	Kind  SegmentKind
	Value string
}

// CompilePath parses a "/"-separated path pattern into segments. A segment
// written "{name}" is a variable, anything else (including malformed braces)
// is kept literally. Empty segments, such as the one produced by the leading
// slash, are dropped.
func CompilePath(pattern string) []Segment {
	parts := strings.Split(pattern, "/")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) > 2 && strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			segments = append(segments, Segment{Kind: VariableSegment, Value: part[1 : len(part)-1]})
			continue
		}
		segments = append(segments, Segment{Kind: FixedSegment, Value: part})
	}
	return segments
}

// PathVariables returns the variable names of segments in order.
func PathVariables(segments []Segment) []string {
	var names []string
	for _, s := range segments {
		if s.Kind == VariableSegment {
			names = append(names, s.Value)
		}
	}
	return names
}
