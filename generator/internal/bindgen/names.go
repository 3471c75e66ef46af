package bindgen

import (
	"go/token"
	"path"
	"strings"
	"unicode"

	"goa.design/goa/v3/codegen"
)

// reservedVars are identifiers used by generated method bodies.
var reservedVars = map[string]bool{
	"bindruntime": true,
	"c":           true,
	"call":        true,
	"context":     true,
	"ctx":         true,
	"req":         true,
	"v":           true,
	"zero":        true,
	authParamName: true,
}

// PackageName returns the Go package name for a definition namespace: the
// last dot-separated element, lower-cased and stripped of characters that
// are not valid in identifiers.
func PackageName(namespace string) string {
	last := namespace
	if i := strings.LastIndex(namespace, "."); i >= 0 {
		last = namespace[i+1:]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(last) {
		if r == '_' || unicode.IsLetter(r) || (unicode.IsDigit(r) && b.Len() > 0) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		return "api"
	}
	if token.Lookup(name).IsKeyword() {
		name += "pkg"
	}
	return name
}

// PackagePath returns the import path of the package generated for
// namespace below genpkg.
func PackagePath(genpkg, namespace string) string {
	return path.Join(genpkg, PackageName(namespace))
}

// paramVar returns the Go identifier used for the argument named name.
func paramVar(name string) string {
	v := codegen.Goify(name, false)
	if v == "" {
		v = "arg"
	}
	if reservedVars[v] || token.Lookup(v).IsKeyword() {
		v += "Arg"
	}
	return v
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
