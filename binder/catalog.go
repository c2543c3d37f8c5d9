package binder

import (
	_ "embed"
	"strings"
	"text/template"
)

// primitive is a built-in type with a fixed conversion to and
// from the scripting runtime.
type primitive struct {
	Path string
	// Kind is one of "integer", "number" or "string".
	Kind string
}

var primitiveCatalog = []primitive{
	{"usize", "integer"},
	{"isize", "integer"},
	{"i128", "integer"},
	{"i64", "integer"},
	{"i32", "integer"},
	{"i16", "integer"},
	{"i8", "integer"},
	{"u128", "integer"},
	{"u64", "integer"},
	{"u32", "integer"},
	{"u16", "integer"},
	{"u8", "integer"},
	{"f32", "number"},
	{"f64", "number"},
	{"alloc::string::String", "string"},
}

//go:embed templates/primitives.tmpl
var primitivesTmplSrc string

var primitivesTmpl = template.Must(template.New("primitives").Funcs(template.FuncMap{
	"luaValue": func(kind string) string {
		if kind == "number" {
			return "Number"
		}
		return "Integer"
	},
	"wide": func(kind string) string {
		if kind == "number" {
			return "f64"
		}
		return "i64"
	},
	"notA": func(kind string) string {
		if kind == "number" {
			return "Not a number"
		}
		return "Not an integer"
	},
}).Parse(primitivesTmplSrc))

// PrimitiveCatalog returns the descriptor blocks of all built-in
// primitives. They precede the generated descriptors.
func PrimitiveCatalog() string {
	var b strings.Builder
	if err := primitivesTmpl.Execute(&b, primitiveCatalog); err != nil {
		panic(err)
	}
	return strings.TrimPrefix(b.String(), "\n")
}

// PrimitiveNames returns the paths of all built-in primitives.
func PrimitiveNames() []string {
	res := make([]string, len(primitiveCatalog))
	for i, p := range primitiveCatalog {
		res[i] = p.Path
	}
	return res
}
