package binder

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/refaktor/newtypegen/typegraph"
)

// ArgRole is the position of a type within a signature.
type ArgRole int

const (
	FirstArg ArgRole = iota
	LaterArg
	ReturnPos
)

func (r ArgRole) String() string {
	switch r {
	case FirstArg:
		return "first argument"
	case LaterArg:
		return "argument"
	case ReturnPos:
		return "return type"
	default:
		return fmt.Sprintf("ArgRole(%d)", int(r))
	}
}

func argRole(i int) ArgRole {
	if i == 0 {
		return FirstArg
	}
	return LaterArg
}

// UnsupportedTypeError is returned for types that have no
// conversion to or from the scripting runtime.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type `%v`", e.Type)
}

// Types the scripting runtime can convert from when passed as arguments.
var argPrimitives = []string{
	"bool", "StdString", "Box<str>", "CString", "BString",
	"i8", "u8", "i16", "u16", "i32", "u32", "i64", "u64", "i128", "u128",
	"isize", "usize", "f32", "f64",
}

// Types the scripting runtime can convert to when returned.
var returnPrimitives = []string{
	"bool", "StdString", "&str", "Box<str>", "CString", "&CStr", "BString", "&BStr",
	"i8", "u8", "i16", "u16", "i32", "u32", "i64", "u64", "i128", "u128",
	"isize", "usize", "f32", "f64",
}

// ConvertiblePrimitives returns the primitive types the scripting
// runtime can convert in both directions.
func ConvertiblePrimitives() []string {
	return slices.Clone(argPrimitives)
}

// lookup converts a concrete type name into its scripting-side
// spelling.
func (ctx *Context) lookup(typ string) (string, error) {
	if ctx.Config.IsTarget(typ) {
		return ctx.WrapperName(typ), nil
	}
	if ctx.Config.IsPrimitive(typ) {
		return typ, nil
	}
	return "", &UnsupportedTypeError{Type: typ}
}

// AutoMethodArg converts the base identifier of a type within a
// method signature of the wrapped type.
//
// Self is "self" as the first argument and the wrapped type
// everywhere else.
func (ctx *Context) AutoMethodArg(wrapped, base string, role ArgRole) (string, error) {
	if base == "Self" {
		if role == FirstArg {
			return "self", nil
		}
		base = wrapped
	}
	return ctx.lookup(base)
}

// OperatorArg converts the base identifier of a type within an
// operator trait signature. lhs is the type the impl block is for,
// which may differ from the wrapped type when the wrapped type is
// the right hand operand.
func (ctx *Context) OperatorArg(wrapped, lhs, base string, role ArgRole) (string, error) {
	selfOnLhs := lhs == wrapped
	if base == "Self" {
		if selfOnLhs && role == FirstArg {
			return "self", nil
		}
		base = lhs
	} else if !selfOnLhs && role == LaterArg {
		return "self", nil
	}
	return ctx.lookup(base)
}

func (ctx *Context) autoMethodBase(wrapped string, role ArgRole) typegraph.BaseFunc {
	return func(name string) (string, error) {
		return ctx.AutoMethodArg(wrapped, name, role)
	}
}

func (ctx *Context) operatorBase(wrapped, lhs string, role ArgRole) typegraph.BaseFunc {
	return func(name string) (string, error) {
		return ctx.OperatorArg(wrapped, lhs, name, role)
	}
}

func (ctx *Context) isWrapperName(s string) bool {
	name, ok := strings.CutPrefix(s, ctx.Config.WrapperPrefix)
	return ok && ctx.Config.IsTarget(name)
}

// ValidArg reports whether the rendered argument type s can be
// passed from the scripting runtime.
func (ctx *Context) ValidArg(s string) bool {
	if s == "&self" {
		s = "self"
	}
	return s == "self" ||
		slices.Contains(argPrimitives, s) ||
		ctx.isWrapperName(s)
}

// ValidReturn reports whether the rendered return type s can be
// passed to the scripting runtime.
func (ctx *Context) ValidReturn(s string) bool {
	return s == "self" ||
		slices.Contains(returnPrimitives, s) ||
		ctx.isWrapperName(s)
}

// renderArg renders t with the given base conversion and validates
// the result for role.
func (ctx *Context) renderArg(t typegraph.Type, base typegraph.BaseFunc, role ArgRole) (string, error) {
	s, err := typegraph.Render(t, base)
	if err != nil {
		return "", err
	}
	valid := ctx.ValidArg
	if role == ReturnPos {
		valid = ctx.ValidReturn
	}
	if !valid(s) {
		return "", &UnsupportedTypeError{Type: s}
	}
	return s, nil
}

// spell renders t verbatim for diagnostics, even if it has
// no canonical form.
func spell(t typegraph.Type) string {
	s, err := typegraph.Render(t, typegraph.Identity)
	if err != nil {
		var rErr *typegraph.RenderError
		if errors.As(err, &rErr) {
			return rErr.Spelling()
		}
		return "<unknown>"
	}
	return s
}

// offendingType returns the type name an argument conversion
// error refers to.
func offendingType(err error) string {
	var uErr *UnsupportedTypeError
	if errors.As(err, &uErr) {
		return uErr.Type
	}
	var rErr *typegraph.RenderError
	if errors.As(err, &rErr) {
		return rErr.Spelling()
	}
	return err.Error()
}
