package typegraph

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// RenderError is returned by [Render] for type shapes that
// have no canonical string form.
type RenderError struct {
	Type Type
	// Dump is a multi-line debug dump of Type.
	Dump string
}

func newRenderError(t Type) *RenderError {
	return &RenderError{Type: t, Dump: dumpConfig.Sdump(t)}
}

// Spelling returns a short, single-line description of the
// offending type.
func (e *RenderError) Spelling() string {
	if e.Type.Kind == TypeResolvedPath {
		return e.Type.Name + "<..>"
	}
	if e.Type.Kind == "" {
		return "<unknown>"
	}
	return "<" + string(e.Type.Kind) + ">"
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("unsupported type shape %v", e.Spelling())
}

// BaseFunc converts the base identifier of a resolved path or
// generic type reference.
type BaseFunc func(name string) (string, error)

// Identity is a [BaseFunc] that returns name unchanged.
func Identity(name string) (string, error) {
	return name, nil
}

// Render converts t into its canonical string form, passing
// every base identifier through base.
//
// Errors returned by base are passed through unchanged. Unsupported
// shapes, including resolved paths with generic arguments, produce
// a [*RenderError].
func Render(t Type, base BaseFunc) (string, error) {
	switch t.Kind {
	case TypeResolvedPath:
		if !t.Args.Empty() {
			return "", newRenderError(t)
		}
		return base(t.Name)
	case TypeGeneric:
		return base(t.Name)
	case TypePrimitive:
		return t.Name, nil
	case TypeTuple:
		elems := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			s, err := Render(e, base)
			if err != nil {
				return "", err
			}
			elems[i] = s
		}
		return "(" + strings.Join(elems, ",") + ")", nil
	case TypeSlice:
		if t.Elem == nil {
			break
		}
		s, err := Render(*t.Elem, base)
		if err != nil {
			return "", err
		}
		return "[" + s + "]", nil
	case TypeArray:
		if t.Elem == nil {
			break
		}
		s, err := Render(*t.Elem, base)
		if err != nil {
			return "", err
		}
		return "[" + s + ";" + t.Len + "]", nil
	case TypeBorrowedRef:
		if t.Elem == nil {
			break
		}
		s, err := Render(*t.Elem, base)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		b.WriteByte('&')
		if t.Lifetime != nil {
			b.WriteString("'" + strings.TrimPrefix(*t.Lifetime, "'") + " ")
		}
		if t.Mutable {
			b.WriteString("mut ")
		}
		b.WriteString(s)
		return b.String(), nil
	}
	return "", newRenderError(t)
}
