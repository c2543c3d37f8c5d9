package typegraph

import (
	"strings"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
)

type TypeKind string

const (
	TypeResolvedPath TypeKind = "resolved_path"
	TypeGeneric      TypeKind = "generic"
	TypePrimitive    TypeKind = "primitive"
	TypeTuple        TypeKind = "tuple"
	TypeSlice        TypeKind = "slice"
	TypeArray        TypeKind = "array"
	TypeBorrowedRef  TypeKind = "borrowed_ref"
)

// Type is a reference to a type, as it appears in a signature.
//
// Which fields are set depends on Kind:
//   - resolved_path: Name, ID, Args
//   - generic, primitive: Name
//   - tuple: Elems
//   - slice: Elem
//   - array: Elem, Len
//   - borrowed_ref: Elem, Lifetime, Mutable
//
// Kinds not listed above keep their encoded form in Raw.
type Type struct {
	Kind     TypeKind
	Name     string
	ID       ID
	Args     *GenericArgs
	Elems    []Type
	Elem     *Type
	Len      string
	Lifetime *string
	Mutable  bool
	Raw      json.RawMessage
}

type GenericArgs struct {
	AngleBracketed *struct {
		Args     []json.RawMessage `json:"args"`
		Bindings []json.RawMessage `json:"bindings"`
		// Constraints replaces Bindings in newer format versions.
		Constraints []json.RawMessage `json:"constraints"`
	} `json:"angle_bracketed"`
	Parenthesized json.RawMessage `json:"parenthesized"`
}

// Empty reports whether there are no generic arguments.
func (a *GenericArgs) Empty() bool {
	if a == nil {
		return true
	}
	if len(a.Parenthesized) != 0 && string(a.Parenthesized) != "null" {
		return false
	}
	ab := a.AngleBracketed
	return ab == nil || (len(ab.Args) == 0 && len(ab.Bindings) == 0 && len(ab.Constraints) == 0)
}

// Path returns a resolved path type reference without generic arguments.
func Path(name string) Type { return Type{Kind: TypeResolvedPath, Name: name} }

// Generic returns a generic type reference ("Self" is one of these).
func Generic(name string) Type { return Type{Kind: TypeGeneric, Name: name} }

func Primitive(name string) Type { return Type{Kind: TypePrimitive, Name: name} }

func Tuple(elems ...Type) Type { return Type{Kind: TypeTuple, Elems: elems} }

func SliceOf(elem Type) Type { return Type{Kind: TypeSlice, Elem: &elem} }

func ArrayOf(elem Type, length string) Type {
	return Type{Kind: TypeArray, Elem: &elem, Len: length}
}

// Ref returns a borrowed reference. lifetime may be empty.
func Ref(elem Type, mutable bool, lifetime string) Type {
	t := Type{Kind: TypeBorrowedRef, Elem: &elem, Mutable: mutable}
	if lifetime != "" {
		t.Lifetime = &lifetime
	}
	return t
}

func (t *Type) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind  TypeKind        `json:"kind"`
		Inner json.RawMessage `json:"inner"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Type{Kind: raw.Kind}

	switch raw.Kind {
	case TypeResolvedPath:
		var p struct {
			Name string       `json:"name"`
			ID   ID           `json:"id"`
			Args *GenericArgs `json:"args"`
		}
		if err := json.Unmarshal(raw.Inner, &p); err != nil {
			return errors.Wrap(err, "resolved_path")
		}
		t.Name, t.ID, t.Args = p.Name, p.ID, p.Args
	case TypeGeneric, TypePrimitive:
		if err := json.Unmarshal(raw.Inner, &t.Name); err != nil {
			return errors.Wrap(err, string(raw.Kind))
		}
	case TypeTuple:
		if err := json.Unmarshal(raw.Inner, &t.Elems); err != nil {
			return errors.Wrap(err, "tuple")
		}
	case TypeSlice:
		t.Elem = &Type{}
		if err := json.Unmarshal(raw.Inner, t.Elem); err != nil {
			return errors.Wrap(err, "slice")
		}
	case TypeArray:
		var a struct {
			Type Type            `json:"type"`
			Len  json.RawMessage `json:"len"`
		}
		if err := json.Unmarshal(raw.Inner, &a); err != nil {
			return errors.Wrap(err, "array")
		}
		t.Elem = &a.Type
		t.Len = strings.Trim(string(a.Len), `"`)
	case TypeBorrowedRef:
		var r struct {
			Lifetime *string `json:"lifetime"`
			Mutable  bool    `json:"mutable"`
			Type     Type    `json:"type"`
		}
		if err := json.Unmarshal(raw.Inner, &r); err != nil {
			return errors.Wrap(err, "borrowed_ref")
		}
		t.Lifetime, t.Mutable, t.Elem = r.Lifetime, r.Mutable, &r.Type
	default:
		t.Raw = append(json.RawMessage(nil), data...)
	}
	return nil
}
