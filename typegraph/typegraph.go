/*
Package typegraph models the type graph documents produced by rustdoc's JSON
output format ("rustdoc --output-format json").

Only the parts of the format needed for binding generation are decoded: items
with their kind, name, docs and owning crate, the impl lists of structs and
enums, impl blocks, function signatures, associated types, and type
references. Everything else is ignored.
*/
package typegraph

import (
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
)

// ID identifies an item within a single [Document].
type ID string

type ItemKind string

const (
	KindStruct     ItemKind = "struct"
	KindEnum       ItemKind = "enum"
	KindUnion      ItemKind = "union"
	KindFunction   ItemKind = "function"
	KindMethod     ItemKind = "method"
	KindImpl       ItemKind = "impl"
	KindTypedef    ItemKind = "typedef"
	KindAssocType  ItemKind = "assoc_type"
	KindAssocConst ItemKind = "assoc_const"
	KindTrait      ItemKind = "trait"
	KindModule     ItemKind = "module"
	KindImport     ItemKind = "import"
	KindPrimitive  ItemKind = "primitive"
)

// IsTypeLike reports whether items of this kind declare a type
// that could be mistaken for a bindable struct or enum.
func (k ItemKind) IsTypeLike() bool {
	switch k {
	case KindStruct, KindEnum, KindUnion, KindTypedef, KindTrait, KindPrimitive:
		return true
	}
	return false
}

// Document is a single decoded type graph, one per analyzed crate.
type Document struct {
	// Name is a label for diagnostics, usually the path the
	// document was loaded from. It is not part of the JSON.
	Name string `json:"-"`

	Root           ID                       `json:"root"`
	CrateVersion   *string                  `json:"crate_version"`
	FormatVersion  int                      `json:"format_version"`
	Index          map[ID]*Item             `json:"index"`
	Paths          map[ID]ItemSummary       `json:"paths"`
	ExternalCrates map[string]ExternalCrate `json:"external_crates"`
}

type ItemSummary struct {
	CrateID uint32   `json:"crate_id"`
	Path    []string `json:"path"`
	Kind    ItemKind `json:"kind"`
}

type ExternalCrate struct {
	Name        string  `json:"name"`
	HTMLRootURL *string `json:"html_root_url"`
}

// Item is a single declaration.
type Item struct {
	ID      ID
	CrateID uint32
	Name    *string
	Docs    *string
	Kind    ItemKind
	// Inner is nil for kinds that are not modeled.
	Inner ItemInner
}

// ItemInner is one of [*Struct], [*Enum], [*Function], [*Impl] or [*Typedef].
type ItemInner interface {
	isItemInner()
}

type Struct struct {
	Impls []ID `json:"impls"`
}

type Enum struct {
	Impls []ID `json:"impls"`
}

// Function is a free function or a method.
type Function struct {
	Decl FnDecl
}

type FnDecl struct {
	Inputs []Param `json:"inputs"`
	Output *Type   `json:"output"`
}

type Param struct {
	Name string
	Type Type
}

type Impl struct {
	// Trait is nil for inherent impl blocks.
	Trait *TraitRef `json:"trait"`
	For   Type      `json:"for"`
	Items []ID      `json:"items"`
}

// TraitRef names the trait implemented by an impl block.
type TraitRef struct {
	Name string
}

// Typedef is a type alias or an associated type with a
// concrete type, such as "type Output = Vec3;" in an impl.
type Typedef struct {
	Type Type `json:"type"`
}

func (*Struct) isItemInner()   {}
func (*Enum) isItemInner()     {}
func (*Function) isItemInner() {}
func (*Impl) isItemInner()     {}
func (*Typedef) isItemInner()  {}

// ItemName returns the item's name, or "" if it has none.
func (it *Item) ItemName() string {
	if it.Name == nil {
		return ""
	}
	return *it.Name
}

// ItemDocs returns the item's docs, or "" if it has none.
func (it *Item) ItemDocs() string {
	if it.Docs == nil {
		return ""
	}
	return *it.Docs
}

// Impls returns the impl block ids of a struct or enum.
// ok is false for any other kind of item.
func (it *Item) Impls() (impls []ID, ok bool) {
	switch inner := it.Inner.(type) {
	case *Struct:
		return inner.Impls, true
	case *Enum:
		return inner.Impls, true
	}
	return nil, false
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      ID              `json:"id"`
		CrateID uint32          `json:"crate_id"`
		Name    *string         `json:"name"`
		Docs    *string         `json:"docs"`
		Kind    ItemKind        `json:"kind"`
		Inner   json.RawMessage `json:"inner"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*it = Item{
		ID:      raw.ID,
		CrateID: raw.CrateID,
		Name:    raw.Name,
		Docs:    raw.Docs,
		Kind:    raw.Kind,
	}

	decode := func(v ItemInner) error {
		if len(raw.Inner) == 0 {
			return errors.Newf("item %q of kind %v has no inner data", raw.ID, raw.Kind)
		}
		if err := json.Unmarshal(raw.Inner, v); err != nil {
			return errors.Wrapf(err, "item %q (%v)", raw.ID, raw.Kind)
		}
		it.Inner = v
		return nil
	}

	switch raw.Kind {
	case KindStruct:
		return decode(&Struct{})
	case KindEnum:
		return decode(&Enum{})
	case KindFunction, KindMethod:
		return decode(&Function{})
	case KindImpl:
		return decode(&Impl{})
	case KindTypedef:
		return decode(&Typedef{})
	case KindAssocType:
		var assoc struct {
			Default *Type `json:"default"`
		}
		if len(raw.Inner) != 0 {
			if err := json.Unmarshal(raw.Inner, &assoc); err != nil {
				return errors.Wrapf(err, "item %q (%v)", raw.ID, raw.Kind)
			}
		}
		if assoc.Default != nil {
			it.Inner = &Typedef{Type: *assoc.Default}
		}
	}
	return nil
}

func (f *Function) UnmarshalJSON(data []byte) error {
	var raw struct {
		Decl *FnDecl `json:"decl"`
		Sig  *FnDecl `json:"sig"` // newer format versions
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Decl != nil:
		f.Decl = *raw.Decl
	case raw.Sig != nil:
		f.Decl = *raw.Sig
	default:
		return errors.New("function has no signature")
	}
	return nil
}

// Params are encoded as two-element arrays: [name, type].
func (p *Param) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return errors.Newf("expected [name, type] pair, got %v elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Name); err != nil {
		return errors.Wrap(err, "param name")
	}
	if err := json.Unmarshal(raw[1], &p.Type); err != nil {
		return errors.Wrapf(err, "param %q", p.Name)
	}
	return nil
}

// Trait references are either a full type reference (older format
// versions) or a bare path object.
func (t *TraitRef) UnmarshalJSON(data []byte) error {
	var probe struct {
		Kind TypeKind `json:"kind"`
		Name string   `json:"name"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Kind == "" {
		t.Name = probe.Name
		return nil
	}
	var typ Type
	if err := json.Unmarshal(data, &typ); err != nil {
		return err
	}
	t.Name = typ.Name
	return nil
}

// Decode reads a single document from r. name labels the
// document in diagnostics.
func Decode(r io.Reader, name string) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "decode type graph %v", name)
	}
	if err := doc.init(name); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Parse is like [Decode], but reads from a byte slice.
func Parse(data []byte, name string) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "decode type graph %v", name)
	}
	if err := doc.init(name); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) init(name string) error {
	d.Name = name
	if d.Index == nil {
		return errors.WithHint(
			errors.Newf("type graph %v has no index", name),
			"generate the document with `rustdoc --output-format json`",
		)
	}
	for id, it := range d.Index {
		if it == nil {
			return errors.Newf("type graph %v: null item %q", name, id)
		}
		if it.ID == "" {
			it.ID = id
		}
	}
	return nil
}

// crateKey converts a crate id to the key format of [Document.ExternalCrates].
func crateKey(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}
