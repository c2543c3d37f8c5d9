package typegraph

import (
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/mod/semver"
)

var (
	ErrUnresolvedID = errors.New("unresolved item id")
	ErrNotImpl      = errors.New("item is not an impl block")
)

// Index is a read-only view over a single [Document].
//
// Identifiers are only ever resolved within the document they
// were obtained from.
type Index struct {
	doc *Document
	ids []ID // sorted
}

func NewIndex(doc *Document) *Index {
	return &Index{
		doc: doc,
		ids: slices.Sorted(maps.Keys(doc.Index)),
	}
}

func (x *Index) Document() *Document {
	return x.doc
}

// Item resolves id. A missing id is an [ErrUnresolvedID] error.
func (x *Index) Item(id ID) (*Item, error) {
	it, ok := x.doc.Index[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnresolvedID, "%v: id %q", x.doc.Name, id)
	}
	return it, nil
}

// Impl resolves id, which must refer to an impl block.
func (x *Index) Impl(id ID) (*Impl, error) {
	it, err := x.Item(id)
	if err != nil {
		return nil, err
	}
	impl, ok := it.Inner.(*Impl)
	if !ok {
		return nil, errors.Wrapf(ErrNotImpl, "%v: id %q has kind %v", x.doc.Name, id, it.Kind)
	}
	return impl, nil
}

// Path returns the canonical path segments of the item with the given id.
func (x *Index) Path(id ID) ([]string, bool) {
	s, ok := x.doc.Paths[id]
	if !ok {
		return nil, false
	}
	return s.Path, true
}

// IsLocal reports whether the item is fully defined in this
// document, as opposed to belonging to an external crate.
func (x *Index) IsLocal(it *Item) bool {
	_, external := x.doc.ExternalCrates[crateKey(it.CrateID)]
	return !external
}

// IDs returns all item ids in sorted order. The returned slice
// must not be modified.
func (x *Index) IDs() []ID {
	return x.ids
}

// CrateName returns the name of the documented crate, taken
// from the root item.
func (x *Index) CrateName() string {
	if root, ok := x.doc.Index[x.doc.Root]; ok {
		return root.ItemName()
	}
	return ""
}

// CrateVersion returns the crate version in canonical semver
// form ("v0.8.0"), or "" if the document carries no valid version.
func (x *Index) CrateVersion() string {
	if x.doc.CrateVersion == nil {
		return ""
	}
	v := *x.doc.CrateVersion
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}
