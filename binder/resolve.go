package binder

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/refaktor/newtypegen/config"
	"github.com/refaktor/newtypegen/logger"
	"github.com/refaktor/newtypegen/typegraph"
)

var ErrNotStructOrEnum = errors.New("configured type is neither a struct nor an enum")

// ImplMember is a member of an impl block.
type ImplMember struct {
	ImplID typegraph.ID
	Impl   *typegraph.Impl
	Item   *typegraph.Item
}

// MemberMap maps member names to all (impl block, member) pairs
// contributing a member of that name. Names and the pairs under
// each name are kept in discovery order.
type MemberMap struct {
	m *orderedmap.OrderedMap[string, []ImplMember]
}

func NewMemberMap() *MemberMap {
	return &MemberMap{m: orderedmap.New[string, []ImplMember]()}
}

func (mm *MemberMap) Add(name string, member ImplMember) {
	prev, _ := mm.m.Get(name)
	mm.m.Set(name, append(prev, member))
}

// Get returns all pairs registered under name.
func (mm *MemberMap) Get(name string) []ImplMember {
	res, _ := mm.m.Get(name)
	return res
}

func (mm *MemberMap) Names() []string {
	res := make([]string, 0, mm.m.Len())
	for pair := mm.m.Oldest(); pair != nil; pair = pair.Next() {
		res = append(res, pair.Key)
	}
	return res
}

// WrappedItem is a native type matched by a configured target,
// with all of its impl blocks resolved.
type WrappedItem struct {
	WrapperName string
	WrappedType string
	// Path is the canonical path of the type in its crate.
	Path   []string
	Index  *typegraph.Index
	Config *config.Newtype
	Item   *typegraph.Item
	// SelfImpls are the inherent (non-trait) impl blocks in
	// discovery order.
	SelfImpls []*typegraph.Impl
	// Members holds the members of all impl blocks, including
	// trait impls.
	Members *MemberMap

	position int
}

// FullPath returns the path the type is referred to by in the
// generated code.
func (w *WrappedItem) FullPath() string {
	if w.Config.ImportPath != "" {
		return w.Config.ImportPath
	}
	return strings.Join(w.Path, "::")
}

// Docs returns the type's docs, preferring the configured
// override.
func (w *WrappedItem) Docs() string {
	if w.Config.Doc != nil {
		return *w.Config.Doc
	}
	return w.Item.ItemDocs()
}

// IsCandidate reports whether it can be bound: it has to be a
// struct or enum fully defined in idx's document.
func IsCandidate(idx *typegraph.Index, it *typegraph.Item) bool {
	if it.Kind != typegraph.KindStruct && it.Kind != typegraph.KindEnum {
		return false
	}
	if _, ok := it.Impls(); !ok {
		return false
	}
	return idx.IsLocal(it)
}

// Resolve matches all configured targets against the documents.
//
// Documents are searched in order, items in order of their id.
// The first candidate found for a target wins. The result is
// ordered by configuration position.
func Resolve(ctx *Context, docs ...*typegraph.Document) ([]*WrappedItem, error) {
	var res []*WrappedItem
	matched := make(map[string]*WrappedItem)
	// Local type-like items which carry a target's name but can't be bound.
	mismatched := make(map[string]error)

	for _, doc := range docs {
		idx := typegraph.NewIndex(doc)
		for _, id := range idx.IDs() {
			it := doc.Index[id]
			name := it.ItemName()
			if name == "" || !ctx.Config.IsTarget(name) {
				continue
			}
			if !IsCandidate(idx, it) {
				if _, ok := mismatched[name]; !ok && idx.IsLocal(it) && it.Kind.IsTypeLike() {
					mismatched[name] = errors.Wrapf(ErrNotStructOrEnum, "%v: %v (id %q) is a %v", doc.Name, name, id, it.Kind)
				}
				continue
			}
			if prev, ok := matched[name]; ok {
				ctx.Logger.Log(
					logger.WARN,
					"%v: ignoring %v (id %q), already matched %v in %v",
					doc.Name, name, id, prev.FullPath(), prev.Index.Document().Name,
				)
				continue
			}
			w, err := resolveItem(ctx, idx, id, it)
			if err != nil {
				return nil, err
			}
			matched[name] = w
			res = append(res, w)
		}
	}

	for name := range ctx.Config.All() {
		if _, ok := matched[name]; ok {
			continue
		}
		if err := mismatched[name]; err != nil {
			return nil, err
		}
		ctx.Logger.Log(logger.WARN, "type %v not found in any document", name)
	}

	slices.SortStableFunc(res, func(a, b *WrappedItem) int {
		return a.position - b.position
	})
	return res, nil
}

func resolveItem(ctx *Context, idx *typegraph.Index, id typegraph.ID, it *typegraph.Item) (*WrappedItem, error) {
	name := it.ItemName()
	nt, _ := ctx.Config.Lookup(name)
	pos, _ := ctx.Config.Position(name)

	path, ok := idx.Path(id)
	if !ok {
		path = []string{idx.CrateName(), name}
		if nt.ImportPath == "" {
			ctx.Logger.Log(logger.WARN, "%v: no path for %v (id %q), using %v", idx.Document().Name, name, id, strings.Join(path, "::"))
		}
	}

	w := &WrappedItem{
		WrapperName: ctx.WrapperName(name),
		WrappedType: name,
		Path:        path,
		Index:       idx,
		Config:      nt,
		Item:        it,
		Members:     NewMemberMap(),
		position:    pos,
	}

	impls, _ := it.Impls()
	for _, implID := range impls {
		impl, err := idx.Impl(implID)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve %v", name)
		}
		if impl.Trait == nil {
			w.SelfImpls = append(w.SelfImpls, impl)
		}
		for _, memberID := range impl.Items {
			member, err := idx.Item(memberID)
			if err != nil {
				return nil, errors.Wrapf(err, "resolve %v: impl %q", name, implID)
			}
			if member.ItemName() == "" {
				continue
			}
			w.Members.Add(member.ItemName(), ImplMember{
				ImplID: implID,
				Impl:   impl,
				Item:   member,
			})
		}
	}
	if len(w.SelfImpls) > 1 {
		ctx.Logger.Log(logger.INFO, "%v: merging %v inherent impl blocks", name, len(w.SelfImpls))
	}
	return w, nil
}
