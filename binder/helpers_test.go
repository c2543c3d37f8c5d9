package binder_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/refaktor/newtypegen/config"
	"github.com/refaktor/newtypegen/typegraph"
)

// testDoc builds a type graph document item by item. Ids are
// assigned in insertion order, starting at base.
type testDoc struct {
	doc  *typegraph.Document
	base int
	n    int
}

func newTestDoc(name string, base int) *testDoc {
	return &testDoc{
		doc: &typegraph.Document{
			Name:           name,
			Root:           "0:0",
			Index:          map[typegraph.ID]*typegraph.Item{},
			Paths:          map[typegraph.ID]typegraph.ItemSummary{},
			ExternalCrates: map[string]typegraph.ExternalCrate{"1": {Name: "core"}},
		},
		base: base,
	}
}

func strp(s string) *string { return &s }

func typp(t typegraph.Type) *typegraph.Type { return &t }

func (d *testDoc) add(crate uint32, name string, kind typegraph.ItemKind, inner typegraph.ItemInner) typegraph.ID {
	id := typegraph.ID(fmt.Sprintf("%d:%d", crate, d.base+d.n))
	d.n++
	it := &typegraph.Item{ID: id, CrateID: crate, Kind: kind, Inner: inner}
	if name != "" {
		it.Name = strp(name)
	}
	d.doc.Index[id] = it
	return id
}

// typ adds a local struct with a path in crate "bevy_test".
func (d *testDoc) typ(name string) typegraph.ID {
	id := d.add(0, name, typegraph.KindStruct, &typegraph.Struct{})
	d.doc.Paths[id] = typegraph.ItemSummary{Path: []string{"bevy_test", name}, Kind: typegraph.KindStruct}
	return id
}

func (d *testDoc) method(name string, out *typegraph.Type, inputs ...typegraph.Type) typegraph.ID {
	fn := &typegraph.Function{}
	for i, in := range inputs {
		fn.Decl.Inputs = append(fn.Decl.Inputs, typegraph.Param{Name: fmt.Sprintf("arg%d", i), Type: in})
	}
	fn.Decl.Output = out
	return d.add(0, name, typegraph.KindMethod, fn)
}

// impl adds an impl block for the type with the given id. trait
// is empty for inherent impls.
func (d *testDoc) impl(typeID typegraph.ID, trait string, forType typegraph.Type, items ...typegraph.ID) typegraph.ID {
	impl := &typegraph.Impl{For: forType, Items: items}
	if trait != "" {
		impl.Trait = &typegraph.TraitRef{Name: trait}
	}
	id := d.add(0, "", typegraph.KindImpl, impl)
	s := d.doc.Index[typeID].Inner.(*typegraph.Struct)
	s.Impls = append(s.Impls, id)
	return id
}

func (d *testDoc) output(t typegraph.Type) typegraph.ID {
	return d.add(0, "Output", typegraph.KindTypedef, &typegraph.Typedef{Type: t})
}

// binOp adds an operator trait impl "impl Trait<rhs> for lhs" to the type with the given id.
func (d *testDoc) binOp(typeID typegraph.ID, op, trait string, lhs, rhs, out typegraph.Type) typegraph.ID {
	return d.impl(typeID, trait, lhs,
		d.output(out),
		d.method(op, typp(typegraph.Generic("Self")), typegraph.Generic("Self"), rhs),
	)
}

func testConfig(t *testing.T, primitives []string, types ...config.Newtype) *config.Config {
	t.Helper()
	cfg, err := (&config.File{
		Preamble:      "use bevy::prelude::*;",
		ExternalTypes: []string{"LuaWorld"},
		Primitives:    primitives,
		Types:         types,
	}).Build()
	require.NoError(t, err)
	return cfg
}
