package binder_test

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/refaktor/newtypegen/binder"
	"github.com/refaktor/newtypegen/config"
	"github.com/refaktor/newtypegen/logger"
	"github.com/refaktor/newtypegen/typegraph"
)

func TestResolveMembers(t *testing.T) {
	require := require.New(t)

	d := newTestDoc("doc", 1)
	foo := d.typ("Foo")
	d.impl(foo, "", typegraph.Path("Foo"), d.method("first", nil, typegraph.Generic("Self")))
	d.binOp(foo, "add", "Add", typegraph.Path("Foo"), typegraph.Path("Foo"), typegraph.Path("Foo"))
	d.impl(foo, "", typegraph.Path("Foo"), d.method("second", nil, typegraph.Generic("Self")))
	d.binOp(foo, "add", "Add", typegraph.Primitive("f32"), typegraph.Path("Foo"), typegraph.Path("Foo"))

	ctx := binder.NewContext(testConfig(t, []string{"f32"}, config.Newtype{Name: "Foo"}), binder.Options{})
	items, err := binder.Resolve(ctx, d.doc)
	require.NoError(err)
	require.Len(items, 1)

	w := items[0]
	require.Equal("LuaFoo", w.WrapperName)
	require.Equal("Foo", w.WrappedType)
	require.Equal("bevy_test::Foo", w.FullPath())
	require.Len(w.SelfImpls, 2)
	require.Equal([]string{"first", "Output", "add", "second"}, w.Members.Names())

	adds := w.Members.Get("add")
	require.Len(adds, 2)
	require.Equal("Foo", adds[0].Impl.For.Name)
	require.Equal("f32", adds[1].Impl.For.Name)
	require.Empty(w.Members.Get("sub"))

	out, err := binder.Generate(ctx.Config, binder.Options{}, d.doc)
	require.NoError(err)
	require.Contains(out.Text, "\t\t\tfirst(self) ,\n\t\t\tsecond(self) \n")
	require.Contains(out.Text, "\t\t\tself Add LuaFoo -> LuaFoo,\n\t\t\tf32 Add self -> LuaFoo\n")
}

func TestResolveUnaryOpOnce(t *testing.T) {
	d := newTestDoc("doc", 1)
	foo := d.typ("Foo")
	for range 2 {
		d.impl(foo, "Neg", typegraph.Path("Foo"),
			d.output(typegraph.Generic("Self")),
			d.method("neg", typp(typegraph.Generic("Self")), typegraph.Generic("Self")),
		)
	}

	out, err := binder.Generate(testConfig(t, nil, config.Newtype{Name: "Foo"}), binder.Options{}, d.doc)
	require.NoError(t, err)
	require.Len(t, out.Descriptors, 1)
	require.Equal(t, 1, out.Descriptors[0].UnaryOps)
	require.Contains(t, out.Text, "UnaryOps(\n\t\t\tNeg self\n\t\t)")
}

func TestResolveFirstCandidateWins(t *testing.T) {
	require := require.New(t)

	first := newTestDoc("first.json", 1)
	first.typ("Foo")
	second := newTestDoc("second.json", 1)
	id := second.typ("Foo")
	second.doc.Paths[id] = typegraph.ItemSummary{Path: []string{"other_crate", "Foo"}}

	var logBuf bytes.Buffer
	ctx := binder.NewContext(
		testConfig(t, nil, config.Newtype{Name: "Foo"}),
		binder.Options{Logger: logger.New(&logBuf, logger.WARN)},
	)
	items, err := binder.Resolve(ctx, first.doc, second.doc)
	require.NoError(err)
	require.Len(items, 1)
	require.Equal("bevy_test::Foo", items[0].FullPath())
	require.Equal("first.json", items[0].Index.Document().Name)
	require.Contains(logBuf.String(), "second.json: ignoring Foo")
}

func TestResolveSkipsExternal(t *testing.T) {
	require := require.New(t)

	d := newTestDoc("doc", 1)
	d.add(1, "Foo", typegraph.KindStruct, &typegraph.Struct{})
	d.add(1, "Bar", typegraph.KindTypedef, &typegraph.Typedef{Type: typegraph.Primitive("f32")})

	ctx := binder.NewContext(testConfig(t, nil, config.Newtype{Name: "Foo"}, config.Newtype{Name: "Bar"}), binder.Options{})
	items, err := binder.Resolve(ctx, d.doc)
	require.NoError(err)
	require.Empty(items)
}

func TestResolveErrors(t *testing.T) {
	t.Run("not a struct or enum", func(t *testing.T) {
		d := newTestDoc("doc", 1)
		d.add(0, "Foo", typegraph.KindTypedef, &typegraph.Typedef{Type: typegraph.Primitive("f32")})

		ctx := binder.NewContext(testConfig(t, nil, config.Newtype{Name: "Foo"}), binder.Options{})
		_, err := binder.Resolve(ctx, d.doc)
		require.True(t, errors.Is(err, binder.ErrNotStructOrEnum))
	})

	t.Run("typedef shadowed by struct", func(t *testing.T) {
		d := newTestDoc("doc", 1)
		d.add(0, "Foo", typegraph.KindTypedef, &typegraph.Typedef{Type: typegraph.Primitive("f32")})
		d.typ("Foo")

		ctx := binder.NewContext(testConfig(t, nil, config.Newtype{Name: "Foo"}), binder.Options{})
		items, err := binder.Resolve(ctx, d.doc)
		require.NoError(t, err)
		require.Len(t, items, 1)
	})

	t.Run("unresolved impl", func(t *testing.T) {
		d := newTestDoc("doc", 1)
		foo := d.typ("Foo")
		s := d.doc.Index[foo].Inner.(*typegraph.Struct)
		s.Impls = append(s.Impls, "9:9")

		ctx := binder.NewContext(testConfig(t, nil, config.Newtype{Name: "Foo"}), binder.Options{})
		_, err := binder.Resolve(ctx, d.doc)
		require.True(t, errors.Is(err, typegraph.ErrUnresolvedID))
	})

	t.Run("impl id is not an impl", func(t *testing.T) {
		d := newTestDoc("doc", 1)
		foo := d.typ("Foo")
		bar := d.method("bar", nil)
		s := d.doc.Index[foo].Inner.(*typegraph.Struct)
		s.Impls = append(s.Impls, bar)

		ctx := binder.NewContext(testConfig(t, nil, config.Newtype{Name: "Foo"}), binder.Options{})
		_, err := binder.Resolve(ctx, d.doc)
		require.True(t, errors.Is(err, typegraph.ErrNotImpl))
	})

	t.Run("member removed after resolving", func(t *testing.T) {
		d := newTestDoc("doc", 1)
		foo := d.typ("Foo")
		d.impl(foo, "", typegraph.Path("Foo"), d.method("bar", nil, typegraph.Generic("Self")))

		ctx := binder.NewContext(testConfig(t, nil, config.Newtype{Name: "Foo"}), binder.Options{})
		items, err := binder.Resolve(ctx, d.doc)
		require.NoError(t, err)
		items[0].SelfImpls[0].Items = append(items[0].SelfImpls[0].Items, "7:7")

		desc := binder.Emit(ctx, items[0])
		require.Equal(t, 1, desc.AutoMethods)
		require.Len(t, desc.Failures, 1)
		require.Equal(t, "7:7", desc.Failures[0].Member)
		require.True(t, errors.Is(desc.Failures[0], typegraph.ErrUnresolvedID))
		require.Contains(t, desc.Text, "\t\t\tbar(self) \n\t\t\t// Error: unresolved member `7:7` in type: `Foo`.\n")
	})

	t.Run("unresolved member", func(t *testing.T) {
		d := newTestDoc("doc", 1)
		foo := d.typ("Foo")
		d.impl(foo, "", typegraph.Path("Foo"), "7:7")

		ctx := binder.NewContext(testConfig(t, nil, config.Newtype{Name: "Foo"}), binder.Options{})
		_, err := binder.Generate(ctx.Config, binder.Options{}, d.doc)
		require.True(t, errors.Is(err, typegraph.ErrUnresolvedID))
	})
}
