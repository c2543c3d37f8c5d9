package binder

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/iancoleman/strcase"

	"github.com/refaktor/newtypegen/binder/binderio"
	"github.com/refaktor/newtypegen/config"
	"github.com/refaktor/newtypegen/logger"
	"github.com/refaktor/newtypegen/textutils"
	"github.com/refaktor/newtypegen/typegraph"
)

var unaryOps = []string{"neg"}

var binaryOps = []string{"add", "sub", "div", "mul", "rem"}

// Descriptor is the generated block of a single type.
type Descriptor struct {
	Type string
	Path string
	Text string

	AutoMethods int
	UnaryOps    int
	BinaryOps   int
	// Failures holds all members that had to be commented out.
	Failures []Failure
}

// entry is a single element of a clause list. Failed entries
// consist of comment lines only.
type entry struct {
	lines []string
	ok    bool
}

type emitter struct {
	ctx *Context
	w   *WrappedItem
	log *logger.Logger

	failures []Failure
}

// Emit renders the descriptor block of w.
func Emit(ctx *Context, w *WrappedItem) *Descriptor {
	e := &emitter{
		ctx: ctx,
		w:   w,
		log: ctx.Logger.With(w.WrappedType),
	}
	return e.emit()
}

func (e *emitter) fail(member, reason string, err error) entry {
	e.failures = append(e.failures, Failure{
		Type:   e.w.WrappedType,
		Member: member,
		Reason: reason,
		Err:    err,
	})
	e.log.Log(logger.INFO, "%v: %v", member, reason)
	return entry{lines: []string{"// Error: " + reason}}
}

func (e *emitter) emit() *Descriptor {
	d := &Descriptor{
		Type: e.w.WrappedType,
		Path: e.w.FullPath(),
	}

	var cb binderio.CodeBuilder
	cb.Linef("{")
	cb.Indent++
	cb.Lines(textutils.DocLines(e.w.Docs()))
	cb.Linef("%v : %v:", d.Path, e.wrapperSpelling())
	cb.Indent++

	var clauseN int
	clause := func(s string) string {
		clauseN++
		if clauseN > 1 {
			return "+ " + s
		}
		return s
	}
	for _, flag := range e.w.Config.DeriveFlags {
		cb.Linef("%v", clause(flag))
	}

	unary := e.unaryOps()
	cb.Linef("%v(", clause("UnaryOps"))
	writeList(&cb, unary)
	cb.Linef(")")

	binary := e.binaryOps()
	cb.Linef("%v(", clause("BinOps"))
	writeList(&cb, binary)
	cb.Linef(")")

	var methods []entry
	if len(e.w.SelfImpls) > 0 {
		methods = e.autoMethods()
		cb.Linef("%v(", clause("AutoMethods"))
		writeList(&cb, methods)
		cb.Linef(")")
	}
	cb.Indent--

	if len(e.w.Config.Bindings) > 0 {
		cb.Linef("impl {")
		cb.Indent++
		for _, b := range e.w.Config.Bindings {
			b = strings.TrimSpace(b)
			if !strings.HasSuffix(b, ";") {
				b += ";"
			}
			cb.Linef("%v", b)
		}
		cb.Indent--
		cb.Linef("}")
	}
	cb.Indent--
	cb.Linef("},")

	d.Text = cb.String()
	d.UnaryOps = countOK(unary)
	d.BinaryOps = countOK(binary)
	d.AutoMethods = countOK(methods)
	d.Failures = e.failures
	return d
}

func (e *emitter) wrapperSpelling() string {
	if e.w.Config.Wrapper == config.NonReflect {
		return fmt.Sprintf("%v(%v)", e.w.Config.Wrapper, e.w.WrappedType)
	}
	return e.w.Config.Wrapper.String()
}

// writeList writes all entries, separating successful entries
// with commas.
func writeList(cb *binderio.CodeBuilder, entries []entry) {
	last := -1
	for i, en := range entries {
		if en.ok {
			last = i
		}
	}
	cb.Indent++
	for i, en := range entries {
		for j, l := range en.lines {
			if en.ok && i < last && j == len(en.lines)-1 {
				l += ","
			}
			cb.Linef("%v", l)
		}
	}
	cb.Indent--
}

func countOK(entries []entry) int {
	n := 0
	for _, en := range entries {
		if en.ok {
			n++
		}
	}
	return n
}

// unaryOps emits at most one clause per operator, no matter how
// many impl blocks provide it. Repeated blocks would only produce
// duplicate clauses, so the collapse is intended.
func (e *emitter) unaryOps() []entry {
	var res []entry
	for _, op := range unaryOps {
		if len(e.w.Members.Get(op)) == 0 {
			continue
		}
		res = append(res, entry{
			lines: []string{strcase.ToCamel(op) + " self"},
			ok:    true,
		})
	}
	return res
}

func (e *emitter) binaryOps() []entry {
	var res []entry
	for _, op := range binaryOps {
		trait := strcase.ToCamel(op)
		for _, m := range e.w.Members.Get(op) {
			res = append(res, e.binaryOp(op, trait, m))
		}
	}
	return res
}

func (e *emitter) binaryOp(op, trait string, m ImplMember) entry {
	wrapped := e.w.WrappedType
	lhs, err := typegraph.Render(m.Impl.For, typegraph.Identity)
	if err != nil || !(e.ctx.Config.IsTarget(lhs) || e.ctx.Config.IsPrimitive(lhs)) {
		return e.fail(op, fmt.Sprintf("unsupported lhs operator `%v` in `%v`", spell(m.Impl.For), trait), err)
	}

	fn, ok := m.Item.Inner.(*typegraph.Function)
	if !ok {
		return e.fail(op, fmt.Sprintf("unsupported member kind `%v` in `%v` for `%v`", m.Item.Kind, trait, wrapped), nil)
	}
	args := make([]string, len(fn.Decl.Inputs))
	for i, p := range fn.Decl.Inputs {
		s, err := typegraph.Render(p.Type, e.ctx.operatorBase(wrapped, lhs, argRole(i)))
		if err != nil {
			return e.fail(op, fmt.Sprintf("unsupported type `%v` in `%v` for `%v`", offendingType(err), trait, wrapped), err)
		}
		args[i] = s
	}

	out, err := e.outputType(m)
	if err != nil {
		return e.fail(op, fmt.Sprintf("missing `Output` type in `%v` for `%v`", trait, wrapped), err)
	}
	ret, err := typegraph.Render(out, e.ctx.operatorBase(wrapped, lhs, ReturnPos))
	if err != nil {
		return e.fail(op, fmt.Sprintf("unsupported type `%v` in `%v` for `%v`", offendingType(err), trait, wrapped), err)
	}
	return entry{
		lines: []string{strings.Join(args, " "+trait+" ") + " -> " + ret},
		ok:    true,
	}
}

var errNoOutput = errors.New("no associated type `Output`")

// outputType finds the "Output" associated type of m's impl block.
func (e *emitter) outputType(m ImplMember) (typegraph.Type, error) {
	for _, id := range m.Impl.Items {
		it, err := e.w.Index.Item(id)
		if err != nil {
			return typegraph.Type{}, err
		}
		if td, ok := it.Inner.(*typegraph.Typedef); ok && it.ItemName() == "Output" {
			return td.Type, nil
		}
	}
	return typegraph.Type{}, errNoOutput
}

// autoMethods emits all functions and methods of the inherent
// impl blocks.
func (e *emitter) autoMethods() []entry {
	var res []entry
	for _, impl := range e.w.SelfImpls {
		for _, id := range impl.Items {
			it, err := e.w.Index.Item(id)
			if err != nil {
				res = append(res, e.fail(string(id), fmt.Sprintf("unresolved member `%v` in type: `%v`.", id, e.w.WrappedType), err))
				continue
			}
			fn, ok := it.Inner.(*typegraph.Function)
			if !ok || it.ItemName() == "" {
				continue
			}
			res = append(res, e.autoMethod(it, fn))
		}
	}
	return res
}

func (e *emitter) autoMethod(it *typegraph.Item, fn *typegraph.Function) entry {
	wrapped := e.w.WrappedType
	name := it.ItemName()
	docs := textutils.DocLines(it.ItemDocs())

	var reason string
	var failErr error
	args := make([]string, len(fn.Decl.Inputs))
	for i, p := range fn.Decl.Inputs {
		role := argRole(i)
		s, err := e.ctx.renderArg(p.Type, e.ctx.autoMethodBase(wrapped, role), role)
		if err != nil {
			reason = fmt.Sprintf("Unsupported argument `%v` in type: `%v`.", offendingType(err), wrapped)
			failErr = err
			break
		}
		args[i] = s
	}
	var ret string
	if reason == "" && fn.Decl.Output != nil {
		s, err := e.ctx.renderArg(*fn.Decl.Output, e.ctx.autoMethodBase(wrapped, ReturnPos), ReturnPos)
		if err != nil {
			reason = fmt.Sprintf("Unsupported return type `%v` in type: `%v`.", offendingType(err), wrapped)
			failErr = err
		} else {
			ret = "-> " + s
		}
	}

	if reason != "" {
		raw := make([]string, len(fn.Decl.Inputs))
		for i, p := range fn.Decl.Inputs {
			raw[i] = spell(p.Type)
		}
		var rawRet string
		if fn.Decl.Output != nil {
			rawRet = "-> " + spell(*fn.Decl.Output)
		}
		lines := append(docs, signature(name, raw, rawRet))
		failed := e.fail(name, reason, failErr)
		e.failures[len(e.failures)-1].Unbound = e.unbound(fn)
		failed.lines = append(textutils.CommentOut(lines), failed.lines...)
		return failed
	}
	return entry{
		lines: append(docs, signature(name, args, ret)),
		ok:    true,
	}
}

// unbound returns the names referenced by the signature of fn
// that are neither configured targets nor accepted primitives.
func (e *emitter) unbound(fn *typegraph.Function) []string {
	types := make([]typegraph.Type, 0, len(fn.Decl.Inputs)+1)
	for _, p := range fn.Decl.Inputs {
		types = append(types, p.Type)
	}
	if fn.Decl.Output != nil {
		types = append(types, *fn.Decl.Output)
	}
	var res []string
	for _, t := range types {
		for _, name := range typegraph.Names(t) {
			if name == "Self" || e.ctx.Config.IsTarget(name) || e.ctx.Config.IsPrimitive(name) {
				continue
			}
			if !slices.Contains(res, name) {
				res = append(res, name)
			}
		}
	}
	return res
}

// signature formats a method entry. The space after the argument
// list is always present.
func signature(name string, args []string, ret string) string {
	return fmt.Sprintf("%v(%v) %v", name, strings.Join(args, ","), ret)
}
