package binder

import (
	"strings"

	"github.com/refaktor/newtypegen/binder/binderio"
	"github.com/refaktor/newtypegen/config"
	"github.com/refaktor/newtypegen/logger"
	"github.com/refaktor/newtypegen/typegraph"
)

// Output is the result of [Generate].
type Output struct {
	// Text is the complete macro invocation.
	Text string
	// Descriptors holds the generated descriptors in output order.
	Descriptors []*Descriptor
	// Failures holds the members of all descriptors that could
	// not be bound.
	Failures []Failure
}

// Generate binds all configured types found in docs.
//
// Unsupported members don't cause an error, they are commented
// out in the output and listed in [Output.Failures].
func Generate(cfg *config.Config, opts Options, docs ...*typegraph.Document) (*Output, error) {
	ctx := NewContext(cfg, opts)

	items, err := Resolve(ctx, docs...)
	if err != nil {
		return nil, err
	}

	res := &Output{}
	var body strings.Builder
	for _, w := range items {
		d := Emit(ctx, w)
		body.WriteString(d.Text)
		res.Descriptors = append(res.Descriptors, d)
		res.Failures = append(res.Failures, d.Failures...)
	}
	if err := NewFailureError(res.Failures); err != nil {
		ctx.Logger.Log(logger.WARN, "%v", err)
		ctx.Logger.With("unsupported members").Log(logger.INFO, "%v", err.(*FailureError).String())
	}

	var cb binderio.CodeBuilder
	cb.Linef("%v", cfg.Preamble)
	cb.Linef("%v!([%v][", cfg.Macro, strings.Join(cfg.ExternalTypes, ","))
	cb.Write(PrimitiveCatalog())
	cb.Write(body.String())
	cb.Linef("]);")
	res.Text = cb.String()
	return res, nil
}
