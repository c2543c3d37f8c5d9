package config

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// WrapperType describes how values of an exposed type are
// constructed and mutated from the scripting runtime.
type WrapperType uint8

const (
	// Reflect types can be freely assigned to through reflection.
	Reflect WrapperType = iota
	// NonReflect types have no reflection support.
	NonReflect
	// Primitive types are converted by value.
	Primitive
)

var wrapperTypeNames = [...]string{
	Reflect:    "Reflect",
	NonReflect: "NonReflect",
	Primitive:  "Primitive",
}

func (w WrapperType) String() string {
	if int(w) < len(wrapperTypeNames) {
		return wrapperTypeNames[w]
	}
	return "WrapperType(" + strconv.Itoa(int(w)) + ")"
}

func (w WrapperType) MarshalText() ([]byte, error) {
	if int(w) >= len(wrapperTypeNames) {
		return nil, errors.Newf("invalid wrapper type %d", w)
	}
	return []byte(w.String()), nil
}

func (w *WrapperType) UnmarshalText(text []byte) error {
	for i, name := range wrapperTypeNames {
		if string(text) == name {
			*w = WrapperType(i)
			return nil
		}
	}
	return errors.WithHint(
		errors.Newf("unknown wrapper type %q", text),
		"expected one of Reflect, NonReflect, Primitive",
	)
}
