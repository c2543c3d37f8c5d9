package config

import (
	"bytes"
	"iter"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"dario.cat/mergo"
	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	DefaultMacro         = "impl_lua_newtypes"
	DefaultWrapperPrefix = "Lua"
	DefaultSource        = "bevy"
)

// Newtype configures a single exposed type.
type Newtype struct {
	// Name of the native type (without path).
	Name string `toml:"name"`
	// Doc overrides the type's docstring.
	Doc *string `toml:"doc,omitempty"`
	// Source tags the binding source. Informational only.
	Source  string      `toml:"source,omitempty"`
	Wrapper WrapperType `toml:"wrapper"`
	// Bindings are manual binding lines, emitted verbatim.
	Bindings    []string `toml:"bindings,omitempty"`
	DeriveFlags []string `toml:"derive-flags,omitempty"`
	// ImportPath overrides the path derived from the type graph.
	ImportPath string `toml:"import-path,omitempty"`
}

// File is the on-disk form of a config.
type File struct {
	// Include lists config files merged into this one. Relative
	// paths are relative to the including file.
	Include       []string  `toml:"include,omitempty"`
	Preamble      string    `toml:"preamble"`
	ExternalTypes []string  `toml:"external-types"`
	Primitives    []string  `toml:"primitives"`
	Macro         string    `toml:"macro,omitempty"`
	WrapperPrefix string    `toml:"wrapper-prefix,omitempty"`
	Types         []Newtype `toml:"type"`
}

// Config is the validated configuration. Types are kept in
// declaration order, which determines output order.
type Config struct {
	Preamble      string
	ExternalTypes []string
	Macro         string
	WrapperPrefix string

	primitives map[string]struct{}
	types      *orderedmap.OrderedMap[string, *Newtype]
	positions  map[string]int
}

type Error struct {
	filePath string
	err      error  // short, single-line error
	str      string // full, multi-line error string, or err string, if none
}

// Error returns a short error message.
func (e *Error) Error() string {
	return e.filePath + ": " + e.err.Error()
}

// String returns the full multi-line error string.
func (e *Error) String() string {
	if e.str != "" {
		return "Error in file " + strconv.Quote(e.filePath) + ":\n" + e.str
	} else {
		return e.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.err
}

func wrapError(path string, err error) error {
	if err == nil {
		return nil
	}
	if cErr := (&Error{}); errors.As(err, &cErr) {
		return err
	}
	if tErr := (&toml.DecodeError{}); errors.As(err, &tErr) {
		return &Error{filePath: path, err: err, str: tErr.String()}
	} else if tErr := (&toml.StrictMissingError{}); errors.As(err, &tErr) {
		return &Error{filePath: path, err: err, str: tErr.String()}
	}
	return &Error{filePath: path, err: err}
}

// Load reads the config at path, including all files it
// includes.
func Load(path string) (*Config, error) {
	f, err := loadFile(path, nil)
	if err != nil {
		return nil, err
	}
	c, err := f.Build()
	return c, wrapError(path, err)
}

// Parse parses config text. name labels errors. Includes are
// resolved relative to the working directory.
func Parse(name string, data []byte) (*Config, error) {
	f, err := decodeFile(name, data)
	if err != nil {
		return nil, err
	}
	if err := f.mergeIncludes(".", []string{name}); err != nil {
		return nil, err
	}
	c, err := f.Build()
	return c, wrapError(name, err)
}

func decodeFile(name string, data []byte) (*File, error) {
	f := &File{}
	err := toml.NewDecoder(bytes.NewReader(data)).
		DisallowUnknownFields().
		Decode(f)
	if err != nil {
		return nil, wrapError(name, err)
	}
	return f, nil
}

// loadFile reads path and merges its includes. stack holds the
// paths currently being loaded, to detect include cycles.
func loadFile(path string, stack []string) (*File, error) {
	if slices.Contains(stack, path) {
		return nil, wrapError(path, errors.Newf("include cycle: %v", append(stack, path)))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapError(path, err)
	}
	f, err := decodeFile(path, data)
	if err != nil {
		return nil, err
	}
	if err := f.mergeIncludes(filepath.Dir(path), append(stack, path)); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) mergeIncludes(dir string, stack []string) error {
	var included []*File // collect included files first so their includes don't leak into our file's includes
	for _, inc := range f.Include {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(dir, inc)
		}
		newF, err := loadFile(inc, stack)
		if err != nil {
			return err
		}
		included = append(included, newF)
	}
	for _, newF := range included {
		newF.Include = nil
		if err := mergo.Merge(f, newF, mergo.WithAppendSlice); err != nil {
			return err
		}
	}
	return nil
}

// Build validates f and converts it to a [Config].
func (f *File) Build() (*Config, error) {
	c := &Config{
		Preamble:      f.Preamble,
		ExternalTypes: slices.Clone(f.ExternalTypes),
		Macro:         f.Macro,
		WrapperPrefix: f.WrapperPrefix,
		primitives:    make(map[string]struct{}, len(f.Primitives)),
		types:         orderedmap.New[string, *Newtype](),
		positions:     make(map[string]int, len(f.Types)),
	}
	if c.Macro == "" {
		c.Macro = DefaultMacro
	}
	if c.WrapperPrefix == "" {
		c.WrapperPrefix = DefaultWrapperPrefix
	}
	for _, p := range f.Primitives {
		c.primitives[p] = struct{}{}
	}
	for i := range f.Types {
		nt := f.Types[i]
		if nt.Name == "" {
			return nil, errors.Newf("type entry %v has no name", i+1)
		}
		if _, exists := c.types.Get(nt.Name); exists {
			return nil, errors.WithHint(
				errors.Newf("duplicate type %q", nt.Name),
				"each type may only be configured once; merge the entries",
			)
		}
		if nt.Source == "" {
			nt.Source = DefaultSource
		}
		c.positions[nt.Name] = c.types.Len()
		c.types.Set(nt.Name, &nt)
	}
	return c, nil
}

// Lookup returns the entry configured for the type name.
func (c *Config) Lookup(name string) (*Newtype, bool) {
	return c.types.Get(name)
}

// Position returns the declaration index of the type name.
func (c *Config) Position(name string) (int, bool) {
	pos, ok := c.positions[name]
	return pos, ok
}

func (c *Config) IsTarget(name string) bool {
	_, ok := c.positions[name]
	return ok
}

func (c *Config) IsPrimitive(name string) bool {
	_, ok := c.primitives[name]
	return ok
}

// Primitives returns the accepted primitive names, sorted.
func (c *Config) Primitives() []string {
	return slices.Sorted(maps.Keys(c.primitives))
}

func (c *Config) Len() int {
	return c.types.Len()
}

// All iterates over all configured types in declaration order.
func (c *Config) All() iter.Seq2[string, *Newtype] {
	return func(yield func(string, *Newtype) bool) {
		for pair := c.types.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}
