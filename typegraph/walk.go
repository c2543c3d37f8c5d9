package typegraph

import "slices"

// Walk calls fn on all immediate children of type t.
// Returns early if fn returns an error.
func Walk(t Type, fn func(Type) error) error {
	switch t.Kind {
	case TypeTuple:
		for _, e := range t.Elems {
			if err := fn(e); err != nil {
				return err
			}
		}
	case TypeSlice, TypeArray, TypeBorrowedRef:
		if t.Elem != nil {
			return fn(*t.Elem)
		}
	}
	return nil
}

// Names returns the base identifiers of all resolved path and
// generic type references within t, in order of first appearance
// and without duplicates.
func Names(t Type) []string {
	var names []string
	var collect func(t Type) error
	collect = func(t Type) error {
		switch t.Kind {
		case TypeResolvedPath, TypeGeneric:
			if !slices.Contains(names, t.Name) {
				names = append(names, t.Name)
			}
		}
		return Walk(t, collect)
	}
	collect(t)
	return names
}
