// Package eql converts between a surface query/transaction notation and a
// canonical AST, and provides a small algebra over the resulting queries.
package eql

import (
	"reflect"
	"strings"
)

// =============================================================================
// Generic surface value model
// =============================================================================
//
// Transactions are exchanged as trees built from the types below. The text
// reader produces them, the classifier consumes them, and the unparser emits
// them; callers may equally construct them directly.

// Keyword is an atomic identifier like :album/name. The namespace is optional.
type Keyword struct {
	Namespace string
	Name      string
}

// Kw builds a Keyword from its textual form without the leading colon,
// splitting an optional namespace on the first slash.
func Kw(s string) Keyword {
	if ns, name, ok := strings.Cut(s, "/"); ok {
		return Keyword{Namespace: ns, Name: name}
	}

	return Keyword{Name: s}
}

// String returns the keyword in its surface spelling, e.g. ":album/name".
func (k Keyword) String() string {
	if k.Namespace != "" {
		return ":" + k.Namespace + "/" + k.Name
	}

	return ":" + k.Name
}

// Symbol is a call-style identifier, e.g. create-album!.
type Symbol struct {
	Namespace string
	Name      string
}

// Sym builds a Symbol from its textual form, splitting an optional namespace
// on the first slash.
func Sym(s string) Symbol {
	if ns, name, ok := strings.Cut(s, "/"); ok {
		return Symbol{Namespace: ns, Name: name}
	}

	return Symbol{Name: s}
}

// String returns the symbol in its surface spelling.
func (s Symbol) String() string {
	if s.Namespace != "" {
		return s.Namespace + "/" + s.Name
	}

	return s.Name
}

// Ellipsis is the unbounded-recursion marker a join may carry in place of a
// sub-query.
var Ellipsis = Symbol{Name: "..."}

// Seq is an ordered sequence: a transaction, a sub-query, or (when it has
// exactly two elements, a keyword and a scalar) an ident tuple.
type Seq []any

// List is a parenthesized pair: a params wrapper around a key or join map, or
// a call pair (symbol, params).
type List []any

// Map is an insertion-ordered mapping. Keys may be any surface value, so
// entries are kept as a slice rather than a Go map.
type Map []MapEntry

// MapEntry is a single key/value entry of a Map.
type MapEntry struct {
	Key   any
	Value any
}

// Get returns the value for a structurally equal key.
func (m Map) Get(key any) (any, bool) {
	for _, e := range m {
		k, _ := Unwrap(e.Key)
		if reflect.DeepEqual(k, key) {
			return e.Value, true
		}
	}

	return nil, false
}

// WithMeta attaches metadata to a surface value. The reader wraps collections
// in WithMeta carrying :line/:column; the classifier moves the metadata onto
// the resulting node. The unparser never re-emits it.
type WithMeta struct {
	Value any
	Meta  Map
}

// Unwrap strips a WithMeta wrapper, returning the inner value and any
// metadata. Values without a wrapper are returned as-is with nil metadata.
func Unwrap(v any) (any, Map) {
	if wm, ok := v.(WithMeta); ok {
		return wm.Value, wm.Meta
	}

	return v, nil
}

// isScalar reports whether v is a non-collection value. Keywords and symbols
// count as scalars; sequences, lists, and mappings do not.
func isScalar(v any) bool {
	switch v.(type) {
	case Seq, List, Map, WithMeta:
		return false
	default:
		return true
	}
}

// identTuple reports whether s has the shape of an ident: exactly two
// elements, a keyword followed by a scalar. It returns the dispatch keyword.
func identTuple(s Seq) (Keyword, bool) {
	if len(s) != 2 {
		return Keyword{}, false
	}

	first, _ := Unwrap(s[0])

	kw, ok := first.(Keyword)
	if !ok {
		return Keyword{}, false
	}

	second, _ := Unwrap(s[1])
	if !isScalar(second) {
		return Keyword{}, false
	}

	return kw, true
}
