package eql

import (
	"errors"
	"fmt"
	"strings"
)

// Classification failures. Every ParseError wraps exactly one of these, so
// callers can branch with errors.Is.
var (
	// ErrInvalidJoinShape is returned when a mapping used as a join has zero
	// or more than one entry.
	ErrInvalidJoinShape = errors.New("eql: join mapping must have exactly one entry")

	// ErrInvalidParams is returned when a parenthesized pair's second element
	// is not a mapping.
	ErrInvalidParams = errors.New("eql: params must be a mapping")

	// ErrInvalidCallShape is returned when a call-looking pair is not
	// (symbol, params mapping).
	ErrInvalidCallShape = errors.New("eql: call must be a (symbol, params mapping) pair")

	// ErrInvalidRecursionMarker is returned when a join's value is neither a
	// sub-query sequence, a recursion marker, a non-negative bound, nor a
	// union dispatch map.
	ErrInvalidRecursionMarker = errors.New("eql: invalid join value")

	// ErrUnclassifiableElement is returned when no classification rule
	// matches an element's shape.
	ErrUnclassifiableElement = errors.New("eql: unclassifiable query element")

	// ErrConfigNotFound is returned when no .eql.yaml is found.
	ErrConfigNotFound = errors.New("eql: no .eql.yaml found")
)

// Path addresses a sub-value within a transaction as the sequence of keys and
// indices leading to it from the root.
type Path []any

// String renders the path in surface notation, e.g. "[0 :entry/folders 2]".
func (p Path) String() string {
	var b strings.Builder

	b.WriteByte('[')

	for i, elem := range p {
		if i > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(WriteString(elem))
	}

	b.WriteByte(']')

	return b.String()
}

// ParseError describes why a transaction failed to classify. It carries the
// offending sub-value, the path to it, and source position when the input
// carried position metadata.
type ParseError struct {
	// Err is the classification failure kind, one of the Err* sentinels.
	Err error

	// Value is the offending sub-value.
	Value any

	// Path locates Value within the transaction.
	Path Path

	// Line and Column are 1-based when known, zero otherwise.
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	var b strings.Builder

	if e.Line > 0 {
		fmt.Fprintf(&b, "%d:%d: ", e.Line, e.Column)
	}

	b.WriteString(e.Err.Error())

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(e.Path.String())
	}

	fmt.Fprintf(&b, ": %s", WriteString(e.Value))

	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// newParseError builds a ParseError, lifting :line/:column out of the
// offending value's metadata when present.
func newParseError(kind error, value any, path Path, meta Map) *ParseError {
	e := &ParseError{Err: kind, Value: value, Path: path}

	if meta != nil {
		if n, ok := metaInt(meta, metaLine); ok {
			e.Line = n
		}

		if n, ok := metaInt(meta, metaColumn); ok {
			e.Column = n
		}
	}

	return e
}

func metaInt(m Map, key Keyword) (int, bool) {
	v, ok := m.Get(key)
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
