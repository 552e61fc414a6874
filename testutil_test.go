package eql_test

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rlch/eql"
)

// cmpIgnoreMeta compares AST trees without their pass-through metadata, so
// tests can state structure without spelling out source positions.
var cmpIgnoreMeta = cmp.Options{
	cmpopts.IgnoreFields(eql.Node{}, "Meta"),
}

// ptr returns a pointer to the given value.
func ptr[T any](v T) *T {
	return &v
}

// prop builds a plain keyword prop node.
func prop(key string) *eql.Node {
	kw := eql.Kw(key)

	return &eql.Node{Type: eql.TypeProp, DispatchKey: kw, Key: kw}
}

// join builds a join node over a plain sub-query, with children classified
// from the same elements.
func join(key string, sub eql.Seq, children ...*eql.Node) *eql.Node {
	kw := eql.Kw(key)

	return &eql.Node{
		Type:        eql.TypeJoin,
		DispatchKey: kw,
		Key:         kw,
		Query:       &eql.JoinQuery{Seq: sub},
		Children:    children,
	}
}
