package eql

import "reflect"

// GetQuery reconstructs the plain query value a node declares.
//
// For the root (and each union entry) this is the sequence of its children's
// canonical surface forms; for a union it is the dispatch map rebuilt per
// branch; for joins and mutation joins it is the declared sub-query, rebuilt
// from Children so that edits to them are reflected. Recursion joins yield
// their marker or bound. Props and bare calls yield their own surface form.
//
// GetQuery cannot fail on a well-formed AST; feeding it hand-built malformed
// nodes is a programming error.
func GetQuery(n *Node) any {
	switch n.Type {
	case TypeRoot, TypeUnionEntry:
		out := make(Seq, 0, len(n.Children))
		for _, c := range n.Children {
			out = append(out, Unparse(c))
		}

		return out

	case TypeUnion:
		out := make(Map, 0, len(n.Children))
		for _, e := range n.Children {
			out = append(out, MapEntry{Key: e.UnionKey, Value: GetQuery(e)})
		}

		return out

	case TypeJoin, TypeCall:
		return joinValueForm(n)

	default:
		return Unparse(n)
	}
}

// FocusSubquery returns the sub-query reachable from query along path, or
// ok=false when the path does not resolve. An absent path is a normal
// outcome, never an error.
//
// Each path element matches a join's dispatch key. When descent reaches a
// union dispatch map, the next path element names the union branch to follow.
// Focusing composes: focusing along p then q equals focusing along p ++ q
// whenever both resolve.
func FocusSubquery(query Seq, path ...any) (any, bool) {
	if len(path) == 0 {
		return query, true
	}

	for _, el := range query {
		v, _ := Unwrap(el)

		m, ok := v.(Map)
		if !ok || len(m) != 1 {
			continue
		}

		k, _ := Unwrap(m[0].Key)
		if !matchesDispatchKey(k, path[0]) {
			continue
		}

		return focusValue(m[0].Value, path[1:])
	}

	return nil, false
}

// focusValue descends into a join's value slot with the remaining path.
func focusValue(raw any, rest []any) (any, bool) {
	v, _ := Unwrap(raw)

	switch t := v.(type) {
	case Seq:
		if len(rest) == 0 {
			return t, true
		}

		return FocusSubquery(t, rest...)

	case Map:
		// Union dispatch map: the next path element picks the branch.
		if len(rest) == 0 {
			return t, true
		}

		for _, entry := range t {
			k, _ := Unwrap(entry.Key)
			if !reflect.DeepEqual(k, rest[0]) {
				continue
			}

			sub, _ := Unwrap(entry.Value)

			seq, ok := sub.(Seq)
			if !ok {
				return nil, false
			}

			if len(rest) == 1 {
				return seq, true
			}

			return FocusSubquery(seq, rest[1:]...)
		}

		return nil, false

	default:
		// Recursion marker or depth bound: nothing deeper to focus.
		if len(rest) == 0 {
			return v, true
		}

		return nil, false
	}
}

// matchesDispatchKey reports whether a surface join key routes to want.
// The key may be a plain keyword, an ident tuple, a params wrapper, or a
// call pair; matching is always on the derived dispatch key.
func matchesDispatchKey(key, want any) bool {
	k, _ := Unwrap(key)
	if reflect.DeepEqual(k, want) {
		return true
	}

	dk, ok := dispatchKeyOf(key)

	return ok && reflect.DeepEqual(dk, want)
}

func dispatchKeyOf(key any) (any, bool) {
	k, _ := Unwrap(key)

	switch t := k.(type) {
	case Keyword:
		return t, true
	case Symbol:
		return t, true
	case Seq:
		if kw, ok := identTuple(t); ok {
			return kw, true
		}
	case List:
		if len(t) > 0 {
			return dispatchKeyOf(t[0])
		}
	}

	return nil, false
}
