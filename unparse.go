package eql

// Unparse converts a node back to its canonical surface form, the structural
// inverse of classification.
//
// Canonicalization: every accepted parametrized spelling re-emits as
// wrap-the-key, and Meta is never re-emitted. Re-parsing unparsed output
// therefore yields a tree structurally equal to the original modulo Meta.
// Recursion markers and union maps re-emit their exact original spelling;
// plain sub-queries are rebuilt from Children so that post-parse rewrites are
// reflected.
func Unparse(n *Node) any {
	switch n.Type {
	case TypeRoot:
		return childForms(n)

	case TypeProp:
		if n.Params != nil {
			return List{n.Key, n.Params}
		}

		return n.Key

	case TypeJoin:
		return Map{{Key: joinKeyForm(n), Value: joinValueForm(n)}}

	case TypeUnion:
		out := make(Map, 0, len(n.Children))
		for _, e := range n.Children {
			out = append(out, MapEntry{Key: e.UnionKey, Value: Unparse(e)})
		}

		return out

	case TypeUnionEntry:
		return childForms(n)

	case TypeCall:
		call := List{n.DispatchKey, callParams(n)}
		if n.Query != nil {
			// Mutation join: the call pair keys a single-entry mapping.
			return Map{{Key: call, Value: joinValueForm(n)}}
		}

		return call

	default:
		return nil
	}
}

// joinKeyForm emits a join's key, wrapping it with params when present
// (the canonical wrap-the-key spelling).
func joinKeyForm(n *Node) any {
	if n.Params != nil {
		return List{n.Key, n.Params}
	}

	return n.Key
}

// joinValueForm emits a join's (or mutation join's) value slot.
func joinValueForm(n *Node) any {
	q := n.Query

	switch {
	case q == nil:
		return childForms(n)
	case q.Unbounded:
		return Ellipsis
	case q.Depth != nil:
		return *q.Depth
	case q.Union != nil:
		if len(n.Children) == 1 && n.Children[0].Type == TypeUnion {
			return Unparse(n.Children[0])
		}

		return q.Union
	default:
		return childForms(n)
	}
}

func childForms(n *Node) Seq {
	out := make(Seq, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, Unparse(c))
	}

	return out
}

func callParams(n *Node) Map {
	if n.Params == nil {
		return Map{}
	}

	return n.Params
}
