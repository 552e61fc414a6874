package eql

// frame is one unit of pending classification work: a surface element waiting
// to be classified and attached to its parent's children.
type frame struct {
	value  any
	parent *Node
	path   Path
}

// Parse classifies a whole transaction value into a rooted AST.
//
// The transaction must be an ordered sequence (optionally wrapped in WithMeta,
// which becomes the root's Meta); each element is classified by shape and
// appended to the root's children in surface order. Parsing is whole-tree and
// fail-fast: the first malformed element aborts with a ParseError and no
// partial tree is ever returned.
//
// Traversal uses an explicit work stack rather than recursive descent, so
// input nesting depth is bounded only by available memory.
func Parse(value any) (*Node, error) {
	v, meta := Unwrap(value)

	seq, ok := v.(Seq)
	if !ok {
		return nil, newParseError(ErrUnclassifiableElement, value, nil, meta)
	}

	root := &Node{Type: TypeRoot, Meta: meta}

	stack := make([]frame, 0, len(seq))
	for i := len(seq) - 1; i >= 0; i-- {
		stack = append(stack, frame{value: seq[i], parent: root, path: Path{i}})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, pending, err := classify(f.value, f.path)
		if err != nil {
			return nil, err
		}

		f.parent.Children = append(f.parent.Children, node)

		// Reverse push so pending work pops in surface order.
		for i := len(pending) - 1; i >= 0; i-- {
			stack = append(stack, pending[i])
		}
	}

	return root, nil
}

// classify determines the node kind of a single surface element. It returns
// the node plus any deferred work for the node's children; it never recurses
// into sub-queries itself.
//
// Shape rules, in precedence order: atomic keyword, ident tuple,
// parenthesized wrapper, join mapping. Anything else is unclassifiable.
func classify(element any, path Path) (*Node, []frame, error) {
	v, meta := Unwrap(element)

	switch t := v.(type) {
	case Keyword:
		return &Node{Type: TypeProp, DispatchKey: t, Key: t, Meta: meta}, nil, nil

	case Seq:
		if kw, ok := identTuple(t); ok {
			return &Node{Type: TypeProp, DispatchKey: kw, Key: t, Meta: meta}, nil, nil
		}

		return nil, nil, newParseError(ErrUnclassifiableElement, element, path, meta)

	case List:
		return classifyWrapper(t, meta, path)

	case Map:
		return classifyJoin(t, meta, path)

	default:
		return nil, nil, newParseError(ErrUnclassifiableElement, element, path, meta)
	}
}

// classifyWrapper handles parenthesized pairs: params wrappers around props,
// idents, and join maps, and call pairs. A one-element list is accepted with
// an empty params mapping, since params on a call are mandatory and the empty
// mapping is their canonical absence.
func classifyWrapper(l List, meta Map, path Path) (*Node, []frame, error) {
	if len(l) == 0 || len(l) > 2 {
		return nil, nil, newParseError(ErrUnclassifiableElement, l, path, meta)
	}

	target, _ := Unwrap(l[0])

	params := Map{}

	if len(l) == 2 {
		p, _ := Unwrap(l[1])

		pm, ok := p.(Map)
		if !ok {
			kind := ErrInvalidParams
			if _, isSym := target.(Symbol); isSym {
				kind = ErrInvalidCallShape
			}

			return nil, nil, newParseError(kind, l, path, meta)
		}

		params = pm
	}

	switch t := target.(type) {
	case Keyword:
		return &Node{Type: TypeProp, DispatchKey: t, Key: t, Params: params, Meta: meta}, nil, nil

	case Seq:
		if kw, ok := identTuple(t); ok {
			return &Node{Type: TypeProp, DispatchKey: kw, Key: t, Params: params, Meta: meta}, nil, nil
		}

		return nil, nil, newParseError(ErrUnclassifiableElement, l, path, meta)

	case Symbol:
		return &Node{Type: TypeCall, DispatchKey: t, Key: t, Params: params, Meta: meta}, nil, nil

	case Map:
		// Wrap-the-whole-map spelling of a parametrized join.
		node, pending, err := classifyJoin(t, meta, path)
		if err != nil {
			return nil, nil, err
		}

		if node.Params != nil {
			// The join key inside was already parametrized; params on the
			// outer wrapper too would leave one of the two mappings silently
			// ignored, so the double spelling is rejected.
			if len(l) == 2 {
				return nil, nil, newParseError(ErrInvalidParams, l, path, meta)
			}

			return node, pending, nil
		}

		node.Params = params

		return node, pending, nil

	default:
		return nil, nil, newParseError(ErrUnclassifiableElement, l, path, meta)
	}
}

// classifyJoin handles single-entry mappings: joins, union joins, recursion
// joins, and mutation joins (a call pair in key position).
func classifyJoin(m Map, meta Map, path Path) (*Node, []frame, error) {
	if len(m) != 1 {
		return nil, nil, newParseError(ErrInvalidJoinShape, m, path, meta)
	}

	entry := m[0]

	node, err := classifyJoinKey(entry.Key, meta, path)
	if err != nil {
		return nil, nil, err
	}

	pending, err := classifyJoinValue(node, entry.Value, path, meta)
	if err != nil {
		return nil, nil, err
	}

	return node, pending, nil
}

// classifyJoinKey derives the join's base node from its key: a plain keyword
// or ident tuple yields a join, a call pair (or bare mutation symbol) yields
// a call, and a wrapped key (wrap-the-key spelling) attaches params.
func classifyJoinKey(key any, meta Map, path Path) (*Node, error) {
	k, _ := Unwrap(key)

	switch t := k.(type) {
	case Keyword:
		return &Node{Type: TypeJoin, DispatchKey: t, Key: t, Meta: meta}, nil

	case Seq:
		if kw, ok := identTuple(t); ok {
			return &Node{Type: TypeJoin, DispatchKey: kw, Key: t, Meta: meta}, nil
		}

		return nil, newParseError(ErrUnclassifiableElement, key, path, meta)

	case Symbol:
		// Bare mutation symbol: params default to the empty mapping.
		return &Node{Type: TypeCall, DispatchKey: t, Key: t, Params: Map{}, Meta: meta}, nil

	case List:
		inner, _, err := classifyWrapper(t, meta, path)
		if err != nil {
			return nil, err
		}

		switch inner.Type {
		case TypeProp:
			inner.Type = TypeJoin

			return inner, nil
		case TypeCall:
			return inner, nil
		default:
			return nil, newParseError(ErrUnclassifiableElement, key, path, meta)
		}

	default:
		return nil, newParseError(ErrUnclassifiableElement, key, path, meta)
	}
}

// classifyJoinValue fills the join's value slot: the unbounded marker, a
// non-negative bound, a plain sub-query, or a union dispatch map. Anything
// else fails with ErrInvalidRecursionMarker.
//
// meta is the enclosing join map's metadata; the value's own metadata takes
// precedence when present, so errors point at the tightest known position.
func classifyJoinValue(node *Node, raw any, path Path, meta Map) ([]frame, error) {
	v, valueMeta := Unwrap(raw)
	if valueMeta != nil {
		meta = valueMeta
	}

	switch t := v.(type) {
	case Symbol:
		if t == Ellipsis {
			node.Query = &JoinQuery{Unbounded: true}

			return nil, nil
		}

	case int:
		return boundedJoin(node, t, raw, path, meta)

	case int64:
		return boundedJoin(node, int(t), raw, path, meta)

	case Seq:
		node.Query = &JoinQuery{Seq: t}

		base := childPath(path, node.DispatchKey)

		pending := make([]frame, 0, len(t))
		for i, el := range t {
			pending = append(pending, frame{value: el, parent: node, path: childPath(base, i)})
		}

		return pending, nil

	case Map:
		return classifyUnion(node, t, path, meta)
	}

	return nil, newParseError(ErrInvalidRecursionMarker, raw, path, meta)
}

func boundedJoin(node *Node, depth int, raw any, path Path, meta Map) ([]frame, error) {
	if depth < 0 {
		return nil, newParseError(ErrInvalidRecursionMarker, raw, path, meta)
	}

	node.Query = &JoinQuery{Depth: &depth}

	return nil, nil
}

// classifyUnion turns a union dispatch map into a single union child holding
// one union-entry per map entry, in map order.
//
// A mapping in a join's value slot counts as a union only when every value in
// it is a sequence; any other mapping-shaped value there is rejected. This
// disambiguation is a policy choice of this package, not a syntactic fact.
func classifyUnion(join *Node, m Map, path Path, meta Map) ([]frame, error) {
	union := &Node{Type: TypeUnion, Query: &JoinQuery{Union: m}}

	base := childPath(path, join.DispatchKey)

	var pending []frame

	for _, entry := range m {
		k, _ := Unwrap(entry.Key)

		v, branchMeta := Unwrap(entry.Value)
		if branchMeta == nil {
			branchMeta = meta
		}

		sub, ok := v.(Seq)
		if !ok {
			return nil, newParseError(ErrInvalidRecursionMarker, entry.Value, childPath(base, k), branchMeta)
		}

		entryNode := &Node{Type: TypeUnionEntry, UnionKey: k, Query: &JoinQuery{Seq: sub}}
		union.Children = append(union.Children, entryNode)

		for i, el := range sub {
			pending = append(pending, frame{value: el, parent: entryNode, path: childPath(base, k, i)})
		}
	}

	join.Query = &JoinQuery{Union: m}
	join.Children = []*Node{union}

	return pending, nil
}

// childPath extends a path without aliasing the parent's backing array.
func childPath(p Path, elems ...any) Path {
	out := make(Path, 0, len(p)+len(elems))
	out = append(out, p...)

	return append(out, elems...)
}
