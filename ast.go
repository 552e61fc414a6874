package eql

// =============================================================================
// AST nodes
// =============================================================================

// NodeType discriminates the kinds of AST node.
type NodeType string

// Node type constants.
const (
	TypeRoot       NodeType = "root"
	TypeProp       NodeType = "prop"
	TypeJoin       NodeType = "join"
	TypeUnion      NodeType = "union"
	TypeUnionEntry NodeType = "union-entry"
	TypeCall       NodeType = "call"
)

// Node is the uniform AST node produced by Parse. Which fields are populated
// depends on Type:
//
//	root        Children, Meta
//	prop        DispatchKey, Key, Params?, Meta?
//	join        DispatchKey, Key, Query, Children, Params?, Meta?
//	union       Query (union map), Children (union entries)
//	union-entry UnionKey, Query (plain sub-query), Children
//	call        DispatchKey, Key, Params (always non-nil), Query?, Children?
//
// Nodes are immutable once parsed; rewrites construct new nodes. Children
// order mirrors surface order.
type Node struct {
	Type NodeType

	// DispatchKey routes the node: the keyword itself for plain keys, the
	// first element of an ident tuple, or the call symbol.
	DispatchKey any

	// Key is the full addressing value: equal to DispatchKey for plain keys,
	// the whole ident tuple (Seq) for ident-based keys.
	Key any

	// Params holds the parameter mapping. nil means no params were given;
	// calls always carry a non-nil (possibly empty) mapping.
	Params Map

	// Query is the join's value slot. nil for props and for calls without a
	// return-shape sub-query.
	Query *JoinQuery

	// UnionKey is the branch key of a union-entry node.
	UnionKey any

	Children []*Node

	// Meta is opaque pass-through metadata from the surface value, typically
	// :line/:column attached by the reader. Never interpreted here.
	Meta Map
}

// Ident returns the ident tuple of an ident-based prop or join, if any.
func (n *Node) Ident() (Seq, bool) {
	s, ok := n.Key.(Seq)

	return s, ok
}

// JoinQuery is the value slot of a join. Exactly one alternative is set:
// a plain sub-query sequence, a union dispatch map, a non-negative recursion
// bound, or the unbounded-recursion marker.
type JoinQuery struct {
	// Seq is the plain sub-query, in its original surface form.
	Seq Seq

	// Union is the union dispatch map, in its original surface form.
	Union Map

	// Depth is the bounded-recursion depth.
	Depth *int

	// Unbounded marks the ... recursion marker.
	Unbounded bool
}

// Recursive reports whether the join is a recursion point (bounded or not).
func (q *JoinQuery) Recursive() bool {
	return q.Unbounded || q.Depth != nil
}

// Value returns the surface form held in the join's value slot.
func (q *JoinQuery) Value() any {
	switch {
	case q.Unbounded:
		return Ellipsis
	case q.Depth != nil:
		return *q.Depth
	case q.Union != nil:
		return q.Union
	default:
		return q.Seq
	}
}

// Walk visits root and every node below it in depth-first preorder, in
// children order. Traversal stops when visit returns false. The walk is
// iterative, so node depth is bounded only by available memory.
func Walk(root *Node, visit func(*Node) bool) {
	stack := []*Node{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(n) {
			return
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}
