package eql

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Selector filters AST nodes with a compiled expr-lang predicate.
//
// The expression is evaluated once per node against this environment:
//
//	kind        node kind as a string ("prop", "join", ...)
//	key         full key in surface spelling (":a", "[:customer/id 123]")
//	dispatchKey dispatch key in surface spelling
//	unionKey    union branch key, "" off union entries
//	params      parameter mapping keyed by surface spelling
//	hasParams   whether a params mapping is present
//	depth       bounded-recursion depth, -1 when not bounded
//	unbounded   whether the node is an unbounded recursion join
//	childCount  number of children
type Selector struct {
	program *vm.Program
}

// CompileSelector compiles an expr-lang boolean expression into a Selector.
func CompileSelector(expression string) (*Selector, error) {
	program, err := expr.Compile(expression, expr.Env(selectorEnv(&Node{})), expr.AsBool())
	if err != nil {
		return nil, err
	}

	return &Selector{program: program}, nil
}

// Select walks root in preorder and returns every node the predicate matches.
func (s *Selector) Select(root *Node) ([]*Node, error) {
	var (
		out     []*Node
		walkErr error
	)

	Walk(root, func(n *Node) bool {
		result, err := expr.Run(s.program, selectorEnv(n))
		if err != nil {
			walkErr = err

			return false
		}

		if match, ok := result.(bool); ok && match {
			out = append(out, n)
		}

		return true
	})

	if walkErr != nil {
		return nil, walkErr
	}

	return out, nil
}

// Select compiles expression and applies it to root in one step.
func Select(root *Node, expression string) ([]*Node, error) {
	s, err := CompileSelector(expression)
	if err != nil {
		return nil, err
	}

	return s.Select(root)
}

func selectorEnv(n *Node) map[string]any {
	depth := -1
	unbounded := false

	if n.Query != nil {
		unbounded = n.Query.Unbounded

		if n.Query.Depth != nil {
			depth = *n.Query.Depth
		}
	}

	return map[string]any{
		"kind":        string(n.Type),
		"key":         keyString(n.Key),
		"dispatchKey": keyString(n.DispatchKey),
		"unionKey":    keyString(n.UnionKey),
		"params":      paramsEnv(n.Params),
		"hasParams":   n.Params != nil,
		"depth":       depth,
		"unbounded":   unbounded,
		"childCount":  len(n.Children),
	}
}

func keyString(key any) string {
	if key == nil {
		return ""
	}

	return WriteString(key)
}

// paramsEnv flattens a params mapping for expression access, keyed by each
// key's surface spelling.
func paramsEnv(params Map) map[string]any {
	out := make(map[string]any, len(params))

	for _, e := range params {
		k, _ := Unwrap(e.Key)

		v, _ := Unwrap(e.Value)

		out[WriteString(k)] = v
	}

	return out
}
