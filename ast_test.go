package eql_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rlch/eql"
)

func TestWalkPreorder(t *testing.T) {
	t.Parallel()

	root, err := eql.Parse(eql.Seq{
		eql.Kw("a"),
		eql.Map{{
			Key:   eql.Kw("b"),
			Value: eql.Seq{eql.Kw("c"), eql.Kw("d")},
		}},
		eql.Kw("e"),
	})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	var order []string

	eql.Walk(root, func(n *eql.Node) bool {
		if n.Type == eql.TypeRoot {
			order = append(order, "root")
		} else {
			order = append(order, eql.WriteString(n.DispatchKey))
		}

		return true
	})

	expected := []string{"root", ":a", ":b", ":c", ":d", ":e"}
	if diff := cmp.Diff(expected, order); diff != "" {
		t.Errorf("Walk() order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkStops(t *testing.T) {
	t.Parallel()

	root, err := eql.Parse(eql.Seq{eql.Kw("a"), eql.Kw("b"), eql.Kw("c")})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	var count int

	eql.Walk(root, func(n *eql.Node) bool {
		count++

		return count < 2
	})

	if count != 2 {
		t.Errorf("visited %d nodes, want 2", count)
	}
}

func TestJoinQueryValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     *eql.JoinQuery
		expected  any
		recursive bool
	}{
		{
			name:     "plain sub-query",
			query:    &eql.JoinQuery{Seq: eql.Seq{eql.Kw("a")}},
			expected: eql.Seq{eql.Kw("a")},
		},
		{
			name:      "unbounded",
			query:     &eql.JoinQuery{Unbounded: true},
			expected:  eql.Ellipsis,
			recursive: true,
		},
		{
			name:      "bounded",
			query:     &eql.JoinQuery{Depth: ptr(4)},
			expected:  4,
			recursive: true,
		},
		{
			name: "union",
			query: &eql.JoinQuery{Union: eql.Map{
				{Key: eql.Kw("a"), Value: eql.Seq{eql.Kw("b")}},
			}},
			expected: eql.Map{{Key: eql.Kw("a"), Value: eql.Seq{eql.Kw("b")}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.expected, tt.query.Value()); diff != "" {
				t.Errorf("Value() mismatch (-want +got):\n%s", diff)
			}

			if got := tt.query.Recursive(); got != tt.recursive {
				t.Errorf("Recursive() = %v, want %v", got, tt.recursive)
			}
		})
	}
}

func TestNodeIdent(t *testing.T) {
	t.Parallel()

	root, err := eql.Parse(eql.Seq{
		eql.Seq{eql.Kw("customer/id"), 123},
		eql.Kw("customer/name"),
	})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	ident, ok := root.Children[0].Ident()
	if !ok {
		t.Fatal("Ident() not found on ident-based prop")
	}

	if diff := cmp.Diff(eql.Seq{eql.Kw("customer/id"), 123}, ident); diff != "" {
		t.Errorf("Ident() mismatch (-want +got):\n%s", diff)
	}

	if _, ok := root.Children[1].Ident(); ok {
		t.Error("Ident() reported on a plain keyword prop")
	}
}
