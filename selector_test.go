package eql_test

import (
	"testing"

	"github.com/rlch/eql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, input string) *eql.Node {
	t.Helper()

	value, err := eql.ReadString(input)
	require.NoError(t, err)

	root, err := eql.Parse(value)
	require.NoError(t, err)

	return root
}

func TestSelect(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `[:album/name
		{:favorite-albums [:album/name
		                   {:album/tracks [:track/name]}]}
		{:entry/folders ...}
		{:entry/files 3}
		(:foo {:with "params"})
		(create-album! {:name "x"})]`)

	tests := []struct {
		name       string
		expression string
		wantKeys   []string
	}{
		{
			name:       "all joins",
			expression: `kind == "join"`,
			wantKeys:   []string{":favorite-albums", ":album/tracks", ":entry/folders", ":entry/files"},
		},
		{
			name:       "props by dispatch key",
			expression: `kind == "prop" && dispatchKey == ":album/name"`,
			wantKeys:   []string{":album/name", ":album/name"},
		},
		{
			name:       "unbounded recursion",
			expression: `unbounded`,
			wantKeys:   []string{":entry/folders"},
		},
		{
			name:       "bounded recursion depth",
			expression: `depth == 3`,
			wantKeys:   []string{":entry/files"},
		},
		{
			name:       "parametrized nodes",
			expression: `hasParams`,
			wantKeys:   []string{":foo", "create-album!"},
		},
		{
			name:       "params by surface key",
			expression: `hasParams && params[":with"] == "params"`,
			wantKeys:   []string{":foo"},
		},
		{
			name:       "calls",
			expression: `kind == "call"`,
			wantKeys:   []string{"create-album!"},
		},
		{
			name:       "leaf joins",
			expression: `kind == "join" && childCount == 0`,
			wantKeys:   []string{":entry/folders", ":entry/files"},
		},
		{
			name:       "no matches",
			expression: `kind == "union"`,
			wantKeys:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			matches, err := eql.Select(root, tt.expression)
			require.NoError(t, err)

			var keys []string
			for _, n := range matches {
				keys = append(keys, eql.WriteString(n.DispatchKey))
			}

			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}

func TestSelectUnion(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `[{:chat/entries {:message/id [:message/text]
	                                       :audio/id   [:audio/url]}}]`)

	entries, err := eql.Select(root, `kind == "union-entry"`)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ":message/id", eql.WriteString(entries[0].UnionKey))
	assert.Equal(t, ":audio/id", eql.WriteString(entries[1].UnionKey))

	branch, err := eql.Select(root, `unionKey == ":audio/id"`)
	require.NoError(t, err)
	require.Len(t, branch, 1)
}

func TestCompileSelectorError(t *testing.T) {
	t.Parallel()

	_, err := eql.CompileSelector(`kind ==`)
	require.Error(t, err)
}

func TestSelectNonBooleanExpression(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "[:album/name]")

	// The environment is dynamically typed, so a non-boolean result
	// surfaces when the selector runs.
	_, err := eql.Select(root, `childCount`)
	require.Error(t, err)
}
