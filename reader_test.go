package eql_test

import (
	"testing"

	"github.com/rlch/eql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected any
	}{
		{
			name:     "bare keyword",
			input:    ":foo",
			expected: eql.Kw("foo"),
		},
		{
			name:     "namespaced keyword",
			input:    ":album/name",
			expected: eql.Keyword{Namespace: "album", Name: "name"},
		},
		{
			name:     "symbol",
			input:    "create-album!",
			expected: eql.Sym("create-album!"),
		},
		{
			name:     "ellipsis symbol",
			input:    "...",
			expected: eql.Ellipsis,
		},
		{
			name:     "integer",
			input:    "42",
			expected: int64(42),
		},
		{
			name:     "negative integer",
			input:    "-7",
			expected: int64(-7),
		},
		{
			name:     "float",
			input:    "3.14",
			expected: 3.14,
		},
		{
			name:     "string",
			input:    `"hello\nworld"`,
			expected: "hello\nworld",
		},
		{
			name:     "booleans and nil in a vector",
			input:    "[true false nil]",
			expected: eql.Seq{true, false, nil},
		},
		{
			name:     "vector of keywords",
			input:    "[:album/name :album/year]",
			expected: eql.Seq{eql.Kw("album/name"), eql.Kw("album/year")},
		},
		{
			name:     "commas are whitespace",
			input:    "[:a, :b, :c]",
			expected: eql.Seq{eql.Kw("a"), eql.Kw("b"), eql.Kw("c")},
		},
		{
			name:     "list pair",
			input:    `(:foo {:with "params"})`,
			expected: eql.List{eql.Kw("foo"), eql.Map{{Key: eql.Kw("with"), Value: "params"}}},
		},
		{
			name:  "map preserves entry order",
			input: "{:b 2 :a 1}",
			expected: eql.Map{
				{Key: eql.Kw("b"), Value: int64(2)},
				{Key: eql.Kw("a"), Value: int64(1)},
			},
		},
		{
			name:  "nested query",
			input: "[{:favorite-albums [:album/name]}]",
			expected: eql.Seq{
				eql.Map{{
					Key:   eql.Kw("favorite-albums"),
					Value: eql.Seq{eql.Kw("album/name")},
				}},
			},
		},
		{
			name:     "line comments are skipped",
			input:    "[:a ; trailing comment\n :b]",
			expected: eql.Seq{eql.Kw("a"), eql.Kw("b")},
		},
		{
			name:     "discard drops the next form",
			input:    "[:a #_:b :c]",
			expected: eql.Seq{eql.Kw("a"), eql.Kw("c")},
		},
		{
			name:     "discard drops a whole collection",
			input:    "[:a #_{:b [:c]} :d]",
			expected: eql.Seq{eql.Kw("a"), eql.Kw("d")},
		},
		{
			name:     "recursion join",
			input:    "{:entry/folders ...}",
			expected: eql.Map{{Key: eql.Kw("entry/folders"), Value: eql.Ellipsis}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := eql.ReadString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestReadStringErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "two top-level forms", input: ":a :b"},
		{name: "unterminated string", input: `"oops`},
		{name: "unbalanced vector", input: "[:a"},
		{name: "unbalanced map", input: "{:a [:b]"},
		{name: "keyword without a name", input: ":"},
		{name: "map with a dangling key", input: "{:a}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := eql.ReadString(tt.input)
			require.Error(t, err)
		})
	}
}

func TestReadStringWithMeta(t *testing.T) {
	t.Parallel()

	got, err := eql.ReadStringWithMeta("[:album/name\n {:album/tracks [:track/name]}]")
	require.NoError(t, err)

	root, ok := got.(eql.WithMeta)
	require.True(t, ok, "top-level collection should carry metadata")

	line, ok := root.Meta.Get(eql.Kw("line"))
	require.True(t, ok)
	assert.Equal(t, 1, line)

	seq, ok := root.Value.(eql.Seq)
	require.True(t, ok)
	require.Len(t, seq, 2)

	// Scalars are not wrapped.
	assert.Equal(t, eql.Kw("album/name"), seq[0])

	joinMap, ok := seq[1].(eql.WithMeta)
	require.True(t, ok, "nested collection should carry metadata")

	line, ok = joinMap.Meta.Get(eql.Kw("line"))
	require.True(t, ok)
	assert.Equal(t, 2, line)
}

// Reading, parsing, and writing gives back the canonical text.
func TestReadWriteRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input     string
		canonical string
	}{
		{
			input:     "[:album/name :album/year]",
			canonical: "[:album/name :album/year]",
		},
		{
			input:     "[ {:favorite-albums  [:album/name]} ]",
			canonical: "[{:favorite-albums [:album/name]}]",
		},
		{
			input:     "[({:albums [:album/name]} {:order :asc})]",
			canonical: "[{(:albums {:order :asc}) [:album/name]}]",
		},
		{
			input:     "[(create-album! {:name \"x\"})]",
			canonical: "[(create-album! {:name \"x\"})]",
		},
		{
			input:     "[{:entry/folders ...}]",
			canonical: "[{:entry/folders ...}]",
		},
	}

	for _, tt := range tests {
		value, err := eql.ReadString(tt.input)
		require.NoError(t, err)

		root, err := eql.Parse(value)
		require.NoError(t, err)

		assert.Equal(t, tt.canonical, eql.WriteString(eql.Unparse(root)))
	}
}
