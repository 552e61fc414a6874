package eql

import (
	"errors"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// notationLexer is the custom lexer for the surface notation.
// Implements lexer.Definition for full control over tokenization.
var notationLexer = newNotationLexer()

var reader = participle.MustBuild[readDocument](
	participle.Lexer(notationLexer),
	participle.Elide("Whitespace", "Comment"),
)

// Reader errors.
var ErrNotSingleForm = errors.New("eql: input must contain exactly one top-level form")

// Metadata keys attached by ReadStringWithMeta.
var (
	metaLine   = Kw("line")
	metaColumn = Kw("column")
)

// Read parses textual surface notation into a generic value tree.
// The input must hold exactly one top-level form.
func Read(data []byte) (any, error) {
	return ReadString(string(data))
}

// ReadString parses textual surface notation into a generic value tree.
func ReadString(input string) (any, error) {
	return readInput(input, false)
}

// ReadStringWithMeta parses like ReadString but wraps every collection in
// WithMeta carrying its :line/:column, so parse results and errors can point
// back into the source text.
func ReadStringWithMeta(input string) (any, error) {
	return readInput(input, true)
}

func readInput(input string, withMeta bool) (any, error) {
	doc, err := reader.ParseString("", input)
	if err != nil {
		return nil, err
	}

	if len(doc.Forms) != 1 {
		return nil, ErrNotSingleForm
	}

	return convertForm(doc.Forms[0], withMeta)
}

// =============================================================================
// Grammar
// =============================================================================

type readDocument struct {
	Pos lexer.Position `parser:""`

	Forms []*readForm `parser:"@@*"`
}

// readForm is one surface form. Discarded forms (#_ form) are parsed and
// dropped during conversion.
type readForm struct {
	Pos lexer.Position `parser:""`

	Discarded []*readForm `parser:"(Discard @@)*"`
	Keyword   *string     `parser:"( @Keyword"`
	Str       *string     `parser:"| @String"`
	Number    *string     `parser:"| @Number"`
	Symbol    *string     `parser:"| @Symbol"`
	Vector    *readVector `parser:"| @@"`
	ListForm  *readList   `parser:"| @@"`
	MapForm   *readMap    `parser:"| @@ )"`
}

type readVector struct {
	Pos lexer.Position `parser:""`

	Forms []*readForm `parser:"'[' @@* ']'"`
}

type readList struct {
	Pos lexer.Position `parser:""`

	Forms []*readForm `parser:"'(' @@* ')'"`
}

type readMap struct {
	Pos lexer.Position `parser:""`

	Entries []*readMapEntry `parser:"'{' @@* '}'"`
}

type readMapEntry struct {
	Key   *readForm `parser:"@@"`
	Value *readForm `parser:"@@"`
}

// =============================================================================
// Conversion
// =============================================================================

func convertForm(f *readForm, withMeta bool) (any, error) {
	switch {
	case f.Keyword != nil:
		return Kw(strings.TrimPrefix(*f.Keyword, ":")), nil

	case f.Str != nil:
		s, err := strconv.Unquote(*f.Str)
		if err != nil {
			return nil, err
		}

		return s, nil

	case f.Number != nil:
		return convertNumber(*f.Number)

	case f.Symbol != nil:
		switch *f.Symbol {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "nil":
			return nil, nil
		default:
			return Sym(*f.Symbol), nil
		}

	case f.Vector != nil:
		out := make(Seq, 0, len(f.Vector.Forms))

		for _, sub := range f.Vector.Forms {
			v, err := convertForm(sub, withMeta)
			if err != nil {
				return nil, err
			}

			out = append(out, v)
		}

		return wrapMeta(out, f.Vector.Pos, withMeta), nil

	case f.ListForm != nil:
		out := make(List, 0, len(f.ListForm.Forms))

		for _, sub := range f.ListForm.Forms {
			v, err := convertForm(sub, withMeta)
			if err != nil {
				return nil, err
			}

			out = append(out, v)
		}

		return wrapMeta(out, f.ListForm.Pos, withMeta), nil

	case f.MapForm != nil:
		out := make(Map, 0, len(f.MapForm.Entries))

		for _, entry := range f.MapForm.Entries {
			k, err := convertForm(entry.Key, withMeta)
			if err != nil {
				return nil, err
			}

			v, err := convertForm(entry.Value, withMeta)
			if err != nil {
				return nil, err
			}

			out = append(out, MapEntry{Key: k, Value: v})
		}

		return wrapMeta(out, f.MapForm.Pos, withMeta), nil

	default:
		// A form that was nothing but discards.
		return nil, ErrNotSingleForm
	}
}

func convertNumber(text string) (any, error) {
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, err
		}

		return f, nil
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, err
	}

	return n, nil
}

func wrapMeta(v any, pos lexer.Position, withMeta bool) any {
	if !withMeta {
		return v
	}

	return WithMeta{
		Value: v,
		Meta: Map{
			{Key: metaLine, Value: pos.Line},
			{Key: metaColumn, Value: pos.Column},
		},
	}
}
