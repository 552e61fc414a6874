package eql

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultMaxLineWidth is the target line width for the pretty formatter.
	DefaultMaxLineWidth = 80

	// indentWidth approximates a tab for width accounting.
	indentWidth = 4
)

// WriteString renders a surface value in compact canonical text: single
// spaces between sequence elements, ", " between map entries, and no
// metadata. It is the textual counterpart of Unparse's output.
func WriteString(v any) string {
	var b strings.Builder

	writeValue(&b, v)

	return b.String()
}

func writeValue(b *strings.Builder, v any) {
	switch t := v.(type) {
	case WithMeta:
		writeValue(b, t.Value)
	case Keyword:
		b.WriteString(t.String())
	case Symbol:
		b.WriteString(t.String())
	case Seq:
		writeColl(b, '[', ']', t)
	case List:
		writeColl(b, '(', ')', []any(t))
	case Map:
		b.WriteByte('{')

		for i, e := range t {
			if i > 0 {
				b.WriteString(", ")
			}

			writeValue(b, e.Key)
			b.WriteByte(' ')
			writeValue(b, e.Value)
		}

		b.WriteByte('}')
	case string:
		b.WriteString(strconv.Quote(t))
	case bool:
		b.WriteString(strconv.FormatBool(t))
	case int:
		b.WriteString(strconv.Itoa(t))
	case int64:
		b.WriteString(strconv.FormatInt(t, 10))
	case float64:
		b.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	case nil:
		b.WriteString("nil")
	default:
		fmt.Fprintf(b, "%v", v)
	}
}

func writeColl(b *strings.Builder, open, close byte, items []any) {
	b.WriteByte(open)

	for i, el := range items {
		if i > 0 {
			b.WriteByte(' ')
		}

		writeValue(b, el)
	}

	b.WriteByte(close)
}

// Format pretty-prints a surface value with the default line width.
func Format(v any) string {
	return FormatWidth(v, DefaultMaxLineWidth)
}

// FormatWidth pretty-prints a surface value, breaking collections across
// indented lines once their compact form would exceed maxWidth.
func FormatWidth(v any, maxWidth int) string {
	var b strings.Builder

	f := &formatter{b: &b, indent: 0, maxWidth: maxWidth}
	f.formatValue(v)

	return strings.TrimSpace(b.String()) + "\n"
}

type formatter struct {
	b        *strings.Builder
	indent   int
	maxWidth int
}

func (f *formatter) write(s string) {
	f.b.WriteString(s)
}

func (f *formatter) writeIndent() {
	for range f.indent {
		f.write("\t")
	}
}

// fits checks whether content fits on the current line including indent.
func (f *formatter) fits(content string) bool {
	return f.indent*indentWidth+len(content) <= f.maxWidth
}

func (f *formatter) formatValue(v any) {
	compact := WriteString(v)
	if f.fits(compact) {
		f.write(compact)

		return
	}

	switch t := v.(type) {
	case WithMeta:
		f.formatValue(t.Value)
	case Seq:
		f.formatColl("[", "]", t)
	case List:
		f.formatColl("(", ")", []any(t))
	case Map:
		f.formatMap(t)
	default:
		f.write(compact)
	}
}

func (f *formatter) formatColl(open, close string, items []any) {
	f.write(open)
	f.write("\n")
	f.indent++

	for _, el := range items {
		f.writeIndent()
		f.formatValue(el)
		f.write("\n")
	}

	f.indent--
	f.writeIndent()
	f.write(close)
}

func (f *formatter) formatMap(m Map) {
	f.write("{")
	f.indent++

	for i, e := range m {
		if i > 0 {
			f.write("\n")
			f.writeIndent()
		}

		f.write(WriteString(e.Key))
		f.write(" ")
		f.formatValue(e.Value)
	}

	f.indent--
	f.write("}")
}
