// Package sqlgen renders expression trees into SQL text plus an ordered
// list of bound parameters. The DDL generator uses it for computed index
// terms and partial-index predicates.
package sqlgen

import (
	"strings"

	"github.com/ddlforge/ddlforge/internal/dialect"
)

// Fragment is a rendered piece of SQL with its bound parameters in
// placeholder order.
type Fragment struct {
	SQL    string
	Params []any
}

// Node is an expression that can write itself into a Writer.
type Node interface {
	writeTo(w *Writer)
}

// Writer accumulates SQL text and bound parameters for one statement.
type Writer struct {
	d      *dialect.Dialect
	sb     strings.Builder
	params []any
}

func NewWriter(d *dialect.Dialect) *Writer {
	return &Writer{d: d}
}

func (w *Writer) WriteSQL(s string) {
	w.sb.WriteString(s)
}

func (w *Writer) WriteQuoted(ident string) {
	w.sb.WriteString(w.d.Quote(ident))
}

// WriteParam appends a placeholder to the SQL text and records v as the
// next bound parameter.
func (w *Writer) WriteParam(v any) {
	w.params = append(w.params, v)
	w.sb.WriteString(w.d.Placeholder(len(w.params)))
}

func (w *Writer) WriteNode(n Node) {
	n.writeTo(w)
}

func (w *Writer) Fragment() Fragment {
	params := w.params
	if params == nil {
		params = []any{}
	}
	return Fragment{SQL: w.sb.String(), Params: params}
}

// Render renders a single node against the given dialect.
func Render(d *dialect.Dialect, n Node) Fragment {
	w := NewWriter(d)
	w.WriteNode(n)
	return w.Fragment()
}

type column struct{ name string }

func (c column) writeTo(w *Writer) { w.WriteQuoted(c.name) }

// Col references a column by name; it renders quoted.
func Col(name string) Node { return column{name} }

type value struct{ v any }

func (v value) writeTo(w *Writer) { w.WriteParam(v.v) }

// V binds a literal value; it renders as a placeholder.
func V(v any) Node { return value{v} }

type raw struct {
	sql    string
	params []any
}

func (r raw) writeTo(w *Writer) {
	w.WriteSQL(r.sql)
	for _, p := range r.params {
		w.params = append(w.params, p)
	}
}

// Raw passes sql through verbatim with optional trailing parameters.
func Raw(sql string, params ...any) Node { return raw{sql, params} }

type fn struct {
	name string
	args []Node
}

func (f fn) writeTo(w *Writer) {
	w.WriteSQL(f.name)
	w.WriteSQL("(")
	for i, arg := range f.args {
		if i > 0 {
			w.WriteSQL(", ")
		}
		w.WriteNode(arg)
	}
	w.WriteSQL(")")
}

// Fn renders a function call: NAME(arg, arg, ...).
func Fn(name string, args ...Node) Node { return fn{name, args} }

type binary struct {
	lhs Node
	op  string
	rhs Node
}

// Binary expressions always render parenthesized so operator precedence
// survives embedding in larger statements.
func (b binary) writeTo(w *Writer) {
	w.WriteSQL("(")
	w.WriteNode(b.lhs)
	w.WriteSQL(" " + b.op + " ")
	w.WriteNode(b.rhs)
	w.WriteSQL(")")
}

// Bin builds a binary expression: (lhs op rhs).
func Bin(lhs Node, op string, rhs Node) Node { return binary{lhs, op, rhs} }

// Eq builds an equality comparison: (lhs = rhs).
func Eq(lhs, rhs Node) Node { return Bin(lhs, "=", rhs) }

// BitAnd builds a bitwise AND: (lhs & rhs).
func BitAnd(lhs, rhs Node) Node { return Bin(lhs, "&", rhs) }

type list struct{ nodes []Node }

func (l list) writeTo(w *Writer) {
	for i, n := range l.nodes {
		if i > 0 {
			w.WriteSQL(" ")
		}
		w.WriteNode(n)
	}
}

// List joins nodes with single spaces and no surrounding parentheses,
// e.g. LOWER("name") varchar_pattern_ops.
func List(nodes ...Node) Node { return list{nodes} }
