// Package ddl compiles schema declarations into dialect-correct DDL
// statements. Generation is a pure transformation of the immutable schema
// model: the same table always renders to byte-identical SQL, and a
// generator may be shared between goroutines as long as nobody is still
// mutating the schema underneath it.
package ddl

import (
	"errors"
	"fmt"

	"github.com/ddlforge/ddlforge/internal/dialect"
	"github.com/ddlforge/ddlforge/internal/schema"
	"github.com/ddlforge/ddlforge/internal/sqlgen"
)

// ErrNotBound reports a DDL request against a table that was never bound
// to a dialect.
var ErrNotBound = errors.New("table is not bound to a dialect")

// Statement is one generated DDL statement with its bound parameters.
// CREATE TABLE and DROP TABLE never carry parameters; expression index
// terms and partial-index predicates do.
type Statement struct {
	SQL    string
	Params []any
}

// Generator produces DDL for a single table.
type Generator struct {
	t *schema.Table
	d *dialect.Dialect
}

// For returns a generator for t, or ErrNotBound if the table has no
// dialect attached.
func For(t *schema.Table) (*Generator, error) {
	d := t.Dialect()
	if d == nil {
		return nil, fmt.Errorf("table %q: %w", t.TypeName(), ErrNotBound)
	}
	return &Generator{t: t, d: d}, nil
}

// writeTableRef writes the schema-qualified table reference.
func (g *Generator) writeTableRef(w *sqlgen.Writer) {
	if s := g.t.Schema(); s != "" {
		w.WriteQuoted(s)
		w.WriteSQL(".")
	}
	w.WriteQuoted(g.t.Name())
}

// CreateTable renders the CREATE TABLE statement. The table's own
// temporary flag decides TEMPORARY; use CreateTemporaryTable to override
// per call. The statement never binds parameters: defaults, checks and
// collations are inlined as literal SQL.
func (g *Generator) CreateTable(safe bool) (Statement, error) {
	return g.createTable(safe, g.t.IsTemporary())
}

// CreateTemporaryTable renders CREATE TEMPORARY TABLE regardless of the
// table's declared temporary flag.
func (g *Generator) CreateTemporaryTable(safe bool) (Statement, error) {
	return g.createTable(safe, true)
}

func (g *Generator) createTable(safe, temporary bool) (Statement, error) {
	w := sqlgen.NewWriter(g.d)
	w.WriteSQL("CREATE ")
	if temporary {
		w.WriteSQL("TEMPORARY ")
	}
	w.WriteSQL("TABLE ")
	if safe {
		w.WriteSQL("IF NOT EXISTS ")
	}
	g.writeTableRef(w)
	w.WriteSQL(" (")

	pk := g.t.PrimaryKeyColumns()
	inlinePK := len(pk) == 1

	for i, c := range g.t.Columns() {
		if i > 0 {
			w.WriteSQL(", ")
		}
		g.writeColumn(w, c, inlinePK)
	}

	if len(pk) > 1 {
		w.WriteSQL(", PRIMARY KEY (")
		for i, c := range pk {
			if i > 0 {
				w.WriteSQL(", ")
			}
			w.WriteQuoted(c.Name)
		}
		w.WriteSQL(")")
	}

	for _, fk := range g.t.ForeignKeys() {
		ref, err := fk.RefColumn()
		if err != nil {
			return Statement{}, err
		}
		target, err := fk.Target()
		if err != nil {
			return Statement{}, err
		}
		w.WriteSQL(", FOREIGN KEY (")
		w.WriteQuoted(fk.Column.Name)
		w.WriteSQL(") REFERENCES ")
		if s := target.Schema(); s != "" {
			w.WriteQuoted(s)
			w.WriteSQL(".")
		}
		w.WriteQuoted(target.Name())
		w.WriteSQL(" (")
		w.WriteQuoted(ref.Name)
		w.WriteSQL(")")
	}

	w.WriteSQL(")")
	if g.t.IsWithoutRowid() {
		w.WriteSQL(" WITHOUT ROWID")
	}

	frag := w.Fragment()
	return Statement{SQL: frag.SQL, Params: frag.Params}, nil
}

func (g *Generator) writeColumn(w *sqlgen.Writer, c *schema.Column, inlinePK bool) {
	w.WriteQuoted(c.Name)
	w.WriteSQL(" ")
	w.WriteSQL(c.Type.String())
	if c.Identity {
		w.WriteSQL(" GENERATED BY DEFAULT AS IDENTITY")
	}
	if !c.Null {
		w.WriteSQL(" NOT NULL")
	}
	if c.PrimaryKey && inlinePK {
		w.WriteSQL(" PRIMARY KEY")
	}
	if c.Sequence != "" {
		w.WriteSQL(" DEFAULT NEXTVAL('" + c.Sequence + "')")
	} else if c.Default != "" {
		w.WriteSQL(" DEFAULT " + c.Default)
	}
	for _, check := range c.Checks {
		w.WriteSQL(" CHECK (" + check + ")")
	}
	if c.Collation != "" {
		w.WriteSQL(" COLLATE " + c.Collation)
	}
}

// CreateIndexes renders one CREATE INDEX statement per registered index,
// in registration order.
func (g *Generator) CreateIndexes(safe bool) ([]Statement, error) {
	indexes := g.t.Indexes()
	out := make([]Statement, 0, len(indexes))
	for _, ix := range indexes {
		st, err := g.CreateIndex(ix, safe)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// CreateIndex renders a single CREATE INDEX statement. Raw-SQL indexes
// pass through verbatim with no parameters. Expression terms and the
// partial predicate contribute bound parameters in left-to-right order.
func (g *Generator) CreateIndex(ix *schema.Index, safe bool) (Statement, error) {
	if raw := ix.RawSQL(); raw != "" {
		return Statement{SQL: raw, Params: []any{}}, nil
	}

	w := sqlgen.NewWriter(g.d)
	w.WriteSQL("CREATE ")
	if ix.Unique {
		w.WriteSQL("UNIQUE ")
	}
	w.WriteSQL("INDEX ")
	if safe {
		w.WriteSQL("IF NOT EXISTS ")
	}

	// Whether the index name or the table reference carries the schema
	// qualifier is an engine policy, not a schema property.
	s := g.t.Schema()
	if s != "" && g.d.IndexSchemaPrefix {
		w.WriteQuoted(s)
		w.WriteSQL(".")
	}
	w.WriteQuoted(g.t.IndexName(ix))
	w.WriteSQL(" ON ")
	if s != "" && !g.d.IndexSchemaPrefix {
		w.WriteQuoted(s)
		w.WriteSQL(".")
	}
	w.WriteQuoted(g.t.Name())

	w.WriteSQL(" (")
	for i, term := range ix.Terms {
		if i > 0 {
			w.WriteSQL(", ")
		}
		if term.Column != "" {
			w.WriteQuoted(term.Column)
		} else if term.Expr != nil {
			w.WriteNode(term.Expr)
		}
		if term.Order != "" {
			w.WriteSQL(" " + term.Order)
		}
	}
	w.WriteSQL(")")

	if pred := ix.Predicate(); pred != nil {
		w.WriteSQL(" WHERE ")
		w.WriteNode(pred)
	}

	frag := w.Fragment()
	return Statement{SQL: frag.SQL, Params: frag.Params}, nil
}

// CreateForeignKey renders the ALTER TABLE ... ADD CONSTRAINT statement
// for a foreign-key column that was deferred at declaration time. It
// fails with schema.ErrUnresolvedForeignKey if the target has not been
// resolved, and with an error if the column has no foreign key at all.
func (g *Generator) CreateForeignKey(column string) (Statement, error) {
	fk := g.t.ForeignKey(column)
	if fk == nil {
		return Statement{}, fmt.Errorf("table %q: column %q has no foreign key", g.t.TypeName(), column)
	}
	target, err := fk.Target()
	if err != nil {
		return Statement{}, err
	}
	ref, err := fk.RefColumn()
	if err != nil {
		return Statement{}, err
	}

	name := fmt.Sprintf("fk_%s_%s_refs_%s", g.t.Name(), fk.Column.Name, target.Name())
	name = schema.TruncateIdentifier(name, g.d.MaxNameLength)

	w := sqlgen.NewWriter(g.d)
	w.WriteSQL("ALTER TABLE ")
	g.writeTableRef(w)
	w.WriteSQL(" ADD CONSTRAINT ")
	w.WriteQuoted(name)
	w.WriteSQL(" FOREIGN KEY (")
	w.WriteQuoted(fk.Column.Name)
	w.WriteSQL(") REFERENCES ")
	if s := target.Schema(); s != "" {
		w.WriteQuoted(s)
		w.WriteSQL(".")
	}
	w.WriteQuoted(target.Name())
	w.WriteSQL(" (")
	w.WriteQuoted(ref.Name)
	w.WriteSQL(")")

	frag := w.Fragment()
	return Statement{SQL: frag.SQL, Params: frag.Params}, nil
}

// CreateDeferredForeignKeys renders one ALTER TABLE statement per
// deferred foreign key on the table, in column declaration order. All
// deferred keys must be resolved first.
func (g *Generator) CreateDeferredForeignKeys() ([]Statement, error) {
	var out []Statement
	for _, c := range g.t.Columns() {
		fk := g.t.ForeignKey(c.Name)
		if fk == nil || !fk.Deferred {
			continue
		}
		st, err := g.CreateForeignKey(c.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// DropOption modifies a DROP TABLE statement.
type DropOption func(*dropOpts)

type dropOpts struct {
	cascade  bool
	restrict bool
}

// Cascade appends CASCADE. Combining Cascade and Restrict is a caller
// contract violation; which wins is undefined.
func Cascade() DropOption { return func(o *dropOpts) { o.cascade = true } }

// Restrict appends RESTRICT.
func Restrict() DropOption { return func(o *dropOpts) { o.restrict = true } }

// DropTable renders the DROP TABLE statement.
func (g *Generator) DropTable(safe bool, opts ...DropOption) (Statement, error) {
	var o dropOpts
	for _, opt := range opts {
		opt(&o)
	}

	w := sqlgen.NewWriter(g.d)
	w.WriteSQL("DROP TABLE ")
	if safe {
		w.WriteSQL("IF EXISTS ")
	}
	g.writeTableRef(w)
	if o.cascade {
		w.WriteSQL(" CASCADE")
	} else if o.restrict {
		w.WriteSQL(" RESTRICT")
	}

	frag := w.Fragment()
	return Statement{SQL: frag.SQL, Params: frag.Params}, nil
}

// CreateAll renders the CREATE TABLE statement followed by every index,
// in order.
func (g *Generator) CreateAll(safe bool) ([]Statement, error) {
	table, err := g.CreateTable(safe)
	if err != nil {
		return nil, err
	}
	indexes, err := g.CreateIndexes(safe)
	if err != nil {
		return nil, err
	}
	return append([]Statement{table}, indexes...), nil
}
