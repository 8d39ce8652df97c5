// Package schema holds the in-memory description of tables, columns,
// indexes and foreign keys that the DDL generator compiles. Tables are
// built explicitly through New and are immutable afterwards, except that
// indexes may be appended with AddIndex and deferred foreign keys are
// resolved once by a Registry.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ddlforge/ddlforge/internal/dialect"
	"github.com/ddlforge/ddlforge/internal/sqlgen"
)

var (
	// ErrConflictingPrimaryKey reports a table that both disables its
	// primary key and marks columns as primary key.
	ErrConflictingPrimaryKey = errors.New("conflicting primary key declarations")

	// ErrUnresolvedForeignKey reports a deferred foreign key whose target
	// table has not been registered.
	ErrUnresolvedForeignKey = errors.New("unresolved deferred foreign key")
)

// Type is a declared SQL column type, e.g. VARCHAR(255) or DECIMAL(4, 2).
type Type struct {
	Name string
	Args []int
}

func (t Type) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = fmt.Sprintf("%d", a)
	}
	return t.Name + "(" + strings.Join(parts, ", ") + ")"
}

func Integer() Type         { return Type{Name: "INTEGER"} }
func BigInt() Type          { return Type{Name: "BIGINT"} }
func Text() Type            { return Type{Name: "TEXT"} }
func Blob() Type            { return Type{Name: "BLOB"} }
func Real() Type            { return Type{Name: "REAL"} }
func Varchar(n int) Type    { return Type{Name: "VARCHAR", Args: []int{n}} }
func Decimal(p, s int) Type { return Type{Name: "DECIMAL", Args: []int{p, s}} }
func Date() Type            { return Type{Name: "DATE"} }
func DateTime() Type        { return Type{Name: "DATETIME"} }

// Timestamp stores seconds-since-epoch in an integer column.
func Timestamp() Type { return Type{Name: "INTEGER"} }

// Column describes one table column. Build one with Field, References or
// DeferredReferences plus field options.
type Column struct {
	Name       string
	Type       Type
	Null       bool
	PrimaryKey bool
	Unique     bool
	Index      bool
	Identity   bool
	Sequence   string
	Default    string
	Checks     []string
	Collation  string

	fk *ForeignKey
}

// ForeignKey links a column to a column of another table. A deferred key
// starts out pending on a type name and is resolved exactly once by a
// Registry; even after resolution it stays ALTER-only and never renders
// an inline clause.
type ForeignKey struct {
	Column   *Column
	RefName  string // referenced column; empty means the target's primary key
	Deferred bool

	target  *Table
	pending string
	selfRef bool
}

// Target returns the referenced table, or ErrUnresolvedForeignKey while
// the key is still pending.
func (fk *ForeignKey) Target() (*Table, error) {
	if fk.target == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvedForeignKey, fk.pending)
	}
	return fk.target, nil
}

// RefColumn returns the referenced column on the target table.
func (fk *ForeignKey) RefColumn() (*Column, error) {
	target, err := fk.Target()
	if err != nil {
		return nil, err
	}
	if fk.RefName != "" {
		c := target.Column(fk.RefName)
		if c == nil {
			return nil, fmt.Errorf("table %q has no column %q", target.Name(), fk.RefName)
		}
		return c, nil
	}
	pk := target.PrimaryKeyColumns()
	if len(pk) != 1 {
		return nil, fmt.Errorf("table %q has no single-column primary key to reference", target.Name())
	}
	return pk[0], nil
}

// FieldOption customizes a Column.
type FieldOption func(*Column)

func Null() FieldOption       { return func(c *Column) { c.Null = true } }
func Unique() FieldOption     { return func(c *Column) { c.Unique = true } }
func Indexed() FieldOption    { return func(c *Column) { c.Index = true } }
func PrimaryKey() FieldOption { return func(c *Column) { c.PrimaryKey = true } }

func Collate(name string) FieldOption {
	return func(c *Column) { c.Collation = name }
}

// Check adds a raw check-constraint expression, inlined into the DDL.
func Check(expr string) FieldOption {
	return func(c *Column) { c.Checks = append(c.Checks, expr) }
}

// Default sets a literal SQL default expression, inlined into the DDL.
func Default(expr string) FieldOption {
	return func(c *Column) { c.Default = expr }
}

// Sequence defaults the column to the next value of the named sequence.
func Sequence(name string) FieldOption {
	return func(c *Column) { c.Sequence = name }
}

// RefField points a foreign key at a specific column of the target table
// instead of its primary key.
func RefField(name string) FieldOption {
	return func(c *Column) {
		if c.fk != nil {
			c.fk.RefName = name
		}
	}
}

// Field builds a plain column descriptor.
func Field(name string, typ Type, opts ...FieldOption) *Column {
	c := &Column{Name: name, Type: typ}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IdentityField builds an INT primary-key column generated by default as
// identity.
func IdentityField(name string, opts ...FieldOption) *Column {
	c := Field(name, Type{Name: "INT"}, opts...)
	c.Identity = true
	c.PrimaryKey = true
	return c
}

// References builds a foreign-key column named name+"_id" pointing at
// target. The column takes the type of the referenced column and is
// indexed by default.
func References(name string, target *Table, opts ...FieldOption) *Column {
	c := &Column{Name: name + "_id", Index: true}
	c.fk = &ForeignKey{Column: c, target: target}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SelfReferences builds a foreign-key column pointing back at the table
// it is declared on. The target binds when New builds the table.
func SelfReferences(name string, opts ...FieldOption) *Column {
	c := &Column{Name: name + "_id", Index: true}
	c.fk = &ForeignKey{Column: c, selfRef: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DeferredReferences builds a foreign-key column whose target table is
// not declared yet. The target is looked up by type name when the
// enclosing Registry resolves. Until then the column is typed INTEGER
// and no inline FOREIGN KEY clause is generated for it.
func DeferredReferences(name, targetType string, opts ...FieldOption) *Column {
	c := &Column{Name: name + "_id", Type: Integer(), Index: true}
	c.fk = &ForeignKey{Column: c, Deferred: true, pending: targetType}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Term is one entry in an index column list: either a named column with
// an optional sort order, or an arbitrary expression.
type Term struct {
	Column string
	Order  string // "", "ASC" or "DESC"
	Expr   sqlgen.Node
}

func ColTerm(name string) Term    { return Term{Column: name} }
func AscTerm(name string) Term    { return Term{Column: name, Order: "ASC"} }
func DescTerm(name string) Term   { return Term{Column: name, Order: "DESC"} }
func ExprTerm(n sqlgen.Node) Term { return Term{Expr: n} }

// Index describes one index over a table. Term order is significant and
// is preserved in the generated SQL.
type Index struct {
	Terms  []Term
	Unique bool

	name  string
	where sqlgen.Node
	raw   string
}

// NewIndex builds an index over the given terms.
func NewIndex(unique bool, terms ...Term) *Index {
	return &Index{Terms: terms, Unique: unique}
}

// ColumnsIndex builds an index over plain columns by name.
func ColumnsIndex(unique bool, columns ...string) *Index {
	terms := make([]Term, len(columns))
	for i, c := range columns {
		terms[i] = ColTerm(c)
	}
	return NewIndex(unique, terms...)
}

// RawIndex registers a complete CREATE INDEX statement verbatim. It is
// not renamed, re-parsed or parameterized.
func RawIndex(sql string) *Index {
	return &Index{raw: sql}
}

// Where attaches a partial-index predicate. Returns the index for
// chaining.
func (ix *Index) Where(pred sqlgen.Node) *Index {
	ix.where = pred
	return ix
}

// Named overrides the derived index name. Returns the index for chaining.
func (ix *Index) Named(name string) *Index {
	ix.name = name
	return ix
}

// ExplicitName returns the overriding name, if any.
func (ix *Index) ExplicitName() string { return ix.name }

// Predicate returns the partial-index predicate, if any.
func (ix *Index) Predicate() sqlgen.Node { return ix.where }

// RawSQL returns the verbatim statement for a raw index, or "".
func (ix *Index) RawSQL() string { return ix.raw }

// fieldNames lists the plain-column terms, the inputs to name derivation.
// Expression terms do not contribute to the derived name.
func (ix *Index) fieldNames() []string {
	var out []string
	for _, t := range ix.Terms {
		if t.Column != "" {
			out = append(out, t.Column)
		}
	}
	return out
}

// Table is an ordered collection of columns plus table-level options.
// Column order determines column order in CREATE TABLE.
type Table struct {
	typeName     string
	explicitName string
	schemaName   string
	legacyNames  bool
	withoutRowid bool
	temporary    bool
	noPrimaryKey bool

	columns []*Column
	indexes []*Index

	d *dialect.Dialect
}

// TableOption customizes a Table at construction time.
type TableOption func(*Table)

// TableName sets an explicit table name; explicit always wins over the
// derived name.
func TableName(name string) TableOption {
	return func(t *Table) { t.explicitName = name }
}

// InSchema qualifies the table with a schema namespace.
func InSchema(name string) TableOption {
	return func(t *Table) { t.schemaName = name }
}

// LegacyNames selects the old table- and index-name derivation.
func LegacyNames() TableOption {
	return func(t *Table) { t.legacyNames = true }
}

// WithoutRowid marks the table as WITHOUT ROWID. The flag applies to this
// declaration only; a table built from the same column descriptors does
// not inherit it.
func WithoutRowid() TableOption {
	return func(t *Table) { t.withoutRowid = true }
}

// Temporary marks the table as TEMPORARY.
func Temporary() TableOption {
	return func(t *Table) { t.temporary = true }
}

// NoPrimaryKey declares the table without any primary key.
func NoPrimaryKey() TableOption {
	return func(t *Table) { t.noPrimaryKey = true }
}

// Indexes declares table-level composite indexes. They are registered
// after the single-column indexes implied by column flags, in the order
// given.
func Indexes(ixs ...*Index) TableOption {
	return func(t *Table) { t.indexes = append(t.indexes, ixs...) }
}

// New builds and validates a table. typeName drives derived naming;
// columns are deep-copied so a descriptor slice can be shared between
// declarations. Unless NoPrimaryKey is set or a column is marked primary
// key, an INTEGER "id" primary-key column is prepended.
func New(typeName string, columns []*Column, opts ...TableOption) (*Table, error) {
	t := &Table{typeName: typeName}
	for _, opt := range opts {
		opt(t)
	}

	cols := make([]*Column, 0, len(columns)+1)
	for _, c := range columns {
		cols = append(cols, c.clone())
	}

	explicit := false
	for _, c := range cols {
		if c.PrimaryKey {
			explicit = true
		}
	}
	if t.noPrimaryKey && explicit {
		return nil, fmt.Errorf("table %q: %w", typeName, ErrConflictingPrimaryKey)
	}
	if !t.noPrimaryKey && !explicit {
		cols = append([]*Column{{Name: "id", Type: Integer(), PrimaryKey: true}}, cols...)
	}
	t.columns = cols

	for _, c := range cols {
		if c.fk != nil && c.fk.selfRef {
			c.fk.target = t
		}
		if c.fk != nil && !c.fk.Deferred {
			ref, err := c.fk.RefColumn()
			if err != nil {
				return nil, fmt.Errorf("table %q, column %q: %w", typeName, c.Name, err)
			}
			c.Type = ref.Type
		}
	}

	declared := t.indexes
	t.indexes = nil
	for _, c := range cols {
		switch {
		case c.PrimaryKey:
		case c.Unique:
			t.indexes = append(t.indexes, ColumnsIndex(true, c.Name))
		case c.Index || c.fk != nil:
			t.indexes = append(t.indexes, ColumnsIndex(false, c.Name))
		}
	}
	t.indexes = append(t.indexes, declared...)

	return t, nil
}

func (c *Column) clone() *Column {
	cc := *c
	if c.Checks != nil {
		cc.Checks = append([]string(nil), c.Checks...)
	}
	if c.fk != nil {
		fk := *c.fk
		fk.Column = &cc
		cc.fk = &fk
	}
	return &cc
}

// TypeName returns the declared type name the table was built from.
func (t *Table) TypeName() string { return t.typeName }

// Name returns the effective table name: the explicit name if set,
// otherwise derived from the type name per the naming convention.
func (t *Table) Name() string {
	if t.explicitName != "" {
		return t.explicitName
	}
	if t.legacyNames {
		return legacyName(t.typeName)
	}
	return SnakeCase(t.typeName)
}

// Schema returns the schema namespace, or "".
func (t *Table) Schema() string { return t.schemaName }

// IsWithoutRowid reports the WITHOUT ROWID storage hint.
func (t *Table) IsWithoutRowid() bool { return t.withoutRowid }

// IsTemporary reports whether the table is declared TEMPORARY.
func (t *Table) IsTemporary() bool { return t.temporary }

// Columns returns the columns in declaration order.
func (t *Table) Columns() []*Column { return t.columns }

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// PrimaryKeyColumns returns the columns marked primary key, in
// declaration order.
func (t *Table) PrimaryKeyColumns() []*Column {
	var out []*Column
	for _, c := range t.columns {
		if c.PrimaryKey {
			out = append(out, c)
		}
	}
	return out
}

// ForeignKeys returns the non-deferred foreign keys in column declaration
// order. Deferred keys never get an inline clause; they are added with
// ALTER TABLE after resolution.
func (t *Table) ForeignKeys() []*ForeignKey {
	var out []*ForeignKey
	for _, c := range t.columns {
		if c.fk != nil && !c.fk.Deferred {
			out = append(out, c.fk)
		}
	}
	return out
}

// ForeignKey returns the foreign key owned by the named column, or nil.
func (t *Table) ForeignKey(column string) *ForeignKey {
	c := t.Column(column)
	if c == nil {
		return nil
	}
	return c.fk
}

// Indexes returns all indexes in registration order: column-implied
// single-column indexes first, then table-level composite indexes, then
// anything appended with AddIndex.
func (t *Table) Indexes() []*Index { return t.indexes }

// AddIndex appends an index. Appends must happen before any concurrent
// DDL generation; the table is otherwise immutable.
func (t *Table) AddIndex(ix *Index) {
	t.indexes = append(t.indexes, ix)
}

// Bind attaches the dialect the table generates DDL for.
func (t *Table) Bind(d *dialect.Dialect) { t.d = d }

// Dialect returns the bound dialect, or nil.
func (t *Table) Dialect() *dialect.Dialect { return t.d }

// IndexName returns the effective, truncated name for ix.
func (t *Table) IndexName(ix *Index) string {
	name := ix.name
	if name == "" {
		name = t.indexName(ix.fieldNames())
	}
	max := 0
	if t.d != nil {
		max = t.d.MaxNameLength
	}
	return TruncateIdentifier(name, max)
}
