// Package manifest loads declarative table definitions from a YAML file
// and turns them into a schema registry. It is the input surface of the
// CLI; the schema builder API remains the programmatic one.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ddlforge/ddlforge/internal/schema"
)

// File is the top-level manifest document.
type File struct {
	Dialect string  `yaml:"dialect"`
	Tables  []Table `yaml:"tables"`
}

// Table declares one table.
type Table struct {
	Type         string   `yaml:"type"`
	TableName    string   `yaml:"table"`
	Schema       string   `yaml:"schema"`
	LegacyNames  bool     `yaml:"legacy_names"`
	WithoutRowid bool     `yaml:"without_rowid"`
	Temporary    bool     `yaml:"temporary"`
	NoPrimaryKey bool     `yaml:"no_primary_key"`
	Columns      []Column `yaml:"columns"`
	Indexes      []Index  `yaml:"indexes"`
}

// Column declares one column.
type Column struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type"`
	Size       int      `yaml:"size"`
	Scale      int      `yaml:"scale"`
	Null       bool     `yaml:"null"`
	Unique     bool     `yaml:"unique"`
	Index      bool     `yaml:"index"`
	PrimaryKey bool     `yaml:"primary_key"`
	Collate    string   `yaml:"collate"`
	Checks     []string `yaml:"checks"`
	Default    string   `yaml:"default"`
	Sequence   string   `yaml:"sequence"`
	References *Ref     `yaml:"references"`
}

// Ref declares a foreign-key target by type name. References within the
// file become inline FOREIGN KEY clauses when acyclic; cyclic references
// and refs marked deferred become deferred keys, added with ALTER TABLE
// after everything is declared.
type Ref struct {
	Type     string `yaml:"type"`
	Column   string `yaml:"column"`
	Deferred bool   `yaml:"deferred"`
}

// Index declares a table-level composite index.
type Index struct {
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique"`
	Name    string   `yaml:"name"`
	SQL     string   `yaml:"sql"`
}

// Load reads and parses path into a resolved registry.
func Load(path string) (*File, *schema.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("manifest file: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from manifest bytes. Tables are built in
// foreign-key dependency order so declaration order in the file does not
// matter; references that cannot be ordered (cycles, forward refs marked
// deferred) load as deferred keys and resolve in a second pass.
func Parse(data []byte) (*File, *schema.Registry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("manifest parse: %w", err)
	}

	byType := make(map[string]*Table, len(f.Tables))
	for i := range f.Tables {
		mt := &f.Tables[i]
		if mt.Type == "" {
			return nil, nil, fmt.Errorf("manifest: table with no type name")
		}
		if byType[mt.Type] != nil {
			return nil, nil, fmt.Errorf("manifest: table type %q declared twice", mt.Type)
		}
		byType[mt.Type] = mt
	}

	reg := schema.NewRegistry()
	visiting := make(map[string]bool)
	var build func(mt *Table) error
	build = func(mt *Table) error {
		if reg.Lookup(mt.Type) != nil || visiting[mt.Type] {
			return nil
		}
		visiting[mt.Type] = true
		defer delete(visiting, mt.Type)
		for _, mc := range mt.Columns {
			ref := mc.References
			if ref == nil || ref.Deferred || ref.Type == mt.Type {
				continue
			}
			if dep := byType[ref.Type]; dep != nil {
				if err := build(dep); err != nil {
					return err
				}
			}
		}
		t, err := buildTable(*mt, reg)
		if err != nil {
			return err
		}
		return reg.Add(t)
	}
	for i := range f.Tables {
		if err := build(&f.Tables[i]); err != nil {
			return nil, nil, err
		}
	}
	if err := reg.Resolve(); err != nil {
		return nil, nil, err
	}
	return &f, reg, nil
}

func buildTable(mt Table, reg *schema.Registry) (*schema.Table, error) {
	var cols []*schema.Column
	for _, mc := range mt.Columns {
		c, err := buildColumn(mt.Type, mc, reg)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}

	var opts []schema.TableOption
	if mt.TableName != "" {
		opts = append(opts, schema.TableName(mt.TableName))
	}
	if mt.Schema != "" {
		opts = append(opts, schema.InSchema(mt.Schema))
	}
	if mt.LegacyNames {
		opts = append(opts, schema.LegacyNames())
	}
	if mt.WithoutRowid {
		opts = append(opts, schema.WithoutRowid())
	}
	if mt.Temporary {
		opts = append(opts, schema.Temporary())
	}
	if mt.NoPrimaryKey {
		opts = append(opts, schema.NoPrimaryKey())
	}

	var ixs []*schema.Index
	for _, mi := range mt.Indexes {
		switch {
		case mi.SQL != "":
			ixs = append(ixs, schema.RawIndex(mi.SQL))
		case len(mi.Columns) > 0:
			ix := schema.ColumnsIndex(mi.Unique, mi.Columns...)
			if mi.Name != "" {
				ix.Named(mi.Name)
			}
			ixs = append(ixs, ix)
		default:
			return nil, fmt.Errorf("manifest: table %q has an index with neither columns nor sql", mt.Type)
		}
	}
	if len(ixs) > 0 {
		opts = append(opts, schema.Indexes(ixs...))
	}

	return schema.New(mt.Type, cols, opts...)
}

func buildColumn(table string, mc Column, reg *schema.Registry) (*schema.Column, error) {
	if mc.Name == "" {
		return nil, fmt.Errorf("manifest: table %q has a column with no name", table)
	}

	var opts []schema.FieldOption
	if mc.Null {
		opts = append(opts, schema.Null())
	}
	if mc.Unique {
		opts = append(opts, schema.Unique())
	}
	if mc.Index {
		opts = append(opts, schema.Indexed())
	}
	if mc.PrimaryKey {
		opts = append(opts, schema.PrimaryKey())
	}
	if mc.Collate != "" {
		opts = append(opts, schema.Collate(mc.Collate))
	}
	for _, check := range mc.Checks {
		opts = append(opts, schema.Check(check))
	}
	if mc.Default != "" {
		opts = append(opts, schema.Default(mc.Default))
	}
	if mc.Sequence != "" {
		opts = append(opts, schema.Sequence(mc.Sequence))
	}

	if ref := mc.References; ref != nil {
		if ref.Column != "" {
			opts = append(opts, schema.RefField(ref.Column))
		}
		if ref.Type == table {
			return schema.SelfReferences(mc.Name, opts...), nil
		}
		if target := reg.Lookup(ref.Type); target != nil && !ref.Deferred {
			return schema.References(mc.Name, target, opts...), nil
		}
		return schema.DeferredReferences(mc.Name, ref.Type, opts...), nil
	}

	typ, err := columnType(mc)
	if err != nil {
		return nil, fmt.Errorf("manifest: table %q, column %q: %w", table, mc.Name, err)
	}
	if mc.Type == "identity" {
		return schema.IdentityField(mc.Name, opts...), nil
	}
	return schema.Field(mc.Name, typ, opts...), nil
}

func columnType(mc Column) (schema.Type, error) {
	switch strings.ToLower(mc.Type) {
	case "integer", "int":
		return schema.Integer(), nil
	case "bigint":
		return schema.BigInt(), nil
	case "text", "":
		return schema.Text(), nil
	case "blob":
		return schema.Blob(), nil
	case "real", "float", "double":
		return schema.Real(), nil
	case "varchar", "char", "string":
		size := mc.Size
		if size == 0 {
			size = 255
		}
		return schema.Varchar(size), nil
	case "decimal", "numeric":
		size := mc.Size
		if size == 0 {
			size = 10
		}
		return schema.Decimal(size, mc.Scale), nil
	case "date":
		return schema.Date(), nil
	case "datetime":
		return schema.DateTime(), nil
	case "timestamp":
		return schema.Timestamp(), nil
	case "identity":
		return schema.Type{Name: "INT"}, nil
	}
	return schema.Type{}, fmt.Errorf("unknown column type %q", mc.Type)
}
