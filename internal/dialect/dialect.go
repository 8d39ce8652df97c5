package dialect

import (
	"fmt"
	"strings"
)

// Dialect carries the target-engine settings the DDL generator needs:
// identifier quoting, placeholder style, identifier length limits and
// whether index names are schema-qualified.
type Dialect struct {
	Name string

	// quote is the identifier quote character, doubled to escape.
	quote string

	// MaxNameLength is the longest identifier the engine accepts.
	// Longer names are truncated with a hash suffix.
	MaxNameLength int

	// IndexSchemaPrefix controls how CREATE INDEX references a schema:
	// true  -> CREATE INDEX "schema"."name" ON "table"
	// false -> CREATE INDEX "name" ON "schema"."table"
	IndexSchemaPrefix bool

	// numberedParams selects $1,$2,... placeholders instead of ?.
	numberedParams bool
}

var (
	SQLite = &Dialect{
		Name:              "sqlite",
		quote:             `"`,
		MaxNameLength:     64,
		IndexSchemaPrefix: true,
	}

	Postgres = &Dialect{
		Name:           "postgres",
		quote:          `"`,
		MaxNameLength:  63,
		numberedParams: true,
	}

	MySQL = &Dialect{
		Name:          "mysql",
		quote:         "`",
		MaxNameLength: 64,
	}
)

// ByName returns the dialect registered under name.
func ByName(name string) (*Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	}
	return nil, fmt.Errorf("unknown dialect %q", name)
}

// Quote returns ident wrapped in the dialect's quote character.
// Embedded quote characters are doubled.
func (d *Dialect) Quote(ident string) string {
	return d.quote + strings.ReplaceAll(ident, d.quote, d.quote+d.quote) + d.quote
}

// Placeholder returns the bind placeholder for 1-based position i.
func (d *Dialect) Placeholder(i int) string {
	if d.numberedParams {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}
