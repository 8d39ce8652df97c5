package manifest

import (
	"strings"
	"testing"

	"github.com/ddlforge/ddlforge/internal/ddl"
	"github.com/ddlforge/ddlforge/internal/dialect"
)

func TestParseOrdersDependencies(t *testing.T) {
	doc := `
dialect: sqlite
tables:
  - type: Note
    columns:
      - name: author
        references: {type: Person}
      - name: content
        type: text
  - type: Person
    columns:
      - name: first
        type: varchar
      - name: last
        type: varchar
    indexes:
      - columns: [first, last]
        unique: true
`
	f, reg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if f.Dialect != "sqlite" {
		t.Errorf("dialect = %q", f.Dialect)
	}

	// Declaration order in the file does not matter: the referenced
	// table is built and listed first.
	tables := reg.Tables()
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if tables[0].TypeName() != "Person" || tables[1].TypeName() != "Note" {
		t.Fatalf("wrong order: %s, %s", tables[0].TypeName(), tables[1].TypeName())
	}

	reg.BindAll(dialect.SQLite)
	g, err := ddl.For(tables[1])
	if err != nil {
		t.Fatal(err)
	}
	st, err := g.CreateTable(false)
	if err != nil {
		t.Fatal(err)
	}
	want := `CREATE TABLE "note" ("id" INTEGER NOT NULL PRIMARY KEY, ` +
		`"author_id" INTEGER NOT NULL, "content" TEXT NOT NULL, ` +
		`FOREIGN KEY ("author_id") REFERENCES "person" ("id"))`
	if st.SQL != want {
		t.Errorf("got %q\nwant %q", st.SQL, want)
	}
}

func TestParseDeferredAndSelfReferences(t *testing.T) {
	doc := `
tables:
  - type: Language
    columns:
      - name: name
        type: varchar
      - name: selected_snippet
        null: true
        references: {type: Snippet, deferred: true}
  - type: Snippet
    columns:
      - name: code
      - name: language
        references: {type: Language}
  - type: Category
    columns:
      - name: name
        type: varchar
        size: 20
        primary_key: true
      - name: parent
        null: true
        references: {type: Category}
`
	_, reg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	reg.BindAll(dialect.SQLite)

	language := reg.Lookup("Language")
	g, err := ddl.For(language)
	if err != nil {
		t.Fatal(err)
	}
	st, err := g.CreateTable(false)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(st.SQL, "FOREIGN KEY") {
		t.Errorf("deferred reference rendered inline: %q", st.SQL)
	}
	st, err = g.CreateForeignKey("selected_snippet_id")
	if err != nil {
		t.Fatal(err)
	}
	want := `ALTER TABLE "language" ADD CONSTRAINT ` +
		`"fk_language_selected_snippet_id_refs_snippet" ` +
		`FOREIGN KEY ("selected_snippet_id") REFERENCES "snippet" ("id")`
	if st.SQL != want {
		t.Errorf("got %q\nwant %q", st.SQL, want)
	}

	category := reg.Lookup("Category")
	g, err = ddl.For(category)
	if err != nil {
		t.Fatal(err)
	}
	st, err = g.CreateTable(false)
	if err != nil {
		t.Fatal(err)
	}
	want = `CREATE TABLE "category" ("name" VARCHAR(20) NOT NULL PRIMARY KEY, ` +
		`"parent_id" VARCHAR(20), ` +
		`FOREIGN KEY ("parent_id") REFERENCES "category" ("name"))`
	if st.SQL != want {
		t.Errorf("got %q\nwant %q", st.SQL, want)
	}
}

func TestParseRawIndexAndOptions(t *testing.T) {
	doc := `
tables:
  - type: CacheData
    schema: cache
    columns:
      - name: key
        unique: true
      - name: value
    indexes:
      - sql: CREATE INDEX "cache_extra" ON "cache_data" ("value" & 1)
`
	_, reg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	reg.BindAll(dialect.SQLite)

	tb := reg.Lookup("CacheData")
	if tb.Schema() != "cache" {
		t.Errorf("schema = %q", tb.Schema())
	}
	g, err := ddl.For(tb)
	if err != nil {
		t.Fatal(err)
	}
	stmts, err := g.CreateIndexes(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected 2 indexes, got %d", len(stmts))
	}
	if stmts[0].SQL != `CREATE UNIQUE INDEX "cache"."cache_data_key" ON "cache_data" ("key")` {
		t.Errorf("got %q", stmts[0].SQL)
	}
	if stmts[1].SQL != `CREATE INDEX "cache_extra" ON "cache_data" ("value" & 1)` {
		t.Errorf("got %q", stmts[1].SQL)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"unknown column type": `
tables:
  - type: Bad
    columns:
      - name: data
        type: frobnicate
`,
		"duplicate type": `
tables:
  - type: Dup
  - type: Dup
`,
		"index without columns or sql": `
tables:
  - type: Bad
    columns:
      - name: data
    indexes:
      - unique: true
`,
		"missing deferred target": `
tables:
  - type: Bad
    columns:
      - name: other
        references: {type: Nowhere}
`,
	}
	for name, doc := range cases {
		if _, _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
