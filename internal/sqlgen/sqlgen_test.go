package sqlgen

import (
	"reflect"
	"testing"

	"github.com/ddlforge/ddlforge/internal/dialect"
)

func TestBinaryExpressions(t *testing.T) {
	frag := Render(dialect.SQLite, Eq(Col("status"), V(1)))
	if frag.SQL != `("status" = ?)` {
		t.Errorf("got %q", frag.SQL)
	}
	if !reflect.DeepEqual(frag.Params, []any{1}) {
		t.Errorf("got params %v", frag.Params)
	}

	frag = Render(dialect.SQLite, BitAnd(Col("flags"), V(4)))
	if frag.SQL != `("flags" & ?)` {
		t.Errorf("got %q", frag.SQL)
	}
}

func TestFunctionAndList(t *testing.T) {
	frag := Render(dialect.SQLite, List(
		Fn("LOWER", Col("name")),
		Raw("varchar_pattern_ops")))
	if frag.SQL != `LOWER("name") varchar_pattern_ops` {
		t.Errorf("got %q", frag.SQL)
	}
	if len(frag.Params) != 0 {
		t.Errorf("got params %v", frag.Params)
	}
}

func TestNumberedPlaceholders(t *testing.T) {
	frag := Render(dialect.Postgres, List(
		Eq(Col("a"), V("x")),
		Eq(Col("b"), V("y"))))
	if frag.SQL != `("a" = $1) ("b" = $2)` {
		t.Errorf("got %q", frag.SQL)
	}
	if !reflect.DeepEqual(frag.Params, []any{"x", "y"}) {
		t.Errorf("got params %v", frag.Params)
	}
}

func TestQuoting(t *testing.T) {
	if got := Render(dialect.MySQL, Col("name")).SQL; got != "`name`" {
		t.Errorf("got %q", got)
	}
	if got := dialect.SQLite.Quote(`odd"name`); got != `"odd""name"` {
		t.Errorf("got %q", got)
	}
}

func TestRawParams(t *testing.T) {
	frag := Render(dialect.SQLite, List(
		Raw("json_extract(data, ?)", "$.tag"),
		Eq(Col("kind"), V(2))))
	if frag.SQL != `json_extract(data, ?) ("kind" = ?)` {
		t.Errorf("got %q", frag.SQL)
	}
	if !reflect.DeepEqual(frag.Params, []any{"$.tag", 2}) {
		t.Errorf("got params %v", frag.Params)
	}
}
