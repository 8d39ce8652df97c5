package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/ddlforge/ddlforge/internal/dialect"
	"github.com/ddlforge/ddlforge/internal/manifest"
	"github.com/ddlforge/ddlforge/internal/schema"
)

// dialectRing is the order the "d" key cycles through.
var dialectRing = []*dialect.Dialect{dialect.SQLite, dialect.Postgres, dialect.MySQL}

type Model struct {
	Path    string
	Reg     *schema.Registry
	Tables  []*schema.Table
	Dialect *dialect.Dialect

	Cursor    int
	Safe      bool
	Filter    textinput.Model
	Width     int
	Height    int
	Scroll    int
	StatusMsg string
}

func NewModel(path, dialectName string) (Model, error) {
	f, reg, err := manifest.Load(path)
	if err != nil {
		return Model{}, err
	}

	name := dialectName
	if name == "" {
		name = f.Dialect
	}
	if name == "" {
		name = "sqlite"
	}
	d, err := dialect.ByName(name)
	if err != nil {
		return Model{}, err
	}
	reg.BindAll(d)

	filter := textinput.New()
	filter.Placeholder = "filter tables"
	filter.Prompt = "/ "
	filter.Width = 24

	return Model{
		Path:      path,
		Reg:       reg,
		Tables:    reg.Tables(),
		Dialect:   d,
		Filter:    filter,
		StatusMsg: "↑/↓ select · d dialect · i toggle IF NOT EXISTS · / filter · q quit",
	}, nil
}

// VisibleTables applies the filter input to the table list.
func (m Model) VisibleTables() []*schema.Table {
	q := strings.ToLower(strings.TrimSpace(m.Filter.Value()))
	if q == "" {
		return m.Tables
	}
	var out []*schema.Table
	for _, t := range m.Tables {
		if strings.Contains(strings.ToLower(t.Name()), q) ||
			strings.Contains(strings.ToLower(t.TypeName()), q) {
			out = append(out, t)
		}
	}
	return out
}

// Selected returns the table under the cursor, or nil when the filter
// matches nothing.
func (m Model) Selected() *schema.Table {
	visible := m.VisibleTables()
	if len(visible) == 0 {
		return nil
	}
	if m.Cursor >= len(visible) {
		return visible[len(visible)-1]
	}
	return visible[m.Cursor]
}

func (m Model) cycleDialect() Model {
	for i, d := range dialectRing {
		if d == m.Dialect {
			m.Dialect = dialectRing[(i+1)%len(dialectRing)]
			break
		}
	}
	m.Reg.BindAll(m.Dialect)
	return m
}
