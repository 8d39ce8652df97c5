package schema

import (
	"fmt"

	"github.com/ddlforge/ddlforge/internal/dialect"
)

// Registry collects table declarations so deferred foreign keys can be
// resolved by type name once everything is declared. Resolution happens
// exactly once, before any DDL generation.
type Registry struct {
	order  []*Table
	byType map[string]*Table
}

func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]*Table)}
}

// Add registers a table under its type name.
func (r *Registry) Add(t *Table) error {
	if _, dup := r.byType[t.TypeName()]; dup {
		return fmt.Errorf("table type %q registered twice", t.TypeName())
	}
	r.byType[t.TypeName()] = t
	r.order = append(r.order, t)
	return nil
}

// Lookup returns the table registered under typeName, or nil.
func (r *Registry) Lookup(typeName string) *Table {
	return r.byType[typeName]
}

// Resolve fixes up every pending deferred foreign key against the
// registered tables. The owning column takes the type of the referenced
// column. Returns ErrUnresolvedForeignKey if any target is missing.
func (r *Registry) Resolve() error {
	for _, t := range r.order {
		for _, c := range t.Columns() {
			if c.fk == nil || !c.fk.Deferred || c.fk.target != nil {
				continue
			}
			target, ok := r.byType[c.fk.pending]
			if !ok {
				return fmt.Errorf("table %q, column %q: %w: %q",
					t.TypeName(), c.Name, ErrUnresolvedForeignKey, c.fk.pending)
			}
			c.fk.target = target
			ref, err := c.fk.RefColumn()
			if err != nil {
				return fmt.Errorf("table %q, column %q: %w", t.TypeName(), c.Name, err)
			}
			c.Type = ref.Type
		}
	}
	return nil
}

// Tables returns the registered tables in foreign-key dependency order:
// referenced tables come before the tables referencing them. Deferred
// keys are ignored for ordering since they may be cyclic.
func (r *Registry) Tables() []*Table {
	visited := make(map[string]bool)
	var out []*Table
	var visit func(t *Table)
	visit = func(t *Table) {
		if visited[t.TypeName()] {
			return
		}
		visited[t.TypeName()] = true
		for _, fk := range t.ForeignKeys() {
			if dep, err := fk.Target(); err == nil && dep != t {
				visit(dep)
			}
		}
		out = append(out, t)
	}
	for _, t := range r.order {
		visit(t)
	}
	return out
}

// BindAll binds every registered table to d.
func (r *Registry) BindAll(d *dialect.Dialect) {
	for _, t := range r.order {
		t.Bind(d)
	}
}
