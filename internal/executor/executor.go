// Package executor opens database connections and applies generated DDL.
// It is a thin consumer of the compiler: all statement text comes from
// the ddl package, nothing here inspects or rewrites SQL.
package executor

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ddlforge/ddlforge/internal/ddl"
)

// Open opens a database from a connection string.
// Formats: "postgres://...", "postgresql://...", "sqlite:path" or "sqlite://path"
// Returns db and driver name ("pgx" or "sqlite3").
func Open(conn string) (*sql.DB, string, error) {
	driver, dsn := parseConn(conn)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, driver, nil
}

func parseConn(conn string) (driver, dsn string) {
	if strings.HasPrefix(conn, "sqlite://") {
		return "sqlite3", strings.TrimPrefix(conn, "sqlite://")
	}
	if strings.HasPrefix(conn, "sqlite:") {
		return "sqlite3", strings.TrimPrefix(conn, "sqlite:")
	}
	if strings.HasPrefix(conn, "postgres://") || strings.HasPrefix(conn, "postgresql://") {
		return "pgx", conn
	}
	return "pgx", conn
}

// DialectFor maps a driver name to the generator dialect name.
func DialectFor(driver string) string {
	if driver == "sqlite3" {
		return "sqlite"
	}
	return "postgres"
}

// Apply runs statements in order inside a single transaction, so a schema
// either lands completely or not at all.
func Apply(db *sql.DB, stmts []ddl.Statement) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, st := range stmts {
		if _, err := tx.Exec(st.SQL, st.Params...); err != nil {
			return fmt.Errorf("exec: %w\nSQL: %s", err, st.SQL)
		}
	}
	return tx.Commit()
}
