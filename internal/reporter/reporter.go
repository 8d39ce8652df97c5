// Package reporter prints CLI status output to stderr and generated SQL
// to stdout, so statement text stays pipeable.
package reporter

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/ddlforge/ddlforge/internal/ddl"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	dim    = color.New(color.Faint)
)

// Ok prints a green check message.
func Ok(msg string) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", green.Sprint("✓"), msg)
}

// Info prints an info line.
func Info(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// Warn prints a yellow warning.
func Warn(msg string) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", yellow.Sprint("⚠"), msg)
}

// Err prints a red error.
func Err(msg string) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", red.Sprint("✗"), msg)
}

// Statement prints one DDL statement, with its parameters as a trailing
// comment when any are bound.
func Statement(st ddl.Statement) {
	fmt.Printf("%s;\n", st.SQL)
	if len(st.Params) > 0 {
		fmt.Println(dim.Sprintf("-- params: %v", st.Params))
	}
}

// Statements prints a statement batch separated by blank lines.
func Statements(stmts []ddl.Statement) {
	for i, st := range stmts {
		if i > 0 {
			fmt.Println()
		}
		Statement(st)
	}
}
