package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ddlforge/ddlforge/internal/dialect"
	"github.com/ddlforge/ddlforge/internal/manifest"
	"github.com/ddlforge/ddlforge/internal/schema"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "ddlforge",
	Short:   "Generate dialect-correct DDL from a declarative schema manifest",
	Version: version,
	Long: `ddlforge compiles a YAML schema manifest into CREATE TABLE,
CREATE INDEX, ALTER TABLE ADD CONSTRAINT and DROP TABLE statements for
SQLite, PostgreSQL or MySQL, and can apply them to a live database.`,
}

func init() {
	rootCmd.PersistentFlags().StringP("schema", "s", "", "Path to the YAML schema manifest")
	rootCmd.PersistentFlags().StringP("db", "d", "", "Database connection string (postgres://... or sqlite:path)")
	rootCmd.PersistentFlags().String("dialect", "", "Target dialect: sqlite, postgres or mysql")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadBound loads the manifest named by --schema and binds every table to
// the selected dialect: the --dialect flag wins, then the manifest's
// dialect field, then sqlite.
func loadBound(cmd *cobra.Command) (*schema.Registry, *dialect.Dialect, string, error) {
	path, _ := rootCmd.PersistentFlags().GetString("schema")
	if path == "" {
		return nil, nil, "", fmt.Errorf("--schema is required")
	}

	f, reg, err := manifest.Load(path)
	if err != nil {
		return nil, nil, "", err
	}

	name, _ := rootCmd.PersistentFlags().GetString("dialect")
	if name == "" {
		name = f.Dialect
	}
	if name == "" {
		name = "sqlite"
	}
	d, err := dialect.ByName(name)
	if err != nil {
		return nil, nil, "", err
	}
	reg.BindAll(d)
	return reg, d, path, nil
}
