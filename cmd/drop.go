package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ddlforge/ddlforge/internal/ddl"
	"github.com/ddlforge/ddlforge/internal/executor"
	"github.com/ddlforge/ddlforge/internal/reporter"
)

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every table in the manifest from the target database",
	RunE:  runDrop,
}

func init() {
	rootCmd.AddCommand(dropCmd)
	dropCmd.Flags().Bool("safe", true, "Use IF EXISTS so missing tables are ignored")
	dropCmd.Flags().Bool("cascade", false, "Append CASCADE")
	dropCmd.Flags().Bool("restrict", false, "Append RESTRICT")
}

func runDrop(cmd *cobra.Command, args []string) error {
	conn, _ := rootCmd.PersistentFlags().GetString("db")
	if conn == "" {
		return fmt.Errorf("--db is required")
	}
	safe, _ := cmd.Flags().GetBool("safe")
	cascade, _ := cmd.Flags().GetBool("cascade")
	restrict, _ := cmd.Flags().GetBool("restrict")
	if cascade && restrict {
		return fmt.Errorf("--cascade and --restrict are mutually exclusive")
	}

	db, driver, err := executor.Open(conn)
	if err != nil {
		return err
	}
	defer db.Close()

	if name, _ := rootCmd.PersistentFlags().GetString("dialect"); name == "" {
		_ = rootCmd.PersistentFlags().Set("dialect", executor.DialectFor(driver))
	}

	reg, _, _, err := loadBound(cmd)
	if err != nil {
		return err
	}

	var opts []ddl.DropOption
	if cascade {
		opts = append(opts, ddl.Cascade())
	}
	if restrict {
		opts = append(opts, ddl.Restrict())
	}

	// Reverse dependency order: referencing tables drop first.
	tables := reg.Tables()
	var stmts []ddl.Statement
	for i := len(tables) - 1; i >= 0; i-- {
		g, err := ddl.For(tables[i])
		if err != nil {
			return err
		}
		st, err := g.DropTable(safe, opts...)
		if err != nil {
			return err
		}
		stmts = append(stmts, st)
	}

	if err := executor.Apply(db, stmts); err != nil {
		return err
	}
	reporter.Ok(fmt.Sprintf("dropped %d tables", len(stmts)))
	return nil
}
