package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ddlforge/ddlforge/internal/executor"
	"github.com/ddlforge/ddlforge/internal/reporter"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create every table and index in the target database",
	RunE:  runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().Bool("safe", true, "Use IF NOT EXISTS so existing objects are kept")
}

func runApply(cmd *cobra.Command, args []string) error {
	conn, _ := rootCmd.PersistentFlags().GetString("db")
	if conn == "" {
		return fmt.Errorf("--db is required")
	}
	safe, _ := cmd.Flags().GetBool("safe")

	db, driver, err := executor.Open(conn)
	if err != nil {
		return err
	}
	defer db.Close()

	// The dialect follows the connection unless overridden.
	if name, _ := rootCmd.PersistentFlags().GetString("dialect"); name == "" {
		_ = rootCmd.PersistentFlags().Set("dialect", executor.DialectFor(driver))
	}

	reg, _, _, err := loadBound(cmd)
	if err != nil {
		return err
	}

	tables := reg.Tables()
	stmts, err := createStatements(reg, safe)
	if err != nil {
		return err
	}

	if err := executor.Apply(db, stmts); err != nil {
		return err
	}
	for _, t := range tables {
		reporter.Ok(t.Name())
	}
	reporter.Info(fmt.Sprintf("applied %d statements across %d tables", len(stmts), len(tables)))
	return nil
}
