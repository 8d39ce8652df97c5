package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ddlforge/ddlforge/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Browse the manifest's tables and their DDL interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := rootCmd.PersistentFlags().GetString("schema")
		if path == "" {
			return fmt.Errorf("--schema is required")
		}
		name, _ := rootCmd.PersistentFlags().GetString("dialect")
		return tui.Run(path, name)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
