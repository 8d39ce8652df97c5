package cmd

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ddlforge/ddlforge/internal/ddl"
	"github.com/ddlforge/ddlforge/internal/reporter"
	"github.com/ddlforge/ddlforge/internal/schema"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Render the DDL for every table in the manifest",
	RunE:  runPrint,
}

func init() {
	rootCmd.AddCommand(printCmd)
	printCmd.Flags().Bool("safe", false, "Emit IF NOT EXISTS variants")
	printCmd.Flags().BoolP("watch", "w", false, "Re-render whenever the manifest changes")
}

func runPrint(cmd *cobra.Command, args []string) error {
	safe, _ := cmd.Flags().GetBool("safe")
	watch, _ := cmd.Flags().GetBool("watch")

	reg, _, path, err := loadBound(cmd)
	if err != nil {
		return err
	}
	if err := printAll(reg, safe); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	reporter.Info(fmt.Sprintf("watching %s — ^C to stop", path))

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			// Editors replace the file on save; re-arm the watch.
			if ev.Has(fsnotify.Create) {
				_ = watcher.Add(path)
			}
			reg, _, _, err := loadBound(cmd)
			if err != nil {
				reporter.Err(err.Error())
				continue
			}
			fmt.Println()
			if err := printAll(reg, safe); err != nil {
				reporter.Err(err.Error())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			reporter.Err(err.Error())
		}
	}
}

func printAll(reg *schema.Registry, safe bool) error {
	stmts, err := createStatements(reg, safe)
	if err != nil {
		return err
	}
	reporter.Statements(stmts)
	return nil
}

// createStatements renders the full creation script in dependency order:
// every table with its indexes, then the ALTER statements for deferred
// foreign keys once all tables exist.
func createStatements(reg *schema.Registry, safe bool) ([]ddl.Statement, error) {
	var stmts, deferred []ddl.Statement
	for _, t := range reg.Tables() {
		g, err := ddl.For(t)
		if err != nil {
			return nil, err
		}
		batch, err := g.CreateAll(safe)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, batch...)
		alters, err := g.CreateDeferredForeignKeys()
		if err != nil {
			return nil, err
		}
		deferred = append(deferred, alters...)
	}
	return append(stmts, deferred...), nil
}
