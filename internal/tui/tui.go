package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive schema browser over the manifest at path.
// dialectName may be empty; the manifest's dialect (or sqlite) is used.
func Run(path, dialectName string) error {
	m, err := NewModel(path, dialectName)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
