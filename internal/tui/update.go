package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.Filter.Focused() {
			switch msg.String() {
			case "enter", "esc":
				m.Filter.Blur()
				return m, nil
			default:
				var cmd tea.Cmd
				m.Filter, cmd = m.Filter.Update(msg)
				m.Cursor = 0
				m.Scroll = 0
				return m, cmd
			}
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.Scroll = 0
			}
		case "down", "j":
			if m.Cursor < len(m.VisibleTables())-1 {
				m.Cursor++
				m.Scroll = 0
			}
		case "pgup":
			m.Scroll -= 5
			if m.Scroll < 0 {
				m.Scroll = 0
			}
		case "pgdown":
			m.Scroll += 5
		case "d":
			m = m.cycleDialect()
		case "i":
			m.Safe = !m.Safe
		case "/":
			m.Filter.Focus()
			return m, nil
		case "esc":
			m.Filter.SetValue("")
			m.Cursor = 0
		}
	}
	return m, nil
}
