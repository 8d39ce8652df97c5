package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ddlforge/ddlforge/internal/ddl"
)

func (m Model) View() string {
	if m.Width == 0 {
		return "loading..."
	}

	header := titleStyle.Render("ddlforge") +
		dimStyle.Render("  "+m.Path+"  ") +
		badgeStyle.Render("["+m.Dialect.Name+"]")
	if m.Safe {
		header += dimStyle.Render(" IF NOT EXISTS")
	}

	listWidth := 28
	if m.Width < 60 {
		listWidth = m.Width / 3
	}
	bodyHeight := m.Height - 5
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	left := m.renderList(listWidth, bodyHeight)
	right := m.renderDDL(m.Width-listWidth-6, bodyHeight)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	status := dimStyle.Render(m.StatusMsg)
	if m.Filter.Focused() {
		status = m.Filter.View()
	}
	return header + "\n" + body + "\n" + status
}

func (m Model) renderList(width, height int) string {
	visible := m.VisibleTables()
	var b strings.Builder
	for i, t := range visible {
		if i >= height {
			b.WriteString(dimStyle.Render(fmt.Sprintf("… %d more", len(visible)-height)))
			break
		}
		line := t.Name()
		if s := t.Schema(); s != "" {
			line = s + "." + line
		}
		if i == m.Cursor || (m.Cursor >= len(visible) && i == len(visible)-1) {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if len(visible) == 0 {
		b.WriteString(dimStyle.Render("no tables match"))
	}
	style := panelStyle
	if !m.Filter.Focused() {
		style = activePanelStyle
	}
	return style.Width(width).Height(height).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderDDL(width, height int) string {
	t := m.Selected()
	if t == nil {
		return panelStyle.Width(width).Height(height).Render("")
	}

	g, err := ddl.For(t)
	if err != nil {
		return panelStyle.Width(width).Height(height).Render(errorStyle.Render(err.Error()))
	}
	stmts, err := g.CreateAll(m.Safe)
	if err != nil {
		return panelStyle.Width(width).Height(height).Render(errorStyle.Render(err.Error()))
	}

	var lines []string
	for _, st := range stmts {
		lines = append(lines, wrapSQL(st.SQL+";", width)...)
		if len(st.Params) > 0 {
			lines = append(lines, paramStyle.Render(fmt.Sprintf("-- params: %v", st.Params)))
		}
		lines = append(lines, "")
	}

	start := m.Scroll
	if start > len(lines)-1 {
		start = len(lines) - 1
	}
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > len(lines) {
		end = len(lines)
	}
	body := sqlStyle.Render(strings.Join(lines[start:end], "\n"))
	return panelStyle.Width(width).Height(height).Render(body)
}

// wrapSQL hard-wraps long statements so the pane never overflows.
func wrapSQL(s string, width int) []string {
	if width < 10 {
		width = 10
	}
	var out []string
	for len(s) > width {
		cut := strings.LastIndex(s[:width], " ")
		if cut <= 0 {
			cut = width
		}
		out = append(out, s[:cut])
		s = "  " + strings.TrimLeft(s[cut:], " ")
	}
	return append(out, s)
}
