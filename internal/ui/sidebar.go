package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// sidebarWidth reserves the right-hand strip for the unplanned list.
func sidebarWidth(total int) int {
	w := total / 3
	if w < 24 {
		w = 24
	}
	return w
}

// renderSidebar lists the unplanned events: the drag source for scheduling.
// The focused entry is the one a subsequent enter will grab.
func (m *Model) renderSidebar() string {
	unplanned := m.store.Unplanned()
	boxWidth := sidebarWidth(m.width) - 4
	if boxWidth < 20 {
		boxWidth = 20
	}

	var lines []string
	title := fmt.Sprintf("Unplanned (%d)", len(unplanned))
	if m.sidebarFocus {
		title += " - enter to grab"
	}
	lines = append(lines, m.styles.Header.Render(title))

	if len(unplanned) == 0 {
		lines = append(lines, m.styles.Help.Render("(nothing waiting)"))
	}

	for i, ev := range unplanned {
		if i >= 8 {
			lines = append(lines, m.styles.Help.Render(fmt.Sprintf("... and %d more", len(unplanned)-8)))
			break
		}
		style := m.styles.Event
		prefix := "• "
		if m.sidebarFocus && i == m.sidebarIndex {
			style = m.styles.Selected
			prefix = "▸ "
		}
		lines = append(lines, style.Render(prefix+truncate(ev.Title, boxWidth-4)))
		if ev.Description != "" && m.sidebarFocus && i == m.sidebarIndex {
			wrapped := wordwrap.String(ev.Description, boxWidth-4)
			for _, line := range strings.Split(wrapped, "\n") {
				if line != "" {
					lines = append(lines, m.styles.Help.Render("  "+line))
				}
			}
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return m.styles.Border.Width(boxWidth).Render(content)
}
