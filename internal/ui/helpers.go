package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func timeoutCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

// renderMiniCalendar renders a small month calendar for navigation.
func (m *Model) renderMiniCalendar() string {
	var lines []string

	monthYear := m.anchor.Format("January 2006")
	lines = append(lines, m.styles.Header.Render(monthYear))
	lines = append(lines, "Mo Tu We Th Fr Sa Su")

	firstDay := time.Date(m.anchor.Year(), m.anchor.Month(), 1, 0, 0, 0, 0, time.Local)
	startOffset := int(firstDay.Weekday())
	if startOffset == 0 {
		startOffset = 7
	}
	startOffset--

	day := firstDay.AddDate(0, 0, -startOffset)
	today := time.Now()

	var weekLines []string
	weekDays := ""
	for week := 0; week < 6; week++ {
		for weekday := 0; weekday < 7; weekday++ {
			dayStr := fmt.Sprintf("%2d", day.Day())

			if day.Month() != m.anchor.Month() {
				dayStr = m.styles.Help.Render(dayStr)
			} else if day.Year() == today.Year() && day.YearDay() == today.YearDay() {
				dayStr = m.styles.Today.Render(dayStr)
			} else if day.Year() == m.anchor.Year() && day.YearDay() == m.anchor.YearDay() {
				dayStr = m.styles.Selected.Render(dayStr)
			} else if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				dayStr = m.styles.Weekend.Render(dayStr)
			} else {
				dayStr = m.styles.Normal.Render(dayStr)
			}

			weekDays += dayStr
			if weekday < 6 {
				weekDays += " "
			}

			day = day.AddDate(0, 0, 1)
		}
		weekLines = append(weekLines, weekDays)
		weekDays = ""

		if day.Month() != m.anchor.Month() && week > 3 {
			break
		}
	}

	lines = append(lines, weekLines...)
	return m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderStatusBar() string {
	left := fmt.Sprintf(" %s | Events: %d | Unplanned: %d",
		m.anchor.Format(m.cfg.DateFormat),
		len(m.store.Events()),
		len(m.store.Unplanned()))

	right := "1:matrix 2:records 3:roster  v:mode  g:goto  ?:help  q:quit"
	if m.message != "" {
		right = m.styles.Message.Render(m.message)
	}

	width := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if width < 0 {
		width = 0
	}
	middle := strings.Repeat(" ", width)

	return m.styles.Help.Render(left + middle + right)
}

func (m *Model) viewHelp() string {
	help := []string{
		m.styles.Header.Render("Shiftcal Help"),
		"",
		m.styles.Normal.Render("Views:"),
		m.styles.Help.Render("  1       - Matrix planner (resources × days)"),
		m.styles.Help.Render("  2       - Records calendar (month/week/day)"),
		m.styles.Help.Render("  3       - Shift roster"),
		m.styles.Help.Render("  v       - Cycle view granularity"),
		"",
		m.styles.Normal.Render("Navigation:"),
		m.styles.Help.Render("  h/l/←/→ - Previous/next column"),
		m.styles.Help.Render("  j/k/↓/↑ - Next/previous row"),
		m.styles.Help.Render("  [/]     - Previous/next period"),
		m.styles.Help.Render("  t       - Jump to today"),
		m.styles.Help.Render("  g       - Go to date (e.g. 'next fri', '2025-03-14')"),
		"",
		m.styles.Normal.Render("Calendar actions:"),
		m.styles.Help.Render("  tab     - Cycle events in a cell"),
		m.styles.Help.Render("  m       - Move event (enter drops, esc cancels)"),
		m.styles.Help.Render("  T/B/E   - Resize top/bottom edge, extend days"),
		m.styles.Help.Render("  u       - Unschedule event"),
		m.styles.Help.Render("  S       - Focus unplanned sidebar"),
		"",
		m.styles.Normal.Render("Roster actions:"),
		m.styles.Help.Render("  enter   - Open slot (permissions apply)"),
		m.styles.Help.Render("  x       - Remove shift"),
		"",
		m.styles.Help.Render("  r       - Refresh    q - Quit"),
		"",
		m.styles.Help.Render("Press any key to return..."),
	}

	return lipgloss.JoinVertical(lipgloss.Left, help...)
}

func (m *Model) viewGoto() string {
	var sections []string

	sections = append(sections, m.styles.Header.Render("Go to date"))
	sections = append(sections, "")
	sections = append(sections, m.styles.Normal.Render("Enter a date ('tomorrow', 'next fri', '2025-03-14'):"))
	sections = append(sections, m.styles.Selected.Render(m.inputBuffer+"█"))
	sections = append(sections, "")
	sections = append(sections, m.styles.Help.Render("Enter to jump, Esc to cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
