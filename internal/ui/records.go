package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/operaviva/shiftcal/internal/calendar"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Display window for the week/day hour rows. Events outside it still exist;
// the rows just scroll the working day into view first.
const (
	firstHourRow = 7
	lastHourRow  = 20
)

func (m *Model) handleRecordsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.resizing {
		return m.handleResizeKeys(msg)
	}

	switch msg.String() {
	case "v":
		switch m.records.Mode() {
		case calendar.ModeMonth:
			m.records.SetMode(calendar.ModeWeek)
		case calendar.ModeWeek:
			m.records.SetMode(calendar.ModeDay)
		default:
			m.records.SetMode(calendar.ModeMonth)
		}
		m.cursorRow, m.cursorCol = 0, 0
		m.showMessage("Records mode: " + m.records.Mode().String())

	case "l", "right":
		if m.records.Mode() == calendar.ModeMonth {
			m.navigate(1, 0)
		} else {
			days := m.records.Days(m.anchor)
			if m.cursorCol < len(days)-1 {
				m.cursorCol++
			} else {
				m.navigate(len(days), 0)
				m.cursorCol = 0
			}
		}

	case "h", "left":
		if m.records.Mode() == calendar.ModeMonth {
			m.navigate(-1, 0)
		} else {
			days := m.records.Days(m.anchor)
			if m.cursorCol > 0 {
				m.cursorCol--
			} else {
				m.navigate(-len(days), 0)
				m.cursorCol = len(days) - 1
			}
		}

	case "j", "down":
		if m.records.Mode() == calendar.ModeMonth {
			m.navigate(7, 0)
		} else if m.cursorRow < lastHourRow-firstHourRow {
			m.cursorRow++
		}

	case "k", "up":
		if m.records.Mode() == calendar.ModeMonth {
			m.navigate(-7, 0)
		} else if m.cursorRow > 0 {
			m.cursorRow--
		}

	case "]":
		m.navigate(0, 1)

	case "[":
		m.navigate(0, -1)

	case "t":
		m.anchor = time.Now()
		m.navigate(0, 0)

	case "m":
		if ev, ok := m.recordsSelectedEvent(); ok {
			m.store.BeginDrag(ev)
			m.showMessage("Moving: " + ev.Title + " (enter to drop, esc to cancel)")
		}

	case "enter":
		if m.store.Dragging() != nil {
			m.recordsDrop()
		}

	case "esc":
		if m.store.Dragging() != nil {
			m.store.CancelDrag()
			m.showMessage("Move cancelled")
		}

	case "u":
		if ev, ok := m.recordsSelectedEvent(); ok {
			m.store.Unschedule(ev.ID)
			m.showMessage("Unscheduled: " + ev.Title)
		}

	case "B":
		m.startRecordsResize(calendar.HandleBottom)

	case "T":
		m.startRecordsResize(calendar.HandleTop)
	}

	return m, nil
}

// startRecordsResize begins a resize on the selected event, honoring the
// handle placement of the day's segment: middle segments expose nothing.
func (m *Model) startRecordsResize(handle calendar.Handle) {
	ev, ok := m.recordsSelectedEvent()
	if !ok {
		return
	}
	pos := calendar.PositionInSpan(ev.Start, ev.End, m.recordsCursorDay())
	switch handle {
	case calendar.HandleTop:
		if pos != calendar.PositionFirst && pos != calendar.PositionSingle {
			return
		}
	case calendar.HandleBottom:
		if pos != calendar.PositionLast && pos != calendar.PositionSingle {
			return
		}
	}
	m.store.BeginResize(ev, handle, 0, 0)
	m.resizing = true
	m.resizeX, m.resizeY = 0, 0
	m.showMessage(fmt.Sprintf("Resizing %s edge (j/k, enter to finish)", handle))
}

func (m *Model) recordsCursorDay() time.Time {
	days := m.records.Days(m.anchor)
	if m.records.Mode() == calendar.ModeMonth {
		return calendar.Normalize(m.anchor)
	}
	if m.cursorCol < len(days) {
		return days[m.cursorCol]
	}
	return calendar.Normalize(m.anchor)
}

// recordsSelectedEvent resolves the event under the cursor. A segment always
// resolves to its original event; gestures never target fragments.
func (m *Model) recordsSelectedEvent() (calendar.Event, bool) {
	if m.records.Mode() == calendar.ModeMonth {
		cells := m.records.MonthCells(m.store.Events(), m.anchor, m.store.Dragging())
		idx := m.anchor.Day() - 1
		if idx < 0 || idx >= len(cells) || len(cells[idx].Blocks) == 0 {
			return calendar.Event{}, false
		}
		blocks := cells[idx].Blocks
		if m.cursorBlock < len(blocks) {
			return blocks[m.cursorBlock].Event, true
		}
		return blocks[0].Event, true
	}

	day := m.recordsCursorDay()
	hour := m.cursorRow + firstHourRow
	segs := m.records.Segments(m.store.Events(), []time.Time{day})
	for _, seg := range segs {
		if seg.Start.Hour() <= hour && hour < endHour(seg) {
			return seg.Event, true
		}
	}
	return calendar.Event{}, false
}

func endHour(seg calendar.Segment) int {
	h := seg.End.Hour()
	if seg.End.Minute() > 0 || seg.End.Second() > 0 {
		h++
	}
	if h <= seg.Start.Hour() {
		h = seg.Start.Hour() + 1
	}
	return h
}

func (m *Model) recordsDrop() {
	hour := -1
	if m.records.Mode() != calendar.ModeMonth {
		hour = m.cursorRow + firstHourRow
	}
	if err := m.store.Drop(m.recordsCursorDay(), hour, ""); err != nil {
		m.showMessage(fmt.Sprintf("Drop failed: %v", err))
		return
	}
	m.showMessage("Rescheduled")
}

func (m *Model) viewRecords() string {
	var body string
	if m.records.Mode() == calendar.ModeMonth {
		body = m.renderRecordsMonth()
	} else {
		body = m.renderRecordsHours()
	}

	side := lipgloss.JoinVertical(lipgloss.Left, m.renderMiniCalendar(), "", m.renderSidebar())
	joined := lipgloss.JoinHorizontal(lipgloss.Top, body, " ", side)
	return lipgloss.JoinVertical(lipgloss.Left, joined, m.renderStatusBar())
}

func (m *Model) renderRecordsMonth() string {
	cells := m.records.MonthCells(m.store.Events(), m.anchor, m.store.Dragging())
	today := calendar.Normalize(time.Now())
	selected := calendar.Normalize(m.anchor)

	var lines []string
	lines = append(lines, m.styles.Header.Render(m.anchor.Format("January 2006")))

	const colW = 16
	weekStart := m.cfg.WeekStartDay
	header := ""
	for i := 0; i < 7; i++ {
		day := time.Weekday((int(weekStart) + i) % 7)
		header += pad(day.String()[:3], colW)
	}
	lines = append(lines, m.styles.Help.Render(header))

	first := cells[0].Date
	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7

	// Each month cell renders as two lines: day number, then up to one
	// event title with a count of the rest.
	week := make([]calendar.Cell, 0, 7)
	flush := func(leading int) {
		if len(week) == 0 {
			return
		}
		lead := strings.Repeat(" ", colW*leading)
		top, bottom := lead, lead
		for _, cell := range week {
			numStyle := m.styles.Normal
			switch {
			case cell.Date.Equal(selected):
				numStyle = m.styles.Selected
			case cell.Date.Equal(today):
				numStyle = m.styles.Today
			case cell.Date.Weekday() == time.Saturday || cell.Date.Weekday() == time.Sunday:
				numStyle = m.styles.Weekend
			}
			top += numStyle.Render(pad(fmt.Sprintf("%2d", cell.Date.Day()), colW))

			label := ""
			if n := len(cell.Blocks); n > 0 {
				label = blockLabel(cell.Blocks[0])
				if n > 1 {
					label = fmt.Sprintf("%s +%d", truncate(label, colW-5), n-1)
				}
			}
			style := m.styles.Event
			if len(cell.Blocks) > 0 && cell.Blocks[0].Dragged {
				style = m.styles.Dragged
			}
			bottom += style.Render(pad(truncate(label, colW-1), colW))
		}
		lines = append(lines, top, bottom)
		week = week[:0]
	}

	leading := lead
	for _, cell := range cells {
		week = append(week, cell)
		if len(week)+leading == 7 {
			flush(leading)
			leading = 0
		}
	}
	flush(leading)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderRecordsHours() string {
	days := m.records.Days(m.anchor)
	segs := m.records.Segments(m.store.Events(), days)
	today := calendar.Normalize(time.Now())

	const colW = 16
	var lines []string
	title := fmt.Sprintf("Records - %s (%s)", m.anchor.Format("Jan 2, 2006"), m.records.Mode())
	lines = append(lines, m.styles.Header.Render(title))

	header := pad("", 6)
	for i, day := range days {
		style := m.styles.Normal
		if day.Equal(today) {
			style = m.styles.Today
		}
		if i == m.cursorCol && m.store.Dragging() != nil {
			style = m.styles.Selected
		}
		header += style.Render(pad(day.Format("Mon 02"), colW))
	}
	lines = append(lines, header)

	for hour := firstHourRow; hour <= lastHourRow; hour++ {
		line := pad(fmt.Sprintf("%02d:00", hour), 6)
		for di, day := range days {
			label := ""
			style := m.styles.Normal
			for _, seg := range segs {
				if !seg.Day.Equal(day) || seg.Start.Hour() > hour || hour >= endHour(seg) {
					continue
				}
				label = truncate(seg.Event.Title, colW-1)
				switch {
				case seg.Position == calendar.PositionMiddle:
					style = m.styles.Help
				default:
					style = m.styles.Event
				}
				break
			}
			if di == m.cursorCol && hour == m.cursorRow+firstHourRow {
				style = m.styles.Selected
			}
			line += style.Render(pad(label, colW))
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
