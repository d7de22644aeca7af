package ui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/operaviva/shiftcal/internal/shift"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// slotEditor is the modal state for one roster cell.
type slotEditor struct {
	dayIndex   int
	slotIndex  int
	editing    bool // editing an occupied cell vs creating
	field      int  // 0 name, 1 shift, 2 dev
	nameIdx    int  // index into volunteers
	shiftIdx   int  // index into shift options
	dev        string
	access     shift.Access
	validation string
}

func (m *Model) handleRosterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	grid := m.roster.Grid()
	timeSlots := m.roster.TimeSlots()

	switch msg.String() {
	case "j", "down":
		if m.cursorRow < len(grid)-1 {
			m.cursorRow++
		}

	case "k", "up":
		if m.cursorRow > 0 {
			m.cursorRow--
		}

	case "l", "right":
		if m.cursorCol < len(timeSlots)-1 {
			m.cursorCol++
		}

	case "h", "left":
		if m.cursorCol > 0 {
			m.cursorCol--
		}

	case "]":
		year, month := m.roster.Month()
		m.roster.SetMonth(time.Date(year, month, 1, 0, 0, 0, 0, time.Local).AddDate(0, 1, 0).Year(),
			time.Date(year, month, 1, 0, 0, 0, 0, time.Local).AddDate(0, 1, 0).Month())
		m.cursorRow = 0

	case "[":
		year, month := m.roster.Month()
		prev := time.Date(year, month, 1, 0, 0, 0, 0, time.Local).AddDate(0, -1, 0)
		m.roster.SetMonth(prev.Year(), prev.Month())
		m.cursorRow = 0

	case "t":
		now := time.Now()
		m.roster.SetMonth(now.Year(), now.Month())
		m.cursorRow = now.Day() - 1

	case "enter", " ":
		m.openSlotEditor()

	case "x":
		m.deleteSlot()
	}

	return m, nil
}

// openSlotEditor runs the permission decision for the cursor cell and opens
// the editor only when it allows. A denied click has no visible effect.
func (m *Model) openSlotEditor() {
	grid := m.roster.Grid()
	if m.cursorRow >= len(grid) || m.cursorCol >= len(grid[m.cursorRow].Slots) {
		return
	}
	day := grid[m.cursorRow]
	slot := day.Slots[m.cursorCol]

	year, month := m.roster.Month()
	date := time.Date(year, month, day.Day, 0, 0, 0, 0, time.Local)

	outcome := shift.Decide(m.role, m.userName, date, time.Now(), slot)
	if outcome == shift.Denied {
		slog.Debug("slot click denied", "date", date.Format("2006-01-02"), "slot", m.cursorCol)
		return
	}

	ed := &slotEditor{
		dayIndex:  m.cursorRow,
		slotIndex: m.cursorCol,
		editing:   outcome == shift.OpenEdit && slot != nil,
		access:    shift.AccessEdit,
	}
	if ed.editing {
		ed.nameIdx = indexOf(m.roster.Volunteers(), slot.Name)
		ed.shiftIdx = shiftIndexOf(m.roster.Shifts(), slot.Shift)
		ed.dev = slot.Dev
		ed.access = slot.Access
	} else {
		// Creating: default the occupant to the caller.
		ed.nameIdx = indexOf(m.roster.Volunteers(), m.userName)
		ed.shiftIdx = -1
	}
	m.editor = ed
	m.mode = ViewSlotEditor
}

// deleteSlot clears an occupied cell, subject to the same decision plus the
// server-assigned access tag.
func (m *Model) deleteSlot() {
	grid := m.roster.Grid()
	if m.cursorRow >= len(grid) || m.cursorCol >= len(grid[m.cursorRow].Slots) {
		return
	}
	day := grid[m.cursorRow]
	slot := day.Slots[m.cursorCol]
	if slot == nil {
		return
	}

	year, month := m.roster.Month()
	date := time.Date(year, month, day.Day, 0, 0, 0, 0, time.Local)
	if shift.Decide(m.role, m.userName, date, time.Now(), slot) != shift.OpenEdit {
		slog.Debug("slot delete denied", "date", date.Format("2006-01-02"))
		return
	}
	if m.role != shift.RoleAdmin && slot.Access == shift.AccessView {
		slog.Debug("slot delete denied by access tag", "date", date.Format("2006-01-02"))
		return
	}

	if err := m.roster.Delete(m.cursorRow, m.cursorCol); err != nil {
		m.showMessage(fmt.Sprintf("Delete failed: %v", err))
		return
	}
	m.showMessage("Shift removed")
}

func (m *Model) handleEditorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.editor
	if ed == nil {
		m.mode = ViewRoster
		return m, nil
	}

	volunteers := m.roster.Volunteers()
	shifts := m.roster.Shifts()

	switch msg.Type {
	case tea.KeyEscape:
		m.editor = nil
		m.mode = ViewRoster
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		ed.field = (ed.field + 1) % 3
		return m, nil

	case tea.KeyUp:
		ed.field = (ed.field + 2) % 3
		return m, nil

	case tea.KeyLeft:
		switch ed.field {
		case 0:
			if ed.nameIdx > 0 {
				ed.nameIdx--
			}
		case 1:
			if ed.shiftIdx > 0 {
				ed.shiftIdx--
			}
		}
		return m, nil

	case tea.KeyRight:
		switch ed.field {
		case 0:
			if ed.nameIdx < len(volunteers)-1 {
				ed.nameIdx++
			}
		case 1:
			if ed.shiftIdx < len(shifts)-1 {
				ed.shiftIdx++
			}
		}
		return m, nil

	case tea.KeyBackspace:
		if ed.field == 2 && len(ed.dev) > 0 {
			ed.dev = ed.dev[:len(ed.dev)-1]
		}
		return m, nil

	case tea.KeyRunes:
		if ed.field == 2 {
			ed.dev += string(msg.Runes)
		}
		return m, nil

	case tea.KeyEnter:
		name := ""
		if ed.nameIdx >= 0 && ed.nameIdx < len(volunteers) {
			name = volunteers[ed.nameIdx]
		}
		shiftCode := ""
		if ed.shiftIdx >= 0 && ed.shiftIdx < len(shifts) {
			shiftCode = shifts[ed.shiftIdx].Value
		}

		err := m.roster.Save(ed.dayIndex, ed.slotIndex, name, shiftCode, ed.dev, ed.access)
		if err == shift.ErrMissingShift {
			ed.validation = "Select a shift before saving"
			return m, nil
		}
		if err != nil {
			m.showMessage(fmt.Sprintf("Save failed: %v", err))
		} else {
			m.showMessage("Shift saved")
		}
		m.editor = nil
		m.mode = ViewRoster
		return m, nil
	}

	return m, nil
}

func (m *Model) viewRoster() string {
	grid := m.roster.Grid()
	timeSlots := m.roster.TimeSlots()
	year, month := m.roster.Month()
	now := time.Now()

	const dayColWidth = 11
	slotColWidth := 22

	var lines []string
	title := fmt.Sprintf("Roster (%s) - %s %d", m.roster.Type(), month, year)
	lines = append(lines, m.styles.Header.Render(title))

	header := pad("", dayColWidth)
	for _, ts := range timeSlots {
		header += pad(ts, slotColWidth)
	}
	lines = append(lines, m.styles.Help.Render(header))

	for di, day := range grid {
		dayStyle := m.styles.Normal
		if day.Weekend {
			dayStyle = m.styles.Weekend
		}
		if day.Day == now.Day() && month == now.Month() && year == now.Year() {
			dayStyle = m.styles.Today
		}
		line := dayStyle.Render(pad(fmt.Sprintf("%2d %s", day.Day, day.DayName[:3]), dayColWidth))

		for si, slot := range day.Slots {
			label := ""
			style := m.styles.Normal
			if slot != nil {
				label = slot.Name
				if slot.Shift != "" {
					label += " [" + slot.Shift + "]"
				}
				style = m.styles.Event
			}
			if day.FullyBooked() {
				style = m.styles.Booked
			}
			if di == m.cursorRow && si == m.cursorCol {
				style = m.styles.Selected
			}
			line += style.Render(pad(truncate(label, slotColWidth-1), slotColWidth))
		}
		lines = append(lines, line)
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

func (m *Model) viewSlotEditor() string {
	ed := m.editor
	if ed == nil {
		return ""
	}

	volunteers := m.roster.Volunteers()
	shifts := m.roster.Shifts()
	grid := m.roster.Grid()
	year, month := m.roster.Month()

	var sections []string
	titleVerb := "New shift"
	if ed.editing {
		titleVerb = "Edit shift"
	}
	day := grid[ed.dayIndex]
	timeSlot := m.roster.TimeSlots()[ed.slotIndex]
	sections = append(sections, m.styles.Header.Render(
		fmt.Sprintf("%s - %s %d %d, %s", titleVerb, month, day.Day, year, timeSlot)))
	sections = append(sections, "")

	name := "(none)"
	if ed.nameIdx >= 0 && ed.nameIdx < len(volunteers) {
		name = volunteers[ed.nameIdx]
	}
	shiftLabel := "(none)"
	if ed.shiftIdx >= 0 && ed.shiftIdx < len(shifts) {
		shiftLabel = shifts[ed.shiftIdx].Label
	}

	fields := []struct {
		label, value string
	}{
		{"Volunteer", name},
		{"Shift", shiftLabel},
		{"Device", ed.dev},
	}
	for i, f := range fields {
		style := m.styles.Normal
		if i == ed.field {
			style = m.styles.Selected
		}
		sections = append(sections, fmt.Sprintf("%s: %s", pad(f.label, 10), style.Render(f.value)))
	}

	if ed.validation != "" {
		sections = append(sections, "", m.styles.Message.Render(ed.validation))
	}
	sections = append(sections, "", m.styles.Help.Render("←/→ change · tab next field · enter save · esc cancel"))

	box := m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return lipgloss.JoinVertical(lipgloss.Left, m.viewRoster(), box)
}

func indexOf(items []string, value string) int {
	for i, v := range items {
		if v == value {
			return i
		}
	}
	return -1
}

func shiftIndexOf(options []shift.Option, value string) int {
	for i, o := range options {
		if o.Value == value {
			return i
		}
	}
	return -1
}
