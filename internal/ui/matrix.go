package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/operaviva/shiftcal/internal/calendar"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Fixed grid geometry for the matrix view. Mouse hit-testing depends on
// these staying in sync with the renderer.
const (
	nameColWidth = 14
	cellWidth    = 12
	headerLines  = 2
	rowLines     = 3
)

func (m *Model) handleMatrixKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.resizing {
		return m.handleResizeKeys(msg)
	}
	if m.sidebarFocus {
		return m.handleSidebarKeys(msg)
	}

	days := m.matrix.Days(m.anchor)
	resources := m.store.Resources()

	switch msg.String() {
	case "l", "right":
		if m.cursorCol < len(days)-1 {
			m.cursorCol++
		} else {
			m.shiftPeriod(1)
			m.cursorCol = 0
		}
		m.cursorBlock = 0

	case "h", "left":
		if m.cursorCol > 0 {
			m.cursorCol--
		} else {
			m.shiftPeriod(-1)
			m.cursorCol = len(days) - 1
		}
		m.cursorBlock = 0

	case "j", "down":
		if m.cursorRow < len(resources)-1 {
			m.cursorRow++
			m.cursorBlock = 0
		}

	case "k", "up":
		if m.cursorRow > 0 {
			m.cursorRow--
			m.cursorBlock = 0
		}

	case "]":
		m.shiftPeriod(1)

	case "[":
		m.shiftPeriod(-1)

	case "t":
		m.anchor = time.Now()
		m.navigate(0, 0)

	case "v":
		switch m.matrix.Mode() {
		case calendar.ModeDay:
			m.matrix.SetMode(calendar.ModeWeek)
		case calendar.ModeWeek:
			m.matrix.SetMode(calendar.ModeMonth)
		default:
			m.matrix.SetMode(calendar.ModeDay)
		}
		m.cursorCol = 0
		m.showMessage("Matrix mode: " + m.matrix.Mode().String())

	case "tab":
		if blocks := m.cursorBlocks(); len(blocks) > 0 {
			m.cursorBlock = (m.cursorBlock + 1) % len(blocks)
		}

	case "m":
		if block, ok := m.selectedBlock(); ok {
			m.store.BeginDrag(block.Event)
			m.showMessage("Moving: " + block.Event.Title + " (enter to drop, esc to cancel)")
		}

	case "enter":
		if m.store.Dragging() != nil {
			m.dropAtCursor(days, resources)
		}

	case "esc":
		if m.store.Dragging() != nil {
			m.store.CancelDrag()
			m.showMessage("Move cancelled")
		}

	case "u":
		if block, ok := m.selectedBlock(); ok {
			m.store.Unschedule(block.Event.ID)
			m.showMessage("Unscheduled: " + block.Event.Title)
			m.cursorBlock = 0
		}

	case "B":
		m.startResize(calendar.HandleBottom)

	case "T":
		m.startResize(calendar.HandleTop)

	case "E":
		m.startResize(calendar.HandleRight)

	case "S":
		m.sidebarFocus = true
		m.sidebarIndex = 0
	}

	return m, nil
}

// startResize begins a keyboard-synthesized resize on the selected block.
// The store only exposes pointer math, so key presses move a virtual
// pointer by one hour or one day of travel at a time.
func (m *Model) startResize(handle calendar.Handle) {
	block, ok := m.selectedBlock()
	if !ok {
		return
	}
	switch handle {
	case calendar.HandleTop:
		if !block.TopHandle {
			return
		}
	case calendar.HandleBottom:
		if !block.BottomHandle {
			return
		}
	case calendar.HandleRight:
		if !block.RightHandle {
			return
		}
	}
	m.store.BeginResize(block.Event, handle, 0, 0)
	m.resizing = true
	m.resizeX, m.resizeY = 0, 0
	m.showMessage(fmt.Sprintf("Resizing %s edge (j/k or h/l, enter to finish)", handle))
}

func (m *Model) handleResizeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	metrics := m.store.Metrics()

	switch msg.String() {
	case "j", "down":
		m.resizeY += metrics.ResizePxPerHour
		m.store.ResizeMove(m.resizeX, m.resizeY)

	case "k", "up":
		m.resizeY -= metrics.ResizePxPerHour
		m.store.ResizeMove(m.resizeX, m.resizeY)

	case "l", "right":
		m.resizeX += metrics.ResizePxPerDay
		m.store.ResizeMove(m.resizeX, m.resizeY)

	case "h", "left":
		m.resizeX -= metrics.ResizePxPerDay
		m.store.ResizeMove(m.resizeX, m.resizeY)

	case "enter", "esc":
		// Either way the gesture terminates like a pointer-up: whatever
		// net change accumulated is committed.
		m.store.EndResize()
		m.resizing = false
		m.showMessage("Resize finished")
	}

	return m, nil
}

func (m *Model) handleSidebarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	unplanned := m.store.Unplanned()

	switch msg.String() {
	case "j", "down":
		if m.sidebarIndex < len(unplanned)-1 {
			m.sidebarIndex++
		}

	case "k", "up":
		if m.sidebarIndex > 0 {
			m.sidebarIndex--
		}

	case "enter":
		if m.sidebarIndex < len(unplanned) {
			ev := unplanned[m.sidebarIndex]
			m.store.BeginDrag(ev)
			m.sidebarFocus = false
			m.showMessage("Scheduling: " + ev.Title + " (move to a cell, enter to drop)")
		}

	case "esc", "S":
		m.sidebarFocus = false
	}

	return m, nil
}

func (m *Model) dropAtCursor(days []time.Time, resources []calendar.Resource) {
	if m.cursorCol >= len(days) {
		return
	}
	resourceID := ""
	if m.cursorRow < len(resources) {
		resourceID = resources[m.cursorRow].ID
	}
	// Day columns carry no hour granularity; the original hour survives.
	if err := m.store.Drop(days[m.cursorCol], -1, resourceID); err != nil {
		m.showMessage(fmt.Sprintf("Drop failed: %v", err))
		return
	}
	m.showMessage("Rescheduled")
}

func (m *Model) cursorBlocks() []calendar.Block {
	rows := m.matrix.Layout(m.store.Events(), m.store.Resources(), m.anchor, m.store.Dragging())
	if m.cursorRow >= len(rows) {
		return nil
	}
	cells := rows[m.cursorRow].Cells
	if m.cursorCol >= len(cells) {
		return nil
	}
	return cells[m.cursorCol].Blocks
}

func (m *Model) selectedBlock() (calendar.Block, bool) {
	blocks := m.cursorBlocks()
	if len(blocks) == 0 {
		return calendar.Block{}, false
	}
	if m.cursorBlock >= len(blocks) {
		return blocks[0], true
	}
	return blocks[m.cursorBlock], true
}

// shiftPeriod moves the anchor by one column unit of the current mode.
func (m *Model) shiftPeriod(direction int) {
	switch m.matrix.Mode() {
	case calendar.ModeDay:
		m.navigate(direction, 0)
	case calendar.ModeWeek:
		m.navigate(7*direction, 0)
	default:
		m.navigate(0, direction)
	}
}

func (m *Model) viewMatrix() string {
	days := m.matrix.Days(m.anchor)
	rows := m.matrix.Layout(m.store.Events(), m.store.Resources(), m.anchor, m.store.Dragging())

	offset, maxCols := m.matrixViewport(len(days))
	visible := days
	if len(days) > maxCols {
		end := offset + maxCols
		if end > len(days) {
			end = len(days)
		}
		visible = days[offset:end]
	}

	var lines []string

	title := fmt.Sprintf("Planner - %s (%s)", m.anchor.Format("January 2006"), m.matrix.Mode())
	lines = append(lines, m.styles.Header.Render(title))

	// Day header row
	header := pad("", nameColWidth)
	today := calendar.Normalize(time.Now())
	for i, day := range visible {
		label := pad(day.Format("Mon 02"), cellWidth)
		style := m.styles.Normal
		if day.Equal(today) {
			style = m.styles.Today
		} else if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			style = m.styles.Weekend
		}
		if offset+i == m.cursorCol && m.store.Dragging() != nil {
			// Drag-over target indication
			style = m.styles.Selected
		}
		header += style.Render(label)
	}
	lines = append(lines, header)

	for ri, row := range rows {
		for line := 0; line < rowLines; line++ {
			out := ""
			if line == 0 {
				out = pad(truncate(row.Resource.Name, nameColWidth-1), nameColWidth)
			} else {
				out = pad("", nameColWidth)
			}
			for ci := range visible {
				cell := row.Cells[offset+ci]
				out += m.renderMatrixCellLine(cell, line, ri == m.cursorRow && offset+ci == m.cursorCol)
			}
			lines = append(lines, out)
		}
	}

	grid := lipgloss.JoinVertical(lipgloss.Left, lines...)
	body := lipgloss.JoinHorizontal(lipgloss.Top, grid, " ", m.renderSidebar())

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

// renderMatrixCellLine renders one text line of one cell: blocks stack top
// to bottom, line 0 reserved for the first block and so on.
func (m *Model) renderMatrixCellLine(cell calendar.Cell, line int, selected bool) string {
	if line >= len(cell.Blocks) {
		text := pad("", cellWidth)
		if selected && line == 0 {
			return m.styles.Selected.Render(text)
		}
		return text
	}

	block := cell.Blocks[line]
	label := blockLabel(block)
	text := pad(truncate(label, cellWidth-1), cellWidth)

	style := m.styles.Event
	switch {
	case selected && line == m.cursorBlock:
		style = m.styles.Selected
	case block.Dragged:
		style = m.styles.Dragged
	case block.Position == calendar.PositionMiddle:
		style = m.styles.Help
	}
	return style.Render(text)
}

// blockLabel marks continuation fragments with connector arrows so a
// multi-day span reads across columns.
func blockLabel(block calendar.Block) string {
	switch block.Position {
	case calendar.PositionFirst:
		return block.Event.Title + "→"
	case calendar.PositionMiddle:
		return "↔" + block.Event.Title
	case calendar.PositionLast:
		return "→" + block.Event.Title
	}
	return block.Event.Title
}

// Mouse support: press grabs the block under the pointer, release drops on
// the cell under the pointer. The virtual pointer of a keyboard resize owns
// that gesture, so mouse events are inert until it finishes.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ViewMatrix || m.resizing {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if row, col, ok := m.matrixCellAt(msg.X, msg.Y); ok {
			m.cursorRow, m.cursorCol, m.cursorBlock = row, col, 0
			if block, found := m.selectedBlock(); found {
				m.store.BeginDrag(block.Event)
			}
		}

	case tea.MouseActionRelease:
		if m.store.Dragging() == nil {
			return m, nil
		}
		if row, col, ok := m.matrixCellAt(msg.X, msg.Y); ok {
			m.cursorRow, m.cursorCol = row, col
			m.dropAtCursor(m.matrix.Days(m.anchor), m.store.Resources())
		} else {
			m.store.CancelDrag()
		}
	}

	return m, nil
}

// matrixViewport returns the first visible day column and the column
// capacity for the current width, keeping the cursor column in frame.
// The renderer and the mouse hit-test both go through it so a scrolled
// grid maps clicks to the days actually on screen.
func (m *Model) matrixViewport(dayCount int) (offset, maxCols int) {
	gridWidth := m.width - sidebarWidth(m.width)
	maxCols = (gridWidth - nameColWidth) / cellWidth
	if maxCols < 1 {
		maxCols = 1
	}
	if dayCount <= maxCols {
		return 0, maxCols
	}
	offset = m.cursorCol - maxCols + 1
	if offset < 0 {
		offset = 0
	}
	return offset, maxCols
}

// matrixCellAt maps terminal coordinates to a (resource row, day column).
func (m *Model) matrixCellAt(x, y int) (row, col int, ok bool) {
	if x < nameColWidth || y < headerLines {
		return 0, 0, false
	}
	days := m.matrix.Days(m.anchor)
	offset, maxCols := m.matrixViewport(len(days))
	screenCol := (x - nameColWidth) / cellWidth
	if screenCol >= maxCols {
		return 0, 0, false
	}
	row = (y - headerLines) / rowLines
	col = offset + screenCol
	resources := m.store.Resources()
	if row >= len(resources) || col >= len(days) {
		return 0, 0, false
	}
	return row, col, true
}

func pad(s string, width int) string {
	s = runewidth.Truncate(s, width, "")
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func truncate(s string, max int) string {
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max <= 3 {
		return runewidth.Truncate(s, max, "")
	}
	return runewidth.Truncate(s, max, "...")
}
