package calendar

import (
	"sort"
	"time"
)

// ViewMode selects the day-axis granularity of a layout.
type ViewMode int

const (
	ModeDay ViewMode = iota
	ModeWeek
	ModeMonth
)

func (m ViewMode) String() string {
	switch m {
	case ModeDay:
		return "day"
	case ModeWeek:
		return "week"
	}
	return "month"
}

// Block is one rendered fragment of an event inside a cell. Handles appear
// only on first/single (top) and last/single (bottom, and right in matrix
// layout) fragments; middle fragments are continuation-only and cannot be
// grabbed independently.
type Block struct {
	Event    Event
	Position SpanPosition
	HeightPx int
	Dragged  bool

	TopHandle    bool
	BottomHandle bool
	RightHandle  bool
}

// Cell is one day column of one row: the blocks for every event instance
// whose day span covers the cell's date.
type Cell struct {
	Date   time.Time
	Blocks []Block
}

// Row is one horizontal strip of the matrix layout.
type Row struct {
	Resource Resource
	Cells    []Cell
}

// View is a layout strategy over one store snapshot. The two variants share
// the same event/resource shape and gesture contract and differ only in axis
// assignment; a caller picks one at mount and keeps it.
type View interface {
	Mode() ViewMode
	SetMode(ViewMode)
	Days(anchor time.Time) []time.Time
}

// MatrixView lays out resources as rows and days as columns.
type MatrixView struct {
	mode      ViewMode
	weekStart time.Weekday
	metrics   Metrics
}

func NewMatrixView(weekStart time.Weekday, metrics Metrics) *MatrixView {
	return &MatrixView{mode: ModeWeek, weekStart: weekStart, metrics: metrics}
}

func (v *MatrixView) Mode() ViewMode     { return v.mode }
func (v *MatrixView) SetMode(m ViewMode) { v.mode = m }

// Days returns the day columns for the current mode around anchor: the
// anchor day, its week, or its whole calendar month.
func (v *MatrixView) Days(anchor time.Time) []time.Time {
	return daysFor(v.mode, anchor, v.weekStart)
}

// Layout builds the full row set. Within a cell, blocks sort by start time;
// drag is the active drag state used to dim the grabbed instance, may be nil.
func (v *MatrixView) Layout(events []Event, resources []Resource, anchor time.Time, drag *DragState) []Row {
	days := v.Days(anchor)
	rows := make([]Row, 0, len(resources))
	for _, res := range resources {
		row := Row{Resource: res, Cells: make([]Cell, 0, len(days))}
		for _, day := range days {
			cell := Cell{Date: day}
			for _, ev := range events {
				if ev.ResourceID != res.ID || !CoversDate(ev.Start, ev.End, day) {
					continue
				}
				cell.Blocks = append(cell.Blocks, v.block(ev, day, drag))
			}
			sort.SliceStable(cell.Blocks, func(i, j int) bool {
				return cell.Blocks[i].Event.Start.Before(cell.Blocks[j].Event.Start)
			})
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

func (v *MatrixView) block(ev Event, day time.Time, drag *DragState) Block {
	pos := PositionInSpan(ev.Start, ev.End, day)
	return Block{
		Event:        ev,
		Position:     pos,
		HeightPx:     v.metrics.BlockHeight(ev.Start, ev.End),
		Dragged:      isDragged(ev, drag),
		TopHandle:    pos == PositionFirst || pos == PositionSingle,
		BottomHandle: pos == PositionLast || pos == PositionSingle,
		RightHandle:  pos == PositionLast || pos == PositionSingle,
	}
}

// isDragged matches the renderer's dim test: record id plus committed start
// plus resource assignment.
func isDragged(ev Event, drag *DragState) bool {
	return drag != nil &&
		drag.Event.ID == ev.ID &&
		drag.Event.Start.Equal(ev.Start) &&
		drag.Event.ResourceID == ev.ResourceID
}

// daysFor expands anchor to the day columns of a mode.
func daysFor(mode ViewMode, anchor time.Time, weekStart time.Weekday) []time.Time {
	switch mode {
	case ModeDay:
		return []time.Time{Normalize(anchor)}
	case ModeWeek:
		first := startOfWeek(anchor, weekStart)
		days := make([]time.Time, 7)
		for i := range days {
			days[i] = first.AddDate(0, 0, i)
		}
		return days
	default:
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		n := first.AddDate(0, 1, -1).Day()
		days := make([]time.Time, n)
		for i := range days {
			days[i] = first.AddDate(0, 0, i)
		}
		return days
	}
}

// startOfWeek returns midnight of the week containing d, where weeks begin
// on weekStart.
func startOfWeek(d time.Time, weekStart time.Weekday) time.Time {
	n := Normalize(d)
	offset := (int(n.Weekday()) - int(weekStart) + 7) % 7
	return n.AddDate(0, 0, -offset)
}
