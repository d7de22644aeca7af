package calendar

import (
	"sort"
	"time"
)

// The records layout draws continuation days of a multi-day event inside a
// fixed business-hours window. This is a drawing convention carried over
// from the planner it mirrors, not a scheduling constraint.
const (
	BusinessDayStartHour = 8
	BusinessDayEndHour   = 17
)

// Segment is the per-day rendering fragment of an event in the records
// week/day layouts. Gestures always target the original event, never a
// segment.
type Segment struct {
	Event    Event
	Day      time.Time
	Start    time.Time
	End      time.Time
	Position SpanPosition

	TopHandle    bool
	BottomHandle bool
}

// RecordsView lays out days as rows with no resource axis, for tables with
// one implicit owner. Month mode buckets whole days; week and day modes
// split multi-day events into hour-bounded segments.
type RecordsView struct {
	mode      ViewMode
	weekStart time.Weekday
	metrics   Metrics
}

func NewRecordsView(weekStart time.Weekday, metrics Metrics) *RecordsView {
	return &RecordsView{mode: ModeMonth, weekStart: weekStart, metrics: metrics}
}

func (v *RecordsView) Mode() ViewMode     { return v.mode }
func (v *RecordsView) SetMode(m ViewMode) { v.mode = m }

func (v *RecordsView) Days(anchor time.Time) []time.Time {
	return daysFor(v.mode, anchor, v.weekStart)
}

// MonthCells buckets events per calendar day of anchor's month, by day-span
// inclusion, exactly as the matrix layout filters its columns.
func (v *RecordsView) MonthCells(events []Event, anchor time.Time, drag *DragState) []Cell {
	days := daysFor(ModeMonth, anchor, v.weekStart)
	cells := make([]Cell, 0, len(days))
	for _, day := range days {
		cell := Cell{Date: day}
		for _, ev := range events {
			if !CoversDate(ev.Start, ev.End, day) {
				continue
			}
			pos := PositionInSpan(ev.Start, ev.End, day)
			cell.Blocks = append(cell.Blocks, Block{
				Event:        ev,
				Position:     pos,
				HeightPx:     v.metrics.BlockHeight(ev.Start, ev.End),
				Dragged:      isDragged(ev, drag),
				TopHandle:    pos == PositionFirst || pos == PositionSingle,
				BottomHandle: pos == PositionLast || pos == PositionSingle,
			})
		}
		sort.SliceStable(cell.Blocks, func(i, j int) bool {
			return cell.Blocks[i].Event.Start.Before(cell.Blocks[j].Event.Start)
		})
		cells = append(cells, cell)
	}
	return cells
}

// Segments splits every event touching the given days into per-day hour
// spans: the real start until 17:00 on the first day, 08:00 until the real
// end on the last, and the full business window in between. Single-day
// events keep their own bounds.
func (v *RecordsView) Segments(events []Event, days []time.Time) []Segment {
	var segs []Segment
	for _, ev := range events {
		for _, day := range days {
			if !CoversDate(ev.Start, ev.End, day) {
				continue
			}
			segs = append(segs, segmentFor(ev, day))
		}
	}
	sort.SliceStable(segs, func(i, j int) bool {
		if !segs[i].Day.Equal(segs[j].Day) {
			return segs[i].Day.Before(segs[j].Day)
		}
		return segs[i].Start.Before(segs[j].Start)
	})
	return segs
}

func segmentFor(ev Event, day time.Time) Segment {
	d := Normalize(day)
	pos := PositionInSpan(ev.Start, ev.End, day)

	start, end := ev.Start, ev.End
	switch pos {
	case PositionFirst:
		end = hourOn(d, BusinessDayEndHour)
	case PositionLast:
		start = hourOn(d, BusinessDayStartHour)
	case PositionMiddle:
		start = hourOn(d, BusinessDayStartHour)
		end = hourOn(d, BusinessDayEndHour)
	}

	return Segment{
		Event:        ev,
		Day:          d,
		Start:        start,
		End:          end,
		Position:     pos,
		TopHandle:    pos == PositionFirst || pos == PositionSingle,
		BottomHandle: pos == PositionLast || pos == PositionSingle,
	}
}

func hourOn(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}
