package calendar

import (
	"time"
)

// Event is a schedulable record bound to one backend table. An event with a
// committed time range lives in the scheduled set; the same shape is reused
// for unplanned events, where Start/End are only placeholders for the next
// promotion back onto the grid.
type Event struct {
	ID          string
	Title       string
	Start       time.Time
	End         time.Time
	Color       string
	Description string
	ResourceID  string
}

// Key returns the composite instance key for this event.
func (e Event) Key() InstanceKey {
	return InstanceKey{ID: e.ID, Start: e.Start}
}

// Resource is a row entity events can be assigned to in the matrix layout.
type Resource struct {
	ID   string
	Name string
}

// Snapshot is one wholesale fetch result for a bound table. Fetches replace
// store state entirely; they are never applied as patches.
type Snapshot struct {
	Events    []Event
	Unplanned []Event
	Resources []Resource
}

// Handle identifies which edge of an event block a resize gesture grabbed.
type Handle int

const (
	HandleTop Handle = iota
	HandleBottom
	HandleRight
)

func (h Handle) String() string {
	switch h {
	case HandleTop:
		return "top"
	case HandleBottom:
		return "bottom"
	case HandleRight:
		return "right"
	}
	return "unknown"
}

// DragState is the transient state of an active drag gesture. It exists only
// between BeginDrag and Drop and is never persisted.
type DragState struct {
	Event         Event
	OriginalStart time.Time
	OriginalEnd   time.Time
	FromUnplanned bool
}

// ResizeState is the transient state of an active resize gesture.
type ResizeState struct {
	Key           InstanceKey
	Handle        Handle
	OriginalStart time.Time
	OriginalEnd   time.Time
	PointerX      int
	PointerY      int
}

// Metrics holds the pixel-to-unit constants for pointer-driven gestures and
// block sizing. They are configuration, not magic numbers, so rendering
// density can change without touching gesture math.
type Metrics struct {
	DeadzonePx      int // pointer travel ignored before a resize takes effect
	ResizePxPerHour int // vertical travel per whole-hour delta
	ResizePxPerDay  int // horizontal travel per whole-day delta
	BlockPxPerHour  int // rendered block height per hour of duration
	MinBlockPx      int // shortest rendered block
}

// DefaultMetrics matches the densities the planner grid is drawn at.
func DefaultMetrics() Metrics {
	return Metrics{
		DeadzonePx:      10,
		ResizePxPerHour: 60,
		ResizePxPerDay:  100,
		BlockPxPerHour:  8,
		MinBlockPx:      40,
	}
}

// MaxBlockPx is the tallest rendered block: a full 24-hour day.
func (m Metrics) MaxBlockPx() int {
	return 24 * m.BlockPxPerHour
}

// BlockHeight converts an event duration to a rendered block height, clamped
// to [MinBlockPx, MaxBlockPx].
func (m Metrics) BlockHeight(start, end time.Time) int {
	h := int(DurationHours(start, end) * float64(m.BlockPxPerHour))
	if h < m.MinBlockPx {
		return m.MinBlockPx
	}
	if max := m.MaxBlockPx(); h > max {
		return max
	}
	return h
}
