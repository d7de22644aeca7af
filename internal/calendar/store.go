package calendar

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Gesture errors.
var (
	ErrNoActiveDrag   = errors.New("no drag gesture in progress")
	ErrNoActiveResize = errors.New("no resize gesture in progress")
)

// Backend is the remote collaborator a Store synchronizes with. A nil start
// and end on SaveSchedule clears the record's schedule (unschedule).
type Backend interface {
	FetchCalendar(ctx context.Context, tableID string) (Snapshot, error)
	SaveSchedule(ctx context.Context, tableID, id string, start, end *time.Time, resourceID string) error
}

// Store owns the scheduled, unplanned and resource collections for one bound
// table. Mutations apply to local state first and persist asynchronously;
// until the next fetch, local state is the source of truth for rendering.
// A failed persist restores the pre-mutation snapshot (last writer wins if
// another mutation landed in between) and is otherwise only logged.
type Store struct {
	backend Backend
	tableID string
	metrics Metrics
	log     *slog.Logger

	mu        sync.Mutex
	events    []Event
	unplanned []Event
	resources []Resource

	drag       *DragState
	resize     *ResizeState
	resized    bool
	resizePrev *Snapshot

	wg sync.WaitGroup
}

func NewStore(backend Backend, tableID string, metrics Metrics, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		backend: backend,
		tableID: tableID,
		metrics: metrics,
		log:     log.With("table", tableID),
	}
}

func (s *Store) Metrics() Metrics { return s.metrics }

// Load replaces all collections with a fresh fetch. It never patches.
func (s *Store) Load(ctx context.Context) error {
	snap, err := s.backend.FetchCalendar(ctx, s.tableID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = snap.Events
	s.unplanned = snap.Unplanned
	s.resources = snap.Resources
	return nil
}

// Events returns a copy of the scheduled set.
func (s *Store) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// Unplanned returns a copy of the unplanned set.
func (s *Store) Unplanned() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.unplanned...)
}

// Resources returns a copy of the resource list.
func (s *Store) Resources() []Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Resource(nil), s.resources...)
}

// Dragging returns the active drag state, or nil.
func (s *Store) Dragging() *DragState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return nil
	}
	d := *s.drag
	return &d
}

// Resizing returns the active resize state, or nil.
func (s *Store) Resizing() *ResizeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resize == nil {
		return nil
	}
	r := *s.resize
	return &r
}

// BeginDrag starts a drag gesture for ev, remembering its committed range so
// a drop can preserve duration. Renderers dim the dragged instance by
// comparing keys against this state.
func (s *Store) BeginDrag(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = &DragState{
		Event:         ev,
		OriginalStart: ev.Start,
		OriginalEnd:   ev.End,
		FromUnplanned: s.findUnplanned(ev.ID) >= 0,
	}
}

// CancelDrag discards the active drag, if any, without mutating collections.
func (s *Store) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = nil
}

// Drop completes the active drag onto a target day. hour < 0 keeps the
// original hour (day-granularity targets); the original minute is always
// preserved. Duration is carried over exactly, never recomputed. The
// resource assignment changes only when resourceID is non-empty. The drag
// state clears unconditionally, even when there is no active drag match.
func (s *Store) Drop(date time.Time, hour int, resourceID string) error {
	s.mu.Lock()
	if s.drag == nil {
		s.mu.Unlock()
		return ErrNoActiveDrag
	}
	d := *s.drag
	s.drag = nil

	if hour < 0 {
		hour = d.OriginalStart.Hour()
	}
	newStart := time.Date(date.Year(), date.Month(), date.Day(),
		hour, d.OriginalStart.Minute(), 0, 0, date.Location())
	newEnd := newStart.Add(d.OriginalEnd.Sub(d.OriginalStart))

	ev := d.Event
	ev.Start = newStart
	ev.End = newEnd
	if resourceID != "" {
		ev.ResourceID = resourceID
	}

	prev := s.snapshotLocked()
	if d.FromUnplanned {
		if i := s.findUnplanned(ev.ID); i >= 0 {
			s.unplanned = append(s.unplanned[:i], s.unplanned[i+1:]...)
		}
		s.events = append(s.events, ev)
	} else if i := s.findInstance(d.Event.Key()); i >= 0 {
		s.events[i] = ev
	} else {
		s.events = append(s.events, ev)
	}
	s.mu.Unlock()

	s.persistAsync("drop", prev, ev.ID, &ev.Start, &ev.End, ev.ResourceID)
	return nil
}

// BeginResize starts a resize gesture on one edge of ev, capturing the
// pointer origin for later delta computation.
func (s *Store) BeginResize(ev Event, handle Handle, x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resize = &ResizeState{
		Key:           ev.Key(),
		Handle:        handle,
		OriginalStart: ev.Start,
		OriginalEnd:   ev.End,
		PointerX:      x,
		PointerY:      y,
	}
	s.resized = false
	// Snapshot before any ResizeMove tick mutates the instance, so a failed
	// persist restores the pre-gesture range.
	s.resizePrev = s.snapshotLocked()
}

// ResizeMove applies the pointer position to the active resize. Travel under
// the deadzone is ignored; beyond it, vertical travel converts to whole-hour
// deltas and horizontal travel to whole-day deltas against the original
// range. An adjustment that would invert the range leaves the field
// unchanged for this tick: a silent clamp, not an error.
func (s *Store) ResizeMove(x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resize == nil {
		return ErrNoActiveResize
	}
	r := s.resize

	// Track by id: a top-handle adjustment moves the instance's start, so the
	// composite key only matches the first tick.
	i := s.findInstanceByID(r.Key.ID)
	if i < 0 {
		return nil
	}
	ev := &s.events[i]

	switch r.Handle {
	case HandleBottom:
		hours := s.pixelHours(y - r.PointerY)
		end := r.OriginalEnd.Add(time.Duration(hours) * time.Hour)
		if end.After(ev.Start) {
			s.markResizeLocked(ev, ev.Start, end)
		}
	case HandleTop:
		hours := s.pixelHours(y - r.PointerY)
		start := r.OriginalStart.Add(time.Duration(hours) * time.Hour)
		if start.Before(ev.End) {
			s.markResizeLocked(ev, start, ev.End)
		}
	case HandleRight:
		days := s.pixelDays(x - r.PointerX)
		end := r.OriginalEnd.AddDate(0, 0, days)
		if !Normalize(end).Before(Normalize(ev.Start)) {
			s.markResizeLocked(ev, ev.Start, end)
		}
	}
	return nil
}

// EndResize completes the active resize. The final range persists only when
// the gesture produced a net change; moving within the deadzone or clamping
// every tick makes no network call.
func (s *Store) EndResize() {
	s.mu.Lock()
	if s.resize == nil {
		s.mu.Unlock()
		return
	}
	r := *s.resize
	s.resize = nil
	changed := s.resized
	s.resized = false
	prev := s.resizePrev
	s.resizePrev = nil

	if !changed {
		s.mu.Unlock()
		return
	}
	i := s.findInstanceByID(r.Key.ID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	ev := s.events[i]
	s.mu.Unlock()

	s.persistAsync("resize", prev, ev.ID, &ev.Start, &ev.End, ev.ResourceID)
}

// SaveEvent persists a schedule for id without touching local state. Errors
// are logged, never surfaced synchronously.
func (s *Store) SaveEvent(id string, start, end time.Time, resourceID string) {
	s.persistAsync("save", nil, id, &start, &end, resourceID)
}

// Unschedule removes id from the scheduled set, reinserts it among the
// unplanned events with its fields preserved, and persists a cleared
// schedule for it.
func (s *Store) Unschedule(id string) {
	s.mu.Lock()
	i := s.findInstanceByID(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	prev := s.snapshotLocked()
	ev := s.events[i]
	s.events = append(s.events[:i], s.events[i+1:]...)
	s.unplanned = append(s.unplanned, ev)
	s.mu.Unlock()

	s.persistAsync("unschedule", prev, id, nil, nil, "")
}

// Flush waits for in-flight persistence calls. Intended for shutdown and
// tests; the UI never blocks on it.
func (s *Store) Flush() {
	s.wg.Wait()
}

func (s *Store) persistAsync(op string, prev *Snapshot, id string, start, end *time.Time, resourceID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.backend.SaveSchedule(context.Background(), s.tableID, id, start, end, resourceID)
		if err == nil {
			return
		}
		s.log.Error("persist failed", "op", op, "id", id, "err", err)
		if prev == nil {
			return
		}
		s.mu.Lock()
		s.events = prev.Events
		s.unplanned = prev.Unplanned
		s.mu.Unlock()
	}()
}

// pixelHours converts vertical pointer travel to a whole-hour delta.
func (s *Store) pixelHours(dy int) int {
	if abs(dy) <= s.metrics.DeadzonePx {
		return 0
	}
	return dy / s.metrics.ResizePxPerHour
}

// pixelDays converts horizontal pointer travel to a whole-day delta.
func (s *Store) pixelDays(dx int) int {
	if abs(dx) <= s.metrics.DeadzonePx {
		return 0
	}
	return dx / s.metrics.ResizePxPerDay
}

func (s *Store) markResizeLocked(ev *Event, start, end time.Time) {
	if !ev.Start.Equal(start) || !ev.End.Equal(end) {
		ev.Start = start
		ev.End = end
	}
	s.resized = !start.Equal(s.resize.OriginalStart) || !end.Equal(s.resize.OriginalEnd)
}

func (s *Store) snapshotLocked() *Snapshot {
	return &Snapshot{
		Events:    append([]Event(nil), s.events...),
		Unplanned: append([]Event(nil), s.unplanned...),
		Resources: s.resources,
	}
}

func (s *Store) findInstance(key InstanceKey) int {
	for i, ev := range s.events {
		if ev.ID == key.ID && ev.Start.Equal(key.Start) {
			return i
		}
	}
	return -1
}

func (s *Store) findInstanceByID(id string) int {
	for i, ev := range s.events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) findUnplanned(id string) int {
	for i, ev := range s.unplanned {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
