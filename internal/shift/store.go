package shift

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrMissingShift blocks a save with no site code: local state is not
// touched and nothing is sent.
var ErrMissingShift = errors.New("shift is required")

// Backend is the roster's remote collaborator.
type Backend interface {
	FetchSchedule(ctx context.Context, typ ScheduleType) (ScheduleData, error)
	SaveSlot(ctx context.Context, p SlotPayload) error
	DeleteSlot(ctx context.Context, typ ScheduleType, date, timeSlot string) error
}

// Store owns one roster's month grid. Saves and deletes patch the grid and
// the fetched records optimistically and persist asynchronously; a failed
// persist restores the previous state and is otherwise only logged.
type Store struct {
	backend Backend
	typ     ScheduleType
	log     *slog.Logger

	mu    sync.Mutex
	year  int
	month time.Month
	data  ScheduleData
	grid  []Day

	wg sync.WaitGroup
}

func NewStore(backend Backend, typ ScheduleType, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	now := time.Now()
	return &Store{
		backend: backend,
		typ:     typ,
		log:     log.With("schedule", string(typ)),
		year:    now.Year(),
		month:   now.Month(),
	}
}

func (s *Store) Type() ScheduleType { return s.typ }

// Load replaces the roster data and rebuilds the grid.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.backend.FetchSchedule(ctx, s.typ)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.rebuildLocked()
	return nil
}

// SetMonth moves the grid to another month. The slot data already fetched is
// reused; the grid is rebuilt wholesale.
func (s *Store) SetMonth(year int, month time.Month) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.year = year
	s.month = month
	s.rebuildLocked()
}

func (s *Store) Month() (int, time.Month) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.year, s.month
}

// Grid returns the current month grid. The slice is shared; callers treat it
// as read-only between mutations.
func (s *Store) Grid() []Day {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid
}

func (s *Store) Shifts() []Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Option(nil), s.data.Shifts...)
}

func (s *Store) Volunteers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.data.Volunteers...)
}

func (s *Store) TimeSlots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.data.TimeSlots...)
}

// Save validates and stores one cell, patching the grid at
// (dayIndex, slotIndex) before the persistence call resolves.
func (s *Store) Save(dayIndex, slotIndex int, name, shiftCode, dev string, access Access) error {
	if shiftCode == "" {
		return ErrMissingShift
	}

	s.mu.Lock()
	if dayIndex < 0 || dayIndex >= len(s.grid) {
		s.mu.Unlock()
		return errors.New("day index out of range")
	}
	day := &s.grid[dayIndex]
	if slotIndex < 0 || slotIndex >= len(day.Slots) {
		s.mu.Unlock()
		return errors.New("slot index out of range")
	}

	prev := s.snapshotLocked()
	day.Slots[slotIndex] = &Slot{Name: name, Shift: shiftCode, Dev: dev, Access: access}
	payload := SlotPayload{
		Date:     DateOn(s.year, s.month, day.Day),
		TimeSlot: s.data.TimeSlots[slotIndex],
		Name:     name,
		Shift:    shiftCode,
		Dev:      dev,
		Type:     s.typ,
		Access:   access,
	}
	// Mirror the patch into the fetched records so a month change and back
	// rebuilds the same cell instead of reverting it.
	s.patchRecordLocked(payload.Date, payload.TimeSlot, &SlotRecord{
		Date:     payload.Date,
		TimeSlot: payload.TimeSlot,
		Name:     name,
		Shift:    shiftCode,
		Dev:      dev,
		Access:   access.String(),
	})
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.backend.SaveSlot(context.Background(), payload); err != nil {
			s.log.Error("save slot failed", "date", payload.Date, "timeSlot", payload.TimeSlot, "err", err)
			s.restore(prev)
		}
	}()
	return nil
}

// Delete clears one cell and persists the removal.
func (s *Store) Delete(dayIndex, slotIndex int) error {
	s.mu.Lock()
	if dayIndex < 0 || dayIndex >= len(s.grid) {
		s.mu.Unlock()
		return errors.New("day index out of range")
	}
	day := &s.grid[dayIndex]
	if slotIndex < 0 || slotIndex >= len(day.Slots) {
		s.mu.Unlock()
		return errors.New("slot index out of range")
	}

	prev := s.snapshotLocked()
	day.Slots[slotIndex] = nil
	date := DateOn(s.year, s.month, day.Day)
	timeSlot := s.data.TimeSlots[slotIndex]
	s.patchRecordLocked(date, timeSlot, nil)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.backend.DeleteSlot(context.Background(), s.typ, date, timeSlot); err != nil {
			s.log.Error("delete slot failed", "date", date, "timeSlot", timeSlot, "err", err)
			s.restore(prev)
		}
	}()
	return nil
}

// Flush waits for in-flight persistence calls.
func (s *Store) Flush() {
	s.wg.Wait()
}

func (s *Store) rebuildLocked() {
	s.grid = BuildMonthGrid(s.year, s.month, s.data.Slots, s.data.TimeSlots)
}

// patchRecordLocked upserts (rec non-nil) or removes (rec nil) the fetched
// record for one (date, timeSlot) cell.
func (s *Store) patchRecordLocked(date, timeSlot string, rec *SlotRecord) {
	for i, r := range s.data.Slots {
		if r.Date == date && r.TimeSlot == timeSlot {
			if rec == nil {
				s.data.Slots = append(s.data.Slots[:i], s.data.Slots[i+1:]...)
			} else {
				s.data.Slots[i] = *rec
			}
			return
		}
	}
	if rec != nil {
		s.data.Slots = append(s.data.Slots, *rec)
	}
}

// rosterState is a rollback point covering both the derived grid and the
// fetched records it is rebuilt from.
type rosterState struct {
	grid    []Day
	records []SlotRecord
}

func (s *Store) snapshotLocked() rosterState {
	grid := make([]Day, len(s.grid))
	for i, d := range s.grid {
		grid[i] = d
		grid[i].Slots = append([]*Slot(nil), d.Slots...)
	}
	return rosterState{
		grid:    grid,
		records: append([]SlotRecord(nil), s.data.Slots...),
	}
}

func (s *Store) restore(state rosterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = state.grid
	s.data.Slots = state.records
}
