package api

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/operaviva/shiftcal/internal/calendar"
	"github.com/operaviva/shiftcal/internal/shift"
)

// FileSource serves and persists the same dataset from one JSON document on
// disk. It stands in for the backend when working offline and doubles as a
// seeded development fixture; edits made by other tools are picked up
// through Watch.
type FileSource struct {
	path string

	mu  sync.Mutex
	doc fileDoc
}

type fileDoc struct {
	Events          []eventRecord               `json:"events"`
	UnplannedEvents []eventRecord               `json:"unplannedEvents,omitempty"`
	Resources       []resourceRecord            `json:"resources,omitempty"`
	Schedules       map[string]scheduleResponse `json:"schedules,omitempty"`
}

func NewFileSource(path string) (*FileSource, error) {
	fs := &FileSource{path: path}
	if err := fs.reload(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (f *FileSource) reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read data file: %w", err)
	}
	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse data file %s: %w", f.path, err)
	}
	f.mu.Lock()
	f.doc = doc
	f.mu.Unlock()
	return nil
}

func (f *FileSource) flush() error {
	f.mu.Lock()
	data, err := json.MarshalIndent(f.doc, "", "  ")
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o644)
}

// Watch reloads the document when the file changes on disk and then calls
// onChange. Close the returned watcher on shutdown.
func (f *FileSource) Watch(onChange func()) (*Watcher, error) {
	w, err := NewWatcher(func(string) {
		if err := f.reload(); err == nil && onChange != nil {
			onChange()
		}
	})
	if err != nil {
		return nil, err
	}
	if err := w.Add(f.path); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

func (f *FileSource) FetchCalendar(_ context.Context, _ string) (calendar.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return calendar.Snapshot{
		Events:    toEvents(f.doc.Events),
		Unplanned: toEvents(f.doc.UnplannedEvents),
		Resources: toResources(f.doc.Resources),
	}, nil
}

func (f *FileSource) SaveSchedule(_ context.Context, _ string, id string, start, end *time.Time, resourceID string) error {
	f.mu.Lock()
	if start == nil || end == nil {
		// Unschedule: move the record to the unplanned list.
		for i, r := range f.doc.Events {
			if r.ID == id {
				f.doc.Events = append(f.doc.Events[:i], f.doc.Events[i+1:]...)
				f.doc.UnplannedEvents = append(f.doc.UnplannedEvents, r)
				break
			}
		}
	} else {
		updated := false
		for i, r := range f.doc.Events {
			if r.ID == id {
				f.doc.Events[i].Start = LocalTime{Time: *start}
				f.doc.Events[i].End = LocalTime{Time: *end}
				if resourceID != "" {
					f.doc.Events[i].ResourceID = resourceID
				}
				updated = true
				break
			}
		}
		if !updated {
			for i, r := range f.doc.UnplannedEvents {
				if r.ID == id {
					r.Start = LocalTime{Time: *start}
					r.End = LocalTime{Time: *end}
					if resourceID != "" {
						r.ResourceID = resourceID
					}
					f.doc.UnplannedEvents = append(f.doc.UnplannedEvents[:i], f.doc.UnplannedEvents[i+1:]...)
					f.doc.Events = append(f.doc.Events, r)
					break
				}
			}
		}
	}
	f.mu.Unlock()
	return f.flush()
}

func (f *FileSource) FetchSchedule(_ context.Context, typ shift.ScheduleType) (shift.ScheduleData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resp, ok := f.doc.Schedules[string(typ)]
	if !ok {
		return shift.ScheduleData{}, fmt.Errorf("no %q schedule in %s", typ, f.path)
	}
	return toScheduleData(resp), nil
}

func (f *FileSource) SaveSlot(_ context.Context, p shift.SlotPayload) error {
	f.mu.Lock()
	resp := f.doc.Schedules[string(p.Type)]
	record := slotRecord{
		Date:     p.Date,
		TimeSlot: p.TimeSlot,
		Name:     p.Name,
		Shift:    p.Shift,
		Dev:      p.Dev,
		Access:   p.Access.String(),
	}
	replaced := false
	for i, s := range resp.Slots {
		if s.Date == p.Date && s.TimeSlot == p.TimeSlot {
			resp.Slots[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		resp.Slots = append(resp.Slots, record)
	}
	if f.doc.Schedules == nil {
		f.doc.Schedules = make(map[string]scheduleResponse)
	}
	f.doc.Schedules[string(p.Type)] = resp
	f.mu.Unlock()
	return f.flush()
}

func (f *FileSource) DeleteSlot(_ context.Context, typ shift.ScheduleType, date, timeSlot string) error {
	f.mu.Lock()
	resp := f.doc.Schedules[string(typ)]
	for i, s := range resp.Slots {
		if s.Date == date && s.TimeSlot == timeSlot {
			resp.Slots = append(resp.Slots[:i], resp.Slots[i+1:]...)
			break
		}
	}
	if f.doc.Schedules == nil {
		f.doc.Schedules = make(map[string]scheduleResponse)
	}
	f.doc.Schedules[string(typ)] = resp
	f.mu.Unlock()
	return f.flush()
}
