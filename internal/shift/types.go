// Package shift implements the volunteer roster: a month grid of
// (day, time-slot) cells and the role/date-window rules that decide whether
// a cell click may open an editor.
package shift

import (
	"strings"
	"time"
)

// ScheduleType selects which roster a store is bound to.
type ScheduleType string

const (
	SchedulePhone ScheduleType = "telefono"
	ScheduleChat  ScheduleType = "chat"
)

// Access is the server-assigned per-slot permission tag. It gates client
// affordances only; the server re-validates every mutation.
type Access int

const (
	AccessView Access = iota
	AccessEdit
	AccessDelete
)

// ParseAccess normalizes a free-text access tag once, at the ingestion
// boundary. Unknown, empty and mixed-case values all collapse to view.
func ParseAccess(s string) Access {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "edit":
		return AccessEdit
	case "delete":
		return AccessDelete
	}
	return AccessView
}

func (a Access) String() string {
	switch a {
	case AccessEdit:
		return "edit"
	case AccessDelete:
		return "delete"
	}
	return "view"
}

// Role is the caller's normalized role.
type Role int

const (
	RoleStandard Role = iota
	RoleAdmin
)

// ParseRole normalizes the backend's free-text role strings. The upstream
// data mixes cases and languages ("Amministratore", "admin"), so matching is
// case-insensitive and anything unrecognized is a standard user.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "amministratore", "admin", "administrator":
		return RoleAdmin
	}
	return RoleStandard
}

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "standard"
}

// SlotRecord is one occupied (date, timeSlot) cell as fetched from the
// backend, fields still raw.
type SlotRecord struct {
	Date     string // YYYY-MM-DD
	TimeSlot string
	Name     string
	Shift    string
	Dev      string
	Access   string
}

// Slot is a normalized occupied cell. At most one Slot exists per
// (date, timeSlot) pair within a schedule type.
type Slot struct {
	Name   string
	Shift  string
	Dev    string
	Access Access
}

// Day is one derived row of the month grid: one pointer per time-slot
// column, nil where the slot is open. The grid is rebuilt wholesale whenever
// its inputs change, never patched incrementally.
type Day struct {
	Day     int
	DayName string
	Weekend bool
	Slots   []*Slot
}

// FullyBooked reports whether every time-slot column of the day is taken.
func (d Day) FullyBooked() bool {
	for _, s := range d.Slots {
		if s == nil {
			return false
		}
	}
	return len(d.Slots) > 0
}

// Option is one selectable site code.
type Option struct {
	Value string
	Label string
}

// ScheduleData is one wholesale roster fetch.
type ScheduleData struct {
	Shifts     []Option
	Volunteers []string
	Slots      []SlotRecord
	TimeSlots  []string
}

// SlotPayload is the flat save payload for one cell.
type SlotPayload struct {
	Date     string // YYYY-MM-DD
	TimeSlot string
	Name     string
	Shift    string
	Dev      string
	Type     ScheduleType
	Access   Access
}

// DateOn formats a grid position as the backend's date string.
func DateOn(year int, month time.Month, day int) string {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local).Format("2006-01-02")
}
