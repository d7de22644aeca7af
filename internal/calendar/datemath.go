package calendar

import (
	"math"
	"time"
)

// keyLayout is the wall-clock timestamp layout used in instance keys. It
// matches the backend's local serialization so keys are stable across a
// fetch/persist round trip.
const keyLayout = "2006-01-02T15:04:05"

// InstanceKey identifies one rendered instance of an event: the same record
// can appear at more than one point in time while a reschedule is in flight,
// so identity for grid purposes is (id, start), not id alone.
type InstanceKey struct {
	ID    string
	Start time.Time
}

func (k InstanceKey) String() string {
	return k.ID + "-" + k.Start.Format(keyLayout)
}

// SpanPosition classifies one calendar day relative to an event's day span.
// It drives rendering only: which segments get rounded corners, connector
// arrows and resize handles.
type SpanPosition int

const (
	PositionSingle SpanPosition = iota
	PositionFirst
	PositionMiddle
	PositionLast
)

func (p SpanPosition) String() string {
	switch p {
	case PositionFirst:
		return "first"
	case PositionMiddle:
		return "middle"
	case PositionLast:
		return "last"
	}
	return "single"
}

// Normalize strips the time of day, returning local midnight of d's calendar
// day in d's location.
func Normalize(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// daysBetween counts calendar days from a to b after normalization. Rounding
// absorbs DST transitions, which make some day gaps 23 or 25 hours.
func daysBetween(a, b time.Time) int {
	return int(math.Round(Normalize(b).Sub(Normalize(a)).Hours() / 24))
}

// DaySpan is the inclusive day count an event touches. Same-day events span
// exactly 1 regardless of duration; a misordered range still reports 1.
func DaySpan(start, end time.Time) int {
	n := daysBetween(start, end) + 1
	if n < 1 {
		return 1
	}
	return n
}

// DurationHours is the event length in hours, possibly fractional. A
// misordered range yields a negative value; guarding is the caller's job.
func DurationHours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// CoversDate reports whether date's calendar day falls inside the event's
// day span, inclusive of both edges.
func CoversDate(start, end, date time.Time) bool {
	d := Normalize(date)
	return !d.Before(Normalize(start)) && !d.After(Normalize(end))
}

// IsMultiDay reports whether the event's end falls on a later calendar day
// than its start.
func IsMultiDay(start, end time.Time) bool {
	return Normalize(end).After(Normalize(start))
}

// PositionInSpan classifies date within the event's day span. A same-day
// span is always single, never first or last. The caller is expected to have
// checked CoversDate; a date outside the span classifies as middle.
func PositionInSpan(start, end, date time.Time) SpanPosition {
	ns, ne, d := Normalize(start), Normalize(end), Normalize(date)
	switch {
	case ns.Equal(ne):
		return PositionSingle
	case d.Equal(ns):
		return PositionFirst
	case d.Equal(ne):
		return PositionLast
	}
	return PositionMiddle
}
