package shift

import (
	"strings"
	"time"
)

// BuildMonthGrid derives one Day per calendar day of the month. For each
// time-slot column it looks up a record by exact (date, timeSlot) pair,
// trims the free-text fields and normalizes access; missing cells stay nil.
// This is the single normalization point for roster data.
func BuildMonthGrid(year int, month time.Month, records []SlotRecord, timeSlots []string) []Day {
	type cellKey struct{ date, slot string }
	byCell := make(map[cellKey]SlotRecord, len(records))
	for _, r := range records {
		byCell[cellKey{r.Date, r.TimeSlot}] = r
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	n := first.AddDate(0, 1, -1).Day()

	days := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		date := first.AddDate(0, 0, i)
		day := Day{
			Day:     date.Day(),
			DayName: date.Weekday().String(),
			Weekend: date.Weekday() == time.Saturday || date.Weekday() == time.Sunday,
			Slots:   make([]*Slot, len(timeSlots)),
		}
		dateStr := date.Format("2006-01-02")
		for j, ts := range timeSlots {
			if r, ok := byCell[cellKey{dateStr, ts}]; ok {
				day.Slots[j] = &Slot{
					Name:   strings.TrimSpace(r.Name),
					Shift:  strings.TrimSpace(r.Shift),
					Dev:    strings.TrimSpace(r.Dev),
					Access: ParseAccess(r.Access),
				}
			}
		}
		days = append(days, day)
	}
	return days
}
