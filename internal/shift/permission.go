package shift

import (
	"strings"
	"time"
)

// bookingWindowDays is how far ahead a standard user's near-term lockout
// extends: slots up to this many days out can only be created, never edited.
const bookingWindowDays = 21

// Outcome is the result of evaluating one cell click.
type Outcome int

const (
	Denied Outcome = iota
	OpenCreate
	OpenEdit
)

func (o Outcome) String() string {
	switch o {
	case OpenCreate:
		return "create"
	case OpenEdit:
		return "edit"
	}
	return "denied"
}

// Decide evaluates a cell click. It is a pure function of its inputs plus
// the fixed window; there is no carried state between clicks.
//
// Admins edit anything. Standard users cannot touch today or the past; in
// the near-term window they may only claim open slots; beyond it they may
// claim open slots or edit cells they themselves occupy.
func Decide(role Role, userName string, date, today time.Time, slot *Slot) Outcome {
	if role == RoleAdmin {
		return OpenEdit
	}

	day := truncate(date)
	now := truncate(today)
	limit := now.AddDate(0, 0, bookingWindowDays)

	if !day.After(now) {
		return Denied
	}
	if slot == nil {
		return OpenCreate
	}
	if day.After(limit) && strings.EqualFold(strings.TrimSpace(slot.Name), strings.TrimSpace(userName)) {
		return OpenEdit
	}
	return Denied
}

func truncate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
