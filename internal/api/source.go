// Package api talks to the records backend: JSON envelopes with an apiRoute
// discriminator over HTTP, plus a file-backed source for offline use.
// Timestamps cross this boundary in the backend's wall-clock layout; free
// text fields pass through raw and are normalized by the stores.
package api

import (
	"github.com/operaviva/shiftcal/internal/calendar"
	"github.com/operaviva/shiftcal/internal/shift"
)

// Source is a data source serving both the calendar and the roster. The two
// store packages declare the halves they need; Source is the union a caller
// wires at startup.
type Source interface {
	calendar.Backend
	shift.Backend
}

var (
	_ Source = (*Client)(nil)
	_ Source = (*FileSource)(nil)
)
