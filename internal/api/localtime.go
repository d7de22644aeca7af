package api

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the backend's timestamp format: local wall-clock fields with no
// zone designator. This is deliberately not RFC 3339; the backend interprets
// the fields as-is, and converting through UTC would silently shift times
// across DST boundaries or a backend timezone mismatch.
const Layout = "2006-01-02T15:04:05"

// LocalTime marshals as the backend's wall-clock layout and parses the same
// shape back in the local zone.
type LocalTime struct {
	time.Time
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(Layout) + `"`), nil
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseLocal(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// FormatLocal serializes d in the backend layout.
func FormatLocal(d time.Time) string {
	return d.Format(Layout)
}

// ParseLocal parses a backend timestamp into the local zone.
func ParseLocal(s string) (time.Time, error) {
	parsed, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return parsed, nil
}
