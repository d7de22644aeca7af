package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.Local)
}

func TestDaySpan(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{
			name:  "same day short event",
			start: date(2025, 3, 1, 9, 0),
			end:   date(2025, 3, 1, 11, 0),
			want:  1,
		},
		{
			name:  "same day zero duration",
			start: date(2025, 3, 1, 9, 0),
			end:   date(2025, 3, 1, 9, 0),
			want:  1,
		},
		{
			name:  "overnight counts both days",
			start: date(2025, 3, 1, 22, 0),
			end:   date(2025, 3, 2, 2, 0),
			want:  2,
		},
		{
			name:  "three day span",
			start: date(2025, 3, 1, 9, 0),
			end:   date(2025, 3, 3, 17, 0),
			want:  3,
		},
		{
			name:  "end just past midnight still counts its day",
			start: date(2025, 3, 1, 23, 59),
			end:   date(2025, 3, 2, 0, 1),
			want:  2,
		},
		{
			name:  "misordered range clamps to 1",
			start: date(2025, 3, 5, 9, 0),
			end:   date(2025, 3, 1, 9, 0),
			want:  1,
		},
		{
			name:  "across month boundary",
			start: date(2025, 2, 27, 10, 0),
			end:   date(2025, 3, 2, 10, 0),
			want:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaySpan(tt.start, tt.end); got != tt.want {
				t.Errorf("DaySpan = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDurationHours(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{"two hours", date(2025, 3, 1, 9, 0), date(2025, 3, 1, 11, 0), 2},
		{"half hour", date(2025, 3, 1, 9, 0), date(2025, 3, 1, 9, 30), 0.5},
		{"zero", date(2025, 3, 1, 9, 0), date(2025, 3, 1, 9, 0), 0},
		{"negative when misordered", date(2025, 3, 1, 11, 0), date(2025, 3, 1, 9, 0), -2},
		{"across days", date(2025, 3, 1, 22, 0), date(2025, 3, 2, 4, 0), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurationHours(tt.start, tt.end); got != tt.want {
				t.Errorf("DurationHours = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoversDate(t *testing.T) {
	start := date(2025, 3, 10, 14, 0)
	end := date(2025, 3, 12, 10, 0)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"day before", date(2025, 3, 9, 23, 0), false},
		{"first day any hour", date(2025, 3, 10, 0, 0), true},
		{"middle day", date(2025, 3, 11, 12, 0), true},
		{"last day after event end hour", date(2025, 3, 12, 23, 0), true},
		{"day after", date(2025, 3, 13, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoversDate(start, end, tt.date); got != tt.want {
				t.Errorf("CoversDate(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestIsMultiDay(t *testing.T) {
	if IsMultiDay(date(2025, 3, 1, 0, 0), date(2025, 3, 1, 23, 59)) {
		t.Error("same-day event reported as multi-day")
	}
	if !IsMultiDay(date(2025, 3, 1, 23, 0), date(2025, 3, 2, 1, 0)) {
		t.Error("overnight event not reported as multi-day")
	}
}

func TestPositionInSpan(t *testing.T) {
	start := date(2025, 3, 10, 14, 0)
	end := date(2025, 3, 13, 10, 0)

	tests := []struct {
		name string
		date time.Time
		want SpanPosition
	}{
		{"first day", date(2025, 3, 10, 0, 0), PositionFirst},
		{"second day", date(2025, 3, 11, 0, 0), PositionMiddle},
		{"third day", date(2025, 3, 12, 0, 0), PositionMiddle},
		{"last day", date(2025, 3, 13, 0, 0), PositionLast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PositionInSpan(start, end, tt.date); got != tt.want {
				t.Errorf("PositionInSpan = %v, want %v", got, tt.want)
			}
		})
	}

	// A same-day span is single on its own day, never first or last.
	s := date(2025, 3, 10, 9, 0)
	e := date(2025, 3, 10, 17, 0)
	if got := PositionInSpan(s, e, s); got != PositionSingle {
		t.Errorf("same-day span = %v, want single", got)
	}
}

func TestInstanceKeyString(t *testing.T) {
	k := InstanceKey{ID: "42", Start: date(2025, 3, 1, 9, 30)}
	want := "42-2025-03-01T09:30:00"
	if got := k.String(); got != want {
		t.Errorf("key = %q, want %q", got, want)
	}

	// Same record at two different starts yields distinct keys.
	k2 := InstanceKey{ID: "42", Start: date(2025, 3, 2, 9, 30)}
	if k.String() == k2.String() {
		t.Error("keys for different starts should differ")
	}
}

func TestBlockHeightClamp(t *testing.T) {
	m := DefaultMetrics()

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"short event clamps to minimum", date(2025, 3, 1, 9, 0), date(2025, 3, 1, 10, 0), 40},
		{"mid-range scales linearly", date(2025, 3, 1, 8, 0), date(2025, 3, 1, 18, 0), 80},
		{"long event clamps to full-day maximum", date(2025, 3, 1, 9, 0), date(2025, 3, 2, 19, 0), 192},
		{"misordered range clamps to minimum", date(2025, 3, 1, 11, 0), date(2025, 3, 1, 9, 0), 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.BlockHeight(tt.start, tt.end); got != tt.want {
				t.Errorf("BlockHeight = %d, want %d", got, tt.want)
			}
		})
	}
}
