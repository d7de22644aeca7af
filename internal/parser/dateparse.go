// Package parser turns loose date input ("tomorrow", "next fri",
// "2025-03-14") into a calendar day, for the goto prompt and CLI flags.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type DateParser struct {
	now      time.Time
	location *time.Location
}

func NewDateParser() *DateParser {
	return &DateParser{
		now:      time.Now(),
		location: time.Local,
	}
}

// SetNow pins the reference date, for tests.
func (p *DateParser) SetNow(now time.Time) {
	p.now = now
}

var (
	weekdayRe  = regexp.MustCompile(`^(next|this)\s+(mon|monday|tue|tuesday|wed|wednesday|thu|thursday|fri|friday|sat|saturday|sun|sunday)$`)
	inRe       = regexp.MustCompile(`^in\s+(\d+)\s+(day|days|week|weeks|month|months)$`)
	isoRe      = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	slashRe    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{4}))?$`)
	monthDayRe = regexp.MustCompile(`^([a-z]{3,9})\s+(\d{1,2})(?:,?\s+(\d{4}))?$`)
)

// Parse resolves input to local midnight of the named day.
func (p *DateParser) Parse(input string) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty input")
	}

	switch s {
	case "today":
		return p.today(), nil
	case "tomorrow", "tmrw":
		return p.today().AddDate(0, 0, 1), nil
	case "yesterday":
		return p.today().AddDate(0, 0, -1), nil
	}

	if m := weekdayRe.FindStringSubmatch(s); m != nil {
		return p.nextWeekday(parseWeekday(m[2]), m[1] == "next"), nil
	}

	if m := inRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch {
		case strings.HasPrefix(m[2], "day"):
			return p.today().AddDate(0, 0, n), nil
		case strings.HasPrefix(m[2], "week"):
			return p.today().AddDate(0, 0, n*7), nil
		default:
			return p.today().AddDate(0, n, 0), nil
		}
	}

	if m := isoRe.FindStringSubmatch(s); m != nil {
		return p.makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	if m := slashRe.FindStringSubmatch(s); m != nil {
		year := p.now.Year()
		if m[3] != "" {
			year = atoi(m[3])
		}
		return p.makeDate(year, atoi(m[1]), atoi(m[2]))
	}

	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		month, ok := parseMonth(m[1])
		if !ok {
			return time.Time{}, fmt.Errorf("unknown month: %s", m[1])
		}
		year := p.now.Year()
		if m[3] != "" {
			year = atoi(m[3])
		}
		return p.makeDate(year, int(month), atoi(m[2]))
	}

	return time.Time{}, fmt.Errorf("cannot parse date: %s", input)
}

func (p *DateParser) today() time.Time {
	return time.Date(p.now.Year(), p.now.Month(), p.now.Day(), 0, 0, 0, 0, p.location)
}

func (p *DateParser) makeDate(year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid date %d-%d-%d", year, month, day)
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, p.location)
	if d.Day() != day {
		// Normalized away, e.g. Feb 30
		return time.Time{}, fmt.Errorf("invalid date %d-%d-%d", year, month, day)
	}
	return d, nil
}

// nextWeekday finds the upcoming occurrence of weekday. "next" always skips
// into the following week; "this" takes the nearest future occurrence.
func (p *DateParser) nextWeekday(weekday time.Weekday, isNext bool) time.Time {
	date := p.today()
	days := (int(weekday) - int(date.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	if isNext && days < 7 && date.Weekday() < weekday {
		days += 7
	}
	return date.AddDate(0, 0, days)
}

func parseWeekday(s string) time.Weekday {
	switch s[:3] {
	case "sun":
		return time.Sunday
	case "mon":
		return time.Monday
	case "tue":
		return time.Tuesday
	case "wed":
		return time.Wednesday
	case "thu":
		return time.Thursday
	case "fri":
		return time.Friday
	}
	return time.Saturday
}

func parseMonth(s string) (time.Month, bool) {
	months := map[string]time.Month{
		"jan": time.January, "feb": time.February, "mar": time.March,
		"apr": time.April, "may": time.May, "jun": time.June,
		"jul": time.July, "aug": time.August, "sep": time.September,
		"oct": time.October, "nov": time.November, "dec": time.December,
	}
	m, ok := months[s[:3]]
	return m, ok
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
