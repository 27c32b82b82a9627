package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidFormat is returned for any clock or datetime string the parsers
// do not accept. Callers are expected to surface it, never coerce.
var ErrInvalidFormat = errors.New("invalid time format")

const DayLayout = "2006-01-02"

// Clock is a naive time of day.
type Clock struct {
	Hour int
	Min  int
	Sec  int
}

func (c Clock) String() string {
	if c.Sec != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Min, c.Sec)
	}
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Min)
}

// Minutes returns the clock value as minutes since midnight, seconds dropped.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Min
}

// ParseClock accepts "H:M", "H:M:S" and "H:M:S.fraction" (the fraction is
// discarded).
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	var sec int
	if len(parts) == 3 {
		secPart, _, _ := strings.Cut(parts[2], ".")
		sec, err = strconv.Atoi(secPart)
		if err != nil {
			return Clock{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
	}

	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return Clock{Hour: h, Min: m, Sec: sec}, nil
}

var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDateTime parses an ISO-8601 datetime. A trailing "Z" parses as the
// +00:00 offset; naive datetimes (no offset) parse as UTC.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

// ParseDay parses a calendar day ("2006-01-02") as UTC midnight.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return t, nil
}

// WorkingWindow combines a calendar day with a start/end time of day. When
// end <= start the window wraps past midnight and the end lands on the next
// day (overnight shift). The same rule applies anywhere a clock pair becomes
// a datetime pair: crew hours and preferred arrival bands alike.
func WorkingWindow(day time.Time, start, end Clock) (time.Time, time.Time) {
	from := time.Date(day.Year(), day.Month(), day.Day(), start.Hour, start.Min, start.Sec, 0, day.Location())
	to := time.Date(day.Year(), day.Month(), day.Day(), end.Hour, end.Min, end.Sec, 0, day.Location())
	if !to.After(from) {
		to = to.AddDate(0, 0, 1)
	}
	return from, to
}

// MinutesBetween returns whole minutes from start to end, flooring away
// leftover seconds.
func MinutesBetween(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
