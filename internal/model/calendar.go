package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var (
	ErrInvalidDate  = errors.New("model: invalid calendar date")
	ErrInvalidClock = errors.New("model: invalid clock time")
)

// CalendarDate is a local calendar day rendered as YYYY-MM-DD.
type CalendarDate string

func DateOf(t time.Time) CalendarDate {
	return CalendarDate(t.Format(DateLayout))
}

func ParseDate(raw string) (CalendarDate, error) {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse(DateLayout, raw); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return CalendarDate(raw), nil
}

func (d CalendarDate) String() string { return string(d) }

func (d CalendarDate) IsValid() bool {
	_, err := time.Parse(DateLayout, string(d))
	return err == nil
}

// Time returns midnight of the date in loc.
func (d CalendarDate) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, string(d), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, d)
	}
	return t, nil
}

func (d CalendarDate) AddDays(n int) CalendarDate {
	t, err := d.Time(time.Local)
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// ClockTime is a zero-padded 24h HH:MM wall-clock time.
type ClockTime string

func ClockOf(t time.Time) ClockTime {
	return ClockTime(t.Format(ClockLayout))
}

func ParseClock(raw string) (ClockTime, error) {
	raw = strings.TrimSpace(raw)
	parsed, err := time.Parse(ClockLayout, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return ClockOf(parsed), nil
}

func (c ClockTime) String() string { return string(c) }

func (c ClockTime) IsValid() bool {
	parsed, err := time.Parse(ClockLayout, string(c))
	return err == nil && ClockOf(parsed) == c
}
